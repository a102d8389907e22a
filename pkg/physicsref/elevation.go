package physicsref

import (
	"math"

	core "github.com/orbitalarena/simcore/internal/core"
)

// SyntheticElevationSource is a reference ElevationSource: a smooth,
// deterministic terrain surface (layered sinusoids) rather than a
// real heightmap. It never returns !ok; the core's "treat as 0m MSL"
// fallback is exercised by tests constructing a source that does
// return !ok, not by this one.
type SyntheticElevationSource struct {
	AmplitudeM float64
}

func NewSyntheticElevationSource() *SyntheticElevationSource {
	return &SyntheticElevationSource{AmplitudeM: 800}
}

func (s *SyntheticElevationSource) ElevationM(g core.GeoPoint) (float64, bool) {
	lat := g.LatRad
	lon := g.LonRad
	elev := s.AmplitudeM * (0.5 + 0.5*math.Sin(lat*4)*math.Cos(lon*3))
	return math.Max(0, elev), true
}
