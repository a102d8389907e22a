package physicsref

import (
	"math"

	core "github.com/orbitalarena/simcore/internal/core"
)

// earthOrbitalPeriodS is the sidereal year, used by the heliocentric
// fallback below.
const earthOrbitalPeriodS = 365.25636 * 86400

// HeliocentricSunSource is the fallback sun-direction source: it
// negates Earth's heliocentric position to get the direction to the
// Sun. It models Earth's heliocentric position as a fixed circular
// orbit rather than consuming a real ephemeris library, and always
// reports a diagnostic noting the approximation so a host can tell
// this apart from the renderer-provided transform preferred when
// available.
type HeliocentricSunSource struct {
	EpochOffsetS float64
}

func NewHeliocentricSunSource() *HeliocentricSunSource {
	return &HeliocentricSunSource{}
}

func (s *HeliocentricSunSource) SunDirectionECI(simTimeS float64) (core.Vec3, string) {
	phase := 2 * math.Pi * (simTimeS + s.EpochOffsetS) / earthOrbitalPeriodS
	earthPos := core.Vec3{X: math.Cos(phase), Y: math.Sin(phase), Z: 0}
	sunDir := earthPos.Scale(-1).Normalize()
	return sunDir, "heliocentric sun direction is a fixed circular-orbit approximation, not a real ephemeris"
}

// RendererSunSource wraps a renderer-provided ICRF sun position and
// ICRF->ECEF rotation, applying the -GMST-about-Z rotation into
// sim-ECI. GMST is taken as 0 consistently with the GMST=0
// approximation used elsewhere in this core.
type RendererSunSource struct {
	// SunPositionICRF and RotationICRFToECEF are refreshed by the host
	// each frame from the renderer.
	SunPositionICRF    core.Vec3
	RotationICRFToECEF func(core.Vec3) core.Vec3
}

func (s *RendererSunSource) SunDirectionECI(simTimeS float64) (core.Vec3, string) {
	if s.RotationICRFToECEF == nil {
		return core.Vec3{}, "no renderer rotation available this frame"
	}
	ecef := s.RotationICRFToECEF(s.SunPositionICRF)
	return ecef.Normalize(), ""
}
