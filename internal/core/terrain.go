package core

import (
	"math"
	"time"
)

const (
	terrainScanHz          = 2.0
	terrainMaxAGLBeforeBailM = 3000.0
	terrainMaxEnableAltM     = 3500.0
	terrainDefaultAGLTargetM = 150.0
	terrainMinAGLTargetM     = 30.0
	terrainMaxAGLTargetM     = 2000.0
)

var terrainLookAheadsM = []float64{2000, 5000, 10000}

// TerrainFollowState is the per-player terrain-following state.
type TerrainFollowState struct {
	Enabled    bool
	AGLTargetM float64

	LastSampleWall time.Time
	hasLastSample  bool

	LastMessage string
}

// NewTerrainFollowState returns a disabled state with the default AGL
// target.
func NewTerrainFollowState() *TerrainFollowState {
	return &TerrainFollowState{AGLTargetM: terrainDefaultAGLTargetM}
}

// SetAGLTarget clamps the requested hold altitude to [30m, 2000m].
func (t *TerrainFollowState) SetAGLTarget(m float64) {
	t.AGLTargetM = math.Max(terrainMinAGLTargetM, math.Min(terrainMaxAGLTargetM, m))
}

// Enable turns terrain-following on if current altitude is at or
// below 3500m; otherwise it is rejected silently (no state mutation),
// matching the gated-enable shape of the other autopilot controls.
func (t *TerrainFollowState) Enable(currentAltM float64) bool {
	if currentAltM > terrainMaxEnableAltM {
		return false
	}
	t.Enabled = true
	t.hasLastSample = false
	return true
}

func (t *TerrainFollowState) Disable() {
	t.Enabled = false
}

// TerrainFollowController samples elevation at 2 Hz and drives the
// autopilot altitude-hold setpoint via synchronous look-ahead
// elevation sampling.
type TerrainFollowController struct {
	Source ElevationSource
}

func NewTerrainFollowController(source ElevationSource) *TerrainFollowController {
	return &TerrainFollowController{Source: source}
}

// Tick runs at most once per 500ms (2 Hz) of wall-clock time. It
// returns true if it updated the autopilot altitude-hold setpoint.
func (c *TerrainFollowController) Tick(now time.Time, t *TerrainFollowState, state *StateRecord, autopilot *AutopilotState) bool {
	if !t.Enabled {
		return false
	}

	agl := currentAGL(state, c.Source)
	if agl > terrainMaxAGLBeforeBailM {
		t.Enabled = false
		t.LastMessage = "terrain-following disabled: altitude exceeded 3000m AGL"
		return false
	}

	if t.hasLastSample && now.Sub(t.LastSampleWall) < time.Second/time.Duration(terrainScanHz) {
		return false
	}
	t.LastSampleWall = now
	t.hasLastSample = true

	samples := make([]float64, 0, len(terrainLookAheadsM)+1)
	here, ok := c.Source.ElevationM(state.Position)
	if !ok {
		here = 0
	}
	samples = append(samples, here)

	for _, distM := range terrainLookAheadsM {
		pt := projectAlongHeading(state.Position, state.HeadingRad, distM)
		elev, ok := c.Source.ElevationM(pt)
		if !ok {
			elev = 0
		}
		samples = append(samples, elev)
	}

	maxElev := samples[0]
	for _, s := range samples[1:] {
		if s > maxElev {
			maxElev = s
		}
	}

	autopilot.AltitudeHoldM = maxElev + t.AGLTargetM
	autopilot.Engaged = true
	return true
}

func currentAGL(state *StateRecord, source ElevationSource) float64 {
	ground, ok := source.ElevationM(state.Position)
	if !ok {
		ground = 0
	}
	return state.Position.AltM - ground
}

// projectAlongHeading advances a geodetic point distM meters along
// headingRad (measured clockwise from true north), using a flat-earth
// approximation adequate for a handful of kilometers of look-ahead.
func projectAlongHeading(p GeoPoint, headingRad, distM float64) GeoPoint {
	const metersPerDegLat = 111320.0
	dLat := (distM * math.Cos(headingRad)) / metersPerDegLat
	metersPerDegLon := metersPerDegLat * math.Cos(p.LatRad)
	if metersPerDegLon == 0 {
		metersPerDegLon = 1
	}
	dLon := (distM * math.Sin(headingRad)) / metersPerDegLon

	return GeoPoint{
		LatRad: p.LatRad + dLat*math.Pi/180,
		LonRad: p.LonRad + dLon*math.Pi/180,
		AltM:   p.AltM,
	}
}
