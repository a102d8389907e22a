package orbitaladapter

import (
	"math"

	core "github.com/orbitalarena/simcore/internal/core"
)

// Propagator is the reference implementation of core.OrbitalPropagator,
// a two-body Keplerian model. It exists because the real per-component
// orbital propagator is out of the core's scope, while test scenarios
// still need something to exercise the maneuver executor end to end.
type Propagator struct{}

func NewPropagator() *Propagator { return &Propagator{} }

// Update fills state.Orbital from the entity's cached ECI vectors. If
// no ECI cache is present yet, it is seeded from the geodetic position
// via GeodeticToECI first.
func (p *Propagator) Update(state *core.StateRecord, simTimeS float64) error {
	if state.ECIPosition == nil || state.ECIVelocity == nil {
		pos, vel := p.GeodeticToECI(state.Position, simTimeS)
		state.ECIPosition = &pos
		state.ECIVelocity = &vel
	}

	el := ElementsFromRV(*state.ECIPosition, *state.ECIVelocity)
	if el == nil || el.SMA <= 0 {
		return errDivergent
	}
	state.Orbital = el
	return nil
}

// GeodeticToECI converts a geodetic position into sim-ECI position and
// an assumed-circular eastward velocity, using the GMST=0
// approximation (ECI and ECEF axes treated as aligned at simTime=0;
// this reference adapter does not rotate further with simTimeS).
func (p *Propagator) GeodeticToECI(g core.GeoPoint, simTimeS float64) (pos, vel core.Vec3) {
	pos = g.ToECEF()
	rMag := pos.Magnitude()
	if rMag == 0 {
		return pos, core.Vec3{}
	}

	speed := math.Sqrt(EarthMu / rMag)
	east := core.Vec3{X: -math.Sin(g.LonRad), Y: math.Cos(g.LonRad), Z: 0}
	vel = east.Scale(speed)
	return pos, vel
}

type divergentError struct{ msg string }

func (e *divergentError) Error() string { return e.msg }

var errDivergent = &divergentError{msg: "orbital propagator produced a non-positive or unbound semi-major axis"}
