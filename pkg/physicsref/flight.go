// Package physicsref provides reference implementations of the
// per-entity physics step, sun-direction and terrain-elevation external
// collaborators (the orbital propagator reference is in
// pkg/orbitaladapter). These exist only to exercise internal/core end to
// end; the real flight/orbital integrators are explicitly out of the
// core's scope, in the same way a connector interface stays decoupled
// from its concrete transport adapters.
package physicsref

import (
	"math"

	core "github.com/orbitalarena/simcore/internal/core"
)

const (
	gravityMS2        = 9.80665
	dragCoefficient   = 0.02
	metersPerDegLat   = 111320.0
	maxTurnRatePerRad = 0.5
)

// FlightIntegrator is a semi-implicit Euler 3-DOF flight model:
// throttle drives forward acceleration, pitch/roll drive flight-path
// angle and heading rates, yaw trims heading directly. It assumes
// dt<=0.05s, the substep ceiling the clock enforces.
type FlightIntegrator struct{}

func NewFlightIntegrator() *FlightIntegrator { return &FlightIntegrator{} }

func (f *FlightIntegrator) Step(state *core.StateRecord, controls core.Controls, dt float64, engine core.EngineConfig) {
	if controls.ThrottleSet != nil {
		state.Throttle = *controls.ThrottleSet
	} else {
		const throttleRate = 0.5
		if controls.ThrottleUp {
			state.Throttle = math.Min(1, state.Throttle+throttleRate*dt)
		}
		if controls.ThrottleDown {
			state.Throttle = math.Max(0, state.Throttle-throttleRate*dt)
		}
	}

	state.PitchRad = clampRad(state.PitchRad+controls.Pitch*dt, -math.Pi/2, math.Pi/2)
	state.RollRad = clampRad(controls.Roll*math.Pi/3, -math.Pi/2, math.Pi/2)
	state.YawOffsetRad += controls.Yaw * dt

	thrustAccel := 0.0
	if engine.MassKg > 0 {
		thrustAccel = (engine.ThrustN * state.Throttle) / engine.MassKg
	}
	dragAccel := dragCoefficient * state.InertialSpeedMS * state.InertialSpeedMS / math.Max(1, engine.MassKg)

	state.InertialSpeedMS = math.Max(0, state.InertialSpeedMS+(thrustAccel-dragAccel)*dt)

	state.FlightPathAngle = clampRad(state.FlightPathAngle+state.PitchRad*0.1*dt, -math.Pi/2, math.Pi/2)

	turnRate := gravityMS2 * math.Tan(state.RollRad) / math.Max(1, state.InertialSpeedMS)
	turnRate = math.Max(-maxTurnRatePerRad, math.Min(maxTurnRatePerRad, turnRate))
	state.HeadingRad += (turnRate + state.YawOffsetRad*0.1) * dt

	horizontalSpeed := state.InertialSpeedMS * math.Cos(state.FlightPathAngle)
	verticalSpeed := state.InertialSpeedMS * math.Sin(state.FlightPathAngle)

	dNorth := horizontalSpeed * math.Cos(state.HeadingRad) * dt
	dEast := horizontalSpeed * math.Sin(state.HeadingRad) * dt

	state.Position.LatRad += dNorth / metersPerDegLat * math.Pi / 180
	lonScale := metersPerDegLat * math.Cos(state.Position.LatRad)
	if lonScale != 0 {
		state.Position.LonRad += dEast / lonScale * math.Pi / 180
	}
	state.Position.AltM += verticalSpeed * dt

	if state.Position.AltM <= 0 && state.Phase != core.PhaseCrashed {
		state.Position.AltM = 0
		state.Phase = core.PhaseLanded
	} else if state.Phase != core.PhaseCrashed {
		state.Phase = core.PhaseFlight
	}

	state.Mach = state.InertialSpeedMS / 343.0
	state.DynamicPressurePa = 0.5 * 1.225 * state.InertialSpeedMS * state.InertialSpeedMS
}

func clampRad(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
