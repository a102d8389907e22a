package core

import "context"

// The types in this file are the external-collaborator contracts the
// core depends on but does not itself implement. Types and semantics
// are normative, not names. They are implemented by reference adapters
// in pkg/physicsref and pkg/orbitaladapter, analogous to a connector
// interface backed by interchangeable concrete transport adapters, so
// the orchestrator can be exercised and tested without depending on
// the real renderer/solver stack this core explicitly excludes.

// Controls is per-entity per-tick command input to the physics step.
type Controls struct {
	ThrottleUp   bool
	ThrottleDown bool
	Pitch        float64 // [-1,1]
	Roll         float64 // [-1,1]
	Yaw          float64 // [-1,1]
	ThrottleSet  *float64 // optional absolute throttle [0,1]
}

// EngineConfig is an opaque per-entity engine/thrust table snapshot
// passed through to the physics step unmodified.
type EngineConfig struct {
	ThrustN   float64
	MassKg    float64
	Label     string
	ThrustCurve map[string]float64
}

// PhysicsStep advances one entity's StateRecord in place by dt
// seconds (dt<=0.05s is guaranteed by the clock's substepping). This
// is the per-component physics integrator left out of scope for the
// core itself.
type PhysicsStep interface {
	Step(state *StateRecord, controls Controls, dt float64, engine EngineConfig)
}

// OrbitalPropagator is the orbital mechanics library external
// collaborator.
type OrbitalPropagator interface {
	// Update fills state.Orbital and the ECI/ECEF position caches from
	// the current ECI state at simTimeS.
	Update(state *StateRecord, simTimeS float64) error
	// GeodeticToECI converts a geodetic position to sim-ECI position
	// and velocity at simTimeS (GMST zero at simTimeS=0).
	GeodeticToECI(g GeoPoint, simTimeS float64) (pos, vel Vec3)
}

// OrbitalFrame is the prograde/normal/radial unit-vector triple at a
// point in an orbit.
type OrbitalFrame struct {
	Prograde Vec3
	Normal   Vec3
	Radial   Vec3
}

// SolverResult is the common return shape for every maneuver solver
//: Hohmann, Lambert, NMC, plane change, inclination change,
// Lagrange, planetary transfer.
type SolverResult struct {
	Valid      bool
	DVPrograde float64
	DVNormal   float64
	DVRadial   float64
	DVTotalMS  float64
	Diagnostic string
}

// TerminationTarget is an orbital-element termination descriptor used
// by the maneuver auto-executor.
type TerminationTarget struct {
	Kind         TerminationKind
	AltitudeM    float64 // RaiseApo, LowerPe
	TargetRadiusM float64 // Circularize
}

type TerminationKind int

const (
	TerminationNone TerminationKind = iota
	TerminationRaiseApo
	TerminationLowerPe
	TerminationCircularize
)

// PlannerSolvers is the maneuver-solver math library external
// collaborator.
type PlannerSolvers interface {
	ComputeOrbitalFrame(r, v Vec3) OrbitalFrame
	Hohmann(current *OrbitalElements, targetAltKm float64) SolverResult
	PlaneChange(current *OrbitalElements, targetInclinationRad float64) SolverResult
	Lambert(current *OrbitalElements, target Vec3, tof float64) SolverResult
	NMC(current *OrbitalElements, target Vec3) SolverResult
	Lagrange(current *OrbitalElements) SolverResult
	PlanetaryTransfer(current *OrbitalElements, targetBody string) SolverResult
}

// SunDirectionSource resolves the unit vector from an observer to the
// Sun in sim-ECI. Renderer-provided ICRF->ECEF transforms are
// preferred, with a heliocentric-ephemeris fallback.
type SunDirectionSource interface {
	SunDirectionECI(simTimeS float64) (dir Vec3, diagnostic string)
}

// ElevationSource samples terrain elevation at a geodetic point,
// synchronously, never yielding. A nil/undefined sample is
// the caller's responsibility to treat as 0m MSL.
type ElevationSource interface {
	ElevationM(g GeoPoint) (elevationM float64, ok bool)
}

// EntitySpec is one entity declaration out of a scenario document, in
// the normalized shape the core needs to materialize an Entity. Wire
// format parsing is the ScenarioSource's job, not the core's.
type EntitySpec struct {
	ID           string
	Name         string
	Type         string
	Team         string
	VizCategory  string
	Components   map[ComponentKind]Component
	InitialState StateRecord
}

// ScenarioDocument is the fully-resolved, schema-checked scenario the
// core builds a World from.
type ScenarioDocument struct {
	SchemaVersion string
	EpochJD       float64
	DefaultWarp   float64
	Entities      []EntitySpec
}

// ScenarioSource fetches and parses a scenario document. Wire
// format/parsing is intentionally out of the core's scope.
type ScenarioSource interface {
	LoadScenario(ctx context.Context, source string) (*ScenarioDocument, error)
}
