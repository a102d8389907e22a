package orbitaladapter

import (
	"math"

	core "github.com/orbitalarena/simcore/internal/core"
)

// Solvers is the reference implementation of the maneuver-solver math
// library. Hohmann and plane-change are fully implemented; the
// remaining solvers return a {Valid:false} diagnostic stub because the
// real solver library is an explicit external collaborator and this
// reference adapter's job is to exercise the orchestrator, not to be a
// general solver library.
type Solvers struct{}

func NewSolvers() *Solvers { return &Solvers{} }

func (s *Solvers) ComputeOrbitalFrame(r, v core.Vec3) core.OrbitalFrame {
	return ComputeOrbitalFrame(r, v)
}

// Hohmann computes the first of a two-burn circular-to-circular
// transfer, assuming the current orbit is near-circular at its SMA.
// The second burn is computed after burn 1 completes (the maneuver
// executor's chaining logic), not here.
func (s *Solvers) Hohmann(current *core.OrbitalElements, targetAltKm float64) core.SolverResult {
	if current == nil || current.SMA <= 0 {
		return core.SolverResult{Valid: false, Diagnostic: "no current orbital elements"}
	}

	r1 := current.SMA
	r2 := core.ReferenceRadiusM + targetAltKm*1000
	if r1 <= 0 || r2 <= 0 {
		return core.SolverResult{Valid: false, Diagnostic: "degenerate radii"}
	}

	aTransfer := (r1 + r2) / 2
	if aTransfer <= 0 {
		return core.SolverResult{Valid: false, Diagnostic: "unbound transfer orbit"}
	}

	v1 := math.Sqrt(EarthMu / r1)
	vTransferAtR1 := math.Sqrt(EarthMu * (2/r1 - 1/aTransfer))
	dv1 := vTransferAtR1 - v1

	vTransferAtR2 := math.Sqrt(EarthMu * (2/r2 - 1/aTransfer))
	v2 := math.Sqrt(EarthMu / r2)
	dv2 := v2 - vTransferAtR2

	return core.SolverResult{
		Valid:      true,
		DVPrograde: dv1,
		DVTotalMS:  math.Abs(dv1) + math.Abs(dv2),
		Diagnostic: "burn2 dv computed post-insertion by the executor's Hohmann chain",
	}
}

// PlaneChange computes a single normal-axis burn at the current
// position to rotate the orbital plane by (targetInclinationRad -
// current.InclinationRad), assuming execution occurs at a node
// crossing where the burn is purely out-of-plane.
func (s *Solvers) PlaneChange(current *core.OrbitalElements, targetInclinationRad float64) core.SolverResult {
	if current == nil || current.SMA <= 0 {
		return core.SolverResult{Valid: false, Diagnostic: "no current orbital elements"}
	}

	v := math.Sqrt(EarthMu / current.SMA)
	deltaInc := targetInclinationRad - current.InclinationRad
	dv := 2 * v * math.Sin(deltaInc/2)

	return core.SolverResult{
		Valid:      true,
		DVNormal:   dv,
		DVTotalMS:  math.Abs(dv),
		Diagnostic: "executed at the ascending node; burn time short relative to period assumed",
	}
}

func (s *Solvers) Lambert(current *core.OrbitalElements, target core.Vec3, tof float64) core.SolverResult {
	return notImplemented()
}

func (s *Solvers) NMC(current *core.OrbitalElements, target core.Vec3) core.SolverResult {
	return notImplemented()
}

func (s *Solvers) Lagrange(current *core.OrbitalElements) core.SolverResult {
	return notImplemented()
}

func (s *Solvers) PlanetaryTransfer(current *core.OrbitalElements, targetBody string) core.SolverResult {
	return notImplemented()
}

func notImplemented() core.SolverResult {
	return core.SolverResult{Valid: false, Diagnostic: "not implemented by reference adapter; requires the external solver library"}
}
