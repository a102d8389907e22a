package orbitaladapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/orbitalarena/simcore/internal/core"
)

func TestHohmannRequiresCurrentElements(t *testing.T) {
	s := NewSolvers()

	res := s.Hohmann(nil, 35786)

	assert.False(t, res.Valid)
}

func TestHohmannLEOToGEOProducesPositiveProgradeBurn(t *testing.T) {
	s := NewSolvers()
	current := &core.OrbitalElements{SMA: core.ReferenceRadiusM + 400000}

	res := s.Hohmann(current, 35786)

	require.True(t, res.Valid)
	assert.Greater(t, res.DVPrograde, 0.0, "raising apoapsis requires a positive prograde burn")
	assert.Greater(t, res.DVTotalMS, res.DVPrograde, "total dv must include the unapplied second burn estimate")
}

func TestPlaneChangeZeroDeltaIncIsZeroDV(t *testing.T) {
	s := NewSolvers()
	current := &core.OrbitalElements{SMA: core.ReferenceRadiusM + 400000, InclinationRad: 0.5}

	res := s.PlaneChange(current, 0.5)

	require.True(t, res.Valid)
	assert.InDelta(t, 0, res.DVTotalMS, 1e-9)
}

func TestPlaneChangeNonzeroDeltaIncProducesNormalBurn(t *testing.T) {
	s := NewSolvers()
	current := &core.OrbitalElements{SMA: core.ReferenceRadiusM + 400000, InclinationRad: 0}

	res := s.PlaneChange(current, 0.1)

	require.True(t, res.Valid)
	assert.NotZero(t, res.DVNormal)
}

func TestUnimplementedSolversReturnInvalidDiagnostic(t *testing.T) {
	s := NewSolvers()

	assert.False(t, s.Lambert(nil, core.Vec3{}, 0).Valid)
	assert.False(t, s.NMC(nil, core.Vec3{}).Valid)
	assert.False(t, s.Lagrange(nil).Valid)
	assert.False(t, s.PlanetaryTransfer(nil, "mars").Valid)
}

func TestComputeOrbitalFrameIsOrthonormal(t *testing.T) {
	frame := ComputeOrbitalFrame(core.Vec3{X: core.ReferenceRadiusM + 400000}, core.Vec3{Y: 7600})

	assert.InDelta(t, 1.0, frame.Prograde.Magnitude(), 1e-9)
	assert.InDelta(t, 1.0, frame.Normal.Magnitude(), 1e-9)
	assert.InDelta(t, 1.0, frame.Radial.Magnitude(), 1e-9)
	assert.InDelta(t, 0, frame.Prograde.Dot(frame.Normal), 1e-9)
	assert.InDelta(t, 0, frame.Prograde.Dot(frame.Radial), 1e-9)
}
