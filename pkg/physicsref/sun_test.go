package physicsref

import (
	"testing"

	"github.com/stretchr/testify/assert"

	core "github.com/orbitalarena/simcore/internal/core"
)

func TestHeliocentricSunSourceReturnsUnitVectorAndDiagnostic(t *testing.T) {
	s := NewHeliocentricSunSource()

	dir, diag := s.SunDirectionECI(0)

	assert.InDelta(t, 1.0, dir.Magnitude(), 1e-9)
	assert.NotEmpty(t, diag)
}

func TestHeliocentricSunSourceVariesOverTheYear(t *testing.T) {
	s := NewHeliocentricSunSource()

	d0, _ := s.SunDirectionECI(0)
	dHalfYear, _ := s.SunDirectionECI(earthOrbitalPeriodS / 2)

	assert.InDelta(t, -d0.X, dHalfYear.X, 1e-6, "half an orbital period later, the sun direction should be roughly reversed")
}

func TestRendererSunSourceFailsWithoutRotationFunc(t *testing.T) {
	s := &RendererSunSource{}

	_, diag := s.SunDirectionECI(0)

	assert.NotEmpty(t, diag)
}

func TestRendererSunSourceAppliesRotation(t *testing.T) {
	s := &RendererSunSource{
		SunPositionICRF:    core.Vec3{X: 1},
		RotationICRFToECEF: func(v core.Vec3) core.Vec3 { return core.Vec3{X: v.X * 2} },
	}

	dir, diag := s.SunDirectionECI(0)

	assert.Empty(t, diag)
	assert.InDelta(t, 1.0, dir.Magnitude(), 1e-9)
}
