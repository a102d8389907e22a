package orbitaladapter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/orbitalarena/simcore/internal/core"
)

func circularLEOVectors(altKm float64) (core.Vec3, core.Vec3) {
	r := core.ReferenceRadiusM + altKm*1000
	speed := math.Sqrt(EarthMu / r)
	return core.Vec3{X: r}, core.Vec3{Y: speed}
}

func TestElementsFromRVCircularOrbitHasNearZeroEccentricity(t *testing.T) {
	r, v := circularLEOVectors(400)

	el := ElementsFromRV(r, v)

	require.NotNil(t, el)
	assert.InDelta(t, 0, el.Eccentricity, 1e-6)
	assert.InDelta(t, core.ReferenceRadiusM+400000, el.SMA, 1.0)
}

func TestElementsFromRVZeroPositionReturnsNil(t *testing.T) {
	el := ElementsFromRV(core.Vec3{}, core.Vec3{Y: 1})

	assert.Nil(t, el)
}

func TestElementsFromRVComputesApoapsisAndPeriapsisAltitude(t *testing.T) {
	r, v := circularLEOVectors(400)

	el := ElementsFromRV(r, v)

	require.NotNil(t, el)
	assert.InDelta(t, 400000, el.ApoapsisAltM, 10)
	assert.InDelta(t, 400000, el.PeriapsisAltM, 10)
}

func TestElementsFromRVPeriodMatchesKeplerForLEO(t *testing.T) {
	r, v := circularLEOVectors(400)

	el := ElementsFromRV(r, v)

	require.NotNil(t, el)
	// a 400km circular LEO orbit takes roughly 92-93 minutes.
	assert.InDelta(t, 92.5*60, el.PeriodS, 120)
}

func TestClampBoundsToRange(t *testing.T) {
	assert.Equal(t, -1.0, clamp(-5, -1, 1))
	assert.Equal(t, 1.0, clamp(5, -1, 1))
	assert.Equal(t, 0.5, clamp(0.5, -1, 1))
}
