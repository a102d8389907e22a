package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockAdvanceFirstTickIsZero(t *testing.T) {
	c := NewClock()
	w := NewWorld(2451545.0)

	rdt, sdt := c.Advance(time.Now(), w)

	assert.Zero(t, rdt, "first tick after construction must emit zero real dt")
	assert.Zero(t, sdt, "first tick after construction must emit zero sim dt")
	assert.Zero(t, w.SimTimeS, "sim time must not advance on the baseline-setting tick")
}

func TestClockAdvanceAppliesWarp(t *testing.T) {
	c := NewClock()
	w := NewWorld(2451545.0)
	w.TimeWarp = 4

	t0 := time.Now()
	c.Advance(t0, w)

	rdt, sdt := c.Advance(t0.Add(250*time.Millisecond), w)

	require.InDelta(t, 0.25, rdt, 1e-9)
	assert.InDelta(t, 1.0, sdt, 1e-9, "sim dt should be real dt times warp factor")
	assert.InDelta(t, 1.0, w.SimTimeS, 1e-9)
}

func TestClockAdvanceClampsLongStalls(t *testing.T) {
	c := NewClock()
	w := NewWorld(2451545.0)
	w.TimeWarp = 1

	t0 := time.Now()
	c.Advance(t0, w)

	rdt, _ := c.Advance(t0.Add(5*time.Second), w)

	assert.LessOrEqual(t, rdt, maxRealDtS, "real dt must be clamped even after a long stall")
}

func TestClockPauseResetsBaseline(t *testing.T) {
	c := NewClock()
	w := NewWorld(2451545.0)

	t0 := time.Now()
	c.Advance(t0, w)
	c.SetPaused(true)
	assert.True(t, c.Paused())

	c.SetPaused(false)
	rdt, sdt := c.Advance(t0.Add(time.Second), w)

	assert.Zero(t, rdt, "the tick right after unpausing must re-baseline, not emit a jump")
	assert.Zero(t, sdt)
}

func TestSubstepCountSplitsIntoBoundedChunks(t *testing.T) {
	numSteps, subDt := SubstepCount(0.12)

	require.Equal(t, 3, numSteps)
	assert.InDelta(t, 0.04, subDt, 1e-9)
	assert.LessOrEqual(t, subDt, maxSubstepS)
}

func TestSubstepCountZeroOrNegativeIsZeroSteps(t *testing.T) {
	numSteps, subDt := SubstepCount(0)
	assert.Zero(t, numSteps)
	assert.Zero(t, subDt)

	numSteps, subDt = SubstepCount(-1)
	assert.Zero(t, numSteps)
	assert.Zero(t, subDt)
}

func TestSubstepCountHighWarpUncapped(t *testing.T) {
	// A very large sdt (e.g. from a high warp factor) must still split
	// into bounded substeps rather than being clamped to a fixed count.
	numSteps, subDt := SubstepCount(500)

	assert.Greater(t, numSteps, 9999)
	assert.LessOrEqual(t, subDt, maxSubstepS)
}

func TestWarpCeilingFlatBelowBreakAltitude(t *testing.T) {
	assert.Equal(t, baseWarpCeiling, WarpCeiling(0))
	assert.Equal(t, baseWarpCeiling, WarpCeiling(warpCeilingBreakAltM))
}

func TestWarpCeilingGrowsWithAltitudeAboveBreak(t *testing.T) {
	low := WarpCeiling(warpCeilingBreakAltM)
	high := WarpCeiling(warpCeilingBreakAltM * 10)

	assert.Greater(t, high, low)
	assert.LessOrEqual(t, high, absoluteWarpCeiling, "ceiling must never exceed the absolute cap")
}

func TestWarpCeilingCapsAtAbsoluteCeiling(t *testing.T) {
	ceiling := WarpCeiling(1e12)
	assert.Equal(t, absoluteWarpCeiling, ceiling)
}

func TestRequestWarpClampsAboveCeiling(t *testing.T) {
	c := NewClock()
	w := NewWorld(2451545.0)

	c.RequestWarp(w, 1_000_000, 0)

	assert.Equal(t, baseWarpCeiling, w.TimeWarp, "a request above the ceiling must clamp to it")
	assert.Equal(t, baseWarpCeiling, w.MaxWarp)
}

func TestRequestWarpRejectsNegative(t *testing.T) {
	c := NewClock()
	w := NewWorld(2451545.0)

	c.RequestWarp(w, -5, 0)

	assert.Zero(t, w.TimeWarp)
}

func TestRequestWarpWithinCeilingIsUnchanged(t *testing.T) {
	c := NewClock()
	w := NewWorld(2451545.0)

	c.RequestWarp(w, 10, 0)

	assert.Equal(t, 10.0, w.TimeWarp)
}
