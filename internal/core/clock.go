package core

import (
	"math"
	"time"
)

// maxRealDtS bounds per-tick work after a long stall.
const maxRealDtS = 0.1

// maxSubstepS is the largest a single player physics substep may be.
const maxSubstepS = 0.05

// warpCeilingBreakAltM is the altitude (above ReferenceRadiusM) below
// which the warp ceiling is fixed at baseWarpCeiling.
const warpCeilingBreakAltM = 400000.0

const baseWarpCeiling = 1024.0
const absoluteWarpCeiling = 10000.0

// Clock converts wall-clock frames into simulated-time deltas. It
// clamps real dt, applies the current warp factor, and derives an
// altitude-aware warp ceiling. It exposes an explicit per-frame Tick
// call rather than owning its own ticker loop, since the host owns the
// render loop.
type Clock struct {
	lastReal time.Time
	hasLast  bool
	paused   bool
}

// NewClock returns a clock with no baseline; the first Tick after
// construction always returns sdt=0 and resets the baseline.
func NewClock() *Clock {
	return &Clock{}
}

// SetPaused toggles pause. Pausing clears the baseline so the next
// unpaused tick starts fresh from the new now.
func (c *Clock) SetPaused(paused bool) {
	c.paused = paused
	if paused {
		c.hasLast = false
	}
}

func (c *Clock) Paused() bool { return c.paused }

// Advance computes sdt for wall-clock instant now given the current
// warp factor, advances world.SimTimeS, and returns the real dt that
// was applied (clamped) and the simulated dt (after warp).
func (c *Clock) Advance(now time.Time, world *World) (rdt, sdt float64) {
	if c.paused || !c.hasLast {
		c.lastReal = now
		c.hasLast = true
		return 0, 0
	}

	raw := now.Sub(c.lastReal).Seconds()
	c.lastReal = now

	rdt = math.Max(0, math.Min(raw, maxRealDtS))
	sdt = rdt * world.TimeWarp
	world.SimTimeS += sdt
	return rdt, sdt
}

// SubstepCount returns the number of substeps (each <=0.05s) that sdt
// splits into, and the per-substep duration. No hard cap is applied;
// high warp legitimately produces thousands of substeps.
func SubstepCount(sdt float64) (numSteps int, subDt float64) {
	if sdt <= 0 {
		return 0, 0
	}
	numSteps = int(math.Ceil(sdt / maxSubstepS))
	if numSteps < 1 {
		numSteps = 1
	}
	subDt = sdt / float64(numSteps)
	return numSteps, subDt
}

// WarpCeiling computes the altitude-aware warp ceiling for a player at
// altitude h meters above ReferenceRadiusM. Orbital period
// scales as SMA^1.5, so the ceiling grows with altitude to keep
// wall-clock feel roughly constant per orbit.
func WarpCeiling(altitudeM float64) float64 {
	sma := ReferenceRadiusM + altitudeM
	breakR := ReferenceRadiusM + warpCeilingBreakAltM
	if sma <= breakR {
		return baseWarpCeiling
	}
	ratio := sma / breakR
	ceiling := math.Round(baseWarpCeiling * math.Pow(ratio, 1.5))
	return math.Min(absoluteWarpCeiling, ceiling)
}

// RequestWarp clamps a requested warp factor to the current
// altitude-aware ceiling and applies it to world.TimeWarp.
func (c *Clock) RequestWarp(world *World, requested, playerAltitudeM float64) {
	ceiling := WarpCeiling(playerAltitudeM)
	world.MaxWarp = ceiling
	if requested > ceiling {
		requested = ceiling
	}
	if requested < 0 {
		requested = 0
	}
	world.TimeWarp = requested
}
