package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsRingTicksOncePerSimSecond(t *testing.T) {
	r := NewAnalyticsRing()
	w := NewWorld(2451545.0)

	w.SimTimeS = 1.2
	r.Tick(w, CommStats{})
	w.SimTimeS = 1.8
	r.Tick(w, CommStats{})

	assert.Len(t, r.Snapshots(), 1, "two ticks within the same whole second must coalesce")
}

func TestAnalyticsRingAdvancesOnNewWholeSecond(t *testing.T) {
	r := NewAnalyticsRing()
	w := NewWorld(2451545.0)

	w.SimTimeS = 1.2
	r.Tick(w, CommStats{})
	w.SimTimeS = 2.1
	r.Tick(w, CommStats{})

	assert.Len(t, r.Snapshots(), 2)
}

func TestAnalyticsRingCapsAtRingSize(t *testing.T) {
	r := NewAnalyticsRing()
	w := NewWorld(2451545.0)

	for i := 0; i < analyticsRingCap+10; i++ {
		w.SimTimeS = float64(i)
		r.Tick(w, CommStats{})
	}

	assert.Len(t, r.Snapshots(), analyticsRingCap)
}

func TestAnalyticsRingComputesAveragesAndHistograms(t *testing.T) {
	r := NewAnalyticsRing()
	w := NewWorld(2451545.0)
	e1 := newEntityWithTeam("jet-1", "blue")
	e1.State.Position.AltM = 1000
	e1.State.InertialSpeedMS = 100
	e1.Active = true
	e2 := newEntityWithTeam("jet-2", "red")
	e2.State.Position.AltM = 3000
	e2.State.InertialSpeedMS = 300
	e2.Active = true
	require.NoError(t, w.AddEntity(e1))
	require.NoError(t, w.AddEntity(e2))

	w.SimTimeS = 0
	r.Tick(w, CommStats{DeliveryRate: 0.9, ActiveLinks: 2})

	snap := r.Snapshots()[0]
	assert.Equal(t, 2, snap.AliveCount)
	assert.Zero(t, snap.DeadCount)
	assert.InDelta(t, 2000, snap.AvgAltitudeM, 1e-9)
	assert.InDelta(t, 200, snap.AvgSpeedMS, 1e-9)
	assert.Equal(t, 1, snap.TeamHistogram["blue"])
	assert.Equal(t, 0.9, snap.CommDeliveryRate)
	assert.Equal(t, 2, snap.CommActiveLinks)
}

func TestAnalyticsRingCountsCrashedAsDead(t *testing.T) {
	r := NewAnalyticsRing()
	w := NewWorld(2451545.0)
	e := newEntityWithTeam("jet-1", "blue")
	e.Active = true
	e.State.Phase = PhaseCrashed
	require.NoError(t, w.AddEntity(e))

	r.Tick(w, CommStats{})

	snap := r.Snapshots()[0]
	assert.Zero(t, snap.AliveCount)
	assert.Equal(t, 1, snap.DeadCount)
}
