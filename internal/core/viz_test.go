package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualizationPlaneDefaultsGroupsToShown(t *testing.T) {
	p := NewVisualizationPlane()
	w := NewWorld(2451545.0)
	e := newEntityWithTeam("jet-1", "blue")
	require.NoError(t, w.AddEntity(e))

	p.Apply(w, "")

	assert.True(t, e.Snapshot().Viz.Show)
}

func TestVisualizationPlaneHidesSuppressedTeam(t *testing.T) {
	p := NewVisualizationPlane()
	p.SetTeamVisible("red", false)
	w := NewWorld(2451545.0)
	e := newEntityWithTeam("jet-1", "red")
	require.NoError(t, w.AddEntity(e))

	p.Apply(w, "")

	assert.False(t, e.Snapshot().Viz.Show)
}

func TestVisualizationPlanePlayerEntityExemptFromSuppression(t *testing.T) {
	p := NewVisualizationPlane()
	p.SetTeamVisible("red", false)
	w := NewWorld(2451545.0)
	e := newEntityWithTeam("jet-1", "red")
	require.NoError(t, w.AddEntity(e))

	p.Apply(w, "jet-1")

	assert.True(t, e.Snapshot().Viz.Show, "the controlled entity must never be suppressed by group filters")
}

func TestVisualizationPlaneGlobalFlagsANDWithGroupVisibility(t *testing.T) {
	p := NewVisualizationPlane()
	p.Global.Orbits = false
	w := NewWorld(2451545.0)
	e := newEntityWithTeam("jet-1", "blue")
	require.NoError(t, w.AddEntity(e))

	p.Apply(w, "")

	viz := e.Snapshot().Viz
	assert.True(t, viz.Show)
	assert.False(t, viz.Orbits, "a disabled global flag must suppress the per-entity orbit flag even when shown")
	assert.True(t, viz.Trails)
}

func TestVisualizationPlaneFansOutAboveConcurrencyThreshold(t *testing.T) {
	p := NewVisualizationPlane()
	p.SetTypeVisible("aircraft", false)
	w := NewWorld(2451545.0)
	for i := 0; i < vizConcurrencyThreshold+5; i++ {
		e := newEntityWithTeam(fmt.Sprintf("jet-%d", i), "blue")
		require.NoError(t, w.AddEntity(e))
	}

	p.Apply(w, "")

	for _, e := range w.Entities() {
		assert.False(t, e.Snapshot().Viz.Show, "worker-pool path must still apply suppression correctly")
	}
}
