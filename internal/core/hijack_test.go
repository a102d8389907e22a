package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flightEntity(id, team string) *Entity {
	e := NewEntity(id, id, "aircraft", team)
	e.WithComponent(ComponentPhysics, nil)
	e.Components[ComponentPhysics].PhysicsKind = PhysicsFlight3DOF
	return e
}

func TestSelectPlayerPrefersExplicitIDWithPhysics(t *testing.T) {
	w := NewWorld(2451545.0)
	e := flightEntity("jet-1", "blue")
	require.NoError(t, w.AddEntity(e))

	got := SelectPlayer(w, "jet-1")
	require.NotNil(t, got)
	assert.Equal(t, "jet-1", got.ID)
}

func TestSelectPlayerFallsBackWhenPreferredHasNoPhysics(t *testing.T) {
	w := NewWorld(2451545.0)
	ground := NewEntity("tower-1", "tower", "ground_station", "blue")
	require.NoError(t, w.AddEntity(ground))

	flight := flightEntity("jet-1", "blue")
	require.NoError(t, w.AddEntity(flight))

	got := SelectPlayer(w, "tower-1")
	require.NotNil(t, got)
	assert.Equal(t, "jet-1", got.ID, "preferred id without physics must fall through to the next tier")
}

func TestSelectPlayerTierTwoControlComponent(t *testing.T) {
	w := NewWorld(2451545.0)
	e := NewEntity("drone-1", "drone", "aircraft", "blue")
	e.WithComponent(ComponentControl, nil)
	e.Components[ComponentControl].ControlKind = ControlPlayerInput
	require.NoError(t, w.AddEntity(e))

	got := SelectPlayer(w, "")
	require.NotNil(t, got)
	assert.Equal(t, "drone-1", got.ID)
}

func TestSelectPlayerReturnsNilWhenNoEligibleEntity(t *testing.T) {
	w := NewWorld(2451545.0)
	ground := NewEntity("tower-1", "tower", "ground_station", "blue")
	require.NoError(t, w.AddEntity(ground))

	got := SelectPlayer(w, "")
	assert.Nil(t, got, "observer mode is the correct outcome when nothing is eligible")
}

func TestAssumeControlRejectsInactiveEntity(t *testing.T) {
	h := NewHijackManager()
	w := NewWorld(2451545.0)
	e := flightEntity("jet-1", "blue")
	e.Active = false
	require.NoError(t, w.AddEntity(e))

	ctx, err := h.AssumeControl(w, e, nil)

	assert.Nil(t, ctx)
	require.Error(t, err)
	coreErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrIneligibleEntity, coreErr.Kind)
}

func TestAssumeControlRejectsEntityWithoutPhysics(t *testing.T) {
	h := NewHijackManager()
	w := NewWorld(2451545.0)
	e := NewEntity("tower-1", "tower", "ground_station", "blue")
	require.NoError(t, w.AddEntity(e))

	_, err := h.AssumeControl(w, e, nil)
	require.Error(t, err)
}

func TestAssumeControlHijacksAndReleasesOnReassignment(t *testing.T) {
	h := NewHijackManager()
	w := NewWorld(2451545.0)
	first := flightEntity("jet-1", "blue")
	second := flightEntity("jet-2", "blue")
	require.NoError(t, w.AddEntity(first))
	require.NoError(t, w.AddEntity(second))

	ctx1, err := h.AssumeControl(w, first, nil)
	require.NoError(t, err)
	assert.Equal(t, "jet-1", ctx1.EntityID)
	assert.False(t, first.ComponentEnabled(ComponentPhysics), "hijacked entity's physics must be disabled for external stepping")

	ctx2, err := h.AssumeControl(w, second, nil)
	require.NoError(t, err)
	assert.Equal(t, "jet-2", ctx2.EntityID)

	assert.True(t, first.ComponentEnabled(ComponentPhysics), "the former player entity must have its components re-enabled")
	assert.False(t, second.ComponentEnabled(ComponentPhysics))
	assert.Same(t, ctx2, h.Player)
}

func TestAssumeControlLeavesVisualComponentEnabled(t *testing.T) {
	h := NewHijackManager()
	w := NewWorld(2451545.0)
	e := flightEntity("jet-1", "blue")
	e.WithComponent(ComponentVisual, nil)
	require.NoError(t, w.AddEntity(e))

	_, err := h.AssumeControl(w, e, nil)
	require.NoError(t, err)

	assert.True(t, e.ComponentEnabled(ComponentVisual), "visualization must remain enabled on a hijacked entity")
}
