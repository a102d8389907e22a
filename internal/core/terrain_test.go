package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatElevation struct {
	elevM float64
}

func (f flatElevation) ElevationM(g GeoPoint) (float64, bool) { return f.elevM, true }

func TestTerrainFollowEnableRejectsAboveMaxAltitude(t *testing.T) {
	st := NewTerrainFollowState()

	ok := st.Enable(terrainMaxEnableAltM + 1)

	assert.False(t, ok)
	assert.False(t, st.Enabled)
}

func TestTerrainFollowEnableAcceptsAtOrBelowMaxAltitude(t *testing.T) {
	st := NewTerrainFollowState()

	ok := st.Enable(terrainMaxEnableAltM)

	assert.True(t, ok)
	assert.True(t, st.Enabled)
}

func TestTerrainFollowSetAGLTargetClamps(t *testing.T) {
	st := NewTerrainFollowState()

	st.SetAGLTarget(0)
	assert.Equal(t, terrainMinAGLTargetM, st.AGLTargetM)

	st.SetAGLTarget(1_000_000)
	assert.Equal(t, terrainMaxAGLTargetM, st.AGLTargetM)

	st.SetAGLTarget(500)
	assert.Equal(t, 500.0, st.AGLTargetM)
}

func TestTerrainFollowTickDisablesOnExcessiveAGL(t *testing.T) {
	ctrl := NewTerrainFollowController(flatElevation{elevM: 0})
	st := NewTerrainFollowState()
	require.True(t, st.Enable(100))

	state := &StateRecord{Position: GeoPoint{AltM: terrainMaxAGLBeforeBailM + 1}}
	autopilot := &AutopilotState{}

	updated := ctrl.Tick(time.Now(), st, state, autopilot)

	assert.False(t, updated)
	assert.False(t, st.Enabled)
	assert.NotEmpty(t, st.LastMessage)
}

func TestTerrainFollowTickSetsAltitudeHoldFromLookAhead(t *testing.T) {
	ctrl := NewTerrainFollowController(flatElevation{elevM: 200})
	st := NewTerrainFollowState()
	st.AGLTargetM = 150
	require.True(t, st.Enable(1000))

	state := &StateRecord{Position: GeoPoint{AltM: 1000}, HeadingRad: 0}
	autopilot := &AutopilotState{}

	updated := ctrl.Tick(time.Now(), st, state, autopilot)

	require.True(t, updated)
	assert.Equal(t, 350.0, autopilot.AltitudeHoldM) // max elevation (200) + AGL target (150)
	assert.True(t, autopilot.Engaged)
}

func TestTerrainFollowTickRateLimitedTo2Hz(t *testing.T) {
	ctrl := NewTerrainFollowController(flatElevation{elevM: 0})
	st := NewTerrainFollowState()
	require.True(t, st.Enable(1000))

	state := &StateRecord{Position: GeoPoint{AltM: 1000}}
	autopilot := &AutopilotState{}

	now := time.Now()
	require.True(t, ctrl.Tick(now, st, state, autopilot))

	updated := ctrl.Tick(now.Add(100*time.Millisecond), st, state, autopilot)
	assert.False(t, updated, "a tick within 500ms of the last sample must be skipped")

	updated = ctrl.Tick(now.Add(600*time.Millisecond), st, state, autopilot)
	assert.True(t, updated, "a tick past the 500ms window must resample")
}

func TestTerrainFollowTickNoopWhenDisabled(t *testing.T) {
	ctrl := NewTerrainFollowController(flatElevation{elevM: 200})
	st := NewTerrainFollowState()

	updated := ctrl.Tick(time.Now(), st, &StateRecord{}, &AutopilotState{})

	assert.False(t, updated)
}
