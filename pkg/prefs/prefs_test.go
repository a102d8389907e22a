package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceAtReturnsDefaultsWhenFileAbsent(t *testing.T) {
	s := NewServiceAt(filepath.Join(t.TempDir(), "prefs.json"))

	p := s.Get()

	assert.True(t, p.VizOrbits)
	assert.Equal(t, 120.0, p.TrailDurationS)
	assert.Equal(t, 1, p.OrbitRevolutionCount)
}

func TestServiceUpdatePersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	s := NewServiceAt(path)

	updated := s.Get()
	updated.VizOrbits = false
	updated.TrailDurationS = 45
	require.NoError(t, s.Update(updated))

	reloaded := NewServiceAt(path)
	p := reloaded.Get()

	assert.False(t, p.VizOrbits)
	assert.Equal(t, 45.0, p.TrailDurationS)
}

func TestServiceLoadIgnoresUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"viz_orbits": false, "totally_unknown_field": 42}`), 0o644))

	s := NewServiceAt(path)
	p := s.Get()

	assert.False(t, p.VizOrbits)
	assert.True(t, p.VizTrails, "a key absent from the file must keep its default")
}

func TestServiceGetReturnsIndependentCopy(t *testing.T) {
	s := NewServiceAt(filepath.Join(t.TempDir(), "prefs.json"))

	p1 := s.Get()
	p1.VizOrbits = false

	p2 := s.Get()
	assert.True(t, p2.VizOrbits, "mutating a Get() copy must not affect the stored preferences")
}
