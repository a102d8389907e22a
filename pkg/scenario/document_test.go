package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/orbitalarena/simcore/internal/core"
)

func writeScenarioFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenarioParsesLocalFile(t *testing.T) {
	path := writeScenarioFile(t, `{
		"schema_version": "1.2.0",
		"epoch_jd": 2451545.0,
		"default_warp": 4,
		"entities": [
			{
				"id": "jet-1",
				"name": "Jet One",
				"type": "aircraft",
				"team": "blue",
				"components": {
					"physics": {"enabled": true, "physics_kind": "flight_3dof"}
				},
				"initial_state": {"position": {"alt_m": 1000}}
			}
		]
	}`)
	l := NewLoader(">=1.0.0, <2.0.0")

	doc, err := l.LoadScenario(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 2451545.0, doc.EpochJD)
	assert.Equal(t, 4.0, doc.DefaultWarp)
	require.Len(t, doc.Entities, 1)
	assert.Equal(t, "jet-1", doc.Entities[0].ID)
	assert.Equal(t, core.PhysicsKind("flight_3dof"), doc.Entities[0].Components[core.ComponentKind("physics")].PhysicsKind)
}

func TestLoadScenarioRejectsSchemaOutsideConstraint(t *testing.T) {
	path := writeScenarioFile(t, `{"schema_version": "2.0.0", "entities": []}`)
	l := NewLoader(">=1.0.0, <2.0.0")

	_, err := l.LoadScenario(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy constraint")
}

func TestLoadScenarioAllowsMissingVersionWhenNoConstraintSet(t *testing.T) {
	path := writeScenarioFile(t, `{"entities": []}`)
	l := NewLoader("")

	_, err := l.LoadScenario(context.Background(), path)

	assert.NoError(t, err)
}

func TestLoadScenarioRejectsMalformedSchemaVersion(t *testing.T) {
	path := writeScenarioFile(t, `{"schema_version": "not-a-version", "entities": []}`)
	l := NewLoader(">=1.0.0")

	_, err := l.LoadScenario(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario schema_version")
}

func TestLoadScenarioRejectsEntityMissingID(t *testing.T) {
	path := writeScenarioFile(t, `{"entities": [{"name": "no-id"}]}`)
	l := NewLoader("")

	_, err := l.LoadScenario(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestLoadScenarioFetchFailsForMissingFile(t *testing.T) {
	l := NewLoader("")

	_, err := l.LoadScenario(context.Background(), filepath.Join(t.TempDir(), "missing.json"))

	assert.Error(t, err)
}
