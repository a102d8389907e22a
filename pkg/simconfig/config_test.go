package simconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigOrDefaultFallsBackWhenNoPathExists(t *testing.T) {
	cfg := LoadConfigOrDefault([]string{filepath.Join(t.TempDir(), "missing.yaml")})

	assert.Equal(t, DefaultConfig().ScenarioSource, cfg.ScenarioSource)
}

func TestLoadConfigParsesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenario_source: ./leo.json\nlog_level: debug\n"), 0o644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "./leo.json", cfg.ScenarioSource)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultConfig().BridgeListenAddr, cfg.BridgeListenAddr, "unset fields must keep their defaults")
}

func TestSaveConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "simcore.yaml")
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"

	require.NoError(t, SaveConfig(cfg, path))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", reloaded.LogLevel)
}

func TestMergeWithEnvironmentOverridesNonEmptyVars(t *testing.T) {
	t.Setenv("SIMCORE_SCENARIO_SOURCE", "./override.json")
	t.Setenv("SIMCORE_DEFAULT_WARP", "8")
	cfg := DefaultConfig()

	MergeWithEnvironment(cfg)

	assert.Equal(t, "./override.json", cfg.ScenarioSource)
	assert.Equal(t, 8.0, cfg.ClockDefaultWarp)
}

func TestMergeWithEnvironmentIgnoresInvalidWarp(t *testing.T) {
	t.Setenv("SIMCORE_DEFAULT_WARP", "not-a-number")
	cfg := DefaultConfig()
	original := cfg.ClockDefaultWarp

	MergeWithEnvironment(cfg)

	assert.Equal(t, original, cfg.ClockDefaultWarp)
}

func TestMergeWithCLIOverridesAppliesOnlyNonEmptyFields(t *testing.T) {
	cfg := DefaultConfig()
	original := cfg.LogLevel

	MergeWithCLIOverrides(cfg, CLIOverrides{ScenarioSource: "./cli.json"})

	assert.Equal(t, "./cli.json", cfg.ScenarioSource)
	assert.Equal(t, original, cfg.LogLevel)
}

func TestLoadConfigWithOverridesAppliesAllThreeTiersInPrecedenceOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o644))
	t.Setenv("SIMCORE_LOG_LEVEL", "debug")

	cfg, err := LoadConfigWithOverrides(path, CLIOverrides{LogLevel: "error"})

	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel, "CLI overrides must win over both file and environment")
}
