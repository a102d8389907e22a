// Package simconfig loads and layers run configuration for the
// simulation core through a three-tier pipeline (file, environment,
// CLI flags) with YAML-at-home-directory persistence.
package simconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SimulationConfig is the top-level run configuration. Precedence,
// lowest to highest: file defaults -> environment variables -> CLI
// flags.
type SimulationConfig struct {
	ScenarioSource           string  `yaml:"scenario_source"`
	ScenarioSchemaConstraint string  `yaml:"scenario_schema_constraint"`
	ClockDefaultWarp         float64 `yaml:"clock_default_warp"`
	BridgeListenAddr         string  `yaml:"bridge_listen_addr"`
	AAROutputDir             string  `yaml:"aar_output_dir"`
	PreferencesPath          string  `yaml:"preferences_path,omitempty"`
	StorePath                string  `yaml:"store_path,omitempty"`
	LogLevel                 string  `yaml:"log_level"`
}

// DefaultConfig returns sane values for when no config file is
// present.
func DefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		ScenarioSource:           "./scenario.json",
		ScenarioSchemaConstraint: ">=1.0.0, <2.0.0",
		ClockDefaultWarp:         1,
		BridgeListenAddr:         "127.0.0.1:8733",
		AAROutputDir:             "./aar",
		LogLevel:                "info",
	}
}

// DefaultConfigPaths lists the locations LoadConfigOrDefault searches,
// in order.
func DefaultConfigPaths() []string {
	paths := []string{"./simcore.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".simcore", "config.yaml"))
	}
	return paths
}

// LoadConfig reads and parses a config file from an explicit path.
func LoadConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadConfigOrDefault searches the given paths in order and returns
// the first one found, parsed; falls back to DefaultConfig if none
// exist.
func LoadConfigOrDefault(paths []string) *SimulationConfig {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if cfg, err := LoadConfig(p); err == nil {
				return cfg
			}
		}
	}
	return DefaultConfig()
}

// SaveConfig writes cfg as YAML to path, creating parent directories
// as needed.
func SaveConfig(cfg *SimulationConfig, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MergeWithEnvironment overlays SIMCORE_-prefixed environment
// variables onto cfg: scenario source, warp, bridge address, log
// level.
func MergeWithEnvironment(cfg *SimulationConfig) {
	if v := os.Getenv("SIMCORE_SCENARIO_SOURCE"); v != "" {
		cfg.ScenarioSource = v
	}
	if v := os.Getenv("SIMCORE_SCHEMA_CONSTRAINT"); v != "" {
		cfg.ScenarioSchemaConstraint = v
	}
	if v := os.Getenv("SIMCORE_DEFAULT_WARP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ClockDefaultWarp = f
		}
	}
	if v := os.Getenv("SIMCORE_BRIDGE_ADDR"); v != "" {
		cfg.BridgeListenAddr = v
	}
	if v := os.Getenv("SIMCORE_AAR_DIR"); v != "" {
		cfg.AAROutputDir = v
	}
	if v := os.Getenv("SIMCORE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// CLIOverrides carries flag values from cmd/simcore, applied last.
type CLIOverrides struct {
	ScenarioSource   string
	LogLevel         string
	BridgeListenAddr string
}

// MergeWithCLIOverrides applies non-empty CLI flag values over cfg,
// the highest-precedence tier in the loader pipeline.
func MergeWithCLIOverrides(cfg *SimulationConfig, o CLIOverrides) {
	if o.ScenarioSource != "" {
		cfg.ScenarioSource = o.ScenarioSource
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.BridgeListenAddr != "" {
		cfg.BridgeListenAddr = o.BridgeListenAddr
	}
}

// LoadConfigWithOverrides runs the full three-tier pipeline: file (or
// default), then environment, then CLI flags.
func LoadConfigWithOverrides(cliPath string, o CLIOverrides) (*SimulationConfig, error) {
	var cfg *SimulationConfig
	if cliPath != "" {
		c, err := LoadConfig(cliPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = LoadConfigOrDefault(DefaultConfigPaths())
	}

	MergeWithEnvironment(cfg)
	MergeWithCLIOverrides(cfg, o)
	return cfg, nil
}
