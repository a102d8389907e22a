// Package prefs persists a small key-value preferences blob: panel
// visibility, HUD toggles, viz global flags, trail duration, orbit
// revolution count, and audio/visual-effects enable flags. Unknown
// keys are ignored on load; missing keys revert to defaults.
//
// The blob lives as JSON at os.UserConfigDir()/<app>/prefs.json behind
// an RWMutex-guarded in-memory copy, loaded on construct and saved on
// update.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Preferences is the full persisted blob. Anything the wire JSON
// doesn't recognize is dropped silently by json.Unmarshal, so unknown
// keys are ignored rather than rejected.
type Preferences struct {
	PanelsVisible      map[string]bool `json:"panels_visible"`
	HUDElementsVisible map[string]bool `json:"hud_elements_visible"`

	VizOrbits  bool `json:"viz_orbits"`
	VizTrails  bool `json:"viz_trails"`
	VizLabels  bool `json:"viz_labels"`
	VizSensors bool `json:"viz_sensors"`
	VizComms   bool `json:"viz_comms"`

	TrailDurationS       float64 `json:"trail_duration_s"`
	OrbitRevolutionCount int     `json:"orbit_revolution_count"`

	AudioEnabled         bool `json:"audio_enabled"`
	VisualEffectsEnabled bool `json:"visual_effects_enabled"`
}

// defaults is returned whenever no prefs file exists yet, or a
// previously-saved file is missing a key.
func defaults() Preferences {
	return Preferences{
		PanelsVisible:        map[string]bool{},
		HUDElementsVisible:   map[string]bool{},
		VizOrbits:            true,
		VizTrails:            true,
		VizLabels:            true,
		VizSensors:           true,
		VizComms:             true,
		TrailDurationS:       120,
		OrbitRevolutionCount: 1,
		AudioEnabled:         true,
		VisualEffectsEnabled: true,
	}
}

// Service is the RWMutex-guarded preferences store.
type Service struct {
	mu       sync.RWMutex
	prefs    Preferences
	filePath string
}

// NewService constructs a Service rooted at
// os.UserConfigDir()/simcore/prefs.json and loads any existing file.
func NewService() *Service {
	configDir, _ := os.UserConfigDir()
	fp := filepath.Join(configDir, "simcore", "prefs.json")

	s := &Service{
		filePath: fp,
		prefs:    defaults(),
	}
	s.load()
	return s
}

// NewServiceAt is NewService with an explicit file path, for tests.
func NewServiceAt(path string) *Service {
	s := &Service{filePath: path, prefs: defaults()}
	s.load()
	return s
}

// Get returns a copy of the current preferences.
func (s *Service) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Update replaces the preferences wholesale and persists them.
func (s *Service) Update(p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
	return s.save()
}

func (s *Service) load() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}
	// Unmarshal onto the existing defaults value so any key absent from
	// the file keeps its default rather than zeroing out.
	_ = json.Unmarshal(data, &s.prefs)
}

func (s *Service) save() error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	return os.WriteFile(s.filePath, data, 0o644)
}
