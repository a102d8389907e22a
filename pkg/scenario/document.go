// Package scenario implements the ScenarioSource external collaborator,
// explicitly placed out of the core's own scope. It fetches a scenario
// document over HTTP or from a local file and converts its wire format
// into core.ScenarioDocument, gating on a semver schema-version
// constraint the way a long-lived wire format needs.
package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	core "github.com/orbitalarena/simcore/internal/core"
)

// wireComponent is the JSON shape of one entity component entry.
type wireComponent struct {
	Enabled     bool                   `json:"enabled"`
	PhysicsKind string                 `json:"physics_kind,omitempty"`
	ControlKind string                 `json:"control_kind,omitempty"`
	Config      map[string]interface{} `json:"config,omitempty"`
}

// wireGeoPoint is the JSON shape of a geodetic position.
type wireGeoPoint struct {
	LatRad float64 `json:"lat_rad"`
	LonRad float64 `json:"lon_rad"`
	AltM   float64 `json:"alt_m"`
}

// wireInitialState is the JSON shape of an entity's initial
// StateRecord. Fields left unset take the StateRecord zero value
// (Phase defaults to "" -> treated as PARKED by convention, zero
// speed/attitude).
type wireInitialState struct {
	Position        wireGeoPoint `json:"position"`
	InertialSpeedMS float64      `json:"inertial_speed_ms,omitempty"`
	FlightPathAngle float64      `json:"flight_path_angle,omitempty"`
	HeadingRad      float64      `json:"heading_rad,omitempty"`
	PitchRad        float64      `json:"pitch_rad,omitempty"`
	RollRad         float64      `json:"roll_rad,omitempty"`
	Throttle        float64      `json:"throttle,omitempty"`
	Phase           string       `json:"phase,omitempty"`
}

// wireEntity is the JSON shape of one entity declaration.
type wireEntity struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	Type         string                   `json:"type"`
	Team         string                   `json:"team"`
	VizCategory  string                   `json:"viz_category,omitempty"`
	Components   map[string]wireComponent `json:"components"`
	InitialState wireInitialState         `json:"initial_state"`
}

// wireDocument is the top-level JSON scenario format.
type wireDocument struct {
	SchemaVersion string       `json:"schema_version"`
	EpochJD       float64      `json:"epoch_jd"`
	DefaultWarp   float64      `json:"default_warp"`
	Entities      []wireEntity `json:"entities"`
}

func (d *wireDocument) toCore() (*core.ScenarioDocument, error) {
	doc := &core.ScenarioDocument{
		SchemaVersion: d.SchemaVersion,
		EpochJD:       d.EpochJD,
		DefaultWarp:   d.DefaultWarp,
	}

	for _, we := range d.Entities {
		if we.ID == "" {
			return nil, fmt.Errorf("scenario entity missing id")
		}

		spec := core.EntitySpec{
			ID:          we.ID,
			Name:        we.Name,
			Type:        we.Type,
			Team:        we.Team,
			VizCategory: we.VizCategory,
			Components:  make(map[core.ComponentKind]core.Component),
		}

		for kindStr, wc := range we.Components {
			kind := core.ComponentKind(kindStr)
			spec.Components[kind] = core.Component{
				Kind:        kind,
				Enabled:     wc.Enabled,
				PhysicsKind: core.PhysicsKind(wc.PhysicsKind),
				ControlKind: core.ControlKind(wc.ControlKind),
				Config:      wc.Config,
			}
		}

		spec.InitialState = core.StateRecord{
			Position: core.GeoPoint{
				LatRad: we.InitialState.Position.LatRad,
				LonRad: we.InitialState.Position.LonRad,
				AltM:   we.InitialState.Position.AltM,
			},
			InertialSpeedMS: we.InitialState.InertialSpeedMS,
			FlightPathAngle: we.InitialState.FlightPathAngle,
			HeadingRad:      we.InitialState.HeadingRad,
			PitchRad:        we.InitialState.PitchRad,
			RollRad:         we.InitialState.RollRad,
			Throttle:        we.InitialState.Throttle,
			Phase:           core.EntityPhase(we.InitialState.Phase),
		}

		doc.Entities = append(doc.Entities, spec)
	}

	return doc, nil
}

// Loader is the reference ScenarioSource. source strings beginning
// with "http://" or "https://" are fetched over HTTP; anything else is
// treated as a local file path.
type Loader struct {
	HTTPClient       *http.Client
	SchemaConstraint string // semver constraint, e.g. ">=1.0.0, <2.0.0"
}

// NewLoader constructs a Loader with a 30s HTTP timeout default.
func NewLoader(schemaConstraint string) *Loader {
	return &Loader{
		HTTPClient:       &http.Client{Timeout: 30 * time.Second},
		SchemaConstraint: schemaConstraint,
	}
}

// LoadScenario implements core.ScenarioSource.
func (l *Loader) LoadScenario(ctx context.Context, source string) (*core.ScenarioDocument, error) {
	raw, err := l.fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scenario: %w", err)
	}

	var wd wireDocument
	if err := json.Unmarshal(raw, &wd); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}

	if err := l.checkSchemaVersion(wd.SchemaVersion); err != nil {
		return nil, err
	}

	return wd.toCore()
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := l.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
		}
		return io.ReadAll(resp.Body)
	}

	return os.ReadFile(source)
}

func (l *Loader) checkSchemaVersion(version string) error {
	if l.SchemaConstraint == "" || version == "" {
		return nil
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid scenario schema_version %q: %w", version, err)
	}

	constraint, err := semver.NewConstraint(l.SchemaConstraint)
	if err != nil {
		return fmt.Errorf("invalid schema constraint %q: %w", l.SchemaConstraint, err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("scenario schema_version %s does not satisfy constraint %s", version, l.SchemaConstraint)
	}
	return nil
}
