// Package store persists analytics snapshots and after-action-report
// summaries to a local sqlite database: a single JSON-blob-per-row
// table, queried back out in timestamp order for export.
//
// This is local run history, not session or multiplayer state, so it
// does not reintroduce persistent state beyond the preferences blob:
// nothing here is read back into a live simulation run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	core "github.com/orbitalarena/simcore/internal/core"
)

// Store wraps a sqlite database holding analytics snapshots and AAR
// summaries.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite database at path,
// creating its parent directory and tables as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS analytics_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		sim_time_s REAL NOT NULL,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		data TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create analytics_snapshots table: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS aar_summaries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		data TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create aar_summaries table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendSnapshot persists one analytics ring-buffer entry under runID.
func (s *Store) AppendSnapshot(ctx context.Context, runID string, snap core.AnalyticsSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analytics_snapshots (run_id, sim_time_s, data) VALUES (?, ?, ?)`,
		runID, snap.SimTimeS, string(data))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Snapshots returns every persisted snapshot for runID in recording
// order.
func (s *Store) Snapshots(ctx context.Context, runID string) ([]core.AnalyticsSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM analytics_snapshots WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []core.AnalyticsSnapshot
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		var snap core.AnalyticsSnapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot row: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// AARSummary is the persisted after-action-report payload for one run:
// the final engagement and cyber tallies.
type AARSummary struct {
	RunID       string                              `json:"run_id"`
	Engagement  *core.EngagementTally               `json:"engagement,omitempty"`
	CyberByTeam map[string]*core.AttackDefenseTally `json:"cyber_by_team,omitempty"`
}

// AppendAARSummary persists one AAR summary for runID.
func (s *Store) AppendAARSummary(ctx context.Context, summary AARSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal aar summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO aar_summaries (run_id, data) VALUES (?, ?)`,
		summary.RunID, string(data))
	if err != nil {
		return fmt.Errorf("insert aar summary: %w", err)
	}
	return nil
}

// AARSummaries returns every persisted AAR summary for runID in
// recording order.
func (s *Store) AARSummaries(ctx context.Context, runID string) ([]AARSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM aar_summaries WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query aar summaries: %w", err)
	}
	defer rows.Close()

	var out []AARSummary
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan aar summary row: %w", err)
		}
		var summary AARSummary
		if err := json.Unmarshal([]byte(raw), &summary); err != nil {
			return nil, fmt.Errorf("unmarshal aar summary row: %w", err)
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Purge deletes every row for runID from both tables, for use after a
// run's data has been exported.
func (s *Store) Purge(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM analytics_snapshots WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("purge analytics_snapshots: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM aar_summaries WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("purge aar_summaries: %w", err)
	}
	return nil
}
