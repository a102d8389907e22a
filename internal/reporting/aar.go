package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	core "github.com/orbitalarena/simcore/internal/core"
)

// AARConfig configures report generation: where it's written, in
// what format, and at what level of detail.
type AARConfig struct {
	OutputDir   string
	Format      string // "json", "markdown", or "both"
	DetailLevel string // "summary", "full"
}

// AARMetadata is the report's identifying header.
type AARMetadata struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	RunStart    time.Time `json:"run_start"`
	Duration    string    `json:"duration"`
}

// TeamAnalysis summarizes one team's weapon-class and cyber tallies.
type TeamAnalysis struct {
	Team          string                           `json:"team"`
	Kills         int                              `json:"kills"`
	Misses        int                              `json:"misses"`
	ByWeaponClass map[string]core.WeaponClassTally `json:"by_weapon_class"`
	Cyber         *core.AttackDefenseTally          `json:"cyber,omitempty"`
}

// AAR is the After Action Report, scoped to the engagement and cyber
// score tallies this core actually produces.
type AAR struct {
	Metadata     AARMetadata             `json:"metadata"`
	PlayerKills  int                     `json:"player_kills"`
	PlayerDeaths int                     `json:"player_deaths"`
	TeamAnalysis map[string]TeamAnalysis `json:"team_analysis"`
	EventLog     []Event                 `json:"event_log,omitempty"`
}

// AARGenerator builds and saves After Action Reports from a run's
// event logger plus its final engagement/cyber tallies.
type AARGenerator struct {
	logger *EventLogger
	config AARConfig
}

// NewAARGenerator constructs a generator bound to logger and config.
func NewAARGenerator(logger *EventLogger, config AARConfig) *AARGenerator {
	return &AARGenerator{logger: logger, config: config}
}

// GenerateAAR builds the report from the engagement scanner's final
// tally-per-team map and the cyber scanner's final tally-per-team map.
func (g *AARGenerator) GenerateAAR(byTeam map[string]*core.EngagementTally, cyberByTeam map[string]*core.AttackDefenseTally) *AAR {
	aar := &AAR{
		Metadata: AARMetadata{
			RunID:       g.logger.RunID(),
			GeneratedAt: time.Now(),
			RunStart:    g.logger.StartTime(),
			Duration:    time.Since(g.logger.StartTime()).Round(time.Second).String(),
		},
		TeamAnalysis: make(map[string]TeamAnalysis),
	}

	for team, tally := range byTeam {
		aar.PlayerKills += tally.PlayerKills
		aar.PlayerDeaths += tally.PlayerDeaths

		ta := TeamAnalysis{
			Team:          team,
			ByWeaponClass: make(map[string]core.WeaponClassTally),
		}
		for class, ct := range tally.ByClass {
			ta.Kills += ct.Kills
			ta.Misses += ct.Misses
			ta.ByWeaponClass[class] = *ct
		}
		if cyber, ok := cyberByTeam[team]; ok {
			ta.Cyber = cyber
		}
		aar.TeamAnalysis[team] = ta
	}

	if g.config.DetailLevel == "full" {
		aar.EventLog = g.logger.Events()
	}

	return aar
}

// SaveAAR writes aar to config.OutputDir in the configured format(s).
func (g *AARGenerator) SaveAAR(aar *AAR) error {
	if err := os.MkdirAll(g.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("AAR_%s_%s", shortID(aar.Metadata.RunID), timestamp)

	switch g.config.Format {
	case "json":
		return g.saveJSON(aar, filename)
	case "markdown":
		return g.saveMarkdown(aar, filename)
	case "both", "":
		if err := g.saveJSON(aar, filename); err != nil {
			return err
		}
		return g.saveMarkdown(aar, filename)
	default:
		return fmt.Errorf("unsupported AAR format: %s", g.config.Format)
	}
}

func (g *AARGenerator) saveJSON(aar *AAR, filename string) error {
	data, err := json.MarshalIndent(aar, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal AAR: %w", err)
	}
	return os.WriteFile(filepath.Join(g.config.OutputDir, filename+".json"), data, 0o644)
}

func (g *AARGenerator) saveMarkdown(aar *AAR, filename string) error {
	var sb strings.Builder

	sb.WriteString("# After Action Report\n\n")
	sb.WriteString(fmt.Sprintf("**Run ID:** %s\n", aar.Metadata.RunID))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", aar.Metadata.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Duration:** %s\n\n", aar.Metadata.Duration))

	sb.WriteString("## Executive Summary\n\n")
	sb.WriteString(fmt.Sprintf("**Player Kills:** %d\n\n", aar.PlayerKills))
	sb.WriteString(fmt.Sprintf("**Player Deaths:** %d\n\n", aar.PlayerDeaths))

	sb.WriteString("## Team Analysis\n\n")
	teams := make([]string, 0, len(aar.TeamAnalysis))
	for team := range aar.TeamAnalysis {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	for _, team := range teams {
		ta := aar.TeamAnalysis[team]
		sb.WriteString(fmt.Sprintf("### %s\n\n", team))
		sb.WriteString(fmt.Sprintf("- **Kills:** %d\n", ta.Kills))
		sb.WriteString(fmt.Sprintf("- **Misses:** %d\n", ta.Misses))
		if ta.Cyber != nil {
			sb.WriteString(fmt.Sprintf("- **Cyber attack points:** %d\n", ta.Cyber.Attack.TotalPoints))
			sb.WriteString(fmt.Sprintf("- **Cyber defense points:** %d\n", ta.Cyber.Defense.TotalPoints))
		}
		sb.WriteString("\n")
	}

	if len(aar.EventLog) > 0 {
		sb.WriteString("## Event Log\n\n")
		for _, ev := range aar.EventLog {
			sb.WriteString(fmt.Sprintf("- `%s` **%s** %s\n", ev.Timestamp.Format("15:04:05"), ev.Type, ev.Message))
		}
	}

	path := filepath.Join(g.config.OutputDir, filename+".md")
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
