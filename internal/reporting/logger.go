// Package reporting provides a colored event logger and
// after-action-report generator built on this core's engagement and
// cyber tallies (internal/core/engagement.go, cyber.go).
package reporting

import (
	"fmt"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// EventLogger accumulates run events and echoes them to the terminal
// with severity-appropriate colors.
type EventLogger struct {
	runID     string
	startTime time.Time
	events    []Event
	mu        sync.RWMutex
}

// Event is one logged occurrence.
type Event struct {
	Timestamp time.Time
	Type      string
	Severity  string
	Team      string
	Message   string
	Details   map[string]interface{}
}

// Event type constants.
const (
	EventTypeEngagement   = "engagement"
	EventTypeKill         = "kill"
	EventTypeCyberAttack  = "cyber_attack"
	EventTypeCyberDefense = "cyber_defense"
	EventTypeHijack       = "hijack"
	EventTypeBurnComplete = "burn_complete"
	EventTypeSystem       = "system"
)

// Severity constants.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

var (
	colorInfo     = color.New(color.FgCyan)
	colorWarning  = color.New(color.FgYellow)
	colorError    = color.New(color.FgRed)
	colorCritical = color.New(color.FgRed, color.Bold)
	colorTeamRed  = color.New(color.FgRed, color.Bold)
	colorTeamBlue = color.New(color.FgBlue, color.Bold)
	colorSuccess  = color.New(color.FgGreen)
)

// NewEventLogger starts a new run log, generating a run id via
// google/uuid.
func NewEventLogger() *EventLogger {
	el := &EventLogger{
		runID:     uuid.NewString(),
		startTime: time.Now(),
	}
	el.logColoredMessage(SeverityInfo, "Run started", fmt.Sprintf("id=%s time=%s", el.runID, el.startTime.Format("15:04:05")))
	return el
}

// RunID returns the generated run identifier.
func (el *EventLogger) RunID() string { return el.runID }

// LogEngagement records an engagement scanner outcome.
func (el *EventLogger) LogEngagement(sourceID, targetID, result, team string) {
	sev := SeverityInfo
	typ := EventTypeEngagement
	if result == "KILL" {
		sev = SeverityWarning
		typ = EventTypeKill
	}
	el.logEvent(Event{
		Timestamp: time.Now(),
		Type:      typ,
		Severity:  sev,
		Team:      team,
		Message:   fmt.Sprintf("%s%s -> %s: %s", teamPrefix(team), sourceID, targetID, result),
	})
}

// teamPrefix renders a colored team tag, red for one side and blue
// for the other.
func teamPrefix(team string) string {
	switch team {
	case "red":
		return colorTeamRed.Sprint("[RED] ")
	case "blue":
		return colorTeamBlue.Sprint("[BLUE] ")
	default:
		return ""
	}
}

// LogCyber records a cyber scanner transition.
func (el *EventLogger) LogCyber(kind, victimID, subsystem, creditedTeam string, points int) {
	typ := EventTypeCyberAttack
	switch kind {
	case "PATCH", "ISOLATE", "RESTORED":
		typ = EventTypeCyberDefense
	}
	msg := fmt.Sprintf("%s on %s (+%d pts -> %s)", kind, victimID, points, creditedTeam)
	if subsystem != "" {
		msg = fmt.Sprintf("%s [%s]", msg, subsystem)
	}
	el.logEvent(Event{
		Timestamp: time.Now(),
		Type:      typ,
		Severity:  SeverityInfo,
		Team:      creditedTeam,
		Message:   msg,
	})
}

// LogHijack records a player assumeControl transition.
func (el *EventLogger) LogHijack(fromID, toID string) {
	el.logEvent(Event{
		Timestamp: time.Now(),
		Type:      EventTypeHijack,
		Severity:  SeverityInfo,
		Message:   fmt.Sprintf("player control moved: %s -> %s", fromID, toID),
	})
}

// LogBurnComplete records a maneuver auto-executor completion.
func (el *EventLogger) LogBurnComplete(entityID, message string) {
	el.logEvent(Event{
		Timestamp: time.Now(),
		Type:      EventTypeBurnComplete,
		Severity:  SeverityInfo,
		Message:   colorSuccess.Sprintf("%s: %s", entityID, message),
	})
}

// LogSystem records a generic system-level message at the given
// severity.
func (el *EventLogger) LogSystem(severity, message string) {
	el.logEvent(Event{
		Timestamp: time.Now(),
		Type:      EventTypeSystem,
		Severity:  severity,
		Message:   message,
	})
}

// Events returns a snapshot of all logged events.
func (el *EventLogger) Events() []Event {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]Event, len(el.events))
	copy(out, el.events)
	return out
}

// StartTime returns when this logger (and the run it tracks) began.
func (el *EventLogger) StartTime() time.Time { return el.startTime }

func (el *EventLogger) logEvent(ev Event) {
	el.mu.Lock()
	el.events = append(el.events, ev)
	el.mu.Unlock()
	el.logColoredMessage(ev.Severity, ev.Type, ev.Message)
}

func (el *EventLogger) logColoredMessage(severity, title, message string) {
	c := colorInfo
	switch severity {
	case SeverityWarning:
		c = colorWarning
	case SeverityError:
		c = colorError
	case SeverityCritical:
		c = colorCritical
	}
	c.Printf("[%s] %s: %s\n", time.Now().Format("15:04:05"), title, message)
}
