package core

// CyberEventKind enumerates the typed cyber log entries, each with its
// fixed point value.
type CyberEventKind string

const (
	CyberScan      CyberEventKind = "SCAN"
	CyberExploit   CyberEventKind = "EXPLOIT"
	CyberControl   CyberEventKind = "CONTROL"
	CyberDisabled  CyberEventKind = "DISABLED"
	CyberExfil     CyberEventKind = "EXFIL"
	CyberPatch     CyberEventKind = "PATCH"
	CyberIsolate   CyberEventKind = "ISOLATE"
	CyberRestored  CyberEventKind = "RESTORED"
)

var cyberEventPoints = map[CyberEventKind]int{
	CyberScan:     1,
	CyberExploit:  5,
	CyberControl:  10,
	CyberDisabled: 3,
	CyberExfil:    8,
	CyberPatch:    4,
	CyberIsolate:  2,
	CyberRestored: 3,
}

// CyberLogEntry is one emitted cyber event.
type CyberLogEntry struct {
	VictimID string
	Kind     CyberEventKind
	Subsystem string // only set for CyberDisabled
	Points   int
	CreditedTeam string
}

// AttackDefenseTally is the per-team attack/defense score block.
type AttackDefenseTally struct {
	Attack struct {
		Scans              int
		Exploits           int
		Controlled         int
		SubsystemsDisabled int
		DataExfil          int
		TotalPoints        int
	}
	Defense struct {
		Patches        int
		Isolated       int
		CounterAttacks int
		Restored       int
		TotalPoints    int
	}
}

// CyberScanner compares each entity's current cyber flag vector
// against its previous snapshot and emits typed log entries, crediting
// the team opposite the victim for attacks and the victim's own team
// for defense.
type CyberScanner struct {
	previous map[string]CyberFlags
	ByTeam   map[string]*AttackDefenseTally
	Log      []CyberLogEntry
}

func NewCyberScanner() *CyberScanner {
	return &CyberScanner{
		previous: make(map[string]CyberFlags),
		ByTeam:   make(map[string]*AttackDefenseTally),
	}
}

func (s *CyberScanner) teamTally(team string) *AttackDefenseTally {
	t, ok := s.ByTeam[team]
	if !ok {
		t = &AttackDefenseTally{}
		s.ByTeam[team] = t
	}
	return t
}

func opposingTeam(team string) string {
	switch team {
	case "blue":
		return "red"
	case "red":
		return "blue"
	default:
		return "neutral"
	}
}

// Scan never throws: a missing previous entry defaults the whole
// flag vector to false so every currently-set flag looks new on first
// observation.
func (s *CyberScanner) Scan(world *World) {
	for _, e := range world.Entities() {
		cur := e.Snapshot().Cyber
		prev := s.previous[e.ID]

		s.emitTransition(e, prev, cur)
		s.previous[e.ID] = cur
	}
}

func (s *CyberScanner) emitTransition(e *Entity, prev, cur CyberFlags) {
	attacker := opposingTeam(e.Team)
	defender := e.Team

	if cur.Scanned && !prev.Scanned {
		s.credit(attacker, CyberScan, e.ID, "")
	}
	if cur.Exploited && !prev.Exploited {
		s.credit(attacker, CyberExploit, e.ID, "")
	}
	if cur.Controlled && !prev.Controlled {
		s.credit(attacker, CyberControl, e.ID, "")
	}
	if cur.Exfiltrated && !prev.Exfiltrated {
		s.credit(attacker, CyberExfil, e.ID, "")
	}
	for subsystem, disabled := range cur.DisabledSubsystems {
		if disabled && !prev.DisabledSubsystems[subsystem] {
			s.credit(attacker, CyberDisabled, e.ID, subsystem)
		}
	}

	if cur.Patched && !prev.Patched {
		s.credit(defender, CyberPatch, e.ID, "")
	}
	if cur.Isolated && !prev.Isolated {
		s.credit(defender, CyberIsolate, e.ID, "")
	}
	if cur.Restored && !prev.Restored {
		s.credit(defender, CyberRestored, e.ID, "")
	}
}

func (s *CyberScanner) credit(team string, kind CyberEventKind, victimID, subsystem string) {
	points := cyberEventPoints[kind]
	s.Log = append(s.Log, CyberLogEntry{VictimID: victimID, Kind: kind, Subsystem: subsystem, Points: points, CreditedTeam: team})

	tally := s.teamTally(team)
	switch kind {
	case CyberScan:
		tally.Attack.Scans++
		tally.Attack.TotalPoints += points
	case CyberExploit:
		tally.Attack.Exploits++
		tally.Attack.TotalPoints += points
	case CyberControl:
		tally.Attack.Controlled++
		tally.Attack.TotalPoints += points
	case CyberDisabled:
		tally.Attack.SubsystemsDisabled++
		tally.Attack.TotalPoints += points
	case CyberExfil:
		tally.Attack.DataExfil++
		tally.Attack.TotalPoints += points
	case CyberPatch:
		tally.Defense.Patches++
		tally.Defense.TotalPoints += points
	case CyberIsolate:
		tally.Defense.Isolated++
		tally.Defense.TotalPoints += points
	case CyberRestored:
		tally.Defense.Restored++
		tally.Defense.TotalPoints += points
	}
}
