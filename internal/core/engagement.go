package core

import "fmt"

const engagementEventCap = 500

// WeaponClassTally counts launches/kills/misses for one weapon class.
type WeaponClassTally struct {
	Launches int
	Kills    int
	Misses   int
}

// EngagementEvent is one dedupe-surviving engagement outcome, kept in
// a capped rolling log.
type EngagementEvent struct {
	SourceID    string
	TargetID    string
	WeaponClass string
	Result      string
	TimeS       float64
}

// EngagementTally is the per-team engagement statistics block.
type EngagementTally struct {
	ByClass map[string]*WeaponClassTally

	PlayerKills  int
	PlayerDeaths int

	Events []EngagementEvent
}

func newEngagementTally() *EngagementTally {
	return &EngagementTally{ByClass: make(map[string]*WeaponClassTally)}
}

func (t *EngagementTally) classTally(class string) *WeaponClassTally {
	c, ok := t.ByClass[class]
	if !ok {
		c = &WeaponClassTally{}
		t.ByClass[class] = c
	}
	return c
}

func (t *EngagementTally) appendEvent(ev EngagementEvent) {
	t.Events = append(t.Events, ev)
	if len(t.Events) > engagementEventCap {
		t.Events = t.Events[len(t.Events)-engagementEventCap:]
	}
}

// EngagementScanner walks all entities, comparing their exposed
// engagement lists against a dedupe map so each outcome is scored
// exactly once regardless of how many ticks it remains visible.
type EngagementScanner struct {
	seen map[string]bool

	ByTeam   map[string]*EngagementTally
	PlayerID string
	PlayerTeam string
}

func NewEngagementScanner() *EngagementScanner {
	return &EngagementScanner{
		seen:   make(map[string]bool),
		ByTeam: make(map[string]*EngagementTally),
	}
}

func (s *EngagementScanner) teamTally(team string) *EngagementTally {
	t, ok := s.ByTeam[team]
	if !ok {
		t = newEngagementTally()
		s.ByTeam[team] = t
	}
	return t
}

func dedupeKey(ev Engagement) string {
	return fmt.Sprintf("%s|%s|%s|%f", ev.SourceID, ev.TargetID, ev.Result, ev.EngagementTimeS)
}

// Scan processes one tick's worth of entity-exposed engagements.
// Never errors: a missing or malformed field defaults to zero (spec
// §7 "Scanners never throw").
func (s *EngagementScanner) Scan(world *World) {
	for _, e := range world.Entities() {
		st := e.Snapshot()
		allLists := [][]Engagement{st.Engagements, st.A2AEngagements, st.KKEngagements}
		for _, list := range allLists {
			for _, ev := range list {
				key := dedupeKey(ev)
				if s.seen[key] {
					continue
				}
				if ev.Result != "KILL" && ev.Result != "MISS" {
					continue
				}
				s.seen[key] = true
				s.recordOutcome(world, e, ev)
			}
		}
	}
}

func (s *EngagementScanner) recordOutcome(world *World, owner *Entity, ev Engagement) {
	source := world.GetEntity(ev.SourceID)
	target := world.GetEntity(ev.TargetID)

	var sourceTeam, targetTeam string
	if source != nil {
		sourceTeam = source.Team
	}
	if target != nil {
		targetTeam = target.Team
	}

	tally := s.teamTally(sourceTeam)
	cls := tally.classTally(ev.WeaponClass)
	cls.Launches++
	if ev.Result == "KILL" {
		cls.Kills++
	} else {
		cls.Misses++
	}
	tally.appendEvent(EngagementEvent{
		SourceID: ev.SourceID, TargetID: ev.TargetID,
		WeaponClass: ev.WeaponClass, Result: ev.Result, TimeS: ev.EngagementTimeS,
	})

	if ev.Result == "KILL" {
		if ev.SourceID == s.PlayerID {
			s.teamTally(s.PlayerTeam).PlayerKills++
		}
		if ev.TargetID == s.PlayerID {
			s.teamTally(targetTeam).PlayerDeaths++
		}
	}
}
