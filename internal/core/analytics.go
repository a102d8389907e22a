package core

import "math"

const analyticsRingCap = 3600

// AnalyticsSnapshot is one entry in the analytics ring buffer.
type AnalyticsSnapshot struct {
	SimTimeS float64

	AliveCount   int
	DeadCount    int
	HasFuelCount int

	RegimeHistogram map[Regime]int
	TeamHistogram   map[string]int
	TypeHistogram   map[string]int

	AvgAltitudeM float64
	AvgSpeedMS   float64

	CommDeliveryRate   float64
	CommLatencyS       float64
	CommActiveLinks    int
	JammerCount        int
	CyberAttackCount   int
}

// AnalyticsRing is a capped ring buffer of snapshots, appended at most
// once per simulated second.
type AnalyticsRing struct {
	buffer        []AnalyticsSnapshot
	lastWholeSecS int64
	hasLast       bool
}

func NewAnalyticsRing() *AnalyticsRing {
	return &AnalyticsRing{buffer: make([]AnalyticsSnapshot, 0, analyticsRingCap)}
}

func (r *AnalyticsRing) Snapshots() []AnalyticsSnapshot {
	out := make([]AnalyticsSnapshot, len(r.buffer))
	copy(out, r.buffer)
	return out
}

// CommStats carries the communications-engine counters the core does
// not itself compute; callers supply the latest values each time Tick
// runs.
type CommStats struct {
	DeliveryRate  float64
	LatencyS      float64
	ActiveLinks   int
	JammerCount   int
	CyberAttacks  int
}

// Tick appends a snapshot if at least one simulated second has elapsed
// since the last one, and drops the oldest entry beyond the 3600 cap.
func (r *AnalyticsRing) Tick(world *World, comm CommStats) {
	wholeSec := int64(math.Floor(world.SimTimeS))
	if r.hasLast && wholeSec == r.lastWholeSecS {
		return
	}
	r.lastWholeSecS = wholeSec
	r.hasLast = true

	snap := AnalyticsSnapshot{
		SimTimeS:        world.SimTimeS,
		RegimeHistogram: make(map[Regime]int),
		TeamHistogram:   make(map[string]int),
		TypeHistogram:   make(map[string]int),
		CommDeliveryRate: comm.DeliveryRate,
		CommLatencyS:     comm.LatencyS,
		CommActiveLinks:  comm.ActiveLinks,
		JammerCount:      comm.JammerCount,
		CyberAttackCount: comm.CyberAttacks,
	}

	var totalAlt, totalSpeed float64
	entities := world.Entities()
	for _, e := range entities {
		st := e.Snapshot()
		if e.Active && st.Phase != PhaseCrashed {
			snap.AliveCount++
		} else {
			snap.DeadCount++
		}
		if st.Throttle > 0 || st.EngineOn {
			snap.HasFuelCount++
		}

		snap.TeamHistogram[e.Team]++
		snap.TypeHistogram[e.Type]++
		snap.RegimeHistogram[ClassifyRegime(st.Orbital)]++

		totalAlt += st.Position.AltM
		totalSpeed += st.InertialSpeedMS
	}

	if n := len(entities); n > 0 {
		snap.AvgAltitudeM = totalAlt / float64(n)
		snap.AvgSpeedMS = totalSpeed / float64(n)
	}

	r.buffer = append(r.buffer, snap)
	if len(r.buffer) > analyticsRingCap {
		r.buffer = r.buffer[len(r.buffer)-analyticsRingCap:]
	}
}
