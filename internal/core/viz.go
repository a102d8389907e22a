package core

import "github.com/sourcegraph/conc/pool"

// GlobalVizFlags is the global bank of overlay toggles that composes
// by logical AND with per-group visibility.
type GlobalVizFlags struct {
	Orbits  bool
	Trails  bool
	Labels  bool
	Sensors bool
	Comms   bool
}

// VisualizationPlane owns per-group show flags keyed by type, team, or
// category, plus the global flag bank. It writes scratch fields
// consumed by an external reader rather than pushing through a
// callback.
type VisualizationPlane struct {
	Global GlobalVizFlags

	typeShow     map[string]bool
	teamShow     map[string]bool
	categoryShow map[string]bool
}

func NewVisualizationPlane() *VisualizationPlane {
	return &VisualizationPlane{
		Global:       GlobalVizFlags{Orbits: true, Trails: true, Labels: true, Sensors: true, Comms: true},
		typeShow:     make(map[string]bool),
		teamShow:     make(map[string]bool),
		categoryShow: make(map[string]bool),
	}
}

// SetTypeVisible, SetTeamVisible, SetCategoryVisible toggle a single
// group's visibility. An absent key defaults to shown (true) the
// first time it is queried.
func (p *VisualizationPlane) SetTypeVisible(t string, show bool)     { p.typeShow[t] = show }
func (p *VisualizationPlane) SetTeamVisible(t string, show bool)     { p.teamShow[t] = show }
func (p *VisualizationPlane) SetCategoryVisible(c string, show bool) { p.categoryShow[c] = show }

func groupShow(m map[string]bool, key string) bool {
	if key == "" {
		return true
	}
	show, ok := m[key]
	if !ok {
		return true
	}
	return show
}

// vizConcurrencyThreshold is the entity count above which Apply fans
// the per-entity flag computation out across a bounded worker pool
// instead of iterating sequentially.
const vizConcurrencyThreshold = 256

const vizMaxWorkers = 8

// Apply iterates world entities, computes effective visibility by
// ANDing type/team/category group flags, and writes the _viz* scratch
// fields. playerID is exempt from suppression. For large worlds the
// per-entity work is fanned out across a bounded worker pool
// (github.com/sourcegraph/conc/pool); each entity's write is
// independent so no ordering guarantee is lost.
func (p *VisualizationPlane) Apply(world *World, playerID string) {
	entities := world.Entities()
	if len(entities) < vizConcurrencyThreshold {
		for _, e := range entities {
			p.applyOne(e, playerID)
		}
		return
	}

	wp := pool.New().WithMaxGoroutines(vizMaxWorkers)
	for _, e := range entities {
		e := e
		wp.Go(func() {
			p.applyOne(e, playerID)
		})
	}
	wp.Wait()
}

func (p *VisualizationPlane) applyOne(e *Entity, playerID string) {
	effective := groupShow(p.typeShow, e.Type) &&
		groupShow(p.teamShow, e.Team) &&
		groupShow(p.categoryShow, e.VizCategory)

	if e.ID == playerID {
		effective = true
	}

	e.UpdateState(func(s *StateRecord) {
		s.Viz = VizFlags{
			Show:    effective,
			Orbits:  effective && p.Global.Orbits,
			Trails:  effective && p.Global.Trails,
			Labels:  effective && p.Global.Labels,
			Sensors: effective && p.Global.Sensors,
			Comms:   effective && p.Global.Comms,
		}
	})
}
