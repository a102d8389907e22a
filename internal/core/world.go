package core

import "sync"

// System is a named phase in the world's per-tick pipeline. Standard
// order: AI -> control -> physics (non-player) -> sensors ->
// weapons -> cyber -> comm -> events -> visualization. Generalized
// from a fixed phase sequence to a registrable, ordered list.
type System struct {
	Name string
	Step func(dt float64, w *World)
}

// World holds entities and the ordered system list. Iteration over
// entities preserves insertion order; systems are appended at build
// time and never reordered by the core.
type World struct {
	mu sync.RWMutex

	order    []string
	entities map[string]*Entity

	systems []System

	SimTimeS   float64
	SimEpochJD float64
	TimeWarp   float64
	MaxWarp    float64
}

// NewWorld returns an empty world with warp at 1x.
func NewWorld(epochJD float64) *World {
	return &World{
		entities:   make(map[string]*Entity),
		SimEpochJD: epochJD,
		TimeWarp:   1,
		MaxWarp:    1024,
	}
}

// AddEntity inserts e. Duplicate ids fail with ErrDuplicateEntity and
// leave the world unchanged.
func (w *World) AddEntity(e *Entity) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.entities[e.ID]; exists {
		return newError(ErrDuplicateEntity, "entity id already present: "+e.ID, nil)
	}
	w.entities[e.ID] = e
	w.order = append(w.order, e.ID)
	return nil
}

// RemoveEntity deletes an entity by id. Removing an unknown id is a
// no-op.
func (w *World) RemoveEntity(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[id]; !ok {
		return
	}
	delete(w.entities, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// GetEntity returns the entity for id, or nil if absent, a null
// sentinel rather than an exception.
func (w *World) GetEntity(id string) *Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entities[id]
}

// Entities returns all entities in insertion order. The returned
// slice is a fresh copy safe to range over while the world mutates.
func (w *World) Entities() []*Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entities[id])
	}
	return out
}

// EntitiesWith returns entities carrying an enabled component of kind,
// in insertion order.
func (w *World) EntitiesWith(kind ComponentKind) []*Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Entity, 0)
	for _, id := range w.order {
		e := w.entities[id]
		if e.ComponentEnabled(kind) {
			out = append(out, e)
		}
	}
	return out
}

// AddSystem appends a system to the ordered pipeline. The core does
// not reorder systems after world build.
func (w *World) AddSystem(s System) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.systems = append(w.systems, s)
}

// Systems returns the ordered system list.
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]System, len(w.systems))
	copy(out, w.systems)
	return out
}

// Count returns the number of entities currently registered.
func (w *World) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

// StandardSystemOrder names the canonical phase order, exposed so
// orchestrator wiring and tests can assert systems were registered in
// the expected sequence.
var StandardSystemOrder = []string{
	"ai", "control", "physics", "sensors", "weapons", "cyber", "comm", "events", "visualization",
}
