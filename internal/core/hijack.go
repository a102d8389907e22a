package core

import "math"

// PropulsionMode is a tagged enum rather than a dynamic string-keyed
// propulsion lookup.
type PropulsionMode struct {
	Kind     PropulsionModeKind
	ThrustN  float64
	Preset   string
}

type PropulsionModeKind int

const (
	PropulsionTaxi PropulsionModeKind = iota
	PropulsionAir
	PropulsionHypersonic
	PropulsionRocket
)

// WeaponEntry is one inventory slot in the player's weapon loadout.
type WeaponEntry struct {
	Name   string
	Type   string
	Count  int
	Max    int
	Active bool
}

// SensorEntry is one entry in the player's sensor list.
type SensorEntry struct {
	Name string
	Type string
}

// PointingMode selects the auto-pointing reference direction.
type PointingMode string

const (
	PointingManual       PointingMode = "manual"
	PointingPrograde     PointingMode = "prograde"
	PointingRetrograde   PointingMode = "retrograde"
	PointingNormal       PointingMode = "normal"
	PointingAntiNormal   PointingMode = "anti_normal"
	PointingRadialOut    PointingMode = "radial_out"
	PointingRadialIn     PointingMode = "radial_in"
	PointingNadir        PointingMode = "nadir"
	PointingSun          PointingMode = "sun"
	PointingTarget       PointingMode = "target"
)

// CameraMode selects how the external renderer should pose its camera.
type CameraMode string

const (
	CameraChase    CameraMode = "chase"
	CameraCockpit  CameraMode = "cockpit"
	CameraFree     CameraMode = "free"
)

// CameraState is a renderer-agnostic camera pose input: the core
// computes mode/range/pitch/headingOffset, and the renderer derives
// its own matrix from these values.
type CameraState struct {
	Mode         CameraMode
	RangeM       float64
	PitchRad     float64
	HeadingOffsetRad float64
}

// AutopilotState tracks whether an altitude-hold/attitude-hold
// autopilot is engaged and its setpoints; terrain.go drives its
// altitude setpoint.
type AutopilotState struct {
	Engaged           bool
	AltitudeHoldM     float64
	HeadingHoldRad    float64
}

// QuestState is a minimal waypoint/objective tracker attached to the
// player context; scenario content populates it, the core only
// carries it through hijack/assumeControl transitions.
type QuestState struct {
	ActiveWaypointID string
	Completed        []string
}

// PlayerContext exists iff a player entity is selected.
type PlayerContext struct {
	EntityID string

	Engine          EngineConfig
	PropulsionModes []PropulsionMode
	SelectedMode    int

	Weapons       []WeaponEntry
	Sensors       []SensorEntry
	SelectedSensor int

	Autopilot AutopilotState

	PointingMode PointingMode
	PointingLock bool
	PointingTargetID string

	AutoExec ManeuverExecState

	Camera CameraState

	Quest QuestState
}

// HijackManager owns which entity (if any) is player-driven. Swapping
// the active player tears down the old PlayerContext and brings up the
// new one transactionally.
type HijackManager struct {
	Player *PlayerContext
}

func NewHijackManager() *HijackManager {
	return &HijackManager{}
}

// SelectPlayer applies the five-tier fallback policy and returns the
// chosen entity, or nil for observer mode.
func SelectPlayer(world *World, preferredID string) *Entity {
	if preferredID != "" {
		if e := world.GetEntity(preferredID); e != nil && e.HasComponent(ComponentPhysics) {
			return e
		}
	}

	for _, e := range world.Entities() {
		if c := e.Component(ComponentControl); c != nil && c.ControlKind == ControlPlayerInput {
			return e
		}
	}

	for _, e := range world.Entities() {
		if c := e.Component(ComponentPhysics); c != nil && c.PhysicsKind == PhysicsFlight3DOF {
			return e
		}
	}

	for _, e := range world.Entities() {
		if c := e.Component(ComponentPhysics); c != nil && c.PhysicsKind != PhysicsStaticGround && c.PhysicsKind != PhysicsNone {
			return e
		}
	}

	for _, e := range world.Entities() {
		if e.HasComponent(ComponentPhysics) {
			return e
		}
	}

	return nil
}

// hijack force-disables physics/control/ai on entity; the visual
// component remains enabled. The entity's state becomes
// core-owned for physics stepping; other systems still read it.
func hijack(e *Entity) {
	e.SetComponentEnabled(ComponentPhysics, false)
	e.SetComponentEnabled(ComponentControl, false)
	e.SetComponentEnabled(ComponentAI, false)
}

// release re-enables physics/control/ai on a formerly-hijacked entity.
func release(e *Entity) {
	e.SetComponentEnabled(ComponentPhysics, true)
	e.SetComponentEnabled(ComponentControl, true)
	e.SetComponentEnabled(ComponentAI, true)
}

// AssumeControl transfers the player role: if a current player exists
// its components are re-enabled first; hijack(newEntity) is then applied;
// the player context is rebuilt. Fails with ErrIneligibleEntity
// without mutating state if newEntity is inactive or has no physics.
func (h *HijackManager) AssumeControl(world *World, newEntity *Entity, propagator OrbitalPropagator) (*PlayerContext, error) {
	if newEntity == nil || !newEntity.Active || !newEntity.HasComponent(ComponentPhysics) {
		return nil, newError(ErrIneligibleEntity, "assumeControl target is inactive or has no physics component", nil)
	}

	if h.Player != nil {
		if old := world.GetEntity(h.Player.EntityID); old != nil {
			release(old)
		}
	}

	hijack(newEntity)

	ctx := &PlayerContext{
		EntityID: newEntity.ID,
		Camera: CameraState{
			Mode:   CameraChase,
			RangeM: 200,
		},
	}

	physComp := newEntity.Component(ComponentPhysics)
	if physComp != nil {
		ctx.Engine = engineConfigFromComponent(physComp)
		ctx.PropulsionModes = buildPropulsionCatalog(physComp)
		ctx.SelectedMode = defaultPropulsionModeIndex(ctx.PropulsionModes, newEntity)
	}

	ctx.Weapons = buildWeaponInventory(newEntity)
	ctx.Sensors = buildSensorInventory(newEntity)

	// If the new physics component is 2-body orbital and cached ECI
	// vectors are present, derive heading/flight-path-angle from the
	// ECI velocity projected into local ENU. Uses the GMST=0
	// approximation.
	if physComp != nil && physComp.PhysicsKind == PhysicsOrbital2Body {
		snap := newEntity.Snapshot()
		if snap.ECIPosition != nil && snap.ECIVelocity != nil {
			heading, gamma := deriveFlightStateFromECI(*snap.ECIVelocity, snap.Position)
			newEntity.UpdateState(func(s *StateRecord) {
				s.HeadingRad = heading
				s.FlightPathAngle = gamma
			})
		} else if propagator != nil {
			pos, vel := propagator.GeodeticToECI(snap.Position, world.SimTimeS)
			heading, gamma := deriveFlightStateFromECI(vel, snap.Position)
			newEntity.UpdateState(func(s *StateRecord) {
				s.ECIPosition = &pos
				s.ECIVelocity = &vel
				s.HeadingRad = heading
				s.FlightPathAngle = gamma
			})
		}
	}

	h.Player = ctx
	return ctx, nil
}

// deriveFlightStateFromECI projects an ECI velocity vector into the
// local ENU frame at the entity's geodetic position using the GMST=0
// approximation, and returns heading and flight-path angle (gamma).
//
// This is a deliberate simplification: a real
// GMST would rotate ECI->ECEF by the actual sidereal time, but the
// core treats ECI and ECEF axes as aligned at simTime=0 and does not
// correct for elapsed rotation here.
func deriveFlightStateFromECI(eciVel Vec3, pos GeoPoint) (headingRad, gammaRad float64) {
	enu := ECIToENU(eciVel, pos)
	horizontalSpeed := math.Hypot(enu.X, enu.Y)
	headingRad = math.Atan2(enu.X, enu.Y) // atan2(east, north)
	gammaRad = math.Atan2(enu.Z, horizontalSpeed)
	return headingRad, gammaRad
}

func engineConfigFromComponent(c *Component) EngineConfig {
	cfg := EngineConfig{Label: "default"}
	if c.Config == nil {
		return cfg
	}
	if v, ok := c.Config["thrustN"].(float64); ok {
		cfg.ThrustN = v
	}
	if v, ok := c.Config["massKg"].(float64); ok {
		cfg.MassKg = v
	}
	if v, ok := c.Config["label"].(string); ok {
		cfg.Label = v
	}
	return cfg
}

// omsClassThrustN is the minimum thrust for a propulsion mode to count
// as OMS-class.
const omsClassThrustN = 25000.0

// buildPropulsionCatalog derives the entity's propulsion-mode catalog
// from its physics component config. Taxi/air/hypersonic thrust take
// config overrides (taxiThrustN/airThrustN/hypersonicThrustN) with
// reference defaults; the rocket-mode thrust mirrors
// engineConfigFromComponent's primary thrustN so the OMS mode reflects
// the entity's actual configured engine.
func buildPropulsionCatalog(c *Component) []PropulsionMode {
	taxi, air, hyper, rocket := 0.0, 15000.0, 45000.0, omsClassThrustN
	if c.Config != nil {
		if v, ok := c.Config["taxiThrustN"].(float64); ok {
			taxi = v
		}
		if v, ok := c.Config["airThrustN"].(float64); ok {
			air = v
		}
		if v, ok := c.Config["hypersonicThrustN"].(float64); ok {
			hyper = v
		}
		if v, ok := c.Config["thrustN"].(float64); ok && v > 0 {
			rocket = v
		}
	}
	return []PropulsionMode{
		{Kind: PropulsionTaxi, ThrustN: taxi},
		{Kind: PropulsionAir, ThrustN: air},
		{Kind: PropulsionHypersonic, ThrustN: hyper},
		{Kind: PropulsionRocket, ThrustN: rocket, Preset: "OMS"},
	}
}

// defaultPropulsionModeIndex picks the first OMS-class (>=25kN) mode
// by default for orbital-altitude entities, falling back to the first
// catalog entry otherwise.
func defaultPropulsionModeIndex(modes []PropulsionMode, e *Entity) int {
	if e.Snapshot().Position.AltM > 100000 {
		for i, m := range modes {
			if m.ThrustN >= omsClassThrustN {
				return i
			}
		}
	}
	return 0
}

// defaultWeaponInventory/defaultSensorInventory derive a single inventory entry from a
// component's own (non-"_custom") config fields, used when no
// "_custom" weapons/sensors metadata is present.

func buildWeaponInventory(e *Entity) []WeaponEntry {
	c := e.Component(ComponentWeapons)
	if c == nil || c.Config == nil {
		return nil
	}
	if raw, ok := c.Config["_custom"].([]interface{}); ok {
		return parseWeaponEntries(raw)
	}
	return defaultWeaponInventory(c.Config)
}

func parseWeaponEntries(raw []interface{}) []WeaponEntry {
	out := make([]WeaponEntry, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, WeaponEntry{
			Name:   stringField(m, "name"),
			Type:   stringField(m, "type"),
			Count:  intField(m, "count"),
			Max:    intField(m, "max"),
			Active: boolField(m, "active"),
		})
	}
	return out
}

func defaultWeaponInventory(cfg map[string]interface{}) []WeaponEntry {
	name := stringField(cfg, "name")
	typ := stringField(cfg, "type")
	if name == "" && typ == "" {
		return nil
	}
	max := intField(cfg, "max")
	return []WeaponEntry{{Name: name, Type: typ, Count: max, Max: max, Active: true}}
}

func buildSensorInventory(e *Entity) []SensorEntry {
	c := e.Component(ComponentSensors)
	if c == nil || c.Config == nil {
		return nil
	}
	if raw, ok := c.Config["_custom"].([]interface{}); ok {
		return parseSensorEntries(raw)
	}
	return defaultSensorInventory(c.Config)
}

func parseSensorEntries(raw []interface{}) []SensorEntry {
	out := make([]SensorEntry, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, SensorEntry{Name: stringField(m, "name"), Type: stringField(m, "type")})
	}
	return out
}

func defaultSensorInventory(cfg map[string]interface{}) []SensorEntry {
	name := stringField(cfg, "name")
	typ := stringField(cfg, "type")
	if name == "" && typ == "" {
		return nil
	}
	return []SensorEntry{{Name: name, Type: typ}}
}

func stringField(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

func intField(m map[string]interface{}, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}

func boolField(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}
