package core

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// scannerHz throttles the engagement and cyber scanners to 2Hz.
const scannerHz = 2.0

// Core is the single owned orchestrator value a host constructs once
// per session, exposing a single Tick method since the host already
// owns the render loop.
type Core struct {
	World      *World
	Clock      *Clock
	Hijack     *HijackManager
	ControlMux *ControlMux
	Pointing   *AutoPointingController
	Maneuver   *ManeuverExecutor
	Terrain    *TerrainFollowController
	TerrainState *TerrainFollowState
	Viz        *VisualizationPlane
	Analytics  *AnalyticsRing
	Engagement *EngagementScanner
	Cyber      *CyberScanner

	PlayerPhysics PhysicsStep
	Propagator    OrbitalPropagator
	Solvers       PlannerSolvers
	SunSource     SunDirectionSource

	ErrorLog TickErrorLog

	lastScannerWall time.Time
	hasLastScanner  bool
}

// NewCore wires a fresh orchestrator around a world and the external
// collaborator adapters. Any of the adapter arguments may be nil in a
// headless/test build that never exercises them.
func NewCore(world *World, playerPhysics PhysicsStep, propagator OrbitalPropagator, solvers PlannerSolvers, sun SunDirectionSource, elevation ElevationSource) *Core {
	return &Core{
		World:        world,
		Clock:        NewClock(),
		Hijack:       NewHijackManager(),
		ControlMux:   NewControlMux(),
		Pointing:     NewAutoPointingController(),
		Maneuver:     NewManeuverExecutor(solvers, propagator),
		Terrain:      NewTerrainFollowController(elevation),
		TerrainState: NewTerrainFollowState(),
		Viz:          NewVisualizationPlane(),
		Analytics:    NewAnalyticsRing(),
		Engagement:   NewEngagementScanner(),
		Cyber:        NewCyberScanner(),

		PlayerPhysics: playerPhysics,
		Propagator:    propagator,
		Solvers:       solvers,
		SunSource:     sun,
	}
}

// TickInput bundles the per-frame host-supplied values Tick needs.
type TickInput struct {
	Now       time.Time
	Mode      ControlMode
	Keyboard  KeyboardState
	Gamepad   GamepadState
	Comm      CommStats
	TargetECI Vec3
	HaveTarget bool
}

// Tick advances the entire simulation by one frame, following a fixed
// phase order: clock -> input -> maneuver auto-exec
// -> auto-pointing -> player physics substeps -> ECS systems in
// declared order -> scanners (engagement, cyber) -> viz plane ->
// overlay computations (analytics).
func (c *Core) Tick(in TickInput) *TickErrorLog {
	c.ErrorLog.Reset()

	rdt, sdt := c.Clock.Advance(in.Now, c.World)
	resolved := c.ControlMux.Resolve(in.Mode, in.Keyboard, in.Gamepad)

	if resolved.Pause {
		c.Clock.SetPaused(!c.Clock.Paused())
	}

	if c.Hijack.Player != nil {
		c.tickPlayer(in, rdt, sdt, resolved)
	}

	for _, sys := range c.World.Systems() {
		c.runSystemSafely(sys, sdt)
	}

	if c.scannerDue(in.Now) {
		c.runScanners()
	}

	playerID := ""
	if c.Hijack.Player != nil {
		playerID = c.Hijack.Player.EntityID
	}
	c.Viz.Apply(c.World, playerID)

	c.Analytics.Tick(c.World, in.Comm)

	return &c.ErrorLog
}

func (c *Core) tickPlayer(in TickInput, rdt, sdt float64, resolved ResolvedInput) {
	ctx := c.Hijack.Player
	playerEntity := c.World.GetEntity(ctx.EntityID)
	if playerEntity == nil {
		c.Hijack.Player = nil
		return
	}

	st := playerEntity.Snapshot()
	burning := ctx.AutoExec.State == ManeuverBurning

	if c.Maneuver != nil {
		c.Maneuver.Tick(&ctx.AutoExec, rdt, c.World, &st)
		burning = ctx.AutoExec.State == ManeuverBurning
	}

	refIn := ReferenceFrameInputs{
		PositionECI: derefOrZero(st.ECIPosition),
		VelocityECI: derefOrZero(st.ECIVelocity),
		TargetECI:   in.TargetECI,
		HaveTarget:  in.HaveTarget,
	}
	if c.SunSource != nil {
		dir, diag := c.SunSource.SunDirectionECI(c.World.SimTimeS)
		refIn.SunDir = dir
		if diag != "" {
			c.ErrorLog.record(ErrRenderError, diag, nil)
		}
	}
	c.Pointing.Apply(&st, ctx, refIn, burning)

	if resolved.PropulsionModeCycle && len(ctx.PropulsionModes) > 0 {
		ctx.SelectedMode = (ctx.SelectedMode + 1) % len(ctx.PropulsionModes)
	}

	ApplyOverrides(&st, resolved, ctx, burning)

	if c.Terrain != nil {
		c.Terrain.Tick(in.Now, c.TerrainState, &st, &ctx.Autopilot)
		if c.TerrainState.LastMessage != "" {
			c.ErrorLog.record(ErrElevationUnavailable, c.TerrainState.LastMessage, nil)
			c.TerrainState.LastMessage = ""
		}
	}

	if sdt > 0 && c.PlayerPhysics != nil {
		numSteps, subDt := SubstepCount(sdt)
		controls := Controls{
			ThrottleUp:   resolved.Cockpit.ThrottleUp,
			ThrottleDown: resolved.Cockpit.ThrottleDown,
			Pitch:        resolved.Cockpit.Pitch,
			Roll:         resolved.Cockpit.Roll,
			Yaw:          resolved.Cockpit.Yaw,
		}
		for i := 0; i < numSteps; i++ {
			c.PlayerPhysics.Step(&st, controls, subDt, ctx.Engine)
		}
	}

	if c.Propagator != nil {
		if err := c.Propagator.Update(&st, c.World.SimTimeS); err != nil {
			c.ErrorLog.record(ErrOrbitalUpdateFailed, "orbital propagation diverged", err)
			st.Orbital = nil
		}
	}

	playerEntity.UpdateState(func(s *StateRecord) { *s = st })
}

// runSystemSafely invokes an ECS system, recovering from panics so a
// failing sub-system never aborts the tick.
func (c *Core) runSystemSafely(sys System, sdt float64) {
	defer func() {
		if r := recover(); r != nil {
			c.ErrorLog.record(ErrRenderError, "system "+sys.Name+" panicked", nil)
		}
	}()
	sys.Step(sdt, c.World)
}

func (c *Core) scannerDue(now time.Time) bool {
	if !c.hasLastScanner {
		c.lastScannerWall = now
		c.hasLastScanner = true
		return true
	}
	if now.Sub(c.lastScannerWall) < time.Second/time.Duration(scannerHz) {
		return false
	}
	c.lastScannerWall = now
	return true
}

// runScanners runs the engagement and cyber scanners concurrently.
// Both are pure read-mostly passes over already-written entity state
// with no suspension points; the errgroup scope opens and fully joins
// within this call, so no lock is ever held across a tick boundary.
func (c *Core) runScanners() {
	if c.Hijack.Player != nil {
		c.Engagement.PlayerID = c.Hijack.Player.EntityID
		if e := c.World.GetEntity(c.Hijack.Player.EntityID); e != nil {
			c.Engagement.PlayerTeam = e.Team
		}
	}

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		c.Engagement.Scan(c.World)
		return nil
	})
	g.Go(func() error {
		c.Cyber.Scan(c.World)
		return nil
	})
	_ = g.Wait()
}

func derefOrZero(v *Vec3) Vec3 {
	if v == nil {
		return Vec3{}
	}
	return *v
}

// InitResult is what the CLI/launch surface returns from Init: the
// built world, the selected player (nil in observer mode), and
// bookkeeping the host displays.
type InitResult struct {
	World        *World
	PlayerID     string
	EntityCount  int
	ObserverMode bool
}

// observerSentinel is the reserved playerID value for explicit
// observer-mode launches.
const observerSentinel = "__observer__"

// Init fetches a scenario, materializes its entities into c.World, and
// selects a player (or observer mode). The ECS system list must
// already be registered on c.World before calling Init.
func (c *Core) Init(ctx context.Context, source ScenarioSource, scenarioURL, preferredPlayerID string) (*InitResult, *Error) {
	doc, err := source.LoadScenario(ctx, scenarioURL)
	if err != nil {
		return nil, newError(ErrScenarioLoadFailed, "failed to load scenario", err)
	}

	c.World.SimEpochJD = doc.EpochJD
	if doc.DefaultWarp > 0 {
		c.World.TimeWarp = doc.DefaultWarp
	} else {
		c.World.TimeWarp = 1
	}

	for _, spec := range doc.Entities {
		e := NewEntity(spec.ID, spec.Name, spec.Type, spec.Team)
		e.VizCategory = spec.VizCategory
		for kind, comp := range spec.Components {
			stored := comp
			stored.Kind = kind
			e.Components[kind] = &stored
		}
		e.State = spec.InitialState
		if addErr := c.World.AddEntity(e); addErr != nil {
			return nil, newError(ErrScenarioLoadFailed, "duplicate entity id in scenario: "+spec.ID, addErr)
		}
	}

	res := &InitResult{World: c.World, EntityCount: c.World.Count()}

	if preferredPlayerID == observerSentinel {
		res.ObserverMode = true
		return res, nil
	}

	entity := SelectPlayer(c.World, preferredPlayerID)
	if entity == nil {
		res.ObserverMode = true
		return res, nil
	}

	if _, assumeErr := c.Hijack.AssumeControl(c.World, entity, c.Propagator); assumeErr != nil {
		c.ErrorLog.record(ErrAssumeControlFailed, "initial player assignment failed, falling back to observer", assumeErr)
		res.ObserverMode = true
		return res, nil
	}

	res.PlayerID = entity.ID
	return res, nil
}
