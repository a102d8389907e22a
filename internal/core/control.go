package core

// ControlMode selects how raw input axes are routed.
type ControlMode string

const (
	ModePlanner  ControlMode = "planner"
	ModeCockpit  ControlMode = "cockpit"
	ModeGlobe    ControlMode = "globe"
	ModeObserver ControlMode = "observer"
)

// KeyboardState is the raw per-frame keyboard snapshot the host
// supplies; field names mirror axis/key groupings rather than literal
// key codes, which belong to the host.
type KeyboardState struct {
	PitchDown, PitchUp     bool
	RollLeft, RollRight    bool
	YawLeft, YawRight      bool
	ThrottleUp, ThrottleDown bool

	PlannerProgradePos, PlannerProgradeNeg bool
	PlannerNormalPos, PlannerNormalNeg     bool
	PlannerRadialPos, PlannerRadialNeg     bool
	PlannerDVUp, PlannerDVDown             bool
	PlannerTimeForward, PlannerTimeBack    bool

	GlobeControlsEnabled bool
}

// GamepadState is the host's edge-triggered button snapshot merged
// over keyboard state.
type GamepadState struct {
	Connected bool

	Pitch, Roll, Yaw, Throttle float64

	EngineTogglePressed        bool
	PausePressed               bool
	CameraCyclePressed         bool
	PropulsionModeCyclePressed bool
}

// PlannerAxes is the resolved per-tick delta applied to the selected
// maneuver node when in Planner mode.
type PlannerAxes struct {
	ProgradeDelta float64
	NormalDelta   float64
	RadialDelta   float64
	DVMagnitudeDelta float64
	TimeOffsetDelta  float64
}

// CockpitAxes is the resolved per-tick flight-control command.
type CockpitAxes struct {
	Pitch, Roll, Yaw float64
	ThrottleUp, ThrottleDown bool
}

// ResolvedInput is what the control mux produces for a single tick,
// before override precedence is applied.
type ResolvedInput struct {
	Mode    ControlMode
	Cockpit CockpitAxes
	Planner PlannerAxes

	EngineToggle        bool
	Pause               bool
	CameraCycle         bool
	PropulsionModeCycle bool
}

// ControlMux collects keyboard/gamepad state and routes it per mode,
// applying the autopilot/auto-pointing/auto-exec/manual precedence
// chain.
type ControlMux struct{}

func NewControlMux() *ControlMux { return &ControlMux{} }

// Resolve merges keyboard and gamepad input for the given mode. Globe
// mode only passes through when globeControlsEnabled is set (default
// off, so the external camera receives arrow keys); observer mode
// only ever reports camera/meta keys.
func (m *ControlMux) Resolve(mode ControlMode, kb KeyboardState, gp GamepadState) ResolvedInput {
	out := ResolvedInput{Mode: mode}

	switch mode {
	case ModePlanner:
		out.Planner = resolvePlannerAxes(kb)
	case ModeCockpit:
		out.Cockpit = mergeCockpitAxes(kb, gp)
	case ModeGlobe:
		if kb.GlobeControlsEnabled {
			out.Cockpit = mergeCockpitAxes(kb, gp)
		}
	case ModeObserver:
		// only camera/meta keys below are honored
	}

	out.EngineToggle = gp.EngineTogglePressed
	out.Pause = gp.PausePressed
	out.CameraCycle = gp.CameraCyclePressed
	out.PropulsionModeCycle = gp.PropulsionModeCyclePressed

	return out
}

func resolvePlannerAxes(kb KeyboardState) PlannerAxes {
	var a PlannerAxes
	a.ProgradeDelta = axisFromBools(kb.PlannerProgradePos, kb.PlannerProgradeNeg)
	a.NormalDelta = axisFromBools(kb.PlannerNormalPos, kb.PlannerNormalNeg)
	a.RadialDelta = axisFromBools(kb.PlannerRadialPos, kb.PlannerRadialNeg)
	a.DVMagnitudeDelta = axisFromBools(kb.PlannerDVUp, kb.PlannerDVDown)
	a.TimeOffsetDelta = axisFromBools(kb.PlannerTimeForward, kb.PlannerTimeBack)
	return a
}

func mergeCockpitAxes(kb KeyboardState, gp GamepadState) CockpitAxes {
	c := CockpitAxes{
		Pitch: axisFromBools(kb.PitchUp, kb.PitchDown),
		Roll:  axisFromBools(kb.RollRight, kb.RollLeft),
		Yaw:   axisFromBools(kb.YawRight, kb.YawLeft),
		ThrottleUp:   kb.ThrottleUp,
		ThrottleDown: kb.ThrottleDown,
	}
	if gp.Connected {
		if gp.Pitch != 0 {
			c.Pitch = gp.Pitch
		}
		if gp.Roll != 0 {
			c.Roll = gp.Roll
		}
		if gp.Yaw != 0 {
			c.Yaw = gp.Yaw
		}
	}
	return c
}

func axisFromBools(pos, neg bool) float64 {
	switch {
	case pos && !neg:
		return 1
	case neg && !pos:
		return -1
	default:
		return 0
	}
}

// ApplyOverrides resolves the final command applied to a player
// entity's state for this tick, following override precedence:
// maneuver auto-exec (while Burning) overrides throttle/alpha/
// yawOffset; else auto-pointing (while locked) overrides alpha/
// yawOffset; else an engaged autopilot claims pitch/roll/yaw; manual
// input is the base and is only used where nothing above claimed the
// axis, so manual throttle still applies under pointing lock or
// autopilot.
func ApplyOverrides(state *StateRecord, input ResolvedInput, ctx *PlayerContext, burning bool) {
	if burning {
		// maneuver.go has already written throttle/alpha/yawOffset for
		// this tick; manual cockpit axes are ignored entirely.
		return
	}

	if ctx.PointingMode != PointingManual && ctx.PointingLock {
		// pointing.go has already written alpha/yawOffset; only
		// throttle passes through from manual/autopilot.
		applyThrottle(state, input, ctx)
		return
	}

	if ctx.Autopilot.Engaged {
		applyThrottle(state, input, ctx)
		return
	}

	state.PitchRad = input.Cockpit.Pitch
	state.RollRad = input.Cockpit.Roll
	state.YawOffsetRad = input.Cockpit.Yaw
	applyThrottle(state, input, ctx)
}

func applyThrottle(state *StateRecord, input ResolvedInput, ctx *PlayerContext) {
	const throttleRateHz = 0.5
	if input.Cockpit.ThrottleUp {
		state.Throttle = minF(1, state.Throttle+throttleRateHz)
	}
	if input.Cockpit.ThrottleDown {
		state.Throttle = maxF(0, state.Throttle-throttleRateHz)
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
