package core

import "math"

// ManeuverState is the auto-executor's state machine.
type ManeuverState int

const (
	ManeuverIdle ManeuverState = iota
	ManeuverWarpOnly
	ManeuverWarping
	ManeuverBurning
)

// ManeuverExecMode selects the two valid entry modes to Start.
type ManeuverExecMode int

const (
	ExecWarpOnly ManeuverExecMode = iota
	ExecWarping
)

// ManeuverNode is owned by the external planner; the core holds a
// non-owning selection pointer.
type ManeuverNode struct {
	ID string

	TargetSimTimeS float64
	DVPrograde     float64
	DVNormal       float64
	DVRadial       float64

	ECIPositionAtCreation Vec3
	FrameAtCreation       OrbitalFrame

	Engine EngineConfig

	PredictedApoapsisAltM  float64
	PredictedPeriapsisAltM float64
	BurnTimeS              float64
}

func (n *ManeuverNode) dvTotal() float64 {
	return math.Sqrt(n.DVPrograde*n.DVPrograde + n.DVNormal*n.DVNormal + n.DVRadial*n.DVRadial)
}

// PendingHohmann records a dialog-marked two-burn Hohmann chain
// waiting on the first burn to complete.
type PendingHohmann struct {
	Active      bool
	TargetAltKm float64
}

// ManeuverExecState is the per-player auto-executor state, embedded in
// PlayerContext.
type ManeuverExecState struct {
	State ManeuverState
	Node  *ManeuverNode
	Target TerminationTarget

	CumDV          float64
	TargetDV       float64
	NodeBurnStartS float64
	BurnEndS       float64
	DVSign         float64

	Pending PendingHohmann

	// LastMessage surfaces a user-facing message on termination/cancel/
	// degenerate-chain conditions (e.g. "burn cancelled").
	LastMessage string
}

// ManeuverExecutor drives the state machine, tracking status in
// ManeuverExecState.State, and chains a Hohmann transfer's second burn
// after the first when a pending Hohmann is set.
type ManeuverExecutor struct {
	Solvers    PlannerSolvers
	Propagator OrbitalPropagator
}

func NewManeuverExecutor(solvers PlannerSolvers, propagator OrbitalPropagator) *ManeuverExecutor {
	return &ManeuverExecutor{Solvers: solvers, Propagator: propagator}
}

// Start begins execution of node in the given mode against an
// optional termination target.
func (m *ManeuverExecutor) Start(st *ManeuverExecState, node *ManeuverNode, mode ManeuverExecMode, target TerminationTarget, world *World, clock *Clock, state *StateRecord) {
	state.Throttle = 0
	state.AlphaRad = 0
	state.YawOffsetRad = 0

	clock.SetPaused(false)

	ceiling := WarpCeiling(state.Position.AltM)
	world.MaxWarp = ceiling
	world.TimeWarp = ceiling

	st.Node = node
	st.Target = target
	st.CumDV = 0
	st.TargetDV = node.dvTotal()
	st.NodeBurnStartS = node.TargetSimTimeS - node.BurnTimeS/2
	st.DVSign = sign(node.DVPrograde)
	st.LastMessage = ""

	if mode == ExecWarpOnly {
		st.State = ManeuverWarpOnly
	} else {
		st.State = ManeuverWarping
	}
}

// Cancel zeroes throttle/attitude, clears state, resets warp to 1, and
// drops any pending Hohmann chain.
func (m *ManeuverExecutor) Cancel(st *ManeuverExecState, world *World, state *StateRecord) {
	state.Throttle = 0
	state.AlphaRad = 0
	state.YawOffsetRad = 0
	state.EngineOn = false
	*st = ManeuverExecState{LastMessage: "burn cancelled"}
	world.TimeWarp = 1
}

// Tick advances the auto-executor by frameDt real seconds (the caller
// passes wall-clock frameDt; sim-time bookkeeping uses world.SimTimeS
// which the clock has already advanced for this tick).
func (m *ManeuverExecutor) Tick(st *ManeuverExecState, frameDt float64, world *World, state *StateRecord) {
	switch st.State {
	case ManeuverIdle:
		return
	case ManeuverWarpOnly, ManeuverWarping:
		m.tickWarpPhase(st, world, state)
	case ManeuverBurning:
		m.tickBurning(st, frameDt, world, state)
	}
}

func (m *ManeuverExecutor) tickWarpPhase(st *ManeuverExecState, world *World, state *StateRecord) {
	ceiling := WarpCeiling(state.Position.AltM)
	world.MaxWarp = ceiling

	if world.SimTimeS < st.NodeBurnStartS {
		world.TimeWarp = ceiling
		return
	}

	if st.State == ManeuverWarpOnly {
		world.TimeWarp = 1
		st.State = ManeuverIdle
		return
	}

	if st.Node.dvTotal() < 0.01 {
		m.terminate(st, world, state, "burn complete")
		return
	}

	frame := m.Solvers.ComputeOrbitalFrame(currentR(state), currentV(state))
	refDir := combineOrbitalFrame(frame, st.Node.DVPrograde, st.Node.DVNormal, st.Node.DVRadial)
	alpha, yaw := ProjectPointing(refDir, currentR(state), currentV(state))
	state.AlphaRad = alpha
	state.YawOffsetRad = yaw

	state.Throttle = 1
	state.EngineOn = true
	expectedBurnTime := estimateBurnTime(st.Node)
	st.BurnEndS = world.SimTimeS + 2*expectedBurnTime
	st.CumDV = 0
	world.TimeWarp = 1
	st.State = ManeuverBurning
}

func (m *ManeuverExecutor) tickBurning(st *ManeuverExecState, frameDt float64, world *World, state *StateRecord) {
	frame := m.Solvers.ComputeOrbitalFrame(currentR(state), currentV(state))
	refDir := combineOrbitalFrame(frame, st.Node.DVPrograde, st.Node.DVNormal, st.Node.DVRadial)
	alpha, yaw := ProjectPointing(refDir, currentR(state), currentV(state))
	state.AlphaRad = alpha
	state.YawOffsetRad = yaw

	accel := 0.0
	if st.Node.Engine.MassKg > 0 {
		accel = st.Node.Engine.ThrustN / st.Node.Engine.MassKg
	}
	st.CumDV += accel * frameDt

	remainingDV := st.TargetDV - st.CumDV
	if remainingDV > 0 && accel > 0 && frameDt > 0 {
		maxWarp := remainingDV / (accel * frameDt)
		if maxWarp < world.TimeWarp {
			world.TimeWarp = math.Max(1, maxWarp)
		}
	} else if remainingDV <= 0 {
		world.TimeWarp = math.Min(world.TimeWarp, 8)
	}

	if st.Target.Kind != TerminationNone && state.Orbital != nil {
		if done, msg := evaluateTermination(st, state.Orbital); done {
			state.Throttle = 0
			state.AlphaRad = 0
			state.YawOffsetRad = 0
			state.EngineOn = false
			m.terminate(st, world, state, msg)
			return
		}
		if st.Target.Kind == TerminationCircularize {
			distM := math.Abs(state.Orbital.SMA - st.Target.TargetRadiusM)
			if distM < 500000 {
				clampWarp := math.Max(1, math.Floor(distM/10000))
				world.TimeWarp = math.Min(world.TimeWarp, clampWarp)
			}
		}
	}

	if st.CumDV >= 2.0*st.TargetDV {
		m.terminate(st, world, state, "burn safety cutoff (2x target dV)")
		return
	}
	if world.SimTimeS >= st.BurnEndS {
		m.terminate(st, world, state, "burn time safety cutoff")
		return
	}
	if st.Target.Kind == TerminationNone && st.CumDV >= st.TargetDV {
		m.terminate(st, world, state, "burn complete")
		return
	}
}

// evaluateTermination checks the orbital-element termination criteria
// in order.
func evaluateTermination(st *ManeuverExecState, el *OrbitalElements) (done bool, msg string) {
	switch st.Target.Kind {
	case TerminationRaiseApo:
		if el.ApoapsisAltM >= st.Target.AltitudeM {
			return true, "apoapsis target reached"
		}
	case TerminationLowerPe:
		if el.PeriapsisAltM <= st.Target.AltitudeM {
			return true, "periapsis target reached"
		}
	case TerminationCircularize:
		if st.DVSign >= 0 {
			if el.SMA >= st.Target.TargetRadiusM {
				return true, "circularization target reached (raising)"
			}
		} else {
			if el.SMA <= st.Target.TargetRadiusM {
				return true, "circularization target reached (lowering)"
			}
		}
	}
	return false, ""
}

func (m *ManeuverExecutor) terminate(st *ManeuverExecState, world *World, state *StateRecord, msg string) {
	state.Throttle = 0
	state.AlphaRad = 0
	state.YawOffsetRad = 0
	state.EngineOn = false
	st.LastMessage = msg
	completedNode := st.Node
	st.State = ManeuverIdle
	st.Node = nil

	if st.Pending.Active && state.Orbital != nil {
		m.chainHohmannBurn2(st, completedNode, world, state)
	}
}

// chainHohmannBurn2 implements two-burn Hohmann chaining: after burn
// 1, pick whichever apsis is closer to the target radius, compute the
// vis-viva delta-V to circularize there, and start a second node at
// the time-to-that-apsis.
func (m *ManeuverExecutor) chainHohmannBurn2(st *ManeuverExecState, burn1 *ManeuverNode, world *World, state *StateRecord) {
	el := state.Orbital
	targetR := ReferenceRadiusM + st.Pending.TargetAltKm*1000

	apoR := ReferenceRadiusM + el.ApoapsisAltM
	peR := ReferenceRadiusM + el.PeriapsisAltM

	var timeToApsis float64
	var atApoapsis bool
	if math.Abs(apoR-targetR) <= math.Abs(peR-targetR) {
		timeToApsis = el.TimeToApoapsisS
		atApoapsis = true
	} else {
		timeToApsis = el.TimeToPeriapsisS
		atApoapsis = false
	}

	if el.PeriodS <= 0 || math.IsNaN(el.PeriodS) {
		st.LastMessage = "burn chain aborted: degenerate orbit"
		st.Pending = PendingHohmann{}
		world.TimeWarp = 1
		return
	}
	if timeToApsis <= 0 {
		timeToApsis = el.PeriodS / 2
	}

	r := targetR
	if atApoapsis {
		r = apoR
	} else {
		r = peR
	}
	mu := earthMu
	vCircular := math.Sqrt(mu / targetR)
	vCurrent := math.Sqrt(mu * (2/r - 1/el.SMA))
	dv := vCircular - vCurrent

	node2 := &ManeuverNode{
		ID:             burn1.ID + "-hohmann2",
		TargetSimTimeS: world.SimTimeS + timeToApsis,
		DVPrograde:     dv,
		Engine:         burn1.Engine,
		BurnTimeS:      estimateBurnTimeDV(burn1.Engine, math.Abs(dv)),
	}

	st.Pending = PendingHohmann{}
	m.Start(st, node2, ExecWarping, TerminationTarget{Kind: TerminationCircularize, TargetRadiusM: targetR}, world, noopClock, state)
}

// noopClock is used by chainHohmannBurn2's Start call, which never
// needs to unpause since the sim is already running mid-chain.
var noopClock = &Clock{hasLast: true}

func estimateBurnTime(n *ManeuverNode) float64 {
	return estimateBurnTimeDV(n.Engine, n.dvTotal())
}

func estimateBurnTimeDV(engine EngineConfig, dv float64) float64 {
	if engine.MassKg <= 0 || engine.ThrustN <= 0 {
		return 1
	}
	accel := engine.ThrustN / engine.MassKg
	return dv / accel
}

func combineOrbitalFrame(frame OrbitalFrame, prograde, normal, radial float64) Vec3 {
	return frame.Prograde.Scale(prograde).
		Add(frame.Normal.Scale(normal)).
		Add(frame.Radial.Scale(radial)).
		Normalize()
}

func currentR(state *StateRecord) Vec3 {
	if state.ECIPosition != nil {
		return *state.ECIPosition
	}
	return Vec3{}
}

func currentV(state *StateRecord) Vec3 {
	if state.ECIVelocity != nil {
		return *state.ECIVelocity
	}
	return Vec3{}
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// earthMu is Earth's standard gravitational parameter (m^3/s^2), used
// by the Hohmann chaining's vis-viva computation.
const earthMu = 3.986004418e14
