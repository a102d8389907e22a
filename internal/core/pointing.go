package core

import "math"

// autoPointingMinAltitudeM is the altitude floor below which
// auto-pointing never engages.
const autoPointingMinAltitudeM = 80000.0

// ReferenceFrameInputs bundles the ECI vectors auto-pointing needs
// each tick to compute a reference direction.
type ReferenceFrameInputs struct {
	PositionECI Vec3
	VelocityECI Vec3
	SunDir      Vec3 // unit, only used for PointingSun
	TargetECI   Vec3 // only used for PointingTarget
	HaveTarget  bool
}

// ReferenceDirection computes the unit reference vector in ECI for
// the given pointing mode.
func ReferenceDirection(mode PointingMode, in ReferenceFrameInputs) (dir Vec3, ok bool) {
	r := in.PositionECI
	v := in.VelocityECI

	vHat := v.Normalize()
	rHat := r.Normalize()
	hHat := r.Cross(v).Normalize()

	switch mode {
	case PointingPrograde:
		return vHat, true
	case PointingRetrograde:
		return vHat.Scale(-1), true
	case PointingNormal:
		return hHat, true
	case PointingAntiNormal:
		return hHat.Scale(-1), true
	case PointingRadialOut:
		return vHat.Cross(hHat), true
	case PointingRadialIn:
		return vHat.Cross(hHat).Scale(-1), true
	case PointingNadir:
		return rHat.Scale(-1), true
	case PointingSun:
		if in.SunDir.Magnitude() == 0 {
			return Vec3{}, false
		}
		return in.SunDir.Normalize(), true
	case PointingTarget:
		if !in.HaveTarget {
			return Vec3{}, false
		}
		return in.TargetECI.Sub(r).Normalize(), true
	default:
		return Vec3{}, false
	}
}

// velocityAlignedFrame returns (v̂, û, ŵ): v̂ is velocity direction, û
// is the component of r̂ orthogonal to v̂ (re-normalized), and
// ŵ = v̂ × û.
func velocityAlignedFrame(r, v Vec3) (vHat, uHat, wHat Vec3) {
	vHat = v.Normalize()
	rHat := r.Normalize()
	uRaw := rHat.Sub(vHat.Scale(rHat.Dot(vHat)))
	uHat = uRaw.Normalize()
	wHat = vHat.Cross(uHat)
	return
}

// ProjectPointing projects refDir into the velocity-aligned frame and
// returns alpha and yawOffset via the standard atan2 decomposition.
func ProjectPointing(refDir, r, v Vec3) (alphaRad, yawOffsetRad float64) {
	vHat, uHat, wHat := velocityAlignedFrame(r, v)

	bv := refDir.Dot(vHat)
	bu := refDir.Dot(uHat)
	bw := refDir.Dot(wHat)

	alphaRad = math.Atan2(bu, math.Hypot(bv, bw))
	yawOffsetRad = math.Atan2(bw, bv)
	return
}

// AutoPointingController applies §4.6 each tick when eligible:
// mode != Manual, lock=true, altitude > 80km, and no auto-exec burn
// running. During Burning, maneuver.go calls ProjectPointing directly
// against the node's stored DV triple instead of a reference mode.
type AutoPointingController struct{}

func NewAutoPointingController() *AutoPointingController { return &AutoPointingController{} }

// Apply computes and writes alpha/yawOffset onto state if eligible;
// returns false (no-op) otherwise.
func (c *AutoPointingController) Apply(state *StateRecord, ctx *PlayerContext, in ReferenceFrameInputs, burning bool) bool {
	if ctx.PointingMode == PointingManual || !ctx.PointingLock || burning {
		return false
	}
	if state.Position.AltM <= autoPointingMinAltitudeM {
		return false
	}

	dir, ok := ReferenceDirection(ctx.PointingMode, in)
	if !ok {
		return false
	}

	alpha, yaw := ProjectPointing(dir, in.PositionECI, in.VelocityECI)
	state.AlphaRad = alpha
	state.YawOffsetRad = yaw
	return true
}
