// Package orbitaladapter is the reference implementation of the
// orbital library and maneuver-solver math library external
// collaborators: two-body Keplerian elements from a position/velocity
// state vector (vis-viva, apoapsis/periapsis) and a Hohmann transfer
// solver, built against plain float64/Vec3 math rather than a general
// orbital mechanics dependency.
package orbitaladapter

import (
	"math"

	core "github.com/orbitalarena/simcore/internal/core"
)

// EarthMu is Earth's standard gravitational parameter (m^3/s^2).
const EarthMu = 3.986004418e14

// ElementsFromRV computes classical orbital elements from an ECI
// position/velocity pair using the two-body vis-viva relations,
// grounded on smd's Orbit.Elements().
func ElementsFromRV(r, v core.Vec3) *core.OrbitalElements {
	rMag := r.Magnitude()
	vMag := v.Magnitude()
	if rMag == 0 {
		return nil
	}

	energy := vMag*vMag/2 - EarthMu/rMag
	var sma float64
	if energy != 0 {
		sma = -EarthMu / (2 * energy)
	}

	h := r.Cross(v)
	hMag := h.Magnitude()

	eVec := v.Cross(h).Scale(1 / EarthMu).Sub(r.Scale(1 / rMag))
	ecc := eVec.Magnitude()

	inc := 0.0
	if hMag > 0 {
		inc = math.Acos(clamp(h.Z/hMag, -1, 1))
	}

	nodeVec := core.Vec3{X: 0, Y: 0, Z: 1}.Cross(h)
	raan := 0.0
	if nodeVec.Magnitude() > 0 {
		raan = math.Atan2(nodeVec.Y, nodeVec.X)
	}

	argPe := 0.0
	if nodeVec.Magnitude() > 0 && ecc > 1e-9 {
		cosArgPe := clamp(nodeVec.Dot(eVec)/(nodeVec.Magnitude()*ecc), -1, 1)
		argPe = math.Acos(cosArgPe)
		if eVec.Z < 0 {
			argPe = 2*math.Pi - argPe
		}
	}

	trueAnomaly := 0.0
	if ecc > 1e-9 {
		cosTA := clamp(eVec.Dot(r)/(ecc*rMag), -1, 1)
		trueAnomaly = math.Acos(cosTA)
		if r.Dot(v) < 0 {
			trueAnomaly = 2*math.Pi - trueAnomaly
		}
	}

	el := &core.OrbitalElements{
		SMA:            sma,
		Eccentricity:   ecc,
		InclinationRad: inc,
		RAANRad:        raan,
		ArgPeRad:       argPe,
		TrueAnomalyRad: trueAnomaly,
	}

	if sma > 0 {
		el.ApoapsisAltM = sma*(1+ecc) - core.ReferenceRadiusM
		el.PeriapsisAltM = sma*(1-ecc) - core.ReferenceRadiusM
		el.PeriodS = 2 * math.Pi * math.Sqrt(sma*sma*sma/EarthMu)
		fillTimeToEvents(el, trueAnomaly)
	}

	return el
}

// fillTimeToEvents populates the TimeTo* fields via mean-anomaly
// propagation from the current true anomaly, grounded on the same
// two-body relations as the element extraction above.
func fillTimeToEvents(el *core.OrbitalElements, trueAnomaly float64) {
	n := 2 * math.Pi / el.PeriodS // mean motion

	meanAnomalyAt := func(targetTA float64) float64 {
		e := el.Eccentricity
		eccAnomaly := 2 * math.Atan(math.Sqrt((1-e)/(1+e))*math.Tan(targetTA/2))
		return eccAnomaly - e*math.Sin(eccAnomaly)
	}

	currentM := meanAnomalyAt(trueAnomaly)

	timeTo := func(targetTA float64) float64 {
		targetM := meanAnomalyAt(targetTA)
		dM := targetM - currentM
		for dM < 0 {
			dM += 2 * math.Pi
		}
		return dM / n
	}

	el.TimeToApoapsisS = timeTo(math.Pi)
	el.TimeToPeriapsisS = timeTo(0)
	el.TimeToAscendingNodeS = timeTo(-el.ArgPeRad)
	el.TimeToDescendingNodeS = timeTo(math.Pi - el.ArgPeRad)
	el.TimeToTA90S = timeTo(math.Pi / 2)
	el.TimeToTA270S = timeTo(3 * math.Pi / 2)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
