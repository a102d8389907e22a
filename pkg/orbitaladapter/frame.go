package orbitaladapter

import core "github.com/orbitalarena/simcore/internal/core"

// ComputeOrbitalFrame returns the prograde/normal/radial unit-vector
// triple for state r,v: prograde=v̂, normal=(v̂×r̂) normalized,
// radial=prograde×normal.
func ComputeOrbitalFrame(r, v core.Vec3) core.OrbitalFrame {
	prograde := v.Normalize()
	rHat := r.Normalize()
	normal := prograde.Cross(rHat).Normalize()
	radial := prograde.Cross(normal)

	return core.OrbitalFrame{Prograde: prograde, Normal: normal, Radial: radial}
}
