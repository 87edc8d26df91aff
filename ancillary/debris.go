// Package ancillary collects the supporting analyses of spec §4.13/§4.14:
// debris fragmentation, aerobraking pass simulation, and a minimal
// orbit-determination batch solve. None of these has a single teacher
// analog; each is grounded on the nearest teacher mechanism per-file.
package ancillary

import (
	"math"
	"math/rand"

	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/vector"
)

// MinScatterFraction and MaxScatterFraction bound ξ, the fraction of
// relative speed imparted as fragment velocity scatter, per spec §4.13.
const (
	MinScatterFraction = 0.1
	MaxScatterFraction = 0.5
)

// Fragment is one debris piece produced by a collision, per spec §4.13.
type Fragment struct {
	State integrate.StateVector
}

// GenerateFragments produces n fragments from a collision between two
// state vectors of mass m1 and m2, at the midpoint position with
// velocities equal to the momentum-weighted centre-of-mass velocity plus
// a random scatter of fraction ξ·‖v_rel‖ (ξ ~ U[0.1, 0.5]) along a
// direction uniform on the sphere (θ ~ U[0, 2π], cosφ ~ U[-1, 1]), per
// spec §4.13. The sampling is stdlib math/rand rather than a pack
// library: spec names specific uniform distributions (not Gaussian), so
// there is no distmv.Normal-shaped concern here for gonum/stat/distmv to
// serve — see ancillary/estimate.go for where distmv.Normal earns its
// keep (ground-station measurement noise).
func GenerateFragments(s1, s2 integrate.StateVector, m1, m2 float64, n int, rng *rand.Rand) []Fragment {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	midpoint := s1.Pos.Add(s2.Pos).Scale(0.5)
	comVel := s1.Vel.Scale(m1).Add(s2.Vel.Scale(m2)).Scale(1 / (m1 + m2))
	vRel := s1.Vel.Sub(s2.Vel).Norm()

	fragments := make([]Fragment, n)
	for i := 0; i < n; i++ {
		xi := MinScatterFraction + rng.Float64()*(MaxScatterFraction-MinScatterFraction)
		theta := rng.Float64() * 2 * math.Pi
		cosPhi := -1 + rng.Float64()*2
		sinPhi := math.Sqrt(1 - cosPhi*cosPhi)

		dir := vector.Vec3{sinPhi * math.Cos(theta), sinPhi * math.Sin(theta), cosPhi}
		scatter := dir.Scale(xi * vRel)

		fragments[i] = Fragment{State: integrate.StateVector{
			Pos: midpoint, Vel: comVel.Add(scatter), T: s1.T, Frame: s1.Frame,
		}}
	}
	return fragments
}
