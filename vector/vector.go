// Package vector provides three-component vector algebra, the frame
// transforms used across trajx, and the time utilities (Julian Date, GMST)
// that those transforms depend on.
package vector

import (
	"math"

	"github.com/gonum/floats"
)

// ZeroNormε is the norm threshold below which Unit reports degeneracy
// instead of dividing by (near) zero, per spec §4.1.
const ZeroNormε = 1e-15

// Vec3 is an ordered 3-tuple, used for position, velocity and acceleration
// throughout trajx.
type Vec3 [3]float64

// New builds a Vec3 from components.
func New(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns s*v.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{s * v[0], s * v[1], s * v[2]}
}

// Norm returns the Euclidean norm of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Dot returns the inner product of v and w.
func Dot(v, w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Cross returns v×w.
func Cross(v, w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Unit returns the unit vector along v and true, or the zero vector and
// false if ‖v‖ < ZeroNormε. Callers that require a unit vector must check
// the ok flag rather than silently consuming a zero vector (spec Design
// Notes §9).
func Unit(v Vec3) (u Vec3, ok bool) {
	n := v.Norm()
	if n < ZeroNormε || floats.EqualWithinAbs(n, 0, ZeroNormε) {
		return Vec3{}, false
	}
	return v.Scale(1 / n), true
}

// Sign returns 1 for non-negative v and -1 otherwise, with 0 treated as
// positive (matches the teacher's Sign in math.go).
func Sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}
