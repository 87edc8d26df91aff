package vector

import "math"

// R1 returns the rotation matrix about the first axis, as 3x3 row arrays.
func R1(x float64) [3]Vec3 {
	s, c := math.Sincos(x)
	return [3]Vec3{{1, 0, 0}, {0, c, s}, {0, -s, c}}
}

// R2 returns the rotation matrix about the second axis.
func R2(x float64) [3]Vec3 {
	s, c := math.Sincos(x)
	return [3]Vec3{{c, 0, -s}, {0, 1, 0}, {s, 0, c}}
}

// R3 returns the rotation matrix about the third axis.
func R3(x float64) [3]Vec3 {
	s, c := math.Sincos(x)
	return [3]Vec3{{c, s, 0}, {-s, c, 0}, {0, 0, 1}}
}

// MxV multiplies a 3x3 matrix (row-major Vec3 triple) by a vector.
func MxV(m [3]Vec3, v Vec3) Vec3 {
	return Vec3{Dot(m[0], v), Dot(m[1], v), Dot(m[2], v)}
}

// MxM multiplies two 3x3 matrices, a*b.
func MxM(a, b [3]Vec3) [3]Vec3 {
	bt := [3]Vec3{{b[0][0], b[1][0], b[2][0]}, {b[0][1], b[1][1], b[2][1]}, {b[0][2], b[1][2], b[2][2]}}
	var out [3]Vec3
	for i := 0; i < 3; i++ {
		out[i] = Vec3{Dot(a[i], bt[0]), Dot(a[i], bt[1]), Dot(a[i], bt[2])}
	}
	return out
}

// R3R1R3 composes the classical 3-1-3 Euler rotation R3(θ1) R1(θ2) R3(θ3),
// used to go from the perifocal frame to an inertial frame via
// (Ω, i, ω). Ported from rotation.go's R3R1R3, with the product taken in
// the order written above.
func R3R1R3(θ1, θ2, θ3 float64) [3]Vec3 {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return [3]Vec3{
		{cθ1*cθ3 - sθ1*cθ2*sθ3, cθ1*sθ3 + sθ1*cθ2*cθ3, sθ1 * sθ2},
		{-sθ1*cθ3 - cθ1*cθ2*sθ3, -sθ1*sθ3 + cθ1*cθ2*cθ3, cθ1 * sθ2},
		{sθ2 * sθ3, -sθ2 * cθ3, cθ2},
	}
}

// PerifocalToInertial rotates a perifocal-frame vector into the inertial
// frame of the orbit's elements, via R3(-Ω) R1(-i) R3(-ω) as spec §4.1
// describes for the perifocal frame.
func PerifocalToInertial(Ω, i, ω float64, v Vec3) Vec3 {
	return MxV(R3R1R3(-Ω, -i, -ω), v)
}
