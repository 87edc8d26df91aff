// Package lambert solves the two-body boundary-value problem: given two
// position vectors and a time of flight, find the conic arc connecting
// them. The solver bisects in semi-major axis, per spec §4.5, rather than
// the universal-variable/Stumpff-function bisection in ψ used elsewhere in
// the pack — the semi-major axis form is what the time-of-flight equation
// here is stated in terms of.
//
// Only single-revolution elliptic arcs are searched: a is bisected over
// [s/2, 10s] on the branch where time of flight falls as a grows, so
// multi-revolution and hyperbolic transfers are not returned. A solve is
// reported invalid (Result.Valid false) when Δt is below half the
// minimum-energy time of flight.
package lambert

import (
	"math"

	"github.com/gonum/floats"

	"github.com/orbitalarena/trajx/vector"
)

// Direction selects which way around the transfer angle is measured.
type Direction uint8

const (
	Prograde Direction = iota
	Retrograde
)

// MaxIterations caps the semi-major-axis bisection.
const MaxIterations = 100

// ConvergenceSeconds is the TOF convergence target.
const ConvergenceSeconds = 1.0

// Result is the outcome of a Lambert solve, per spec §4.5.
type Result struct {
	V1, V2    vector.Vec3
	A         float64 // converged semi-major axis
	Valid     bool    // false if Δt is below half the minimum-energy time of flight
	Iterations int
}

// Solve returns the (v1, v2) pair such that a two-body arc departing r1
// with v1 arrives at r2 after exactly dt seconds, per spec §4.5.
func Solve(r1, r2 vector.Vec3, dt, mu float64, dir Direction) Result {
	rI, rF := r1.Norm(), r2.Norm()
	cosDnu := vector.Dot(r1, r2) / (rI * rF)
	cosDnu = clamp(cosDnu, -1, 1)
	theta := math.Acos(cosDnu)

	cross := vector.Cross(r1, r2)
	if dir == Prograde {
		if cross[2] < 0 {
			theta = 2*math.Pi - theta
		}
	} else {
		if cross[2] >= 0 {
			theta = 2*math.Pi - theta
		}
	}

	c := r2.Sub(r1).Norm()
	s := (rI + rF + c) / 2
	aMin := s / 2

	tofMin := minEnergyTOF(aMin, s, c, theta, mu)
	if dt < tofMin/2 {
		return Result{Valid: false}
	}

	lo, hi := aMin, 10*s
	var a float64
	var iterations int
	for iterations = 0; iterations < MaxIterations; iterations++ {
		a = (lo + hi) / 2
		test := tofAt(a, s, c, theta, mu)
		if floats.EqualWithinAbs(test, dt, ConvergenceSeconds) {
			break
		}
		if test > dt {
			lo = a
		} else {
			hi = a
		}
	}

	p := semiLatusRectum(a, s, c, rI, rF, theta)
	f := 1 - rF/p*(1-math.Cos(theta))
	g := rI * rF * math.Sin(theta) / math.Sqrt(mu*p)
	gDot := 1 - rI/p*(1-math.Cos(theta))

	v1 := r2.Sub(r1.Scale(f)).Scale(1 / g)
	v2 := r2.Scale(gDot).Sub(r1).Scale(1 / g)

	return Result{V1: v1, V2: v2, A: a, Valid: true, Iterations: iterations}
}

// minEnergyTOF returns the time of flight along the minimum-energy
// ellipse (a = s/2), i.e. tofAt evaluated at a = s/2, where alpha = pi
// and beta takes the same sign convention for transfer angles above pi.
func minEnergyTOF(aMin, s, c, theta, mu float64) float64 {
	alpha := math.Pi
	beta := 2 * math.Asin(math.Sqrt((s-c)/(2*aMin)))
	if theta > math.Pi {
		beta = -beta
	}
	return math.Sqrt(math.Pow(aMin, 3)/mu) * (alpha - beta - (math.Sin(alpha) - math.Sin(beta)))
}

// tofAt evaluates Δt_test(a), per spec §4.5.
func tofAt(a, s, c, theta, mu float64) float64 {
	alpha := 2 * math.Asin(clamp(math.Sqrt(s/(2*a)), -1, 1))
	beta := 2 * math.Asin(clamp(math.Sqrt((s-c)/(2*a)), -1, 1))
	if theta > math.Pi {
		beta = -beta
	}
	return math.Sqrt(math.Pow(a, 3)/mu) * (alpha - beta - (math.Sin(alpha) - math.Sin(beta)))
}

// semiLatusRectum recovers p from the converged a via the standard Lambert
// geometry relation p = 4a(s-r1)(s-r2)/c^2 * sin^2((alpha+beta)/2).
func semiLatusRectum(a, s, c, rI, rF, theta float64) float64 {
	alpha := 2 * math.Asin(clamp(math.Sqrt(s/(2*a)), -1, 1))
	beta := 2 * math.Asin(clamp(math.Sqrt((s-c)/(2*a)), -1, 1))
	if theta > math.Pi {
		beta = -beta
	}
	sinHalfSum := math.Sin((alpha + beta) / 2)
	return 4 * a * (s - rI) * (s - rF) / (c * c) * (sinHalfSum * sinHalfSum)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
