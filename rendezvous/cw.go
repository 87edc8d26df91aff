// Package rendezvous implements relative-motion targeting: the
// Clohessy-Wiltshire closed-form state-transition matrix (spec §4.6) and
// the full nonlinear Newton-Raphson shooter built on co-propagated
// state+STM (spec §4.7). There is no direct teacher file for relative
// motion (the teacher's station.go covers ground-station measurement
// models, not rendezvous dynamics); the CW STM is built in the teacher's
// idiom of assembling closed-form trig blocks the way rotation.go builds
// R1/R2/R3.
package rendezvous

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// SingularityDeterminantε is the in-plane determinant floor below which a
// CW configuration (notably nΔt = 2πk) is reported invalid, per spec §4.6.
const SingularityDeterminantε = 1e-12

// CWSTM is the 6x6 Clohessy-Wiltshire state-transition matrix at mean
// motion n and elapsed time dt, split into its four 3x3 blocks per spec
// §4.6. All relative states are expressed in the target's RIC frame.
type CWSTM struct {
	Rr, Rv, Vr, Vv *mat64.Dense // each 3x3
	N, Dt          float64
}

// NewCWSTM builds the closed-form CW STM blocks, per spec §4.6.
func NewCWSTM(n, dt float64) CWSTM {
	s, c := math.Sincos(n * dt)
	nt := n * dt

	rr := mat64.NewDense(3, 3, []float64{
		4 - 3*c, 0, 0,
		6 * (s - nt), 1, 0,
		0, 0, c,
	})
	rv := mat64.NewDense(3, 3, []float64{
		s / n, 2 * (1 - c) / n, 0,
		2 * (c - 1) / n, (4*s - 3*nt) / n, 0,
		0, 0, s / n,
	})
	vr := mat64.NewDense(3, 3, []float64{
		3 * n * s, 0, 0,
		6 * n * (c - 1), 0, 0,
		0, 0, -n * s,
	})
	vv := mat64.NewDense(3, 3, []float64{
		c, 2 * s, 0,
		-2 * s, 4*c - 3, 0,
		0, 0, c,
	})
	return CWSTM{Rr: rr, Rv: rv, Vr: vr, Vv: vv, N: n, Dt: dt}
}

// inPlaneDeterminant returns det of the in-plane (x,y) 2x2 sub-block of
// Rv, which governs the single-burn solve's invertibility. It carries
// units of 1/n²; SolveSingleBurn compares det·n² (the determinant of the
// dimensionless n·Rv block) against SingularityDeterminantε.
func (cw CWSTM) inPlaneDeterminant() float64 {
	return cw.Rv.At(0, 0)*cw.Rv.At(1, 1) - cw.Rv.At(0, 1)*cw.Rv.At(1, 0)
}

// SingleBurnResult is the outcome of a single-burn intercept solve.
type SingleBurnResult struct {
	DeltaV [3]float64
	Valid  bool
}

// SolveSingleBurn solves Φ_rv·Δv1 = -Φ_rr·r0 for the in-plane 2x2
// sub-block (cross-track decouples trivially), per spec §4.6.
func SolveSingleBurn(cw CWSTM, r0 [3]float64) SingleBurnResult {
	det := cw.inPlaneDeterminant()
	if math.Abs(det*cw.N*cw.N) < SingularityDeterminantε {
		return SingleBurnResult{Valid: false}
	}
	rhs0 := -(cw.Rr.At(0, 0)*r0[0] + cw.Rr.At(0, 1)*r0[1] + cw.Rr.At(0, 2)*r0[2])
	rhs1 := -(cw.Rr.At(1, 0)*r0[0] + cw.Rr.At(1, 1)*r0[1] + cw.Rr.At(1, 2)*r0[2])

	a, b := cw.Rv.At(0, 0), cw.Rv.At(0, 1)
	c, d := cw.Rv.At(1, 0), cw.Rv.At(1, 1)
	dvx := (d*rhs0 - b*rhs1) / det
	dvy := (a*rhs1 - c*rhs0) / det

	// Out-of-plane (z): Rv[2][2]*dvz = -Rr[2][2]*z0.
	dvz := 0.0
	if math.Abs(cw.Rv.At(2, 2)) > SingularityDeterminantε {
		dvz = -cw.Rr.At(2, 2) * r0[2] / cw.Rv.At(2, 2)
	}
	return SingleBurnResult{DeltaV: [3]float64{dvx, dvy, dvz}, Valid: true}
}

// TwoBurnResult is the outcome of a two-burn rendezvous solve: an initial
// burn to hit the target position at dt, and a terminal burn to null the
// relative arrival velocity, per spec §4.6.
type TwoBurnResult struct {
	DeltaV1, DeltaV2 [3]float64
	Valid            bool
}

// SolveTwoBurn computes DeltaV1 as SolveSingleBurn does, then propagates
// the resulting arrival relative velocity via Φ_vr, Φ_vv and sets
// DeltaV2 = -v_arrive.
func SolveTwoBurn(cw CWSTM, r0 [3]float64) TwoBurnResult {
	first := SolveSingleBurn(cw, r0)
	if !first.Valid {
		return TwoBurnResult{Valid: false}
	}
	v0 := first.DeltaV
	var vArrive [3]float64
	for i := 0; i < 3; i++ {
		sum := 0.0
		for j := 0; j < 3; j++ {
			sum += cw.Vr.At(i, j) * r0[j]
			sum += cw.Vv.At(i, j) * v0[j]
		}
		vArrive[i] = sum
	}
	return TwoBurnResult{
		DeltaV1: v0,
		DeltaV2: [3]float64{-vArrive[0], -vArrive[1], -vArrive[2]},
		Valid:   true,
	}
}

// RadialBurnHalfPeriod returns the rule-of-thumb radial burn magnitude
// ΔvR = r0·n/4 for a half-period transfer (Δt = π/n), per spec §4.6.
func RadialBurnHalfPeriod(r0Radial, n float64) float64 {
	return r0Radial * n / 4
}

// SymmetricPhasingBurn returns the rule-of-thumb in-track phasing burn
// Δv = v_circ|Δθ|/(3Δt·n) for Δt ≈ 2π/n, per spec §4.6.
func SymmetricPhasingBurn(vCirc, deltaTheta, dt, n float64) float64 {
	return vCirc * math.Abs(deltaTheta) / (3 * dt * n)
}
