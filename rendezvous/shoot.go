package rendezvous

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/orbit"
	"github.com/orbitalarena/trajx/vector"
)

// PositionToleranceM and VelocityToleranceMS are the convergence criteria
// of spec §4.7.
const (
	PositionToleranceM   = 1.0
	VelocityToleranceMS  = 0.01
	MaxShootIterations   = 50
	MaxLineSearchHalvings = 10
)

// ShootInput bundles a Newton-Raphson rendezvous shoot's inputs, per spec
// §4.7.
type ShootInput struct {
	Chaser        integrate.StateVector
	Target        integrate.StateVector
	TOF           float64
	MatchVelocity bool
	InitialGuess  vector.Vec3 // optional; zero value means "derive from CW rules"
	Deriv         integrate.DerivativeFunc
	Mu            float64
	LineSearch    bool
}

// ShootResult is the record spec §4.7 asks for: converged maneuvers,
// total Δv, achieved errors, iteration count, and a status string.
type ShootResult struct {
	DeltaV        vector.Vec3
	TotalDeltaV   float64
	PositionError float64
	VelocityError float64
	Iterations    int
	Converged     bool
	Status        string
}

// Shoot runs the full nonlinear Newton-Raphson rendezvous solve of spec
// §4.7: co-propagate chaser state+STM via RK4 on the extended
// 6+36-component system, extract the Jacobian of terminal position (and
// optionally velocity) residual with respect to Δv from STM columns 3-5,
// and correct Δv by Gaussian elimination (or normal equations when
// over-determined) with optional backtracking line search.
func Shoot(in ShootInput) ShootResult {
	targetFinal := propagateToTOF(in.Target, in.TOF, in.Deriv)

	dv := in.InitialGuess
	if dv == (vector.Vec3{}) {
		dv = deriveCWGuess(in)
	}
	var lastPosErr, lastVelErr float64
	var iterations int

	for iterations = 0; iterations < MaxShootIterations; iterations++ {
		chaserStart := in.Chaser
		chaserStart.Vel = chaserStart.Vel.Add(dv)
		sas := integrate.NewIdentitySTM(chaserStart)
		final := integrate.CoPropagateRK4(sas, in.TOF, stepsFor(in.TOF), in.Deriv, in.Mu)

		posErr := final.State.Pos.Sub(targetFinal.Pos)
		velErr := final.State.Vel.Sub(targetFinal.Vel)
		lastPosErr = posErr.Norm()
		lastVelErr = velErr.Norm()

		if lastPosErr < PositionToleranceM && (!in.MatchVelocity || lastVelErr < VelocityToleranceMS) {
			return ShootResult{
				DeltaV: dv, TotalDeltaV: dv.Norm(),
				PositionError: lastPosErr, VelocityError: lastVelErr,
				Iterations: iterations, Converged: true, Status: "converged",
			}
		}

		phiRv := subBlock(final.Phi, 0, 3)
		var j *mat64.Dense
		var residual *mat64.Dense
		if in.MatchVelocity {
			phiVv := subBlock(final.Phi, 3, 3)
			j = mat64.NewDense(6, 3, nil)
			j.SetRow(0, phiRv.RawRowView(0))
			j.SetRow(1, phiRv.RawRowView(1))
			j.SetRow(2, phiRv.RawRowView(2))
			j.SetRow(3, phiVv.RawRowView(0))
			j.SetRow(4, phiVv.RawRowView(1))
			j.SetRow(5, phiVv.RawRowView(2))
			residual = mat64.NewDense(6, 1, []float64{posErr[0], posErr[1], posErr[2], velErr[0], velErr[1], velErr[2]})
		} else {
			j = phiRv
			residual = mat64.NewDense(3, 1, []float64{posErr[0], posErr[1], posErr[2]})
		}

		var delta mat64.Dense
		if err := delta.Solve(j, residual); err != nil {
			return ShootResult{
				DeltaV: dv, TotalDeltaV: dv.Norm(),
				PositionError: lastPosErr, VelocityError: lastVelErr,
				Iterations: iterations, Converged: false,
				Status: fmt.Sprintf("singular Jacobian: %v", err),
			}
		}
		step := vector.Vec3{delta.At(0, 0), delta.At(1, 0), delta.At(2, 0)}

		alpha := 1.0
		candidate := dv.Sub(step.Scale(alpha))
		if in.LineSearch {
			baseline := objective(in, dv, targetFinal)
			for h := 0; h < MaxLineSearchHalvings; h++ {
				candidate = dv.Sub(step.Scale(alpha))
				if objective(in, candidate, targetFinal) < baseline {
					break
				}
				alpha *= 0.5
			}
		}
		dv = candidate
	}

	return ShootResult{
		DeltaV: dv, TotalDeltaV: dv.Norm(),
		PositionError: lastPosErr, VelocityError: lastVelErr,
		Iterations: iterations, Converged: false, Status: "iteration cap reached",
	}
}

// deriveCWGuess resolves the chaser's relative position into the target's
// RIC frame and applies the CW single-burn rule for an initial Δv guess,
// per spec §4.7's "optional initial Δv guess, else from the CW rules
// above". Returns the zero vector if the target's RIC frame or the CW
// in-plane solve is degenerate, leaving Shoot to iterate from a zero
// guess as before.
func deriveCWGuess(in ShootInput) vector.Vec3 {
	oe := orbit.ElementsFromState(in.Target.Pos, in.Target.Vel, in.Mu)
	frame, ok := vector.NewRICFrame(in.Target.Pos, in.Target.Vel)
	if !ok {
		return vector.Vec3{}
	}
	r0RIC := frame.ToRIC(in.Chaser.Pos.Sub(in.Target.Pos))
	cw := NewCWSTM(oe.MeanMotion(), in.TOF)
	guess := SolveSingleBurn(cw, [3]float64{r0RIC[0], r0RIC[1], r0RIC[2]})
	if !guess.Valid {
		return vector.Vec3{}
	}
	return frame.FromRIC(vector.Vec3{guess.DeltaV[0], guess.DeltaV[1], guess.DeltaV[2]})
}

// ShootTwoImpulse first solves position-only to TOF, then sets the
// terminal burn to (target velocity - chaser velocity) at arrival, per
// spec §4.7.
func ShootTwoImpulse(in ShootInput) (ShootResult, vector.Vec3) {
	in.MatchVelocity = false
	first := Shoot(in)

	chaserStart := in.Chaser
	chaserStart.Vel = chaserStart.Vel.Add(first.DeltaV)
	arrival := propagateToTOF(chaserStart, in.TOF, in.Deriv)
	targetFinal := propagateToTOF(in.Target, in.TOF, in.Deriv)

	terminalBurn := targetFinal.Vel.Sub(arrival.Vel)
	return first, terminalBurn
}

func objective(in ShootInput, dv vector.Vec3, targetFinal integrate.StateVector) float64 {
	chaserStart := in.Chaser
	chaserStart.Vel = chaserStart.Vel.Add(dv)
	final := propagateToTOF(chaserStart, in.TOF, in.Deriv)
	posErr := final.Pos.Sub(targetFinal.Pos).Norm()
	if !in.MatchVelocity {
		return posErr
	}
	velErr := final.Vel.Sub(targetFinal.Vel).Norm()
	return math.Hypot(posErr, velErr)
}

// subBlock extracts a 3x3 block of Phi starting at row `rowOffset`,
// columns 3-5 (the velocity-IC columns), per spec §4.7.
func subBlock(phi *mat64.Dense, rowOffset, _ int) *mat64.Dense {
	out := mat64.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, phi.At(rowOffset+i, 3+j))
		}
	}
	return out
}

// stepsFor picks a co-propagation step count, one step per ~30 seconds of
// TOF, capped to keep the 42-component RK4 cost bounded.
func stepsFor(tof float64) int {
	n := int(math.Abs(tof) / 30)
	if n < 4 {
		n = 4
	}
	if n > 2000 {
		n = 2000
	}
	return n
}

// propagateToTOF advances state to T+tof using fixed RK4 steps sized the
// same way as the co-propagation step count, so the plain-state and
// state+STM propagations stay consistent.
func propagateToTOF(state integrate.StateVector, tof float64, deriv integrate.DerivativeFunc) integrate.StateVector {
	n := stepsFor(tof)
	steps := integrate.PropagateRK4Steps(state, tof/float64(n), n, deriv)
	return steps[len(steps)-1]
}
