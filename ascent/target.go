package ascent

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/orbit"
	"github.com/orbitalarena/trajx/vector"
)

// ControlVariable names one of the shooter's free parameters, per spec
// §4.8 ("azimuth, pitch/yaw coefficients, final-coast duration").
type ControlVariable int

const (
	Azimuth ControlVariable = iota
	PitchCoefficient
	YawCoefficient
	CoastDuration
)

// StepScale gives the finite-difference/Newton step size for one control
// variable class. Per Design Notes §9's Open Question, these magnitudes
// are exposed as solver configuration rather than derived from the
// problem's own scale.
type StepScale struct {
	Azimuth, Pitch, Yaw, Coast float64
}

// DefaultStepScale is a reasonable default: a tenth of a degree for
// angles, one second for coast duration.
var DefaultStepScale = StepScale{
	Azimuth: 0.1 * math.Pi / 180,
	Pitch:   0.1 * math.Pi / 180,
	Yaw:     0.1 * math.Pi / 180,
	Coast:   1.0,
}

// TargetSpec selects the terminal-targeting mode of spec §4.8: either
// orbit insertion (a, e, i residual against a target set) or a
// position/velocity intercept of an external target state.
type TargetSpec struct {
	InsertionTarget *orbit.Elements        // non-nil selects orbit-insertion mode
	InterceptTarget *integrate.StateVector // non-nil selects intercept mode
	MatchVelocity   bool                   // intercept mode only
}

// Controls is the free-parameter vector the shooter adjusts: one
// coefficient per stage's pitch polynomial (flattened), likewise yaw,
// plus azimuth and final-coast duration.
type Controls struct {
	Azimuth       float64
	PitchCoeffs   [][]float64 // per stage
	YawCoeffs     [][]float64
	CoastDuration float64
}

// ShootResult mirrors rendezvous.ShootResult's shape for the ascent
// terminal-targeting problem.
type ShootResult struct {
	Controls   Controls
	Residual   []float64
	Iterations int
	Converged  bool
	Status     string
}

// Target runs the Newton-Raphson terminal-targeting shoot of spec §4.8:
// numerical Jacobian of the residual (orbital-element error or
// position/velocity error) with respect to the control vector, corrected
// by Gaussian elimination (mat64.Solve), same convergence/iteration-cap
// discipline as the rendezvous shooter (spec §4.7).
func Target(p Profile, dt float64, initial Controls, spec TargetSpec, scale StepScale) ShootResult {
	x := flatten(initial)
	var lastResidual []float64

	for iter := 0; iter < 50; iter++ {
		controls := unflatten(x, initial)
		residual := evaluate(p, dt, controls, spec)
		lastResidual = residual

		if converged(residual, spec) {
			return ShootResult{Controls: controls, Residual: residual, Iterations: iter, Converged: true, Status: "converged"}
		}

		n := len(x)
		m := len(residual)
		j := mat64.NewDense(m, n, nil)
		for k := 0; k < n; k++ {
			h := stepFor(k, initial, scale)
			xPert := append([]float64(nil), x...)
			xPert[k] += h
			perturbed := evaluate(p, dt, unflatten(xPert, initial), spec)
			for row := 0; row < m; row++ {
				j.Set(row, k, (perturbed[row]-residual[row])/h)
			}
		}

		b := mat64.NewDense(m, 1, residual)
		var delta mat64.Dense
		if err := delta.Solve(j, b); err != nil {
			return ShootResult{Controls: unflatten(x, initial), Residual: residual, Iterations: iter, Converged: false, Status: "singular Jacobian"}
		}
		for k := 0; k < n; k++ {
			x[k] -= delta.At(k, 0)
		}
	}

	return ShootResult{Controls: unflatten(x, initial), Residual: lastResidual, Iterations: 50, Converged: false, Status: "iteration cap reached"}
}

// stepFor returns the finite-difference step for flattened control index
// k, following flatten's layout: azimuth, coast duration, then every
// stage's pitch coefficients, then every stage's yaw coefficients.
func stepFor(k int, layout Controls, scale StepScale) float64 {
	switch k {
	case 0:
		return scale.Azimuth
	case 1:
		return scale.Coast
	}
	nPitch := 0
	for _, stage := range layout.PitchCoeffs {
		nPitch += len(stage)
	}
	if k-2 < nPitch {
		return scale.Pitch
	}
	return scale.Yaw
}

func flatten(c Controls) []float64 {
	out := []float64{c.Azimuth, c.CoastDuration}
	for _, stage := range c.PitchCoeffs {
		out = append(out, stage...)
	}
	for _, stage := range c.YawCoeffs {
		out = append(out, stage...)
	}
	return out
}

func unflatten(x []float64, template Controls) Controls {
	out := Controls{Azimuth: x[0], CoastDuration: x[1]}
	idx := 2
	out.PitchCoeffs = make([][]float64, len(template.PitchCoeffs))
	for i, stage := range template.PitchCoeffs {
		out.PitchCoeffs[i] = append([]float64(nil), x[idx:idx+len(stage)]...)
		idx += len(stage)
	}
	out.YawCoeffs = make([][]float64, len(template.YawCoeffs))
	for i, stage := range template.YawCoeffs {
		out.YawCoeffs[i] = append([]float64(nil), x[idx:idx+len(stage)]...)
		idx += len(stage)
	}
	return out
}

func evaluate(p Profile, dt float64, c Controls, spec TargetSpec) []float64 {
	applied := p
	applied.AzimuthRad = c.Azimuth
	applied.Stages = append([]Stage(nil), p.Stages...)
	for i := range applied.Stages {
		if i < len(c.PitchCoeffs) {
			applied.Stages[i].Pitch = ControlPolynomial{Coefficients: c.PitchCoeffs[i]}
		}
		if i < len(c.YawCoeffs) {
			applied.Stages[i].Yaw = ControlPolynomial{Coefficients: c.YawCoeffs[i]}
		}
	}

	stageResults := Simulate(applied, dt)
	final := stageResults[len(stageResults)-1]
	lastState := final.States[len(final.States)-1]

	if c.CoastDuration > 0 {
		deriv := func(t float64, s integrate.StateVector) integrate.StateDerivative {
			acc := (vector.Vec3{}).Sub(s.Pos).Scale(p.CentralBodyMu / math.Pow(s.Pos.Norm(), 3))
			return integrate.StateDerivative{Velocity: s.Vel, Acceleration: acc, DTime: 1}
		}
		n := int(c.CoastDuration/10) + 1
		steps := integrate.PropagateRK4Steps(lastState, c.CoastDuration/float64(n), n, deriv)
		lastState = steps[len(steps)-1]
	}

	if spec.InsertionTarget != nil {
		oe := orbit.ElementsFromState(lastState.Pos, lastState.Vel, p.CentralBodyMu)
		return []float64{
			oe.A - spec.InsertionTarget.A,
			oe.E - spec.InsertionTarget.E,
			oe.I - spec.InsertionTarget.I,
		}
	}

	target := *spec.InterceptTarget
	posErr := lastState.Pos.Sub(target.Pos)
	if !spec.MatchVelocity {
		return []float64{posErr[0], posErr[1], posErr[2]}
	}
	velErr := lastState.Vel.Sub(target.Vel)
	return []float64{posErr[0], posErr[1], posErr[2], velErr[0], velErr[1], velErr[2]}
}

func converged(residual []float64, spec TargetSpec) bool {
	if spec.InsertionTarget != nil {
		return math.Abs(residual[0]) < 1000 && math.Abs(residual[1]) < 1e-4 && math.Abs(residual[2]) < 1e-5
	}
	posErr := math.Sqrt(residual[0]*residual[0] + residual[1]*residual[1] + residual[2]*residual[2])
	if posErr >= 1.0 {
		return false
	}
	if len(residual) == 3 {
		return true
	}
	velErr := math.Sqrt(residual[3]*residual[3] + residual[4]*residual[4] + residual[5]*residual[5])
	return velErr < 0.01
}
