package force

import (
	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/vector"
)

// DryMassFraction is the floor below which low-thrust mass depletion
// stops consuming propellant, per spec §4.4 ("clamp consumption at 1% of
// dry mass remaining").
const DryMassFraction = 0.01

// MassStep is the result of one low-thrust propagation step: the
// propagated state and the mass remaining after that step's propellant
// consumption, per Design Notes §9's pure-value mass threading (no
// mutable reference is shared between steps; the caller folds Mass
// forward explicitly).
type MassStep struct {
	State integrate.StateVector
	Mass  float64
}

// PropagateLowThrustSteps advances a low-thrust trajectory by duration
// seconds under Dormand-Prince 4(5) adaptive stepping (integrate.AdaptiveStep),
// rebuilding the force model with updated mass before each accepted step
// and depleting propellant per Tsiolkovsky's equation, mDot = -T/(Isp g0),
// evaluated at the midpoint of the accepted step (the average of the
// pre- and post-step position/velocity, since no dense-output interpolant
// is implemented), per spec §4.4: "each accepted adaptive step computes
// propellant consumed from T_actual(midpoint radius)·Δt_used/(Isp g0)".
// dryMass is the mass at which propellant is considered exhausted
// (DryMassFraction of cfg.LowThrust's initial mass if dryMass <= 0).
func PropagateLowThrustSteps(state integrate.StateVector, duration float64, cfg ForceModelConfig, icfg integrate.IntegrationConfig, epochJD, dryMass float64) []MassStep {
	if cfg.LowThrust == nil {
		panic("force: PropagateLowThrustSteps requires cfg.LowThrust")
	}
	mass := cfg.LowThrust.Mass
	out := make([]MassStep, 0, 64)
	out = append(out, MassStep{State: state, Mass: mass})

	floor := dryMass
	if floor <= 0 {
		floor = DryMassFraction * cfg.LowThrust.Mass
	}

	cur := state
	remaining := duration
	var h float64
	for steps := 0; remaining > 1e-9 && steps < icfg.MaxSteps; steps++ {
		lt := *cfg.LowThrust
		lt.Mass = mass
		stepCfg := cfg
		stepCfg.LowThrust = &lt
		deriv := MakeForceModel(stepCfg, epochJD)

		next, hUsed, hNext := integrate.AdaptiveStep(cur, h, remaining, deriv, icfg)
		h = hNext

		midPos := cur.Pos.Add(next.Pos).Scale(0.5)
		midVel := cur.Vel.Add(next.Vel).Scale(0.5)
		midJD := vector.AddSeconds(epochJD, cur.T+hUsed/2)
		sunRelative := midPos
		if cb := centralBodyGuess(stepCfg); cb != body.Sun {
			sunRelative = midPos.Add(body.HeliocentricPosition(cb, midJD))
		}
		_, thrustN := LowThrustAcceleration(midPos, midVel, sunRelative, lt)
		mDot := -thrustN / (lt.Isp * g0)
		mass += mDot * hUsed
		if mass < floor {
			mass = floor
		}

		cur = next
		remaining -= hUsed
		out = append(out, MassStep{State: cur, Mass: mass})
	}
	return out
}
