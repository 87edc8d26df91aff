package integrate

import (
	"math"
)

// Dormand-Prince 4(5) Butcher tableau (published coefficients).
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	// 5th-order solution weights (also stage-7 weights: FSAL).
	dpB5 = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	// 4th-order embedded solution weights.
	dpB4 = [7]float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40}
)

// IntegrationConfig bounds the adaptive step size and tolerances, per
// spec §3 "Integration configuration".
type IntegrationConfig struct {
	MinStep, MaxStep   float64
	AbsTol, RelTol     float64
	SafetyFactor       float64 // default 0.9
	MaxSteps           int
}

// DefaultSafetyFactor is used when IntegrationConfig.SafetyFactor is zero.
const DefaultSafetyFactor = 0.9

// Named presets, per spec §3.
var (
	PresetEarthOrbit = IntegrationConfig{
		MinStep: 0.1, MaxStep: 600, AbsTol: 1e-9, RelTol: 1e-9,
		SafetyFactor: DefaultSafetyFactor, MaxSteps: 2_000_000,
	}
	PresetInterplanetary = IntegrationConfig{
		MinStep: 1, MaxStep: 7 * 86400, AbsTol: 1e-9, RelTol: 1e-9,
		SafetyFactor: DefaultSafetyFactor, MaxSteps: 2_000_000,
	}
	PresetFlyby = IntegrationConfig{
		MinStep: 0.01, MaxStep: 3600, AbsTol: 1e-9, RelTol: 1e-9,
		SafetyFactor: DefaultSafetyFactor, MaxSteps: 2_000_000,
	}
)

func (c IntegrationConfig) safety() float64 {
	if c.SafetyFactor == 0 {
		return DefaultSafetyFactor
	}
	return c.SafetyFactor
}

// StepEvent records a forced step taken at dt_min after step-size
// underflow (spec §7): propagation continues, but the event is surfaced
// rather than silently dropped.
type StepEvent struct {
	AtTime        float64
	ErrorEstimate float64
}

// AdaptiveResult is returned by PropagateAdaptive.
type AdaptiveResult struct {
	Samples    []StateVector
	DtLast     float64
	StepEvents []StepEvent
}

func dpStage(state [6]float64, t, h float64, deriv DerivativeFunc, frame func() StateVector, stages *[7][6]float64) {
	for s := 0; s < 7; s++ {
		var y [6]float64
		y = state
		for j := 0; j < s; j++ {
			a := dpA[s][j]
			if a == 0 {
				continue
			}
			for k := 0; k < 6; k++ {
				y[k] += h * a * stages[j][k]
			}
		}
		sv := stateFromVec6(y, t+dpC[s]*h, frame().Frame)
		d := deriv(t+dpC[s]*h, sv)
		stages[s] = derivToVec6(d)
	}
}

// dpStep performs one trial Dormand-Prince step of size h from (t, state),
// returning the 5th-order solution and the scaled-RMS error estimate (spec
// §4.4's err formula). The 7th stage is not returned, so FSAL reuse is not
// threaded across steps.
func dpStep(state [6]float64, t, h float64, deriv DerivativeFunc, frame func() StateVector, cfg IntegrationConfig) (y5 [6]float64, err float64) {
	var stages [7][6]float64
	dpStage(state, t, h, deriv, frame, &stages)

	var y4 [6]float64
	for k := 0; k < 6; k++ {
		var s5, s4 float64
		for s := 0; s < 7; s++ {
			s5 += dpB5[s] * stages[s][k]
			s4 += dpB4[s] * stages[s][k]
		}
		y5[k] = state[k] + h*s5
		y4[k] = state[k] + h*s4
	}

	var sumSq float64
	for k := 0; k < 6; k++ {
		sc := cfg.AbsTol + cfg.RelTol*math.Max(math.Abs(y5[k]), math.Abs(y4[k]))
		d := (y5[k] - y4[k]) / sc
		sumSq += d * d
	}
	err = math.Sqrt(sumSq / 6)
	return
}

// PropagateAdaptive integrates state forward by duration seconds using
// Dormand-Prince 4(5) with PI step-size control (spec §4.4). It never
// steps past t0+duration, shortening the final step to land exactly, and
// returns samples at every accepted step (callers that need a uniform
// sample grid should use Propagate instead).
func PropagateAdaptive(state StateVector, duration float64, deriv DerivativeFunc, cfg IntegrationConfig) AdaptiveResult {
	safety := cfg.safety()
	t0 := state.T
	tEnd := t0 + duration
	h := cfg.MaxStep
	if h > duration {
		h = duration
	}
	if h <= 0 {
		h = cfg.MinStep
	}

	cur := state.toVec6()
	t := t0
	frameTag := state.Frame
	result := AdaptiveResult{Samples: []StateVector{state}}

	for step := 0; step < cfg.MaxSteps && t < tEnd; step++ {
		if t+h > tEnd {
			h = tEnd - t
		}
		curState := stateFromVec6(cur, t, frameTag)
		y5, errEst := dpStep(cur, t, h, deriv, func() StateVector { return curState }, cfg)

		accept := errEst <= 1 || h <= cfg.MinStep+1e-15

		if h <= cfg.MinStep+1e-15 && errEst > 1 {
			result.StepEvents = append(result.StepEvents, StepEvent{AtTime: t, ErrorEstimate: errEst})
		}

		if accept {
			cur = y5
			t += h
			result.Samples = append(result.Samples, stateFromVec6(cur, t, frameTag))

			var grow float64
			if errEst > 0 {
				grow = safety * math.Pow(errEst, -1.0/5)
			} else {
				grow = 5
			}
			grow = math.Min(grow, 5)
			h = math.Min(h*grow, cfg.MaxStep)
		} else {
			shrink := safety * math.Pow(errEst, -1.0/4)
			shrink = math.Max(shrink, 0.1)
			h = math.Max(h*shrink, cfg.MinStep)
		}
	}
	result.DtLast = h
	return result
}

// Propagate returns uniformly sampled states by piecewise-constant
// snapshotting: the nearest post-step state at each multiple of sampleDt,
// plus a guaranteed final sample, per spec §4.4.
func Propagate(state StateVector, duration float64, deriv DerivativeFunc, cfg IntegrationConfig, sampleDt float64) AdaptiveResult {
	full := PropagateAdaptive(state, duration, deriv, cfg)
	if sampleDt <= 0 || len(full.Samples) == 0 {
		return full
	}
	t0 := state.T
	tEnd := t0 + duration
	out := make([]StateVector, 0, int(duration/sampleDt)+2)
	nextSampleT := t0
	for _, s := range full.Samples {
		for nextSampleT <= s.T+1e-9 && nextSampleT <= tEnd+1e-9 {
			out = append(out, s)
			nextSampleT += sampleDt
		}
	}
	if len(out) == 0 || out[len(out)-1].T != full.Samples[len(full.Samples)-1].T {
		out = append(out, full.Samples[len(full.Samples)-1])
	}
	full.Samples = out
	return full
}

// AdaptiveStep performs one accepted Dormand-Prince 4(5) step from state,
// retrying internally on rejection (spec §4.4's PI controller) and never
// advancing past maxAdvance seconds. hHint seeds the trial step size (the
// caller's own hNext from a prior call, or 0 to start from cfg.MaxStep);
// hUsed is the step actually taken and hNext is the grown/shrunk size the
// caller should try next. It applies the same step rules as
// PropagateAdaptive/PropagateUntil, which run their own loops; it is used
// by callers that must act between accepted steps, such as
// force.PropagateLowThrustSteps rebuilding the derivative after mass loss.
func AdaptiveStep(state StateVector, hHint, maxAdvance float64, deriv DerivativeFunc, cfg IntegrationConfig) (next StateVector, hUsed, hNext float64) {
	safety := cfg.safety()
	h := hHint
	if h <= 0 || h > cfg.MaxStep {
		h = cfg.MaxStep
	}
	if h > maxAdvance {
		h = maxAdvance
	}
	if h <= 0 {
		h = cfg.MinStep
	}

	cur := state.toVec6()
	t := state.T
	frameTag := state.Frame

	for {
		if h > maxAdvance {
			h = maxAdvance
		}
		curState := stateFromVec6(cur, t, frameTag)
		y5, errEst := dpStep(cur, t, h, deriv, func() StateVector { return curState }, cfg)
		accept := errEst <= 1 || h <= cfg.MinStep+1e-15

		if accept {
			next = stateFromVec6(y5, t+h, frameTag)
			hUsed = h
			var grow float64
			if errEst > 0 {
				grow = safety * math.Pow(errEst, -1.0/5)
			} else {
				grow = 5
			}
			hNext = math.Min(math.Min(grow, 5)*h, cfg.MaxStep)
			return
		}
		shrink := math.Max(safety*math.Pow(errEst, -1.0/4), 0.1)
		h = math.Max(h*shrink, cfg.MinStep)
	}
}

// StopPredicate is evaluated after every accepted adaptive step.
type StopPredicate func(s StateVector) bool

// PropagateUntil returns the first state at which pred is true, or the
// state at maxDuration if pred never fires, per spec §4.4.
func PropagateUntil(state StateVector, maxDuration float64, deriv DerivativeFunc, cfg IntegrationConfig, pred StopPredicate) StateVector {
	safety := cfg.safety()
	t0 := state.T
	tEnd := t0 + maxDuration
	h := cfg.MaxStep
	if h > maxDuration {
		h = maxDuration
	}
	if h <= 0 {
		h = cfg.MinStep
	}
	cur := state.toVec6()
	t := t0
	frameTag := state.Frame

	for step := 0; step < cfg.MaxSteps && t < tEnd; step++ {
		if t+h > tEnd {
			h = tEnd - t
		}
		curState := stateFromVec6(cur, t, frameTag)
		y5, errEst := dpStep(cur, t, h, deriv, func() StateVector { return curState }, cfg)
		accept := errEst <= 1 || h <= cfg.MinStep+1e-15
		if accept {
			cur = y5
			t += h
			next := stateFromVec6(cur, t, frameTag)
			if pred(next) {
				return next
			}
			var grow float64
			if errEst > 0 {
				grow = safety * math.Pow(errEst, -1.0/5)
			} else {
				grow = 5
			}
			h = math.Min(math.Min(grow, 5)*h, cfg.MaxStep)
		} else {
			shrink := math.Max(safety*math.Pow(errEst, -1.0/4), 0.1)
			h = math.Max(h*shrink, cfg.MinStep)
		}
	}
	return stateFromVec6(cur, t, frameTag)
}
