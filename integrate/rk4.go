package integrate

import (
	"github.com/ChristopherRabotin/ode"
)

// rk4Integrable adapts a single fixed-size RK4 step of a StateVector to the
// external ode.Integrable interface, the same interface mission.go's
// Mission type implements to drive github.com/ChristopherRabotin/ode.
type rk4Integrable struct {
	state    [6]float64
	t0       float64
	deriv    DerivativeFunc
	frame    func() StateVector // returns the last StateVector, for frame bookkeeping
	steps    uint64
	maxSteps uint64
	lastT    float64
}

func (r *rk4Integrable) GetState() []float64 {
	return r.state[:]
}

func (r *rk4Integrable) SetState(i uint64, s []float64) {
	copy(r.state[:], s)
	r.steps = i + 1
}

func (r *rk4Integrable) Stop(i uint64) bool {
	return i >= r.maxSteps
}

func (r *rk4Integrable) Func(t float64, s []float64) []float64 {
	r.lastT = t
	var v6 [6]float64
	copy(v6[:], s)
	sv := stateFromVec6(v6, r.t0+t, r.frame().Frame)
	d := r.deriv(r.t0+t, sv)
	out := derivToVec6(d)
	return out[:]
}

// PropagateRK4 advances state by exactly one fixed step of size dt using
// the classical four-stage RK4 formula, treating (position, velocity) as
// ℝ⁶, per spec §4.4 and §6's `propagate_rk4(state, dt, deriv_fn)`. It
// wraps the external ode.RK4 driver (the same dependency mission.go uses
// for its fixed-step propagation loop).
func PropagateRK4(state StateVector, dt float64, deriv DerivativeFunc) StateVector {
	integrable := &rk4Integrable{
		state:    state.toVec6(),
		t0:       state.T,
		deriv:    deriv,
		frame:    func() StateVector { return state },
		maxSteps: 1,
	}
	ode.NewRK4(0, dt, integrable).Solve()
	return stateFromVec6(integrable.state, state.T+dt, state.Frame)
}

// PropagateRK4Steps advances state by n fixed steps of size dt, sampling
// every intermediate state (used by the rendezvous shooter's plain 6-state
// propagation and the ascent coast arc, when only a position/velocity
// trace is needed).
func PropagateRK4Steps(state StateVector, dt float64, n int, deriv DerivativeFunc) []StateVector {
	out := make([]StateVector, 0, n+1)
	out = append(out, state)
	cur := state
	for k := 0; k < n; k++ {
		cur = PropagateRK4(cur, dt, deriv)
		out = append(out, cur)
	}
	return out
}
