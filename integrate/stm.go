package integrate

import (
	"github.com/ChristopherRabotin/ode"
	"github.com/gonum/matrix/mat64"

	"github.com/orbitalarena/trajx/vector"
)

// StateAndSTM is the product type spec Design Notes §9 calls for in place
// of packing/unpacking a flat 42-component array: a state and its 6x6
// State Transition Matrix Φ(t, t0) = ∂x(t)/∂x(t0), co-propagated together.
// Grounded on estimate.go's OrbitEstimate, which performs the same
// pack/unpack by hand around a flat slice; here the two halves are kept
// named and the packing lives entirely inside this file.
type StateAndSTM struct {
	State StateVector
	Phi   *mat64.Dense // 6x6, Phi(t0,t0) = I
}

// NewIdentitySTM returns Φ(t0,t0) = I at the given state.
func NewIdentitySTM(state StateVector) StateAndSTM {
	phi := mat64.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		phi.Set(i, i, 1)
	}
	return StateAndSTM{State: state, Phi: phi}
}

// gravityGradient returns G = -mu/r^3 (I - 3 r r^T / r^2), the gradient of
// two-body gravitational acceleration w.r.t. position (spec §4.7). J2
// gradient terms are intentionally omitted, per spec: "callers accept the
// resulting Newton convergence slowdown for J2-dominated orbits."
func gravityGradient(pos vector.Vec3, mu float64) [3][3]float64 {
	r2 := vector.Dot(pos, pos)
	r := pos.Norm()
	r3 := r2 * r
	coeff := -mu / r3
	var g [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			delta := 0.0
			if i == j {
				delta = 1
			}
			g[i][j] = coeff * (delta - 3*pos[i]*pos[j]/r2)
		}
	}
	return g
}

// stmVecIntegrable adapts one fixed RK4 step of the 42-component
// (state, Φ) system to ode.Integrable, mirroring rk4Integrable but over a
// variable-length slice since Φ contributes 36 extra components.
type stmVecIntegrable struct {
	state []float64
	t0    float64
	deriv DerivativeFunc
	mu    float64
	frame vector.Frame
}

func (r *stmVecIntegrable) GetState() []float64         { return r.state }
func (r *stmVecIntegrable) SetState(i uint64, s []float64) { copy(r.state, s) }
func (r *stmVecIntegrable) Stop(i uint64) bool          { return i >= 1 }

func (r *stmVecIntegrable) Func(t float64, s []float64) []float64 {
	var pos, vel vector.Vec3
	for k := 0; k < 3; k++ {
		pos[k] = s[k]
		vel[k] = s[3+k]
	}
	sv := StateVector{Pos: pos, Vel: vel, T: r.t0 + t, Frame: r.frame}
	d := r.deriv(r.t0+t, sv)

	out := make([]float64, len(s))
	out[0], out[1], out[2] = d.Velocity[0], d.Velocity[1], d.Velocity[2]
	out[3], out[4], out[5] = d.Acceleration[0], d.Acceleration[1], d.Acceleration[2]

	g := gravityGradient(pos, r.mu)
	// Phi is stored row-major starting at index 6. PhiDot = A*Phi with
	// A = [[0, I], [G, 0]]: top half of PhiDot is the bottom half of Phi;
	// bottom half of PhiDot is G times the top half of Phi.
	phiTop := s[6 : 6+18]    // rows 0-2 of Phi (18 = 3*6)
	phiBottom := s[6+18 : 6+36] // rows 3-5 of Phi
	for i := 0; i < 18; i++ {
		out[6+i] = phiBottom[i]
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 6; col++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += g[row][k] * phiTop[k*6+col]
			}
			out[6+18+row*6+col] = sum
		}
	}
	return out
}

// packPhi flattens Phi row-major into dst[offset:offset+36].
func packPhi(phi *mat64.Dense, dst []float64, offset int) {
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			dst[offset+i*6+j] = phi.At(i, j)
		}
	}
}

func unpackPhi(src []float64, offset int) *mat64.Dense {
	phi := mat64.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			phi.Set(i, j, src[offset+i*6+j])
		}
	}
	return phi
}

// CoPropagateRK4Step advances (state, Φ) by one fixed RK4 step of size dt,
// per spec §4.7/§9: the propagator "co-integrates the 6-vector state and
// its 6x6 STM using RK4 on an extended 42-component system."
func CoPropagateRK4Step(sas StateAndSTM, dt float64, deriv DerivativeFunc, mu float64) StateAndSTM {
	flat := make([]float64, 42)
	flat[0], flat[1], flat[2] = sas.State.Pos[0], sas.State.Pos[1], sas.State.Pos[2]
	flat[3], flat[4], flat[5] = sas.State.Vel[0], sas.State.Vel[1], sas.State.Vel[2]
	packPhi(sas.Phi, flat, 6)

	integrable := &stmVecIntegrable{state: flat, t0: sas.State.T, deriv: deriv, mu: mu, frame: sas.State.Frame}
	ode.NewRK4(0, dt, integrable).Solve()

	newPos := vector.Vec3{integrable.state[0], integrable.state[1], integrable.state[2]}
	newVel := vector.Vec3{integrable.state[3], integrable.state[4], integrable.state[5]}
	newPhi := unpackPhi(integrable.state, 6)

	return StateAndSTM{
		State: StateVector{Pos: newPos, Vel: newVel, T: sas.State.T + dt, Frame: sas.State.Frame},
		Phi:   newPhi,
	}
}

// CoPropagateRK4 advances (state, Φ) over duration seconds in n equal
// fixed steps.
func CoPropagateRK4(sas StateAndSTM, duration float64, n int, deriv DerivativeFunc, mu float64) StateAndSTM {
	dt := duration / float64(n)
	cur := sas
	for i := 0; i < n; i++ {
		cur = CoPropagateRK4Step(cur, dt, deriv, mu)
	}
	return cur
}
