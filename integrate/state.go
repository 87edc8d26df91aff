// Package integrate implements the fixed-step RK4 and adaptive
// Dormand-Prince 4(5) propagators, plus the state+STM co-propagation used
// by the rendezvous and ascent shooters (spec §4.4, §9).
package integrate

import "github.com/orbitalarena/trajx/vector"

// StateVector is the (position, velocity, time, frame) tuple of spec §3.
// Attitude/angular-velocity fields are not carried here since the core
// never uses them (spec §3: "unused by the core").
type StateVector struct {
	Pos, Vel vector.Vec3
	T        float64 // seconds since epoch
	Frame    vector.Frame
}

// StateDerivative is the named derivative product type spec Design Notes
// §9 asks for, replacing the source's ad-hoc convention of reusing the
// position field as acceleration scratch space.
type StateDerivative struct {
	Velocity     vector.Vec3
	Acceleration vector.Vec3
	DTime        float64 // conventionally 1; see spec §4.2
}

// DerivativeFunc evaluates the state derivative at simulation time t
// (seconds since epoch) given the current state. Implementations are
// produced by force.MakeForceModel (spec §4.2) and must be pure: no
// internal mutable state beyond what is captured by closure over config.
type DerivativeFunc func(t float64, s StateVector) StateDerivative

func (s StateVector) toVec6() [6]float64 {
	return [6]float64{s.Pos[0], s.Pos[1], s.Pos[2], s.Vel[0], s.Vel[1], s.Vel[2]}
}

func stateFromVec6(v [6]float64, t float64, frame vector.Frame) StateVector {
	return StateVector{
		Pos:   vector.Vec3{v[0], v[1], v[2]},
		Vel:   vector.Vec3{v[3], v[4], v[5]},
		T:     t,
		Frame: frame,
	}
}

func derivToVec6(d StateDerivative) [6]float64 {
	return [6]float64{d.Velocity[0], d.Velocity[1], d.Velocity[2], d.Acceleration[0], d.Acceleration[1], d.Acceleration[2]}
}
