package integrate

import (
	"math"
	"testing"

	"github.com/orbitalarena/trajx/vector"
)

const earthMu = 3.986004418e14

func twoBodyDeriv(mu float64) DerivativeFunc {
	return func(t float64, s StateVector) StateDerivative {
		r := s.Pos.Norm()
		acc := s.Pos.Scale(-mu / (r * r * r))
		return StateDerivative{Velocity: s.Vel, Acceleration: acc, DTime: 1}
	}
}

func circularLEOState() StateVector {
	r := 6878.137e3
	v := math.Sqrt(earthMu / r)
	return StateVector{Pos: vector.Vec3{r, 0, 0}, Vel: vector.Vec3{0, v, 0}, T: 0, Frame: vector.ECIJ2000}
}

func energy(s StateVector, mu float64) float64 {
	return math.Pow(s.Vel.Norm(), 2)/2 - mu/s.Pos.Norm()
}

func TestRK4ConservesEnergyOverOnePeriod(t *testing.T) {
	s0 := circularLEOState()
	period := 2 * math.Pi * math.Sqrt(math.Pow(s0.Pos.Norm(), 3)/earthMu)
	n := int(period / 60)
	traj := PropagateRK4Steps(s0, 60, n, twoBodyDeriv(earthMu))
	e0 := energy(s0, earthMu)
	eFinal := energy(traj[len(traj)-1], earthMu)
	drift := math.Abs((eFinal - e0) / e0)
	if drift > 1e-6 {
		t.Fatalf("RK4 energy drift too large: %e", drift)
	}
}

func TestAdaptivePropagationConservesEnergyOver30Days(t *testing.T) {
	s0 := circularLEOState()
	cfg := IntegrationConfig{MinStep: 1, MaxStep: 600, AbsTol: 1e-10, RelTol: 1e-10, SafetyFactor: 0.9, MaxSteps: 500000}
	result := PropagateAdaptive(s0, 30*86400, twoBodyDeriv(earthMu), cfg)
	e0 := energy(s0, earthMu)
	final := result.Samples[len(result.Samples)-1]
	eFinal := energy(final, earthMu)
	drift := math.Abs((eFinal - e0) / e0)
	if drift > 1e-9 {
		t.Fatalf("adaptive energy drift too large: %e", drift)
	}
}

func TestPropagateSamplesAreMonotonicInTime(t *testing.T) {
	s0 := circularLEOState()
	cfg := PresetEarthOrbit
	result := Propagate(s0, 5400, twoBodyDeriv(earthMu), cfg, 100)
	for i := 1; i < len(result.Samples); i++ {
		if result.Samples[i].T < result.Samples[i-1].T {
			t.Fatalf("samples not monotonic in time at index %d", i)
		}
	}
	last := result.Samples[len(result.Samples)-1]
	if math.Abs(last.T-(s0.T+5400)) > 1e-6 {
		t.Fatalf("expected final sample at duration end, got t=%f", last.T)
	}
}

func TestPropagateUntilStopsAtPredicate(t *testing.T) {
	s0 := circularLEOState()
	cfg := PresetEarthOrbit
	target := s0.T + 1000
	final := PropagateUntil(s0, 1e6, twoBodyDeriv(earthMu), cfg, func(s StateVector) bool {
		return s.T >= target
	})
	if final.T < target {
		t.Fatalf("expected to stop at or after t=%f, got %f", target, final.T)
	}
}

func TestSTMIdentityAtT0(t *testing.T) {
	sas := NewIdentitySTM(circularLEOState())
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if sas.Phi.At(i, j) != want {
				t.Fatalf("expected identity STM at t0, got Phi[%d][%d]=%f", i, j, sas.Phi.At(i, j))
			}
		}
	}
}

func TestSTMCoPropagationProducesFiniteResult(t *testing.T) {
	sas := NewIdentitySTM(circularLEOState())
	out := CoPropagateRK4(sas, 600, 60, twoBodyDeriv(earthMu), earthMu)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			v := out.Phi.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("STM contains non-finite entry at [%d][%d]", i, j)
			}
		}
	}
}
