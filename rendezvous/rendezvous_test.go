package rendezvous

import (
	"math"
	"testing"

	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/vector"
)

const earthMu = 3.986004418e14

func twoBodyDeriv(mu float64) integrate.DerivativeFunc {
	return func(t float64, s integrate.StateVector) integrate.StateDerivative {
		r := s.Pos.Norm()
		acc := s.Pos.Scale(-mu / (r * r * r))
		return integrate.StateDerivative{Velocity: s.Vel, Acceleration: acc, DTime: 1}
	}
}

func TestCWSTMIdentityAtZeroTime(t *testing.T) {
	n := 0.0011
	cw := NewCWSTM(n, 0)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if cw.Rr.At(i, j) != want {
				t.Fatalf("Rr not identity at dt=0: [%d][%d]=%f", i, j, cw.Rr.At(i, j))
			}
			if cw.Vv.At(i, j) != want {
				t.Fatalf("Vv not identity at dt=0: [%d][%d]=%f", i, j, cw.Vv.At(i, j))
			}
		}
	}
}

func TestSingleBurnSingularAtFullPeriod(t *testing.T) {
	n := 0.0011
	dt := 2 * math.Pi / n
	cw := NewCWSTM(n, dt)
	result := SolveSingleBurn(cw, [3]float64{100, 0, 0})
	if result.Valid {
		t.Fatalf("expected singular in-plane solve at nΔt=2π")
	}
}

func TestSingleBurnProducesFiniteDeltaV(t *testing.T) {
	n := 0.0011
	dt := math.Pi / n / 2 // a quarter period, away from singularities
	cw := NewCWSTM(n, dt)
	result := SolveSingleBurn(cw, [3]float64{1000, 500, 100})
	if !result.Valid {
		t.Fatalf("expected valid solve at a quarter period")
	}
	for _, v := range result.DeltaV {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("expected finite deltaV, got %v", result.DeltaV)
		}
	}
}

func TestTwoBurnDerivesFromSingleBurn(t *testing.T) {
	n := 0.0011
	dt := math.Pi / n / 2
	cw := NewCWSTM(n, dt)
	result := SolveTwoBurn(cw, [3]float64{1000, 500, 100})
	if !result.Valid {
		t.Fatalf("expected valid two-burn solve")
	}
	single := SolveSingleBurn(cw, [3]float64{1000, 500, 100})
	if result.DeltaV1 != single.DeltaV {
		t.Fatalf("expected DeltaV1 to match the single-burn solve")
	}
}

func TestShootConvergesOnOutOfPlaneVelocityOffset(t *testing.T) {
	r := 7000000.0
	v := math.Sqrt(earthMu / r)
	chaser := integrate.StateVector{Pos: vector.Vec3{r, 0, 0}, Vel: vector.Vec3{0, v, 100}, Frame: vector.ECIJ2000}
	target := integrate.StateVector{Pos: vector.Vec3{r, 0, 0}, Vel: vector.Vec3{0, v, 0}, Frame: vector.ECIJ2000}
	tof := 600.0

	result := Shoot(ShootInput{
		Chaser: chaser, Target: target, TOF: tof,
		MatchVelocity: false, Deriv: twoBodyDeriv(earthMu), Mu: earthMu, LineSearch: true,
	})
	if !result.Converged {
		t.Fatalf("expected convergence, got status %q after %d iterations (pos err %f)", result.Status, result.Iterations, result.PositionError)
	}
	if result.PositionError > PositionToleranceM {
		t.Fatalf("expected position error under tolerance, got %f", result.PositionError)
	}
}
