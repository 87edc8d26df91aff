package orbit

import (
	"math"
	"testing"

	"github.com/gonum/floats"

	"github.com/orbitalarena/trajx/vector"
)

const earthMu = 3.986004418e14

func TestElementsRoundTrip(t *testing.T) {
	cases := []Elements{
		{A: 7000e3, E: 0.001, I: 51.6 * math.Pi / 180, RAAN: 0.3, ArgPeri: 1.1, TrueAnomaly: 2.2, Mu: earthMu},
		{A: 26560e3, E: 0.4, I: 0.9, RAAN: 2.5, ArgPeri: 0.5, TrueAnomaly: 4.0, Mu: earthMu},
		{A: 150000e3, E: 0.01, I: 0.01, RAAN: 0.1, ArgPeri: 0.2, TrueAnomaly: 0.3, Mu: earthMu},
	}
	for _, oe := range cases {
		pos, vel := StateFromElements(oe)
		got := ElementsFromState(pos, vel, earthMu)
		if !floats.EqualWithinAbs(got.A, oe.A, 1e-3) {
			t.Fatalf("a mismatch: got %f want %f", got.A, oe.A)
		}
		if !floats.EqualWithinAbs(got.E, oe.E, 1e-9) {
			t.Fatalf("e mismatch: got %f want %f", got.E, oe.E)
		}
		if !angleEqual(got.I, oe.I) {
			t.Fatalf("i mismatch: got %f want %f", got.I, oe.I)
		}
		if !angleEqual(got.RAAN, oe.RAAN) {
			t.Fatalf("raan mismatch: got %f want %f", got.RAAN, oe.RAAN)
		}
	}
}

func angleEqual(a, b float64) bool {
	d := math.Mod(a-b+math.Pi, 2*math.Pi) - math.Pi
	return math.Abs(d) < 1e-7
}

func TestKeplerSolverConvergesAcrossEccentricities(t *testing.T) {
	for _, e := range []float64{0, 0.1, 0.5, 0.9, 0.99} {
		for i := 0; i <= 20; i++ {
			m := float64(i) / 20 * 2 * math.Pi
			res := SolveKepler(m, e)
			if !res.Converged {
				t.Fatalf("kepler did not converge for e=%f m=%f", e, m)
			}
			residual := MeanFromEccentric(res.E, e) - m
			// Account for 2π wrap.
			residual = math.Mod(residual+math.Pi, 2*math.Pi) - math.Pi
			if math.Abs(residual) > 1e-12 {
				t.Fatalf("kepler residual too large: e=%f m=%f residual=%e", e, m, residual)
			}
		}
	}
}

func TestPeriapsisApoapsisPeriod(t *testing.T) {
	oe := Elements{A: 7000e3, E: 0.01, Mu: earthMu}
	if oe.Periapsis() >= oe.A || oe.Apoapsis() <= oe.A {
		t.Fatal("periapsis/apoapsis must straddle semi-major axis")
	}
	period := oe.Period()
	if period.Seconds() < 5000 || period.Seconds() > 6500 {
		t.Fatalf("unexpected LEO period: %v", period)
	}
}

func TestElementsFromStateEquatorialCircularDoesNotPanic(t *testing.T) {
	pos := vector.Vec3{7000e3, 0, 0}
	vel := vector.Vec3{0, math.Sqrt(earthMu / 7000e3), 0}
	oe := ElementsFromState(pos, vel, earthMu)
	if !floats.EqualWithinAbs(oe.E, 0, 1e-6) {
		t.Fatalf("expected near-circular eccentricity, got %f", oe.E)
	}
}
