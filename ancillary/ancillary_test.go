package ancillary

import (
	"math"
	"math/rand"
	"testing"

	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/force"
	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/orbit"
	"github.com/orbitalarena/trajx/vector"
)

func TestGenerateFragmentsPlacesFragmentsAtMidpoint(t *testing.T) {
	s1 := integrate.StateVector{Pos: vector.Vec3{7000000, 0, 0}, Vel: vector.Vec3{0, 7500, 0}}
	s2 := integrate.StateVector{Pos: vector.Vec3{7000000, 10, 0}, Vel: vector.Vec3{0, -7500, 10}}

	rng := rand.New(rand.NewSource(42))
	fragments := GenerateFragments(s1, s2, 500, 500, 20, rng)
	if len(fragments) != 20 {
		t.Fatalf("expected 20 fragments, got %d", len(fragments))
	}
	for _, f := range fragments {
		if math.IsNaN(f.State.Vel.Norm()) {
			t.Fatalf("expected finite fragment velocity, got NaN")
		}
		if f.State.Pos.Sub(vector.Vec3{7000000, 5, 0}).Norm() > 1 {
			t.Fatalf("expected fragment at collision midpoint, got %v", f.State.Pos)
		}
	}
}

func TestGenerateFragmentsScatterIsBounded(t *testing.T) {
	s1 := integrate.StateVector{Pos: vector.Vec3{7000000, 0, 0}, Vel: vector.Vec3{0, 7500, 0}}
	s2 := integrate.StateVector{Pos: vector.Vec3{7000000, 0, 0}, Vel: vector.Vec3{0, -7500, 0}}
	vRel := s1.Vel.Sub(s2.Vel).Norm()

	rng := rand.New(rand.NewSource(7))
	fragments := GenerateFragments(s1, s2, 100, 100, 100, rng)
	for _, f := range fragments {
		scatter := f.State.Vel.Sub(vector.Vec3{0, 0, 0}).Norm() // COM velocity is zero here by symmetry
		if scatter > MaxScatterFraction*vRel+1e-6 {
			t.Fatalf("expected scatter speed bounded by %f*vRel, got %f", MaxScatterFraction, scatter)
		}
		if scatter < MinScatterFraction*vRel-1e-6 {
			t.Fatalf("expected scatter speed at least %f*vRel, got %f", MinScatterFraction, scatter)
		}
	}
}

func TestSimulatePassLowersApoapsis(t *testing.T) {
	earth := body.Get(body.Earth)
	entryAltitude := 120000.0
	perigeeAltitude := 90000.0
	apoRadius := earth.Radius + 400000
	periRadius := earth.Radius + perigeeAltitude
	a := (apoRadius + periRadius) / 2
	e := (apoRadius - periRadius) / (apoRadius + periRadius)

	oe := orbit.Elements{A: a, E: e, I: 0.2, RAAN: 0, ArgPeri: math.Pi, TrueAnomaly: math.Pi, Mu: earth.Mu}
	pos, vel := orbit.StateFromElements(oe)
	entry := integrate.StateVector{Pos: pos, Vel: vel, T: 0}

	pass := AerobrakePass{Mass: 500, Area: 5, DragCoefficient: 2.2, Atmosphere: force.EarthAtmosphere{}, Body: body.Earth}
	cfg := integrate.IntegrationConfig{MinStep: 0.05, MaxStep: 10, AbsTol: 1e-8, RelTol: 1e-8, MaxSteps: 200000}

	result := SimulatePass(entry, pass, entryAltitude, cfg)
	if result.PostPassElements.Apoapsis() >= oe.Apoapsis() {
		t.Fatalf("expected apoapsis to drop after a perigee pass: before=%f after=%f",
			oe.Apoapsis(), result.PostPassElements.Apoapsis())
	}
	if result.PeakHeatFluxWm2 <= 0 {
		t.Fatalf("expected nonzero peak heat flux during a perigee pass")
	}
}

func TestEstimatedPassesToTargetIsPositive(t *testing.T) {
	earth := body.Get(body.Earth)
	a := earth.Radius + 20000000
	periRadius := earth.Radius + 100000 // perigee inside the 120 km entry interface
	oe := orbit.Elements{A: a, E: 1 - periRadius/a, Mu: earth.Mu}
	n := EstimatedPassesToTarget(oe, earth.Radius, 120000, earth.Radius+500000)
	if n <= 0 {
		t.Fatalf("expected at least one pass to be estimated, got %d", n)
	}
}

func TestEstimatedPassesToTargetZeroWhenAlreadyBelow(t *testing.T) {
	earth := body.Get(body.Earth)
	oe := orbit.Elements{A: earth.Radius + 400000, E: 0.0, Mu: earth.Mu}
	n := EstimatedPassesToTarget(oe, earth.Radius, 120000, earth.Radius+1000000)
	if n != 0 {
		t.Fatalf("expected zero passes when already below target apoapsis, got %d", n)
	}
}

func TestEstimateFromMeasurementsConvergesTowardTruth(t *testing.T) {
	earth := body.Get(body.Earth)
	truthOE := orbit.Elements{A: earth.Radius + 500000, E: 0.001, I: 0.9, RAAN: 0.3, ArgPeri: 0.1, TrueAnomaly: 0, Mu: earth.Mu}
	pos, vel := orbit.StateFromElements(truthOE)
	truth := integrate.StateVector{Pos: pos, Vel: vel, T: 0}

	fcfg := force.CentralBodyConfig(earth, 0)
	deriv := force.MakeForceModel(fcfg, 2451545.0)

	src := rand.New(rand.NewSource(3))
	station := NewGroundStation("test", 0.7, 0.1, 500, earth.Radius, 0, 1, 0.01, src)

	var measurements []Measurement
	state := truth
	for i := 0; i < 10; i++ {
		gmst := float64(i) * 1e-4
		measurements = append(measurements, SimulateMeasurement(station, state, gmst))
		steps := integrate.PropagateRK4Steps(state, 1, 60, deriv)
		state = steps[len(steps)-1]
	}

	apriori := truth
	apriori.Pos = apriori.Pos.Add(vector.Vec3{1000, -1000, 500})
	apriori.Vel = apriori.Vel.Add(vector.Vec3{1, -1, 0.5})

	corrected, _ := EstimateFromMeasurements(apriori, measurements, deriv, earth.Mu)

	beforeErr := apriori.Pos.Sub(truth.Pos).Norm()
	afterErr := corrected.Pos.Sub(truth.Pos).Norm()
	if afterErr >= beforeErr {
		t.Fatalf("expected the batch correction to reduce position error: before=%f after=%f", beforeErr, afterErr)
	}
}
