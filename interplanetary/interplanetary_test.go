package interplanetary

import (
	"math"
	"testing"

	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/lambert"
)

func TestSolveTransferEarthToMarsIsPlausible(t *testing.T) {
	depart := 2451545.0
	arrive := depart + 260 // a roughly Hohmann-scale Earth->Mars TOF in days
	transfer := SolveTransfer(body.Earth, body.Mars, depart, arrive, lambert.Prograde)
	if !transfer.Lambert.Valid {
		t.Fatalf("expected a valid Earth->Mars transfer at this TOF")
	}
	if transfer.C3 <= 0 || transfer.C3 > 200 {
		t.Fatalf("expected a plausible C3 in (0,200] km^2/s^2, got %f", transfer.C3)
	}
}

func TestParkingDeltaVIncreasesWithVInf(t *testing.T) {
	mu := body.GM(body.Earth)
	rPark := body.Get(body.Earth).Radius + 300000
	low := ParkingDeltaV(1000, rPark, mu)
	high := ParkingDeltaV(4000, rPark, mu)
	if high <= low {
		t.Fatalf("expected higher v∞ to require more Δv: low=%f high=%f", low, high)
	}
}

func TestPorkchopFlagsInvalidPairs(t *testing.T) {
	departJDs := []float64{2451545.0, 2451546.0}
	arriveJDs := []float64{2451540.0, 2451800.0}
	grid := Porkchop(body.Earth, body.Mars, departJDs, arriveJDs, lambert.Prograde,
		body.Get(body.Earth).Radius+300000, body.GM(body.Earth),
		body.Get(body.Mars).Radius+300000, body.GM(body.Mars))

	if grid[0][0].Valid {
		t.Fatalf("expected arrival-before-launch pair to be invalid")
	}
	if !grid[0][1].Valid {
		t.Fatalf("expected a valid long-TOF transfer to be marked valid")
	}
}

func TestSampleLegProducesFiveHundredSamples(t *testing.T) {
	depart := 2451545.0
	arrive := depart + 260
	transfer := SolveTransfer(body.Earth, body.Mars, depart, arrive, lambert.Prograde)
	if !transfer.Lambert.Valid {
		t.Fatal("expected a valid transfer to sample")
	}
	rDepart, _ := body.HeliocentricState(body.Earth, depart)
	samples := SampleLeg(rDepart, transfer.Lambert.V1, body.GM(body.Sun), (arrive-depart)*86400)
	if len(samples) != LegSamples {
		t.Fatalf("expected %d samples, got %d", LegSamples, len(samples))
	}
	for _, s := range samples {
		if math.IsNaN(s.Norm()) || math.IsInf(s.Norm(), 0) {
			t.Fatalf("expected finite sample positions, got %v", s)
		}
	}
}
