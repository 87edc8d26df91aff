package mission

import (
	"testing"

	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/lambert"
)

func TestBuildMissionEarthToMarsHasPositiveDeltaV(t *testing.T) {
	bodies := []body.ID{body.Earth, body.Mars}
	dates := []float64{2451545.0, 2451545.0 + 260}
	alts := []float64{300000, 300000}

	seq := BuildMission(bodies, dates, alts, lambert.Prograde)
	if len(seq.Legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(seq.Legs))
	}
	if seq.TotalDeltaV <= 0 {
		t.Fatalf("expected positive total Δv, got %f", seq.TotalDeltaV)
	}
	if seq.DepartDeltaV <= 0 || seq.CaptureDeltaV <= 0 {
		t.Fatalf("expected positive depart/capture Δv, got %f/%f", seq.DepartDeltaV, seq.CaptureDeltaV)
	}
}

func TestBuildMissionThreeBodyHasOneFlybyEvent(t *testing.T) {
	bodies := []body.ID{body.Earth, body.Venus, body.Mars}
	dates := []float64{2451545.0, 2451545.0 + 120, 2451545.0 + 400}
	alts := []float64{300000, 200000, 300000}

	seq := BuildMission(bodies, dates, alts, lambert.Prograde)
	if len(seq.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(seq.Legs))
	}
	if len(seq.Flybys) != 1 {
		t.Fatalf("expected 1 flyby event, got %d", len(seq.Flybys))
	}
}

func TestOptimizeDatesDoesNotIncreaseDeltaV(t *testing.T) {
	bodies := []body.ID{body.Earth, body.Venus, body.Mars}
	dates := []float64{2451545.0, 2451545.0 + 120, 2451545.0 + 400}
	alts := []float64{300000, 200000, 300000}

	before := BuildMission(bodies, dates, alts, lambert.Prograde)
	_, after := OptimizeDates(bodies, dates, alts, lambert.Prograde, 20)

	if after.TotalDeltaV > before.TotalDeltaV+1e-6 {
		t.Fatalf("expected optimization to not increase Δv: before=%f after=%f", before.TotalDeltaV, after.TotalDeltaV)
	}
}
