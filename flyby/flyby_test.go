package flyby

import (
	"math"
	"testing"

	"github.com/orbitalarena/trajx/vector"
)

const earthMu = 3.986004418e14
const earthRadius = 6378137.0

func TestTurnAngleMatchesTeacherFormIdentity(t *testing.T) {
	vInf := 3000.0
	rP := earthRadius + 500000
	eH := HyperbolicEccentricity(vInf, rP, earthMu)
	want := math.Pi - 2*math.Acos(1/eH)
	got := TurnAngle(vInf, rP, earthMu)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected teacher-form turn angle %f, got %f", want, got)
	}
}

func TestResolvePreservesVInfMagnitude(t *testing.T) {
	vInfIn := vector.Vec3{3000, 1000, 0}
	ref := vector.Vec3{0, 0, 1}
	result, ok := Resolve(vInfIn, earthRadius+500000, earthMu, ref)
	if !ok {
		t.Fatal("expected a feasible resolve")
	}
	if math.Abs(result.VInfOut.Norm()-vInfIn.Norm()) > 1e-6 {
		t.Fatalf("expected unpowered flyby to preserve |v∞|, got %f vs %f", result.VInfOut.Norm(), vInfIn.Norm())
	}
}

func TestInverseRoundTripsWithTurnAngle(t *testing.T) {
	vInf := 3000.0
	rP := earthRadius + 1000000
	delta := TurnAngle(vInf, rP, earthMu)
	inv := Inverse(vInf, delta, earthMu, earthRadius, DefaultMinimumSafeAltitude)
	if !inv.Feasible {
		t.Fatal("expected feasible inverse for an already-feasible periapsis")
	}
	if math.Abs(inv.PeriapsisRadius-rP) > 1 {
		t.Fatalf("expected round-tripped periapsis radius %f, got %f", rP, inv.PeriapsisRadius)
	}
}

func TestInverseInfeasibleReportsPoweredDeltaV(t *testing.T) {
	vInf := 500.0 // small v∞ demands a large turn angle at reasonable altitudes
	delta := 170 * math.Pi / 180
	inv := Inverse(vInf, delta, earthMu, earthRadius, DefaultMinimumSafeAltitude)
	if inv.Feasible {
		t.Fatal("expected an infeasible result for an extreme turn angle at low v∞")
	}
	if inv.PoweredDeltaV <= 0 {
		t.Fatalf("expected positive supplementary Δv, got %f", inv.PoweredDeltaV)
	}
}
