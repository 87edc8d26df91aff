package ascent

import (
	"math"
	"testing"

	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/vector"
)

const earthMu = 3.986004418e14
const earthRadius = 6378137.0
const earthRotationRate = 7.2921159e-5

func TestControlPolynomialEval(t *testing.T) {
	c := ControlPolynomial{Coefficients: []float64{1, 2, 3}}
	got := c.Eval(2)
	want := 1 + 2*2 + 3*4.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, got)
	}
}

func TestEffectiveIspInterpolatesLinearly(t *testing.T) {
	s := Stage{IspSeaLevel: 280, IspVacuum: 310}
	got := s.effectiveIsp(VacuumAltitude / 2)
	want := (280.0 + 310.0) / 2
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, got)
	}
	if s.effectiveIsp(-100) != 280 {
		t.Fatalf("expected sea-level Isp below ground")
	}
	if s.effectiveIsp(VacuumAltitude*2) != 310 {
		t.Fatalf("expected vacuum Isp above VacuumAltitude")
	}
}

func TestLaunchSiteInitialStateMatchesEarthRotation(t *testing.T) {
	site := LaunchSite{LatitudeRad: 0, LongitudeRad: 0, Altitude: 0, BodyRadius: earthRadius, RotationRate: earthRotationRate}
	pos, vel := site.InitialState()
	if math.Abs(pos.Norm()-earthRadius) > 1 {
		t.Fatalf("expected launch site at body radius, got %f", pos.Norm())
	}
	wantSpeed := earthRotationRate * earthRadius
	if math.Abs(vel.Norm()-wantSpeed) > 1e-6 {
		t.Fatalf("expected rotation speed %f, got %f", wantSpeed, vel.Norm())
	}
}

func TestSimulateSingleStageGainsAltitude(t *testing.T) {
	site := LaunchSite{LatitudeRad: 28.5 * math.Pi / 180, LongitudeRad: 0, Altitude: 0, BodyRadius: earthRadius, RotationRate: earthRotationRate}
	stage := Stage{
		DryMass: 5000, PropellantMass: 50000, Thrust: 2.0e6,
		IspSeaLevel: 280, IspVacuum: 310,
		Pitch: ControlPolynomial{Coefficients: []float64{10 * math.Pi / 180}},
		Yaw:   ControlPolynomial{Coefficients: []float64{0}},
	}
	p := Profile{
		Site: site, AzimuthRad: 90 * math.Pi / 180,
		Stages: []Stage{stage},
		CentralBodyMu: earthMu, CentralBodyRadius: earthRadius,
	}
	results := Simulate(p, 1.0)
	if len(results) != 1 {
		t.Fatalf("expected one stage result, got %d", len(results))
	}
	trace := results[0].States
	first, last := trace[0], trace[len(trace)-1]
	if last.Pos.Norm() <= first.Pos.Norm() {
		t.Fatalf("expected altitude gain over the burn, start=%f end=%f", first.Pos.Norm(), last.Pos.Norm())
	}
	if results[0].FinalMass <= 0 {
		t.Fatalf("expected positive final mass, got %f", results[0].FinalMass)
	}
}

func TestThrustDirectionIsUnitVector(t *testing.T) {
	s := integrate.StateVector{Pos: vector.Vec3{earthRadius, 0, 0}, Vel: vector.Vec3{0, 7500, 0}}
	stage := Stage{Pitch: ControlPolynomial{Coefficients: []float64{0.3}}, Yaw: ControlPolynomial{Coefficients: []float64{0.1}}}
	dir := thrustDirection(s, math.Pi/2, stage, 0)
	if math.Abs(dir.Norm()-1) > 1e-9 {
		t.Fatalf("expected unit thrust direction, got norm %f", dir.Norm())
	}
}
