package vector

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestUnitDegenerate(t *testing.T) {
	if _, ok := Unit(Vec3{0, 0, 0}); ok {
		t.Fatal("expected degenerate zero vector to report ok=false")
	}
	u, ok := Unit(Vec3{3, 0, 4})
	if !ok {
		t.Fatal("expected ok=true for a well-formed vector")
	}
	if !floats.EqualWithinAbs(u.Norm(), 1, 1e-12) {
		t.Fatalf("expected unit norm, got %f", u.Norm())
	}
}

func TestCrossOrthogonal(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := Cross(x, y)
	if !floats.EqualWithinAbs(Dot(z, x), 0, 1e-12) || !floats.EqualWithinAbs(Dot(z, y), 0, 1e-12) {
		t.Fatal("x cross y should be orthogonal to both")
	}
	if z[2] != 1 {
		t.Fatalf("expected x cross y = z, got %v", z)
	}
}

func TestECIECEFRoundTrip(t *testing.T) {
	jd := JulianDate(time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC))
	gmst := GMST(jd)
	r := Vec3{7000e3, 1200e3, -300e3}
	ecef := ECIToECEF(r, gmst)
	back := ECEFToECI(ecef, gmst)
	for i := 0; i < 3; i++ {
		if math.Abs(back[i]-r[i]) > 1e-6 {
			t.Fatalf("ECI->ECEF->ECI round trip drifted at component %d: %v vs %v", i, back, r)
		}
	}
}

func TestGMSTAtJ2000(t *testing.T) {
	theta := GMST(J2000JD)
	if theta < 0 || theta > 2*math.Pi {
		t.Fatalf("GMST out of range: %f", theta)
	}
}

func TestRICBasisOrthonormal(t *testing.T) {
	r := Vec3{7000e3, 0, 0}
	v := Vec3{0, 7500, 100}
	f, ok := NewRICFrame(r, v)
	if !ok {
		t.Fatal("expected a valid RIC frame")
	}
	for _, pair := range [][2]Vec3{{f.Rhat, f.That}, {f.That, f.Chat}, {f.Chat, f.Rhat}} {
		if !floats.EqualWithinAbs(Dot(pair[0], pair[1]), 0, 1e-9) {
			t.Fatalf("RIC basis not orthogonal: %v . %v", pair[0], pair[1])
		}
	}
}

func TestR3R1R3IdentityAtZero(t *testing.T) {
	m := R3R1R3(0, 0, 0)
	v := Vec3{1, 2, 3}
	got := MxV(m, v)
	for i := 0; i < 3; i++ {
		if math.Abs(got[i]-v[i]) > 1e-12 {
			t.Fatalf("expected identity rotation, got %v", got)
		}
	}
}
