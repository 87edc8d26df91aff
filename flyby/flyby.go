// Package flyby computes unpowered and powered gravity-assist geometry,
// per spec §4.11. The turn-angle formula is ported verbatim from the
// teacher's assists.go GATurnAngle (π - 2·acos(1/e_h) ≡ 2·asin(1/e_h));
// everything beyond turn angle (outgoing v∞ via Rodrigues rotation,
// B-plane resolution, the inverse problem, and the powered-flyby
// supplement) has no teacher equivalent and is built fresh from spec
// §4.11.
package flyby

import (
	"math"

	"github.com/orbitalarena/trajx/vector"
)

// DefaultMinimumSafeAltitude is the default minimum safe periapsis
// altitude above the body's surface, per spec §4.11.
const DefaultMinimumSafeAltitude = 200000.0

// HyperbolicEccentricity returns e_h = 1 + r_p·v∞²/μ, per spec §4.11.
func HyperbolicEccentricity(vInf, rP, mu float64) float64 {
	return 1 + rP*vInf*vInf/mu
}

// TurnAngle returns δ = 2·asin(1/e_h), ported from the teacher's
// π - 2·acos(1/e_h) form (algebraically identical since
// asin(x) + acos(x) = π/2).
func TurnAngle(vInf, rP, mu float64) float64 {
	eH := HyperbolicEccentricity(vInf, rP, mu)
	return 2 * math.Asin(1/eH)
}

// Result is the outcome of an unpowered flyby resolution, per spec §4.11.
type Result struct {
	VInfOut       vector.Vec3
	TurnAngleRad  float64
	BPlaneS, BPlaneT, BPlaneR float64
}

// Resolve computes the outgoing v∞ (same magnitude as vInfIn, rotated by
// the turn angle about an axis perpendicular to vInfIn chosen via cross
// product with refEcliptic, using Rodrigues' rotation formula) and
// resolves B-plane components into the right-handed (S, T, R) frame with
// S along vInfIn and T in the heliocentric ecliptic plane, per spec
// §4.11.
func Resolve(vInfIn vector.Vec3, rP, mu float64, refEcliptic vector.Vec3) (Result, bool) {
	vInf := vInfIn.Norm()
	delta := TurnAngle(vInf, rP, mu)

	sHat, ok := vector.Unit(vInfIn)
	if !ok {
		return Result{}, false
	}
	k, ok := vector.Unit(vector.Cross(sHat, refEcliptic))
	if !ok {
		return Result{}, false
	}

	vOut := rodrigues(vInfIn, k, delta)

	tHat, ok := vector.Unit(vector.Cross(refEcliptic, sHat))
	if !ok {
		return Result{}, false
	}
	rHat := vector.Cross(sHat, tHat)

	// B-vector magnitude: B = (r_p/vInf) sqrt(vInf^2 + 2mu/r_p) (periapsis
	// distance projected onto the B-plane). B lies in the flyby plane
	// (normal k), along S×k: opposite the deflection direction k×S.
	bMag := (rP / vInf) * math.Sqrt(vInf*vInf+2*mu/rP)
	bVec := vector.Cross(sHat, k).Scale(bMag)

	return Result{
		VInfOut:      vOut,
		TurnAngleRad: delta,
		BPlaneS:      vector.Dot(bVec, sHat),
		BPlaneT:      vector.Dot(bVec, tHat),
		BPlaneR:      vector.Dot(bVec, rHat),
	}, true
}

// rodrigues rotates v about unit axis k by angle theta.
func rodrigues(v, k vector.Vec3, theta float64) vector.Vec3 {
	s, c := math.Sincos(theta)
	term1 := v.Scale(c)
	term2 := vector.Cross(k, v).Scale(s)
	term3 := k.Scale(vector.Dot(k, v) * (1 - c))
	return term1.Add(term2).Add(term3)
}

// InverseResult is the outcome of solving for the periapsis radius that
// achieves a desired turn angle, per spec §4.11.
type InverseResult struct {
	PeriapsisRadius float64
	Feasible        bool
	PoweredDeltaV   float64 // supplementary Δv if infeasible, else 0
}

// Inverse computes r_p = (1/sin(δ/2) - 1)·μ/v∞² for a desired turn angle,
// per spec §4.11. If r_p is below bodyRadius+minSafeAltitude, the flyby
// is marked infeasible and the minimum feasible turn angle's powered-flyby
// supplement Δv = 2·v∞·sin(δ_residual/2) is reported, where δ_residual is
// the shortfall between the desired and achievable turn angle at the
// minimum safe periapsis.
func Inverse(vInf, desiredDelta, mu, bodyRadius, minSafeAltitude float64) InverseResult {
	rP := (1/math.Sin(desiredDelta/2) - 1) * mu / (vInf * vInf)
	minRP := bodyRadius + minSafeAltitude

	if rP >= minRP {
		return InverseResult{PeriapsisRadius: rP, Feasible: true}
	}

	achievableDelta := TurnAngle(vInf, minRP, mu)
	residual := desiredDelta - achievableDelta
	if residual < 0 {
		residual = 0
	}
	return InverseResult{
		PeriapsisRadius: minRP,
		Feasible:        false,
		PoweredDeltaV:   2 * vInf * math.Sin(residual/2),
	}
}
