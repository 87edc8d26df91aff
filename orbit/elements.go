package orbit

import (
	"math"
	"time"

	"github.com/orbitalarena/trajx/vector"
)

// eccentricityConditioningε is the threshold below which the eccentricity
// (or orbital-plane) vector is considered degenerate for the purpose of
// choosing ω/Ω/ν vs. their fallback (argument-of-latitude / true-longitude)
// parameterizations. The teacher's orbit.go hard-codes a similar 5e-5
// without documenting why; spec Design Notes §9 asks for the threshold and
// its effect to be documented rather than left implicit. 1e-10 is used here
// (tighter than the teacher's 5e-5) because Elements values near this
// boundary are only ever consumed by ElementsFromState/StateFromElements
// round-trips in this package, which stay well-conditioned down to
// eccentricities an order of magnitude below typical mission tolerances;
// below the threshold ω is reported as 0 and ν/u absorb the remainder, so
// a∈(0,∞) and e itself remain exact even when ω/Ω individually become
// under-determined.
const eccentricityConditioningε = 1e-10

// Elements is the Keplerian sextuple plus the redundantly stored mean
// anomaly, per spec §3. Angles are radians.
type Elements struct {
	A, E, I, RAAN, ArgPeri, TrueAnomaly, MeanAnomaly float64
	Mu                                               float64 // gravitational parameter this element set is defined against
}

// Period returns the orbital period (elliptic orbits only).
func (oe Elements) Period() time.Duration {
	seconds := 2 * math.Pi * math.Sqrt(math.Pow(oe.A, 3)/oe.Mu)
	return time.Duration(seconds * float64(time.Second))
}

// Periapsis returns a(1-e).
func (oe Elements) Periapsis() float64 { return oe.A * (1 - oe.E) }

// Apoapsis returns a(1+e).
func (oe Elements) Apoapsis() float64 { return oe.A * (1 + oe.E) }

// MeanMotion returns n = sqrt(mu/a^3).
func (oe Elements) MeanMotion() float64 {
	return math.Sqrt(oe.Mu / math.Pow(oe.A, 3))
}

// SemiLatusRectum returns p = a(1-e^2).
func (oe Elements) SemiLatusRectum() float64 {
	return oe.A * (1 - oe.E*oe.E)
}

// StateFromElements composes (r, v) in the perifocal frame, then rotates
// into the inertial frame via R3(-Ω) R1(-i) R3(-ω), per spec §4.3.
func StateFromElements(oe Elements) (pos, vel vector.Vec3) {
	p := oe.SemiLatusRectum()
	sNu, cNu := math.Sincos(oe.TrueAnomaly)
	r := p / (1 + oe.E*cNu)
	posPF := vector.Vec3{r * cNu, r * sNu, 0}
	h := math.Sqrt(oe.Mu * p)
	velPF := vector.Vec3{-oe.Mu / h * sNu, oe.Mu / h * (oe.E + cNu), 0}
	pos = vector.PerifocalToInertial(oe.RAAN, oe.I, oe.ArgPeri, posPF)
	vel = vector.PerifocalToInertial(oe.RAAN, oe.I, oe.ArgPeri, velPF)
	return
}

// ElementsFromState computes h = r×v, the eccentricity vector
// e = (v×h)/μ - r̂, specific energy, and hence the full Elements record,
// per spec §4.3. Degenerate cases (equatorial and/or circular orbits)
// fall back to documented reference choices rather than being reported as
// errors (spec §7): an equatorial orbit's Ω is reported as 0 with ω taken
// directly from the eccentricity vector's angle from x̂; a circular
// orbit's ω is reported as 0 with TrueAnomaly replaced by the argument of
// latitude u so that ω+ν (and hence the perifocal reconstruction) is still
// exact.
func ElementsFromState(pos, vel vector.Vec3, mu float64) Elements {
	r := pos.Norm()
	v := vel.Norm()
	h := vector.Cross(pos, vel)
	hNorm := h.Norm()

	energy := v*v/2 - mu/r
	a := -mu / (2 * energy)

	eVec := vector.Vec3{}
	for k := 0; k < 3; k++ {
		eVec[k] = ((v*v-mu/r)*pos[k] - vector.Dot(pos, vel)*vel[k]) / mu
	}
	e := eVec.Norm()

	i := math.Acos(clamp(h[2]/hNorm, -1, 1))

	nodeVec := vector.Cross(vector.Vec3{0, 0, 1}, h)
	nodeNorm := nodeVec.Norm()

	equatorial := nodeNorm < eccentricityConditioningε
	circular := e < eccentricityConditioningε

	var raan, argPeri, nu float64

	if !equatorial {
		raan = math.Acos(clamp(nodeVec[0]/nodeNorm, -1, 1))
		if nodeVec[1] < 0 {
			raan = 2*math.Pi - raan
		}
	} else {
		raan = 0
	}

	switch {
	case circular && equatorial:
		// True longitude λ = atan2(r_y, r_x) takes the place of ν; ω and Ω
		// carry no physical meaning and are reported as 0.
		argPeri = 0
		nu = math.Atan2(pos[1], pos[0])
	case circular:
		// Argument of latitude u = angle(node, r) replaces ν; ω reported 0.
		argPeri = 0
		nu = math.Acos(clamp(vector.Dot(nodeVec, pos)/(nodeNorm*r), -1, 1))
		if pos[2] < 0 {
			nu = 2*math.Pi - nu
		}
	case equatorial:
		// ω measured from x̂ directly to the eccentricity vector.
		argPeri = math.Atan2(eVec[1], eVec[0])
		if argPeri < 0 {
			argPeri += 2 * math.Pi
		}
		nu = trueAnomalyFromVectors(eVec, pos, vel, e, r)
	default:
		argPeri = math.Acos(clamp(vector.Dot(nodeVec, eVec)/(nodeNorm*e), -1, 1))
		if eVec[2] < 0 {
			argPeri = 2*math.Pi - argPeri
		}
		nu = trueAnomalyFromVectors(eVec, pos, vel, e, r)
	}

	i = math.Mod(i, 2*math.Pi)
	raan = math.Mod(raan+2*math.Pi, 2*math.Pi)
	argPeri = math.Mod(argPeri+2*math.Pi, 2*math.Pi)
	nu = math.Mod(nu+2*math.Pi, 2*math.Pi)

	E := EccentricFromTrueAnomaly(nu, math.Max(e, 0))
	M := MeanFromEccentric(E, math.Max(e, 0))

	return Elements{A: a, E: e, I: i, RAAN: raan, ArgPeri: argPeri, TrueAnomaly: nu, MeanAnomaly: math.Mod(M+2*math.Pi, 2*math.Pi), Mu: mu}
}

func trueAnomalyFromVectors(eVec, pos, vel vector.Vec3, e, r float64) float64 {
	nu := math.Acos(clamp(vector.Dot(eVec, pos)/(e*r), -1, 1))
	if vector.Dot(pos, vel) < 0 {
		nu = 2*math.Pi - nu
	}
	return nu
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
