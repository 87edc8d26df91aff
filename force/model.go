package force

import (
	"math"

	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/vector"
)

const auMeters = 1.49597870700e11
const g0 = 9.80665 // standard gravity, m/s^2, for Isp->mass-flow conversion

// TwoBody returns a = -μ r/‖r‖³, zero if ‖r‖ < 1 m (spec §4.2 numerical
// guard).
func TwoBody(pos vector.Vec3, mu float64) vector.Vec3 {
	r := pos.Norm()
	if r < 1 {
		return vector.Vec3{}
	}
	return pos.Scale(-mu / (r * r * r))
}

// ZonalHarmonics returns the combined J2/J3/J4 acceleration (active terms
// only), per the closed-form expressions in spec §4.2. Zero if the
// spacecraft radius does not exceed the body radius.
func ZonalHarmonics(pos vector.Vec3, cfg ForceModelConfig) vector.Vec3 {
	r := pos.Norm()
	if r <= cfg.CentralBodyRadius {
		return vector.Vec3{}
	}
	x, y, z := pos[0], pos[1], pos[2]
	mu, re := cfg.CentralBodyMu, cfg.CentralBodyRadius
	var acc vector.Vec3

	if cfg.IncludeJ2 {
		z2 := z * z
		factor := -1.5 * cfg.J2 * mu * re * re / math.Pow(r, 5)
		acc[0] += factor * x * (1 - 5*z2/(r*r))
		acc[1] += factor * y * (1 - 5*z2/(r*r))
		acc[2] += factor * z * (3 - 5*z2/(r*r))
	}
	if cfg.IncludeJ3 {
		z2, z3 := z*z, z*z*z
		factor := -2.5 * cfg.J3 * mu * math.Pow(re, 3) / math.Pow(r, 7)
		acc[0] += factor * x * (3*z - 7*z3/(r*r))
		acc[1] += factor * y * (3*z - 7*z3/(r*r))
		acc[2] += factor * (6*z2 - 7*z3*z/(r*r) - 3.0/5*r*r)
	}
	if cfg.IncludeJ4 {
		z2, z4 := z*z, z*z*z*z
		factor := 15.0 / 8 * cfg.J4 * mu * math.Pow(re, 4) / math.Pow(r, 7)
		acc[0] += factor * x * (1 - 14*z2/(r*r) + 21*z4/(r*r*r*r))
		acc[1] += factor * y * (1 - 14*z2/(r*r) + 21*z4/(r*r*r*r))
		acc[2] += factor * z * (5 - 70.0/3*z2/(r*r) + 21*z4/(r*r*r*r))
	}
	return acc
}

// ThirdBody returns the Cowell-form third-body perturbation, per spec
// §4.2: a = μ3[(r3-r)/‖r3-r‖³ - r3/‖r3‖³], with the difference evaluated
// before division to avoid catastrophic cancellation for distant bodies.
// r3 is the third body's position relative to the same central body the
// spacecraft orbits.
func ThirdBody(pos, r3 vector.Vec3, mu3 float64) vector.Vec3 {
	diff := r3.Sub(pos)
	dNorm := diff.Norm()
	r3Norm := r3.Norm()
	term1 := diff.Scale(1 / (dNorm * dNorm * dNorm))
	term2 := r3.Scale(1 / (r3Norm * r3Norm * r3Norm))
	return term1.Sub(term2).Scale(mu3)
}

// thirdBodyPositionRelativeToCentral returns the position of `other`
// relative to `central`, both expressed via the Standish heliocentric
// ephemeris (body.HeliocentricPosition). The Moon has no entry in the
// Standish table (spec §4.9 covers planets only) and is therefore not
// supported as a third body; callers that configure it are silently
// skipped — documented here rather than in a returned error, consistent
// with spec §7's "never report frame-transform degeneracies as an error."
func thirdBodyPositionRelativeToCentral(central, other body.ID, jd float64) (vector.Vec3, bool) {
	if other == body.Moon || central == body.Moon {
		return vector.Vec3{}, false
	}
	var centralPos, otherPos vector.Vec3
	if central != body.Sun {
		centralPos = body.HeliocentricPosition(central, jd)
	}
	if other != body.Sun {
		otherPos = body.HeliocentricPosition(other, jd)
	}
	return otherPos.Sub(centralPos), true
}

// Drag returns -0.5 ρ(h) Cd A ‖v_rel‖ v_rel / mass, where v_rel is
// spacecraft velocity minus the central body's rigid rotation at the
// spacecraft's position, per spec §4.2. Disabled above the Karman line.
func Drag(pos, vel vector.Vec3, cfg DragConfig, bodyRadius, rotationRate float64) vector.Vec3 {
	altitude := pos.Norm() - bodyRadius
	if altitude > cfg.Atmosphere.KarmanLine() || altitude < 0 {
		return vector.Vec3{}
	}
	rho := cfg.Atmosphere.Density(altitude)
	if rho <= 0 {
		return vector.Vec3{}
	}
	omega := vector.Vec3{0, 0, rotationRate}
	vAtm := vector.Cross(omega, pos)
	vRel := vel.Sub(vAtm)
	vRelNorm := vRel.Norm()
	coeff := -0.5 * rho * cfg.DragCoefficient * cfg.Area * vRelNorm / cfg.Mass
	return vRel.Scale(coeff)
}

// SolarRadiationPressure returns a cannonball-model SRP acceleration, per
// spec §4.2; eclipse geometry is ignored.
func SolarRadiationPressure(posRelativeToSun vector.Vec3, cfg SRPConfig) vector.Vec3 {
	const solarPressureAt1AU = 4.56e-6 // N/m^2
	rSun := posRelativeToSun.Norm()
	rHat, ok := vector.Unit(posRelativeToSun)
	if !ok {
		return vector.Vec3{}
	}
	scale := cfg.Reflectivity * solarPressureAt1AU * cfg.Area / cfg.Mass * (auMeters * auMeters) / (rSun * rSun)
	return rHat.Scale(scale)
}

// LowThrustAcceleration returns the configured low-thrust acceleration and
// the instantaneous thrust magnitude used (needed by the mass-tracking
// loop, spec §4.4), per spec §4.2.
func LowThrustAcceleration(pos, vel, posRelativeToSun vector.Vec3, cfg LowThrustConfig) (acc vector.Vec3, thrustN float64) {
	if cfg.Mass <= 0 {
		return vector.Vec3{}, 0
	}
	thrustN = cfg.ThrustMaxAt1AU
	if cfg.SolarScaling {
		rSun := posRelativeToSun.Norm()
		thrustN = cfg.ThrustMaxAt1AU * (auMeters * auMeters) / (rSun * rSun)
	}
	var dir vector.Vec3
	var ok bool
	switch cfg.Pointing {
	case Prograde:
		dir, ok = vector.Unit(vel)
	case AntiVelocity:
		dir, ok = vector.Unit(vel.Scale(-1))
	case SunPointing:
		dir, ok = vector.Unit(posRelativeToSun)
	case AntiSun:
		dir, ok = vector.Unit(posRelativeToSun.Scale(-1))
	case FixedInertial:
		dir, ok = vector.Unit(cfg.FixedDirection)
	default:
		panic("force: unknown low-thrust pointing mode")
	}
	if !ok {
		return vector.Vec3{}, thrustN
	}
	acc = dir.Scale(thrustN / cfg.Mass)
	return
}

// MakeForceModel returns a DerivativeFunc summing every active
// perturbation, closing over cfg and epochJD, per spec §4.2's factory and
// Design Notes §9's callback-to-interface replacement.
func MakeForceModel(cfg ForceModelConfig, epochJD float64) integrate.DerivativeFunc {
	return func(t float64, s integrate.StateVector) integrate.StateDerivative {
		jd := vector.AddSeconds(epochJD, t)
		acc := TwoBody(s.Pos, cfg.CentralBodyMu)
		acc = acc.Add(ZonalHarmonics(s.Pos, cfg))

		for _, b := range cfg.ThirdBodyList {
			// Central body is inferred from cfg: Earth unless cfg was built
			// for a different CentralBodyMu. trajx identifies the central
			// body by matching Mu against the registry, since
			// ForceModelConfig does not itself carry a body.ID (it is
			// deliberately body-agnostic so callers can model arbitrary
			// central bodies); centralBodyGuess does the matching.
			if rel, ok := thirdBodyPositionRelativeToCentral(centralBodyGuess(cfg), b, jd); ok {
				acc = acc.Add(ThirdBody(s.Pos, rel, body.GM(b)))
			}
		}

		sunRelative := s.Pos
		if cb := centralBodyGuess(cfg); cb != body.Sun {
			sunRelative = s.Pos.Add(body.HeliocentricPosition(cb, jd))
		}

		if cfg.Drag != nil {
			acc = acc.Add(Drag(s.Pos, s.Vel, *cfg.Drag, cfg.CentralBodyRadius, vector.EarthRotationRate))
		}
		if cfg.SRP != nil {
			acc = acc.Add(SolarRadiationPressure(sunRelative, *cfg.SRP))
		}
		if cfg.LowThrust != nil {
			lt, _ := LowThrustAcceleration(s.Pos, s.Vel, sunRelative, *cfg.LowThrust)
			acc = acc.Add(lt)
		}

		return integrate.StateDerivative{Velocity: s.Vel, Acceleration: acc, DTime: 1}
	}
}

// centralBodyGuess maps a ForceModelConfig's Mu back to a body.ID, since
// the config is intentionally body-agnostic. Earth is assumed when Mu
// does not match a known body (e.g. custom/test configurations); this
// only affects third-body and SRP geometry, not the dominant two-body
// term, and is documented here rather than widening ForceModelConfig's
// surface with a redundant field.
func centralBodyGuess(cfg ForceModelConfig) body.ID {
	for _, id := range []body.ID{body.Sun, body.Mercury, body.Venus, body.Earth, body.Mars, body.Jupiter, body.Saturn, body.Uranus, body.Neptune, body.Pluto} {
		if cfg.CentralBodyMu == body.GM(id) {
			return id
		}
	}
	return body.Earth
}
