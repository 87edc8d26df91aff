package body

import (
	"math"

	"github.com/gonum/floats"

	"github.com/orbitalarena/trajx/vector"
)

// meanElements is one row of the Standish-1992 mean-element table: value at
// J2000 and linear rate per Julian century, for (a [AU], e, i [deg], L
// [deg], long. of perihelion ϖ [deg], long. of ascending node Ω [deg]).
type meanElements struct {
	a, aDot           float64
	e, eDot           float64
	i, iDot           float64
	L, LDot           float64
	peri, periDot     float64
	node, nodeDot     float64
}

// standishTable holds the J2000 mean elements and secular rates used by the
// Standish algorithm (spec §4.9). Mercury through Pluto; Earth's row
// describes the Earth-Moon barycentre, adequate for mission design per
// spec's stated accuracy (~1 arcminute over ±3 centuries).
var standishTable = map[ID]meanElements{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Earth: {1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
		100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0.0, 0.0},
	Mars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus: {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
	Pluto: {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818,
		238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
}

const auMeters = 1.49597870700e11

// keplerSolveDeg solves M = E - e*sin(E) (radians in, radians out) by
// Newton iteration from E0=M (E0=π when e > 0.8), terminating at |ΔE|<1e-12, per spec §4.3/4.9.
// A small standalone solver (not orbit.SolveKepler) so that body has no
// dependency on the orbit package.
func keplerSolveDeg(m, e float64) float64 {
	E := m
	if e > 0.8 {
		E = math.Pi
	}
	for iter := 0; iter < 100; iter++ {
		f := E - e*math.Sin(E) - m
		fp := 1 - e*math.Cos(E)
		dE := f / fp
		E -= dE
		if floats.EqualWithinAbs(dE, 0, 1e-12) {
			break
		}
	}
	return E
}

// HeliocentricPosition returns the body's heliocentric J2000-equatorial
// position (metres) at the given Julian Date, per spec §4.9 steps 1-5.
// Supported for Mercury through Pluto; Sun and Moon panic (the Sun sits at
// the heliocentric origin, and the Moon's ephemeris is not part of the
// Standish planetary table).
func HeliocentricPosition(id ID, jd float64) vector.Vec3 {
	row, ok := standishTable[id]
	if !ok {
		panic("body: no planetary ephemeris row for this body")
	}
	t := (jd - vector.J2000JD) / 36525.0

	a := (row.a + row.aDot*t) * auMeters
	e := row.e + row.eDot*t
	iDeg := row.i + row.iDot*t
	LDeg := row.L + row.LDot*t
	periDeg := row.peri + row.periDot*t
	nodeDeg := row.node + row.nodeDot*t

	d2r := math.Pi / 180
	i := iDeg * d2r
	peri := periDeg * d2r
	node := nodeDeg * d2r
	L := LDeg * d2r

	omega := peri - node // argument of perihelion
	m := math.Mod(L-peri, 2*math.Pi)
	E := keplerSolveDeg(m, e)

	nu := 2 * math.Atan2(math.Sqrt(1+e)*math.Sin(E/2), math.Sqrt(1-e)*math.Cos(E/2))
	r := a * (1 - e*math.Cos(E))

	uArg := omega + nu
	xEcl := r * math.Cos(uArg)
	yEcl := r * math.Sin(uArg)

	// Rotate the in-plane position through the node and inclination into
	// the heliocentric ecliptic frame (spec §4.9 step 4): R3(-Ω) R1(-i).
	posEcliptic := vector.MxV(vector.R3R1R3(-node, -i, 0), vector.Vec3{xEcl, yEcl, 0})
	return vector.EclipticToEquatorial(posEcliptic)
}

// dtCentralDiff is the half-width, in seconds, used for the central
// difference velocity estimate (spec §4.9: "±10 s").
const dtCentralDiff = 10.0

// HeliocentricState returns both position and velocity, velocity via a
// central difference of position at jd ± 10 s (spec §3 "Planetary
// ephemeris state").
func HeliocentricState(id ID, jd float64) (pos, vel vector.Vec3) {
	pos = HeliocentricPosition(id, jd)
	jdMinus := vector.AddSeconds(jd, -dtCentralDiff)
	jdPlus := vector.AddSeconds(jd, dtCentralDiff)
	rMinus := HeliocentricPosition(id, jdMinus)
	rPlus := HeliocentricPosition(id, jdPlus)
	for k := 0; k < 3; k++ {
		vel[k] = (rPlus[k] - rMinus[k]) / (2 * dtCentralDiff)
	}
	return
}
