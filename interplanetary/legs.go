package interplanetary

import (
	"math"

	"github.com/orbitalarena/trajx/orbit"
	"github.com/orbitalarena/trajx/vector"
)

// LegSamples is the fixed sample count of spec §4.10's leg sampler.
const LegSamples = 500

// SampleLeg samples a Lambert transfer arc by propagating mean anomaly
// uniformly over the time of flight (not by re-integrating the two-body
// equations of motion), producing LegSamples heliocentric positions, per
// spec §4.10.
func SampleLeg(rDepart, vDepart vector.Vec3, mu, tof float64) []vector.Vec3 {
	oe := orbit.ElementsFromState(rDepart, vDepart, mu)
	n := oe.MeanMotion()
	e := oe.E
	E0 := orbit.EccentricFromTrueAnomaly(oe.TrueAnomaly, e)
	m0 := orbit.MeanFromEccentric(E0, e)

	out := make([]vector.Vec3, LegSamples)
	for k := 0; k < LegSamples; k++ {
		t := tof * float64(k) / float64(LegSamples-1)
		m := math.Mod(m0+n*t, 2*math.Pi)
		if m < 0 {
			m += 2 * math.Pi
		}
		kepler := orbit.SolveKepler(m, e)
		nu := orbit.TrueAnomalyFromEccentric(kepler.E, e)
		sample := oe
		sample.TrueAnomaly = nu
		pos, _ := orbit.StateFromElements(sample)
		out[k] = pos
	}
	return out
}
