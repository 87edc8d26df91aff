// Package orbit implements Keplerian-element/Cartesian-state conversion
// and the Kepler-equation solver (spec §4.3).
package orbit

import (
	"math"

	"github.com/gonum/floats"
)

// KeplerConvergenceε is the convergence threshold on |ΔE|, per spec §4.3.
const KeplerConvergenceε = 1e-12

// MaxKeplerIterations bounds the Newton iteration; exceeding it is recorded
// as non-convergence per spec §7 rather than panicking.
const MaxKeplerIterations = 100

// KeplerResult carries the solved eccentric anomaly along with a
// convergence flag, per spec §7's non-convergence reporting convention.
type KeplerResult struct {
	E         float64
	Converged bool
	Iterations int
}

// SolveKepler solves M = E - e*sin(E) for E by Newton iteration starting
// from E0=M (or π when e>0.8, since M=0 is a poor starting point near
// e=1), terminating when |ΔE| < KeplerConvergenceε (spec §4.3, §8).
func SolveKepler(m, e float64) KeplerResult {
	E := m
	if e > 0.8 {
		E = math.Pi
	}
	for iter := 1; iter <= MaxKeplerIterations; iter++ {
		f := E - e*math.Sin(E) - m
		fp := 1 - e*math.Cos(E)
		dE := f / fp
		E -= dE
		if floats.EqualWithinAbs(dE, 0, KeplerConvergenceε) {
			return KeplerResult{E: E, Converged: true, Iterations: iter}
		}
	}
	return KeplerResult{E: E, Converged: false, Iterations: MaxKeplerIterations}
}

// TrueAnomalyFromEccentric recovers true anomaly from eccentric anomaly via
// ν = 2 atan2(√(1+e) sin(E/2), √(1-e) cos(E/2)), per spec §4.3.
func TrueAnomalyFromEccentric(E, e float64) float64 {
	sE, cE := math.Sincos(E / 2)
	return 2 * math.Atan2(math.Sqrt(1+e)*sE, math.Sqrt(1-e)*cE)
}

// EccentricFromTrueAnomaly is the inverse of TrueAnomalyFromEccentric.
func EccentricFromTrueAnomaly(nu, e float64) float64 {
	sNu, cNu := math.Sincos(nu / 2)
	return 2 * math.Atan2(math.Sqrt(1-e)*sNu, math.Sqrt(1+e)*cNu)
}

// MeanFromEccentric computes M = E - e sin(E).
func MeanFromEccentric(E, e float64) float64 {
	return E - e*math.Sin(E)
}
