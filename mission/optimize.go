package mission

import (
	"math"

	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/lambert"
)

// MaxOptimizationSweeps and ImprovementToleranceMS are the termination
// conditions of spec §4.12's optimize_dates.
const (
	MaxOptimizationSweeps  = 100
	ImprovementToleranceMS = 0.1
	goldenRatio            = 0.6180339887498949
)

// OptimizeDates holds the first and last dates fixed and performs
// coordinate descent with golden-section line search over each interior
// date, per spec §4.12. windowDays bounds the per-date search interval
// around its current value.
func OptimizeDates(bodies []body.ID, dates []float64, parkingAlts []float64, dir lambert.Direction, windowDays float64) ([]float64, Sequence) {
	current := append([]float64(nil), dates...)
	seq := BuildMission(bodies, current, parkingAlts, dir)

	if len(current) <= 2 {
		return current, seq
	}

	for sweep := 0; sweep < MaxOptimizationSweeps; sweep++ {
		improved := 0.0
		for i := 1; i < len(current)-1; i++ {
			lo := current[i] - windowDays
			hi := current[i] + windowDays
			best, bestDv := goldenSectionMinimize(func(d float64) float64 {
				trial := append([]float64(nil), current...)
				trial[i] = d
				return BuildMission(bodies, trial, parkingAlts, dir).TotalDeltaV
			}, lo, hi, 1e-3)

			before := seq.TotalDeltaV
			if bestDv >= before {
				continue
			}
			current[i] = best
			seq = BuildMission(bodies, current, parkingAlts, dir)
			if before-bestDv > improved {
				improved = before - bestDv
			}
		}
		if improved < ImprovementToleranceMS {
			break
		}
	}

	return current, seq
}

// goldenSectionMinimize minimizes f over [lo, hi] to within tol, per
// spec §4.12's golden-section line search.
func goldenSectionMinimize(f func(float64) float64, lo, hi, tol float64) (x, fx float64) {
	a, b := lo, hi
	c := b - goldenRatio*(b-a)
	d := a + goldenRatio*(b-a)
	fc, fd := f(c), f(d)

	for math.Abs(b-a) > tol {
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - goldenRatio*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + goldenRatio*(b-a)
			fd = f(d)
		}
	}

	x = (a + b) / 2
	return x, f(x)
}
