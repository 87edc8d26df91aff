package ancillary

import (
	"math"
	"math/rand"

	"github.com/ChristopherRabotin/gokalman"
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"

	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/vector"
)

// GroundStation is a tracking site in the Earth-fixed frame, grounded on
// station.go's Station: geodetic position converted once to ECEF, plus
// Gaussian range/range-rate noise models (distmv.Normal, matching
// station.go's RangeNoise/RangeRateNoise) used to synthesize test
// measurements. This is the one place in trajx that reaches for
// gonum/stat/distmv: the noise here genuinely is Gaussian, unlike the
// uniform scatter of GenerateFragments in debris.go.
type GroundStation struct {
	Name             string
	R                vector.Vec3 // ECEF position, m
	RangeNoise       *distmv.Normal
	RangeRateNoise   *distmv.Normal
	ElevationMaskRad float64
}

// NewGroundStation builds a station at the given geodetic position with
// Gaussian range/range-rate noise standard deviations sigmaRange (m) and
// sigmaRangeRate (m/s), per station.go's NewSpecialStation.
func NewGroundStation(name string, latRad, lonRad, altitude, bodyRadius, elevationMaskRad, sigmaRange, sigmaRangeRate float64, src *rand.Rand) GroundStation {
	r := vector.GeodeticToECEF(latRad, lonRad, altitude, bodyRadius)
	rangeNoise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{sigmaRange * sigmaRange}), src)
	if !ok {
		panic("ancillary: degenerate range noise covariance")
	}
	rangeRateNoise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{sigmaRangeRate * sigmaRangeRate}), src)
	if !ok {
		panic("ancillary: degenerate range-rate noise covariance")
	}
	return GroundStation{Name: name, R: r, RangeNoise: rangeNoise, RangeRateNoise: rangeRateNoise, ElevationMaskRad: elevationMaskRad}
}

// Measurement is one range/range-rate observation of a spacecraft from a
// ground station at a known GMST, per station.go's Measurement/HTilde.
type Measurement struct {
	Station   GroundStation
	GMST      float64 // rad, at observation time
	Range     float64 // m, noisy
	RangeRate float64 // m/s, noisy
	T         float64 // seconds since the estimation epoch
}

// SimulateMeasurement produces a noisy range/range-rate observation of
// truth from station at the given GMST, per station.go's
// PerformMeasurement.
func SimulateMeasurement(station GroundStation, truth integrate.StateVector, gmst float64) Measurement {
	rECEF := vector.ECIToECEF(truth.Pos, gmst)
	vECEF := vector.ECIToECEF(truth.Vel, gmst)
	rho := rECEF.Sub(station.R)
	rhoNorm := rho.Norm()
	vRel := vECEF.Sub(vector.Cross(vector.Vec3{0, 0, vector.EarthRotationRate}, station.R))
	rhoDot := vector.Dot(rho, vRel) / rhoNorm

	return Measurement{
		Station:   station,
		GMST:      gmst,
		Range:     rhoNorm + station.RangeNoise.Rand(nil)[0],
		RangeRate: rhoDot + station.RangeRateNoise.Rand(nil)[0],
		T:         truth.T,
	}
}

// htilde returns the 2x6 measurement-partial matrix ∂(ρ,ρ̇)/∂(r,v) at the
// predicted state, per station.go's HTilde.
func htilde(station GroundStation, predicted integrate.StateVector, gmst float64) (*mat64.Dense, float64, float64) {
	stationECI := vector.ECEFToECI(station.R, gmst)
	stationVECI := vector.ECEFToECI(vector.Cross(vector.Vec3{0, 0, vector.EarthRotationRate}, station.R), gmst)

	rel := predicted.Pos.Sub(stationECI)
	rho := rel.Norm()
	relV := predicted.Vel.Sub(stationVECI)
	rhoDot := vector.Dot(rel, relV) / rho

	h := mat64.NewDense(2, 6, nil)
	for k := 0; k < 3; k++ {
		h.Set(0, k, rel[k]/rho)
		h.Set(1, k, relV[k]/rho-(rhoDot/(rho*rho))*rel[k])
		h.Set(1, 3+k, rel[k]/rho)
	}
	return h, rho, rhoDot
}

// EstimateFromMeasurements runs one batch least-squares correction of an
// a priori state against a short arc of range/range-rate measurements, per
// the spec's orbit-determination component: not a sequential Kalman
// filter (Non-goals exclude uncertainty quantification), a single normal
// -equations solve seeded with an identity STM, grounded on
// estimate.go's gokalman.DenseIdentity(6) seed and mat64-based linear
// algebra. deriv propagates the a priori state forward between
// measurement epochs (co-propagated with its STM via
// integrate.CoPropagateRK4) so that every measurement's partials are
// taken against the correct propagated reference trajectory.
func EstimateFromMeasurements(apriori integrate.StateVector, measurements []Measurement, deriv integrate.DerivativeFunc, mu float64) (corrected integrate.StateVector, covariance *mat64.Dense) {
	sas := integrate.StateAndSTM{State: apriori, Phi: gokalman.DenseIdentity(6)}

	normalMatrix := mat64.NewDense(6, 6, nil)
	normalVector := mat64.NewDense(6, 1, nil)

	cur := sas
	t := apriori.T
	for _, m := range measurements {
		if m.T > t {
			cur = integrate.CoPropagateRK4(cur, m.T-t, stepsForArc(m.T-t), deriv, mu)
			t = m.T
		}
		h, rhoPred, rhoDotPred := htilde(m.Station, cur.State, m.GMST)

		var hPhi mat64.Dense
		hPhi.Mul(h, cur.Phi)

		resid := mat64.NewDense(2, 1, []float64{m.Range - rhoPred, m.RangeRate - rhoDotPred})

		var hty, htwh mat64.Dense
		hty.Mul(hPhi.T(), resid)
		htwh.Mul(hPhi.T(), &hPhi)

		normalMatrix.Add(normalMatrix, &htwh)
		normalVector.Add(normalVector, &hty)
	}

	var dx mat64.Dense
	if err := dx.Solve(normalMatrix, normalVector); err != nil {
		return apriori, mat64.NewDense(6, 6, nil)
	}
	var inv mat64.Dense
	if err := inv.Solve(normalMatrix, gokalman.DenseIdentity(6)); err != nil {
		inv = *mat64.NewDense(6, 6, nil)
	}

	corrected = integrate.StateVector{
		Pos:   vector.Vec3{apriori.Pos[0] + dx.At(0, 0), apriori.Pos[1] + dx.At(1, 0), apriori.Pos[2] + dx.At(2, 0)},
		Vel:   vector.Vec3{apriori.Vel[0] + dx.At(3, 0), apriori.Vel[1] + dx.At(4, 0), apriori.Vel[2] + dx.At(5, 0)},
		T:     apriori.T,
		Frame: apriori.Frame,
	}
	return corrected, &inv
}

// stepsForArc works like rendezvous.stepsFor, with its own numbers: one
// RK4 substep per 10 seconds of propagation, at least one, capped at 2000
// to keep a long arc tractable.
func stepsForArc(duration float64) int {
	n := int(math.Abs(duration) / 10)
	if n < 1 {
		n = 1
	}
	if n > 2000 {
		n = 2000
	}
	return n
}
