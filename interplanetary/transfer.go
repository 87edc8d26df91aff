// Package interplanetary designs patched-conic interplanetary transfers:
// single Lambert-arc transfers with C3/departure/capture Δv, porkchop
// grids, and mean-anomaly leg sampling (spec §4.10). No direct teacher
// equivalent exists — the teacher only numerically propagates powered
// spacecraft rather than planning patched-conic transfers — so this is
// built fresh atop the lambert and body packages, reusing mission.go's
// AU/body-μ constant conventions from celestial.go.
package interplanetary

import (
	"math"

	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/lambert"
	"github.com/orbitalarena/trajx/vector"
)

// Transfer is the result of a single Lambert-arc transfer, per spec §4.10.
type Transfer struct {
	DepartJD, ArriveJD float64
	VInfDepart, VInfArrive vector.Vec3
	C3                 float64 // km^2/s^2
	DepartDeltaV, ArriveDeltaV float64
	Lambert            lambert.Result
}

// SolveTransfer plugs planet positions/velocities at departure and
// arrival into the Lambert solver and computes the v∞ and C3, per spec
// §4.10.
func SolveTransfer(from, to body.ID, departJD, arriveJD float64, dir lambert.Direction) Transfer {
	mu := body.GM(body.Sun)
	dt := (arriveJD - departJD) * 86400

	rDepart, vDepart := body.HeliocentricState(from, departJD)
	rArrive, vArrive := body.HeliocentricState(to, arriveJD)

	result := lambert.Solve(rDepart, rArrive, dt, mu, dir)

	vInfDepart := result.V1.Sub(vDepart)
	vInfArrive := result.V2.Sub(vArrive)
	c3 := vInfDepart.Norm() * vInfDepart.Norm() / 1e6

	return Transfer{
		DepartJD: departJD, ArriveJD: arriveJD,
		VInfDepart: vInfDepart, VInfArrive: vInfArrive,
		C3: c3, Lambert: result,
	}
}

// ParkingDeltaV returns the Δv from a circular parking orbit of radius
// rPark at a body with gravitational parameter mu to/from a hyperbolic
// excess speed vInf, per spec §4.10's symmetric departure/capture
// expression: Δv = √(v∞² + 2μ/r_park) − √(μ/r_park).
func ParkingDeltaV(vInf, rPark, mu float64) float64 {
	return math.Sqrt(vInf*vInf+2*mu/rPark) - math.Sqrt(mu/rPark)
}
