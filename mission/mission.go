// Package mission sequences multi-leg interplanetary missions: building a
// chain of transfer legs and flybys (spec §4.12), and optimizing launch
// and flyby dates by coordinate descent. Grounded on mission.go's
// Mission/NewMission/LogStatus structuring — kept for its logging shape
// (go-kit/kit/log key-value logging) but generalized from a single
// powered-spacecraft Cartesian propagation loop to multi-leg patched-conic
// sequencing built from the interplanetary and flyby packages.
package mission

import (
	"math"
	"os"

	kitlog "github.com/go-kit/kit/log"

	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/flyby"
	"github.com/orbitalarena/trajx/interplanetary"
	"github.com/orbitalarena/trajx/lambert"
	"github.com/orbitalarena/trajx/vector"
)

// Leg is one transfer between consecutive bodies in a mission sequence.
type Leg struct {
	From, To body.ID
	Transfer interplanetary.Transfer
}

// FlybyEvent is the gravity-assist resolution at an intermediate body.
type FlybyEvent struct {
	At       body.ID
	Result   flyby.Result
	Feasible bool
	PoweredDeltaV float64
}

// Sequence is the output of BuildMission: per spec §4.12, one leg per
// consecutive body pair, one flyby event per intermediate body, and the
// total Δv (departure + powered flybys + capture).
type Sequence struct {
	Legs          []Leg
	Flybys        []FlybyEvent
	DepartDeltaV  float64
	CaptureDeltaV float64
	TotalDeltaV   float64
}

// ParkingOrbit configures the circular parking-orbit radius at a body,
// used for departure/capture Δv, per spec §4.10.
type ParkingOrbit struct {
	Body  body.ID
	RPark float64
}

var logger = kitlog.With(kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout)), "component", "mission")

// BuildMission sequences transfers through bodies[] departing/arriving at
// dates[] (len(dates) == len(bodies)), with a parking or flyby periapsis
// altitude above the body's radius per leg endpoint, per spec §4.12.
func BuildMission(bodies []body.ID, dates []float64, parkingAlts []float64, dir lambert.Direction) Sequence {
	klog := kitlog.With(logger, "bodies", len(bodies))
	var seq Sequence

	for i := 0; i+1 < len(bodies); i++ {
		from, to := bodies[i], bodies[i+1]
		transfer := interplanetary.SolveTransfer(from, to, dates[i], dates[i+1], dir)
		seq.Legs = append(seq.Legs, Leg{From: from, To: to, Transfer: transfer})
	}

	if len(seq.Legs) == 0 {
		return seq
	}

	rParkDepart := body.Get(bodies[0]).Radius + parkingAlts[0]
	seq.DepartDeltaV = interplanetary.ParkingDeltaV(seq.Legs[0].Transfer.VInfDepart.Norm(), rParkDepart, body.GM(bodies[0]))

	for i := 1; i < len(seq.Legs); i++ {
		at := bodies[i]
		incoming := seq.Legs[i-1].Transfer.VInfArrive
		outgoingWant := seq.Legs[i].Transfer.VInfDepart

		rP := body.Get(at).Radius + parkingAlts[i]
		// flyby.Resolve's refEcliptic is the heliocentric-ecliptic axis used
		// to build the B-plane's T-hat, not the desired outgoing v∞: the
		// standard B-plane convention takes T in the ecliptic plane, derived
		// from the ecliptic pole, independent of where this mission wants to
		// go next.
		eclipticPole := vector.Vec3{0, 0, 1}
		result, ok := flyby.Resolve(incoming, rP, body.GM(at), eclipticPole)
		event := FlybyEvent{At: at}
		if !ok {
			event.Feasible = false
			seq.Flybys = append(seq.Flybys, event)
			continue
		}
		event.Result = result
		desiredDelta := angleBetween(incoming, outgoingWant)
		inv := flyby.Inverse(incoming.Norm(), desiredDelta, body.GM(at), body.Get(at).Radius, parkingAlts[i])
		event.Feasible = inv.Feasible
		event.PoweredDeltaV = inv.PoweredDeltaV
		seq.TotalDeltaV += inv.PoweredDeltaV
		seq.Flybys = append(seq.Flybys, event)
	}

	last := len(bodies) - 1
	rParkArrive := body.Get(bodies[last]).Radius + parkingAlts[last]
	seq.CaptureDeltaV = interplanetary.ParkingDeltaV(seq.Legs[len(seq.Legs)-1].Transfer.VInfArrive.Norm(), rParkArrive, body.GM(bodies[last]))

	seq.TotalDeltaV += seq.DepartDeltaV + seq.CaptureDeltaV
	klog.Log("legs", len(seq.Legs), "total_dv", seq.TotalDeltaV)
	return seq
}

// angleBetween returns the angle between two vectors, clamped against
// floating-point overshoot of acos's domain.
func angleBetween(a, b vector.Vec3) float64 {
	cosTheta := vector.Dot(a, b) / (a.Norm() * b.Norm())
	if cosTheta > 1 {
		cosTheta = 1
	}
	if cosTheta < -1 {
		cosTheta = -1
	}
	return math.Acos(cosTheta)
}
