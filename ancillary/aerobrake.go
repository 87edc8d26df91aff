package ancillary

import (
	"math"

	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/force"
	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/orbit"
	"github.com/orbitalarena/trajx/vector"
)

// SuttonGravesK is the empirical stagnation-point heat-flux coefficient
// for a spherical nose radius of 1 m, per spec §4.13's Sutton-Graves
// model q = K√ρ v³.
const SuttonGravesK = 1.7415e-4

// AerobrakePass describes one atmospheric pass: the spacecraft's ballistic
// coefficient and the entry state, per spec §4.13.
type AerobrakePass struct {
	Mass            float64
	Area            float64
	DragCoefficient float64
	Atmosphere      force.AtmosphereModel
	Body            body.ID
}

// AerobrakeResult summarizes one pass: peak heating, peak dynamic pressure,
// peak deceleration, and the resulting post-pass orbit, per spec §4.13.
type AerobrakeResult struct {
	PeakHeatFluxWm2    float64
	PeakDynamicPressPa float64
	PeakDecelG         float64
	ExitState          integrate.StateVector
	PostPassElements   orbit.Elements
}

// SimulatePass propagates one atmospheric pass under two-body + J2 + drag,
// starting at entry and continuing until the spacecraft rises back above
// entryAltitude, per spec §4.13. Grounded on the force package's two-body,
// zonal-harmonics, and drag terms, composed the way MakeForceModel does,
// and integrated with the adaptive propagator's PropagateUntil stop
// predicate rather than a fixed sample grid, since a pass's duration is not
// known in advance.
func SimulatePass(entry integrate.StateVector, p AerobrakePass, entryAltitude float64, cfg integrate.IntegrationConfig) AerobrakeResult {
	b := body.Get(p.Body)
	fcfg := force.CentralBodyConfig(b, 2)
	fcfg.Drag = &force.DragConfig{
		Mass: p.Mass, Area: p.Area, DragCoefficient: p.DragCoefficient, Atmosphere: p.Atmosphere,
	}
	deriv := force.MakeForceModel(fcfg, 0)

	var result AerobrakeResult
	dipped := false

	pred := func(s integrate.StateVector) bool {
		altitude := s.Pos.Norm() - b.Radius
		rho := 0.0
		if altitude >= 0 && altitude <= p.Atmosphere.KarmanLine() {
			rho = p.Atmosphere.Density(altitude)
		}
		vRel := s.Vel.Norm()
		if rho > 0 {
			q := SuttonGravesK * math.Sqrt(rho) * vRel * vRel * vRel
			if q > result.PeakHeatFluxWm2 {
				result.PeakHeatFluxWm2 = q
			}
			dynPress := 0.5 * rho * vRel * vRel
			if dynPress > result.PeakDynamicPressPa {
				result.PeakDynamicPressPa = dynPress
			}
			dragAcc := force.Drag(s.Pos, s.Vel, *fcfg.Drag, b.Radius, vector.EarthRotationRate).Norm()
			decelG := dragAcc / 9.80665
			if decelG > result.PeakDecelG {
				result.PeakDecelG = decelG
			}
		}
		if altitude < entryAltitude {
			dipped = true
			return false
		}
		return dipped
	}

	result.ExitState = integrate.PropagateUntil(entry, 6*3600, deriv, cfg, pred)
	result.PostPassElements = orbit.ElementsFromState(result.ExitState.Pos, result.ExitState.Vel, b.Mu)
	return result
}

// EstimatedPassesToTarget estimates how many passes of the given per-pass
// Δv bleed are needed to lower apoapsis from the current orbit to
// targetApoapsis, using the empirical heuristic Δv ≈ (50 + 2·(entry
// interface altitude − perigee altitude)/1000) m/s per pass (documented as
// an empirical rule of thumb, not a closed-form result: see DESIGN.md's
// open-question entry on aerobraking pass count).
func EstimatedPassesToTarget(oe orbit.Elements, bodyRadius, entryInterfaceAltitude, targetApoapsis float64) int {
	perigeeAltitude := oe.Periapsis() - bodyRadius
	deltaVPerPass := 50 + 2*(entryInterfaceAltitude-perigeeAltitude)/1000
	if deltaVPerPass <= 0 {
		return 0
	}

	apoapsisDrop := oe.Apoapsis() - targetApoapsis
	if apoapsisDrop <= 0 {
		return 0
	}

	// A small periapsis-directed Δv changes the opposite apsis by
	// dRa ≈ (2 Ra / Vp) dv (standard vis-viva sensitivity at periapsis).
	vPeriapsis := math.Sqrt(oe.Mu * (2/oe.Periapsis() - 1/oe.A))
	apoapsisDropPerPass := 2 * oe.Apoapsis() / vPeriapsis * deltaVPerPass

	n := int(math.Ceil(apoapsisDrop / apoapsisDropPerPass))
	if n < 1 {
		n = 1
	}
	return n
}
