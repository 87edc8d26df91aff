// Package ascent propagates a multi-stage launch vehicle from a rotating
// launch site into orbit, per spec §4.8. There is no direct teacher
// equivalent (the teacher starts missions already in orbit); staged
// dry/propellant mass bookkeeping is adapted from spacecraft.go's fuel
// mass tracking. Terminal targeting is its own finite-difference shooter
// over the control-polynomial coefficients (target.go), not a reuse of
// the rendezvous package: §4.8's free variables are control-law
// coefficients, not a state initial condition, so rendezvous's Newton
// shooter over Δv doesn't apply here.
package ascent

import (
	"math"

	"github.com/orbitalarena/trajx/force"
	"github.com/orbitalarena/trajx/integrate"
	"github.com/orbitalarena/trajx/vector"
)

// VacuumAltitude is the altitude at which effective Isp reaches the
// vacuum value, per spec §4.8.
const VacuumAltitude = 40000.0

// ControlPolynomial evaluates a pitch or yaw angle (radians) as a
// polynomial in time since ignition, configurable degree (typically one
// to three coefficients), per spec §4.8.
type ControlPolynomial struct {
	Coefficients []float64 // c0 + c1*t + c2*t^2 + ...
}

// Eval returns the polynomial's value at time t (seconds since stage
// ignition).
func (c ControlPolynomial) Eval(t float64) float64 {
	v := 0.0
	tk := 1.0
	for _, coeff := range c.Coefficients {
		v += coeff * tk
		tk *= t
	}
	return v
}

// Stage describes one rocket stage, per spec §4.8.
type Stage struct {
	DryMass        float64 // kg
	PropellantMass float64 // kg
	Thrust         float64 // N, vacuum-equivalent magnitude used with effective Isp
	IspSeaLevel    float64 // s
	IspVacuum      float64 // s
	Pitch, Yaw     ControlPolynomial
	Area           float64 // m^2, for drag
	DragCoefficient float64
}

// effectiveIsp linearly interpolates Isp from sea-level at h=0 to vacuum
// by VacuumAltitude, per spec §4.8.
func (s Stage) effectiveIsp(altitude float64) float64 {
	if altitude >= VacuumAltitude {
		return s.IspVacuum
	}
	if altitude <= 0 {
		return s.IspSeaLevel
	}
	frac := altitude / VacuumAltitude
	return s.IspSeaLevel + frac*(s.IspVacuum-s.IspSeaLevel)
}

const g0 = 9.80665

// LaunchSite describes the rotating launch point, per spec §4.8.
type LaunchSite struct {
	LatitudeRad, LongitudeRad, Altitude float64
	BodyRadius                         float64
	RotationRate                       float64 // rad/s
	EpochJD                            float64 // Julian date of liftoff, for ECEF->ECI rotation
}

// InitialState returns the ECI position and velocity at the launch epoch:
// the geodetic site converted to ECEF, then rotated into ECI by GMST at
// site.EpochJD (vector.GMST/vector.ECEFToECI), with velocity ω_body × r
// in the ECEF frame rotated the same way, per spec §4.8.
func (site LaunchSite) InitialState() (pos, vel vector.Vec3) {
	posECEF := vector.GeodeticToECEF(site.LatitudeRad, site.LongitudeRad, site.Altitude, site.BodyRadius)
	omega := vector.Vec3{0, 0, site.RotationRate}
	velECEF := vector.Cross(omega, posECEF)

	gmst := vector.GMST(site.EpochJD)
	pos = vector.ECEFToECI(posECEF, gmst)
	vel = vector.ECEFToECI(velECEF, gmst)
	return
}

// Profile is a full ascent configuration: launch site, launch azimuth,
// and staged vehicle, per spec §4.8.
type Profile struct {
	Site                             LaunchSite
	AzimuthRad                       float64
	Stages                           []Stage
	CentralBodyMu, CentralBodyRadius float64
	Atmosphere                       force.AtmosphereModel // nil disables drag
	RotationRate                     float64               // for Earth-relative drag velocity
}

// StageResult records one stage's burn trace.
type StageResult struct {
	States    []integrate.StateVector
	FinalMass float64
	BurnTime  float64
}

// Simulate propagates the full staged ascent with a fixed RK4 step,
// jettisoning dry mass at each stage separation, per spec §4.8. dt is the
// integration step in seconds.
func Simulate(p Profile, dt float64) []StageResult {
	pos, velInertial := p.Site.InitialState()
	state := integrate.StateVector{Pos: pos, Vel: velInertial, Frame: vector.ECIJ2000}
	results := make([]StageResult, 0, len(p.Stages))

	for _, stage := range p.Stages {
		mass := stage.DryMass + stage.PropellantMass
		remainingPropellant := stage.PropellantMass
		trace := []integrate.StateVector{state}
		var burnTime float64

		for remainingPropellant > 0 {
			altitude := state.Pos.Norm() - p.CentralBodyRadius
			isp := stage.effectiveIsp(altitude)
			mdot := stage.Thrust / (isp * g0)
			consumed := mdot * dt
			if consumed > remainingPropellant {
				consumed = remainingPropellant
			}

			thrustDir := thrustDirection(state, p.AzimuthRad, stage, burnTime)
			thrustAcc := thrustDir.Scale(stage.Thrust / mass)

			deriv := func(t float64, s integrate.StateVector) integrate.StateDerivative {
				acc := force.TwoBody(s.Pos, p.CentralBodyMu).Add(thrustAcc)
				if p.Atmosphere != nil {
					dragCfg := force.DragConfig{Mass: mass, Area: stage.Area, DragCoefficient: stage.DragCoefficient, Atmosphere: p.Atmosphere}
					acc = acc.Add(force.Drag(s.Pos, s.Vel, dragCfg, p.CentralBodyRadius, p.RotationRate))
				}
				return integrate.StateDerivative{Velocity: s.Vel, Acceleration: acc, DTime: 1}
			}
			state = integrate.PropagateRK4(state, dt, deriv)
			trace = append(trace, state)

			remainingPropellant -= consumed
			mass -= consumed
			burnTime += dt
		}

		results = append(results, StageResult{States: trace, FinalMass: mass, BurnTime: burnTime})
	}

	return results
}

// thrustDirection blends the radial (up) and azimuth-defined horizontal
// components per the pitch control law, with yaw steering the heading
// away from the nominal launch azimuth within the local horizontal
// plane, per spec §4.8. Pitch is measured from local vertical: 0 is
// straight up, increasing pitch tilts the thrust toward the horizontal
// as the gravity turn progresses.
func thrustDirection(s integrate.StateVector, azimuthRad float64, stage Stage, tSinceIgnition float64) vector.Vec3 {
	up, ok := vector.Unit(s.Pos)
	if !ok {
		return vector.Vec3{0, 0, 1}
	}
	polar := vector.Vec3{0, 0, 1}
	east, ok := vector.Unit(vector.Cross(polar, up))
	if !ok {
		east = vector.Vec3{1, 0, 0}
	}
	north := vector.Cross(up, east)

	pitch := stage.Pitch.Eval(tSinceIgnition)
	yaw := stage.Yaw.Eval(tSinceIgnition)

	heading := azimuthRad + yaw
	sh, ch := math.Sincos(heading)
	horiz := north.Scale(ch).Add(east.Scale(sh))

	sp, cp := math.Sincos(pitch)
	out := up.Scale(cp).Add(horiz.Scale(sp))
	unit, ok := vector.Unit(out)
	if !ok {
		return up
	}
	return unit
}
