// Package force evaluates the per-derivative-call accelerations of spec
// §4.2: two-body gravity, zonal harmonics, third-body perturbation,
// atmospheric drag, solar radiation pressure, and low-thrust. The
// force-model factory MakeForceModel realizes the Design Notes §9
// callback-to-interface replacement: configuration in, a pure derivative
// function out.
package force

import (
	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/vector"
)

// PointingMode selects how low-thrust acceleration is directed, per
// spec §4.2.
type PointingMode uint8

const (
	Prograde PointingMode = iota + 1
	AntiVelocity
	SunPointing
	AntiSun
	FixedInertial
)

// DragConfig enables atmospheric drag, per spec §3.
type DragConfig struct {
	Mass            float64 // kg
	Area            float64 // m^2, cross-section
	DragCoefficient float64 // C_d
	Atmosphere      AtmosphereModel
}

// SRPConfig enables solar radiation pressure, per spec §3.
type SRPConfig struct {
	Area         float64 // m^2
	Mass         float64 // kg
	Reflectivity float64 // C_r
}

// LowThrustConfig enables continuous low-thrust acceleration, per spec §3.
// Mass is the *current* running mass at the epoch this config is built
// for; per spec Design Notes §9, mass is threaded as a pure value (return
// updated mass from each step, re-supply to the next), never as a shared
// mutable reference.
type LowThrustConfig struct {
	ThrustMaxAt1AU float64 // N, thrust magnitude at 1 AU
	Isp            float64 // s
	Pointing       PointingMode
	FixedDirection vector.Vec3 // used only when Pointing == FixedInertial
	SolarScaling   bool
	Mass           float64 // kg, current running mass
}

// ForceModelConfig enumerates which perturbations are active for a given
// derivative evaluation, per spec §3.
type ForceModelConfig struct {
	CentralBodyMu     float64
	CentralBodyRadius float64
	IncludeJ2         bool
	IncludeJ3         bool
	IncludeJ4         bool
	J2, J3, J4        float64

	ThirdBodyList []body.ID // queried against the planetary ephemeris each call

	Drag      *DragConfig
	SRP       *SRPConfig
	LowThrust *LowThrustConfig
}

// CentralBodyConfig builds a ForceModelConfig for the given central body's
// two-body + Jn terms, a convenience constructor grounded on celestial.go's
// per-body J(n) accessor.
func CentralBodyConfig(b body.Body, jn uint8) ForceModelConfig {
	cfg := ForceModelConfig{CentralBodyMu: b.Mu, CentralBodyRadius: b.Radius}
	if jn >= 2 {
		cfg.IncludeJ2 = true
		cfg.J2 = b.J2
	}
	if jn >= 3 {
		cfg.IncludeJ3 = true
		cfg.J3 = b.J3
	}
	if jn >= 4 {
		cfg.IncludeJ4 = true
		cfg.J4 = b.J4
	}
	return cfg
}
