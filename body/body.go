// Package body holds the immutable registry of solar-system body constants
// and the Standish-1992 planetary ephemeris (spec §3, §4.9).
package body

import "fmt"

// ID is a small closed enumeration of the bodies trajx knows about.
type ID uint8

const (
	Sun ID = iota
	Mercury
	Venus
	Earth
	Moon
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

// Body is an immutable record of a celestial object's physical constants,
// per spec §3. All lengths are in metres, μ in m³/s².
type Body struct {
	ID     ID
	Name   string
	Mu     float64 // gravitational parameter μ
	Radius float64 // mean equatorial radius
	SOI    float64 // sphere-of-influence radius w.r.t. the Sun
	J2     float64
	J3     float64
	J4     float64
}

func (b Body) String() string { return b.Name }

// registry is keyed by the closed ID enumeration; values are compile-time
// constants, never mutated after init (spec §3: "Bodies are immutable
// constants").
var registry = map[ID]Body{
	Sun: {Sun, "Sun", 1.32712440018e20, 6.957e8, 0, 0, 0, 0},
	Mercury: {Mercury, "Mercury", 2.2032e13, 2.4397e6, 2.12e8,
		6.0e-5, 0, 0},
	Venus: {Venus, "Venus", 3.24859e14, 6.0518e6, 6.16e8,
		4.458e-6, 0, 0},
	Earth: {Earth, "Earth", 3.986004418e14, 6.378137e6, 9.29e8,
		1.08262668e-3, -2.53265648e-6, -1.61962159e-6},
	Moon: {Moon, "Moon", 4.9048695e12, 1.7374e6, 6.6168e7,
		2.027e-4, 0, 0},
	Mars: {Mars, "Mars", 4.282837e13, 3.3962e6, 5.76e8,
		1.96045e-3, 3.1450e-5, -1.5377e-5},
	Jupiter: {Jupiter, "Jupiter", 1.26686534e17, 7.1492e7, 4.82e10,
		1.4736e-2, 0, -5.87e-4},
	Saturn: {Saturn, "Saturn", 3.7931187e16, 6.0268e7, 5.48e10,
		1.6298e-2, 0, -9.15e-4},
	Uranus: {Uranus, "Uranus", 5.793939e15, 2.5559e7, 5.18e10,
		3.34343e-3, 0, -2.885e-5},
	Neptune: {Neptune, "Neptune", 6.836529e15, 2.4764e7, 8.66e10,
		3.411e-3, 0, -3.54e-5},
	Pluto: {Pluto, "Pluto", 8.71e11, 1.188e6, 3.08e9,
		0, 0, 0},
}

// Get returns the registered Body for id. Panics on an unknown ID, which
// can only happen on a programmer error since ID is a closed enumeration
// (spec §7's carve-out for closed-enumeration violations).
func Get(id ID) Body {
	b, ok := registry[id]
	if !ok {
		panic(fmt.Sprintf("body: unknown body id %d", id))
	}
	return b
}

// GM returns μ for id; shorthand for Get(id).Mu.
func GM(id ID) float64 { return Get(id).Mu }
