package force

import "math"

// AtmosphereModel computes air density (kg/m^3) at the given altitude
// above the body's surface (metres), per spec §4.2.
type AtmosphereModel interface {
	Density(altitudeM float64) float64
	// KarmanLine returns the altitude (metres) above which drag is
	// disabled, per spec §4.2.
	KarmanLine() float64
}

// earthLayer is one exponential band of the layered US Standard
// Atmosphere approximation.
type earthLayer struct {
	baseAltitude, baseDensity, scaleHeight float64 // metres, kg/m^3, metres
}

// EarthAtmosphere is the layered exponential US Standard Atmosphere model
// up to ~85 km with a single-exponential tail to the Karman line, per
// spec §4.2. Values are the standard reference densities/scale heights
// used in mission-design literature (e.g. Vallado Table 8-4).
type EarthAtmosphere struct{}

var earthLayers = []earthLayer{
	{0, 1.225, 7249.7},
	{25000, 3.899e-2, 6349.5},
	{30000, 1.774e-2, 6682.5},
	{40000, 3.972e-3, 7554.4},
	{50000, 1.057e-3, 8382.0},
	{60000, 3.206e-4, 7714.9},
	{70000, 8.770e-5, 6869.2},
	{80000, 1.905e-5, 5877.6},
}

func (EarthAtmosphere) KarmanLine() float64 { return 100000 }

func (e EarthAtmosphere) Density(altitudeM float64) float64 {
	if altitudeM > e.KarmanLine() || altitudeM < 0 {
		return 0
	}
	// Single-exponential tail for 85-100 km, anchored at the last tabulated
	// layer, per spec's "single-exponential tail to the Kármán line".
	if altitudeM > 85000 {
		base := earthLayers[len(earthLayers)-1]
		rho85 := base.baseDensity * math.Exp(-(85000-base.baseAltitude)/base.scaleHeight)
		return rho85 * math.Exp(-(altitudeM-85000)/base.scaleHeight)
	}
	layer := earthLayers[0]
	for _, l := range earthLayers {
		if altitudeM >= l.baseAltitude {
			layer = l
		}
	}
	return layer.baseDensity * math.Exp(-(altitudeM-layer.baseAltitude)/layer.scaleHeight)
}

// MarsAtmosphere is a two-layer CO2-atmosphere variant to 200 km, per
// spec §4.2.
type MarsAtmosphere struct{}

func (MarsAtmosphere) KarmanLine() float64 { return 200000 }

func (m MarsAtmosphere) Density(altitudeM float64) float64 {
	if altitudeM > m.KarmanLine() || altitudeM < 0 {
		return 0
	}
	if altitudeM < 7000 {
		// Lower layer: surface reference ~0.020 kg/m^3, scale height ~11.1 km.
		return 0.0200 * math.Exp(-altitudeM/11100)
	}
	// Upper layer anchored to continuity at 7 km, longer scale height.
	rho7 := 0.0200 * math.Exp(-7000.0/11100)
	return rho7 * math.Exp(-(altitudeM - 7000) / 20000)
}
