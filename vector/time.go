package vector

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// J2000JD is the Julian Date of the J2000.0 epoch.
const J2000JD = 2451545.0

// EarthRotationRate is Earth's sidereal rotation rate in rad/s.
const EarthRotationRate = 7.2921159e-5

// ObliquityJ2000Rad is the obliquity of the ecliptic at J2000, 23.4392911°,
// fixed per spec §4.1 (no precession/nutation model).
const ObliquityJ2000Rad = 23.4392911 * math.Pi / 180

// JulianDate converts a calendar instant to a Julian Date (Meeus ch. 7),
// delegating to the library's own calendar/JD arithmetic.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// TimeFromJulianDate is the inverse of JulianDate.
func TimeFromJulianDate(jd float64) time.Time {
	return julian.JDToTime(jd)
}

// AddSeconds advances a Julian Date by the given number of seconds, per
// spec §4.1 ("add seconds to JD by dividing by 86400").
func AddSeconds(jd, seconds float64) float64 {
	return jd + seconds/86400.0
}

// GMST returns the Greenwich Mean Sidereal Time, in radians, for the given
// Julian Date via the IAU 1982 polynomial in Julian centuries since J2000.
func GMST(jd float64) float64 {
	t := (jd - J2000JD) / 36525.0
	// Seconds of time, IAU 1982 (Vallado eq. 3-45).
	thetaSec := 67310.54841 +
		(876600*3600+8640184.812866)*t +
		0.093104*t*t -
		6.2e-6*t*t*t
	theta := math.Mod(thetaSec, 86400.0) / 240.0 * math.Pi / 180.0 // 240 = seconds per degree of rotation
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}
