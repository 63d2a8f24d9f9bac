// Package solar computes per-pixel solar zenith angles for geodetic grids and
// derives day/night masks from them.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/mat"
)

// DefaultMaskThreshold is the solar zenith angle, in degrees, separating day
// from night when no other threshold is given. Many GEO day/night applications
// use 89 degrees instead to stay clear of the cosine singularity at the
// terminator.
const DefaultMaskThreshold = 90.0

// degToRad converts degrees to radians
func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

// radToDeg converts radians to degrees
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// fixAngle normalizes angle to [0, 360)
func fixAngle(a float64) float64 { return a - 360.0*math.Floor(a/360.0) }

// declinationAndEqTime returns the solar declination (radians) and the
// equation of time (minutes) for the given instant. Both depend only on time,
// so they are computed once per grid rather than per pixel.
func declinationAndEqTime(t time.Time) (declRad, eqTimeMin float64) {
	jd := julian.TimeToJD(t.UTC())
	T := (jd - 2451545.0) / 36525.0 // centuries since J2000

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032)) // mean longitude
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))  // mean anomaly
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)       // eccentricity
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289 // center equation
	sunLong := L0 + C                                                  // true longitude
	node := 125.04 - 1934.136*T                                        // node longitude
	lambda := sunLong - 0.00569 - 0.00478*math.Sin(degToRad(node))     // corrected longitude
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60 // obliquity
	declRad = math.Asin(math.Sin(degToRad(eps0)) * math.Sin(degToRad(lambda)))

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	eqTimeMin = radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	return declRad, eqTimeMin
}

// ComputeSZA returns the solar zenith angle, in degrees, for every pixel of
// the given longitude/latitude grids at time t. The zenith angle is
// 90 degrees minus the solar altitude. Longitudes are degrees east, latitudes
// degrees north. Non-finite coordinates (off-disk pixels) propagate to NaN
// zenith angles. Panics if the two grids have different shapes.
func ComputeSZA(t time.Time, lons, lats *mat.Dense) *mat.Dense {
	rows, cols := lons.Dims()
	if r, c := lats.Dims(); r != rows || c != cols {
		panic("solar: longitude and latitude grids have different shapes")
	}

	declRad, eqTimeMin := declinationAndEqTime(t)
	sinDecl, cosDecl := math.Sincos(declRad)

	u := t.UTC()
	utcMin := float64(u.Hour()*60+u.Minute()) + float64(u.Second())/60.0

	sza := mat.NewDense(rows, cols, nil)
	sza.Apply(func(r, c int, _ float64) float64 {
		lon := lons.At(r, c)
		lat := lats.At(r, c)

		// True solar time in minutes, then the hour angle in degrees.
		tst := utcMin + eqTimeMin + 4.0*lon
		ha := tst/4.0 - 180.0

		latRad := degToRad(lat)
		cosZen := math.Sin(latRad)*sinDecl + math.Cos(latRad)*cosDecl*math.Cos(degToRad(ha))
		// Guard acos against rounding just outside [-1, 1]; NaN passes through.
		if cosZen > 1 {
			cosZen = 1
		} else if cosZen < -1 {
			cosZen = -1
		}
		return radToDeg(math.Acos(cosZen))
	}, sza)

	return sza
}

// MaskFromSZA converts a zenith-angle field into a day or night mask IN PLACE
// and returns the same matrix. The caller gives up ownership of sza; pass a
// copy (mat.DenseCopyOf) when the zenith angles are needed afterwards.
//
// With maskNight true the NIGHT pixels are masked, producing the DAY mask:
// SZA > threshold becomes NaN and SZA <= threshold becomes 1. With maskNight
// false the DAY pixels are masked, producing the NIGHT mask: SZA <= threshold
// becomes NaN and SZA > threshold becomes 1.
//
// A pixel exactly at the threshold is kept by the day mask and excluded from
// the night mask, so the two masks are not perfectly complementary at the
// boundary value. This inclusive/exclusive asymmetry is intentional and
// matches the published algorithm. NaN zenith angles stay NaN in both masks.
func MaskFromSZA(sza *mat.Dense, maskNight bool, threshold float64) *mat.Dense {
	sza.Apply(func(_, _ int, v float64) float64 {
		if math.IsNaN(v) {
			return v
		}
		if maskNight {
			if v > threshold {
				return math.NaN()
			}
			return 1.0
		}
		if v <= threshold {
			return math.NaN()
		}
		return 1.0
	}, sza)
	return sza
}
