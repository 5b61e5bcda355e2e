package starmap

import "math"

// Temperature model constants, tuned so that deep space settles near the
// cosmic microwave background and a close orbit approaches stellar
// surface temperature.
const (
	tempMinKelvin = 2.7    // cosmic floor
	tempMaxKelvin = 5778.0 // near-star ceiling, Sol's surface temperature
	tempScaleK    = 1.0e-11
	tempCurveB    = 2.0

	metersPerLightSecond = 299_792_458.0
	metersPerLightYear   = metersPerLightSecond * 365.25 * 24 * 3600
)

// minExternalTemperature computes the blackbody-equilibrium-style
// temperature (Kelvin) at distanceMeters from a star of luminosityWatts,
// smoothly transitioning between tempMinKelvin (deep space) and
// tempMaxKelvin (near the star) as
//
//	scale = tempScaleK * sqrt(luminosity)
//	ratio = distance_light_seconds / scale
//	t     = min + (max - min) / (1 + ratio^b)
//
// luminosityWatts <= 0 (black holes, and similar degenerate sources) has
// no defined temperature; callers must skip such systems rather than call
// this function.
func minExternalTemperature(distanceMeters, luminosityWatts float64) float64 {
	distanceLightSeconds := distanceMeters / metersPerLightSecond
	scale := tempScaleK * math.Sqrt(luminosityWatts)

	ratio := math.Inf(1)
	if scale > 0 {
		ratio = distanceLightSeconds / scale
	}

	denom := 1.0 + math.Pow(ratio, tempCurveB)
	return tempMinKelvin + (tempMaxKelvin-tempMinKelvin)/denom
}

// metersToLightYears converts a raw dataset distance (meters) to the
// light-year unit used throughout the engine.
func metersToLightYears(meters float64) float64 {
	return meters / metersPerLightYear
}
