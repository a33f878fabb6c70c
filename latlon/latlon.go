package latlon

import "math"

// R is the mean earth radius in nautical miles.
const R = 3440.065

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toRadians(a float64) float64 {
	return a * math.Pi / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / math.Pi
}

// wrap360 folds d into [0, 360). NaN stays NaN.
func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	w := math.Mod(d, 360.0)
	if w < 0 {
		w += 360.0
	}
	if w >= 360.0 {
		w -= 360.0
	}
	return w
}
