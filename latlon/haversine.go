package latlon

import "math"

type Haversine struct{}

// BearingTo returns the initial great-circle bearing from one position to
// another, in degrees within [0, 360).
func (Haversine) BearingTo(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)

	Δλ := toRadians(to.Lon - from.Lon)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	y := math.Sin(Δλ) * math.Cos(φ2)
	θ := math.Atan2(y, x)

	return wrap360(toDegrees(θ))
}

// DistanceTo returns the great-circle distance in nautical miles.
func (Haversine) DistanceTo(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1

	Δλ := toRadians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	δ := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * δ
}

func (hav Haversine) DistanceAndBearingTo(from, to LatLon) (float64, float64) {
	return hav.DistanceTo(from, to), hav.BearingTo(from, to)
}
