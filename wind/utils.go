package wind

import "math"

// RelativeBearing is the angle between the course and the wind direction,
// folded into [0, 180]. Port and starboard are not distinguished.
func RelativeBearing(course, wind float64) float64 {
	twa := math.Abs(wind - course)
	if twa > 180 {
		twa = 360 - twa
	}
	return twa
}

