package route

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/regatta-nav/latlon"
	"github.com/a-bouts/regatta-nav/race"
	"github.com/a-bouts/regatta-nav/wind"
)

var (
	ErrBuoyIndex          = errors.New("buoy index out of range")
	ErrUnresolvedPosition = errors.New("buoy position unresolved")
	ErrSameTarget         = errors.New("start and target must be different buoys")
	ErrNoWind             = errors.New("no wind available")
	ErrBudget             = errors.New("negative step or path budget")
)

// Performance is the expected behaviour of the boat on one directed leg.
type Performance struct {
	Speed           float64 `json:"estimated_speed"`
	CourseBearing   float64 `json:"course_bearing"`
	WindDirection   float64 `json:"wind_direction"`
	RelativeBearing float64 `json:"relative_bearing"`
	WindSpeed       float64 `json:"wind_speed"`
}

var hav latlon.Haversine

// Estimate returns the boat speed from buoy from to buoy to when leaving
// at t hours after the race start.
func Estimate(r *race.Race, from, to int, t float64) (Performance, error) {
	if from < 0 || from >= len(r.Buoys) || to < 0 || to >= len(r.Buoys) {
		return Performance{}, fmt.Errorf("%d -> %d: %w", from, to, ErrBuoyIndex)
	}

	a, ok := r.Buoys[from].Location()
	if !ok {
		return Performance{}, fmt.Errorf("%s: %w", r.Buoys[from].Name, ErrUnresolvedPosition)
	}
	b, ok := r.Buoys[to].Location()
	if !ok {
		return Performance{}, fmt.Errorf("%s: %w", r.Buoys[to].Name, ErrUnresolvedPosition)
	}

	w, ok := windAt(r.Wind, t)
	if !ok {
		return Performance{}, fmt.Errorf("at %.2fh: %w", t, ErrNoWind)
	}

	p := Performance{
		CourseBearing: hav.BearingTo(a, b),
		WindDirection: w.Direction,
		WindSpeed:     w.Speed,
	}
	p.RelativeBearing = wind.RelativeBearing(p.CourseBearing, w.Direction)
	p.Speed = r.Polar.BoatSpeed(p.RelativeBearing, w.Speed)
	return p, nil
}

func windAt(s *wind.Schedule, t float64) (wind.Sample, bool) {
	if s == nil {
		return wind.Sample{}, false
	}
	if w, ok := s.At(t); ok {
		return w, true
	}

	h := 0
	if !math.IsNaN(t) {
		h = int(math.Max(0, math.Min(24, math.Floor(t))))
	}
	if w, ok := s.AtHour(h); ok {
		log.Debugf("No interpolated wind at %v, using hour %d", t, h)
		return w, true
	}
	log.Debugf("No wind at %v, using hour 0", t)
	return s.AtHour(0)
}
