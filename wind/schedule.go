package wind

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrEmptySchedule = errors.New("empty wind schedule")
	ErrUnsorted      = errors.New("wind samples are not strictly sorted by hour")
)

// Sample is the wind at a given elapsed race hour. Speed is in knots,
// Direction is where the wind blows from, in degrees.
type Sample struct {
	Hour      float64 `json:"hour"`
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
}

// Schedule is an immutable, hour-sorted sequence of wind samples.
type Schedule struct {
	samples []Sample
}

func New(samples []Sample) (*Schedule, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySchedule
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Hour <= samples[i-1].Hour {
			return nil, fmt.Errorf("%w: hour %v follows %v", ErrUnsorted, samples[i].Hour, samples[i-1].Hour)
		}
	}
	s := make([]Sample, len(samples))
	copy(s, samples)
	return &Schedule{samples: s}, nil
}

func (s *Schedule) Len() int {
	return len(s.samples)
}

func (s *Schedule) Samples() []Sample {
	res := make([]Sample, len(s.samples))
	copy(res, s.samples)
	return res
}

// At returns the wind at time t (elapsed hours). Between two samples speed
// and direction are linearly interpolated; outside the sampled range the
// boundary sample is returned as is.
func (s *Schedule) At(t float64) (Sample, bool) {
	n := len(s.samples)
	if n == 0 || math.IsNaN(t) {
		return Sample{}, false
	}
	if t <= s.samples[0].Hour {
		return s.samples[0], true
	}
	if t >= s.samples[n-1].Hour {
		return s.samples[n-1], true
	}

	i := sort.Search(n, func(i int) bool { return s.samples[i].Hour > t })
	w0 := s.samples[i-1]
	w1 := s.samples[i]
	if t == w0.Hour {
		return w0, true
	}

	h := (t - w0.Hour) / (w1.Hour - w0.Hour)
	return Sample{
		Hour:      t,
		Speed:     w0.Speed + h*(w1.Speed-w0.Speed),
		Direction: w0.Direction + h*(w1.Direction-w0.Direction),
	}, true
}

// AtHour returns the sample recorded exactly at hour h.
func (s *Schedule) AtHour(h int) (Sample, bool) {
	hour := float64(h)
	i := sort.Search(len(s.samples), func(i int) bool { return s.samples[i].Hour >= hour })
	if i < len(s.samples) && s.samples[i].Hour == hour {
		return s.samples[i], true
	}
	return Sample{}, false
}
