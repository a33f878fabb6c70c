package race

import (
	"strings"

	"github.com/a-bouts/regatta-nav/land"
	"github.com/a-bouts/regatta-nav/latlon"
	"github.com/a-bouts/regatta-nav/polar"
	"github.com/a-bouts/regatta-nav/wind"
)

// Race is a loaded course with its boat and weather. It is never mutated
// after New; WithWind returns a new snapshot.
type Race struct {
	Name     string
	Duration float64
	Buoys    []Buoy
	Starts   []Start
	Legs     []Leg
	Graph    *Graph
	Polar    *polar.Table
	Wind     *wind.Schedule

	index map[string]int
}

func New(name string, duration float64, buoys []Buoy, starts []Start, legs []Leg, p *polar.Table, w *wind.Schedule) (*Race, error) {
	g, index, err := BuildGraph(buoys, starts, legs)
	if err != nil {
		return nil, err
	}
	return &Race{
		Name:     name,
		Duration: duration,
		Buoys:    buoys,
		Starts:   starts,
		Legs:     legs,
		Graph:    g,
		Polar:    p,
		Wind:     w,
		index:    index,
	}, nil
}

func (r *Race) BuoyIndex(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

func (r *Race) Buoy(name string) (Buoy, bool) {
	i, ok := r.index[name]
	if !ok {
		return Buoy{}, false
	}
	return r.Buoys[i], true
}

// BuoysByKind returns the buoys of kind k in table order.
func (r *Race) BuoysByKind(k Kind) []Buoy {
	var buoys []Buoy
	for _, b := range r.Buoys {
		if b.Kind == k {
			buoys = append(buoys, b)
		}
	}
	return buoys
}

// BuoysByType matches the raw type column, ignoring case.
func (r *Race) BuoysByType(t string) []Buoy {
	var buoys []Buoy
	for _, b := range r.Buoys {
		if strings.EqualFold(b.Type, t) {
			buoys = append(buoys, b)
		}
	}
	return buoys
}

func (r *Race) WithWind(w *wind.Schedule) *Race {
	c := *r
	c.Wind = w
	return &c
}

// Centre is the mean position of the resolved buoys.
func (r *Race) Centre() (latlon.LatLon, bool) {
	var lat, lon float64
	n := 0
	for _, b := range r.Buoys {
		if p, ok := b.Location(); ok {
			lat += p.Lat
			lon += p.Lon
			n++
		}
	}
	if n == 0 {
		return latlon.LatLon{}, false
	}
	return latlon.LatLon{Lat: lat / float64(n), Lon: lon / float64(n)}, true
}

// OnLand lists the resolved buoys that the land mask puts ashore.
func (r *Race) OnLand(l *land.Land) []string {
	var names []string
	for _, b := range r.Buoys {
		if p, ok := b.Location(); ok && l.IsLand(p.Lat, p.Lon) {
			names = append(names, b.Name)
		}
	}
	return names
}
