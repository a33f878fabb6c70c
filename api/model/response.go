package model

import (
	"sort"

	"github.com/a-bouts/regatta-nav/race"
	"github.com/a-bouts/regatta-nav/route"
)

type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Buoy struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
}

func NewBuoys(r *race.Race) []Buoy {
	buoys := make([]Buoy, len(r.Buoys))
	for i, b := range r.Buoys {
		buoys[i] = Buoy{
			Name:        b.Name,
			Type:        b.Type,
			Kind:        b.Kind.String(),
			Description: b.Description,
		}
		if p, ok := b.Location(); ok {
			buoys[i].Lat = &p.Lat
			buoys[i].Lon = &p.Lon
		}
	}
	return buoys
}

// SortedLegs returns the legs ordered by From then To.
func SortedLegs(r *race.Race) []race.Leg {
	legs := make([]race.Leg, len(r.Legs))
	copy(legs, r.Legs)
	sort.SliceStable(legs, func(i, j int) bool {
		if legs[i].From != legs[j].From {
			return legs[i].From < legs[j].From
		}
		return legs[i].To < legs[j].To
	})
	return legs
}

type Estimate struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Time float64 `json:"time"`
	route.Performance
}

type Step struct {
	route.Step
	FromName string `json:"from_name"`
	ToName   string `json:"to_name"`
}

type Path struct {
	Steps    []Step  `json:"steps"`
	Distance float64 `json:"total_distance"`
	EndTime  float64 `json:"end_time"`
}

type Paths struct {
	Start     string  `json:"start"`
	Target    string  `json:"target,omitempty"`
	StartTime float64 `json:"start_time"`
	Steps     int     `json:"steps"`
	MaxPaths  int     `json:"max_paths"`
	Count     int     `json:"count"`
	Paths     []Path  `json:"paths"`
}

// NewPaths names the buoys of every step.
func NewPaths(r *race.Race, paths []route.Path) []Path {
	res := make([]Path, len(paths))
	for i, p := range paths {
		steps := make([]Step, len(p.Steps))
		for j, s := range p.Steps {
			steps[j] = Step{
				Step:     s,
				FromName: r.Buoys[s.From].Name,
				ToName:   r.Buoys[s.To].Name,
			}
		}
		res[i] = Path{Steps: steps, Distance: p.Distance, EndTime: p.EndTime}
	}
	return res
}
