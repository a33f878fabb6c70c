package route

import "sort"

// MaxLegUses caps how often a leg may be sailed when searching for a
// target, whatever its MaxNumber.
const MaxLegUses = 2

type Step struct {
	From      int     `json:"from"`
	To        int     `json:"to"`
	Edge      int     `json:"edge"`
	Distance  float64 `json:"distance"`
	Speed     float64 `json:"speed"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

type Path struct {
	Steps    []Step  `json:"steps"`
	Distance float64 `json:"total_distance"`
	EndTime  float64 `json:"end_time"`
}

// Usage counts the traversals of every start and leg, indexed by graph
// slot.
type Usage []int

func (u Usage) with(slot int) Usage {
	c := make(Usage, len(u))
	copy(c, u)
	c[slot]++
	return c
}

func newPath(steps []Step, t float64) Path {
	if steps == nil {
		steps = []Step{}
	}
	p := Path{Steps: steps, EndTime: t}
	for _, s := range steps {
		p.Distance += s.Distance
	}
	return p
}

// Fastest returns the path ending first. Ties keep the first one.
func Fastest(paths []Path) (Path, bool) {
	if len(paths) == 0 {
		return Path{}, false
	}
	best := paths[0]
	for _, p := range paths[1:] {
		if p.EndTime < best.EndTime {
			best = p
		}
	}
	return best, true
}

// Longest returns the path covering the most distance. Ties keep the
// first one.
func Longest(paths []Path) (Path, bool) {
	if len(paths) == 0 {
		return Path{}, false
	}
	best := paths[0]
	for _, p := range paths[1:] {
		if p.Distance > best.Distance {
			best = p
		}
	}
	return best, true
}

// SortByDistance orders paths by decreasing distance, then by end time.
func SortByDistance(paths []Path) {
	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].Distance != paths[j].Distance {
			return paths[i].Distance > paths[j].Distance
		}
		return paths[i].EndTime < paths[j].EndTime
	})
}
