package route

import (
	"github.com/a-bouts/regatta-nav/race"
)

// strategy parameterises the walk. terminal reports whether the walk stops
// at node with budget steps left, and whether the steps so far form a
// path. admit is checked after the usage limit of an edge.
type strategy struct {
	terminal func(node int, budget int) (stop bool, keep bool)
	admit    func(e race.Edge, usage Usage) bool
}

func fixedDepth() strategy {
	return strategy{
		terminal: func(node int, budget int) (bool, bool) {
			return budget <= 0, true
		},
		admit: func(race.Edge, Usage) bool {
			return true
		},
	}
}

func toTarget(target int) strategy {
	return strategy{
		terminal: func(node int, budget int) (bool, bool) {
			if node == target {
				return true, true
			}
			return budget <= 0, false
		},
		admit: func(e race.Edge, usage Usage) bool {
			return e.Kind != race.LegEdge || usage[e.Slot] < MaxLegUses
		},
	}
}

type search struct {
	explorer *Explorer
	graph    *race.Graph
	strategy strategy
	maxPaths int
	paths    []Path
}

func (s *search) full() bool {
	return s.maxPaths > 0 && len(s.paths) >= s.maxPaths
}

func (s *search) walk(node int, t float64, budget int, usage Usage, steps []Step) error {
	if stop, keep := s.strategy.terminal(node, budget); stop {
		if keep && !s.full() {
			s.paths = append(s.paths, newPath(steps, t))
		}
		return nil
	}

	for _, ei := range s.graph.Outgoing(node) {
		if s.full() {
			break
		}
		if err := s.follow(ei, t, budget, usage, steps); err != nil {
			return err
		}
	}
	return nil
}

// follow sails edge ei leaving at t, then keeps walking from its end.
func (s *search) follow(ei int, t float64, budget int, usage Usage, steps []Step) error {
	e := s.graph.Edges[ei]
	if usage[e.Slot] >= s.graph.Limits[e.Slot] || !s.strategy.admit(e, usage) {
		return nil
	}

	p, err := s.explorer.estimate(e.From, e.To, t)
	if err != nil {
		return err
	}
	speed := p.Speed
	if speed == 0 {
		speed = 1
	}
	end := t + e.Distance/speed

	next := make([]Step, len(steps), len(steps)+1)
	copy(next, steps)
	next = append(next, Step{
		From:      e.From,
		To:        e.To,
		Edge:      ei,
		Distance:  e.Distance,
		Speed:     speed,
		StartTime: t,
		EndTime:   end,
	})

	return s.walk(e.To, end, budget-1, usage.with(e.Slot), next)
}
