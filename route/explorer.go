package route

import (
	"fmt"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/a-bouts/regatta-nav/race"
)

// Explorer enumerates the routes of a race. It is safe for concurrent use
// as long as the race is not modified.
type Explorer struct {
	race *race.Race
	ops  atomic.Uint64

	// Workers bounds the goroutines of the concurrent variants, 0 means
	// one per outgoing edge of the start buoy.
	Workers int
}

func NewExplorer(r *race.Race) *Explorer {
	return &Explorer{race: r}
}

// Ops is the number of leg estimations done so far.
func (e *Explorer) Ops() uint64 {
	return e.ops.Load()
}

func (e *Explorer) estimate(from, to int, t float64) (Performance, error) {
	e.ops.Add(1)
	return Estimate(e.race, from, to, t)
}

func (e *Explorer) checkIndex(i int) error {
	if i < 0 || i >= len(e.race.Buoys) {
		return fmt.Errorf("buoy %d of %d: %w", i, len(e.race.Buoys), ErrBuoyIndex)
	}
	return nil
}

// Explore returns every route of exactly numSteps legs from start in depth
// first order. Dead ends short of numSteps yield nothing. maxPaths limits
// the result, 0 means no limit.
func (e *Explorer) Explore(start int, startTime float64, numSteps int, maxPaths int) ([]Path, error) {
	if err := e.checkExplore(start, numSteps, maxPaths); err != nil {
		return nil, err
	}
	return e.sequential(start, startTime, numSteps, maxPaths, fixedDepth())
}

// ExploreToTarget returns the routes from start reaching target within
// maxSteps legs. A route stops as soon as it reaches target.
func (e *Explorer) ExploreToTarget(start, target int, startTime float64, maxSteps int, maxPaths int) ([]Path, error) {
	if err := e.checkTarget(start, target, maxSteps, maxPaths); err != nil {
		return nil, err
	}
	return e.sequential(start, startTime, maxSteps, maxPaths, toTarget(target))
}

// ExploreConcurrent returns the same paths as Explore, walking the
// branches of the start buoy in parallel.
func (e *Explorer) ExploreConcurrent(start int, startTime float64, numSteps int, maxPaths int) ([]Path, error) {
	if err := e.checkExplore(start, numSteps, maxPaths); err != nil {
		return nil, err
	}
	return e.concurrent(start, startTime, numSteps, maxPaths, fixedDepth())
}

// ExploreToTargetConcurrent returns the same paths as ExploreToTarget.
func (e *Explorer) ExploreToTargetConcurrent(start, target int, startTime float64, maxSteps int, maxPaths int) ([]Path, error) {
	if err := e.checkTarget(start, target, maxSteps, maxPaths); err != nil {
		return nil, err
	}
	return e.concurrent(start, startTime, maxSteps, maxPaths, toTarget(target))
}

func (e *Explorer) checkExplore(start, steps, maxPaths int) error {
	if err := e.checkIndex(start); err != nil {
		return err
	}
	if steps < 0 || maxPaths < 0 {
		return fmt.Errorf("steps %d, max paths %d: %w", steps, maxPaths, ErrBudget)
	}
	return nil
}

func (e *Explorer) checkTarget(start, target, steps, maxPaths int) error {
	if err := e.checkExplore(start, steps, maxPaths); err != nil {
		return err
	}
	if err := e.checkIndex(target); err != nil {
		return err
	}
	if start == target {
		return fmt.Errorf("%s: %w", e.race.Buoys[start].Name, ErrSameTarget)
	}
	return nil
}

func (e *Explorer) newSearch(s strategy, maxPaths int) *search {
	return &search{
		explorer: e,
		graph:    e.race.Graph,
		strategy: s,
		maxPaths: maxPaths,
	}
}

func (e *Explorer) sequential(start int, startTime float64, budget int, maxPaths int, s strategy) ([]Path, error) {
	ops := e.Ops()
	sr := e.newSearch(s, maxPaths)
	if err := sr.walk(start, startTime, budget, make(Usage, e.race.Graph.Slots()), nil); err != nil {
		return nil, err
	}
	log.Debugf("Explore from %s : %d paths, %d ops", e.race.Buoys[start].Name, len(sr.paths), e.Ops()-ops)
	return sr.paths, nil
}

type branch struct {
	paths []Path
	err   error
}

// concurrent runs one search per outgoing edge of start, each bounded by
// maxPaths, and merges them in adjacency order. A branch error only
// surfaces when the sequential walk would have reached it.
func (e *Explorer) concurrent(start int, startTime float64, budget int, maxPaths int, s strategy) ([]Path, error) {
	if stop, _ := s.terminal(start, budget); stop {
		return e.sequential(start, startTime, budget, maxPaths, s)
	}

	ops := e.Ops()
	edges := e.race.Graph.Outgoing(start)
	branches := make([]branch, len(edges))
	usage := make(Usage, e.race.Graph.Slots())

	var g errgroup.Group
	if e.Workers > 0 {
		g.SetLimit(e.Workers)
	}
	for i, ei := range edges {
		i, ei := i, ei
		g.Go(func() error {
			sr := e.newSearch(s, maxPaths)
			err := sr.follow(ei, startTime, budget, usage, nil)
			branches[i] = branch{paths: sr.paths, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var paths []Path
	for _, b := range branches {
		left := len(b.paths)
		if maxPaths > 0 {
			left = min(left, maxPaths-len(paths))
		}
		paths = append(paths, b.paths[:left]...)
		if maxPaths > 0 && len(paths) >= maxPaths {
			break
		}
		if b.err != nil {
			return nil, b.err
		}
	}

	log.Debugf("Explore from %s : %d paths, %d ops on %d branches", e.race.Buoys[start].Name, len(paths), e.Ops()-ops, len(edges))
	return paths, nil
}
