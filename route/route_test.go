package route

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/regatta-nav/latlon"
	"github.com/a-bouts/regatta-nav/polar"
	"github.com/a-bouts/regatta-nav/race"
	"github.com/a-bouts/regatta-nav/wind"
)

func buoy(name string, lat, lon float64) race.Buoy {
	return race.NewBuoy(name, race.TurningMark).At(latlon.LatLon{Lat: lat, Lon: lon})
}

func constantPolar(t *testing.T, speed float64) *polar.Table {
	p, err := polar.New([]float64{10}, []float64{0, 180}, [][]float64{{speed}, {speed}})
	require.NoError(t, err)
	return p
}

func constantWind(t *testing.T, speed, direction float64) *wind.Schedule {
	w, err := wind.New([]wind.Sample{
		{Hour: 0, Speed: speed, Direction: direction},
		{Hour: 24, Speed: speed, Direction: direction},
	})
	require.NoError(t, err)
	return w
}

// abc is A(0,0) B(0,1) C(1,1) with legs A-B and B-C of 1nm, 5kt
// everywhere and a constant 10kt easterly.
func abc(t *testing.T, maxAB, maxBC int) *race.Race {
	r, err := race.New("abc", 24,
		[]race.Buoy{buoy("A", 0, 0), buoy("B", 0, 1), buoy("C", 1, 1)},
		nil,
		[]race.Leg{
			{From: "A", To: "B", Distance: 1, MaxNumber: maxAB},
			{From: "B", To: "C", Distance: 1, MaxNumber: maxBC},
		},
		constantPolar(t, 5),
		constantWind(t, 10, 90),
	)
	require.NoError(t, err)
	return r
}

// course is a small start, four marks and a finish with a changing wind.
func course(t *testing.T) *race.Race {
	p, err := polar.New(
		[]float64{6, 12},
		[]float64{0, 45, 90, 135, 180},
		[][]float64{
			{1, 2},
			{4.5, 6},
			{5.5, 7.5},
			{5, 7},
			{4, 5.5},
		})
	require.NoError(t, err)

	w, err := wind.New([]wind.Sample{
		{Hour: 0, Speed: 8, Direction: 200},
		{Hour: 12, Speed: 14, Direction: 250},
		{Hour: 24, Speed: 6, Direction: 180},
	})
	require.NoError(t, err)

	r, err := race.New("course", 24,
		[]race.Buoy{
			race.NewBuoy("S", race.StartMark).At(latlon.LatLon{Lat: 0, Lon: 0}),
			buoy("A", 0, 0.1),
			buoy("B", 0.1, 0.1),
			buoy("C", 0.1, 0),
			race.NewBuoy("F", race.FinishMark).At(latlon.LatLon{Lat: 0.05, Lon: 0.05}),
		},
		[]race.Start{{From: "S", To: "A", Distance: 6, MaxNumber: 1}},
		[]race.Leg{
			{From: "A", To: "B", Distance: 6, MaxNumber: 3},
			{From: "B", To: "C", Distance: 6, MaxNumber: 2},
			{From: "C", To: "A", Distance: 8.5, MaxNumber: 1},
			{From: "A", To: "F", Distance: 4, MaxNumber: 2},
			{From: "B", To: "F", Distance: 4, MaxNumber: 1},
			{From: "C", To: "F", Distance: 4, MaxNumber: 2},
		},
		p, w,
	)
	require.NoError(t, err)
	return r
}

func names(r *race.Race, p Path) []string {
	if len(p.Steps) == 0 {
		return nil
	}
	n := []string{r.Buoys[p.Steps[0].From].Name}
	for _, s := range p.Steps {
		n = append(n, r.Buoys[s.To].Name)
	}
	return n
}

func TestEstimate(t *testing.T) {
	r := abc(t, 2, 2)

	p, err := Estimate(r, 0, 1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 90, p.CourseBearing, 1e-9)
	assert.Equal(t, 90.0, p.WindDirection)
	assert.Equal(t, 10.0, p.WindSpeed)
	assert.InDelta(t, 0, p.RelativeBearing, 1e-9)
	assert.Equal(t, 5.0, p.Speed)

	p, err = Estimate(r, 2, 1, 30)
	require.NoError(t, err)
	assert.InDelta(t, 180, p.CourseBearing, 1e-9)
	assert.InDelta(t, 90, p.RelativeBearing, 1e-9)
}

func TestEstimateErrors(t *testing.T) {
	r, err := race.New("x", 24,
		[]race.Buoy{buoy("A", 0, 0), race.NewBuoy("X", race.TurningMark)},
		nil, nil, constantPolar(t, 5), constantWind(t, 10, 0))
	require.NoError(t, err)

	_, err = Estimate(r, 0, 1, 0)
	assert.True(t, errors.Is(err, ErrUnresolvedPosition), "err = %v", err)
	_, err = Estimate(r, 1, 0, 0)
	assert.True(t, errors.Is(err, ErrUnresolvedPosition), "err = %v", err)
	_, err = Estimate(r, 0, 2, 0)
	assert.True(t, errors.Is(err, ErrBuoyIndex), "err = %v", err)
	_, err = Estimate(r, -1, 0, 0)
	assert.True(t, errors.Is(err, ErrBuoyIndex), "err = %v", err)

	_, err = Estimate(abc(t, 1, 1).WithWind(nil), 0, 1, 0)
	assert.True(t, errors.Is(err, ErrNoWind), "err = %v", err)
}

func TestEstimateProperties(t *testing.T) {
	r := course(t)
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("bearings stay in range", prop.ForAll(
		func(from, to int, at float64) bool {
			p, err := Estimate(r, from, to, at)
			if err != nil {
				return false
			}
			return p.CourseBearing >= 0 && p.CourseBearing < 360 &&
				p.RelativeBearing >= 0 && p.RelativeBearing <= 180
		},
		gen.IntRange(0, 4),
		gen.IntRange(0, 4),
		gen.Float64Range(-5, 30),
	))

	properties.Property("estimate is idempotent", prop.ForAll(
		func(from, to int, at float64) bool {
			p1, err1 := Estimate(r, from, to, at)
			p2, err2 := Estimate(r, from, to, at)
			return err1 == nil && err2 == nil && p1 == p2
		},
		gen.IntRange(0, 4),
		gen.IntRange(0, 4),
		gen.Float64Range(0, 24),
	))

	properties.TestingRun(t)
}

func TestExploreScenario(t *testing.T) {
	r := abc(t, 1, 2)
	e := NewExplorer(r)

	paths, err := e.Explore(0, 0, 2, 0)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	p := paths[0]
	assert.Equal(t, []string{"A", "B", "C"}, names(r, p))
	assert.InDelta(t, 2, p.Distance, 1e-12)
	assert.InDelta(t, 0.4, p.EndTime, 1e-12)
	assert.InDelta(t, 0.2, p.Steps[0].EndTime, 1e-12)
	assert.Equal(t, p.Steps[0].EndTime, p.Steps[1].StartTime)
	assert.Equal(t, 5.0, p.Steps[1].Speed)
}

func TestExploreReversesLegs(t *testing.T) {
	r := abc(t, 2, 2)

	paths, err := NewExplorer(r).Explore(0, 0, 2, 0)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, []string{"A", "B", "A"}, names(r, paths[0]))
	assert.Equal(t, []string{"A", "B", "C"}, names(r, paths[1]))
	assert.InDelta(t, 0.4, paths[1].EndTime, 1e-12)
}

func TestExploreWeightsDependOnDepartureTime(t *testing.T) {
	// boat speed equals wind speed, which rises from 2kt to 8kt in the first hour
	p, err := polar.New([]float64{2, 8}, []float64{0, 180}, [][]float64{{2, 8}, {2, 8}})
	require.NoError(t, err)
	w, err := wind.New([]wind.Sample{
		{Hour: 0, Speed: 2, Direction: 90},
		{Hour: 1, Speed: 8, Direction: 90},
		{Hour: 24, Speed: 8, Direction: 90},
	})
	require.NoError(t, err)
	r, err := race.New("ab", 24,
		[]race.Buoy{buoy("A", 0, 0), buoy("B", 0, 1)},
		nil,
		[]race.Leg{{From: "A", To: "B", Distance: 2, MaxNumber: 2}},
		p, w,
	)
	require.NoError(t, err)

	paths, err := NewExplorer(r).Explore(0, 0, 2, 0)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Len(t, paths[0].Steps, 2)

	out, back := paths[0].Steps[0], paths[0].Steps[1]
	assert.Equal(t, 2.0, out.Speed)
	assert.Equal(t, 0.0, out.StartTime)
	assert.InDelta(t, 1.0, out.EndTime, 1e-12)
	assert.Equal(t, 8.0, back.Speed)
	assert.InDelta(t, 1.0, back.StartTime, 1e-12)
	assert.InDelta(t, 1.25, back.EndTime, 1e-12)
	assert.InDelta(t, 1.25, paths[0].EndTime, 1e-12)
	assert.Equal(t, 4.0, paths[0].Distance)
}

func TestExploreNoSteps(t *testing.T) {
	e := NewExplorer(abc(t, 2, 2))

	paths, err := e.Explore(1, 3.5, 0, 0)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Empty(t, paths[0].Steps)
	assert.NotNil(t, paths[0].Steps)
	assert.Equal(t, 3.5, paths[0].EndTime)
	assert.Equal(t, 0.0, paths[0].Distance)
	assert.Equal(t, uint64(0), e.Ops())
}

func TestExploreOps(t *testing.T) {
	e := NewExplorer(abc(t, 2, 2))
	_, err := e.Explore(0, 0, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), e.Ops())
}

func TestExploreDeadEnd(t *testing.T) {
	paths, err := NewExplorer(abc(t, 1, 1)).Explore(0, 0, 3, 0)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestExploreRespectsLimits(t *testing.T) {
	r := course(t)
	paths, err := NewExplorer(r).Explore(0, 0, 5, 0)
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, p := range paths {
		assert.Len(t, p.Steps, 5)
		usage := make(Usage, r.Graph.Slots())
		for i, s := range p.Steps {
			usage[r.Graph.Edges[s.Edge].Slot]++
			if i > 0 {
				assert.Equal(t, p.Steps[i-1].To, s.From)
				assert.Equal(t, p.Steps[i-1].EndTime, s.StartTime)
			}
			assert.Greater(t, s.EndTime, s.StartTime)
		}
		for slot, n := range usage {
			assert.LessOrEqual(t, n, r.Graph.Limits[slot])
		}
	}
}

func TestExploreMaxPaths(t *testing.T) {
	e := NewExplorer(course(t))

	all, err := e.Explore(0, 1, 4, 0)
	require.NoError(t, err)
	require.Greater(t, len(all), 3)

	some, err := e.Explore(0, 1, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, all[:3], some)

	many, err := e.Explore(0, 1, 4, len(all)+10)
	require.NoError(t, err)
	assert.Equal(t, all, many)
}

func TestExploreZeroSpeed(t *testing.T) {
	r, err := race.New("calm", 24,
		[]race.Buoy{buoy("A", 0, 0), buoy("B", 0, 1)},
		nil,
		[]race.Leg{{From: "A", To: "B", Distance: 3, MaxNumber: 1}},
		constantPolar(t, 0),
		constantWind(t, 10, 0),
	)
	require.NoError(t, err)

	paths, err := NewExplorer(r).Explore(0, 2, 1, 0)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, 1.0, paths[0].Steps[0].Speed)
	assert.Equal(t, 5.0, paths[0].EndTime)
}

func TestExploreErrors(t *testing.T) {
	e := NewExplorer(abc(t, 1, 1))

	_, err := e.Explore(-1, 0, 1, 0)
	assert.True(t, errors.Is(err, ErrBuoyIndex), "err = %v", err)
	_, err = e.Explore(3, 0, 1, 0)
	assert.True(t, errors.Is(err, ErrBuoyIndex), "err = %v", err)
	_, err = e.Explore(0, 0, -1, 0)
	assert.True(t, errors.Is(err, ErrBudget), "err = %v", err)
	_, err = e.ExploreToTarget(0, 3, 0, 1, 0)
	assert.True(t, errors.Is(err, ErrBuoyIndex), "err = %v", err)
	_, err = e.ExploreToTarget(1, 1, 0, 1, 0)
	assert.True(t, errors.Is(err, ErrSameTarget), "err = %v", err)
	_, err = e.ExploreToTargetConcurrent(1, 1, 0, 1, 0)
	assert.True(t, errors.Is(err, ErrSameTarget), "err = %v", err)
}

// unresolved has A with a leg to B and then a leg to X, which has no
// position.
func unresolved(t *testing.T) *race.Race {
	r, err := race.New("unresolved", 24,
		[]race.Buoy{buoy("A", 0, 0), buoy("B", 0, 1), race.NewBuoy("X", race.TurningMark)},
		nil,
		[]race.Leg{
			{From: "A", To: "B", Distance: 1, MaxNumber: 1},
			{From: "A", To: "X", Distance: 1, MaxNumber: 1},
		},
		constantPolar(t, 5),
		constantWind(t, 10, 90),
	)
	require.NoError(t, err)
	return r
}

func TestExploreFailsFast(t *testing.T) {
	e := NewExplorer(unresolved(t))

	paths, err := e.Explore(0, 0, 1, 0)
	assert.True(t, errors.Is(err, ErrUnresolvedPosition), "err = %v", err)
	assert.Nil(t, paths)

	paths, err = e.ExploreConcurrent(0, 0, 1, 0)
	assert.True(t, errors.Is(err, ErrUnresolvedPosition), "err = %v", err)
	assert.Nil(t, paths)
}

func TestExploreStopsBeforeUnreachedError(t *testing.T) {
	e := NewExplorer(unresolved(t))

	paths, err := e.Explore(0, 0, 1, 1)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	concurrent, err := e.ExploreConcurrent(0, 0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, paths, concurrent)
}

func TestExploreToTarget(t *testing.T) {
	r := abc(t, 2, 2)

	paths, err := NewExplorer(r).ExploreToTarget(0, 2, 0, 3, 0)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"A", "B", "C"}, names(r, paths[0]))
	assert.InDelta(t, 0.4, paths[0].EndTime, 1e-12)
}

func TestExploreToTargetCapsLegs(t *testing.T) {
	r := abc(t, 5, 5)
	e := NewExplorer(r)

	paths, err := e.ExploreToTarget(0, 2, 0, 4, 0)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"A", "B", "C"}, names(r, paths[0]))

	// Fixed depth walks are only bound by MaxNumber.
	paths, err = e.Explore(0, 0, 3, 0)
	require.NoError(t, err)
	assert.Contains(t, pathNames(r, paths), "A-B-A-B")
}

func pathNames(r *race.Race, paths []Path) []string {
	var all []string
	for _, p := range paths {
		s := ""
		for i, n := range names(r, p) {
			if i > 0 {
				s += "-"
			}
			s += n
		}
		all = append(all, s)
	}
	return all
}

func TestExploreToTargetProperties(t *testing.T) {
	r := course(t)
	e := NewExplorer(r)

	for target := 1; target < len(r.Buoys); target++ {
		paths, err := e.ExploreToTarget(0, target, 2, 6, 0)
		require.NoError(t, err)
		require.NotEmpty(t, paths, "target %s", r.Buoys[target].Name)

		for _, p := range paths {
			require.NotEmpty(t, p.Steps)
			assert.LessOrEqual(t, len(p.Steps), 6)
			assert.Equal(t, target, p.Steps[len(p.Steps)-1].To)

			usage := make(Usage, r.Graph.Slots())
			for i, s := range p.Steps {
				if i < len(p.Steps)-1 {
					assert.NotEqual(t, target, s.To, "path continues past its target")
				}
				edge := r.Graph.Edges[s.Edge]
				usage[edge.Slot]++
				if edge.Kind == race.LegEdge {
					assert.LessOrEqual(t, usage[edge.Slot], MaxLegUses)
				}
			}
			for slot, n := range usage {
				assert.LessOrEqual(t, n, r.Graph.Limits[slot])
			}
		}
	}
}

func TestExploreConcurrentMatchesSequential(t *testing.T) {
	r := course(t)

	for _, workers := range []int{0, 1, 2} {
		for start := range r.Buoys {
			for _, steps := range []int{0, 1, 3, 5} {
				for _, maxPaths := range []int{0, 1, 7, 50} {
					e := NewExplorer(r)
					e.Workers = workers

					want, err := e.Explore(start, 1.5, steps, maxPaths)
					require.NoError(t, err)
					got, err := e.ExploreConcurrent(start, 1.5, steps, maxPaths)
					require.NoError(t, err)
					assert.Equal(t, want, got, "start %d steps %d max %d", start, steps, maxPaths)

					target := (start + 2) % len(r.Buoys)
					want, err = e.ExploreToTarget(start, target, 1.5, steps+1, maxPaths)
					require.NoError(t, err)
					got, err = e.ExploreToTargetConcurrent(start, target, 1.5, steps+1, maxPaths)
					require.NoError(t, err)
					assert.Equal(t, want, got, "start %d target %d steps %d max %d", start, target, steps+1, maxPaths)
				}
			}
		}
	}
}

func TestFastestAndLongest(t *testing.T) {
	paths := []Path{
		{Distance: 10, EndTime: 3},
		{Distance: 12, EndTime: 2},
		{Distance: 12, EndTime: 2.5},
		{Distance: 4, EndTime: 2},
	}

	f, ok := Fastest(paths)
	assert.True(t, ok)
	assert.Equal(t, paths[1], f)

	l, ok := Longest(paths)
	assert.True(t, ok)
	assert.Equal(t, paths[1], l)

	_, ok = Fastest(nil)
	assert.False(t, ok)

	SortByDistance(paths)
	assert.Equal(t, []float64{12, 12, 10, 4}, []float64{paths[0].Distance, paths[1].Distance, paths[2].Distance, paths[3].Distance})
	assert.Equal(t, 2.0, paths[0].EndTime)
}
