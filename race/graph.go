package race

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownBuoy   = errors.New("unknown buoy")
	ErrDuplicateBuoy = errors.New("duplicate buoy name")
)

// EdgeKind tells which table an edge was built from.
type EdgeKind uint8

const (
	StartEdge EdgeKind = iota
	LegEdge
)

func (k EdgeKind) String() string {
	if k == StartEdge {
		return "start"
	}
	return "leg"
}

// Edge is a directed, sailable connection between two buoys. Both
// directions of a leg share the same Entity and Slot.
type Edge struct {
	From     int
	To       int
	Kind     EdgeKind
	Entity   int
	Slot     int
	Distance float64
}

// Graph is the course as an arena: nodes are buoy indices, edges are
// indices into Edges, and Limits holds the MaxNumber of every usage slot.
type Graph struct {
	Edges     []Edge
	Adjacency [][]int
	Limits    []int

	starts int
}

func (g *Graph) Nodes() int {
	return len(g.Adjacency)
}

// Slots is the length of a usage vector for this graph.
func (g *Graph) Slots() int {
	return len(g.Limits)
}

func (g *Graph) Outgoing(node int) []int {
	return g.Adjacency[node]
}

// StartSlot and LegSlot give the usage slot of a start or leg entity.
func (g *Graph) StartSlot(i int) int {
	return i
}

func (g *Graph) LegSlot(j int) int {
	return g.starts + j
}

// BuildGraph indexes buoys in table order and adds one edge per start
// followed by a forward and a reverse edge per leg.
func BuildGraph(buoys []Buoy, starts []Start, legs []Leg) (*Graph, map[string]int, error) {
	index := make(map[string]int, len(buoys))
	for i, b := range buoys {
		if _, ok := index[b.Name]; ok {
			return nil, nil, fmt.Errorf("buoy %q: %w", b.Name, ErrDuplicateBuoy)
		}
		index[b.Name] = i
	}

	g := &Graph{
		Edges:     make([]Edge, 0, len(starts)+2*len(legs)),
		Adjacency: make([][]int, len(buoys)),
		Limits:    make([]int, 0, len(starts)+len(legs)),
		starts:    len(starts),
	}

	lookup := func(table string, row int, name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("%s row %d references %q: %w", table, row, name, ErrUnknownBuoy)
		}
		return i, nil
	}

	for i, s := range starts {
		from, err := lookup("starts", i, s.From)
		if err != nil {
			return nil, nil, err
		}
		to, err := lookup("starts", i, s.To)
		if err != nil {
			return nil, nil, err
		}
		slot := g.StartSlot(i)
		g.Limits = append(g.Limits, s.MaxNumber)
		g.addEdge(Edge{From: from, To: to, Kind: StartEdge, Entity: i, Slot: slot, Distance: s.Distance})
	}

	for j, l := range legs {
		from, err := lookup("legs", j, l.From)
		if err != nil {
			return nil, nil, err
		}
		to, err := lookup("legs", j, l.To)
		if err != nil {
			return nil, nil, err
		}
		slot := g.LegSlot(j)
		g.Limits = append(g.Limits, l.MaxNumber)
		g.addEdge(Edge{From: from, To: to, Kind: LegEdge, Entity: j, Slot: slot, Distance: l.Distance})
		g.addEdge(Edge{From: to, To: from, Kind: LegEdge, Entity: j, Slot: slot, Distance: l.Distance})
	}

	return g, index, nil
}

func (g *Graph) addEdge(e Edge) {
	g.Edges = append(g.Edges, e)
	g.Adjacency[e.From] = append(g.Adjacency[e.From], len(g.Edges)-1)
}
