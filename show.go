package main

import (
	"fmt"
	"io"

	"github.com/a-bouts/regatta-nav/race"
)

// show prints a summary of the loaded race.
func show(w io.Writer, r *race.Race) {
	fmt.Fprintf(w, "Race %s (%gh):\n", r.Name, r.Duration)
	fmt.Fprintf(w, "  - %d buoys\n", len(r.Buoys))
	fmt.Fprintf(w, "  - %d start lines\n", len(r.Starts))
	fmt.Fprintf(w, "  - %d legs\n", len(r.Legs))
	if r.Wind != nil {
		fmt.Fprintf(w, "  - %d wind samples\n", r.Wind.Len())
	}

	for _, b := range r.BuoysByKind(race.FinishMark) {
		fmt.Fprintf(w, "\nFinish buoy %s:\n", b.Name)
		fmt.Fprintf(w, "  Type: %s\n", b.Type)
		if p, ok := b.Location(); ok {
			fmt.Fprintf(w, "  Position: (%.6f, %.6f)\n", p.Lat, p.Lon)
		} else {
			fmt.Fprintf(w, "  Position: unknown\n")
		}
	}

	fmt.Fprintf(w, "\nStart lines:\n")
	for _, s := range first(r.Starts, 5) {
		fmt.Fprintf(w, "  %s -> %s (%g nm, max %d)\n", s.From, s.To, s.Distance, s.MaxNumber)
	}

	fmt.Fprintf(w, "\nLegs:\n")
	for _, l := range first(r.Legs, 5) {
		fmt.Fprintf(w, "  %s -> %s (%g nm, max %d)\n", l.From, l.To, l.Distance, l.MaxNumber)
	}

	starts := r.BuoysByKind(race.StartMark)
	fmt.Fprintf(w, "\nStart buoys (%d found):\n", len(starts))
	for _, b := range first(starts, 3) {
		desc := b.Description
		if desc == "" {
			desc = "No description"
		}
		fmt.Fprintf(w, "  %s: %s\n", b.Name, desc)
	}

	fmt.Fprintf(w, "\nGraph: %d nodes, %d edges, %d usage slots\n", r.Graph.Nodes(), len(r.Graph.Edges), r.Graph.Slots())
	for _, e := range first(r.Graph.Edges, 5) {
		fmt.Fprintf(w, "  %s -> %s: %s, distance=%.2f nm\n", r.Buoys[e.From].Name, r.Buoys[e.To].Name, e.Kind, e.Distance)
	}
}

func first[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
