package polar

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyTable = errors.New("empty polar table")
	ErrShape      = errors.New("polar table shape mismatch")
)

// Table holds boat speeds in knots indexed by [twa][tws].
type Table struct {
	Tws   []float64   `json:"tws"`
	Twa   []float64   `json:"twa"`
	Speed [][]float64 `json:"speed"`
}

// New validates the axes against the speed matrix. Both axes must be
// non-empty and ascending.
func New(tws, twa []float64, speed [][]float64) (*Table, error) {
	if len(tws) == 0 || len(twa) == 0 {
		return nil, ErrEmptyTable
	}
	if len(speed) != len(twa) {
		return nil, fmt.Errorf("%w: %d rows for %d wind angles", ErrShape, len(speed), len(twa))
	}
	for i, row := range speed {
		if len(row) != len(tws) {
			return nil, fmt.Errorf("%w: row %d has %d columns for %d wind speeds", ErrShape, i, len(row), len(tws))
		}
	}
	if !ascending(tws) {
		return nil, fmt.Errorf("%w: wind speeds are not ascending", ErrShape)
	}
	if !ascending(twa) {
		return nil, fmt.Errorf("%w: wind angles are not ascending", ErrShape)
	}
	return &Table{Tws: tws, Twa: twa, Speed: speed}, nil
}

func ascending(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return false
		}
	}
	return true
}

// closestIndex scans values for the entry nearest to value. On ties the
// first index wins.
func closestIndex(values []float64, value float64) int {
	closest := 0
	diff := math.Abs(values[0] - value)
	for i, v := range values {
		if d := math.Abs(v - value); d < diff {
			diff = d
			closest = i
		}
	}
	return closest
}

// BoatSpeed returns the speed of the cell nearest to (twa, tws). There is no
// interpolation between cells.
func (t *Table) BoatSpeed(twa float64, tws float64) float64 {
	return t.Speed[closestIndex(t.Twa, twa)][closestIndex(t.Tws, tws)]
}

// MaxSpeed is the fastest cell of the table.
func (t *Table) MaxSpeed() float64 {
	max := 0.0
	for _, row := range t.Speed {
		for _, bs := range row {
			if bs > max {
				max = bs
			}
		}
	}
	return max
}
