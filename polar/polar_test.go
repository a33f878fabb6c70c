package polar

import (
	"errors"
	"strings"
	"testing"
)

const polars = `twa/tws;6;8;10;12;14;16;20
0;0;0;0;0;0;0;0
52;4.72;5.6;6.2;6.5;6.7;6.8;6.9
60;5.0;5.9;6.5;6.8;7.0;7.1;7.2
75;5.3;6.3;6.9;7.2;7.4;7.5;7.7
90;5.4;6.5;7.19;7.5;7.7;7.9;8.1
110;5.3;6.4;7.1;7.6;8.0;8.3;8.6
120;5.0;6.2;7.0;7.5;8.0;8.4;8.9
135;4.5;5.7;6.6;7.2;7.7;8.2;8.83
150;3.8;4.9;5.9;6.7;7.2;7.6;8.4
`

func TestClosestIndex(t *testing.T) {

	array := []float64{0, 4, 8}

	i := closestIndex(array, -3)
	if i != 0 {
		t.Errorf("closestIndex(-3) = %d; want 0", i)
	}

	i = closestIndex(array, 1)
	if i != 0 {
		t.Errorf("closestIndex(1) = %d; want 0", i)
	}

	i = closestIndex(array, 2)
	if i != 0 {
		t.Errorf("closestIndex(2) = %d; want 0 (first seen on tie)", i)
	}

	i = closestIndex(array, 3)
	if i != 1 {
		t.Errorf("closestIndex(3) = %d; want 1", i)
	}

	i = closestIndex(array, 6)
	if i != 1 {
		t.Errorf("closestIndex(6) = %d; want 1 (first seen on tie)", i)
	}

	i = closestIndex(array, 42)
	if i != 2 {
		t.Errorf("closestIndex(42) = %d; want 2", i)
	}
}

func TestRead(t *testing.T) {
	p, err := Read(strings.NewReader(polars))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(p.Tws) != 7 || len(p.Twa) != 9 {
		t.Fatalf("Read() = %d tws x %d twa; want 7 x 9", len(p.Tws), len(p.Twa))
	}

	bs := p.BoatSpeed(52, 6)
	if bs != 4.72 {
		t.Errorf("BoatSpeed(52, 6) = %f; want 4.72", bs)
	}

	bs = p.BoatSpeed(90, 10)
	if bs != 7.19 {
		t.Errorf("BoatSpeed(90, 10) = %f; want 7.19", bs)
	}

	bs = p.BoatSpeed(135, 20)
	if bs != 8.83 {
		t.Errorf("BoatSpeed(135, 20) = %f; want 8.83", bs)
	}

	// nearest cell, never interpolated
	bs = p.BoatSpeed(88, 10.9)
	if bs != 7.19 {
		t.Errorf("BoatSpeed(88, 10.9) = %f; want 7.19", bs)
	}

	bs = p.BoatSpeed(180, 40)
	if bs != 8.4 {
		t.Errorf("BoatSpeed(180, 40) = %f; want 8.4", bs)
	}

	if p.MaxSpeed() != 8.9 {
		t.Errorf("MaxSpeed() = %f; want 8.9", p.MaxSpeed())
	}
}

func TestReadSkipsMalformedRows(t *testing.T) {
	p, err := Read(strings.NewReader("twa/tws;6;8\n45;4,5;5,5\n90;5\n120;6;7\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(p.Twa) != 2 {
		t.Fatalf("Read() kept %d rows; want 2", len(p.Twa))
	}
	if bs := p.BoatSpeed(45, 8); bs != 5.5 {
		t.Errorf("BoatSpeed(45, 8) = %f; want 5.5", bs)
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil, []float64{0}, [][]float64{{}})
	if !errors.Is(err, ErrEmptyTable) {
		t.Errorf("New(no tws) error = %v; want ErrEmptyTable", err)
	}

	_, err = New([]float64{6, 8}, []float64{0, 90}, [][]float64{{1, 2}})
	if !errors.Is(err, ErrShape) {
		t.Errorf("New(missing row) error = %v; want ErrShape", err)
	}

	_, err = New([]float64{6, 8}, []float64{0}, [][]float64{{1}})
	if !errors.Is(err, ErrShape) {
		t.Errorf("New(short row) error = %v; want ErrShape", err)
	}

	_, err = New([]float64{8, 6}, []float64{0}, [][]float64{{1, 2}})
	if !errors.Is(err, ErrShape) {
		t.Errorf("New(descending tws) error = %v; want ErrShape", err)
	}

	_, err = New([]float64{6, 8}, []float64{0}, [][]float64{{1, 2}})
	if err != nil {
		t.Errorf("New(valid) error = %v", err)
	}
}
