package race

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/regatta-nav/polar"
)

// Load reads the dataset described by m from dir.
func Load(dir string, m Manifest) (*Race, error) {
	buoys, err := LoadBuoys(filepath.Join(dir, m.Buoys))
	if err != nil {
		return nil, err
	}
	starts, err := LoadStarts(filepath.Join(dir, m.Starts))
	if err != nil {
		return nil, err
	}
	legs, err := LoadLegs(filepath.Join(dir, m.Legs))
	if err != nil {
		return nil, err
	}
	p, err := polar.Load(filepath.Join(dir, m.Polars))
	if err != nil {
		return nil, err
	}

	r, err := New(m.Name, m.Duration, buoys, starts, legs, p, nil)
	if err != nil {
		return nil, err
	}

	centre, _ := r.Centre()
	if r.Wind, err = m.LoadWind(dir, centre); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"race":   r.Name,
		"buoys":  len(r.Buoys),
		"starts": len(r.Starts),
		"legs":   len(r.Legs),
		"edges":  len(r.Graph.Edges),
	}).Info("Race loaded")
	return r, nil
}

type table struct {
	file    string
	columns map[string]int
	records [][]string
}

// column normalises a header cell: "Long_min_sec)" and "long_min_sec" are
// the same column.
func column(h string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return -1
	}, h)
}

func (t table) cell(record []string, name string) (string, bool) {
	i, ok := t.columns[name]
	if !ok || i >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[i]), true
}

func (t table) require(names ...string) error {
	for _, n := range names {
		if _, ok := t.columns[n]; !ok {
			return fmt.Errorf("'%s': missing column %s", t.file, n)
		}
	}
	return nil
}

// readTable reads a CSV file with a header row. The separator is ';' when
// the header contains one, ',' otherwise.
func readTable(file string) (table, error) {
	f, err := os.Open(file)
	if err != nil {
		return table{}, err
	}
	defer f.Close()

	t, err := parseTable(f)
	if err != nil {
		return table{}, fmt.Errorf("'%s': %w", file, err)
	}
	t.file = file
	return t, nil
}

func parseTable(r io.Reader) (table, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return table{}, err
	}

	reader := csv.NewReader(io.MultiReader(strings.NewReader(header), br))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if strings.Contains(header, ";") {
		reader.Comma = ';'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return table{}, err
	}
	if len(records) == 0 {
		return table{}, fmt.Errorf("empty file")
	}

	t := table{columns: make(map[string]int, len(records[0]))}
	for i, h := range records[0] {
		t.columns[column(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	t.records = records[1:]
	return t, nil
}

func LoadBuoys(file string) ([]Buoy, error) {
	t, err := readTable(file)
	if err != nil {
		return nil, err
	}
	if err := t.require("name"); err != nil {
		return nil, err
	}

	buoys := make([]Buoy, 0, len(t.records))
	for _, record := range t.records {
		name, _ := t.cell(record, "name")
		if name == "" {
			continue
		}
		typ, _ := t.cell(record, "type")
		desc, _ := t.cell(record, "description")
		b := Buoy{Name: name, Type: typ, Kind: ParseKind(typ), Description: desc}

		lat, latOk := t.cell(record, "lat_min")
		lon, lonOk := t.cell(record, "long_min")
		if latOk && lonOk && lat != "" && lon != "" {
			p := b.position
			if p.Lat, err = ParseCoordinate(lat); err != nil {
				return nil, fmt.Errorf("'%s': buoy %s: %w", file, name, err)
			}
			if p.Lon, err = ParseCoordinate(lon); err != nil {
				return nil, fmt.Errorf("'%s': buoy %s: %w", file, name, err)
			}
			b = b.At(p)
		} else {
			log.Debugf("Buoy %s has no position", name)
		}
		buoys = append(buoys, b)
	}
	return buoys, nil
}

type connection struct {
	from, to  string
	distance  float64
	maxNumber int
}

func loadConnections(file string) ([]connection, error) {
	t, err := readTable(file)
	if err != nil {
		return nil, err
	}
	if err := t.require("from", "to", "distance", "maxnumber"); err != nil {
		return nil, err
	}

	connections := make([]connection, 0, len(t.records))
	for i, record := range t.records {
		var c connection
		c.from, _ = t.cell(record, "from")
		c.to, _ = t.cell(record, "to")
		if c.from == "" && c.to == "" {
			continue
		}

		d, _ := t.cell(record, "distance")
		if c.distance, err = strconv.ParseFloat(strings.Replace(d, ",", ".", 1), 64); err != nil {
			return nil, fmt.Errorf("'%s' row %d: distance '%s': %w", file, i+1, d, err)
		}
		if !(c.distance > 0) || math.IsInf(c.distance, 0) {
			return nil, fmt.Errorf("'%s' row %d: %s-%s distance must be positive, got %v", file, i+1, c.from, c.to, c.distance)
		}

		n, _ := t.cell(record, "maxnumber")
		if c.maxNumber, err = strconv.Atoi(n); err != nil {
			return nil, fmt.Errorf("'%s' row %d: max number '%s': %w", file, i+1, n, err)
		}
		if c.maxNumber < 0 {
			return nil, fmt.Errorf("'%s' row %d: negative max number %d", file, i+1, c.maxNumber)
		}
		connections = append(connections, c)
	}
	return connections, nil
}

func LoadStarts(file string) ([]Start, error) {
	connections, err := loadConnections(file)
	if err != nil {
		return nil, err
	}
	starts := make([]Start, len(connections))
	for i, c := range connections {
		starts[i] = Start{From: c.from, To: c.to, Distance: c.distance, MaxNumber: c.maxNumber}
	}
	return starts, nil
}

func LoadLegs(file string) ([]Leg, error) {
	connections, err := loadConnections(file)
	if err != nil {
		return nil, err
	}
	legs := make([]Leg, len(connections))
	for i, c := range connections {
		legs[i] = Leg{From: c.from, To: c.to, Distance: c.distance, MaxNumber: c.maxNumber}
	}
	return legs, nil
}
