package polar

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Load reads a polar file: the first row is "twa/tws;6;8;10..." and every
// following row starts with the wind angle followed by one boat speed per
// wind speed. Rows with the wrong number of cells are skipped.
func Load(file string) (*Table, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("polar file '%s': %w", file, err)
	}
	log.Debugf("Load polars %s : %d twa x %d tws", file, len(t.Twa), len(t.Tws))
	return t, nil
}

func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	header := records[0]
	tws := make([]float64, 0, len(header))
	for _, cell := range header[1:] {
		ws, err := parseFloat(cell)
		if err != nil {
			return nil, fmt.Errorf("wind speed '%s': %w", cell, err)
		}
		tws = append(tws, ws)
	}

	var twa []float64
	var speed [][]float64
	for i, record := range records[1:] {
		if len(record) != len(header) {
			log.Warnf("Skip polar row %d : %d cells, want %d", i+2, len(record), len(header))
			continue
		}
		a, err := parseFloat(record[0])
		if err != nil {
			return nil, fmt.Errorf("wind angle '%s': %w", record[0], err)
		}
		row := make([]float64, 0, len(tws))
		for _, cell := range record[1:] {
			bs, err := parseFloat(cell)
			if err != nil {
				return nil, fmt.Errorf("boat speed '%s' at twa %v: %w", cell, a, err)
			}
			row = append(row, bs)
		}
		twa = append(twa, a)
		speed = append(speed, row)
	}

	return New(tws, twa, speed)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
}
