package land

import (
	"math"
	"os"

	log "github.com/sirupsen/logrus"
)

// Resolution of the global land mask file, in cells per 360°.
const Resolution = 43200

// Land is a global bit mask, one bit per cell, rows from 90°S and columns
// from 180°W. A set bit is land.
type Land struct {
	lat0 float64
	lon0 float64
	lonN float64
	step float64
	data []byte
}

// Load reads a land mask file at the default resolution.
func Load(file string) (*Land, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		log.Errorf("Error reading file '%s'", file)
		return nil, err
	}
	log.Debugf("Load land mask %s : %d bytes", file, len(b))
	return New(360.0/Resolution, b), nil
}

func New(step float64, data []byte) *Land {
	return &Land{
		lat0: -90.0,
		lon0: -180.0,
		lonN: 180.0 - step,
		step: step,
		data: data,
	}
}

// IsLand reports whether the cell nearest to lat, lon is land. Cells
// outside the mask are sea.
func (l Land) IsLand(lat float64, lon float64) bool {
	if lon >= 180 {
		lon -= 360
	}

	i := int(math.Round(lat / l.step))
	j := int(math.Round(lon / l.step))

	i0 := int(l.lat0 / l.step)
	j0 := int(l.lon0 / l.step)
	jN := int(l.lonN / l.step)

	di := i - i0
	nj := jN - j0 + 1
	dj := (j - j0) % nj

	p := di*nj + dj
	if di < 0 || p < 0 || p/8 >= len(l.data) {
		return false
	}

	pB := p / 8
	pb := uint(p % 8)

	return ((l.data[pB] >> (7 - pb)) & 0x01) == 0x01
}
