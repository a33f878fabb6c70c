package wind

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nilsmagnus/grib/griblib"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/regatta-nav/latlon"
)

const msToKnots = 1.9438444924406

// Grid is the 10m U/V wind of one GRIB forecast file.
type Grid struct {
	Date time.Time
	File string
	Lat0 float64
	Lon0 float64
	ΔLat float64
	ΔLon float64
	NLat uint32
	NLon uint32
	U    [][]float64
	V    [][]float64
}

func (w Grid) buildGrid(data []float64) [][]float64 {

	isContinuous := math.Floor(float64(w.NLon)*w.ΔLon) >= 360

	nLon := w.NLon
	if isContinuous {
		nLon++
	}

	grid := make([][]float64, w.NLat)

	p := 0
	for j := uint32(0); j < w.NLat; j++ {
		grid[j] = make([]float64, nLon)
		for i := uint32(0); i < w.NLon; i++ {
			grid[j][i] = data[p]
			p++
		}
		if isContinuous {
			grid[j][w.NLon] = grid[j][0]
		}
	}
	return grid
}

// ReadGrid extracts the 10m wind components of a GRIB2 file.
func ReadGrid(date time.Time, file string) (Grid, error) {
	w := Grid{Date: date, File: filepath.Base(file)}
	gribfile, err := os.Open(file)
	if err != nil {
		return w, err
	}
	defer gribfile.Close()

	messages, err := griblib.ReadMessages(gribfile)
	if err != nil {
		return w, err
	}
	for _, message := range messages {
		product := message.Section4.ProductDefinitionTemplate
		if message.Section0.Discipline != uint8(0) || product.ParameterCategory != uint8(2) || product.FirstSurface.Type != 103 || product.FirstSurface.Value != 10 {
			continue
		}
		grid0, ok := message.Section3.Definition.(*griblib.Grid0)
		if !ok {
			continue
		}
		w.Lat0 = float64(grid0.La1) / 1e6
		w.Lon0 = float64(grid0.Lo1) / 1e6
		w.ΔLat = float64(grid0.Di) / 1e6
		w.ΔLon = float64(grid0.Dj) / 1e6
		w.NLat = grid0.Nj
		w.NLon = grid0.Ni
		if product.ParameterNumber == 2 {
			w.U = w.buildGrid(message.Section7.Data)
		} else if product.ParameterNumber == 3 {
			w.V = w.buildGrid(message.Section7.Data)
		}
	}
	if w.U == nil || w.V == nil {
		return w, fmt.Errorf("no 10m wind in grib file '%s'", file)
	}
	return w, nil
}

func floorMod(a float64, n float64) float64 {
	return a - n*math.Floor(a/n)
}

// vector is a U/V wind in m/s.
type vector struct{ u, v float64 }

func (a vector) lerp(b vector, f float64) vector {
	return vector{a.u + (b.u-a.u)*f, a.v + (b.v-a.v)*f}
}

// direction is where the wind blows from, in [0,360).
func (a vector) direction() float64 {
	d := math.Atan2(a.u, a.v)*180/math.Pi + 180
	if d >= 360 {
		d -= 360
	}
	return d
}

func (a vector) speed() float64 {
	return math.Hypot(a.u, a.v)
}

// bilinear blends the corners of a cell, x running along longitude and y
// along latitude.
func bilinear(x, y float64, c00, c10, c01, c11 vector) vector {
	return c00.lerp(c10, x).lerp(c01.lerp(c11, x), y)
}

func (w Grid) cell(i, j uint32) vector {
	return vector{w.U[i][j], w.V[i][j]}
}

func (w Grid) interpolate(lat float64, lon float64) (vector, error) {
	y := math.Abs((lat - w.Lat0) / w.ΔLat)
	x := floorMod(lon-w.Lon0, 360.0) / w.ΔLon
	i, j := uint32(y), uint32(x)

	if int(i)+1 >= len(w.U) || int(j)+1 >= len(w.U[i]) {
		return vector{}, fmt.Errorf("position (%f,%f) outside of grib file '%s'", lat, lon, w.File)
	}
	return bilinear(x-float64(j), y-float64(i), w.cell(i, j), w.cell(i, j+1), w.cell(i+1, j), w.cell(i+1, j+1)), nil
}

// At returns the wind direction (degrees) and speed (knots) at a position.
func (w Grid) At(p latlon.LatLon) (float64, float64, error) {
	c, err := w.interpolate(p.Lat, p.Lon)
	if err != nil {
		return 0, 0, err
	}
	if c.speed() == 0 {
		return 0, 0, nil
	}
	return c.direction(), c.speed() * msToKnots, nil
}

// forecastDate parses file names like "2025051618.f003": run date plus
// forecast hour.
func forecastDate(file string) (time.Time, error) {
	parts := strings.Split(filepath.Base(file), ".")
	if len(parts) < 2 || len(parts[1]) < 2 {
		return time.Time{}, fmt.Errorf("unexpected grib file name '%s'", file)
	}
	run, err := time.Parse("2006010215", parts[0])
	if err != nil {
		return time.Time{}, err
	}
	h, err := strconv.Atoi(parts[1][1:])
	if err != nil {
		return time.Time{}, err
	}
	return run.Add(time.Hour * time.Duration(h)), nil
}

// LoadGrib samples every GRIB file of dir at position p and builds a
// schedule in hours elapsed since start. When several runs forecast the same
// date, the most recent run wins.
func LoadGrib(dir string, start time.Time, p latlon.LatLon) (*Schedule, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.WithError(err).Errorf("Error walking file '%s'", path)
		} else if info.Mode().IsRegular() && !strings.HasSuffix(info.Name(), ".tmp") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	samples := make(gribSamples)
	for _, file := range files {
		date, err := forecastDate(file)
		if err != nil {
			log.WithError(err).Warnf("Skip grib file '%s'", file)
			continue
		}
		grid, err := ReadGrid(date, file)
		if err != nil {
			log.WithError(err).Errorf("Error loading grib file '%s'", file)
			continue
		}
		if err := samples.add(grid, start, p); err != nil {
			return nil, err
		}
	}
	return samples.schedule()
}

// gribSamples keys the wind sampled from each grid by forecast hour. A later
// grid for the same hour replaces the earlier one.
type gribSamples map[float64]Sample

func (s gribSamples) add(g Grid, start time.Time, p latlon.LatLon) error {
	direction, speed, err := g.At(p)
	if err != nil {
		return err
	}
	hour := g.Date.Sub(start).Hours()
	log.Debugf("Init %s %s : %.1f° %.1f kt", g.Date.Format("2006010215"), g.File, direction, speed)
	s[hour] = Sample{Hour: hour, Speed: speed, Direction: direction}
	return nil
}

func (s gribSamples) schedule() (*Schedule, error) {
	samples := make([]Sample, 0, len(s))
	for _, sample := range s {
		samples = append(samples, sample)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Hour < samples[j].Hour })
	return New(samples)
}
