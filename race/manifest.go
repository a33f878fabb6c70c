package race

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/a-bouts/regatta-nav/latlon"
	"github.com/a-bouts/regatta-nav/wind"
)

const ManifestFile = "regatta.yaml"

// Manifest describes the files of a race dataset. Paths are relative to
// the dataset directory.
type Manifest struct {
	Name     string     `yaml:"name"`
	Duration float64    `yaml:"duration"`
	Buoys    string     `yaml:"buoys"`
	Starts   string     `yaml:"starts"`
	Legs     string     `yaml:"legs"`
	Polars   string     `yaml:"polars"`
	Wind     WindSource `yaml:"wind"`
}

// WindSource is either an hourly CSV file or a directory of GRIB
// forecasts sampled at the course centre. Grib wins when both are set.
type WindSource struct {
	File  string    `yaml:"file"`
	Grib  string    `yaml:"grib"`
	Start time.Time `yaml:"start"`
}

func DefaultManifest() Manifest {
	return Manifest{
		Name:     "regatta",
		Duration: 24,
		Buoys:    "boeien.csv",
		Starts:   "starts.csv",
		Legs:     "rakken.csv",
		Polars:   "polars.csv",
		Wind:     WindSource{File: "wind.csv"},
	}
}

// LoadManifest reads regatta.yaml from dir. A missing file yields the
// defaults, and fields absent from the file keep their default value.
func LoadManifest(dir string) (Manifest, error) {
	m := DefaultManifest()

	file := filepath.Join(dir, ManifestFile)
	content, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("No manifest in %s, using defaults", dir)
		return m, nil
	}
	if err != nil {
		return m, err
	}

	if err := yaml.Unmarshal(content, &m); err != nil {
		return m, fmt.Errorf("manifest '%s': %w", file, err)
	}
	if m.Wind.Grib != "" && m.Wind.Start.IsZero() {
		return m, fmt.Errorf("manifest '%s': wind.start is required with wind.grib", file)
	}
	if m.Duration <= 0 {
		return m, fmt.Errorf("manifest '%s': duration must be positive, got %v", file, m.Duration)
	}
	return m, nil
}

// LoadWind builds the wind schedule described by the manifest. centre is
// only used for GRIB forecasts.
func (m Manifest) LoadWind(dir string, centre latlon.LatLon) (*wind.Schedule, error) {
	if m.Wind.Grib != "" {
		return wind.LoadGrib(filepath.Join(dir, m.Wind.Grib), m.Wind.Start, centre)
	}
	return wind.Load(filepath.Join(dir, m.Wind.File))
}
