package race

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-bouts/regatta-nav/latlon"
)

// Kind is the category of a buoy.
type Kind int

const (
	Unclassified Kind = iota
	StartMark
	FinishMark
	TurningMark
)

func (k Kind) String() string {
	switch k {
	case StartMark:
		return "start"
	case FinishMark:
		return "finish"
	case TurningMark:
		return "mark"
	default:
		return "unclassified"
	}
}

// ParseKind maps the type column of the buoys table ("Startboei",
// "Finish", ...) to a Kind.
func ParseKind(s string) Kind {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case t == "":
		return Unclassified
	case strings.Contains(t, "start"):
		return StartMark
	case strings.Contains(t, "finish"):
		return FinishMark
	default:
		return TurningMark
	}
}

// Buoy is a course mark. Its position is only available through Location,
// which reports whether both coordinates were resolved.
type Buoy struct {
	Name        string
	Type        string
	Kind        Kind
	Description string

	position latlon.LatLon
	resolved bool
}

func NewBuoy(name string, kind Kind) Buoy {
	return Buoy{Name: name, Type: kind.String(), Kind: kind}
}

// At returns a copy of the buoy positioned at p.
func (b Buoy) At(p latlon.LatLon) Buoy {
	b.position = p
	b.resolved = true
	return b
}

func (b Buoy) Location() (latlon.LatLon, bool) {
	return b.position, b.resolved
}

// ParseCoordinate converts "53° 5,020'" (decimal minutes) or
// "53° 5' 1.20'" (minutes and seconds) to decimal degrees.
func ParseCoordinate(s string) (float64, error) {
	s = strings.Trim(strings.TrimSpace(s), "\"")

	parts := strings.Split(s, "°")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid coordinate format: %s", s)
	}

	degrees, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid degrees in '%s': %w", s, err)
	}

	rest := strings.TrimSpace(parts[1])
	var minutes float64
	if q := strings.Index(rest, "'"); q >= 0 && strings.Contains(rest, " ") {
		m, err := parseDecimal(rest[:q])
		if err != nil {
			return 0, fmt.Errorf("invalid minutes in '%s': %w", s, err)
		}
		sec, err := parseDecimal(strings.TrimRight(strings.TrimSpace(rest[q+1:]), "'\""))
		if err != nil {
			return 0, fmt.Errorf("invalid seconds in '%s': %w", s, err)
		}
		minutes = m + sec/60.0
	} else {
		m, err := parseDecimal(strings.TrimRight(rest, "'"))
		if err != nil {
			return 0, fmt.Errorf("invalid minutes in '%s': %w", s, err)
		}
		minutes = m
	}

	if degrees < 0 || strings.HasPrefix(strings.TrimSpace(parts[0]), "-") {
		return degrees - minutes/60.0, nil
	}
	return degrees + minutes/60.0, nil
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
}
