package wind

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Load reads an hourly wind file with a "Hour;WindSpeed;WindAngle" header.
// Both ';' and ',' separators are accepted.
func Load(file string) (*Schedule, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("wind file '%s': %w", file, err)
	}
	log.Debugf("Load winds %s : %d samples", file, s.Len())
	return s, nil
}

func Read(r io.Reader) (*Schedule, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(256)
	if err != nil && err != io.EOF {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.TrimLeadingSpace = true
	if strings.Contains(strings.SplitN(string(first), "\n", 2)[0], ";") {
		reader.Comma = ';'
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptySchedule
	}
	if err != nil {
		return nil, err
	}

	hourCol, speedCol, dirCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "hour", "time":
			hourCol = i
		case "windspeed", "wind_speed", "speed", "tws":
			speedCol = i
		case "windangle", "wind_angle", "winddirection", "wind_direction", "direction":
			dirCol = i
		}
	}
	if hourCol < 0 || speedCol < 0 || dirCol < 0 {
		return nil, fmt.Errorf("missing hour, wind speed or wind angle column in header %v", header)
	}

	var samples []Sample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var s Sample
		if s.Hour, err = parseFloat(record[hourCol]); err != nil {
			return nil, fmt.Errorf("hour '%s': %w", record[hourCol], err)
		}
		if s.Speed, err = parseFloat(record[speedCol]); err != nil {
			return nil, fmt.Errorf("wind speed '%s': %w", record[speedCol], err)
		}
		if s.Direction, err = parseFloat(record[dirCol]); err != nil {
			return nil, fmt.Errorf("wind angle '%s': %w", record[dirCol], err)
		}
		samples = append(samples, s)
	}

	return New(samples)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
}
