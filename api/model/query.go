package model

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MaxSteps = 10
	MaxPaths = 100000
)

type EstimateQuery struct {
	From    string  `json:"from" validate:"required"`
	To      string  `json:"to" validate:"required"`
	Time    float64 `json:"time" validate:"gte=0"`
	Reverse bool    `json:"reverse,omitempty"`
}

type FindPathsQuery struct {
	Start    string  `json:"start" validate:"required"`
	Time     float64 `json:"time" validate:"gte=0"`
	Steps    int     `json:"steps" validate:"min=1,max=10"`
	MaxPaths int     `json:"max_paths" validate:"min=1,max=100000"`
}

type FindTargetsQuery struct {
	Start    string  `json:"start" validate:"required"`
	Target   string  `json:"target" validate:"required,nefield=Start"`
	Time     float64 `json:"time" validate:"gte=0"`
	Steps    int     `json:"steps" validate:"min=1,max=10"`
	MaxPaths int     `json:"max_paths" validate:"min=1,max=100000"`
}

// QueryError is a malformed or out of range query parameter.
type QueryError struct {
	Field   string
	Message string
}

func (e *QueryError) Error() string {
	return e.Message
}

// Title is the short error label sent to clients.
func (e *QueryError) Title() string {
	switch e.Field {
	case "from", "to", "start", "target":
		return "Invalid request"
	default:
		return "Invalid " + e.Field
	}
}

var messages = map[string]string{
	"time":      "Time must be non-negative",
	"steps":     fmt.Sprintf("Number of steps must be between 1 and %d", MaxSteps),
	"max_paths": fmt.Sprintf("Maximum number of paths must be between 1 and %d", MaxPaths),
	"target":    "Starting and target buoys must be different",
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return &Validator{validate: v}
}

// Struct validates q and reports the first failing field as a QueryError.
func (v *Validator) Struct(q any) error {
	err := v.validate.Struct(q)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	f := fields[0]
	msg, ok := messages[f.Field()]
	if !ok || (f.Field() == "target" && f.Tag() != "nefield") {
		msg = fmt.Sprintf("Parameter %s is required", f.Field())
	}
	return &QueryError{Field: f.Field(), Message: msg}
}

func parseFloat(values url.Values, name string, def float64) (float64, error) {
	s := strings.TrimSpace(values.Get(name))
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &QueryError{Field: name, Message: fmt.Sprintf("Parameter %s is not a number: %s", name, s)}
	}
	return f, nil
}

func parseInt(values url.Values, name string, def int) (int, error) {
	s := strings.TrimSpace(values.Get(name))
	if s == "" {
		return def, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, &QueryError{Field: name, Message: fmt.Sprintf("Parameter %s is not an integer: %s", name, s)}
	}
	return i, nil
}

func parseBool(values url.Values, name string) (bool, error) {
	s := strings.TrimSpace(values.Get(name))
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, &QueryError{Field: name, Message: fmt.Sprintf("Parameter %s is not a boolean: %s", name, s)}
	}
	return b, nil
}

func ParseEstimate(values url.Values) (EstimateQuery, error) {
	q := EstimateQuery{
		From: values.Get("from"),
		To:   values.Get("to"),
	}
	var err error
	if q.Time, err = parseFloat(values, "time", 0); err != nil {
		return q, err
	}
	if q.Reverse, err = parseBool(values, "reverse"); err != nil {
		return q, err
	}
	return q, nil
}

// ParseFindPaths reads a find-paths query. max_paths defaults to MaxPaths.
func ParseFindPaths(values url.Values) (FindPathsQuery, error) {
	q := FindPathsQuery{Start: values.Get("start")}
	var err error
	if q.Time, err = parseFloat(values, "time", 0); err != nil {
		return q, err
	}
	if q.Steps, err = parseInt(values, "steps", 0); err != nil {
		return q, err
	}
	if q.MaxPaths, err = parseInt(values, "max_paths", MaxPaths); err != nil {
		return q, err
	}
	return q, nil
}

func ParseFindTargets(values url.Values) (FindTargetsQuery, error) {
	p, err := ParseFindPaths(values)
	if err != nil {
		return FindTargetsQuery{}, err
	}
	return FindTargetsQuery{
		Start:    p.Start,
		Target:   values.Get("target"),
		Time:     p.Time,
		Steps:    p.Steps,
		MaxPaths: p.MaxPaths,
	}, nil
}
