package validation

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is wrapped by every error the calculators return.
var ErrInvalidInput = errors.New("invalid input")

type Accuracy string

const (
	AccuracyStandard Accuracy = "standard"
	AccuracyHigh     Accuracy = "high"
	AccuracyMaximum  Accuracy = "maximum"
)

// ParseAccuracy maps an empty string to AccuracyStandard.
func ParseAccuracy(s string) (Accuracy, error) {
	switch Accuracy(s) {
	case "":
		return AccuracyStandard, nil
	case AccuracyStandard, AccuracyHigh, AccuracyMaximum:
		return Accuracy(s), nil
	}
	return "", fmt.Errorf("%w: unknown accuracy %q", ErrInvalidInput, s)
}

type Level string

const (
	LevelNone     Level = "none"
	LevelStandard Level = "standard"
	LevelStrict   Level = "strict"
)

func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case "":
		return LevelStandard, nil
	case LevelNone, LevelStandard, LevelStrict:
		return Level(s), nil
	}
	return "", fmt.Errorf("%w: unknown validation level %q", ErrInvalidInput, s)
}

// Positive rejects values that are NaN, infinite, zero or negative.
func Positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidInput, name, v)
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidInput, name, v)
	}
	return nil
}

// NonNegative is Positive with zero allowed.
func NonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidInput, name, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidInput, name, v)
	}
	return nil
}

// Finite rejects NaN and infinities only.
func Finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidInput, name, v)
	}
	return nil
}

// Range is a closed interval used for validated bands.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) Clamp(v float64) float64 {
	return math.Min(math.Max(v, r.Min), r.Max)
}

// Warnings is the ordered list attached to every result.
type Warnings []string

func (w *Warnings) Addf(format string, args ...interface{}) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

func (w *Warnings) Append(msgs ...string) {
	*w = append(*w, msgs...)
}

// List never returns nil so results marshal as [] rather than null.
func (w Warnings) List() []string {
	if w == nil {
		return []string{}
	}
	return []string(w)
}
