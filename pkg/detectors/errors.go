package detectors

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when an evaluation receives no points.
	ErrEmptyInput = errors.New("empty input")

	// ErrNotTrained is returned when a model is used before Fit or Load.
	ErrNotTrained = errors.New("model not trained")
)

// ConfigError reports an invalid fit parameter or bound.
type ConfigError struct {
	// Field is the offending parameter: "bounds", "radius" or "target_count".
	Field string
	// Dimension is the feature index for bounds errors, -1 otherwise.
	Dimension int
	// Feature optionally names the dimension.
	Feature string
	Max     float64
	Min     float64
	Value   float64
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Field == "bounds" {
		name := fmt.Sprintf("dimension %d", e.Dimension)
		if e.Feature != "" {
			name = fmt.Sprintf("%s (dimension %d)", e.Feature, e.Dimension)
		}
		return fmt.Sprintf("invalid bounds for %s: max=%g min=%g: %s", name, e.Max, e.Min, e.Reason)
	}
	return fmt.Sprintf("invalid %s %g: %s", e.Field, e.Value, e.Reason)
}

// InvalidPointError reports a point with non-finite coordinates.
type InvalidPointError struct {
	Point Point
	// Index is the position in the input batch, -1 for a single point.
	Index  int
	Reason string
}

func (e *InvalidPointError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid point #%d %v: %s", e.Index, e.Point, e.Reason)
	}
	return fmt.Sprintf("invalid point %v: %s", e.Point, e.Reason)
}

// InsufficientCoverageError is returned when detector generation gives up
// before reaching its target, usually because the self region covers
// (nearly) the whole unit square.
type InsufficientCoverageError struct {
	Target   int
	Accepted int
	Attempts int
}

func (e *InsufficientCoverageError) Error() string {
	return fmt.Sprintf("generated %d of %d detectors after %d attempts: self region leaves too little free space",
		e.Accepted, e.Target, e.Attempts)
}

// PersistenceError wraps a failure to save or load a model.
type PersistenceError struct {
	// Op is "save" or "load".
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s model %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s model: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
