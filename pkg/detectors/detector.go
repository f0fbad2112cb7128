// Package detectors provides the shared types of the negative-selection classifier:
// points, bounds, class labels and the typed errors returned by detectors.
package detectors

import (
	"io"

	"github.com/paulmach/orb"
)

// Point is a coordinate in the 2D feature space.
type Point = orb.Point

// Classifier is the common interface for self/non-self classifiers.
type Classifier interface {
	// Fit generates the detector set from self samples, replacing any prior state.
	Fit(params FitParams) (FitReport, error)

	// Classify labels a raw point as Positive (self) or Negative (non-self).
	Classify(p Point) (Class, error)

	// Evaluate returns the fraction of points whose predicted class matches
	// the expected one.
	Evaluate(points []LabeledPoint) (float64, error)

	// Save serializes the trained model.
	Save(w io.Writer) error

	// Load replaces the model with one deserialized from r.
	Load(r io.Reader) error
}

// FitParams bundles the inputs of a fit.
type FitParams struct {
	// Positives are the raw self samples.
	Positives []Point
	// Radius is the proximity threshold used both to generate detectors and
	// to classify points, in normalized units.
	Radius float64
	// Bounds is the normalization range per dimension.
	Bounds Bounds
	// TargetCount is the number of detectors to generate.
	TargetCount int
}

// LabeledPoint is a raw point with its expected class.
type LabeledPoint struct {
	Point Point
	Class Class
}

// Config holds common configuration for detectors.
type Config struct {
	// Radius is the self/non-self proximity threshold.
	Radius float64
	// Detectors is the number of detectors to generate.
	Detectors int
	// MaxAttempts caps consecutive rejected candidates per detector.
	MaxAttempts int
	// RandomSeed for reproducibility.
	RandomSeed uint64
}

// DefaultConfig returns sensible defaults for detector configuration.
func DefaultConfig() Config {
	return Config{
		Radius:      0.05,
		Detectors:   1000,
		MaxAttempts: 100000,
		RandomSeed:  42,
	}
}
