package detectors

import (
	"math"

	"github.com/hed1ad/negsel/pkg/spatial"
)

// Bounds is the per-dimension range used for min-max normalization.
type Bounds struct {
	Max Point `json:"maximums"`
	Min Point `json:"minimums"`
}

// Validate checks that every dimension is finite with Max > Min.
func (b Bounds) Validate() error {
	for i := 0; i < 2; i++ {
		reason := ""
		switch {
		case !finite(b.Max[i]) || !finite(b.Min[i]):
			reason = "bounds must be finite"
		case b.Max[i] <= b.Min[i]:
			reason = "max must be greater than min"
		case !finite(b.Max[i] - b.Min[i]):
			reason = "range overflows"
		}
		if reason != "" {
			return &ConfigError{
				Field:     "bounds",
				Dimension: i,
				Max:       b.Max[i],
				Min:       b.Min[i],
				Reason:    reason,
			}
		}
	}
	return nil
}

// Normalize scales p into the unit square defined by b. Points outside the
// bounds land outside [0,1]; nothing is clamped.
func (b Bounds) Normalize(p Point) Point {
	return Point{
		(p[0] - b.Min[0]) / (b.Max[0] - b.Min[0]),
		(p[1] - b.Min[1]) / (b.Max[1] - b.Min[1]),
	}
}

// ValidatePoint returns an InvalidPointError when p is not finite.
func ValidatePoint(p Point, index int) error {
	if !spatial.Finite(p) {
		return &InvalidPointError{Point: p, Index: index, Reason: "coordinates must be finite"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
