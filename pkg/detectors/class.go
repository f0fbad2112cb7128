package detectors

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Class is the binary label assigned by a classifier.
type Class int

const (
	// Positive marks a point that resembles self.
	Positive Class = iota
	// Negative marks a point flagged as non-self.
	Negative
)

func (c Class) String() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// ParseClass parses the text form produced by String.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return Positive, nil
	case "negative":
		return Negative, nil
	}
	return 0, fmt.Errorf("unknown class %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FitReport summarizes a detector generation run.
type FitReport struct {
	ID        uuid.UUID
	Detectors int
	// Attempts counts every candidate drawn, accepted or not.
	Attempts int
	Rejected int
	// FromGrid counts detectors produced by the grid fallback.
	FromGrid int

	// Candidates needed per accepted detector.
	AttemptsP50 int64
	AttemptsP99 int64
	AttemptsMax int64

	Duration time.Duration
}

// Evaluation is the outcome of classifying a labeled batch.
// Positive (self) is treated as the positive class of the confusion matrix.
type Evaluation struct {
	Total    int
	Correct  int
	Accuracy float64

	TruePositive  int
	FalsePositive int
	TrueNegative  int
	FalseNegative int
}
