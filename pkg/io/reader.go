// Package io provides input/output utilities for sample ingestion and
// classification results.
package io

import (
	"github.com/hed1ad/negsel/pkg/detectors"
)

// Sample is a raw 2D point with the class string found in the source.
type Sample struct {
	Point detectors.Point
	Class string
}

// Reader is the interface for reading samples from various sources.
type Reader interface {
	// Read returns the complete dataset.
	Read() ([]Sample, error)

	// Close releases resources.
	Close() error
}

// Writer is the interface for writing classification results.
type Writer interface {
	// Write outputs a single result.
	Write(result Result) error

	// WriteAll outputs multiple results.
	WriteAll(results []Result) error

	// Close flushes and releases resources.
	Close() error
}

// Result is the classification of one point.
type Result struct {
	Point      detectors.Point `json:"point"`
	Normalized detectors.Point `json:"normalized"`
	Class      detectors.Class `json:"class"`
	// Expected is set when the input carried a label.
	Expected *detectors.Class `json:"expected,omitempty"`
}

// Correct reports whether the result matches its expected label.
// Unlabeled results are never correct.
func (r Result) Correct() bool {
	return r.Expected != nil && *r.Expected == r.Class
}

// Labels maps source class strings onto the binary self/non-self labels.
type Labels struct {
	// Positive is the class string of the self population.
	Positive string
	// Negative lists class strings treated as non-self. Samples whose
	// class is neither Positive nor in Negative are dropped.
	Negative []string
}

// Class returns the label for a source class string.
func (l Labels) Class(s string) (detectors.Class, bool) {
	if s == l.Positive {
		return detectors.Positive, true
	}
	for _, n := range l.Negative {
		if s == n {
			return detectors.Negative, true
		}
	}
	return 0, false
}

// Positives returns the points of the self population.
func (l Labels) Positives(samples []Sample) []detectors.Point {
	var out []detectors.Point
	for _, s := range samples {
		if s.Class == l.Positive {
			out = append(out, s.Point)
		}
	}
	return out
}

// Labeled returns every sample with a known class as a labeled point.
func (l Labels) Labeled(samples []Sample) []detectors.LabeledPoint {
	var out []detectors.LabeledPoint
	for _, s := range samples {
		if c, ok := l.Class(s.Class); ok {
			out = append(out, detectors.LabeledPoint{Point: s.Point, Class: c})
		}
	}
	return out
}

// ReadAll reads every sample from r and closes it.
func ReadAll(r Reader) ([]Sample, error) {
	samples, err := r.Read()
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return samples, nil
}
