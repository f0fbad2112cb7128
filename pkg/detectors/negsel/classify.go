package negsel

import (
	"github.com/hed1ad/negsel/pkg/detectors"
	"github.com/hed1ad/negsel/pkg/spatial"
)

// Classify labels a raw point. It returns Negative when any detector lies
// within the radius of the normalized point and Positive otherwise.
func (m *Model) Classify(p detectors.Point) (detectors.Class, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return detectors.Positive, detectors.ErrNotTrained
	}

	return m.classify(p, -1)
}

func (m *Model) classify(p detectors.Point, index int) (detectors.Class, error) {
	if err := detectors.ValidatePoint(p, index); err != nil {
		return detectors.Positive, err
	}

	normalized := m.bounds.Normalize(p)
	if !spatial.Finite(normalized) {
		return detectors.Positive, &detectors.InvalidPointError{
			Point:  p,
			Index:  index,
			Reason: "normalizes to non-finite coordinates",
		}
	}

	class := detectors.Positive
	if len(m.index.QueryWithin(normalized, m.radius)) > 0 {
		class = detectors.Negative
	}

	m.observer.PointClassified(p, normalized, class)
	return class, nil
}

// Evaluate classifies every point and returns the fraction whose predicted
// class matches the expected one.
func (m *Model) Evaluate(points []detectors.LabeledPoint) (float64, error) {
	e, err := m.EvaluateReport(points)
	if err != nil {
		return 0, err
	}
	return e.Accuracy, nil
}

// EvaluateReport is Evaluate with the full confusion counts.
func (m *Model) EvaluateReport(points []detectors.LabeledPoint) (detectors.Evaluation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return detectors.Evaluation{}, detectors.ErrNotTrained
	}
	if len(points) == 0 {
		return detectors.Evaluation{}, detectors.ErrEmptyInput
	}

	var e detectors.Evaluation
	for i, lp := range points {
		predicted, err := m.classify(lp.Point, i)
		if err != nil {
			return detectors.Evaluation{}, err
		}

		switch {
		case predicted == detectors.Positive && lp.Class == detectors.Positive:
			e.TruePositive++
		case predicted == detectors.Positive:
			e.FalsePositive++
		case lp.Class == detectors.Negative:
			e.TrueNegative++
		default:
			e.FalseNegative++
		}
	}

	e.Total = len(points)
	e.Correct = e.TruePositive + e.TrueNegative
	e.Accuracy = float64(e.Correct) / float64(e.Total)

	m.observer.EvaluationCompleted(e)
	return e, nil
}
