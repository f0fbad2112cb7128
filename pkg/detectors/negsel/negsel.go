// Package negsel implements a negative-selection classifier over a 2D
// normalized feature space.
//
// Fit draws candidate detectors uniformly from the unit square and keeps
// those farther than the radius from every normalized self sample.
// Classify labels a point Negative when any detector lies within the
// radius of it, Positive otherwise. Distances are Euclidean and the radius
// boundary is inclusive: a point at exactly the radius counts as within.
package negsel

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hed1ad/negsel/pkg/detectors"
	"github.com/hed1ad/negsel/pkg/spatial"
)

// Model is a negative-selection classifier.
type Model struct {
	mu sync.RWMutex

	// Configuration
	maxAttempts    int
	gridResolution int
	src            rand.Source
	sampler        candidateSource
	observer       Observer

	// Trained model
	id        uuid.UUID
	bounds    detectors.Bounds
	radius    float64
	detectors []detectors.Point
	index     *spatial.Index
	trained   bool
}

var _ detectors.Classifier = (*Model)(nil)

// Option configures a Model.
type Option func(*Model)

// WithSeed sets the random seed for reproducibility.
func WithSeed(seed uint64) Option {
	return func(m *Model) {
		m.src = rand.NewPCG(seed, seed)
	}
}

// WithConfig applies the sampling settings of cfg: the seed and the attempt
// cap. Radius and detector count are per fit and travel in FitParams.
func WithConfig(cfg detectors.Config) Option {
	return func(m *Model) {
		WithSeed(cfg.RandomSeed)(m)
		WithMaxAttempts(cfg.MaxAttempts)(m)
	}
}

// WithMaxAttempts caps the consecutive rejected candidates allowed per
// detector before Fit fails with an InsufficientCoverageError.
// Zero or less removes the cap.
func WithMaxAttempts(n int) Option {
	return func(m *Model) {
		m.maxAttempts = n
	}
}

// WithGridFallback enables grid sampling once rejection sampling exhausts
// its attempts. The unit square is split into resolution x resolution cells.
func WithGridFallback(resolution int) Option {
	return func(m *Model) {
		m.gridResolution = resolution
	}
}

// WithObserver sets the hook receiving fit and classification events.
func WithObserver(o Observer) Option {
	return func(m *Model) {
		m.observer = o
	}
}

// New creates an empty, untrained Model.
func New(opts ...Option) *Model {
	cfg := detectors.DefaultConfig()
	m := &Model{
		maxAttempts: cfg.MaxAttempts,
		src:         rand.NewPCG(cfg.RandomSeed, cfg.RandomSeed),
		observer:    NopObserver{},
		index:       spatial.New(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.sampler = newUniformSource(m.src)
	if m.observer == nil {
		m.observer = NopObserver{}
	}

	return m
}

// Fit generates params.TargetCount detectors from the self samples and
// replaces the model state. On error the previous state is kept.
func (m *Model) Fit(params detectors.FitParams) (detectors.FitReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := validateParams(params); err != nil {
		return detectors.FitReport{}, err
	}

	start := time.Now()

	normalized := make([]detectors.Point, len(params.Positives))
	for i, p := range params.Positives {
		normalized[i] = params.Bounds.Normalize(p)
		if !spatial.Finite(normalized[i]) {
			return detectors.FitReport{}, &detectors.InvalidPointError{
				Point:  p,
				Index:  i,
				Reason: "normalizes to non-finite coordinates",
			}
		}
	}

	self := spatial.New()
	if err := self.Rebuild(normalized); err != nil {
		return detectors.FitReport{}, err
	}

	gen := newGenerator(self, params.Radius, m.maxAttempts, m.sampler, m.observer)
	accepted, err := gen.generate(params.TargetCount, m.gridResolution, m.src)
	if err != nil {
		report := gen.report(uuid.Nil, time.Since(start))
		m.observer.FitFailed(report, err)
		return report, err
	}

	index := spatial.New()
	if err := index.Rebuild(accepted); err != nil {
		report := gen.report(uuid.Nil, time.Since(start))
		m.observer.FitFailed(report, err)
		return report, err
	}

	m.id = uuid.New()
	m.bounds = params.Bounds
	m.radius = params.Radius
	m.detectors = accepted
	m.index = index
	m.trained = true

	report := gen.report(m.id, time.Since(start))
	m.observer.FitCompleted(report)

	return report, nil
}

func validateParams(params detectors.FitParams) error {
	if err := params.Bounds.Validate(); err != nil {
		return err
	}
	if !(params.Radius >= 0) || math.IsInf(params.Radius, 1) {
		return &detectors.ConfigError{
			Field:     "radius",
			Dimension: -1,
			Value:     params.Radius,
			Reason:    "must be a finite non-negative number",
		}
	}
	if params.TargetCount < 0 {
		return &detectors.ConfigError{
			Field:     "target_count",
			Dimension: -1,
			Value:     float64(params.TargetCount),
			Reason:    "must be non-negative",
		}
	}
	for i, p := range params.Positives {
		if err := detectors.ValidatePoint(p, i); err != nil {
			return err
		}
	}
	return nil
}

// ID returns the identifier assigned by the last Fit, or the persisted one
// after Load.
func (m *Model) ID() uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id
}

// Detectors returns a copy of the detector set in normalized space.
func (m *Model) Detectors() []detectors.Point {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]detectors.Point(nil), m.detectors...)
}

// Radius returns the proximity threshold.
func (m *Model) Radius() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.radius
}

// Bounds returns the normalization bounds.
func (m *Model) Bounds() detectors.Bounds {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bounds
}

// Trained reports whether the model has been fitted or loaded.
func (m *Model) Trained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}
