package negsel

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hed1ad/negsel/pkg/detectors"
	"github.com/hed1ad/negsel/pkg/spatial"
)

// candidateSource yields candidate detectors in normalized space.
type candidateSource interface {
	Next() detectors.Point
}

// uniformSource draws candidates uniformly from the unit square.
type uniformSource struct {
	u distuv.Uniform
}

func newUniformSource(src rand.Source) *uniformSource {
	return &uniformSource{u: distuv.Uniform{Min: 0, Max: 1, Src: src}}
}

func (s *uniformSource) Next() detectors.Point {
	return detectors.Point{s.u.Rand(), s.u.Rand()}
}

// generator runs one negative-selection pass against a fixed self index.
type generator struct {
	self        *spatial.Index
	radius      float64
	maxAttempts int
	sampler     candidateSource
	observer    Observer

	// Statistics
	hits     int
	attempts int
	rejected int
	fromGrid int
	perHit   *hdrhistogram.Histogram
}

func newGenerator(self *spatial.Index, radius float64, maxAttempts int, sampler candidateSource, observer Observer) *generator {
	highest := int64(maxAttempts)
	switch {
	case maxAttempts <= 0:
		highest = math.MaxInt32
	case highest < 2:
		highest = 2
	}
	return &generator{
		self:        self,
		radius:      radius,
		maxAttempts: maxAttempts,
		sampler:     sampler,
		observer:    observer,
		perHit:      hdrhistogram.New(1, highest, 3),
	}
}

// isNonSelf reports whether no self sample lies within the radius of c.
func (g *generator) isNonSelf(c detectors.Point) bool {
	return len(g.self.QueryWithin(c, g.radius)) == 0
}

// preallocLimit bounds the up-front capacity of the detector slice; larger
// targets grow by append as detectors are accepted.
const preallocLimit = 1 << 16

// generate returns exactly target detectors. Rejection sampling runs first;
// when it gives up and gridResolution > 0 the grid fills the remainder.
func (g *generator) generate(target, gridResolution int, src rand.Source) ([]detectors.Point, error) {
	accepted := make([]detectors.Point, 0, min(target, preallocLimit))

	accepted, err := g.rejection(target, accepted)
	if err == nil || gridResolution <= 0 {
		return accepted, err
	}

	return g.grid(target, accepted, gridResolution, src)
}

func (g *generator) rejection(target int, accepted []detectors.Point) ([]detectors.Point, error) {
	for len(accepted) < target {
		tries := 0
		for {
			if g.maxAttempts > 0 && tries >= g.maxAttempts {
				return accepted, &detectors.InsufficientCoverageError{
					Target:   target,
					Accepted: len(accepted),
					Attempts: g.attempts,
				}
			}

			candidate := g.sampler.Next()
			g.attempts++
			tries++

			if g.isNonSelf(candidate) {
				accepted = g.accept(accepted, candidate, tries)
				break
			}
			g.rejected++
		}
	}
	return accepted, nil
}

// grid samples the remaining detectors from the cells of a
// resolution x resolution grid whose centers are outside the self region.
// A jittered candidate that lands inside the self region is replaced by its
// (already verified) cell center.
func (g *generator) grid(target int, accepted []detectors.Point, resolution int, src rand.Source) ([]detectors.Point, error) {
	step := 1 / float64(resolution)

	var cells []detectors.Point
	for i := 0; i < resolution; i++ {
		for j := 0; j < resolution; j++ {
			center := detectors.Point{(float64(i) + 0.5) * step, (float64(j) + 0.5) * step}
			if g.isNonSelf(center) {
				cells = append(cells, center)
			}
		}
	}

	if len(cells) == 0 {
		return accepted, &detectors.InsufficientCoverageError{
			Target:   target,
			Accepted: len(accepted),
			Attempts: g.attempts,
		}
	}

	rng := rand.New(src)
	jitter := distuv.Uniform{Min: -step / 2, Max: step / 2, Src: src}

	for len(accepted) < target {
		cell := cells[rng.IntN(len(cells))]
		candidate := detectors.Point{cell[0] + jitter.Rand(), cell[1] + jitter.Rand()}
		g.attempts++

		if !g.isNonSelf(candidate) {
			g.rejected++
			candidate = cell
		}
		g.fromGrid++
		accepted = g.accept(accepted, candidate, 1)
	}

	return accepted, nil
}

func (g *generator) accept(accepted []detectors.Point, d detectors.Point, tries int) []detectors.Point {
	// Values above the histogram range only happen without a cap.
	_ = g.perHit.RecordValue(int64(tries))
	g.hits++
	g.observer.DetectorAccepted(d, tries)
	return append(accepted, d)
}

func (g *generator) report(id uuid.UUID, elapsed time.Duration) detectors.FitReport {
	r := detectors.FitReport{
		ID:        id,
		Detectors: g.hits,
		Attempts:  g.attempts,
		Rejected:  g.rejected,
		FromGrid:  g.fromGrid,
		Duration:  elapsed,
	}
	if g.perHit.TotalCount() > 0 {
		r.AttemptsP50 = g.perHit.ValueAtQuantile(50)
		r.AttemptsP99 = g.perHit.ValueAtQuantile(99)
		r.AttemptsMax = g.perHit.Max()
	}
	return r
}
