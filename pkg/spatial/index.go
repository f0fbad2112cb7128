// Package spatial provides a 2D point index with radius-bounded proximity queries.
package spatial

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"
)

// ErrNonFinite is returned when a point has a NaN or infinite coordinate.
var ErrNonFinite = errors.New("point has non-finite coordinates")

// unitSquare is the minimum extent of every index.
var unitSquare = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}

// boxSlack widens the quadtree prefilter box so float rounding in the box
// edges can never drop a point the exact distance check would keep.
const boxSlack = 1e-9

// Index stores 2D points and answers "which points lie within r of c"
// using true Euclidean distance. Points carry no payload.
type Index struct {
	tree   *quadtree.Quadtree
	bound  orb.Bound
	points []orb.Point
}

// New creates an empty index.
func New() *Index {
	return &Index{
		tree:  quadtree.New(unitSquare),
		bound: unitSquare,
	}
}

// Insert adds a point to the index.
func (ix *Index) Insert(p orb.Point) error {
	if !Finite(p) {
		return ErrNonFinite
	}

	ix.points = append(ix.points, p)

	// The quadtree cannot grow, so a point outside it forces a rebuild
	// over a wider bound.
	if !ix.bound.Contains(p) {
		ix.bound = ix.bound.Extend(p)
		return ix.reindex()
	}

	return ix.tree.Add(p)
}

// Rebuild clears the index and inserts points from scratch. On error the
// index is left empty.
func (ix *Index) Rebuild(points []orb.Point) error {
	bound := unitSquare
	for _, p := range points {
		if !Finite(p) {
			ix.reset()
			return ErrNonFinite
		}
		bound = bound.Extend(p)
	}

	ix.bound = bound
	ix.points = append(make([]orb.Point, 0, len(points)), points...)
	if err := ix.reindex(); err != nil {
		ix.reset()
		return err
	}
	return nil
}

func (ix *Index) reindex() error {
	ix.tree = quadtree.New(ix.bound)
	for _, p := range ix.points {
		if err := ix.tree.Add(p); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Index) reset() {
	ix.tree = quadtree.New(unitSquare)
	ix.bound = unitSquare
	ix.points = nil
}

// QueryWithin returns every indexed point p with Distance(center, p) <= radius.
// A negative or NaN radius, or a non-finite center, matches nothing.
func (ix *Index) QueryWithin(center orb.Point, radius float64) []orb.Point {
	if !(radius >= 0) || !Finite(center) || len(ix.points) == 0 {
		return nil
	}

	box := center.Bound().Pad(radius + boxSlack)
	within := func(p orb.Pointer) bool {
		return Distance(center, p.Point()) <= radius
	}

	found := ix.tree.InBoundMatching(nil, box, within)
	if len(found) == 0 {
		return nil
	}

	result := make([]orb.Point, len(found))
	for i, p := range found {
		result[i] = p.Point()
	}
	return result
}

// Len returns the number of indexed points.
func (ix *Index) Len() int {
	return len(ix.points)
}

// Points returns a copy of the indexed points in insertion order.
func (ix *Index) Points() []orb.Point {
	return append([]orb.Point(nil), ix.points...)
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// Finite reports whether both coordinates of p are finite.
func Finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}
