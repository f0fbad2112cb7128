package spatial

import (
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryWithin(t *testing.T) {
	ix := New()
	require.NoError(t, ix.Rebuild([]orb.Point{
		{0.5, 0.5},
		{0.9, 0.9},
		{0.1, 0.1},
	}))

	tests := []struct {
		name   string
		center orb.Point
		radius float64
		want   []orb.Point
	}{
		{
			name:   "near one point",
			center: orb.Point{0.91, 0.91},
			radius: 0.1,
			want:   []orb.Point{{0.9, 0.9}},
		},
		{
			name:   "nothing in range",
			center: orb.Point{0.3, 0.7},
			radius: 0.1,
			want:   nil,
		},
		{
			name:   "large radius covers all",
			center: orb.Point{0.5, 0.5},
			radius: 2,
			want:   []orb.Point{{0.5, 0.5}, {0.9, 0.9}, {0.1, 0.1}},
		},
		{
			name:   "zero radius exact hit",
			center: orb.Point{0.1, 0.1},
			radius: 0,
			want:   []orb.Point{{0.1, 0.1}},
		},
		{
			name:   "negative radius",
			center: orb.Point{0.5, 0.5},
			radius: -1,
			want:   nil,
		},
		{
			name:   "nan center",
			center: orb.Point{math.NaN(), 0.5},
			radius: 1,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.QueryWithin(tt.center, tt.radius)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestQueryWithinInclusiveBoundary(t *testing.T) {
	ix := New()
	require.NoError(t, ix.Insert(orb.Point{0.5, 0.75}))

	// 0.25 is exact in binary, so the distance is exactly the radius.
	assert.Len(t, ix.QueryWithin(orb.Point{0.5, 0.5}, 0.25), 1)
	assert.Empty(t, ix.QueryWithin(orb.Point{0.5, 0.5}, math.Nextafter(0.25, 0)))
}

func TestQueryWithinUsesTrueDistance(t *testing.T) {
	ix := New()
	require.NoError(t, ix.Insert(orb.Point{0.6, 0.6}))

	// Inside the padded box but outside the circle: distance is ~0.1414.
	assert.Empty(t, ix.QueryWithin(orb.Point{0.5, 0.5}, 0.14))
	assert.Len(t, ix.QueryWithin(orb.Point{0.5, 0.5}, 0.15), 1)
}

func TestInsert(t *testing.T) {
	t.Run("outside unit square grows bound", func(t *testing.T) {
		ix := New()
		require.NoError(t, ix.Insert(orb.Point{0.2, 0.2}))
		require.NoError(t, ix.Insert(orb.Point{-3, 4.5}))
		require.NoError(t, ix.Insert(orb.Point{7, -2}))

		assert.Equal(t, 3, ix.Len())
		assert.Equal(t, []orb.Point{{-3, 4.5}}, ix.QueryWithin(orb.Point{-3, 4.4}, 0.2))
		assert.Equal(t, []orb.Point{{7, -2}}, ix.QueryWithin(orb.Point{7, -2}, 0))
		assert.Equal(t, []orb.Point{{0.2, 0.2}}, ix.QueryWithin(orb.Point{0.2, 0.2}, 0.01))
	})

	t.Run("non-finite rejected", func(t *testing.T) {
		ix := New()
		assert.ErrorIs(t, ix.Insert(orb.Point{math.Inf(1), 0}), ErrNonFinite)
		assert.ErrorIs(t, ix.Insert(orb.Point{0, math.NaN()}), ErrNonFinite)
		assert.Equal(t, 0, ix.Len())
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		ix := New()
		for i := 0; i < 5; i++ {
			require.NoError(t, ix.Insert(orb.Point{0.3, 0.3}))
		}
		assert.Len(t, ix.QueryWithin(orb.Point{0.3, 0.3}, 0), 5)
	})
}

func TestRebuild(t *testing.T) {
	ix := New()
	require.NoError(t, ix.Rebuild([]orb.Point{{0.1, 0.1}, {0.2, 0.2}}))
	require.NoError(t, ix.Rebuild([]orb.Point{{0.8, 0.8}}))

	assert.Equal(t, 1, ix.Len())
	assert.Empty(t, ix.QueryWithin(orb.Point{0.1, 0.1}, 0.05))
	assert.Len(t, ix.QueryWithin(orb.Point{0.8, 0.8}, 0.05), 1)

	t.Run("failure leaves index empty", func(t *testing.T) {
		err := ix.Rebuild([]orb.Point{{0.5, 0.5}, {math.NaN(), 0.5}})
		assert.ErrorIs(t, err, ErrNonFinite)
		assert.Equal(t, 0, ix.Len())
		assert.Empty(t, ix.QueryWithin(orb.Point{0.8, 0.8}, 1))
	})
}

func TestQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	points := make([]orb.Point, 500)
	for i := range points {
		points[i] = orb.Point{rng.Float64()*1.4 - 0.2, rng.Float64()*1.4 - 0.2}
	}

	ix := New()
	require.NoError(t, ix.Rebuild(points))

	for i := 0; i < 100; i++ {
		center := orb.Point{rng.Float64(), rng.Float64()}
		radius := rng.Float64() * 0.3

		var want []orb.Point
		for _, p := range points {
			if Distance(center, p) <= radius {
				want = append(want, p)
			}
		}
		assert.ElementsMatch(t, want, ix.QueryWithin(center, radius))
	}
}

func TestPointsReturnsCopy(t *testing.T) {
	ix := New()
	require.NoError(t, ix.Insert(orb.Point{0.4, 0.4}))

	pts := ix.Points()
	pts[0] = orb.Point{9, 9}
	assert.Equal(t, []orb.Point{{0.4, 0.4}}, ix.Points())
}

func BenchmarkQueryWithin(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	points := make([]orb.Point, 10000)
	for i := range points {
		points[i] = orb.Point{rng.Float64(), rng.Float64()}
	}
	ix := New()
	ix.Rebuild(points)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.QueryWithin(orb.Point{rng.Float64(), rng.Float64()}, 0.05)
	}
}
