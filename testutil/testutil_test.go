package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func TestRNGDeterministic(t *testing.T) {
	r1 := NewRNG(42)
	r2 := NewRNG(42)

	p1 := UniformPoints[float64](r1, 10, 3, -1, 1)
	p2 := UniformPoints[float64](r2, 10, 3, -1, 1)
	assert.Equal(t, p1, p2)

	for _, p := range p1 {
		require.Len(t, p, 3)
		for _, v := range p {
			assert.GreaterOrEqual(t, v, -1.0)
			assert.Less(t, v, 1.0)
		}
	}

	r1.Reset()
	assert.Equal(t, p1, UniformPoints[float64](r1, 10, 3, -1, 1))
	assert.Equal(t, int64(42), r1.Seed())
}

func TestGridPoints(t *testing.T) {
	points := GridPoints[int32](NewRNG(1), 50, 2, 4)
	require.Len(t, points, 50)
	for _, p := range points {
		for _, v := range p {
			assert.GreaterOrEqual(t, v, int32(0))
			assert.Less(t, v, int32(4))
		}
	}
}

func TestLinearQueries(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 1}, {5, 5}, {2, 2}, {9, 9}}
	items := []uint32{1, 2, 3, 4, 5}

	nn := LinearNearestN(points, items, []float64{0, 0}, 3, sqDist)
	assert.Equal(t, []Neighbour[float64, uint32]{{0, 1}, {2, 2}, {8, 4}}, nn)

	within := LinearWithin(points, items, []float64{0, 0}, 8, sqDist)
	assert.Equal(t, []float64{0, 2, 8}, Distances(within))

	assert.Len(t, LinearNearestN(points, items, []float64{0, 0}, 10, sqDist), 5)
	assert.Equal(t, []uint64{0, 1, 2}, Sequence[uint64](3))
}
