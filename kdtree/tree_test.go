package kdtree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/testutil"
)

func newScenarioTree(t *testing.T) *Tree[float64, uint64, uint32] {
	t.Helper()

	tree, err := New[float64, uint64, uint32](2, WithBucketSize(4))
	require.NoError(t, err)

	entries := []struct {
		point []float64
		item  uint64
	}{
		{[]float64{0, 0}, 1},
		{[]float64{1, 1}, 2},
		{[]float64{5, 5}, 3},
		{[]float64{2, 2}, 4},
		{[]float64{9, 9}, 5},
	}
	for _, e := range entries {
		require.NoError(t, tree.Insert(e.point, e.item))
	}

	return tree
}

func TestScenario(t *testing.T) {
	tree := newScenarioTree(t)
	metric := distance.NewSquaredEuclidean[float64]()

	require.NoError(t, tree.CheckInvariants())
	assert.Equal(t, 5, tree.Size())
	assert.Equal(t, 2, tree.Dim())
	assert.Equal(t, 4, tree.BucketSize())

	st := tree.Stats()
	assert.Equal(t, 1, st.Stems)
	assert.Equal(t, 2, st.Leaves)
	assert.Equal(t, 1, st.MaxDepth)

	t.Run("nearest n", func(t *testing.T) {
		got, err := tree.NearestN([]float64{0, 0}, 3, metric)
		require.NoError(t, err)
		assert.Equal(t, []Neighbour[float64, uint64]{
			{Distance: 0, Item: 1},
			{Distance: 2, Item: 2},
			{Distance: 8, Item: 4},
		}, got)
	})

	t.Run("within", func(t *testing.T) {
		got, err := tree.Within([]float64{0, 0}, 9, metric)
		require.NoError(t, err)
		assert.Equal(t, []Neighbour[float64, uint64]{
			{Distance: 0, Item: 1},
			{Distance: 2, Item: 2},
			{Distance: 8, Item: 4},
		}, got)
	})

	t.Run("nearest one tie", func(t *testing.T) {
		got, err := tree.NearestOne([]float64{1, 2}, metric)
		require.NoError(t, err)
		assert.Equal(t, 1.0, got.Distance)
		assert.Contains(t, []uint64{2, 4}, got.Item)
	})
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		dim  int
		opts []Option
		want error
	}{
		{"zero dimension", 0, nil, ErrInvalidDimension},
		{"dimension too large", maxDimension + 1, nil, ErrInvalidDimension},
		{"zero bucket", 2, []Option{WithBucketSize(0)}, ErrInvalidBucketSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[float32, uint32, uint32](tt.dim, tt.opts...)
			require.ErrorIs(t, err, tt.want)
		})
	}

	tree, err := New[float32, uint32, uint32](maxDimension, WithBucketSize(1))
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Size())
}

func TestInsertDimensionMismatch(t *testing.T) {
	tree := newScenarioTree(t)

	err := tree.Insert([]float64{1, 2, 3}, 9)
	var dm *ErrDimensionMismatch
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 3, dm.Actual)
	assert.Equal(t, "dimension mismatch: expected 2, got 3", err.Error())
	assert.Equal(t, 5, tree.Size())

	_, err = tree.Remove([]float64{1}, 2)
	require.True(t, errors.As(err, &dm))
}

func TestBucketOverflow(t *testing.T) {
	tree, err := New[float64, uint64, uint32](2, WithBucketSize(2))
	require.NoError(t, err)

	require.NoError(t, tree.Insert([]float64{1, 1}, 1))
	require.NoError(t, tree.Insert([]float64{1, 1}, 2))
	require.ErrorIs(t, tree.Insert([]float64{1, 1}, 3), ErrBucketOverflow)

	assert.Equal(t, 2, tree.Size())
	require.NoError(t, tree.CheckInvariants())

	// A distinct point still splits the full bucket.
	require.NoError(t, tree.Insert([]float64{1, 2}, 4))
	assert.Equal(t, 3, tree.Size())
	require.NoError(t, tree.CheckInvariants())
}

func TestSplitFallsThroughConstantDimension(t *testing.T) {
	tree, err := New[float64, uint64, uint32](2, WithBucketSize(4))
	require.NoError(t, err)

	// Constant along dimension 0, the first split candidate.
	for i := range 5 {
		require.NoError(t, tree.Insert([]float64{3, float64(i)}, uint64(i)))
	}

	require.NoError(t, tree.CheckInvariants())
	assert.Equal(t, uint16(1), tree.a.splitDims[0])
}

func TestBucketSizeOne(t *testing.T) {
	tree, err := New[float64, uint64, uint32](1, WithBucketSize(1))
	require.NoError(t, err)

	for i := range 64 {
		require.NoError(t, tree.Insert([]float64{float64((i * 37) % 64)}, uint64(i)))
	}

	require.NoError(t, tree.CheckInvariants())
	st := tree.Stats()
	assert.Equal(t, 64, st.Leaves)
	assert.Equal(t, 63, st.Stems)
}

func TestInsertRemoveMatchesLinearScan(t *testing.T) {
	rng := testutil.NewRNG(7)
	points := testutil.UniformPoints[float64](rng, 600, 3, -50, 50)
	items := testutil.Sequence[uint64](len(points))
	metric := distance.NewSquaredEuclidean[float64]()

	tree, err := New[float64, uint64, uint32](3, WithBucketSize(8))
	require.NoError(t, err)
	for i, p := range points {
		require.NoError(t, tree.Insert(p, items[i]))
	}
	require.NoError(t, tree.CheckInvariants())

	// Remove every other entry.
	var keptPoints [][]float64
	var keptItems []uint64
	for i, p := range points {
		if i%2 == 0 {
			found, err := tree.Remove(p, items[i])
			require.NoError(t, err)
			require.True(t, found)
			continue
		}
		keptPoints = append(keptPoints, p)
		keptItems = append(keptItems, items[i])
	}

	require.NoError(t, tree.CheckInvariants())
	assert.Equal(t, len(keptPoints), tree.Size())

	queries := testutil.UniformPoints[float64](rng, 25, 3, -60, 60)
	checkAgainstLinear[float64, uint64](t, tree, keptPoints, keptItems, queries, metric, 400)
}

func TestRemoveMissing(t *testing.T) {
	tree := newScenarioTree(t)

	found, err := tree.Remove([]float64{1, 1}, 99)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = tree.Remove([]float64{1, 1.5}, 2)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, 5, tree.Size())
}

func TestRemoveReclaimsLeaves(t *testing.T) {
	rng := testutil.NewRNG(3)
	points := testutil.UniformPoints[float32](rng, 300, 2, 0, 1)

	tree, err := New[float32, uint32, uint32](2, WithBucketSize(4))
	require.NoError(t, err)
	for i, p := range points {
		require.NoError(t, tree.Insert(p, uint32(i)))
	}
	before := tree.Stats()
	require.Positive(t, before.Stems)

	for i, p := range points {
		found, err := tree.Remove(p, uint32(i))
		require.NoError(t, err)
		require.True(t, found)
	}

	require.NoError(t, tree.CheckInvariants())
	empty := tree.Stats()
	assert.Equal(t, 0, empty.Size)
	assert.Equal(t, empty.Stems, empty.FreeStems)
	assert.Equal(t, 1, empty.Leaves-empty.FreeLeaves)

	_, err = tree.NearestOne([]float32{0, 0}, distance.NewSquaredEuclidean[float32]())
	require.ErrorIs(t, err, ErrEmptyTree)

	// Reinserting reuses the released slots.
	for i, p := range points {
		require.NoError(t, tree.Insert(p, uint32(i)))
	}
	after := tree.Stats()
	assert.Equal(t, before.Stems, after.Stems)
	assert.Equal(t, before.Leaves, after.Leaves)
	require.NoError(t, tree.CheckInvariants())
}

func TestCapacityExceeded(t *testing.T) {
	tree, err := New[float64, uint32, uint16](1, WithBucketSize(1))
	require.NoError(t, err)

	const limit = 1 << 15
	for i := range limit {
		require.NoError(t, tree.Insert([]float64{float64((i * 7919) % 32771)}, uint32(i)))
	}

	err = tree.Insert([]float64{float64((limit * 7919) % 32771)}, limit)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, limit, tree.Size())
}

func TestFreeze(t *testing.T) {
	tree := newScenarioTree(t)
	frozen := tree.Freeze()

	require.NoError(t, tree.Insert([]float64{0.5, 0.5}, 6))
	found, err := tree.Remove([]float64{0, 0}, 1)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, 5, frozen.Size())
	got, err := frozen.NearestOne([]float64{0, 0}, distance.NewSquaredEuclidean[float64]())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Item)
	require.NoError(t, frozen.CheckInvariants())
	require.NoError(t, frozen.Close())
}

func TestAll(t *testing.T) {
	tree := newScenarioTree(t)

	seen := map[uint64][]float64{}
	for p, item := range tree.All() {
		seen[item] = append([]float64(nil), p...)
	}
	assert.Equal(t, map[uint64][]float64{
		1: {0, 0},
		2: {1, 1},
		3: {5, 5},
		4: {2, 2},
		5: {9, 9},
	}, seen)

	n := 0
	for range tree.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestSplitIndex(t *testing.T) {
	tests := []struct {
		col  []int32
		want int
	}{
		{[]int32{0, 1, 2, 5, 9}, 2},
		{[]int32{1, 1, 1, 2}, 3},
		{[]int32{1, 2, 2, 2}, 1},
		{[]int32{4, 4, 4}, -1},
		{[]int32{3, 8}, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitIndex(tt.col), "%v", tt.col)
	}
}

func TestStrideFor(t *testing.T) {
	assert.Equal(t, 8, strideFor(1))
	assert.Equal(t, 8, strideFor(8))
	assert.Equal(t, 16, strideFor(9))
	assert.Equal(t, 32, strideFor(32))
	assert.Equal(t, 64, strideFor(33))
}
