package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdgo/blobstore"
	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/kdtree"
	"github.com/hupe1980/kdgo/persistence"
	"github.com/hupe1980/kdgo/testutil"
)

type fixture struct {
	tree    *kdtree.ImmutableTree[float64, uint64, uint32]
	queries [][]float64
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	rng := testutil.NewRNG(7)
	points := testutil.UniformPoints[float64](rng, 500, 3, -100, 100)
	items := testutil.Sequence[uint64](len(points))

	tree, err := kdtree.Build[float64, uint64, uint32](3, points, items, kdtree.WithBucketSize(8))
	require.NoError(t, err)

	return fixture{
		tree:    tree,
		queries: testutil.UniformPoints[float64](rng, 10, 3, -110, 110),
	}
}

type nearestNer interface {
	NearestN(q []float64, n int, metric distance.Metric[float64], opts ...kdtree.QueryOption) ([]kdtree.Neighbour[float64, uint64], error)
	Size() int
}

func (f fixture) assertSame(t *testing.T, got nearestNer) {
	t.Helper()

	metric := distance.NewSquaredEuclidean[float64]()
	require.Equal(t, f.tree.Size(), got.Size())

	for _, q := range f.queries {
		want, err := f.tree.NearestN(q, 5, metric)
		require.NoError(t, err)
		have, err := got.NearestN(q, 5, metric)
		require.NoError(t, err)
		assert.Equal(t, want, have)
	}
}

func stores(t *testing.T) map[string]blobstore.BlobStore {
	return map[string]blobstore.BlobStore{
		"local":     blobstore.NewLocalStore(t.TempDir()),
		"memory":    blobstore.NewMemoryStore(),
		"throttled": blobstore.NewThrottled(blobstore.NewMemoryStore(), 64<<20),
	}
}

func TestSaveOpenFixed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Save(ctx, store, "trees/fixed.kdt", f.tree))

			format, err := Format(ctx, store, "trees/fixed.kdt")
			require.NoError(t, err)
			assert.Equal(t, kdtree.FormatFixed, format)

			view, err := Open[float64, uint64, uint32](ctx, store, "trees/fixed.kdt")
			require.NoError(t, err)
			f.assertSame(t, view)
			require.NoError(t, view.Close())
			require.NoError(t, view.Close())

			tree, err := Load[float64, uint64, uint32](ctx, store, "trees/fixed.kdt")
			require.NoError(t, err)
			f.assertSame(t, tree)

			// A loaded tree is independent of the blob.
			require.NoError(t, tree.Insert([]float64{1, 2, 3}, 999))
			assert.Equal(t, f.tree.Size()+1, tree.Size())
		})
	}
}

func TestSaveOpenPortable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, store := range stores(t) {
		for _, c := range []persistence.Compression{persistence.CompressionNone, persistence.CompressionLZ4, persistence.CompressionZSTD} {
			t.Run(name+"/"+c.String(), func(t *testing.T) {
				require.NoError(t, SavePortable(ctx, store, "portable.kdt", f.tree, c))

				format, err := Format(ctx, store, "portable.kdt")
				require.NoError(t, err)
				assert.Equal(t, kdtree.FormatPortable, format)

				view, err := Open[float64, uint64, uint32](ctx, store, "portable.kdt")
				require.NoError(t, err)
				f.assertSame(t, view)
				require.NoError(t, view.Close())

				tree, err := Load[float64, uint64, uint32](ctx, store, "portable.kdt")
				require.NoError(t, err)
				f.assertSame(t, tree)
			})
		}
	}
}

func TestOpenErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := Open[float64, uint64, uint32](ctx, store, "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	_, err = Load[float64, uint64, uint32](ctx, store, "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "garbage", []byte("not a tree at all")))
	_, err = Open[float64, uint64, uint32](ctx, store, "garbage")
	assert.ErrorIs(t, err, kdtree.ErrFormatMismatch)

	require.NoError(t, store.Put(ctx, "tiny", []byte{1}))
	_, err = Format(ctx, store, "tiny")
	assert.ErrorIs(t, err, kdtree.ErrTruncated)

	require.NoError(t, Save(ctx, store, "tree", f.tree))
	_, err = Open[float32, uint64, uint32](ctx, store, "tree")
	assert.ErrorIs(t, err, kdtree.ErrFormatMismatch)

	_, err = Open[float64, uint64, uint32](ctx, store, "tree", kdtree.WithExpectDimension(2))
	assert.ErrorIs(t, err, kdtree.ErrFormatMismatch)
}
