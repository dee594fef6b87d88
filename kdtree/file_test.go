package kdtree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/persistence"
	"github.com/hupe1980/kdgo/testutil"
)

func TestSaveAndOpenFile(t *testing.T) {
	rng := testutil.NewRNG(31)
	points := testutil.UniformPoints[float32](rng, 3000, 3, -1, 1)
	items := testutil.Sequence[uint32](len(points))
	queries := testutil.UniformPoints[float32](rng, 10, 3, -1, 1)
	metric := distance.NewSquaredEuclidean[float32]()

	tree, err := Build[float32, uint32, uint32](3, points, items)
	require.NoError(t, err)

	dir := t.TempDir()

	t.Run("fixed", func(t *testing.T) {
		path := filepath.Join(dir, "tree.kdt")
		require.NoError(t, tree.SaveFile(path))

		opened, err := OpenFile[float32, uint32, uint32](path, WithVerifyChecksum())
		require.NoError(t, err)
		require.NotNil(t, opened.closer)

		checkAgainstLinear(t, opened, points, items, queries, metric, 0.05)
		require.NoError(t, opened.Close())
		require.NoError(t, opened.Close())

		loaded, err := LoadFile[float32, uint32, uint32](path)
		require.NoError(t, err)
		assert.Equal(t, tree.Size(), loaded.Size())
	})

	t.Run("portable", func(t *testing.T) {
		path := filepath.Join(dir, "tree.kdp")
		require.NoError(t, tree.SavePortableFile(path, persistence.CompressionZSTD))

		opened, err := OpenFile[float32, uint32, uint32](path)
		require.NoError(t, err)
		assert.Nil(t, opened.closer)
		checkAgainstLinear(t, opened, points, items, queries, metric, 0.05)

		loaded, err := LoadFile[float32, uint32, uint32](path)
		require.NoError(t, err)
		require.NoError(t, loaded.Insert([]float32{0, 0, 0}, 1))
		assert.Equal(t, tree.Size()+1, loaded.Size())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := OpenFile[float32, uint32, uint32](filepath.Join(dir, "missing"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("garbage", func(t *testing.T) {
		path := filepath.Join(dir, "garbage")
		require.NoError(t, os.WriteFile(path, []byte("not a tree at all"), 0o600))

		_, err := OpenFile[float32, uint32, uint32](path)
		require.ErrorIs(t, err, ErrFormatMismatch)

		_, err = LoadFile[float32, uint32, uint32](path)
		require.ErrorIs(t, err, ErrFormatMismatch)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := OpenFile[float64, uint32, uint32](filepath.Join(dir, "tree.kdt"))
		require.ErrorIs(t, err, ErrFormatMismatch)
	})
}
