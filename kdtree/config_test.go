package kdtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, DefaultBucketSize, cfg.BucketSize)
		assert.Equal(t, DefaultParallelThreshold, cfg.ParallelThreshold)
		assert.Zero(t, cfg.MaxWorkers)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("KDGO_BUCKET_SIZE", "8")
		t.Setenv("KDGO_PARALLEL_THRESHOLD", "128")
		t.Setenv("KDGO_MAX_WORKERS", "2")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, Config{BucketSize: 8, ParallelThreshold: 128, MaxWorkers: 2}, cfg)

		tree, err := New[float64, uint64, uint32](2, cfg.Options()...)
		require.NoError(t, err)
		assert.Equal(t, 8, tree.BucketSize())

		o := newOptions(cfg.Options())
		assert.Equal(t, 128, o.parallelThreshold)
		assert.Equal(t, 2, o.maxWorkers)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("KDGO_BUCKET_SIZE", "many")
		_, err := LoadConfig()
		require.Error(t, err)

		t.Setenv("KDGO_BUCKET_SIZE", "0")
		_, err = LoadConfig()
		require.ErrorIs(t, err, ErrInvalidBucketSize)
	})

	t.Run("zero config keeps defaults", func(t *testing.T) {
		o := newOptions(Config{}.Options())
		assert.Equal(t, DefaultBucketSize, o.bucketSize)
	})
}
