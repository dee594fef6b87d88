package kdgo

import (
	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/kdtree"
	"github.com/hupe1980/kdgo/metrics"
)

// Float64Tree is a mutable tree of float64 points with uint64 items.
type Float64Tree = kdtree.Tree[float64, uint64, uint32]

// Float64Frozen is a read-only tree of float64 points with uint64 items.
type Float64Frozen = kdtree.ImmutableTree[float64, uint64, uint32]

// Float32Tree is a mutable tree of float32 points with uint32 items.
type Float32Tree = kdtree.Tree[float32, uint32, uint32]

// Float32Frozen is a read-only tree of float32 points with uint32 items.
type Float32Frozen = kdtree.ImmutableTree[float32, uint32, uint32]

// Neighbour is a query result.
type Neighbour[A axis.Axis, T axis.Content] = kdtree.Neighbour[A, T]

type (
	// Option configures construction, bulk load and decoding.
	Option = kdtree.Option
	// QueryOption configures a single query.
	QueryOption = kdtree.QueryOption
)

var (
	WithBucketSize        = kdtree.WithBucketSize
	WithCapacity          = kdtree.WithCapacity
	WithParallelThreshold = kdtree.WithParallelThreshold
	WithMaxWorkers        = kdtree.WithMaxWorkers
	WithExpectDimension   = kdtree.WithExpectDimension
	WithExpectBucketSize  = kdtree.WithExpectBucketSize
	WithVerifyChecksum    = kdtree.WithVerifyChecksum
	WithCloser            = kdtree.WithCloser

	WithFilter      = kdtree.WithFilter
	WithAllowList   = kdtree.WithAllowList
	WithMaxDistance = kdtree.WithMaxDistance
)

// WithLogger routes tree logs to l.
func WithLogger(l *Logger) Option {
	return kdtree.WithLogger(l.Logger)
}

// WithMetrics records tree operations in c.
func WithMetrics(c metrics.Collector) Option {
	return kdtree.WithMetrics(c)
}

// FromEnv returns the options described by KDGO_* environment variables.
func FromEnv() ([]Option, error) {
	cfg, err := kdtree.LoadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Options(), nil
}

// Euclidean returns the squared Euclidean metric.
func Euclidean[A axis.Axis]() distance.Metric[A] {
	return distance.NewSquaredEuclidean[A]()
}

// Manhattan returns the L1 metric.
func Manhattan[A axis.Axis]() distance.Metric[A] {
	return distance.NewManhattan[A]()
}

// NewFloat64 creates an empty float64 tree of dimension dim.
func NewFloat64(dim int, opts ...Option) (*Float64Tree, error) {
	return kdtree.New[float64, uint64, uint32](dim, opts...)
}

// BuildFloat64 bulk loads points with their items.
func BuildFloat64(dim int, points [][]float64, items []uint64, opts ...Option) (*Float64Frozen, error) {
	return kdtree.Build[float64, uint64, uint32](dim, points, items, opts...)
}

// OpenFloat64 opens a float64 tree file of either format.
func OpenFloat64(path string, opts ...Option) (*Float64Frozen, error) {
	return kdtree.OpenFile[float64, uint64, uint32](path, opts...)
}

// NewFloat32 creates an empty float32 tree of dimension dim.
func NewFloat32(dim int, opts ...Option) (*Float32Tree, error) {
	return kdtree.New[float32, uint32, uint32](dim, opts...)
}

// BuildFloat32 bulk loads points with their items.
func BuildFloat32(dim int, points [][]float32, items []uint32, opts ...Option) (*Float32Frozen, error) {
	return kdtree.Build[float32, uint32, uint32](dim, points, items, opts...)
}

// OpenFloat32 opens a float32 tree file of either format.
func OpenFloat32(path string, opts ...Option) (*Float32Frozen, error) {
	return kdtree.OpenFile[float32, uint32, uint32](path, opts...)
}
