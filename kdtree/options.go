package kdtree

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kdgo/metrics"
)

const (
	// DefaultBucketSize is the leaf capacity used when none is configured.
	DefaultBucketSize = 32
	// DefaultParallelThreshold is the smallest sub-range Build partitions
	// on a separate goroutine.
	DefaultParallelThreshold = 4096
)

type options struct {
	bucketSize        int
	capacity          int
	parallelThreshold int
	maxWorkers        int
	logger            *slog.Logger
	metrics           metrics.Collector

	// decoding
	expectDimension  int
	expectBucketSize int
	verifyChecksum   bool
	closer           io.Closer
}

// Option configures tree construction, bulk loading and decoding.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		bucketSize:        DefaultBucketSize,
		parallelThreshold: DefaultParallelThreshold,
		maxWorkers:        runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.metrics == nil {
		o.metrics = metrics.NoopCollector{}
	}
	if o.maxWorkers < 1 {
		o.maxWorkers = 1
	}
	if o.parallelThreshold < 1 {
		o.parallelThreshold = 1
	}

	return o
}

// WithBucketSize sets the maximum number of entries per leaf.
//
// Larger buckets mean shallower trees and longer linear scans. Values
// between 16 and 64 work well for low-dimensional data.
func WithBucketSize(b int) Option {
	return func(o *options) {
		o.bucketSize = b
	}
}

// WithCapacity preallocates room for n entries.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithParallelThreshold sets the smallest sub-range Build partitions and
// emits on its own goroutine.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		o.parallelThreshold = n
	}
}

// WithMaxWorkers bounds the goroutines Build runs concurrently.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(c metrics.Collector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

// WithExpectDimension makes decoding fail with ErrFormatMismatch unless the
// encoded tree has dimension dim.
func WithExpectDimension(dim int) Option {
	return func(o *options) {
		o.expectDimension = dim
	}
}

// WithExpectBucketSize makes decoding fail with ErrFormatMismatch unless the
// encoded tree has bucket size b.
func WithExpectBucketSize(b int) Option {
	return func(o *options) {
		o.expectBucketSize = b
	}
}

// WithVerifyChecksum makes View verify the body checksum. Decode and the
// portable decoders always verify.
func WithVerifyChecksum() Option {
	return func(o *options) {
		o.verifyChecksum = true
	}
}

// WithCloser attaches a resource to a viewed tree. ImmutableTree.Close
// closes it, typically the mapping or blob backing the viewed bytes.
func WithCloser(c io.Closer) Option {
	return func(o *options) {
		o.closer = c
	}
}

type queryOptions struct {
	filter      func(item uint64) bool
	allow       *roaring.Bitmap
	maxDistance float64
	hasMax      bool
}

// QueryOption restricts the candidates a query considers.
type QueryOption func(*queryOptions)

// WithFilter only considers entries for which fn returns true. Contents are
// passed converted to uint64.
func WithFilter(fn func(item uint64) bool) QueryOption {
	return func(o *queryOptions) {
		o.filter = fn
	}
}

// WithAllowList only considers entries whose content is in bm. Contents
// outside the uint32 range never match.
func WithAllowList(bm *roaring.Bitmap) QueryOption {
	return func(o *queryOptions) {
		o.allow = bm
	}
}

// WithMaxDistance only considers entries at distance <= d.
func WithMaxDistance(d float64) QueryOption {
	return func(o *queryOptions) {
		o.maxDistance = d
		o.hasMax = true
	}
}
