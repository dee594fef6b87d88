// Package metrics defines the hooks trees use to report operational
// metrics, with a no-op and an in-memory implementation. Package
// metrics/prometheus exports them to Prometheus.
package metrics

import (
	"sync/atomic"
	"time"
)

// QueryKind names a query type in metrics.
type QueryKind string

const (
	QueryNearestOne     QueryKind = "nearest_one"
	QueryNearestN       QueryKind = "nearest_n"
	QueryWithin         QueryKind = "within"
	QueryWithinUnsorted QueryKind = "within_unsorted"
	QueryNearestNWithin QueryKind = "nearest_n_within"
	QueryBestN          QueryKind = "best_n"
)

// CodecOp names a persistence operation in metrics.
type CodecOp string

const (
	OpEncode CodecOp = "encode"
	OpDecode CodecOp = "decode"
)

// Collector receives operational metrics. Implementations must be safe for
// concurrent use.
type Collector interface {
	// RecordInsert is called after each insert; err is nil on success.
	RecordInsert(duration time.Duration, err error)

	// RecordRemove is called after each remove.
	RecordRemove(duration time.Duration, found bool)

	// RecordQuery is called after each query with the number of buckets
	// scanned and results returned.
	RecordQuery(kind QueryKind, leaves, results int, duration time.Duration)

	// RecordBuild is called after each bulk load.
	RecordBuild(points int, duration time.Duration, err error)

	// RecordCodec is called after each encode or decode of a tree.
	RecordCodec(op CodecOp, format string, bytes int64, duration time.Duration, err error)
}

// NoopCollector discards all metrics.
type NoopCollector struct{}

func (NoopCollector) RecordInsert(time.Duration, error)                        {}
func (NoopCollector) RecordRemove(time.Duration, bool)                         {}
func (NoopCollector) RecordQuery(QueryKind, int, int, time.Duration)           {}
func (NoopCollector) RecordBuild(int, time.Duration, error)                    {}
func (NoopCollector) RecordCodec(CodecOp, string, int64, time.Duration, error) {}

// BasicCollector keeps simple in-memory counters.
type BasicCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	RemoveCount      atomic.Int64
	RemoveMisses     atomic.Int64
	QueryCount       atomic.Int64
	QueryLeaves      atomic.Int64
	QueryResults     atomic.Int64
	QueryTotalNanos  atomic.Int64
	BuildCount       atomic.Int64
	BuildPoints      atomic.Int64
	BuildErrors      atomic.Int64
	EncodeBytes      atomic.Int64
	DecodeBytes      atomic.Int64
	CodecErrors      atomic.Int64
}

// RecordInsert implements Collector.
func (b *BasicCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordRemove implements Collector.
func (b *BasicCollector) RecordRemove(_ time.Duration, found bool) {
	b.RemoveCount.Add(1)
	if !found {
		b.RemoveMisses.Add(1)
	}
}

// RecordQuery implements Collector.
func (b *BasicCollector) RecordQuery(_ QueryKind, leaves, results int, duration time.Duration) {
	b.QueryCount.Add(1)
	b.QueryLeaves.Add(int64(leaves))
	b.QueryResults.Add(int64(results))
	b.QueryTotalNanos.Add(duration.Nanoseconds())
}

// RecordBuild implements Collector.
func (b *BasicCollector) RecordBuild(points int, _ time.Duration, err error) {
	b.BuildCount.Add(1)
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildPoints.Add(int64(points))
}

// RecordCodec implements Collector.
func (b *BasicCollector) RecordCodec(op CodecOp, _ string, bytes int64, _ time.Duration, err error) {
	if err != nil {
		b.CodecErrors.Add(1)
		return
	}

	switch op {
	case OpEncode:
		b.EncodeBytes.Add(bytes)
	case OpDecode:
		b.DecodeBytes.Add(bytes)
	}
}

// Stats is a snapshot of BasicCollector state.
type Stats struct {
	InsertCount    int64
	InsertErrors   int64
	InsertAvgNanos int64
	RemoveCount    int64
	RemoveMisses   int64
	QueryCount     int64
	QueryAvgLeaves float64
	QueryAvgNanos  int64
	QueryResults   int64
	BuildCount     int64
	BuildPoints    int64
	BuildErrors    int64
	EncodeBytes    int64
	DecodeBytes    int64
	CodecErrors    int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicCollector) GetStats() Stats {
	s := Stats{
		InsertCount:  b.InsertCount.Load(),
		InsertErrors: b.InsertErrors.Load(),
		RemoveCount:  b.RemoveCount.Load(),
		RemoveMisses: b.RemoveMisses.Load(),
		QueryCount:   b.QueryCount.Load(),
		QueryResults: b.QueryResults.Load(),
		BuildCount:   b.BuildCount.Load(),
		BuildPoints:  b.BuildPoints.Load(),
		BuildErrors:  b.BuildErrors.Load(),
		EncodeBytes:  b.EncodeBytes.Load(),
		DecodeBytes:  b.DecodeBytes.Load(),
		CodecErrors:  b.CodecErrors.Load(),
	}

	if s.InsertCount > 0 {
		s.InsertAvgNanos = b.InsertTotalNanos.Load() / s.InsertCount
	}
	if s.QueryCount > 0 {
		s.QueryAvgNanos = b.QueryTotalNanos.Load() / s.QueryCount
		s.QueryAvgLeaves = float64(b.QueryLeaves.Load()) / float64(s.QueryCount)
	}

	return s
}

// Compile-time checks.
var (
	_ Collector = NoopCollector{}
	_ Collector = (*BasicCollector)(nil)
)
