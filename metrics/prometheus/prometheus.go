// Package prometheus exports tree metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	tree, _ := kdtree.New[float64, uint64, uint32](3,
//		kdtree.WithMetrics(kdprom.NewCollector(reg, "kdgo")))
package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/kdgo/metrics"
)

// Collector implements metrics.Collector with Prometheus instruments.
type Collector struct {
	inserts        *prometheus.CounterVec
	insertDuration prometheus.Histogram
	removes        *prometheus.CounterVec
	queries        *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	queryLeaves    *prometheus.HistogramVec
	queryResults   *prometheus.HistogramVec
	builds         *prometheus.CounterVec
	buildPoints    prometheus.Counter
	buildDuration  prometheus.Histogram
	codecBytes     *prometheus.CounterVec
	codecErrors    *prometheus.CounterVec
	codecDuration  *prometheus.HistogramVec
}

// NewCollector registers the instruments with reg under namespace.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	f := promauto.With(reg)

	return &Collector{
		inserts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inserts_total",
			Help:      "Total number of point insertions by outcome",
		}, []string{"status"}),
		insertDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "insert_duration_seconds",
			Help:      "Latency of point insertions",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
		removes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "removes_total",
			Help:      "Total number of point removals by outcome",
		}, []string{"found"}),
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of queries by kind",
		}, []string{"kind"}),
		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Latency of queries by kind",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		}, []string{"kind"}),
		queryLeaves: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_leaves_scanned",
			Help:      "Buckets scanned per query",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"kind"}),
		queryResults: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_results",
			Help:      "Results returned per query",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"kind"}),
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Total number of bulk loads by outcome",
		}, []string{"status"}),
		buildPoints: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_points_total",
			Help:      "Total number of points bulk loaded",
		}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Latency of bulk loads",
			Buckets:   prometheus.DefBuckets,
		}),
		codecBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codec_bytes_total",
			Help:      "Bytes encoded or decoded by operation and format",
		}, []string{"op", "format"}),
		codecErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codec_errors_total",
			Help:      "Failed encodes or decodes by operation and format",
		}, []string{"op", "format"}),
		codecDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "codec_duration_seconds",
			Help:      "Latency of encodes and decodes",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "format"}),
	}
}

// RecordInsert implements metrics.Collector.
func (c *Collector) RecordInsert(duration time.Duration, err error) {
	c.inserts.WithLabelValues(status(err)).Inc()
	c.insertDuration.Observe(duration.Seconds())
}

// RecordRemove implements metrics.Collector.
func (c *Collector) RecordRemove(_ time.Duration, found bool) {
	c.removes.WithLabelValues(strconv.FormatBool(found)).Inc()
}

// RecordQuery implements metrics.Collector.
func (c *Collector) RecordQuery(kind metrics.QueryKind, leaves, results int, duration time.Duration) {
	k := string(kind)
	c.queries.WithLabelValues(k).Inc()
	c.queryDuration.WithLabelValues(k).Observe(duration.Seconds())
	c.queryLeaves.WithLabelValues(k).Observe(float64(leaves))
	c.queryResults.WithLabelValues(k).Observe(float64(results))
}

// RecordBuild implements metrics.Collector.
func (c *Collector) RecordBuild(points int, duration time.Duration, err error) {
	c.builds.WithLabelValues(status(err)).Inc()
	if err == nil {
		c.buildPoints.Add(float64(points))
	}
	c.buildDuration.Observe(duration.Seconds())
}

// RecordCodec implements metrics.Collector.
func (c *Collector) RecordCodec(op metrics.CodecOp, format string, bytes int64, duration time.Duration, err error) {
	if err != nil {
		c.codecErrors.WithLabelValues(string(op), format).Inc()
		return
	}
	c.codecBytes.WithLabelValues(string(op), format).Add(float64(bytes))
	c.codecDuration.WithLabelValues(string(op), format).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var _ metrics.Collector = (*Collector)(nil)
