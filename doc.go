// Package kdgo is an embeddable bucketed k-d tree for exact nearest
// neighbour and radius queries over low-dimensional points.
//
// Trees are generic over the coordinate type, the item type stored with each
// point, and the handle width that bounds the node count. This package
// offers aliases for the common float64/uint64/uint32 combination plus the
// logger and error surface; the full API lives in the kdtree package.
//
// # Quick Start
//
//	tree, _ := kdgo.NewFloat64(2)
//	_ = tree.Insert([]float64{0, 0}, 1)
//	_ = tree.Insert([]float64{1, 1}, 2)
//
//	nn, _ := tree.NearestN([]float64{0, 0}, 2, kdgo.Euclidean[float64]())
//
// # Bulk Load
//
// BuildFloat64 plans a balanced tree in parallel and returns an immutable
// tree whose layout is identical across runs:
//
//	frozen, _ := kdgo.BuildFloat64(2, points, items, kdgo.WithBucketSize(16))
//
// # Persistence
//
// Trees encode to a fixed layout that can be memory mapped and queried in
// place, or to a compressed portable encoding:
//
//	_ = frozen.SaveFile("cities.kdt")
//	view, _ := kdgo.OpenFloat64("cities.kdt")
//	defer view.Close()
//
// The snapshot package stores trees in any blobstore.BlobStore (local
// disk, memory, S3, MinIO).
//
// # Logging and Metrics
//
// Pass WithLogger and WithMetrics to observe builds, splits, queries and
// codec operations. metrics/prometheus exports them to Prometheus.
package kdgo
