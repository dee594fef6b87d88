// Package distance provides the metrics used to rank points in a tree.
//
// A [Metric] must be axis-decomposable: the distance between two points is
// at least the sum of the per-axis contributions reported by Axial. The
// tree relies on this to prune subtrees using only the distance from the
// query to splitting planes. Squared Euclidean and Manhattan distances
// satisfy it; Chebyshev does not.
//
// Metrics that also implement [BlockMetric] are evaluated bucket-at-a-time
// with the kernels of internal/simd. User supplied metrics ([Func]) are
// evaluated entry by entry.
package distance
