// Package kdtree implements a bucketed k-d tree for low-dimensional nearest
// neighbour search.
//
// Nodes live in a flat arena addressed by integer handles. Stems hold a
// split dimension and value; leaves (buckets) hold up to a configurable
// number of points stored column-wise, so a whole bucket is scored by one
// vectorized kernel call.
//
// # Construction
//
// A Tree grows one point at a time with Insert and shrinks with Remove.
// Build bulk loads an ImmutableTree from a point set, partitioning and
// emitting large subtrees concurrently:
//
//	t, err := kdtree.Build[float64, uint64, uint32](3, points, ids)
//	if err != nil {
//		return err
//	}
//	nn, err := t.NearestN(q, 10, distance.NewSquaredEuclidean[float64]())
//
// # Queries
//
// NearestOne, NearestN, NearestNWithin, Within, WithinUnsorted and BestN
// accept any distance.Metric whose per-axis contribution never exceeds the
// full distance. Metrics implementing distance.BlockMetric score buckets
// with the SIMD-friendly kernel.
//
// # Persistence
//
// Trees encode into two formats. The fixed layout (WriteTo) mirrors the
// arena in native memory order and is opened without copying by View or
// OpenFile. The portable format (WritePortableTo) is msgpack, optionally
// compressed, and independent of the platform.
package kdtree
