package distance

import (
	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/internal/simd"
)

// Metric computes distances between points. Returned values only need to be
// order-consistent with the true distance.
type Metric[A axis.Axis] interface {
	// Dist returns the distance between a and b. Both have the tree's
	// dimensionality.
	Dist(a, b []A) A
	// Axial returns the contribution of a single axis to the distance.
	Axial(a, b A) A
}

// BlockFunc computes the distance from query to every slot of a bucket
// stored as len(query) columns of stride values each.
type BlockFunc[A axis.Axis] func(query, block []A, stride int, out []A)

// BlockMetric is a Metric with a vectorized bucket kernel. The kernel must
// return exactly what Dist returns for every slot.
type BlockMetric[A axis.Axis] interface {
	Metric[A]
	Block() BlockFunc[A]
}

// SquaredEuclidean is the squared L2 distance. Integer coordinates saturate.
type SquaredEuclidean[A axis.Axis] struct {
	tr     axis.Traits[A]
	kernel simd.Kernel[A]
}

// NewSquaredEuclidean returns the squared Euclidean metric for A.
func NewSquaredEuclidean[A axis.Axis]() *SquaredEuclidean[A] {
	return &SquaredEuclidean[A]{
		tr:     axis.TraitsOf[A](),
		kernel: simd.SquaredL2Kernel[A](),
	}
}

// NewScaledSquaredEuclidean returns the squared Euclidean metric for
// fixed-point coordinates with fracBits fractional bits. Distances carry
// the same number of fractional bits as the coordinates.
func NewScaledSquaredEuclidean[A axis.Axis](fracBits uint) *SquaredEuclidean[A] {
	return &SquaredEuclidean[A]{
		tr:     axis.TraitsOf[A]().Scaled(fracBits),
		kernel: simd.ScaledSquaredL2Kernel[A](fracBits),
	}
}

// Dist implements Metric.
func (m *SquaredEuclidean[A]) Dist(a, b []A) A {
	var out [1]A
	m.Block()(a, b, 1, out[:])
	return out[0]
}

// Axial implements Metric.
func (m *SquaredEuclidean[A]) Axial(a, b A) A {
	tr := m.traits()
	if tr.Float {
		d := a - b
		return A(d * d)
	}

	return tr.Square(tr.AbsDiff(a, b))
}

// Block implements BlockMetric.
func (m *SquaredEuclidean[A]) Block() BlockFunc[A] {
	if m.kernel == nil {
		return BlockFunc[A](simd.SquaredL2Kernel[A]())
	}

	return BlockFunc[A](m.kernel)
}

func (m *SquaredEuclidean[A]) traits() axis.Traits[A] {
	if m.tr.Kind == axis.KindInvalid {
		return axis.TraitsOf[A]()
	}

	return m.tr
}

// Manhattan is the L1 distance. Integer coordinates saturate.
type Manhattan[A axis.Axis] struct {
	tr     axis.Traits[A]
	kernel simd.Kernel[A]
}

// NewManhattan returns the Manhattan metric for A.
func NewManhattan[A axis.Axis]() *Manhattan[A] {
	return &Manhattan[A]{
		tr:     axis.TraitsOf[A](),
		kernel: simd.ManhattanKernel[A](),
	}
}

// Dist implements Metric.
func (m *Manhattan[A]) Dist(a, b []A) A {
	var out [1]A
	m.Block()(a, b, 1, out[:])
	return out[0]
}

// Axial implements Metric.
func (m *Manhattan[A]) Axial(a, b A) A {
	if m.tr.Kind == axis.KindInvalid {
		return axis.TraitsOf[A]().AbsDiff(a, b)
	}

	return m.tr.AbsDiff(a, b)
}

// Block implements BlockMetric.
func (m *Manhattan[A]) Block() BlockFunc[A] {
	if m.kernel == nil {
		return BlockFunc[A](simd.ManhattanKernel[A]())
	}

	return BlockFunc[A](m.kernel)
}

// Func adapts user supplied functions to Metric. AxialFunc must never
// exceed DistFunc's contribution for that axis, otherwise queries may miss
// results.
type Func[A axis.Axis] struct {
	DistFunc  func(a, b []A) A
	AxialFunc func(a, b A) A
}

// Dist implements Metric.
func (f Func[A]) Dist(a, b []A) A { return f.DistFunc(a, b) }

// Axial implements Metric.
func (f Func[A]) Axial(a, b A) A { return f.AxialFunc(a, b) }

// Compile-time checks.
var (
	_ BlockMetric[float32] = (*SquaredEuclidean[float32])(nil)
	_ BlockMetric[int32]   = (*Manhattan[int32])(nil)
	_ Metric[float64]      = Func[float64]{}
)
