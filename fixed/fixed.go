// Package fixed converts between floating point values and fixed-point
// integer coordinates.
//
// The fractional precision is chosen at the type level:
//
//	p := fixed.FromFloat[fixed.Q16, int32](1.5) // 98304
//	f := fixed.ToFloat[fixed.Q16](p)          // 1.5
//
// Queries over fixed-point trees take a metric that knows the precision:
//
//	m := fixed.SquaredEuclidean[fixed.Q16, int32]()
//	n, _ := tree.NearestOne(q, m)
//	d := fixed.SquaredDistanceToFloat[fixed.Q16](n.Distance)
//
// Distances keep the fractional bits of the coordinates.
package fixed

import (
	"math"

	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/distance"
)

// Precision selects the number of fractional bits of a fixed-point value.
type Precision interface {
	FracBits() uint
}

type (
	Q8  struct{}
	Q12 struct{}
	Q14 struct{}
	Q16 struct{}
	Q24 struct{}
	Q32 struct{}
)

func (Q8) FracBits() uint  { return 8 }
func (Q12) FracBits() uint { return 12 }
func (Q14) FracBits() uint { return 14 }
func (Q16) FracBits() uint { return 16 }
func (Q24) FracBits() uint { return 24 }
func (Q32) FracBits() uint { return 32 }

// FromFloat converts f to a fixed-point value, rounding to nearest and
// clamping to the range of A.
func FromFloat[P Precision, A axis.Integer](f float64) A {
	var p P

	tr := axis.TraitsOf[A]()
	v := math.Round(math.Ldexp(f, int(p.FracBits())))

	switch {
	case math.IsNaN(v):
		return 0
	case v >= float64(tr.Max):
		return tr.Max
	case v <= float64(tr.Min):
		return tr.Min
	}

	return A(v)
}

// ToFloat converts a fixed-point value to float64.
func ToFloat[P Precision, A axis.Integer](v A) float64 {
	var p P
	return math.Ldexp(float64(v), -int(p.FracBits()))
}

// FromFloats converts a point to fixed-point, appending to dst.
func FromFloats[P Precision, A axis.Integer](dst []A, src []float64) []A {
	for _, f := range src {
		dst = append(dst, FromFloat[P, A](f))
	}

	return dst
}

// DistanceToFloat converts a Manhattan distance over fixed-point coordinates
// to float64.
func DistanceToFloat[P Precision, A axis.Integer](d A) float64 {
	return ToFloat[P](d)
}

// SquaredDistanceToFloat converts a distance returned by [SquaredEuclidean]
// to float64.
func SquaredDistanceToFloat[P Precision, A axis.Integer](d A) float64 {
	return ToFloat[P](d)
}

// SquaredEuclidean returns the squared Euclidean metric for coordinates of
// precision P. Per-axis products are rescaled by P's fractional bits.
func SquaredEuclidean[P Precision, A axis.Integer]() *distance.SquaredEuclidean[A] {
	var p P
	return distance.NewScaledSquaredEuclidean[A](p.FracBits())
}

// Manhattan returns the Manhattan metric for fixed-point coordinates. Sums
// of differences need no rescaling, so it is the plain integer metric.
func Manhattan[P Precision, A axis.Integer]() *distance.Manhattan[A] {
	return distance.NewManhattan[A]()
}
