package axis

import (
	"math"
	"math/bits"
	"reflect"
)

// Float is the set of floating point coordinate types.
type Float interface {
	~float32 | ~float64
}

// Integer is the set of fixed-point coordinate types.
type Integer interface {
	~int16 | ~int32 | ~int64 | ~uint16 | ~uint32
}

// Axis is the coordinate type contract.
type Axis interface {
	Float | Integer
}

// Content is the set of types that can be stored alongside a point.
type Content interface {
	~uint16 | ~uint32 | ~uint64 | ~int32 | ~int64
}

// Index is the set of node handle types. The width bounds the number of
// stems and leaves a tree can hold.
type Index interface {
	~uint16 | ~uint32 | ~uint64
}

// Kind identifies the underlying machine representation of a type parameter.
// It is recorded in persisted trees to detect type mismatches on decode.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFloat32
	KindFloat64
	KindInt16
	KindInt32
	KindInt64
	KindUint16
	KindUint32
	KindUint64
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	default:
		return "invalid"
	}
}

// KindOf returns the Kind of E's underlying type.
func KindOf[E any]() Kind {
	switch reflect.TypeFor[E]().Kind() {
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	default:
		return KindInvalid
	}
}

// Traits describes the numeric properties of a coordinate type.
type Traits[A Axis] struct {
	Kind  Kind
	Float bool
	// Max is the largest representable value (+Inf for floats). It doubles
	// as the sentinel stored in unused bucket slots.
	Max A
	// Min is the smallest representable value (-Inf for floats).
	Min A
	// FracBits is the number of fractional bits of a fixed-point
	// coordinate. Products are shifted right by it so they keep the
	// coordinate scale. Always zero for floats.
	FracBits uint
}

// TraitsOf returns the traits of A.
func TraitsOf[A Axis]() Traits[A] {
	t := Traits[A]{Kind: KindOf[A]()}

	switch t.Kind {
	case KindFloat32, KindFloat64:
		t.Float = true
		inf := math.Inf(1)
		t.Max = A(inf)
		t.Min = A(-inf)
	case KindInt16:
		var hi, lo int64 = math.MaxInt16, math.MinInt16
		t.Max, t.Min = A(hi), A(lo)
	case KindInt32:
		var hi, lo int64 = math.MaxInt32, math.MinInt32
		t.Max, t.Min = A(hi), A(lo)
	case KindInt64:
		var hi, lo int64 = math.MaxInt64, math.MinInt64
		t.Max, t.Min = A(hi), A(lo)
	case KindUint16:
		var hi uint64 = math.MaxUint16
		t.Max = A(hi)
	case KindUint32:
		var hi uint64 = math.MaxUint32
		t.Max = A(hi)
	}

	return t
}

// Add returns a+b for non-negative b, saturating at Max for integers.
func (t Traits[A]) Add(a, b A) A {
	s := a + b
	if !t.Float && s < a {
		return t.Max
	}

	return s
}

// AbsDiff returns |a-b|, saturating at Max for integers.
func (t Traits[A]) AbsDiff(a, b A) A {
	if a < b {
		a, b = b, a
	}

	d := a - b
	if !t.Float && d < 0 {
		// signed overflow
		return t.Max
	}

	return d
}

// Scaled returns a copy of t for fixed-point values with fracBits
// fractional bits. It is a no-op for floats.
func (t Traits[A]) Scaled(fracBits uint) Traits[A] {
	if !t.Float {
		t.FracBits = fracBits
	}

	return t
}

// Mul returns a*b for non-negative operands, saturating at Max for integers.
// Integer products are computed at 128 bits and shifted right by FracBits
// before saturation.
func (t Traits[A]) Mul(a, b A) A {
	if t.Float {
		return a * b
	}

	if a <= 0 || b <= 0 {
		return 0
	}

	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if f := t.FracBits; f > 0 {
		if f >= 64 {
			lo, hi = hi>>(f-64), 0
		} else {
			lo = lo>>f | hi<<(64-f)
			hi >>= f
		}
	}

	if hi != 0 || lo > uint64(t.Max) {
		return t.Max
	}

	return A(lo)
}

// Square returns a*a for non-negative a.
func (t Traits[A]) Square(a A) A {
	return t.Mul(a, a)
}
