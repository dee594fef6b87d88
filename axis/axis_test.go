package axis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type meters float64

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindFloat32, KindOf[float32]())
	assert.Equal(t, KindFloat64, KindOf[float64]())
	assert.Equal(t, KindFloat64, KindOf[meters]())
	assert.Equal(t, KindInt16, KindOf[int16]())
	assert.Equal(t, KindUint32, KindOf[uint32]())
	assert.Equal(t, KindUint64, KindOf[uint64]())
	assert.Equal(t, KindInvalid, KindOf[string]())
	assert.Equal(t, "uint16", KindUint16.String())
	assert.Equal(t, "invalid", Kind(200).String())
}

func TestTraitsOf(t *testing.T) {
	f := TraitsOf[float32]()
	assert.True(t, f.Float)
	assert.True(t, math.IsInf(float64(f.Max), 1))
	assert.True(t, math.IsInf(float64(f.Min), -1))

	i := TraitsOf[int16]()
	assert.False(t, i.Float)
	assert.Equal(t, int16(math.MaxInt16), i.Max)
	assert.Equal(t, int16(math.MinInt16), i.Min)

	u := TraitsOf[uint32]()
	assert.Equal(t, uint32(math.MaxUint32), u.Max)
	assert.Equal(t, uint32(0), u.Min)
}

func TestSaturatingArithmetic(t *testing.T) {
	tr := TraitsOf[int16]()

	tests := []struct {
		name string
		got  int16
		want int16
	}{
		{"add", tr.Add(10, 20), 30},
		{"add saturates", tr.Add(math.MaxInt16-1, 5), math.MaxInt16},
		{"absdiff", tr.AbsDiff(3, 10), 7},
		{"absdiff overflow", tr.AbsDiff(math.MinInt16, math.MaxInt16), math.MaxInt16},
		{"mul", tr.Mul(100, 200), math.MaxInt16},
		{"square", tr.Square(181), 32761},
		{"square saturates", tr.Square(182), math.MaxInt16},
		{"mul zero", tr.Mul(0, math.MaxInt16), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}

	ut := TraitsOf[uint16]()
	assert.Equal(t, uint16(5), ut.AbsDiff(2, 7))
	assert.Equal(t, uint16(math.MaxUint16), ut.Add(math.MaxUint16, 1))

	ft := TraitsOf[float64]()
	assert.Equal(t, 2.5, ft.AbsDiff(-1, 1.5))
	assert.True(t, math.IsInf(ft.Add(ft.Max, 1), 1))
}

func TestScaledMul(t *testing.T) {
	q16 := TraitsOf[int32]().Scaled(16)
	assert.Equal(t, uint(16), q16.FracBits)
	assert.Equal(t, int32(9<<16), q16.Square(3<<16))
	assert.Equal(t, int32(1<<14), q16.Mul(1<<15, 1<<15))
	assert.Equal(t, int32(math.MaxInt32), q16.Square(math.MaxInt32))
	assert.Equal(t, int32(0), q16.Mul(-5, 1<<16))

	q8 := TraitsOf[int16]().Scaled(8)
	assert.Equal(t, int16(4<<8), q8.Square(2<<8))
	assert.Equal(t, int16(math.MaxInt16), q8.Square(12<<8))

	i64 := TraitsOf[int64]().Scaled(32)
	assert.Equal(t, int64(1)<<40, i64.Square(int64(1)<<36))
	assert.Equal(t, int64(math.MaxInt64), i64.Square(math.MaxInt64))

	ft := TraitsOf[float64]().Scaled(16)
	assert.Zero(t, ft.FracBits)
	assert.Equal(t, 6.0, ft.Mul(2, 3))
}
