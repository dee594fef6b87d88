package simd

import (
	"math"
	"math/rand"
	"testing"

	"github.com/hupe1980/kdgo/axis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// soa lays out points as columns of the given stride, padding with pad.
func soa[A float32 | float64 | int16 | int32 | uint16](points [][]A, stride int, pad A) []A {
	dim := len(points[0])
	block := make([]A, dim*stride)
	for i := range block {
		block[i] = pad
	}
	for i, p := range points {
		for d, v := range p {
			block[d*stride+i] = v
		}
	}
	return block
}

func TestSquaredL2KnownValues(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 1}, {5, 5}, {2, 2}}
	block := soa(points, 8, math.Inf(1))
	q := []float64{0, 0}

	for _, isa := range []ISA{Generic, AVX2} {
		t.Run(isa.String(), func(t *testing.T) {
			out := make([]float64, 8)
			squaredL2For[float64](isa)(q, block, 8, out)
			assert.Equal(t, []float64{0, 2, 50, 8}, out[:4])
			for _, v := range out[4:] {
				assert.True(t, math.IsInf(v, 1))
			}
		})
	}
}

func TestManhattanKnownValues(t *testing.T) {
	points := [][]float32{{1, -2, 3}, {0, 0, 0}}
	block := soa(points, 16, float32(math.Inf(1)))
	q := []float32{1, 1, 1}

	for _, isa := range []ISA{Generic, NEON} {
		t.Run(isa.String(), func(t *testing.T) {
			out := make([]float32, 16)
			manhattanFor[float32](isa)(q, block, 16, out)
			assert.Equal(t, []float32{5, 3}, out[:2])
		})
	}
}

func TestBlockMatchesScalarFloat(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, dim := range []int{1, 2, 3, 7, 16} {
		for _, stride := range []int{8, 16, 64} {
			block := make([]float32, dim*stride)
			for i := range block {
				block[i] = rng.Float32()*200 - 100
			}
			q := make([]float32, dim)
			for i := range q {
				q[i] = rng.Float32()*200 - 100
			}

			scalar := make([]float32, stride)
			vector := make([]float32, stride)

			squaredL2For[float32](Generic)(q, block, stride, scalar)
			squaredL2For[float32](AVX512)(q, block, stride, vector)
			require.Equal(t, scalar, vector, "squared l2 dim=%d stride=%d", dim, stride)

			manhattanFor[float32](Generic)(q, block, stride, scalar)
			manhattanFor[float32](AVX512)(q, block, stride, vector)
			require.Equal(t, scalar, vector, "manhattan dim=%d stride=%d", dim, stride)
		}
	}
}

func TestIntKernelsSaturate(t *testing.T) {
	points := [][]int16{{0, 0}, {200, 0}, {math.MaxInt16, math.MinInt16}}
	block := soa(points, 8, int16(math.MaxInt16))
	q := []int16{0, 0}

	for _, isa := range []ISA{Generic, AVX2} {
		t.Run(isa.String(), func(t *testing.T) {
			out := make([]int16, 8)
			squaredL2For[int16](isa)(q, block, 8, out)
			assert.Equal(t, int16(0), out[0])
			assert.Equal(t, int16(math.MaxInt16), out[1])
			assert.Equal(t, int16(math.MaxInt16), out[2])
			assert.Equal(t, int16(math.MaxInt16), out[7])

			manhattanFor[int16](isa)(q, block, 8, out)
			assert.Equal(t, int16(200), out[1])
			assert.Equal(t, int16(math.MaxInt16), out[2])
		})
	}

	upoints := [][]uint16{{3}, {10}}
	ublock := soa(upoints, 8, uint16(math.MaxUint16))
	out := make([]uint16, 8)
	squaredL2For[uint16](AVX2)([]uint16{5}, ublock, 8, out)
	assert.Equal(t, []uint16{4, 25}, out[:2])
}

func TestWideLanesMatchScalarInt(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	assert.Equal(t, 16, lanesFor(AVX512))
	assert.Equal(t, 16, lanesFor(SVE2))
	assert.Equal(t, BlockWidth, lanesFor(NEON))

	for _, stride := range []int{8, 24, 64} {
		block := make([]int32, 3*stride)
		for i := range block {
			block[i] = int32(rng.Intn(2000) - 1000)
		}
		q := []int32{int32(rng.Intn(100)), -5, 12}

		scalar := make([]int32, stride)
		wide := make([]int32, stride)

		squaredL2For[int32](Generic)(q, block, stride, scalar)
		squaredL2For[int32](SVE2)(q, block, stride, wide)
		require.Equal(t, scalar, wide, "squared l2 stride=%d", stride)

		manhattanFor[int32](Generic)(q, block, stride, scalar)
		manhattanFor[int32](AVX512)(q, block, stride, wide)
		require.Equal(t, scalar, wide, "manhattan stride=%d", stride)
	}
}

func TestScaledSquaredL2(t *testing.T) {
	// Q16 coordinates: 1.0 == 1<<16.
	const one = 1 << 16
	points := [][]int32{{3 * one, 0}, {one, 0}, {one / 2, one / 2}}
	block := soa(points, 8, int32(math.MaxInt32))
	q := []int32{0, 0}

	for _, isa := range []ISA{Generic, AVX2, AVX512} {
		t.Run(isa.String(), func(t *testing.T) {
			out := make([]int32, 8)
			squaredL2With(isa, axis.TraitsOf[int32]().Scaled(16))(q, block, 8, out)
			assert.Equal(t, int32(9*one), out[0])
			assert.Equal(t, int32(one), out[1])
			assert.Equal(t, int32(one/2), out[2])
			assert.Equal(t, int32(math.MaxInt32), out[7])
		})
	}
}

func TestParseISA(t *testing.T) {
	tests := []struct {
		in   string
		want ISA
		ok   bool
	}{
		{"generic", Generic, true},
		{" AVX2 ", AVX2, true},
		{"scalar", Generic, true},
		{"sve2", SVE2, true},
		{"mmx", Generic, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			isa, ok := ParseISA(tc.in)
			assert.Equal(t, tc.want, isa)
			assert.Equal(t, tc.ok, ok)
		})
	}

	assert.Equal(t, "unknown", ISA(99).String())
	assert.True(t, isISAAvailable(Generic))
}

func BenchmarkSquaredL2Block(b *testing.B) {
	const dim, stride = 3, 64
	block := make([]float32, dim*stride)
	for i := range block {
		block[i] = float32(i)
	}
	q := []float32{1, 2, 3}
	out := make([]float32, stride)
	k := SquaredL2Kernel[float32]()

	b.ResetTimer()
	for b.Loop() {
		k(q, block, stride, out)
	}
}
