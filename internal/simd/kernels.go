package simd

import "github.com/hupe1980/kdgo/axis"

// BlockWidth is the number of bucket slots processed per unrolled step.
// Bucket strides are always a multiple of it.
const BlockWidth = 8

// Kernel computes the distance from query to every slot of a bucket block.
// block holds len(query) columns of stride values each; out must have at
// least stride elements.
type Kernel[A axis.Axis] func(query, block []A, stride int, out []A)

// SquaredL2Kernel returns the squared Euclidean kernel for A on the active ISA.
func SquaredL2Kernel[A axis.Axis]() Kernel[A] {
	return squaredL2For[A](activeISA)
}

// ScaledSquaredL2Kernel returns the squared Euclidean kernel for integer
// coordinates with fracBits fractional bits. Each axis product is rescaled
// so the result keeps the coordinate scale.
func ScaledSquaredL2Kernel[A axis.Axis](fracBits uint) Kernel[A] {
	return squaredL2With(activeISA, axis.TraitsOf[A]().Scaled(fracBits))
}

// ManhattanKernel returns the Manhattan kernel for A on the active ISA.
func ManhattanKernel[A axis.Axis]() Kernel[A] {
	return manhattanFor[A](activeISA)
}

func squaredL2For[A axis.Axis](isa ISA) Kernel[A] {
	return squaredL2With(isa, axis.TraitsOf[A]())
}

func squaredL2With[A axis.Axis](isa ISA, tr axis.Traits[A]) Kernel[A] {
	lanes := lanesFor(isa)

	if tr.Float {
		switch {
		case isa == Generic:
			return squaredL2ScalarFloat[A]
		case lanes == BlockWidth:
			return squaredL2BlockFloat[A]
		}
		return func(q, block []A, stride int, out []A) {
			squaredL2WideFloat(lanes, q, block, stride, out)
		}
	}

	if isa == Generic {
		return func(q, block []A, stride int, out []A) {
			squaredL2ScalarInt(tr, q, block, stride, out)
		}
	}

	return func(q, block []A, stride int, out []A) {
		squaredL2BlockInt(tr, lanes, q, block, stride, out)
	}
}

func manhattanFor[A axis.Axis](isa ISA) Kernel[A] {
	tr := axis.TraitsOf[A]()
	lanes := lanesFor(isa)

	if tr.Float {
		if isa == Generic {
			return manhattanScalarFloat[A]
		}
		return func(q, block []A, stride int, out []A) {
			manhattanBlockFloat(lanes, q, block, stride, out)
		}
	}

	if isa == Generic {
		return func(q, block []A, stride int, out []A) {
			manhattanScalarInt(tr, q, block, stride, out)
		}
	}

	return func(q, block []A, stride int, out []A) {
		manhattanBlockInt(tr, lanes, q, block, stride, out)
	}
}

// lanesFor returns the number of slots processed per unrolled step on isa.
// Wide-register targets take two blocks at a time.
func lanesFor(isa ISA) int {
	switch isa {
	case AVX512, SVE2:
		return 2 * BlockWidth
	default:
		return BlockWidth
	}
}

func squaredL2BlockFloat[A axis.Axis](q, block []A, stride int, out []A) {
	out = out[:stride]
	clear(out)

	for d, qd := range q {
		col := block[d*stride : (d+1)*stride]

		i := 0
		for ; i+BlockWidth <= stride; i += BlockWidth {
			c := col[i : i+BlockWidth : i+BlockWidth]
			o := out[i : i+BlockWidth : i+BlockWidth]

			d0, d1, d2, d3 := c[0]-qd, c[1]-qd, c[2]-qd, c[3]-qd
			d4, d5, d6, d7 := c[4]-qd, c[5]-qd, c[6]-qd, c[7]-qd

			o[0] += A(d0 * d0)
			o[1] += A(d1 * d1)
			o[2] += A(d2 * d2)
			o[3] += A(d3 * d3)
			o[4] += A(d4 * d4)
			o[5] += A(d5 * d5)
			o[6] += A(d6 * d6)
			o[7] += A(d7 * d7)
		}

		for ; i < stride; i++ {
			t := col[i] - qd
			out[i] += A(t * t)
		}
	}
}

func squaredL2WideFloat[A axis.Axis](lanes int, q, block []A, stride int, out []A) {
	out = out[:stride]
	clear(out)

	for d, qd := range q {
		col := block[d*stride : (d+1)*stride]

		i := 0
		for ; i+lanes <= stride; i += lanes {
			c := col[i : i+lanes : i+lanes]
			o := out[i : i+lanes : i+lanes]

			for j, v := range c {
				t := v - qd
				o[j] += A(t * t)
			}
		}

		for ; i < stride; i++ {
			t := col[i] - qd
			out[i] += A(t * t)
		}
	}
}

func squaredL2ScalarFloat[A axis.Axis](q, block []A, stride int, out []A) {
	for i := range stride {
		var s A
		for d, qd := range q {
			t := block[d*stride+i] - qd
			s += A(t * t)
		}
		out[i] = s
	}
}

func squaredL2BlockInt[A axis.Axis](tr axis.Traits[A], lanes int, q, block []A, stride int, out []A) {
	out = out[:stride]
	clear(out)

	for d, qd := range q {
		col := block[d*stride : (d+1)*stride]

		i := 0
		for ; i+lanes <= stride; i += lanes {
			c := col[i : i+lanes : i+lanes]
			o := out[i : i+lanes : i+lanes]

			for j := range lanes {
				o[j] = tr.Add(o[j], tr.Square(tr.AbsDiff(c[j], qd)))
			}
		}

		for ; i < stride; i++ {
			out[i] = tr.Add(out[i], tr.Square(tr.AbsDiff(col[i], qd)))
		}
	}
}

func squaredL2ScalarInt[A axis.Axis](tr axis.Traits[A], q, block []A, stride int, out []A) {
	for i := range stride {
		var s A
		for d, qd := range q {
			s = tr.Add(s, tr.Square(tr.AbsDiff(block[d*stride+i], qd)))
		}
		out[i] = s
	}
}

func manhattanBlockFloat[A axis.Axis](lanes int, q, block []A, stride int, out []A) {
	out = out[:stride]
	clear(out)

	for d, qd := range q {
		col := block[d*stride : (d+1)*stride]

		i := 0
		for ; i+lanes <= stride; i += lanes {
			c := col[i : i+lanes : i+lanes]
			o := out[i : i+lanes : i+lanes]

			for j := range lanes {
				o[j] += absFloat(c[j] - qd)
			}
		}

		for ; i < stride; i++ {
			out[i] += absFloat(col[i] - qd)
		}
	}
}

func manhattanScalarFloat[A axis.Axis](q, block []A, stride int, out []A) {
	for i := range stride {
		var s A
		for d, qd := range q {
			s += absFloat(block[d*stride+i] - qd)
		}
		out[i] = s
	}
}

func manhattanBlockInt[A axis.Axis](tr axis.Traits[A], lanes int, q, block []A, stride int, out []A) {
	out = out[:stride]
	clear(out)

	for d, qd := range q {
		col := block[d*stride : (d+1)*stride]

		i := 0
		for ; i+lanes <= stride; i += lanes {
			c := col[i : i+lanes : i+lanes]
			o := out[i : i+lanes : i+lanes]

			for j := range lanes {
				o[j] = tr.Add(o[j], tr.AbsDiff(c[j], qd))
			}
		}

		for ; i < stride; i++ {
			out[i] = tr.Add(out[i], tr.AbsDiff(col[i], qd))
		}
	}
}

func manhattanScalarInt[A axis.Axis](tr axis.Traits[A], q, block []A, stride int, out []A) {
	for i := range stride {
		var s A
		for d, qd := range q {
			s = tr.Add(s, tr.AbsDiff(block[d*stride+i], qd))
		}
		out[i] = s
	}
}

func absFloat[A axis.Axis](v A) A {
	if v < 0 {
		return -v
	}

	return v
}
