package kdtree

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/internal/simd"
)

// maxDimension is the largest dimension a split can address.
const maxDimension = 1<<16 - 1

// arena stores stems and leaves in flat, index-addressed slices.
//
// Leaf l keeps its coordinates column-wise: dimension d occupies
// coords[(l*dim+d)*stride : (l*dim+d+1)*stride]. Slots at or past
// sizes[l] hold the axis maximum and a zero item.
type arena[A axis.Axis, T axis.Content, I axis.Index] struct {
	dim    int
	bucket int
	stride int
	tr     axis.Traits[A]

	root I
	size int

	splitVals []A
	splitDims []uint16
	lefts     []I
	rights    []I

	coords []A
	items  []T
	sizes  []uint32

	freeStems  []I
	freeLeaves []I
}

func leafBit[I axis.Index]() I {
	return ^(^I(0) >> 1)
}

func isLeaf[I axis.Index](h I) bool {
	return h&leafBit[I]() != 0
}

func leafHandle[I axis.Index](l int) I {
	return I(l) | leafBit[I]()
}

func leafIndex[I axis.Index](h I) int {
	return int(h &^ leafBit[I]())
}

// maxNodes returns the number of stems (and of leaves) I can address.
func maxNodes[I axis.Index]() uint64 {
	return uint64(leafBit[I]())
}

// strideFor returns the padded slot count of a bucket of size b.
func strideFor(b int) int {
	n := max(b, simd.BlockWidth)
	return 1 << bits.Len(uint(n-1))
}

func validateShape(dim, bucket int) error {
	if dim < 1 || dim > maxDimension {
		return fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	if bucket < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBucketSize, bucket)
	}

	return nil
}

func newArena[A axis.Axis, T axis.Content, I axis.Index](dim, bucket int) *arena[A, T, I] {
	return &arena[A, T, I]{
		dim:    dim,
		bucket: bucket,
		stride: strideFor(bucket),
		tr:     axis.TraitsOf[A](),
	}
}

// reserve grows the backing slices to hold the given node counts without
// reallocating.
func (a *arena[A, T, I]) reserve(stems, leaves int) {
	a.splitVals = slices.Grow(a.splitVals, stems)
	a.splitDims = slices.Grow(a.splitDims, stems)
	a.lefts = slices.Grow(a.lefts, stems)
	a.rights = slices.Grow(a.rights, stems)
	a.coords = slices.Grow(a.coords, leaves*a.dim*a.stride)
	a.items = slices.Grow(a.items, leaves*a.stride)
	a.sizes = slices.Grow(a.sizes, leaves)
}

// resize sets exact node counts, as used by the bulk loader. New leaves are
// empty.
func (a *arena[A, T, I]) resize(stems, leaves int) {
	a.splitVals = make([]A, stems)
	a.splitDims = make([]uint16, stems)
	a.lefts = make([]I, stems)
	a.rights = make([]I, stems)
	a.coords = make([]A, leaves*a.dim*a.stride)
	a.items = make([]T, leaves*a.stride)
	a.sizes = make([]uint32, leaves)

	if a.tr.Max != 0 {
		for i := range a.coords {
			a.coords[i] = a.tr.Max
		}
	}
}

func (a *arena[A, T, I]) numStems() int  { return len(a.splitVals) }
func (a *arena[A, T, I]) numLeaves() int { return len(a.sizes) }

// block returns the coordinate columns of leaf l.
func (a *arena[A, T, I]) block(l int) []A {
	n := a.dim * a.stride
	return a.coords[l*n : (l+1)*n : (l+1)*n]
}

// column returns dimension d of leaf l.
func (a *arena[A, T, I]) column(l, d int) []A {
	off := (l*a.dim + d) * a.stride
	return a.coords[off : off+a.stride : off+a.stride]
}

// leafItems returns the item slots of leaf l.
func (a *arena[A, T, I]) leafItems(l int) []T {
	return a.items[l*a.stride : (l+1)*a.stride : (l+1)*a.stride]
}

// point gathers entry i of leaf l into dst.
func (a *arena[A, T, I]) point(l, i int, dst []A) []A {
	dst = dst[:a.dim]
	blk := a.block(l)
	for d := range dst {
		dst[d] = blk[d*a.stride+i]
	}

	return dst
}

// setEntry writes point and item into slot i of leaf l.
func (a *arena[A, T, I]) setEntry(l, i int, point []A, item T) {
	blk := a.block(l)
	for d, v := range point {
		blk[d*a.stride+i] = v
	}
	a.leafItems(l)[i] = item
}

// moveEntry copies slot src of leaf from into slot dst of leaf to.
func (a *arena[A, T, I]) moveEntry(from, src, to, dst int) {
	fb, tb := a.block(from), a.block(to)
	for d := range a.dim {
		tb[d*a.stride+dst] = fb[d*a.stride+src]
	}
	a.leafItems(to)[dst] = a.leafItems(from)[src]
}

// clearSlot resets slot i of leaf l to the padding sentinel.
func (a *arena[A, T, I]) clearSlot(l, i int) {
	blk := a.block(l)
	for d := range a.dim {
		blk[d*a.stride+i] = a.tr.Max
	}
	a.leafItems(l)[i] = 0
}

func (a *arena[A, T, I]) allocLeaf() (int, error) {
	if n := len(a.freeLeaves); n > 0 {
		l := int(a.freeLeaves[n-1])
		a.freeLeaves = a.freeLeaves[:n-1]
		return l, nil
	}

	l := len(a.sizes)
	if uint64(l) >= maxNodes[I]() {
		return 0, fmt.Errorf("%w: %d leaves", ErrCapacityExceeded, l)
	}

	a.sizes = append(a.sizes, 0)
	a.items = append(a.items, make([]T, a.stride)...)
	start := len(a.coords)
	a.coords = append(a.coords, make([]A, a.dim*a.stride)...)
	if a.tr.Max != 0 {
		for i := start; i < len(a.coords); i++ {
			a.coords[i] = a.tr.Max
		}
	}

	return l, nil
}

func (a *arena[A, T, I]) allocStem() (int, error) {
	if n := len(a.freeStems); n > 0 {
		s := int(a.freeStems[n-1])
		a.freeStems = a.freeStems[:n-1]
		return s, nil
	}

	s := len(a.splitVals)
	if uint64(s) >= maxNodes[I]() {
		return 0, fmt.Errorf("%w: %d stems", ErrCapacityExceeded, s)
	}

	a.splitVals = append(a.splitVals, 0)
	a.splitDims = append(a.splitDims, 0)
	a.lefts = append(a.lefts, 0)
	a.rights = append(a.rights, 0)

	return s, nil
}

func (a *arena[A, T, I]) freeLeaf(l int) {
	for i := range int(a.sizes[l]) {
		a.clearSlot(l, i)
	}
	a.sizes[l] = 0
	a.freeLeaves = append(a.freeLeaves, I(l))
}

func (a *arena[A, T, I]) freeStem(s int) {
	a.splitVals[s] = 0
	a.splitDims[s] = 0
	a.lefts[s] = 0
	a.rights[s] = 0
	a.freeStems = append(a.freeStems, I(s))
}

// clone returns a deep copy.
func (a *arena[A, T, I]) clone() *arena[A, T, I] {
	c := *a
	c.splitVals = slices.Clone(a.splitVals)
	c.splitDims = slices.Clone(a.splitDims)
	c.lefts = slices.Clone(a.lefts)
	c.rights = slices.Clone(a.rights)
	c.coords = slices.Clone(a.coords)
	c.items = slices.Clone(a.items)
	c.sizes = slices.Clone(a.sizes)
	c.freeStems = slices.Clone(a.freeStems)
	c.freeLeaves = slices.Clone(a.freeLeaves)

	return &c
}
