package kdtree

import (
	"fmt"
	"slices"

	"github.com/hupe1980/kdgo/axis"
)

// Tree is a mutable bucketed k-d tree.
//
// A is the coordinate type, T the content stored with each point and I the
// node handle type, whose width bounds the number of nodes. Tree is not
// safe for concurrent mutation; queries may run concurrently while no
// writer is active.
type Tree[A axis.Axis, T axis.Content, I axis.Index] struct {
	index[A, T, I]
	scratch []A
}

// New returns an empty tree of the given dimensionality.
func New[A axis.Axis, T axis.Content, I axis.Index](dim int, opts ...Option) (*Tree[A, T, I], error) {
	o := newOptions(opts)
	if err := validateShape(dim, o.bucketSize); err != nil {
		return nil, err
	}

	a := newArena[A, T, I](dim, o.bucketSize)
	if o.capacity > 0 {
		leaves := o.capacity/max(1, o.bucketSize/2) + 1
		a.reserve(leaves, leaves)
	}

	l, err := a.allocLeaf()
	if err != nil {
		return nil, err
	}
	a.root = leafHandle[I](l)

	return &Tree[A, T, I]{index: newIndex(a, o)}, nil
}

// Insert adds point with its item. Duplicate points are allowed up to the
// bucket size; beyond that Insert fails with ErrBucketOverflow and leaves
// the tree unchanged.
func (t *Tree[A, T, I]) Insert(point []A, item T) error {
	start := t.now()
	err := t.insert(point, item)
	if t.observed {
		t.opts.metrics.RecordInsert(since(start), err)
	}

	return err
}

func (t *Tree[A, T, I]) insert(point []A, item T) error {
	a := t.a
	if err := checkDim(a.dim, len(point)); err != nil {
		return err
	}

	parent, right, depth := -1, false, 0
	h := a.root
	for !isLeaf(h) {
		s := int(h)
		parent = s
		right = point[a.splitDims[s]] > a.splitVals[s]
		if right {
			h = a.rights[s]
		} else {
			h = a.lefts[s]
		}
		depth++
	}

	l := leafIndex(h)
	if int(a.sizes[l]) >= a.bucket {
		s, err := t.split(l, depth, point)
		if err != nil {
			return err
		}
		t.link(parent, right, I(s))

		if point[a.splitDims[s]] > a.splitVals[s] {
			l = leafIndex(a.rights[s])
		}
	}

	a.setEntry(l, int(a.sizes[l]), point, item)
	a.sizes[l]++
	a.size++

	return nil
}

// split divides the full leaf l, taking the pending point into account so
// that both halves have room for it. It returns the new stem, whose left
// child is l.
func (t *Tree[A, T, I]) split(l, depth int, point []A) (int, error) {
	a := t.a
	n := int(a.sizes[l])
	t.scratch = slices.Grow(t.scratch[:0], n+1)[:n+1]
	col := t.scratch

	for j := range a.dim {
		d := (depth + j) % a.dim
		copy(col, a.column(l, d)[:n])
		col[n] = point[d]
		slices.Sort(col)

		m := splitIndex(col)
		if m < 0 {
			continue
		}
		v := col[m-1]

		r, err := a.allocLeaf()
		if err != nil {
			return 0, err
		}
		s, err := a.allocStem()
		if err != nil {
			a.freeLeaf(r)
			return 0, err
		}

		keep, moved := 0, 0
		for i := range n {
			if a.column(l, d)[i] <= v {
				if keep != i {
					a.moveEntry(l, i, l, keep)
				}
				keep++
				continue
			}
			a.moveEntry(l, i, r, moved)
			moved++
		}
		for i := keep; i < n; i++ {
			a.clearSlot(l, i)
		}
		a.sizes[l] = uint32(keep)
		a.sizes[r] = uint32(moved)

		a.splitVals[s] = v
		a.splitDims[s] = uint16(d)
		a.lefts[s] = leafHandle[I](l)
		a.rights[s] = leafHandle[I](r)

		t.opts.logger.Debug("kdtree: split leaf", "leaf", l, "dim", d, "value", v, "left", keep, "right", moved)

		return s, nil
	}

	return 0, fmt.Errorf("%w: %d entries at %v", ErrBucketOverflow, n+1, point)
}

// splitIndex returns the index m closest to the middle of the sorted column
// with col[m-1] < col[m], or -1 when all values are equal.
func splitIndex[A axis.Axis](col []A) int {
	n := len(col)
	mid := n / 2
	for off := 0; off < n; off++ {
		if m := mid - off; m >= 1 && col[m-1] < col[m] {
			return m
		}
		if m := mid + off; off > 0 && m <= n-1 && col[m-1] < col[m] {
			return m
		}
	}

	return -1
}

// link points the parent's child slot (or the root) at h.
func (t *Tree[A, T, I]) link(parent int, right bool, h I) {
	a := t.a
	switch {
	case parent < 0:
		a.root = h
	case right:
		a.rights[parent] = h
	default:
		a.lefts[parent] = h
	}
}

// Remove deletes the entry with exactly the given coordinates and item. It
// reports whether such an entry existed. Leaves are not merged; a leaf that
// becomes empty is released together with its parent stem.
func (t *Tree[A, T, I]) Remove(point []A, item T) (bool, error) {
	start := t.now()
	found, err := t.remove(point, item)
	if t.observed {
		t.opts.metrics.RecordRemove(since(start), found)
	}

	return found, err
}

func (t *Tree[A, T, I]) remove(point []A, item T) (bool, error) {
	a := t.a
	if err := checkDim(a.dim, len(point)); err != nil {
		return false, err
	}

	gp, gpRight := -1, false
	parent, right := -1, false
	h := a.root
	for !isLeaf(h) {
		s := int(h)
		gp, gpRight = parent, right
		parent = s
		right = point[a.splitDims[s]] > a.splitVals[s]
		if right {
			h = a.rights[s]
		} else {
			h = a.lefts[s]
		}
	}

	l := leafIndex(h)
	n := int(a.sizes[l])
	items := a.leafItems(l)
	blk := a.block(l)

	idx := -1
	for i := range n {
		if items[i] != item {
			continue
		}
		match := true
		for d, v := range point {
			if blk[d*a.stride+i] != v {
				match = false
				break
			}
		}
		if match {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	last := n - 1
	if idx != last {
		a.moveEntry(l, last, l, idx)
	}
	a.clearSlot(l, last)
	a.sizes[l]--
	a.size--

	if a.sizes[l] == 0 && parent >= 0 {
		sibling := a.rights[parent]
		if right {
			sibling = a.lefts[parent]
		}
		t.link(gp, gpRight, sibling)
		a.freeStem(parent)
		a.freeLeaf(l)
	}

	return true, nil
}

// Freeze returns an immutable copy of the tree that shares no storage with
// it.
func (t *Tree[A, T, I]) Freeze() *ImmutableTree[A, T, I] {
	return &ImmutableTree[A, T, I]{index: newIndex(t.a.clone(), t.opts)}
}
