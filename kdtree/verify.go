package kdtree

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kdgo/axis"
)

// ErrInvariant is returned by CheckInvariants.
var ErrInvariant = errors.New("kdtree: invariant violated")

// checkStructure verifies slice lengths, handle ranges, reachability,
// bucket occupancy and the entry count. It does not look at coordinates.
func (a *arena[A, T, I]) checkStructure() error {
	stems, leaves := a.numStems(), a.numLeaves()
	switch {
	case len(a.splitDims) != stems || len(a.lefts) != stems || len(a.rights) != stems:
		return errors.New("stem sections disagree in length")
	case len(a.items) != leaves*a.stride:
		return fmt.Errorf("items: %d slots for %d leaves", len(a.items), leaves)
	case len(a.coords) != leaves*a.dim*a.stride:
		return fmt.Errorf("coords: %d values for %d leaves", len(a.coords), leaves)
	case leaves == 0:
		return errors.New("no leaves")
	}

	seenStems := make([]bool, stems)
	seenLeaves := make([]bool, leaves)

	for _, h := range a.freeStems {
		if uint64(h) >= uint64(stems) || seenStems[h] {
			return fmt.Errorf("invalid free stem %d", h)
		}
		seenStems[h] = true
	}
	for _, h := range a.freeLeaves {
		if uint64(h) >= uint64(leaves) || seenLeaves[h] {
			return fmt.Errorf("invalid free leaf %d", h)
		}
		if a.sizes[h] != 0 {
			return fmt.Errorf("free leaf %d holds %d entries", h, a.sizes[h])
		}
		seenLeaves[h] = true
	}

	total := 0
	stack := []I{a.root}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if isLeaf(h) {
			l := uint64(h &^ leafBit[I]())
			if l >= uint64(leaves) || seenLeaves[l] {
				return fmt.Errorf("leaf %d out of range, shared or free", l)
			}
			seenLeaves[l] = true

			if sz := int(a.sizes[l]); sz > a.bucket {
				return fmt.Errorf("leaf %d holds %d entries, bucket size %d", l, sz, a.bucket)
			}
			total += int(a.sizes[l])
			continue
		}

		s := uint64(h)
		if s >= uint64(stems) || seenStems[s] {
			return fmt.Errorf("stem %d out of range, shared or free", s)
		}
		seenStems[s] = true

		if int(a.splitDims[s]) >= a.dim {
			return fmt.Errorf("stem %d splits dimension %d of %d", s, a.splitDims[s], a.dim)
		}
		stack = append(stack, a.rights[s], a.lefts[s])
	}

	for i, ok := range seenStems {
		if !ok {
			return fmt.Errorf("stem %d unreachable", i)
		}
	}
	for i, ok := range seenLeaves {
		if !ok {
			return fmt.Errorf("leaf %d unreachable", i)
		}
	}

	if total != a.size {
		return fmt.Errorf("leaves hold %d entries, header says %d", total, a.size)
	}

	return nil
}

// CheckInvariants verifies the tree's structure and that every entry lies
// on the correct side of each split above it. It is O(n) and meant for
// tests and diagnostics.
func (x *index[A, T, I]) CheckInvariants() error {
	a := x.a
	if err := a.checkStructure(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}

	b := bounds[A]{
		lo:    make([]A, a.dim),
		hi:    make([]A, a.dim),
		hasLo: make([]bool, a.dim),
		hasHi: make([]bool, a.dim),
	}
	if err := x.checkNode(a.root, &b, true); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}

	return nil
}

// bounds is the cell of a subtree: lo < coord <= hi per dimension.
type bounds[A axis.Axis] struct {
	lo, hi       []A
	hasLo, hasHi []bool
}

func (x *index[A, T, I]) checkNode(h I, b *bounds[A], root bool) error {
	a := x.a
	if isLeaf(h) {
		return x.checkLeaf(leafIndex(h), b, root)
	}

	s := int(h)
	d := int(a.splitDims[s])
	v := a.splitVals[s]

	hi, hasHi := b.hi[d], b.hasHi[d]
	b.hi[d], b.hasHi[d] = v, true
	if err := x.checkNode(a.lefts[s], b, false); err != nil {
		return err
	}
	b.hi[d], b.hasHi[d] = hi, hasHi

	lo, hasLo := b.lo[d], b.hasLo[d]
	b.lo[d], b.hasLo[d] = v, true
	if err := x.checkNode(a.rights[s], b, false); err != nil {
		return err
	}
	b.lo[d], b.hasLo[d] = lo, hasLo

	return nil
}

func (x *index[A, T, I]) checkLeaf(l int, b *bounds[A], root bool) error {
	a := x.a
	n := int(a.sizes[l])
	if n == 0 && !root {
		return fmt.Errorf("leaf %d is empty", l)
	}

	items := a.leafItems(l)
	for d := range a.dim {
		col := a.column(l, d)
		for i, v := range col {
			if i >= n {
				if v != a.tr.Max || items[i] != 0 {
					return fmt.Errorf("leaf %d slot %d: padding not reset", l, i)
				}
				continue
			}
			if b.hasHi[d] && v > b.hi[d] {
				return fmt.Errorf("leaf %d slot %d: coord[%d]=%v above split %v", l, i, d, v, b.hi[d])
			}
			if b.hasLo[d] && v <= b.lo[d] {
				return fmt.Errorf("leaf %d slot %d: coord[%d]=%v not above split %v", l, i, d, v, b.lo[d])
			}
		}
	}

	return nil
}
