package kdtree

import (
	"iter"
	"time"

	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/metrics"
)

// index holds the read-only operations shared by Tree and ImmutableTree.
type index[A axis.Axis, T axis.Content, I axis.Index] struct {
	a        *arena[A, T, I]
	opts     options
	observed bool
}

func newIndex[A axis.Axis, T axis.Content, I axis.Index](a *arena[A, T, I], o options) index[A, T, I] {
	_, noop := o.metrics.(metrics.NoopCollector)
	return index[A, T, I]{a: a, opts: o, observed: !noop}
}

// Size returns the number of entries.
func (x *index[A, T, I]) Size() int {
	return x.a.size
}

// Dim returns the dimensionality of the tree.
func (x *index[A, T, I]) Dim() int {
	return x.a.dim
}

// BucketSize returns the maximum number of entries per leaf.
func (x *index[A, T, I]) BucketSize() int {
	return x.a.bucket
}

// All yields every entry in tree order. The point slice is reused between
// iterations.
func (x *index[A, T, I]) All() iter.Seq2[[]A, T] {
	return func(yield func([]A, T) bool) {
		a := x.a
		pt := make([]A, a.dim)
		stack := []I{a.root}
		for len(stack) > 0 {
			h := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !isLeaf(h) {
				stack = append(stack, a.rights[h], a.lefts[h])
				continue
			}

			l := leafIndex(h)
			items := a.leafItems(l)
			for i := range int(a.sizes[l]) {
				if !yield(a.point(l, i, pt), items[i]) {
					return
				}
			}
		}
	}
}

func (x *index[A, T, I]) now() time.Time {
	if !x.observed {
		return time.Time{}
	}

	return time.Now()
}

func since(start time.Time) time.Duration {
	if start.IsZero() {
		return 0
	}

	return time.Since(start)
}
