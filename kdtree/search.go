package kdtree

import (
	"math"

	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/distance"
)

// Neighbour is a query result.
type Neighbour[A axis.Axis, T axis.Content] struct {
	Distance A
	Item     T
}

// collector receives candidate entries during a traversal.
type collector[A axis.Axis, T axis.Content, I axis.Index] interface {
	// admits reports whether a subtree whose distance lower bound is rd can
	// still contribute.
	admits(rd A) bool
	// visit is called for every accepted entry i of leaf l at distance d.
	visit(s *search[A, T, I], l, i int, d A)
}

// search is the per-query traversal state. Queries allocate their own, so
// concurrent queries never share state.
type search[A axis.Axis, T axis.Content, I axis.Index] struct {
	a      *arena[A, T, I]
	q      []A
	metric distance.Metric[A]
	block  distance.BlockFunc[A]

	// limit bounds candidate distances.
	limit A
	// off holds the axial distance from q to the current cell per dimension.
	off    []A
	dists  []A
	pt     []A
	accept func(T) bool

	leaves int
}

func (x *index[A, T, I]) newSearch(q []A, metric distance.Metric[A], opts []QueryOption) *search[A, T, I] {
	a := x.a
	s := &search[A, T, I]{
		a:      a,
		q:      q,
		metric: metric,
		limit:  a.tr.Max,
		off:    make([]A, a.dim),
		dists:  make([]A, a.stride),
		pt:     make([]A, a.dim),
	}

	if bm, ok := metric.(distance.BlockMetric[A]); ok {
		s.block = bm.Block()
	}

	var qo queryOptions
	for _, opt := range opts {
		opt(&qo)
	}

	if qo.hasMax {
		s.limit = clampDistance[A](qo.maxDistance, a.tr)
	}

	if qo.filter != nil || qo.allow != nil {
		filter, allow := qo.filter, qo.allow
		s.accept = func(item T) bool {
			v := uint64(item)
			if filter != nil && !filter(v) {
				return false
			}
			if allow != nil && (v > math.MaxUint32 || !allow.Contains(uint32(v))) {
				return false
			}
			return true
		}
	}

	return s
}

// clampDistance converts a float64 bound to A, rounding down for integer
// axes so that no distance above d is admitted.
func clampDistance[A axis.Axis](d float64, tr axis.Traits[A]) A {
	if tr.Float {
		return A(d)
	}

	switch {
	case math.IsNaN(d) || d < float64(tr.Min):
		return tr.Min
	case d >= float64(tr.Max):
		return tr.Max
	}

	return A(math.Floor(d))
}

// run traverses the tree from the root.
func (s *search[A, T, I]) run(c collector[A, T, I]) {
	s.descend(c, s.a.root, 0)
}

func (s *search[A, T, I]) descend(c collector[A, T, I], h I, rd A) {
	a := s.a
	if isLeaf(h) {
		s.scan(c, leafIndex(h))
		return
	}

	st := int(h)
	d := int(a.splitDims[st])
	v := a.splitVals[st]
	qd := s.q[d]

	near, far := a.lefts[st], a.rights[st]
	if qd > v {
		near, far = far, near
	}

	s.descend(c, near, rd)

	old := s.off[d]
	axial := s.metric.Axial(qd, v)
	frd := a.tr.Add(rd-old, axial)
	if frd > s.limit || !c.admits(frd) {
		return
	}

	s.off[d] = axial
	s.descend(c, far, frd)
	s.off[d] = old
}

// scan computes the distance to every entry of leaf l and hands accepted
// entries to c.
func (s *search[A, T, I]) scan(c collector[A, T, I], l int) {
	a := s.a
	n := int(a.sizes[l])
	if n == 0 {
		return
	}
	s.leaves++

	dists := s.dists
	if s.block != nil {
		s.block(s.q, a.block(l), a.stride, dists)
	} else {
		for i := range n {
			dists[i] = s.metric.Dist(s.q, a.point(l, i, s.pt))
		}
	}

	items := a.leafItems(l)
	for i, d := range dists[:n] {
		if d > s.limit || !c.admits(d) {
			continue
		}
		if s.accept != nil && !s.accept(items[i]) {
			continue
		}
		c.visit(s, l, i, d)
	}
}
