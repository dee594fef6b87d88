package kdtree

import (
	"cmp"
	"slices"

	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/metrics"
)

type within[A axis.Axis, T axis.Content, I axis.Index] struct {
	out []Neighbour[A, T]
}

func (c *within[A, T, I]) admits(A) bool { return true }

func (c *within[A, T, I]) visit(s *search[A, T, I], l, i int, d A) {
	c.out = append(c.out, Neighbour[A, T]{Distance: d, Item: s.a.leafItems(l)[i]})
}

// Within returns every entry at distance at most radius from q in
// ascending distance order. Equal distances keep traversal order.
func (x *index[A, T, I]) Within(q []A, radius A, metric distance.Metric[A], opts ...QueryOption) ([]Neighbour[A, T], error) {
	out, err := x.within(metrics.QueryWithin, q, radius, metric, opts)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, func(a, b Neighbour[A, T]) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	return out, nil
}

// WithinUnsorted is Within without the final sort; results come in
// traversal order.
func (x *index[A, T, I]) WithinUnsorted(q []A, radius A, metric distance.Metric[A], opts ...QueryOption) ([]Neighbour[A, T], error) {
	return x.within(metrics.QueryWithinUnsorted, q, radius, metric, opts)
}

func (x *index[A, T, I]) within(kind metrics.QueryKind, q []A, radius A, metric distance.Metric[A], opts []QueryOption) ([]Neighbour[A, T], error) {
	if err := checkDim(x.a.dim, len(q)); err != nil {
		return nil, err
	}

	out := []Neighbour[A, T]{}
	if x.a.size == 0 {
		return out, nil
	}

	start := x.now()
	s := x.newSearch(q, metric, opts)
	s.limit = min(s.limit, radius)
	c := &within[A, T, I]{out: out}
	s.run(c)
	x.record(kind, s, len(c.out), start)

	return c.out, nil
}
