package kdtree

import (
	"time"

	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/metrics"
	"github.com/hupe1980/kdgo/queue"
)

type nearestOne[A axis.Axis, T axis.Content, I axis.Index] struct {
	best  Neighbour[A, T]
	found bool
}

func (c *nearestOne[A, T, I]) admits(rd A) bool {
	return !c.found || rd < c.best.Distance
}

func (c *nearestOne[A, T, I]) visit(s *search[A, T, I], l, i int, d A) {
	c.best = Neighbour[A, T]{Distance: d, Item: s.a.leafItems(l)[i]}
	c.found = true
}

// NearestOne returns the entry nearest to q. Among entries at the same
// distance the first one found wins. It fails with ErrEmptyTree when the
// tree has no entries and with ErrNotFound when no entry passes opts.
func (x *index[A, T, I]) NearestOne(q []A, metric distance.Metric[A], opts ...QueryOption) (Neighbour[A, T], error) {
	if err := checkDim(x.a.dim, len(q)); err != nil {
		return Neighbour[A, T]{}, err
	}
	if x.a.size == 0 {
		return Neighbour[A, T]{}, ErrEmptyTree
	}

	start := x.now()
	s := x.newSearch(q, metric, opts)
	c := &nearestOne[A, T, I]{}
	s.run(c)

	results := 0
	if c.found {
		results = 1
	}
	x.record(metrics.QueryNearestOne, s, results, start)

	if !c.found {
		return Neighbour[A, T]{}, ErrNotFound
	}

	return c.best, nil
}

type nearestN[A axis.Axis, T axis.Content, I axis.Index] struct {
	n    int
	heap *queue.PriorityQueue[A, T]
}

func (c *nearestN[A, T, I]) admits(rd A) bool {
	return c.heap.Admits(rd, c.n)
}

func (c *nearestN[A, T, I]) visit(s *search[A, T, I], l, i int, d A) {
	c.heap.PushItemBounded(queue.Item[A, T]{Value: s.a.leafItems(l)[i], Priority: d}, c.n)
}

func (c *nearestN[A, T, I]) results() []Neighbour[A, T] {
	drained := c.heap.Drain()
	out := make([]Neighbour[A, T], len(drained))
	for i, it := range drained {
		out[i] = Neighbour[A, T]{Distance: it.Priority, Item: it.Value}
	}

	return out
}

// NearestN returns up to n entries nearest to q in ascending distance
// order. It returns an empty result without traversing when n <= 0.
func (x *index[A, T, I]) NearestN(q []A, n int, metric distance.Metric[A], opts ...QueryOption) ([]Neighbour[A, T], error) {
	return x.nearestN(metrics.QueryNearestN, q, n, x.a.tr.Max, metric, opts)
}

// NearestNWithin returns up to n entries nearest to q with distance at
// most radius, in ascending distance order.
func (x *index[A, T, I]) NearestNWithin(q []A, radius A, n int, metric distance.Metric[A], opts ...QueryOption) ([]Neighbour[A, T], error) {
	return x.nearestN(metrics.QueryNearestNWithin, q, n, radius, metric, opts)
}

func (x *index[A, T, I]) nearestN(kind metrics.QueryKind, q []A, n int, radius A, metric distance.Metric[A], opts []QueryOption) ([]Neighbour[A, T], error) {
	if err := checkDim(x.a.dim, len(q)); err != nil {
		return nil, err
	}
	if n <= 0 || x.a.size == 0 {
		return []Neighbour[A, T]{}, nil
	}

	start := x.now()
	s := x.newSearch(q, metric, opts)
	s.limit = min(s.limit, radius)
	c := &nearestN[A, T, I]{n: n, heap: queue.NewMax[A, T](min(n, x.a.size))}
	s.run(c)

	out := c.results()
	x.record(kind, s, len(out), start)

	return out, nil
}

func (x *index[A, T, I]) record(kind metrics.QueryKind, s *search[A, T, I], results int, start time.Time) {
	if x.observed {
		x.opts.metrics.RecordQuery(kind, s.leaves, results, since(start))
	}
}
