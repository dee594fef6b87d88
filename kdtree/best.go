package kdtree

import (
	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/metrics"
	"github.com/hupe1980/kdgo/queue"
)

// Scored is a BestN result.
type Scored[A axis.Axis, T axis.Content] struct {
	Score    float64
	Distance A
	Item     T
}

// ScoreFunc rates an entry; higher scores win. point is a scratch buffer
// reused for every entry and must not be retained after the call; copy it
// if needed.
type ScoreFunc[A axis.Axis, T axis.Content] func(point []A, item T, dist A) float64

type bestN[A axis.Axis, T axis.Content, I axis.Index] struct {
	n     int
	score ScoreFunc[A, T]
	heap  *queue.PriorityQueue[float64, Neighbour[A, T]]
}

func (c *bestN[A, T, I]) admits(A) bool { return true }

func (c *bestN[A, T, I]) visit(s *search[A, T, I], l, i int, d A) {
	item := s.a.leafItems(l)[i]
	sc := c.score(s.a.point(l, i, s.pt), item, d)
	c.heap.PushItemBounded(queue.Item[float64, Neighbour[A, T]]{
		Value:    Neighbour[A, T]{Distance: d, Item: item},
		Priority: sc,
	}, c.n)
}

// BestN returns the n entries with the highest score in descending score
// order. Only the distance bound set by WithMaxDistance prunes the
// traversal, so without it every entry is scored.
func (x *index[A, T, I]) BestN(q []A, n int, metric distance.Metric[A], score ScoreFunc[A, T], opts ...QueryOption) ([]Scored[A, T], error) {
	if err := checkDim(x.a.dim, len(q)); err != nil {
		return nil, err
	}
	if n <= 0 || x.a.size == 0 {
		return []Scored[A, T]{}, nil
	}

	start := x.now()
	s := x.newSearch(q, metric, opts)
	c := &bestN[A, T, I]{
		n:     n,
		score: score,
		heap:  queue.NewMin[float64, Neighbour[A, T]](min(n, x.a.size)),
	}
	s.run(c)

	drained := c.heap.Drain()
	out := make([]Scored[A, T], len(drained))
	for i, it := range drained {
		out[i] = Scored[A, T]{Score: it.Priority, Distance: it.Value.Distance, Item: it.Value.Item}
	}
	x.record(metrics.QueryBestN, s, len(out), start)

	return out, nil
}
