package kdtree

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kdgo/axis"
)

// Entry is a point with its item, as accepted by BuildEntries.
type Entry[A axis.Axis, T axis.Content] struct {
	Point []A
	Item  T
}

// Build bulk loads an immutable tree from points and their items.
//
// Large inputs are partitioned and emitted concurrently; see
// WithParallelThreshold and WithMaxWorkers. The result satisfies the same
// invariants as a tree built by Insert, with leaves filled up to the bucket
// size.
func Build[A axis.Axis, T axis.Content, I axis.Index](dim int, points [][]A, items []T, opts ...Option) (*ImmutableTree[A, T, I], error) {
	if len(points) != len(items) {
		return nil, fmt.Errorf("%w: %d points, %d items", ErrLengthMismatch, len(points), len(items))
	}

	flat := make([]A, 0, len(points)*max(dim, 0))
	for _, p := range points {
		if err := checkDim(dim, len(p)); err != nil {
			return nil, err
		}
		flat = append(flat, p...)
	}

	return build[A, T, I](dim, flat, items, opts)
}

// BuildEntries is Build over a slice of entries.
func BuildEntries[A axis.Axis, T axis.Content, I axis.Index](dim int, entries []Entry[A, T], opts ...Option) (*ImmutableTree[A, T, I], error) {
	flat := make([]A, 0, len(entries)*max(dim, 0))
	items := make([]T, len(entries))
	for i, e := range entries {
		if err := checkDim(dim, len(e.Point)); err != nil {
			return nil, err
		}
		flat = append(flat, e.Point...)
		items[i] = e.Item
	}

	return build[A, T, I](dim, flat, items, opts)
}

func build[A axis.Axis, T axis.Content, I axis.Index](dim int, flat []A, items []T, opts []Option) (*ImmutableTree[A, T, I], error) {
	o := newOptions(opts)
	start := time.Now()

	t, err := buildArena[A, T, I](dim, flat, items, o)
	o.metrics.RecordBuild(len(items), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("kdtree: bulk load complete",
		"points", len(items),
		"stems", t.a.numStems(),
		"leaves", t.a.numLeaves(),
		"duration", time.Since(start))

	return t, nil
}

func buildArena[A axis.Axis, T axis.Content, I axis.Index](dim int, flat []A, items []T, o options) (*ImmutableTree[A, T, I], error) {
	if err := validateShape(dim, o.bucketSize); err != nil {
		return nil, err
	}

	p := &planner[A]{
		flat:      flat,
		dim:       dim,
		bucket:    o.bucketSize,
		threshold: o.parallelThreshold,
		perm:      make([]int, len(items)),
	}
	for i := range p.perm {
		p.perm[i] = i
	}
	p.g.SetLimit(o.maxWorkers)

	root, err := p.plan(0, len(items))
	if werr := p.g.Wait(); err == nil {
		err = werr
	}
	if err != nil {
		return nil, err
	}

	stems, leaves := root.count()
	if uint64(stems) >= maxNodes[I]() || uint64(leaves) >= maxNodes[I]() {
		return nil, fmt.Errorf("%w: %d stems, %d leaves", ErrCapacityExceeded, stems, leaves)
	}

	a := newArena[A, T, I](dim, o.bucketSize)
	a.resize(stems, leaves)
	a.size = len(items)
	if root.isLeaf() {
		a.root = leafHandle[I](0)
	} else {
		a.root = 0
	}

	e := &emitter[A, T, I]{a: a, p: p, items: items, threshold: o.parallelThreshold}
	e.g.SetLimit(o.maxWorkers)
	e.emit(root, 0, 0)
	if err := e.g.Wait(); err != nil {
		return nil, err
	}

	return &ImmutableTree[A, T, I]{index: newIndex(a, o)}, nil
}

// planNode describes a subtree over perm[lo:hi] before the arena exists.
type planNode[A axis.Axis] struct {
	lo, hi      int
	dim         int
	val         A
	left, right *planNode[A]

	stems, leaves int
}

func (n *planNode[A]) isLeaf() bool {
	return n.left == nil
}

// count fills in the node counts of every subtree and returns the root's.
func (n *planNode[A]) count() (int, int) {
	if n.isLeaf() {
		n.stems, n.leaves = 0, 1
		return 0, 1
	}

	ls, ll := n.left.count()
	rs, rl := n.right.count()
	n.stems, n.leaves = ls+rs+1, ll+rl

	return n.stems, n.leaves
}

// planner partitions an index permutation of the input points.
type planner[A axis.Axis] struct {
	flat      []A
	dim       int
	bucket    int
	threshold int
	perm      []int
	g         errgroup.Group
}

func (p *planner[A]) key(i, d int) A {
	return p.flat[p.perm[i]*p.dim+d]
}

func (p *planner[A]) plan(lo, hi int) (*planNode[A], error) {
	n := &planNode[A]{lo: lo, hi: hi}
	if hi-lo <= p.bucket {
		return n, nil
	}

	d, ok := p.widestDim(lo, hi)
	if !ok {
		return nil, fmt.Errorf("%w: %d identical points", ErrBucketOverflow, hi-lo)
	}

	mid, val := p.partition(lo, hi, d)
	n.dim, n.val = d, val

	if hi-lo >= p.threshold {
		spawned := p.g.TryGo(func() error {
			r, err := p.plan(mid, hi)
			n.right = r
			return err
		})
		if spawned {
			l, err := p.plan(lo, mid)
			n.left = l
			return n, err
		}
	}

	var err error
	if n.left, err = p.plan(lo, mid); err != nil {
		return nil, err
	}
	if n.right, err = p.plan(mid, hi); err != nil {
		return nil, err
	}

	return n, nil
}

// widestDim returns the dimension with the largest spread over perm[lo:hi],
// or false when all points are identical.
func (p *planner[A]) widestDim(lo, hi int) (int, bool) {
	tr := axis.TraitsOf[A]()
	best, found := 0, false
	var bestSpread A

	for d := range p.dim {
		minV, maxV := p.key(lo, d), p.key(lo, d)
		for i := lo + 1; i < hi; i++ {
			v := p.key(i, d)
			minV = min(minV, v)
			maxV = max(maxV, v)
		}
		if !(minV < maxV) {
			continue
		}
		if spread := tr.AbsDiff(maxV, minV); !found || spread > bestSpread {
			best, bestSpread, found = d, spread, true
		}
	}

	return best, found
}

// partition reorders perm[lo:hi] around the median of dimension d and
// returns the split position and value: perm[lo:mid] holds values <= val,
// perm[mid:hi] values > val, both non-empty.
func (p *planner[A]) partition(lo, hi, d int) (int, A) {
	v := p.selectNth(lo, hi, lo+(hi-lo)/2, d)
	lt, gt := p.partition3(lo, hi, d, v)
	if gt < hi {
		return gt, v
	}

	// v is the maximum; split below it.
	below := p.key(lo, d)
	for i := lo + 1; i < lt; i++ {
		below = max(below, p.key(i, d))
	}

	return lt, below
}

// selectNth returns the value of rank k along d, reordering perm[lo:hi].
func (p *planner[A]) selectNth(lo, hi, k, d int) A {
	for hi-lo > 1 {
		pivot := p.medianOf3(lo, lo+(hi-lo)/2, hi-1, d)
		lt, gt := p.partition3(lo, hi, d, pivot)
		switch {
		case k < lt:
			hi = lt
		case k >= gt:
			lo = gt
		default:
			return pivot
		}
	}

	return p.key(lo, d)
}

func (p *planner[A]) medianOf3(i, j, k, d int) A {
	a, b, c := p.key(i, d), p.key(j, d), p.key(k, d)
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}

	return max(a, b)
}

// partition3 orders perm[lo:hi] into < pivot, == pivot, > pivot and
// returns the bounds of the middle run.
func (p *planner[A]) partition3(lo, hi, d int, pivot A) (int, int) {
	perm := p.perm
	lt, i, gt := lo, lo, hi
	for i < gt {
		v := p.key(i, d)
		switch {
		case v < pivot:
			perm[lt], perm[i] = perm[i], perm[lt]
			lt++
			i++
		case v > pivot:
			gt--
			perm[i], perm[gt] = perm[gt], perm[i]
		default:
			i++
		}
	}

	return lt, gt
}

// emitter writes a plan into a preallocated arena. Each subtree owns a
// contiguous range of stems and leaves, so subtrees are written
// concurrently without synchronisation.
type emitter[A axis.Axis, T axis.Content, I axis.Index] struct {
	a         *arena[A, T, I]
	p         *planner[A]
	items     []T
	threshold int
	g         errgroup.Group
}

func (e *emitter[A, T, I]) emit(n *planNode[A], stem, leaf int) {
	for !n.isLeaf() {
		a := e.a
		a.splitVals[stem] = n.val
		a.splitDims[stem] = uint16(n.dim)

		l, r := n.left, n.right
		rStem, rLeaf := stem+1+l.stems, leaf+l.leaves
		a.lefts[stem] = e.handle(l, stem+1, leaf)
		a.rights[stem] = e.handle(r, rStem, rLeaf)

		if r.hi-r.lo >= e.threshold && e.g.TryGo(func() error {
			e.emit(r, rStem, rLeaf)
			return nil
		}) {
			n, stem = l, stem+1
			continue
		}

		e.emit(l, stem+1, leaf)
		n, stem, leaf = r, rStem, rLeaf
	}

	e.fillLeaf(n, leaf)
}

func (e *emitter[A, T, I]) handle(n *planNode[A], stem, leaf int) I {
	if n.isLeaf() {
		return leafHandle[I](leaf)
	}

	return I(stem)
}

func (e *emitter[A, T, I]) fillLeaf(n *planNode[A], leaf int) {
	a, p := e.a, e.p
	blk := a.block(leaf)
	items := a.leafItems(leaf)

	for i, src := range p.perm[n.lo:n.hi] {
		for d := range a.dim {
			blk[d*a.stride+i] = p.flat[src*a.dim+d]
		}
		items[i] = e.items[src]
	}
	a.sizes[leaf] = uint32(n.hi - n.lo)
}
