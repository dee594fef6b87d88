package testutil

import (
	"cmp"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/kdgo/axis"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints generates num points of dimension dim with coordinates in
// [lo, hi), converted to A. Uses a single backing array.
func UniformPoints[A axis.Axis](r *RNG, num, dim int, lo, hi float64) [][]A {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]A, num*dim)
	points := make([][]A, num)

	for i := range num {
		p := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range p {
			p[j] = A(lo + r.rand.Float64()*(hi-lo))
		}
		points[i] = p
	}

	return points
}

// GridPoints generates num points whose coordinates are integers in
// [0, side). Many points share coordinates along some axis, which
// exercises split tie handling.
func GridPoints[A axis.Axis](r *RNG, num, dim, side int) [][]A {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([][]A, num)
	for i := range points {
		p := make([]A, dim)
		for j := range p {
			p[j] = A(r.rand.Intn(side))
		}
		points[i] = p
	}

	return points
}

// Sequence returns the contents 0..n-1 as T.
func Sequence[T axis.Content](n int) []T {
	items := make([]T, n)
	for i := range items {
		items[i] = T(i)
	}
	return items
}

// Neighbour is a ground truth result.
type Neighbour[A axis.Axis, T axis.Content] struct {
	Distance A
	Item     T
}

// LinearScan computes the distance from q to every point, sorted by
// distance (stable, so ties keep insertion order).
func LinearScan[A axis.Axis, T axis.Content](points [][]A, items []T, q []A, dist func(a, b []A) A) []Neighbour[A, T] {
	out := make([]Neighbour[A, T], len(points))
	for i, p := range points {
		out[i] = Neighbour[A, T]{Distance: dist(q, p), Item: items[i]}
	}

	slices.SortStableFunc(out, func(a, b Neighbour[A, T]) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	return out
}

// LinearNearestN returns the n nearest entries by exhaustive scan.
func LinearNearestN[A axis.Axis, T axis.Content](points [][]A, items []T, q []A, n int, dist func(a, b []A) A) []Neighbour[A, T] {
	all := LinearScan(points, items, q, dist)
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// LinearWithin returns every entry within radius by exhaustive scan.
func LinearWithin[A axis.Axis, T axis.Content](points [][]A, items []T, q []A, radius A, dist func(a, b []A) A) []Neighbour[A, T] {
	all := LinearScan(points, items, q, dist)
	i, _ := slices.BinarySearchFunc(all, radius, func(e Neighbour[A, T], r A) int {
		if e.Distance <= r {
			return -1
		}
		return 1
	})
	return all[:i]
}

// Distances extracts the distances of a result list.
func Distances[A axis.Axis, T axis.Content](ns []Neighbour[A, T]) []A {
	out := make([]A, len(ns))
	for i, n := range ns {
		out[i] = n.Distance
	}
	return out
}
