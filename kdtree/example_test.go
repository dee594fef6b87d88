package kdtree_test

import (
	"bytes"
	"fmt"

	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/kdtree"
)

func Example() {
	tree, err := kdtree.New[float64, uint64, uint32](2, kdtree.WithBucketSize(4))
	if err != nil {
		panic(err)
	}

	points := [][]float64{{0, 0}, {1, 1}, {5, 5}, {2, 2}, {9, 9}}
	for i, p := range points {
		if err := tree.Insert(p, uint64(i+1)); err != nil {
			panic(err)
		}
	}

	metric := distance.NewSquaredEuclidean[float64]()
	nearest, err := tree.NearestN([]float64{0, 0}, 3, metric)
	if err != nil {
		panic(err)
	}

	for _, n := range nearest {
		fmt.Printf("item %d at %.0f\n", n.Item, n.Distance)
	}

	// Output:
	// item 1 at 0
	// item 2 at 2
	// item 4 at 8
}

func ExampleView() {
	tree, err := kdtree.Build[int32, uint32, uint32](1, [][]int32{{10}, {20}, {30}}, []uint32{1, 2, 3})
	if err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	if _, err := tree.WriteTo(&buf); err != nil {
		panic(err)
	}

	view, err := kdtree.View[int32, uint32, uint32](buf.Bytes())
	if err != nil {
		panic(err)
	}
	defer view.Close()

	got, err := view.NearestOne([]int32{24}, distance.NewManhattan[int32]())
	if err != nil {
		panic(err)
	}

	fmt.Println(got.Item, got.Distance)

	// Output:
	// 2 4
}
