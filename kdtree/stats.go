package kdtree

import (
	"unsafe"
)

// Stats describes the shape of a tree.
type Stats struct {
	Size       int
	Dimension  int
	BucketSize int
	Stems      int
	Leaves     int
	FreeStems  int
	FreeLeaves int
	// MaxDepth is the number of stems on the longest root-to-leaf path.
	MaxDepth int
	// AvgDepth is the mean leaf depth.
	AvgDepth float64
	// Fill is the mean occupancy of live leaves relative to the bucket
	// size.
	Fill float64
	// Bytes is the memory held by the arena slices.
	Bytes int
}

// Stats returns statistics about the tree.
func (x *index[A, T, I]) Stats() Stats {
	a := x.a
	st := Stats{
		Size:       a.size,
		Dimension:  a.dim,
		BucketSize: a.bucket,
		Stems:      a.numStems(),
		Leaves:     a.numLeaves(),
		FreeStems:  len(a.freeStems),
		FreeLeaves: len(a.freeLeaves),
	}

	var (
		zeroA A
		zeroT T
		zeroI I
	)
	st.Bytes = (len(a.splitVals)+len(a.coords))*int(unsafe.Sizeof(zeroA)) +
		len(a.items)*int(unsafe.Sizeof(zeroT)) +
		(len(a.lefts)+len(a.rights)+len(a.freeStems)+len(a.freeLeaves))*int(unsafe.Sizeof(zeroI)) +
		len(a.splitDims)*2 + len(a.sizes)*4

	type frame struct {
		h     I
		depth int
	}

	live, depthSum := 0, 0
	stack := []frame{{h: a.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !isLeaf(f.h) {
			stack = append(stack,
				frame{h: a.rights[f.h], depth: f.depth + 1},
				frame{h: a.lefts[f.h], depth: f.depth + 1})
			continue
		}

		live++
		depthSum += f.depth
		st.MaxDepth = max(st.MaxDepth, f.depth)
	}

	if live > 0 {
		st.AvgDepth = float64(depthSum) / float64(live)
		st.Fill = float64(a.size) / float64(live*a.bucket)
	}

	return st
}
