package bvh

import (
	"math"

	"github.com/opensbvh/sbvh/pkg/geom"
)

// axisIndices is the builder's working set: three permutations of
// [0, N) sorted by centroid on their respective axis. Every sub-range
// examined during recursion holds the same multiset of primitive indices on
// each axis (spec.md invariant 1).
type axisIndices [3][]uint32

// boundsOf returns the AABB tightly bounding the primitives referenced by
// indices[axis][first:first+count]. Any axis may be used; they all describe
// the same multiset.
func boundsOf(primitives []geom.Primitive, idx []uint32, first, count int) geom.AABB {
	b := geom.EmptyAABB()
	for i := first; i < first+count; i++ {
		b = b.Expand(primitives[idx[i]].AABB())
	}
	return b
}

// partitionObject runs the SAH object-split search described in spec.md
// §4.2: for each axis, sweep left-to-right accumulating left_area into sah,
// then sweep right-to-left evaluating the cost of every split position.
// Ties are broken by earliest axis then smallest index position. Always
// returns a valid split (the caller guarantees count >= 2).
func partitionObject(primitives []geom.Primitive, indices axisIndices, first, count int, sah []float32) (axis int, pos int, cost float32, left, right geom.AABB) {
	bestCost := float32(math.Inf(1))
	bestAxis := -1
	bestPos := -1

	for d := 0; d < 3; d++ {
		idx := indices[d]

		leftAABB := geom.EmptyAABB()
		for i := 0; i < count-1; i++ {
			leftAABB = leftAABB.Expand(primitives[idx[first+i]].AABB())
			sah[i] = leftAABB.SurfaceArea() * float32(i+1)
		}

		rightAABB := geom.EmptyAABB()
		for i := count - 1; i >= 1; i-- {
			rightAABB = rightAABB.Expand(primitives[idx[first+i]].AABB())
			c := sah[i-1] + rightAABB.SurfaceArea()*float32(count-i)
			p := first + i

			if c < bestCost || (c == bestCost && (bestAxis == -1 || (d == bestAxis && p < bestPos))) {
				bestCost = c
				bestAxis = d
				bestPos = p
			}
		}
	}

	left = boundsOf(primitives, indices[bestAxis], first, bestPos-first)
	right = boundsOf(primitives, indices[bestAxis], bestPos, first+count-bestPos)

	return bestAxis, bestPos, bestCost, left, right
}

// splitIndices performs the three-way reshuffle of spec.md §4.2: the range
// [first, first+count) of every axis-sorted index array is rearranged so the
// left half holds exactly the primitives assigned to the left child, still
// sorted by that axis, and the right half holds the complement.
//
// A primitive's side is decided by comparing its centroid on splitAxis
// against splitCoord; ties (centroid == splitCoord) are resolved by scanning
// backward through the already-assigned-left portion of the split axis's
// sorted order looking for the same primitive index, so the decision matches
// the position-based split exactly (spec.md §4.4 step 6, §9 open question).
// temp must have length >= count and is reused across all three axes.
func splitIndices(primitives []geom.Primitive, indices axisIndices, first, count int, temp []uint32, splitAxis, splitPos int, splitCoord float32) (nLeft, nRight int) {
	for d := 0; d < 3; d++ {
		idx := indices[d]
		left := 0
		right := 0
		for i := first; i < first+count; i++ {
			v := idx[i]
			if objectSplitSide(primitives, indices, first, splitAxis, splitPos, splitCoord, v) {
				idx[first+left] = v
				left++
			} else {
				temp[right] = v
				right++
			}
		}
		copy(idx[first+left:first+left+right], temp[:right])

		if d == 0 {
			nLeft, nRight = left, right
		} else if left != nLeft || right != nRight {
			nLeft, nRight = -1, -1
		}
	}

	return nLeft, nRight
}
