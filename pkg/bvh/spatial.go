package bvh

import (
	"math"

	"github.com/opensbvh/sbvh/pkg/geom"
)

// spatialBinEpsilon nudges the binned range open on both ends so that a
// primitive whose clipped AABB touches the parent AABB's boundary exactly
// still lands in a valid bin.
const spatialBinEpsilon = 1e-3

// bin is one slot of the binned spatial-split sweep: the union of every
// primitive's clipped AABB that touches the bin, plus separate entry/exit
// counts (a primitive spanning several bins increments entry once, at its
// first bin, and exit once, at its last).
type bin struct {
	aabb  geom.AABB
	enter int
	exit  int
}

// spatialSplit is the outcome of partitionSpatial: the winning axis, the bin
// boundary, the resulting child AABBs/counts, and the geometry needed by the
// caller to re-classify each primitive against the same boundary during the
// reshuffle (spec.md §4.4 step 7).
type spatialSplit struct {
	found bool

	axis      int
	boundary  int // bins [0, boundary) go left, [boundary, binCount) go right
	cost      float32
	left      geom.AABB
	right     geom.AABB
	nLeft     int
	nRight    int
	lo        float32
	binSize   float32
	binCount  int
}

// binIndex clamps v's bin position along the split axis to [0, binCount-1].
func (s spatialSplit) binIndex(v float32) int {
	i := int((v - s.lo) / s.binSize)
	if i < 0 {
		i = 0
	}
	if i >= s.binCount {
		i = s.binCount - 1
	}
	return i
}

// partitionSpatial runs the binned spatial-split search of spec.md §4.2.
// For each axis, the parent AABB (extended by a small epsilon) is divided
// into binCount equal bins; every primitive's AABB is first clipped to the
// parent AABB, then expanded into every bin it touches. Bin prefix sums give
// the SAH cost of every one of the binCount-1 candidate planes.
func partitionSpatial(primitives []geom.Primitive, indices axisIndices, first, count int, parentAABB geom.AABB, binCount int) spatialSplit {
	best := spatialSplit{found: false, cost: float32(math.Inf(1))}

	for d := 0; d < 3; d++ {
		lo := parentAABB.Min[d] - spatialBinEpsilon
		hi := parentAABB.Max[d] + spatialBinEpsilon
		binSize := (hi - lo) / float32(binCount)
		if binSize <= 0 {
			continue
		}

		bins := make([]bin, binCount)
		for i := range bins {
			bins[i].aabb = geom.EmptyAABB()
		}

		binOf := func(v float32) int {
			i := int((v - lo) / binSize)
			if i < 0 {
				i = 0
			}
			if i >= binCount {
				i = binCount - 1
			}
			return i
		}

		idx := indices[0]
		for i := first; i < first+count; i++ {
			p := primitives[idx[i]]
			clipped := geom.Overlap(p.AABB(), parentAABB)
			if !clipped.IsValid() {
				// Degenerate after clipping: route by centroid only,
				// as a single-point bin (spec.md §7 input degeneracy).
				b := binOf(p.Centroid()[d])
				bins[b].aabb = bins[b].aabb.ExpandPoint(p.Centroid())
				bins[b].enter++
				bins[b].exit++
				continue
			}

			firstBin := binOf(clipped.Min[d])
			lastBin := binOf(clipped.Max[d])
			for b := firstBin; b <= lastBin; b++ {
				bins[b].aabb = bins[b].aabb.Expand(clipped)
			}
			bins[firstBin].enter++
			bins[lastBin].exit++
		}

		leftAABB := geom.EmptyAABB()
		leftCount := 0
		prefixLeftAABB := make([]geom.AABB, binCount)
		prefixLeftCount := make([]int, binCount)
		for b := 0; b < binCount; b++ {
			prefixLeftAABB[b] = leftAABB
			prefixLeftCount[b] = leftCount
			leftAABB = leftAABB.Expand(bins[b].aabb)
			leftCount += bins[b].enter
		}

		rightAABB := geom.EmptyAABB()
		rightCount := 0
		for b := binCount - 1; b >= 1; b-- {
			rightAABB = rightAABB.Expand(bins[b].aabb)
			rightCount += bins[b].exit

			l := prefixLeftAABB[b]
			n1 := prefixLeftCount[b]

			if n1 == 0 || rightCount == 0 {
				continue
			}

			cost := l.SurfaceArea()*float32(n1) + rightAABB.SurfaceArea()*float32(rightCount)
			if cost < best.cost {
				best = spatialSplit{
					found:    true,
					axis:     d,
					boundary: b,
					cost:     cost,
					left:     l,
					right:    rightAABB,
					nLeft:    n1,
					nRight:   rightCount,
					lo:       lo,
					binSize:  binSize,
					binCount: binCount,
				}
			}
		}
	}

	return best
}
