package bvh

import (
	"fmt"
	"math"
	"time"

	"github.com/opensbvh/sbvh/pkg/geom"
)

// sbvhBuilder is the SBVH analogue of builder: it owns the same working set
// (three axis-sorted index arrays, sah/temp scratch) plus the two
// per-primitive boolean lookup tables a spatial-split rewrite needs
// (spec.md §3).
type sbvhBuilder struct {
	primitives []geom.Primitive
	indices    axisIndices
	sah        []float32
	temp       []uint32

	// goesLeft/goesRight are indexed by primitive id (not position) and
	// only ever read back for ids written earlier in the same spatial
	// split, so they need no reset between recursive calls.
	goesLeft  []bool
	goesRight []bool

	nodes     []Node
	nodeIndex int

	cfg         Config
	invRootArea float32

	stats Stats
}

// BuildSBVH runs the Spatial Split BVH builder (spec.md §4.4, C4) over
// primitives. For N == 0 it returns an empty tree; for N == 1 it returns a
// single leaf rooted at index 0.
func BuildSBVH(primitives []geom.Primitive, cfg Config) (*Tree, Stats, error) {
	n := len(primitives)
	if n == 0 {
		return &Tree{}, Stats{}, nil
	}

	start := time.Now()

	bound := int(cfg.overAllocationFactor() * float32(n))
	if bound < 1 {
		bound = 1
	}

	b := &sbvhBuilder{
		primitives: primitives,
		indices:    sortedIndices(primitives),
		sah:        make([]float32, n),
		temp:       make([]uint32, n),
		goesLeft:   make([]bool, n),
		goesRight:  make([]bool, n),
		nodes:      make([]Node, bound),
		nodeIndex:  1,
		cfg:        cfg,
	}

	rootAABB := boundsOf(primitives, b.indices[0], 0, n)
	b.nodes[0].AABB = rootAABB
	if sa := rootAABB.SurfaceArea(); sa > 0 {
		b.invRootArea = 1.0 / sa
	}

	indexCount, err := b.build(0, 0, n, 0)
	if err != nil {
		return nil, b.stats, err
	}

	if b.nodeIndex > bound {
		return nil, b.stats, &BuildError{Err: ErrOverAllocation, NodeIndex: b.nodeIndex, Count: n}
	}

	logger.Debugf("SBVH build time: %s, nodes: %d, leaves: %d, object splits: %d, spatial splits: %d, references: %d",
		time.Since(start), b.nodeIndex, b.stats.Leaves, b.stats.ObjectSplits, b.stats.SpatialSplits, indexCount)

	return &Tree{
		Nodes:      b.nodes,
		Indices:    b.indices[0][:indexCount],
		NodeCount:  b.nodeIndex,
		IndexCount: indexCount,
	}, b.stats, nil
}

// build populates node nodeIdx (whose AABB the caller has already written)
// and, if it becomes interior, both of its children, following spec.md
// §4.4. It returns the number of reference slots the subtree rooted at
// nodeIdx occupies in indices[*][first:...] — larger than count exactly
// when a descendant spatial split duplicated a reference.
func (b *sbvhBuilder) build(nodeIdx, first, count, depth int) (int, error) {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	node := &b.nodes[nodeIdx]

	if count == 1 {
		node.SetLeaf(uint32(first), 1)
		b.stats.Leaves++
		return 1, nil
	}

	objAxis, objPos, objCost, objLeft, objRight := partitionObject(b.primitives, b.indices, first, count, b.sah)

	overlap := geom.Overlap(objLeft, objRight)
	var lambda float32
	if overlap.IsValid() {
		lambda = overlap.SurfaceArea()
	}
	ratio := lambda * b.invRootArea

	spatialCost := float32(math.Inf(1))
	var sp spatialSplit
	if ratio > b.cfg.Alpha {
		sp = partitionSpatial(b.primitives, b.indices, first, count, node.AABB, b.cfg.binCount())
		if sp.found {
			spatialCost = sp.cost
		}
	}

	// The leaf-or-split cost comparison is only ever consulted below the
	// configured cap; above it the node always splits as long as either
	// search found a finite candidate (original_source/SBVHBuilder.cpp's
	// `if (index_count <= max_primitives_in_leaf) { ... }` with no
	// corresponding gate on the split path below it).
	if count <= b.cfg.maxPrimitivesInLeaf() {
		parentCost := node.AABB.SurfaceArea() * float32(count)
		if parentCost <= objCost && parentCost <= spatialCost {
			node.SetLeaf(uint32(first), uint32(count))
			b.stats.Leaves++
			return count, nil
		}
	}

	if math.IsInf(float64(objCost), 1) && math.IsInf(float64(spatialCost), 1) {
		return 0, &BuildError{Err: ErrNoSplitCandidate, NodeIndex: nodeIdx, FirstIndex: first, Count: count}
	}

	leftIdx := b.nodeIndex
	if leftIdx+1 >= len(b.nodes) {
		return 0, &BuildError{Err: ErrOverAllocation, NodeIndex: b.nodeIndex, FirstIndex: first, Count: count}
	}
	b.nodeIndex += 2

	var nLeft, nRight int
	var childLeft, childRight geom.AABB
	var childrenRight [3][]uint32

	if objCost <= spatialCost {
		splitCoord := b.primitives[b.indices[objAxis][objPos]].Centroid()[objAxis]

		var err error
		childrenRight, nLeft, nRight, err = b.objectReshuffle(first, count, objAxis, objPos, splitCoord)
		if err != nil {
			return 0, err
		}

		node.SetInterior(uint32(leftIdx), objAxis)
		childLeft, childRight = objLeft, objRight
		b.stats.ObjectSplits++
	} else {
		var err error
		childrenRight, nLeft, nRight, childLeft, childRight, err = b.spatialReshuffle(first, count, node.AABB, sp)
		if err != nil {
			return 0, err
		}

		node.SetInterior(uint32(leftIdx), sp.axis)
		b.stats.SpatialSplits++
	}

	b.nodes[leftIdx].AABB = childLeft
	b.nodes[leftIdx+1].AABB = childRight

	// Depth-first: recurse left first so we know how many reference slots
	// it actually occupies (it may exceed nLeft if a descendant spatial
	// split duplicated references) before placing the right sibling's
	// pre-sorted input (spec.md §4.4 step 9).
	leavesLeft, err := b.build(leftIdx, first, nLeft, depth+1)
	if err != nil {
		return 0, err
	}

	for d := 0; d < 3; d++ {
		copy(b.indices[d][first+leavesLeft:first+leavesLeft+nRight], childrenRight[d][:nRight])
	}

	leavesRight, err := b.build(leftIdx+1, first+leavesLeft, nRight, depth+1)
	if err != nil {
		return 0, err
	}

	return leavesLeft + leavesRight, nil
}

// objectSplitSide decides whether the primitive at index idx belongs to the
// left side of an object split at splitPos along splitAxis, applying the
// equal-centroid tie-break of spec.md §4.4 step 6 / §9: scan backward
// through the sorted order for the same primitive index.
func objectSplitSide(primitives []geom.Primitive, indices axisIndices, first, splitAxis, splitPos int, splitCoord float32, idx uint32) bool {
	c := primitives[idx].Centroid()[splitAxis]
	if c < splitCoord {
		return true
	}
	if c != splitCoord {
		return false
	}

	j := splitPos - 1
	for j >= first && primitives[indices[splitAxis][j]].Centroid()[splitAxis] == splitCoord {
		if indices[splitAxis][j] == idx {
			return true
		}
		j--
	}
	return false
}

// objectReshuffle performs the SBVH object-split branch of spec.md §4.4 step
// 6. Unlike the plain builder's splitIndices, the right side is staged into
// a freshly allocated buffer per axis rather than compacted in place: the
// left subtree may itself contain spatial splits and grow past nLeft
// reference slots before the right side is copied back in (step 9).
func (b *sbvhBuilder) objectReshuffle(first, count, axis, pos int, splitCoord float32) (childrenRight [3][]uint32, nLeft, nRight int, err error) {
	for d := 0; d < 3; d++ {
		childrenRight[d] = make([]uint32, count)
	}

	var leftCounts, rightCounts [3]int
	for d := 0; d < 3; d++ {
		idx := b.indices[d]
		for i := first; i < first+count; i++ {
			v := idx[i]
			if objectSplitSide(b.primitives, b.indices, first, axis, pos, splitCoord, v) {
				idx[first+leftCounts[d]] = v
				leftCounts[d]++
			} else {
				childrenRight[d][rightCounts[d]] = v
				rightCounts[d]++
			}
		}
	}

	if leftCounts[0] != leftCounts[1] || leftCounts[1] != leftCounts[2] ||
		rightCounts[0] != rightCounts[1] || rightCounts[1] != rightCounts[2] {
		return childrenRight, 0, 0, &BuildError{Err: ErrAxisMismatch, FirstIndex: first, Count: count}
	}

	nLeft, nRight = leftCounts[0], rightCounts[0]
	if first+nLeft != pos || nLeft+nRight != count {
		return childrenRight, 0, 0, &BuildError{
			Err:        fmt.Errorf("%w: object split placed %d left, %d right for count %d", ErrAxisMismatch, nLeft, nRight, count),
			FirstIndex: first,
			Count:      count,
		}
	}

	return childrenRight, nLeft, nRight, nil
}

// spatialReshuffle performs the SBVH spatial-split branch of spec.md §4.4
// step 7: classify every primitive in range against the winning bin
// boundary, apply the unsplit heuristic to straddlers, record the decision
// in the two per-primitive lookup tables, then rebuild every axis-sorted
// array from those tables.
func (b *sbvhBuilder) spatialReshuffle(first, count int, parentAABB geom.AABB, sp spatialSplit) (childrenRight [3][]uint32, nLeft, nRight int, childLeft, childRight geom.AABB, err error) {
	childLeft = sp.left
	childRight = sp.right
	n1 := float32(sp.nLeft)
	n2 := float32(sp.nRight)

	idx := b.indices[sp.axis]
	for i := first; i < first+count; i++ {
		id := idx[i]
		p := b.primitives[id]

		clipped := geom.Overlap(p.AABB(), parentAABB)
		if !clipped.IsValid() {
			// Degenerate after clipping: route by centroid only
			// (spec.md §7 input degeneracy).
			goesLeft := sp.binIndex(p.Centroid()[sp.axis]) < sp.boundary
			b.goesLeft[id] = goesLeft
			b.goesRight[id] = !goesLeft
			continue
		}

		binMin := sp.binIndex(clipped.Min[sp.axis])
		binMax := sp.binIndex(clipped.Max[sp.axis])

		goesLeft := binMin < sp.boundary
		goesRight := binMax >= sp.boundary

		if goesLeft && !geom.Overlap(clipped, childLeft).IsValid() {
			goesLeft = false
			b.stats.RejectedLeft++
		}
		if goesRight && !geom.Overlap(clipped, childRight).IsValid() {
			goesRight = false
			b.stats.RejectedRight++
		}

		if goesLeft && goesRight {
			deltaLeft := childLeft.Expand(clipped)
			deltaRight := childRight.Expand(clipped)

			leftSA := childLeft.SurfaceArea()
			rightSA := childRight.SurfaceArea()

			cSplit := leftSA*n1 + rightSA*n2
			c1 := deltaLeft.SurfaceArea()*n1 + rightSA*(n2-1)
			c2 := leftSA*(n1-1) + deltaRight.SurfaceArea()*n2

			// c1 is the cost of sending the straddler exclusively left
			// (expanding the left child instead), c2 the cost of
			// sending it exclusively right. Mirrors the nesting of
			// original_source/SBVHBuilder.cpp's unsplit check: c2 is
			// only compared against c_split once c1 has already lost
			// to it.
			if c1 < cSplit {
				if c2 < c1 {
					goesLeft = false
					n1 -= 1
					childRight = deltaRight
					b.stats.UnsplitRight++
				} else {
					goesRight = false
					n2 -= 1
					childLeft = deltaLeft
					b.stats.UnsplitLeft++
				}
			} else if c2 < cSplit {
				goesLeft = false
				n1 -= 1
				childRight = deltaRight
				b.stats.UnsplitRight++
			}
		}

		if !goesLeft && !goesRight {
			return childrenRight, 0, 0, geom.AABB{}, geom.AABB{}, &BuildError{Err: ErrOrphanedReference, FirstIndex: first, Count: count}
		}

		b.goesLeft[id] = goesLeft
		b.goesRight[id] = goesRight
	}

	for d := 0; d < 3; d++ {
		childrenRight[d] = make([]uint32, count)
	}

	var leftCounts, rightCounts [3]int
	for d := 0; d < 3; d++ {
		arr := b.indices[d]
		for i := first; i < first+count; i++ {
			v := arr[i]
			if b.goesLeft[v] {
				arr[first+leftCounts[d]] = v
				leftCounts[d]++
			}
			if b.goesRight[v] {
				childrenRight[d][rightCounts[d]] = v
				rightCounts[d]++
			}
		}
	}

	if leftCounts[0] != leftCounts[1] || leftCounts[1] != leftCounts[2] ||
		rightCounts[0] != rightCounts[1] || rightCounts[1] != rightCounts[2] {
		return childrenRight, 0, 0, geom.AABB{}, geom.AABB{}, &BuildError{Err: ErrAxisMismatch, FirstIndex: first, Count: count}
	}

	nLeft, nRight = leftCounts[0], rightCounts[0]
	if nLeft+nRight < count {
		return childrenRight, 0, 0, geom.AABB{}, geom.AABB{}, &BuildError{
			Err:        fmt.Errorf("%w: spatial split produced %d references for %d primitives", ErrOrphanedReference, nLeft+nRight, count),
			FirstIndex: first,
			Count:      count,
		}
	}

	return childrenRight, nLeft, nRight, childLeft, childRight, nil
}
