package bvh

import (
	"fmt"
	"sort"

	"github.com/opensbvh/sbvh/pkg/geom"
	"github.com/opensbvh/sbvh/pkg/log"
)

var logger = log.New("bvh")

// builder holds the scratch buffers and node array shared across one
// recursive build, owned for the build's whole lifetime rather than
// reallocated per call (spec.md §9 "ownership of scratch buffers").
type builder struct {
	primitives []geom.Primitive
	indices    axisIndices
	sah        []float32
	temp       []uint32

	nodes     []Node
	nodeIndex int

	cfg Config
}

// Build runs the plain object-split-only BVH builder (spec.md §4.3, C5)
// over primitives. For N == 0 it returns an empty tree; for N == 1 it
// returns a single leaf rooted at index 0.
func Build(primitives []geom.Primitive, cfg Config) (*Tree, error) {
	n := len(primitives)
	if n == 0 {
		return &Tree{}, nil
	}

	b := &builder{
		primitives: primitives,
		indices:    sortedIndices(primitives),
		sah:        make([]float32, n),
		temp:       make([]uint32, n),
		nodes:      make([]Node, plainBVHOverAllocation*n),
		nodeIndex:  1,
		cfg:        cfg,
	}

	if err := b.buildPlain(0, 0, n); err != nil {
		return nil, err
	}

	if b.nodeIndex > plainBVHOverAllocation*n {
		return nil, &BuildError{Err: ErrOverAllocation, NodeIndex: b.nodeIndex, Count: n}
	}

	return &Tree{
		Nodes:      b.nodes,
		Indices:    b.indices[0],
		NodeCount:  b.nodeIndex,
		IndexCount: n,
	}, nil
}

// sortedIndices builds the three axis-sorted permutations of [0, N) that
// every recursive call consumes (spec.md §3 builder working set).
func sortedIndices(primitives []geom.Primitive) axisIndices {
	n := len(primitives)
	var out axisIndices
	for axis := 0; axis < 3; axis++ {
		idx := make([]uint32, n)
		for i := range idx {
			idx[i] = uint32(i)
		}
		sortByCentroid(primitives, idx, axis)
		out[axis] = idx
	}
	return out
}

// sortByCentroid stable-sorts idx by the primitives' centroid coordinate
// along axis. A stable sort keeps the build deterministic for primitives
// whose centroids coincide exactly (spec.md §5 determinism).
func sortByCentroid(primitives []geom.Primitive, idx []uint32, axis int) {
	sort.SliceStable(idx, func(i, j int) bool {
		return primitives[idx[i]].Centroid()[axis] < primitives[idx[j]].Centroid()[axis]
	})
}

// buildPlain populates node nodeIndex..nodeIndex+1 (its children, if any)
// following spec.md §4.3: a node with fewer than 3 primitives is always a
// leaf; otherwise the best object split is taken unless its cost is no
// better than just leafing the node.
func (b *builder) buildPlain(nodeIdx, first, count int) error {
	node := &b.nodes[nodeIdx]
	node.AABB = boundsOf(b.primitives, b.indices[0], first, count)

	if count < 3 {
		node.SetLeaf(uint32(first), uint32(count))
		return nil
	}

	axis, pos, splitCost, left, right := partitionObject(b.primitives, b.indices, first, count, b.sah)

	parentCost := node.AABB.SurfaceArea() * float32(count)
	if splitCost >= parentCost {
		node.SetLeaf(uint32(first), uint32(count))
		return nil
	}

	leftNodeIdx := b.nodeIndex
	if leftNodeIdx+1 >= len(b.nodes) {
		return &BuildError{Err: ErrOverAllocation, NodeIndex: b.nodeIndex, FirstIndex: first, Count: count}
	}
	b.nodeIndex += 2

	splitCoord := b.primitives[b.indices[axis][pos]].Centroid()[axis]
	nLeft, nRight := splitIndices(b.primitives, b.indices, first, count, b.temp, axis, pos, splitCoord)
	if nLeft == -1 || nRight == -1 {
		return &BuildError{Err: ErrAxisMismatch, NodeIndex: nodeIdx, FirstIndex: first, Count: count}
	}
	if nLeft != pos-first || nLeft+nRight != count {
		return &BuildError{Err: fmt.Errorf("%w: want left=%d got left=%d right=%d", ErrAxisMismatch, pos-first, nLeft, nRight), NodeIndex: nodeIdx, FirstIndex: first, Count: count}
	}

	node.SetInterior(uint32(leftNodeIdx), axis)
	b.nodes[leftNodeIdx].AABB = left
	b.nodes[leftNodeIdx+1].AABB = right

	if err := b.buildPlain(leftNodeIdx, first, nLeft); err != nil {
		return err
	}
	return b.buildPlain(leftNodeIdx+1, first+nLeft, nRight)
}
