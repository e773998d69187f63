package bvh

import "github.com/opensbvh/sbvh/pkg/geom"

// axisTagShift packs the split axis of an interior node into the top 2 bits
// of the 32-bit count field, following the source's convention: a leaf never
// stores a count that reaches 1<<30, so count>>30 == 0 unambiguously
// identifies a leaf and count>>30-1 recovers the axis of an interior node.
const axisTagShift = 30

// Node is a single entry of the pre-order node array. It fits both
// alternatives described by spec.md §3 in one fixed-size record: interior
// nodes use left/axis, leaves use first/count. Axis is only meaningful when
// the node is interior.
type Node struct {
	AABB geom.AABB

	// left holds the index of the first of two consecutive child nodes
	// when interior, or the offset into Tree.Indices when a leaf.
	left uint32

	// packed holds (axis+1)<<30 when interior (always nonzero), or the
	// raw leaf reference count (>=1) when a leaf.
	packed uint32
}

// IsLeaf reports whether n is a leaf node.
func (n Node) IsLeaf() bool {
	return n.packed>>axisTagShift == 0
}

// SetLeaf turns n into a leaf owning indices[first : first+count].
func (n *Node) SetLeaf(first, count uint32) {
	n.left = first
	n.packed = count
}

// SetInterior turns n into an interior node whose children occupy
// left and left+1, split along axis.
func (n *Node) SetInterior(left uint32, axis int) {
	n.left = left
	n.packed = (uint32(axis) + 1) << axisTagShift
}

// LeafFirst returns the offset into Tree.Indices owned by this leaf. Only
// valid when IsLeaf() is true.
func (n Node) LeafFirst() uint32 { return n.left }

// LeafCount returns the number of references owned by this leaf. Only valid
// when IsLeaf() is true.
func (n Node) LeafCount() uint32 { return n.packed }

// LeftChild returns the index of this node's left child. Only valid when
// IsLeaf() is false.
func (n Node) LeftChild() uint32 { return n.left }

// RightChild returns the index of this node's right child, always the slot
// immediately following LeftChild(). Only valid when IsLeaf() is false.
func (n Node) RightChild() uint32 { return n.left + 1 }

// Axis returns the split axis (0, 1 or 2) recorded on an interior node. Only
// valid when IsLeaf() is false.
func (n Node) Axis() int { return int(n.packed>>axisTagShift) - 1 }

// Tree is the builder's output: a pre-order node array plus the compacted
// reference array each leaf slices into.
type Tree struct {
	// Nodes is the pre-order array; Nodes[0] is the root. Only the first
	// NodeCount entries are populated — the slice is allocated to the
	// over-allocation bound up front.
	Nodes []Node

	// Indices is the flat reference array; leaf (first, count) pairs
	// slice into it. Only the first IndexCount entries are populated.
	Indices []uint32

	NodeCount  int
	IndexCount int
}
