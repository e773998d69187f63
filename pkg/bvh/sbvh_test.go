package bvh

import (
	"testing"

	"github.com/opensbvh/sbvh/pkg/geom"
)

func TestBuildSBVHEmpty(t *testing.T) {
	tree, stats, err := BuildSBVH(nil, DefaultConfig())
	if err != nil {
		t.Fatalf("BuildSBVH(nil) error: %v", err)
	}
	if tree.NodeCount != 0 || tree.IndexCount != 0 || stats != (Stats{}) {
		t.Fatalf("BuildSBVH(nil) = %+v / %+v, want all zero", tree, stats)
	}
}

func TestBuildSBVHSinglePrimitive(t *testing.T) {
	prims := primitives(tri(0, 0, 0, 1, 1, 1))
	tree, _, err := BuildSBVH(prims, DefaultConfig())
	if err != nil {
		t.Fatalf("BuildSBVH() error: %v", err)
	}
	if tree.NodeCount != 1 || !tree.Nodes[0].IsLeaf() {
		t.Fatalf("single-primitive SBVH should be a single leaf, got %+v", tree)
	}
}

// TestBuildSBVHOverlappingPairTriggersSpatialSplit reproduces the classic
// motivating case for spatial splits: two long, thin, mutually overlapping
// triangles whose object-split children's AABBs would overlap heavily, with
// alpha set low enough that the ratio test always passes.
func TestBuildSBVHOverlappingPairTriggersSpatialSplit(t *testing.T) {
	prims := primitives(
		tri(0, 0, 0, 10, 1, 1),
		tri(8, 0, 0, 18, 1, 1),
	)
	cfg := DefaultConfig()
	cfg.Alpha = 0
	cfg.MaxPrimitivesInLeaf = 1

	tree, stats, err := BuildSBVH(prims, cfg)
	if err != nil {
		t.Fatalf("BuildSBVH() error: %v", err)
	}
	checkSBVHInvariants(t, prims, tree)

	if stats.SpatialSplits == 0 {
		t.Fatal("expected at least one spatial split for a heavily overlapping pair with alpha=0")
	}
}

// TestBuildSBVHLeafCapWithCoincidentTriangles exercises the forced-leaf path:
// every primitive sits at the exact same location, so no split can ever
// reduce cost below leafing, and MaxPrimitivesInLeaf must still be honored
// wherever a split is possible.
func TestBuildSBVHLeafCapWithCoincidentTriangles(t *testing.T) {
	var tris []geom.Triangle
	for i := 0; i < 6; i++ {
		tris = append(tris, tri(0, 0, 0, 1, 1, 1))
	}
	prims := primitives(tris...)

	cfg := DefaultConfig()
	cfg.MaxPrimitivesInLeaf = 6

	tree, _, err := BuildSBVH(prims, cfg)
	if err != nil {
		t.Fatalf("BuildSBVH() error: %v", err)
	}
	if tree.NodeCount != 1 || !tree.Nodes[0].IsLeaf() {
		t.Fatalf("coincident primitives under the leaf cap should collapse to one leaf, got %+v", tree)
	}
}

// TestBuildSBVHMatchesPlainBVHWhenAlphaDisablesSpatialSplits is algorithmic
// property 9: with Alpha=1, the ratio test in (*sbvhBuilder).build never
// passes, so every node's decision comes down to the same object-split cost
// comparison the plain builder makes.
//
// The plain builder's count<3 leaf rule is unconditional, while the SBVH
// builder's leaf-or-split comparison only ever runs when count is within
// MaxPrimitivesInLeaf (spec.md §4.4 step 4); above that cap it always
// splits. To get an exact, non-coincidental match between the two, this
// test sets MaxPrimitivesInLeaf to cover every count the recursion can
// produce, and builds the input as pairs of exactly coincident triangles
// separated from each other: for a pair of identical primitives the object
// split's cost equals the parent's cost exactly (both children's AABB is
// the same box as the parent's), so the SBVH builder's cost comparison
// forces a leaf at count==2 the same way the plain builder's hardcoded rule
// does, rather than relying on the two rules happening to agree.
func TestBuildSBVHMatchesPlainBVHWhenAlphaDisablesSpatialSplits(t *testing.T) {
	var tris []geom.Triangle
	for i := 0; i < 8; i++ {
		x := float32(i) * 10
		tris = append(tris, tri(x, 0, 0, x+1, 1, 1))
		tris = append(tris, tri(x, 0, 0, x+1, 1, 1))
	}
	prims := primitives(tris...)

	cfg := DefaultConfig()
	cfg.Alpha = 1
	cfg.MaxPrimitivesInLeaf = len(prims)

	plainTree, err := Build(prims, cfg)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	sbvhTree, _, err := BuildSBVH(prims, cfg)
	if err != nil {
		t.Fatalf("BuildSBVH() error: %v", err)
	}

	if sbvhTree.IndexCount != plainTree.IndexCount {
		t.Fatalf("IndexCount = %d, want %d (alpha=1 must not duplicate references)", sbvhTree.IndexCount, plainTree.IndexCount)
	}
	if !sameTopology(plainTree, sbvhTree) {
		t.Fatal("alpha=1 SBVH topology diverged from the plain BVH's")
	}
}

func sameTopology(a, b *Tree) bool {
	if a.NodeCount != b.NodeCount {
		return false
	}
	// Both builders allocate node indices in the same order (root = 0,
	// left-before-right, two fresh slots per split), so identical topology
	// means node i of a and node i of b describe the same position in the
	// tree and can be compared index-for-index.
	var walk func(i int) bool
	walk = func(i int) bool {
		na, nb := a.Nodes[i], b.Nodes[i]
		if na.IsLeaf() != nb.IsLeaf() {
			return false
		}
		if na.IsLeaf() {
			if na.LeafCount() != nb.LeafCount() {
				return false
			}
			af := na.LeafFirst()
			bf := nb.LeafFirst()
			for k := uint32(0); k < na.LeafCount(); k++ {
				if a.Indices[af+k] != b.Indices[bf+k] {
					return false
				}
			}
			return true
		}
		if na.Axis() != nb.Axis() {
			return false
		}
		return walk(int(na.LeftChild())) && walk(int(na.RightChild()))
	}
	return walk(0)
}

// checkSBVHInvariants asserts the weaker invariants that hold once spatial
// splits may duplicate references: every primitive appears at least once and
// the root AABB contains every primitive.
func checkSBVHInvariants(t *testing.T, prims []geom.Primitive, tree *Tree) {
	t.Helper()

	root := tree.Nodes[0]
	for i, p := range prims {
		if root.AABB.Expand(p.AABB()) != root.AABB {
			t.Fatalf("root AABB does not contain primitive %d", i)
		}
	}

	seen := make(map[uint32]bool)
	for _, ref := range leafReferences(tree) {
		seen[ref] = true
	}
	for i := range prims {
		if !seen[uint32(i)] {
			t.Fatalf("primitive %d missing from every leaf", i)
		}
	}
}
