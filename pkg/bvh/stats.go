package bvh

// Stats surfaces the diagnostics the source's SBVH builder only ever used
// internally for assertions (rejected_left/rejected_right in
// original_source/SBVHBuilder.cpp) as a first-class result, so a caller can
// judge how much a build leaned on spatial splits without re-walking the
// tree.
type Stats struct {
	Leaves          int
	ObjectSplits    int
	SpatialSplits   int
	UnsplitLeft     int
	UnsplitRight    int
	RejectedLeft    int
	RejectedRight   int
	MaxDepth        int
}
