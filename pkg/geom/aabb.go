package geom

import "math"

// AABB is an axis-aligned bounding box described by its min and max corners.
type AABB struct {
	Min Vec3
	Max Vec3
}

// EmptyAABB returns the canonical empty box (min=+MaxFloat32,
// max=-MaxFloat32) that Expand
// folds over to build a box from a point set.
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// FromPoints folds Expand over ps starting from the canonical empty box.
func FromPoints(ps []Vec3) AABB {
	b := EmptyAABB()
	for _, p := range ps {
		b = b.ExpandPoint(p)
	}
	return b
}

// IsValid reports whether min <= max componentwise. A box built from zero
// points, or the result of intersecting two disjoint boxes, is invalid.
func (b AABB) IsValid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// SurfaceArea returns 2*(ex*ey+ey*ez+ez*ex), or 0 for an invalid box.
func (b AABB) SurfaceArea() float32 {
	if !b.IsValid() {
		return 0
	}
	e := b.Max.Sub(b.Min)
	return 2.0 * (e[0]*e[1] + e[1]*e[2] + e[2]*e[0])
}

// ExpandPoint returns the union of b with a single point.
func (b AABB) ExpandPoint(p Vec3) AABB {
	return AABB{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Expand returns the union of b with other.
func (b AABB) Expand(other AABB) AABB {
	return AABB{
		Min: MinVec3(b.Min, other.Min),
		Max: MaxVec3(b.Max, other.Max),
	}
}

// Overlap returns the component-wise intersection of a and b. The result may
// be invalid (IsValid() == false) when a and b are disjoint.
func Overlap(a, b AABB) AABB {
	return AABB{
		Min: MaxVec3(a.Min, b.Min),
		Max: MinVec3(a.Max, b.Max),
	}
}

// Extent returns max - min.
func (b AABB) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}
