// Package geom provides the read-only geometric input view consulted by the
// BVH/SBVH builders: vectors, axis-aligned bounding boxes and triangle
// primitives.
package geom

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Vec3 is a 3-component vector backed by x/image's float32 vector type, the
// same representation the wider path-tracing stack uses for positions,
// centroids and box extents.
type Vec3 f32.Vec3

// XYZ builds a Vec3 from its components.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns the component-wise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Mul returns v scaled by s.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Component returns the value of v along axis (0=x, 1=y, 2=z).
func (v Vec3) Component(axis int) float32 {
	return v[axis]
}

// MinVec3 returns the component-wise minimum of a and b.
func MinVec3(a, b Vec3) Vec3 {
	return Vec3{
		float32(math.Min(float64(a[0]), float64(b[0]))),
		float32(math.Min(float64(a[1]), float64(b[1]))),
		float32(math.Min(float64(a[2]), float64(b[2]))),
	}
}

// MaxVec3 returns the component-wise maximum of a and b.
func MaxVec3(a, b Vec3) Vec3 {
	return Vec3{
		float32(math.Max(float64(a[0]), float64(b[0]))),
		float32(math.Max(float64(a[1]), float64(b[1]))),
		float32(math.Max(float64(a[2]), float64(b[2]))),
	}
}
