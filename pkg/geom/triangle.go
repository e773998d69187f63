package geom

// Primitive is the read-only input view consulted by the BVH/SBVH builders.
// Only AABB and Centroid are read by the partition kernels; MaterialID is
// carried through untouched so callers can recover per-reference shading
// data after the build.
type Primitive interface {
	AABB() AABB
	Centroid() Vec3
	MaterialID() int
}

// Triangle is the concrete Primitive used by the loaders and the reference
// CLI tool. Vertices are stored in whatever winding the source mesh used;
// the builder never inspects winding.
type Triangle struct {
	V0, V1, V2 Vec3
	Material   int

	aabb     AABB
	centroid Vec3
}

// NewTriangle builds a Triangle and precomputes its AABB and centroid, the
// two quantities the builder actually consults.
func NewTriangle(v0, v1, v2 Vec3, material int) Triangle {
	t := Triangle{V0: v0, V1: v1, V2: v2, Material: material}
	t.aabb = FromPoints([]Vec3{v0, v1, v2})
	t.centroid = v0.Add(v1).Add(v2).Mul(1.0 / 3.0)
	return t
}

// AABB implements Primitive.
func (t Triangle) AABB() AABB { return t.aabb }

// Centroid implements Primitive.
func (t Triangle) Centroid() Vec3 { return t.centroid }

// MaterialID implements Primitive.
func (t Triangle) MaterialID() int { return t.Material }
