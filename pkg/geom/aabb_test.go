package geom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmptyAABBIsInvalid(t *testing.T) {
	if EmptyAABB().IsValid() {
		t.Fatal("EmptyAABB() must be invalid")
	}
	if got := EmptyAABB().SurfaceArea(); got != 0 {
		t.Fatalf("SurfaceArea() of an empty box = %v, want 0", got)
	}
}

func TestFromPointsUnitCube(t *testing.T) {
	box := FromPoints([]Vec3{
		XYZ(0, 0, 0),
		XYZ(1, 1, 1),
	})
	if !box.IsValid() {
		t.Fatal("unit cube box should be valid")
	}
	if got, want := box.SurfaceArea(), float32(6); got != want {
		t.Fatalf("SurfaceArea() = %v, want %v", got, want)
	}
}

func TestFromPointsEmpty(t *testing.T) {
	if FromPoints(nil).IsValid() {
		t.Fatal("FromPoints(nil) must be invalid")
	}
}

func TestOverlapDisjoint(t *testing.T) {
	a := FromPoints([]Vec3{XYZ(0, 0, 0), XYZ(1, 1, 1)})
	b := FromPoints([]Vec3{XYZ(2, 2, 2), XYZ(3, 3, 3)})
	if Overlap(a, b).IsValid() {
		t.Fatal("disjoint boxes must not overlap")
	}
}

func TestOverlapIntersecting(t *testing.T) {
	a := FromPoints([]Vec3{XYZ(0, 0, 0), XYZ(2, 2, 2)})
	b := FromPoints([]Vec3{XYZ(1, 1, 1), XYZ(3, 3, 3)})
	o := Overlap(a, b)
	if !o.IsValid() {
		t.Fatal("intersecting boxes must overlap")
	}
	want := FromPoints([]Vec3{XYZ(1, 1, 1), XYZ(2, 2, 2)})
	if diff := cmp.Diff(want, o); diff != "" {
		t.Fatalf("Overlap() mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandGrowsToContainBoth(t *testing.T) {
	a := FromPoints([]Vec3{XYZ(0, 0, 0), XYZ(1, 1, 1)})
	b := FromPoints([]Vec3{XYZ(-1, -1, -1), XYZ(0.5, 0.5, 0.5)})
	e := a.Expand(b)
	want := FromPoints([]Vec3{XYZ(-1, -1, -1), XYZ(1, 1, 1)})
	if diff := cmp.Diff(want, e); diff != "" {
		t.Fatalf("Expand() mismatch (-want +got):\n%s", diff)
	}
}

func TestSurfaceAreaNonNegative(t *testing.T) {
	box := FromPoints([]Vec3{XYZ(-5, 2, 0.5), XYZ(3, 9, 10)})
	if sa := box.SurfaceArea(); sa <= 0 || math.IsNaN(float64(sa)) {
		t.Fatalf("SurfaceArea() = %v, want a positive finite value", sa)
	}
}
