package geom

import (
	"math"
	"testing"
)

const eps = 1e-12

func near(a, b Vec) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestVecArithmetic(t *testing.T) {
	a, b := V(1, 2, 3), V(4, 5, 6)

	if got := a.Add(b); got != V(5, 7, 9) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != V(3, 3, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
	if got := V(1, 0, 0).Cross(V(0, 1, 0)); got != V(0, 0, 1) {
		t.Errorf("Cross = %v, want z", got)
	}
	if got := V(3, 4, 0).Norm(); got != 5 {
		t.Errorf("Norm = %v, want 5", got)
	}
	if got := (Vec{}).Unit(); !got.IsZero() {
		t.Errorf("Unit of zero = %v", got)
	}
}

func TestCentroid(t *testing.T) {
	pts := []Vec{V(0, 0, 0), V(2, 0, 0), V(0, 2, 0), V(2, 2, 4)}
	if got := Centroid(pts); got != V(1, 1, 1) {
		t.Errorf("Centroid = %v, want (1,1,1)", got)
	}
	if got := Centroid(nil); !got.IsZero() {
		t.Errorf("Centroid(nil) = %v", got)
	}
}

func TestMinDistance(t *testing.T) {
	pts := []Vec{V(0, 0, 0), V(10, 0, 0), V(10, 0.5, 0)}
	d, i, j := MinDistance(pts)
	if d != 0.5 || i != 1 || j != 2 {
		t.Errorf("MinDistance = %v (%d,%d), want 0.5 (1,2)", d, i, j)
	}

	d, i, _ = MinDistance(pts[:1])
	if !math.IsInf(d, 1) || i != -1 {
		t.Errorf("single point: got %v %d", d, i)
	}
}

func TestEulerIdentityAndAxes(t *testing.T) {
	if Euler(0, 0, 0) != Identity {
		t.Error("Euler(0,0,0) should be identity")
	}

	// A quarter turn about z takes x to y.
	if got := Euler(0, 0, math.Pi/2).Apply(V(1, 0, 0)); !near(got, V(0, 1, 0)) {
		t.Errorf("Rz(90) x = %v", got)
	}
	// A quarter turn about x takes y to z.
	if got := Euler(math.Pi/2, 0, 0).Apply(V(0, 1, 0)); !near(got, V(0, 0, 1)) {
		t.Errorf("Rx(90) y = %v", got)
	}
}

func TestEulerPreservesLength(t *testing.T) {
	r := Euler(0.3, -1.1, 2.7)
	v := V(1.5, -2, 0.25)
	if got := r.Apply(v).Norm(); math.Abs(got-v.Norm()) > 1e-12 {
		t.Errorf("rotation changed length: %v vs %v", got, v.Norm())
	}
}

func TestBox(t *testing.T) {
	b := Box{Min: V(0, 0, 0), Max: V(2, 4, 6)}
	if !b.Contains(V(2, 4, 6)) || b.Contains(V(2.1, 0, 0)) {
		t.Error("Contains mismatch")
	}
	if got := b.Center(); got != V(1, 2, 3) {
		t.Errorf("Center = %v", got)
	}
	if got := b.Lerp(V(0.5, 0.5, 0.5)); got != V(1, 2, 3) {
		t.Errorf("Lerp = %v", got)
	}

	o := Box{Min: V(1, 1, 1), Max: V(5, 5, 5)}
	r, ok := b.Intersect(o)
	if !ok || r.Min != V(1, 1, 1) || r.Max != V(2, 4, 5) {
		t.Errorf("Intersect = %v %v", r, ok)
	}
	if _, ok := b.Intersect(Box{Min: V(3, 0, 0), Max: V(4, 1, 1)}); ok {
		t.Error("disjoint boxes should not intersect")
	}
}
