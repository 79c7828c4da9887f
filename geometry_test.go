package grove

import (
	"math"
	"testing"
)

func TestPrimitiveTriangleCounts(t *testing.T) {
	tests := []struct {
		name string
		geo  *Geometry
		want int
	}{
		{"box", NewBox(1, 2, 3), 12},
		{"plane", NewPlane(1, 1), 2},
		{"cylinder", NewCylinder(1, 1, 2, 8), 8*2 + 8 + 8},
		{"cone", NewCone(1, 2, 6), 6*2 + 6},
		{"sphere", NewSphere(1, 8, 4), 8 * (4*2 - 2)},
	}
	for _, tt := range tests {
		if got := tt.geo.TriangleCount(); got != tt.want {
			t.Errorf("%s: TriangleCount = %d, want %d", tt.name, got, tt.want)
		}
		if len(tt.geo.UVs) != len(tt.geo.Positions) {
			t.Errorf("%s: %d UVs for %d positions", tt.name, len(tt.geo.UVs), len(tt.geo.Positions))
		}
	}
}

func TestBoxBounds(t *testing.T) {
	b := NewBox(2, 4, 6).Bounds()
	if b.Min != (Vec3{-1, -2, -3}) || b.Max != (Vec3{1, 2, 3}) {
		t.Errorf("Bounds = %+v", b)
	}
	if b.Center() != (Vec3{}) || b.Size() != (Vec3{2, 4, 6}) {
		t.Errorf("Center = %v, Size = %v", b.Center(), b.Size())
	}
}

func TestSphereRadius(t *testing.T) {
	g := NewSphere(3, 12, 8)
	for _, p := range g.Positions {
		if math.Abs(p.Len()-3) > 1e-9 {
			t.Fatalf("vertex %v off the sphere", p)
		}
	}
}

func TestBoxFacesOutward(t *testing.T) {
	g := NewBox(2, 2, 2)
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if normal.Dot(centroid) <= 0 {
			t.Errorf("triangle %d faces inward", i)
		}
	}
}

func TestNewGeometryIndexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range index")
		}
	}()
	NewGeometry([]Vec3{{0, 0, 0}}, nil, []uint16{0, 1, 2})
}

func TestGeometryDispose(t *testing.T) {
	g := NewBox(1, 1, 1)
	g.Dispose()
	if !g.IsDisposed() || g.TriangleCount() != 0 {
		t.Errorf("disposed geometry: disposed=%v triangles=%d", g.IsDisposed(), g.TriangleCount())
	}
}
