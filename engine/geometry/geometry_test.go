package geometry

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestIcosahedron(t *testing.T) {
	g := Icosahedron(5, 0)
	if g.VertexCount() != 12 {
		t.Errorf("VertexCount() = %d, want 12", g.VertexCount())
	}
	if g.TriangleCount() != 20 {
		t.Errorf("TriangleCount() = %d, want 20", g.TriangleCount())
	}
	if edges := len(g.WireframeIndices()) / 2; edges != 30 {
		t.Errorf("edges = %d, want 30", edges)
	}
	if !approxEqual(g.BoundingRadius(), 5, 1e-4) {
		t.Errorf("BoundingRadius() = %v, want 5", g.BoundingRadius())
	}
}

func TestOctahedron(t *testing.T) {
	g := Octahedron(4, 0)
	if g.VertexCount() != 6 || g.TriangleCount() != 8 {
		t.Errorf("vertices/triangles = %d/%d, want 6/8", g.VertexCount(), g.TriangleCount())
	}
	if edges := len(g.WireframeIndices()) / 2; edges != 12 {
		t.Errorf("edges = %d, want 12", edges)
	}
}

func TestPolyhedronDetail(t *testing.T) {
	g := Octahedron(1, 1)
	if g.TriangleCount() != 32 {
		t.Errorf("TriangleCount() = %d, want 32", g.TriangleCount())
	}
	// 6 corners + 12 edge midpoints.
	if g.VertexCount() != 18 {
		t.Errorf("VertexCount() = %d, want 18", g.VertexCount())
	}
	for i := 0; i < len(g.Positions); i += 3 {
		x, y, z := g.Positions[i], g.Positions[i+1], g.Positions[i+2]
		r := float32(math.Sqrt(float64(x*x + y*y + z*z)))
		if !approxEqual(r, 1, 1e-5) {
			t.Fatalf("vertex %d at radius %v, want 1", i/3, r)
		}
	}
}

func TestTorusKnot(t *testing.T) {
	g := TorusKnot(TorusKnotParams{Radius: 8, Tube: 2, TubularSegments: 100, RadialSegments: 16, P: 2, Q: 3})
	if g.VertexCount() != 101*17 {
		t.Errorf("VertexCount() = %d, want %d", g.VertexCount(), 101*17)
	}
	if g.TriangleCount() != 100*16*2 {
		t.Errorf("TriangleCount() = %d, want %d", g.TriangleCount(), 100*16*2)
	}
	for _, idx := range g.Indices {
		if int(idx) >= g.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}
	// The knot curve stays within radius*1.5 and the tube adds at most its own radius.
	if r := g.BoundingRadius(); r > 8*1.5+2+1e-3 {
		t.Errorf("BoundingRadius() = %v, want <= 14", r)
	}
	if len(g.Interleaved()) != g.VertexCount()*VertexStride {
		t.Errorf("Interleaved() length = %d, want %d", len(g.Interleaved()), g.VertexCount()*VertexStride)
	}
}

func TestSamplePointCloud(t *testing.T) {
	c := SamplePointCloud(2000, 100, nil)
	if c.Len() != 2000 {
		t.Fatalf("Len() = %d, want 2000", c.Len())
	}
	for i := range c.Len() {
		p := c.Points[i*ParticleStride : (i+1)*ParticleStride]
		for axis := range 3 {
			if p[axis] < -50 || p[axis] >= 50 {
				t.Fatalf("particle %d axis %d = %v, outside [-50, 50)", i, axis, p[axis])
			}
		}
		if p[3] < 0 || p[3] >= 1 {
			t.Fatalf("particle %d scale = %v, outside [0, 1)", i, p[3])
		}
	}
}

func TestSamplePointCloudDeterministicSource(t *testing.T) {
	c := SamplePointCloud(1, 100, func() float32 { return 0.75 })
	want := []float32{25, 25, 25, 0.75}
	for i, v := range want {
		if c.Points[i] != v {
			t.Errorf("Points[%d] = %v, want %v", i, c.Points[i], v)
		}
	}
}
