package common

import (
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func approxEqual(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#4F46E5", HexColor(0x4F46E5), true},
		{"0x10b981", HexColor(0x10B981), true},
		{"EC4899", HexColor(0xEC4899), true},
		{"#fff", Color{}, false},
		{"#zzzzzz", Color{}, false},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseHexColor(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorYAML(t *testing.T) {
	var doc struct {
		A Color `yaml:"a"`
		B Color `yaml:"b"`
	}
	if err := yaml.Unmarshal([]byte("a: \"#ffffff\"\nb: [0.5, 0.25, 1]\n"), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.A != (Color{1, 1, 1}) {
		t.Errorf("A = %v, want white", doc.A)
	}
	if doc.B != (Color{0.5, 0.25, 1}) {
		t.Errorf("B = %v, want {0.5 0.25 1}", doc.B)
	}
	if got := HexColor(0x4F46E5).Hex(); got != "#4f46e5" {
		t.Errorf("Hex() = %q, want #4f46e5", got)
	}
}

func TestViewportClamping(t *testing.T) {
	v := Viewport{Width: 0, Height: 0}
	if got := v.Aspect(); got != 1 {
		t.Errorf("Aspect() of 0x0 = %v, want 1", got)
	}
	w, h := v.SurfaceSize()
	if w != 1 || h != 1 {
		t.Errorf("SurfaceSize() of 0x0 = %dx%d, want 1x1", w, h)
	}

	v = Viewport{Width: 1920, Height: 1080, PixelRatio: 2}
	w, h = v.SurfaceSize()
	if w != 3840 || h != 2160 {
		t.Errorf("SurfaceSize() = %dx%d, want 3840x2160", w, h)
	}
	if !approxEqual(v.Aspect(), 1920.0/1080.0, 1e-6) {
		t.Errorf("Aspect() = %v, want %v", v.Aspect(), 1920.0/1080.0)
	}
}

func TestBuildModelMatrixIdentity(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 1, 2, 3, 0, 0, 0, 1, 1, 1)
	want := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1, 2, 3, 1}
	if m != want {
		t.Errorf("BuildModelMatrix = %v, want %v", m, want)
	}
}

func TestBuildModelMatrixRotationY(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 0, 0, 0, 0, math.Pi/2, 0, 1, 1, 1)
	// +X rotates onto -Z under a +90 degree yaw.
	x, y, z := TransformPoint(m[:], 1, 0, 0)
	if !approxEqual(x, 0, 1e-6) || !approxEqual(y, 0, 1e-6) || !approxEqual(z, -1, 1e-6) {
		t.Errorf("TransformPoint = (%v, %v, %v), want (0, 0, -1)", x, y, z)
	}
}

func TestBuildModelMatrixOrderXYZ(t *testing.T) {
	var m, rx, ry, rz, tmp, want [16]float32
	BuildModelMatrix(m[:], 0, 0, 0, 0.3, 0.5, 0.7, 1, 1, 1)
	BuildModelMatrix(rx[:], 0, 0, 0, 0.3, 0, 0, 1, 1, 1)
	BuildModelMatrix(ry[:], 0, 0, 0, 0, 0.5, 0, 1, 1, 1)
	BuildModelMatrix(rz[:], 0, 0, 0, 0, 0, 0.7, 1, 1, 1)
	Mul4(tmp[:], rx[:], ry[:])
	Mul4(want[:], tmp[:], rz[:])
	for i := range m {
		if !approxEqual(m[i], want[i], 1e-5) {
			t.Fatalf("m[%d] = %v, want %v", i, m[i], want[i])
		}
	}
}

func TestClampAndCoalesce(t *testing.T) {
	if got := Clamp(1.5, -1.0, 1.0); got != 1 {
		t.Errorf("Clamp(1.5) = %v, want 1", got)
	}
	if got := Clamp(-3, -1, 1); got != -1 {
		t.Errorf("Clamp(-3) = %v, want -1", got)
	}
	if got := Coalesce("", "", "b", "c"); got != "b" {
		t.Errorf("Coalesce = %q, want b", got)
	}
}
