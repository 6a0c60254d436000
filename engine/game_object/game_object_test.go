package game_object

import (
	"math"
	"testing"
	"time"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestAdvanceRotationIsFrameCoupled(t *testing.T) {
	obj := NewGameObject(WithMotion(Motion{RotationRate: [3]float32{0.005, 0.003, 0}}))
	for range 100 {
		obj.Advance(1, 0)
	}
	rx, ry, rz := obj.Rotation()
	if !near(rx, 0.5) || !near(ry, 0.3) || rz != 0 {
		t.Errorf("Rotation() = (%v, %v, %v), want (0.5, 0.3, 0)", rx, ry, rz)
	}

	// Half-rate ticks take twice as many steps.
	half := NewGameObject(WithMotion(Motion{RotationRate: [3]float32{0.005, 0.003, 0}}))
	for range 200 {
		half.Advance(0.5, 0)
	}
	hx, _, _ := half.Rotation()
	if !near(hx, rx) {
		t.Errorf("step scaling: %v != %v", hx, rx)
	}
}

// quarterPeriodSeconds is a variable so the Duration conversion happens at run time.
var quarterPeriodSeconds = math.Pi / 0.5 / 2

func TestOscillationAssignsAxis(t *testing.T) {
	cases := []struct {
		name string
		osc  Oscillation
		at   time.Duration
		axis int
		want float32
	}{
		{"torus sin at 0", Oscillation{Axis: 0, Amplitude: 5, AngularFrequency: 0.5, Wave: WaveSin}, 0, 0, 0},
		{"torus sin quarter period", Oscillation{Axis: 0, Amplitude: 5, AngularFrequency: 0.5, Wave: WaveSin}, time.Duration(quarterPeriodSeconds * float64(time.Second)), 0, 5},
		{"icosahedron cos at 0", Oscillation{Axis: 1, Amplitude: 5, AngularFrequency: 0.3, Wave: WaveCos}, 0, 1, 5},
		{"octahedron offset", Oscillation{Axis: 2, Amplitude: 5, AngularFrequency: 0.4, Wave: WaveSin, Offset: -8}, 0, 2, -8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			osc := tc.osc
			obj := NewGameObject(WithPosition(-15, -5, -10), WithMotion(Motion{Oscillation: &osc}))
			// Repeated ticks at the same time must not accumulate.
			obj.Advance(1, tc.at)
			obj.Advance(1, tc.at)
			var pos [3]float32
			pos[0], pos[1], pos[2] = obj.Position()
			if !near(pos[tc.axis], tc.want) {
				t.Errorf("position[%d] = %v, want %v", tc.axis, pos[tc.axis], tc.want)
			}
			for i := range 3 {
				if i == tc.axis {
					continue
				}
				if want := [3]float32{-15, -5, -10}[i]; pos[i] != want {
					t.Errorf("non-oscillating axis %d changed to %v", i, pos[i])
				}
			}
		})
	}
}

func TestParseWave(t *testing.T) {
	if w, err := ParseWave("cos"); err != nil || w != WaveCos {
		t.Errorf("ParseWave(cos) = %v, %v", w, err)
	}
	if _, err := ParseWave("square"); err == nil {
		t.Error("ParseWave(square) should fail")
	}
	if !(Motion{}).Static() {
		t.Error("zero Motion should be static")
	}
}

func TestModelMatrixTranslation(t *testing.T) {
	obj := NewGameObject(WithPosition(1, 2, 3))
	m := obj.ModelMatrix()
	if m[12] != 1 || m[13] != 2 || m[14] != 3 || m[15] != 1 {
		t.Errorf("translation column = %v", m[12:16])
	}
	if !obj.Enabled() {
		t.Error("new objects should be enabled")
	}
}
