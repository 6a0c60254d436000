package game_object

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Wave selects the periodic function an Oscillation follows.
type Wave int

const (
	// WaveSin starts the oscillation at its offset.
	WaveSin Wave = iota
	// WaveCos starts the oscillation at offset + amplitude.
	WaveCos
)

// ParseWave maps "sin" or "cos", in any case, to a Wave. The empty string is sin.
func ParseWave(s string) (Wave, error) {
	switch strings.ToLower(s) {
	case "sin", "":
		return WaveSin, nil
	case "cos":
		return WaveCos, nil
	default:
		return WaveSin, fmt.Errorf("unknown wave %q", s)
	}
}

// Oscillation drives one position axis as a pure function of time since activation:
// position[Axis] = Offset + Amplitude * wave(AngularFrequency * t).
type Oscillation struct {
	Axis             int
	Amplitude        float64
	AngularFrequency float64 // radians per second
	Wave             Wave
	Offset           float64
}

// Value returns the axis position at elapsed time t.
func (o Oscillation) Value(t time.Duration) float32 {
	phase := o.AngularFrequency * t.Seconds()
	w := math.Sin(phase)
	if o.Wave == WaveCos {
		w = math.Cos(phase)
	}
	return float32(o.Offset + o.Amplitude*w)
}

// Motion is the per-entity animation descriptor consumed by GameObject.Advance.
// RotationRate is in radians per frame step; a nil Oscillation leaves position untouched.
type Motion struct {
	RotationRate [3]float32
	Oscillation  *Oscillation
}

// Static reports whether the motion changes nothing.
func (m Motion) Static() bool {
	return m.RotationRate == [3]float32{} && m.Oscillation == nil
}
