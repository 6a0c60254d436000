package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// MaxPointLights is the number of point lights the shaders evaluate. It matches the
// fixed array length of Lights.points in the WGSL frame header.
const MaxPointLights = 3

// GPUPointLight is the GPU-aligned representation of a single point light.
// Matches the WGSL PointLight struct layout exactly.
// Size: 32 bytes.
type GPUPointLight struct {
	Position  [3]float32 // offset  0: world-space position
	Range     float32    // offset 12: attenuation cutoff distance
	Color     [3]float32 // offset 16: RGB color
	Intensity float32    // offset 28: scalar multiplier
}

// GPULightsUniform is the uniform bound at group 0, binding 1.
// Matches the WGSL Lights struct layout exactly.
// Size: 112 bytes (16-byte ambient header + 3 point lights).
type GPULightsUniform struct {
	Ambient          [3]float32                    // offset 0: ambient RGB
	AmbientIntensity float32                       // offset 12: ambient scale
	Points           [MaxPointLights]GPUPointLight // offset 16: point lights
}

// Size returns the size of the GPULightsUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (112)
func (g *GPULightsUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightsUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 112-byte buffer ready for GPU upload
func (g *GPULightsUniform) Marshal() []byte {
	buf := make([]byte, 112)
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}
	put(0, g.Ambient[0])
	put(4, g.Ambient[1])
	put(8, g.Ambient[2])
	put(12, g.AmbientIntensity)
	for i, p := range g.Points {
		base := 16 + i*32
		put(base, p.Position[0])
		put(base+4, p.Position[1])
		put(base+8, p.Position[2])
		put(base+12, p.Range)
		put(base+16, p.Color[0])
		put(base+20, p.Color[1])
		put(base+24, p.Color[2])
		put(base+28, p.Intensity)
	}
	return buf
}

// PackLights builds the lights uniform. Point light positions are transformed from root-local
// space by root so that lights parented to the scene root rotate with it. Ambient lights are
// summed; point lights beyond MaxPointLights are dropped and unused slots stay zero, which
// the shader treats as contributing nothing.
//
// Parameters:
//   - lights: the scene lights in registration order
//   - root: the 16-element column-major scene root matrix, or nil for identity
//
// Returns:
//   - GPULightsUniform: the packed uniform
func PackLights(lights []Light, root []float32) GPULightsUniform {
	var u GPULightsUniform
	var ambient common.Color
	var ambientIntensity float32
	points := 0
	for _, l := range lights {
		switch l.Type() {
		case LightTypeAmbient:
			// Accumulate pre-scaled color so several ambient lights add up.
			c := l.Color()
			for i := range ambient {
				ambient[i] += c[i] * l.Intensity()
			}
			ambientIntensity = 1
		case LightTypePoint:
			if points == MaxPointLights {
				continue
			}
			pos := l.Position()
			if root != nil {
				pos[0], pos[1], pos[2] = common.TransformPoint(root, pos[0], pos[1], pos[2])
			}
			u.Points[points] = GPUPointLight{
				Position:  pos,
				Range:     l.Range(),
				Color:     l.Color(),
				Intensity: l.Intensity(),
			}
			points++
		}
	}
	u.Ambient = ambient
	u.AmbientIntensity = ambientIntensity
	return u
}
