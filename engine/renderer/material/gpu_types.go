package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialUniform is the GPU-aligned per-object uniform bound at group 1, binding 0.
// Matches the WGSL Material struct in shader/assets/frame.wgsl exactly.
// Size: 112 bytes (104 rounded up to the struct's 16-byte alignment).
type GPUMaterialUniform struct {
	Model             [16]float32 // offset 0: column-major model matrix (64 bytes)
	Color             [4]float32  // offset 64: RGBA base color (16 bytes)
	Emissive          [3]float32  // offset 80: emissive RGB (12 bytes)
	EmissiveIntensity float32     // offset 92: emissive scale (4 bytes)
	PointSize         float32     // offset 96: billboard size in world units (4 bytes)
	Opacity           float32     // offset 100: alpha multiplier (4 bytes)
	_pad              [2]float32  // offset 104: struct alignment padding (8 bytes)
}

// Size returns the size of the GPUMaterialUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 112-byte buffer ready for GPU upload.
func (g *GPUMaterialUniform) Marshal() []byte {
	buf := make([]byte, 112)
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}
	for i, v := range g.Model {
		put(i*4, v)
	}
	for i, v := range g.Color {
		put(64+i*4, v)
	}
	for i, v := range g.Emissive {
		put(80+i*4, v)
	}
	put(92, g.EmissiveIntensity)
	put(96, g.PointSize)
	put(100, g.Opacity)
	return buf
}
