package camera

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL Camera struct in shader/assets/frame.wgsl exactly.
// Size: 96 bytes (WGSL aligned).
type GPUCameraUniform struct {
	ViewProj  [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	Position  [3]float32  // offset 64: world-space camera position (vec3<f32>)
	Aspect    float32     // offset 76: width / height
	ProjScale [2]float32  // offset 80: projection x and y scale (vec2<f32>)
	_pad      [2]float32  // offset 88: padding to 96 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Position[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], math.Float32bits(g.Aspect))
	binary.LittleEndian.PutUint32(buf[80:], math.Float32bits(g.ProjScale[0]))
	binary.LittleEndian.PutUint32(buf[84:], math.Float32bits(g.ProjScale[1]))
	return buf
}
