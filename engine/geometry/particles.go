package geometry

import (
	"math/rand/v2"
)

// ParticleStride is the number of float32 values per particle: x, y, z and scale.
const ParticleStride = 4

// PointCloud holds particle positions and per-particle scales packed as [x y z scale].
type PointCloud struct {
	Points []float32
}

// Len returns the number of particles.
func (c PointCloud) Len() int {
	return len(c.Points) / ParticleStride
}

// SamplePointCloud scatters count points uniformly inside an axis-aligned cube of edge extent
// centred on the origin, each with a scale drawn uniformly from [0, 1).
//
// Parameters:
//   - count: the number of particles
//   - extent: the cube edge length
//   - random: a source of uniform values in [0, 1); nil uses math/rand/v2
//
// Returns:
//   - PointCloud: the sampled cloud
func SamplePointCloud(count int, extent float32, random func() float32) PointCloud {
	if random == nil {
		random = rand.Float32
	}
	count = max(count, 0)
	points := make([]float32, count*ParticleStride)
	for i := range count {
		o := i * ParticleStride
		points[o] = (random() - 0.5) * extent
		points[o+1] = (random() - 0.5) * extent
		points[o+2] = (random() - 0.5) * extent
		points[o+3] = random()
	}
	return PointCloud{Points: points}
}

// QuadIndices are the two triangles of the unit billboard each particle instance expands into.
var QuadIndices = []uint32{0, 1, 2, 2, 1, 3}
