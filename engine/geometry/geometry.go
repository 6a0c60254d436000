// Package geometry generates the CPU-side meshes for the backdrop: a torus knot, subdivided
// polyhedra and the particle point cloud. Meshes are indexed triangle lists that can be
// reduced to line lists for wireframe drawing.
package geometry

import (
	"math"
	"slices"
)

// VertexStride is the number of float32 values per interleaved vertex (position + normal).
const VertexStride = 6

// Geometry is an indexed triangle mesh.
type Geometry struct {
	Name      string
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (g Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles in the mesh.
func (g Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Interleaved packs positions and normals as [px py pz nx ny nz] per vertex.
//
// Returns:
//   - []float32: the interleaved vertex data
func (g Geometry) Interleaved() []float32 {
	n := g.VertexCount()
	out := make([]float32, 0, n*VertexStride)
	for i := range n {
		out = append(out, g.Positions[i*3:i*3+3]...)
		if len(g.Normals) >= (i+1)*3 {
			out = append(out, g.Normals[i*3:i*3+3]...)
		} else {
			out = append(out, 0, 0, 0)
		}
	}
	return out
}

// WireframeIndices converts the triangle list into a line list with every edge appearing once.
//
// Returns:
//   - []uint32: pairs of vertex indices, one pair per unique edge
func (g Geometry) WireframeIndices() []uint32 {
	seen := make(map[uint64]struct{}, len(g.Indices))
	out := make([]uint32, 0, len(g.Indices)*2)
	add := func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		key := uint64(a)<<32 | uint64(b)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, a, b)
	}
	for t := 0; t+2 < len(g.Indices); t += 3 {
		a, b, c := g.Indices[t], g.Indices[t+1], g.Indices[t+2]
		add(a, b)
		add(b, c)
		add(c, a)
	}
	return out
}

// BoundingRadius returns the largest distance of any vertex from the origin.
func (g Geometry) BoundingRadius() float32 {
	var r float64
	for i := 0; i+2 < len(g.Positions); i += 3 {
		x, y, z := float64(g.Positions[i]), float64(g.Positions[i+1]), float64(g.Positions[i+2])
		r = max(r, math.Sqrt(x*x+y*y+z*z))
	}
	return float32(r)
}

// weld merges vertices that share a position and rewrites the index list.
func weld(positions []float32, indices []uint32) ([]float32, []uint32) {
	const quantum = 1e-4
	type key [3]int64
	lookup := make(map[key]uint32)
	outPos := make([]float32, 0, len(positions))
	remap := make([]uint32, len(positions)/3)
	for i := range remap {
		p := positions[i*3 : i*3+3]
		k := key{
			int64(math.Round(float64(p[0]) / quantum)),
			int64(math.Round(float64(p[1]) / quantum)),
			int64(math.Round(float64(p[2]) / quantum)),
		}
		idx, ok := lookup[k]
		if !ok {
			idx = uint32(len(outPos) / 3)
			lookup[k] = idx
			outPos = append(outPos, p...)
		}
		remap[i] = idx
	}
	outIdx := slices.Clone(indices)
	for i, v := range outIdx {
		outIdx[i] = remap[v]
	}
	return outPos, outIdx
}

func normalize(x, y, z float32) (float32, float32, float32) {
	l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if l == 0 {
		return 0, 0, 0
	}
	return x / l, y / l, z / l
}

func cross(ax, ay, az, bx, by, bz float32) (float32, float32, float32) {
	return ay*bz - az*by, az*bx - ax*bz, ax*by - ay*bx
}
