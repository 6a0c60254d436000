package geometry

import (
	"math"
)

// TorusKnotParams describes a (p, q) torus knot tube.
type TorusKnotParams struct {
	Radius          float32
	Tube            float32
	TubularSegments int
	RadialSegments  int
	P               int
	Q               int
}

// TorusKnot sweeps a circle of radius Tube along the (P, Q) torus knot curve.
// The mesh has (TubularSegments+1)*(RadialSegments+1) vertices with seam vertices duplicated.
//
// Parameters:
//   - params: the knot dimensions and tessellation
//
// Returns:
//   - Geometry: the generated mesh
func TorusKnot(params TorusKnotParams) Geometry {
	tubular := max(params.TubularSegments, 3)
	radial := max(params.RadialSegments, 3)
	p := float64(max(params.P, 1))
	q := float64(params.Q)
	radius := float64(params.Radius)
	tube := float32(params.Tube)

	g := Geometry{
		Name:      "torus_knot",
		Positions: make([]float32, 0, (tubular+1)*(radial+1)*3),
		Normals:   make([]float32, 0, (tubular+1)*(radial+1)*3),
		Indices:   make([]uint32, 0, tubular*radial*6),
	}

	for i := 0; i <= tubular; i++ {
		u := float64(i) / float64(tubular) * p * math.Pi * 2

		p1x, p1y, p1z := knotPoint(u, p, q, radius)
		p2x, p2y, p2z := knotPoint(u+0.01, p, q, radius)

		tx, ty, tz := p2x-p1x, p2y-p1y, p2z-p1z
		nx, ny, nz := p2x+p1x, p2y+p1y, p2z+p1z
		bx, by, bz := cross(tx, ty, tz, nx, ny, nz)
		nx, ny, nz = cross(bx, by, bz, tx, ty, tz)
		bx, by, bz = normalize(bx, by, bz)
		nx, ny, nz = normalize(nx, ny, nz)

		for j := 0; j <= radial; j++ {
			v := float64(j) / float64(radial) * math.Pi * 2
			cx := -tube * float32(math.Cos(v))
			cy := tube * float32(math.Sin(v))

			vx := p1x + cx*nx + cy*bx
			vy := p1y + cx*ny + cy*by
			vz := p1z + cx*nz + cy*bz
			g.Positions = append(g.Positions, vx, vy, vz)

			sx, sy, sz := normalize(vx-p1x, vy-p1y, vz-p1z)
			g.Normals = append(g.Normals, sx, sy, sz)
		}
	}

	stride := uint32(radial + 1)
	for j := 1; j <= tubular; j++ {
		for i := 1; i <= radial; i++ {
			a := stride*uint32(j-1) + uint32(i-1)
			b := stride*uint32(j) + uint32(i-1)
			c := stride*uint32(j) + uint32(i)
			d := stride*uint32(j-1) + uint32(i)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}

func knotPoint(u, p, q, radius float64) (float32, float32, float32) {
	cu := math.Cos(u)
	su := math.Sin(u)
	quOverP := q / p * u
	cs := math.Cos(quOverP)
	return float32(radius * (2 + cs) * 0.5 * cu),
		float32(radius * (2 + cs) * su * 0.5),
		float32(radius * math.Sin(quOverP) * 0.5)
}
