package geometry

import (
	"math"
)

var icosahedronVertices = func() []float32 {
	t := float32((1 + math.Sqrt(5)) / 2)
	return []float32{
		-1, t, 0, 1, t, 0, -1, -t, 0, 1, -t, 0,
		0, -1, t, 0, 1, t, 0, -1, -t, 0, 1, -t,
		t, 0, -1, t, 0, 1, -t, 0, -1, -t, 0, 1,
	}
}()

var icosahedronIndices = []uint32{
	0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
	1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
	3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
	4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
}

var octahedronVertices = []float32{
	1, 0, 0, -1, 0, 0, 0, 1, 0, 0, -1, 0, 0, 0, 1, 0, 0, -1,
}

var octahedronIndices = []uint32{
	0, 2, 4, 0, 4, 3, 0, 3, 5, 0, 5, 2, 1, 2, 5, 1, 5, 3, 1, 3, 4, 1, 4, 2,
}

// Icosahedron builds an icosahedron of the given circumradius.
// Each detail level splits every face edge into detail+1 segments projected onto the sphere.
//
// Parameters:
//   - radius: circumradius
//   - detail: subdivision level, 0 for the plain solid
//
// Returns:
//   - Geometry: the welded mesh
func Icosahedron(radius float32, detail int) Geometry {
	return polyhedron("icosahedron", icosahedronVertices, icosahedronIndices, radius, detail)
}

// Octahedron builds an octahedron of the given circumradius.
//
// Parameters:
//   - radius: circumradius
//   - detail: subdivision level, 0 for the plain solid
//
// Returns:
//   - Geometry: the welded mesh
func Octahedron(radius float32, detail int) Geometry {
	return polyhedron("octahedron", octahedronVertices, octahedronIndices, radius, detail)
}

func polyhedron(name string, base []float32, faces []uint32, radius float32, detail int) Geometry {
	detail = max(detail, 0)
	cols := detail + 1

	var positions []float32
	var indices []uint32
	emit := func(v [3]float32) {
		x, y, z := normalize(v[0], v[1], v[2])
		positions = append(positions, x*radius, y*radius, z*radius)
		indices = append(indices, uint32(len(indices)))
	}
	vertex := func(i uint32) [3]float32 {
		return [3]float32{base[i*3], base[i*3+1], base[i*3+2]}
	}

	for f := 0; f+2 < len(faces); f += 3 {
		a, b, c := vertex(faces[f]), vertex(faces[f+1]), vertex(faces[f+2])

		grid := make([][][3]float32, cols+1)
		for i := 0; i <= cols; i++ {
			aj := lerp(a, c, float32(i)/float32(cols))
			bj := lerp(b, c, float32(i)/float32(cols))
			rows := cols - i
			grid[i] = make([][3]float32, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					grid[i][j] = aj
				} else {
					grid[i][j] = lerp(aj, bj, float32(j)/float32(rows))
				}
			}
		}

		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					emit(grid[i][k+1])
					emit(grid[i+1][k])
					emit(grid[i][k])
				} else {
					emit(grid[i][k+1])
					emit(grid[i+1][k+1])
					emit(grid[i+1][k])
				}
			}
		}
	}

	positions, indices = weld(positions, indices)
	normals := make([]float32, len(positions))
	for i := 0; i+2 < len(positions); i += 3 {
		normals[i], normals[i+1], normals[i+2] = normalize(positions[i], positions[i+1], positions[i+2])
	}
	return Geometry{Name: name, Positions: positions, Normals: normals, Indices: indices}
}

func lerp(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}
