package model

import (
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
)

// FromWireframe builds a line-list Model from a triangle mesh: interleaved position and
// normal vertices indexed by each unique edge once.
//
// Parameters:
//   - g: the source mesh
//   - mat: the material drawn with the wireframe
//
// Returns:
//   - Model: the wireframe model
func FromWireframe(g geometry.Geometry, mat material.Material) Model {
	return NewModel(
		WithName(g.Name),
		WithPipelineKey(pipeline.KeyWireframe),
		WithMaterial(mat),
		WithVertices(g.Interleaved()),
		WithIndices(g.WireframeIndices()),
		WithBoundingRadius(g.BoundingRadius()),
	)
}

// FromPointCloud builds an instanced billboard Model: one instance per particle over a
// shared four-corner quad.
//
// Parameters:
//   - name: the model identifier
//   - cloud: the particle positions and scales
//   - mat: the point material
//
// Returns:
//   - Model: the particle model
func FromPointCloud(name string, cloud geometry.PointCloud, mat material.Material) Model {
	return NewModel(
		WithName(name),
		WithPipelineKey(pipeline.KeyParticles),
		WithMaterial(mat),
		WithVertices(cloud.Points),
		WithIndices(geometry.QuadIndices),
		WithInstanceCount(cloud.Len()),
	)
}
