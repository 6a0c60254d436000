package model

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithPipelineKey is an option builder that sets the render pipeline the Model is drawn with.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - ModelBuilderOption: a function that applies the pipeline key option to a model
func WithPipelineKey(key string) ModelBuilderOption {
	return func(m *model) {
		m.pipelineKey = key
	}
}

// WithMaterial is an option builder that sets the Material drawn with the Model.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option to a model
func WithMaterial(mat material.Material) ModelBuilderOption {
	return func(m *model) {
		m.mat = mat
	}
}

// WithMeshProvider is an option builder that sets the provider that will hold the Model's GPU buffers.
//
// Parameters:
//   - provider: the mesh bind group provider
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh provider option to a model
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) ModelBuilderOption {
	return func(m *model) {
		m.meshProvider = provider
	}
}

// WithVertices is an option builder that sets the vertex (or per-instance) data of the Model.
//
// Parameters:
//   - vertices: the packed float data
//
// Returns:
//   - ModelBuilderOption: a function that applies the vertex data option to a model
func WithVertices(vertices []float32) ModelBuilderOption {
	return func(m *model) {
		m.vertexData = common.SliceToBytes(vertices)
	}
}

// WithIndices is an option builder that sets the index data and index count of the Model.
//
// Parameters:
//   - indices: the 32-bit indices
//
// Returns:
//   - ModelBuilderOption: a function that applies the index data option to a model
func WithIndices(indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.indexData = common.SliceToBytes(indices)
		m.indexCount = len(indices)
	}
}

// WithInstanceCount is an option builder that sets how many instances are drawn per frame.
// Values below 1 are ignored.
//
// Parameters:
//   - count: the instance count
//
// Returns:
//   - ModelBuilderOption: a function that applies the instance count option to a model
func WithInstanceCount(count int) ModelBuilderOption {
	return func(m *model) {
		if count >= 1 {
			m.instanceCount = count
		}
	}
}

// WithBoundingRadius is an option builder that sets the bounding sphere radius of the Model.
//
// Parameters:
//   - radius: the bounding radius
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounding radius option to a model
func WithBoundingRadius(radius float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = radius
	}
}
