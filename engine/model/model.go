package model

import (
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	name                  string
	pipelineKey           string
	mat                   material.Material
	meshProvider          bind_group_provider.BindGroupProvider
	boundingRadius        float32
	vertexData, indexData []byte
	indexCount            int
	instanceCount         int
}

// Model defines the interface for a renderable mesh.
// A Model is a GPU-ready container pairing CPU mesh data with the BindGroupProvider that
// will hold its vertex and index buffers, and the Material drawn with it. It is produced
// by the Scene Builder from generated geometry and uploaded once per activation.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// PipelineKey returns the key of the render pipeline used to draw this model.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Material returns the material drawn with this model.
	//
	// Returns:
	//   - material.Material: the material, or nil
	Material() material.Material

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// VertexData returns the raw vertex (or per-instance) data for this model's mesh.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the raw index data for this model's mesh.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// InstanceCount returns the number of instances drawn per frame.
	//
	// Returns:
	//   - int: the instance count, 1 for plain meshes
	InstanceCount() int

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// Release frees the GPU resources held by the mesh provider and the material's provider.
	// Safe to call more than once.
	Release()
}

var _ Model = &model{}

// NewModel creates a new Model configured with the provided options.
// The mesh provider is labelled after the model name unless one is supplied.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the model
//
// Returns:
//   - Model: a new Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		instanceCount: 1,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider(m.name + "_mesh")
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) PipelineKey() string {
	return m.pipelineKey
}

func (m *model) Material() material.Material {
	return m.mat
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) InstanceCount() int {
	return m.instanceCount
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Release() {
	m.meshProvider.Release()
	if m.mat != nil && m.mat.BindGroupProvider() != nil {
		m.mat.BindGroupProvider().Release()
	}
}
