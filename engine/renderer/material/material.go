package material

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
)

// material is the implementation of the Material interface.
type material struct {
	name              string
	color             common.Color
	opacity           float32
	emissive          common.Color
	emissiveIntensity float32
	pointSize         float32
	pipelineKey       string
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a render material: the flat surface properties of one
// entity and the GPU bind group that carries them, together with the entity's model matrix,
// to the shaders.
//
// Surface properties are fixed at construction and read-only through this interface. The
// bind group provider is attached by the Scene Builder once the Renderer has allocated it.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the base RGB color of the material.
	//
	// Returns:
	//   - common.Color: the base color
	Color() common.Color

	// Opacity retrieves the alpha multiplier applied to the base color.
	//
	// Returns:
	//   - float32: the opacity in [0, 1]
	Opacity() float32

	// Emissive retrieves the emissive tint and its intensity.
	//
	// Returns:
	//   - common.Color: the emissive color
	//   - float32: the emissive intensity
	Emissive() (common.Color, float32)

	// PointSize retrieves the billboard size in world units used by point materials.
	//
	// Returns:
	//   - float32: the point size
	PointSize() float32

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)

	// Uniform packs the material and the given model matrix into the GPU uniform layout.
	//
	// Parameters:
	//   - model: the 16-element column-major model matrix of the owning entity
	//
	// Returns:
	//   - GPUMaterialUniform: the packed uniform
	Uniform(model []float32) GPUMaterialUniform
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults are an opaque white material with no emission.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		color:     common.Color{1, 1, 1},
		opacity:   1,
		pointSize: 1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() common.Color {
	return m.color
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) Emissive() (common.Color, float32) {
	return m.emissive, m.emissiveIntensity
}

func (m *material) PointSize() float32 {
	return m.pointSize
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}

func (m *material) Uniform(model []float32) GPUMaterialUniform {
	var u GPUMaterialUniform
	copy(u.Model[:], model)
	u.Color = [4]float32{m.color[0], m.color[1], m.color[2], 1}
	u.Emissive = m.emissive
	u.EmissiveIntensity = m.emissiveIntensity
	u.PointSize = m.pointSize
	u.Opacity = m.opacity
	return u
}
