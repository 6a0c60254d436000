package material

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor is an option builder that sets the base RGB color of the material.
//
// Parameters:
//   - color: the base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithOpacity is an option builder that sets the alpha multiplier of the material.
// Values outside [0, 1] are clamped.
//
// Parameters:
//   - opacity: the opacity
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = common.Clamp(opacity, 0, 1)
	}
}

// WithEmissive is an option builder that sets the emissive tint added on top of the lit color.
//
// Parameters:
//   - color: the emissive color
//   - intensity: the emissive scale
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(color common.Color, intensity float32) MaterialBuilderOption {
	return func(m *material) {
		m.emissive = color
		m.emissiveIntensity = intensity
	}
}

// WithPointSize is an option builder that sets the billboard size for point materials.
//
// Parameters:
//   - size: the size in world units
//
// Returns:
//   - MaterialBuilderOption: a function that applies the point size option to a material
func WithPointSize(size float32) MaterialBuilderOption {
	return func(m *material) {
		m.pointSize = size
	}
}

// WithPipelineKey is an option builder that sets the render pipeline the material draws with.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}
