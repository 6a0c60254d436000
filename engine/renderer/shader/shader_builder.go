package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option applied to a shader during construction via NewShader.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the default entry point (vs_main / fs_main).
//
// Parameters:
//   - entryPoint: the WGSL function name
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point
func WithEntryPoint(entryPoint string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = entryPoint
	}
}

// WithBindGroupLayout declares the layout of one bind group used by the shader.
//
// Parameters:
//   - group: the @group index
//   - descriptor: the layout descriptor
//
// Returns:
//   - ShaderBuilderOption: a function that records the layout
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayout appends a vertex buffer layout; slots follow call order.
//
// Parameters:
//   - layout: the vertex buffer layout
//
// Returns:
//   - ShaderBuilderOption: a function that appends the layout
func WithVertexLayout(layout wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = append(s.vertexLayouts, layout)
	}
}
