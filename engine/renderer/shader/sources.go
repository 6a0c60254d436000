package shader

import (
	_ "embed"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/frame.wgsl
var frameSource string

//go:embed assets/particle.wgsl
var particleSource string

//go:embed assets/wireframe.wgsl
var wireframeSource string

// Bind group indices shared by every backdrop shader.
const (
	GroupFrame  = 0
	GroupObject = 1
)

// Uniform sizes in bytes, matching the WGSL structs in assets/frame.wgsl.
const (
	CameraUniformSize   = 96
	LightsUniformSize   = 112
	MaterialUniformSize = 112
)

// FrameLayout is group 0: camera at binding 0, lights at binding 1.
func FrameLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "frame_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: CameraUniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: LightsUniformSize,
				},
			},
		},
	}
}

// ObjectLayout is group 1: the per-object material uniform at binding 0.
func ObjectLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "object_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: MaterialUniformSize,
				},
			},
		},
	}
}

func withSharedLayouts() []ShaderBuilderOption {
	return []ShaderBuilderOption{
		WithBindGroupLayout(GroupFrame, FrameLayout()),
		WithBindGroupLayout(GroupObject, ObjectLayout()),
	}
}

// ParticleShaders returns the vertex and fragment stages of the instanced billboard particle shader.
// Slot 0 is per instance: vec4 (x, y, z, scale).
func ParticleShaders() (vertex, fragment Shader) {
	src := frameSource + "\n" + particleSource
	vertex = NewShader("particle_vs", ShaderTypeVertex, src, append(withSharedLayouts(),
		WithVertexLayout(wgpu.VertexBufferLayout{
			ArrayStride: 16,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
			},
		}),
	)...)
	fragment = NewShader("particle_fs", ShaderTypeFragment, src, withSharedLayouts()...)
	return vertex, fragment
}

// WireframeShaders returns the stages of the lit wireframe shader.
// Slot 0 is per vertex: position vec3 then normal vec3.
func WireframeShaders() (vertex, fragment Shader) {
	src := frameSource + "\n" + wireframeSource
	vertex = NewShader("wireframe_vs", ShaderTypeVertex, src, append(withSharedLayouts(),
		WithVertexLayout(wgpu.VertexBufferLayout{
			ArrayStride: 24,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			},
		}),
	)...)
	fragment = NewShader("wireframe_fs", ShaderTypeFragment, src, withSharedLayouts()...)
	return vertex, fragment
}
