package renderer

import (
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps "vsync" / "uncapped" to a PresentMode. Unknown names fall back to VSync.
func ParsePresentMode(s string) PresentMode {
	if s == "uncapped" {
		return PresentModeUncapped
	}
	return PresentModeVSync
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// BufferKind selects the usage a GPU buffer is created with.
type BufferKind int

const (
	BufferKindVertex BufferKind = iota
	BufferKindIndex
	BufferKindUniform
)

func (k BufferKind) String() string {
	switch k {
	case BufferKindVertex:
		return "Vertex"
	case BufferKindIndex:
		return "Index"
	case BufferKindUniform:
		return "Uniform"
	default:
		return "Unknown"
	}
}

// SurfaceSource supplies the platform surface the renderer draws into.
type SurfaceSource interface {
	// SurfaceDescriptor returns the platform-specific descriptor used to create the GPU surface.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// SurfaceSize returns the drawable size in device pixels.
	SurfaceSize() (width, height int)
}

// RendererBackend is the GPU API seam beneath the Renderer. The Renderer owns resource
// accounting and provider wiring; a backend only creates, encodes and frees GPU objects.
// Handles passed back into a backend may be wrapped by the Renderer; use UnwrapBuffer and
// UnwrapBindGroup to reach the backend's own values.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and render targets for the given size in device pixels.
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the backend pipeline object and stores it on p.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// CreateBuffer allocates a GPU buffer of size bytes, uploading data when it is non-empty.
	CreateBuffer(label string, kind BufferKind, size uint64, data []byte) (bind_group_provider.Buffer, error)

	// CreateBindGroup binds buffers, in binding order, against the given layout.
	CreateBindGroup(label string, layout wgpu.BindGroupLayoutDescriptor, buffers []bind_group_provider.Buffer) (bind_group_provider.BindGroup, error)

	// WriteBuffer queues a write of data into buf at offset.
	WriteBuffer(buf bind_group_provider.Buffer, offset uint64, data []byte) error

	// BeginFrame acquires the next surface texture and opens the frame's render pass.
	BeginFrame() error

	// DrawCall encodes one indexed, instanced draw in the open render pass.
	DrawCall(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame closes the render pass and submits the frame's commands.
	EndFrame() error

	// Present shows the submitted frame.
	Present()

	// Release frees the surface, render targets, layouts and device.
	Release()
}

type bufferWrapper interface {
	Unwrap() bind_group_provider.Buffer
}

type bindGroupWrapper interface {
	Unwrap() bind_group_provider.BindGroup
}

// UnwrapBuffer returns the backend buffer beneath any Renderer bookkeeping wrapper.
func UnwrapBuffer(b bind_group_provider.Buffer) bind_group_provider.Buffer {
	for {
		w, ok := b.(bufferWrapper)
		if !ok {
			return b
		}
		b = w.Unwrap()
	}
}

// UnwrapBindGroup returns the backend bind group beneath any Renderer bookkeeping wrapper.
func UnwrapBindGroup(bg bind_group_provider.BindGroup) bind_group_provider.BindGroup {
	for {
		w, ok := bg.(bindGroupWrapper)
		if !ok {
			return bg
		}
		bg = w.Unwrap()
	}
}
