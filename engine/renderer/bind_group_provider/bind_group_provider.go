package bind_group_provider

import (
	"sort"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed. They are populated by the Renderer during initialization, not by user-creation.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized with the Renderer.
	bindGroup BindGroup
	// buffers holds the uniform buffers created for this provider, keyed by binding index.
	buffers map[int]Buffer

	// vertexBuffer is the GPU vertex (or per-instance) buffer created for this provider, or nil if not initialized with the Renderer.
	vertexBuffer Buffer
	// indexBuffer is the GPU index buffer created for this provider, or nil if not initialized with the Renderer.
	indexBuffer Buffer
	// indexCount is the number of indices for draw calls, used by the Renderer to issue drawIndexed calls for this provider.
	indexCount int
}

// BindGroupProvider defines the interface for components that require GPU bind group resources.
// Components (Camera, Light, Model, etc.) hold a BindGroupProvider to describe their GPU binding
// requirements. The Renderer then uses this provider to initialize and update GPU resources.
//
// Usage pattern:
//  1. Component creates a BindGroupProvider with a unique label
//  2. Scene calls Renderer.InitBindGroup(provider, ...) or Renderer.InitMeshBuffers(provider, ...) to create GPU resources
//  3. Scene calls Renderer.WriteBuffers to update uniforms each frame
//  4. Renderer reads BindGroup() and the mesh buffers for draw calls
//  5. Scene calls Release() exactly once during teardown
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider.
	// Every held handle is released once and cleared, so a second call is a no-op.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - BindGroup: the bind group or nil
	BindGroup() BindGroup

	// Buffer returns the uniform buffer at the given binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - Buffer: the buffer or nil
	Buffer(binding int) Buffer

	// Buffers returns the uniform buffers ordered by binding index.
	//
	// Returns:
	//   - []Buffer: the buffers in binding order
	Buffers() []Buffer

	// VertexBuffer returns the GPU vertex buffer, or nil if not initialized.
	//
	// Returns:
	//   - Buffer: the vertex buffer or nil
	VertexBuffer() Buffer

	// IndexBuffer returns the GPU index buffer, or nil if not initialized.
	//
	// Returns:
	//   - Buffer: the index buffer or nil
	IndexBuffer() Buffer

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Live returns the number of GPU handles currently held.
	//
	// Returns:
	//   - int: buffers plus bind groups not yet released
	Live() int

	// SetBindGroup sets the GPU bind group.
	//
	// Parameters:
	//   - bg: the bind group
	SetBindGroup(bg BindGroup)

	// SetBuffer sets the uniform buffer for a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer
	SetBuffer(binding int, buf Buffer)

	// SetVertexBuffer sets the GPU vertex buffer.
	//
	// Parameters:
	//   - buf: the vertex buffer
	SetVertexBuffer(buf Buffer)

	// SetIndexBuffer sets the GPU index buffer.
	//
	// Parameters:
	//   - buf: the index buffer
	SetIndexBuffer(buf Buffer)

	// SetIndexCount sets the number of indices for draw calls.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label, also used as the prefix of every GPU resource label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() []Buffer {
	keys := make([]int, 0, len(p.buffers))
	for k := range p.buffers {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]Buffer, 0, len(keys))
	for _, k := range keys {
		out = append(out, p.buffers[k])
	}
	return out
}

func (p *bindGroupProvider) VertexBuffer() Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) Live() int {
	n := len(p.buffers)
	if p.bindGroup != nil {
		n++
	}
	if p.vertexBuffer != nil {
		n++
	}
	if p.indexBuffer != nil {
		n++
	}
	return n
}

func (p *bindGroupProvider) SetBindGroup(bg BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf Buffer) {
	if p.buffers == nil {
		p.buffers = make(map[int]Buffer)
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetVertexBuffer(buf Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

// Release frees the bind group before the buffers it references.
func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}
