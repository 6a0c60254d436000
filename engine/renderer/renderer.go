package renderer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrBackendUnavailable is returned when no GPU backend could be acquired for the surface.
	ErrBackendUnavailable = errors.New("renderer: backend unavailable")
	// ErrReleased is returned by operations on a Renderer after Release.
	ErrReleased = errors.New("renderer: released")
	// ErrLeakedResources is returned by Release when buffers or bind groups are still live.
	ErrLeakedResources = errors.New("renderer: resources still live at release")
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	ledger      *ledger
	released    bool

	width, height int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	injectedBackend      RendererBackend
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of pipelines and counts every GPU resource created through it, so
// callers can verify that teardown released everything that setup allocated.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the corresponding GPU
	// pipeline objects via the backend, then caching them by PipelineKey.
	// Pipelines whose keys are already registered are skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new size in device pixels.
	// Zero or negative dimensions are clamped to 1.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// Size returns the current surface size in device pixels.
	Size() (width, height int)

	// SetPresentMode sets the surface present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex (or per-instance) data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates one uniform buffer per layout entry, sized by MinBindingSize, and a
	// bind group over them, storing everything on the given BindGroupProvider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	//
	// Returns:
	//   - error: the first write error encountered
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame after all DrawCall invocations within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall encodes a single instanced draw command within the current render pass.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: BindGroupProviders whose BindGroups are set at group 0, 1, ...
	//
	// Returns:
	//   - error: an error if the pipeline is not found or encoding fails
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// LiveResources returns the number of GPU resources created through this renderer and not yet released.
	//
	// Returns:
	//   - ResourceStats: the live resource counts
	LiveResources() ResourceStats

	// Release frees the pipelines, the surface and the device. Buffers and bind groups must be
	// released through their providers first; any still live are reported with ErrLeakedResources.
	//
	// Returns:
	//   - error: ErrLeakedResources if providers were not released, nil otherwise
	Release() error
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given surface and configures the surface at its current size.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the platform surface source, typically the host window
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: ErrBackendUnavailable wrapped with the cause when no backend could be acquired
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		ledger:        newLedger(),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	if r.injectedBackend != nil {
		r.backend = r.injectedBackend
	} else {
		if surface == nil {
			return nil, fmt.Errorf("%w: no surface", ErrBackendUnavailable)
		}
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
			}
			r.backend = b
		}
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	width, height := 1, 1
	if surface != nil {
		width, height = surface.SurfaceSize()
	}
	if err := r.configure(width, height); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	r.ledger.update(func(s *ResourceStats) { s.Surfaces++ })
	return r, nil
}

func (r *renderer) configure(width, height int) error {
	width, height = max(width, 1), max(height, 1)
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return err
	}
	r.width, r.height = width, height
	return nil
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	return r.configure(width, height)
}

func (r *renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		r.ledger.update(func(s *ResourceStats) { s.Pipelines++ })
	}
	return nil
}

func (r *renderer) createBuffer(label string, kind BufferKind, size uint64, data []byte) (bind_group_provider.Buffer, error) {
	buf, err := r.backend.CreateBuffer(label, kind, size, data)
	if err != nil {
		return nil, fmt.Errorf("create %s buffer %q: %w", kind, label, err)
	}
	r.ledger.update(func(s *ResourceStats) { s.Buffers++ })
	return &trackedBuffer{inner: buf, ledger: r.ledger}, nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}

	if len(vertexData) > 0 {
		buf, err := r.createBuffer(provider.Label()+" Vertex Buffer", BufferKindVertex, uint64(len(vertexData)), vertexData)
		if err != nil {
			return err
		}
		provider.SetVertexBuffer(buf)
	}

	if len(indexData) > 0 {
		buf, err := r.createBuffer(provider.Label()+" Index Buffer", BufferKindIndex, uint64(len(indexData)), indexData)
		if err != nil {
			return err
		}
		provider.SetIndexBuffer(buf)
	}

	provider.SetIndexCount(indexCount)
	return nil
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}

	buffers := make([]bind_group_provider.Buffer, 0, len(descriptor.Entries))
	for _, entry := range descriptor.Entries {
		size := entry.Buffer.MinBindingSize
		label := fmt.Sprintf("%s Uniform %d", provider.Label(), entry.Binding)
		buf, err := r.createBuffer(label, BufferKindUniform, size, nil)
		if err != nil {
			return err
		}
		provider.SetBuffer(int(entry.Binding), buf)
		buffers = append(buffers, buf)
	}

	bg, err := r.backend.CreateBindGroup(provider.Label()+" Bind Group", descriptor, buffers)
	if err != nil {
		return fmt.Errorf("create bind group %q: %w", provider.Label(), err)
	}
	r.ledger.update(func(s *ResourceStats) { s.BindGroups++ })
	provider.SetBindGroup(&trackedBindGroup{inner: bg, ledger: r.ledger})
	return nil
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		if err := r.backend.WriteBuffer(buf, w.Offset, w.Data); err != nil {
			return fmt.Errorf("write %q binding %d: %w", w.Provider.Label(), w.Binding, err)
		}
	}
	return nil
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	return r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) LiveResources() ResourceStats {
	return r.ledger.snapshot()
}

func (r *renderer) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil
	}
	r.released = true

	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
		r.ledger.update(func(s *ResourceStats) { s.Pipelines-- })
	}
	r.backend.Release()
	r.ledger.update(func(s *ResourceStats) { s.Surfaces-- })

	if live := r.ledger.snapshot(); live.Total() != 0 {
		log.Printf("[renderer] released with live resources: %s", live)
		return fmt.Errorf("%w: %s", ErrLeakedResources, live)
	}
	return nil
}
