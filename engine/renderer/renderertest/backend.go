// Package renderertest provides a recording RendererBackend for tests that exercise
// the renderer without a GPU.
package renderertest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrInjected is the default error returned by the Fail* hooks.
var ErrInjected = errors.New("renderertest: injected failure")

// Draw records one DrawCall.
type Draw struct {
	Pipeline   string
	Mesh       string
	Instances  uint32
	IndexCount int
	BindGroups []string
}

// Counts are the running totals recorded by a Backend.
type Counts struct {
	BuffersCreated     int
	BuffersReleased    int
	BindGroupsCreated  int
	BindGroupsReleased int
	Pipelines          int
	Configures         int
	Frames             int
	Presents           int
	Writes             int
	DoubleReleases     int
	UseAfterRelease    int
	Released           bool
}

// LiveBuffers returns created minus released buffers.
func (c Counts) LiveBuffers() int { return c.BuffersCreated - c.BuffersReleased }

// LiveBindGroups returns created minus released bind groups.
func (c Counts) LiveBindGroups() int { return c.BindGroupsCreated - c.BindGroupsReleased }

// Backend is a renderer.RendererBackend that allocates nothing and records every call.
// The exported Fail fields make the matching call return an error once they are set.
type Backend struct {
	mu *sync.Mutex

	FailConfigure error
	FailBegin     error
	FailDraw      error
	FailEnd       error

	counts      Counts
	draws       []Draw
	frameDraws  []Draw
	width       int
	height      int
	presentMode renderer.PresentMode
	inFrame     bool
}

var _ renderer.RendererBackend = &Backend{}

// NewBackend returns an empty recording backend.
func NewBackend() *Backend {
	return &Backend{mu: &sync.Mutex{}}
}

// Counts returns a snapshot of the recorded totals.
func (b *Backend) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// LastFrame returns the draws recorded by the most recently completed frame.
func (b *Backend) LastFrame() []Draw {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Draw(nil), b.frameDraws...)
}

// Size returns the last configured surface size.
func (b *Backend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// PresentMode returns the last present mode set.
func (b *Backend) PresentMode() renderer.PresentMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presentMode
}

// SetFailBegin sets FailBegin under the backend's lock so it can race with a running loop.
func (b *Backend) SetFailBegin(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.FailBegin = err
}

func (b *Backend) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailConfigure != nil {
		return b.FailConfigure
	}
	if width < 1 || height < 1 {
		return fmt.Errorf("renderertest: invalid surface size %dx%d", width, height)
	}
	b.width, b.height = width, height
	b.counts.Configures++
	return nil
}

func (b *Backend) SetPresentMode(mode renderer.PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *Backend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts.Pipelines++
	return nil
}

func (b *Backend) CreateBuffer(label string, kind renderer.BufferKind, size uint64, data []byte) (bind_group_provider.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if uint64(len(data)) > size {
		return nil, fmt.Errorf("renderertest: %d bytes do not fit %q (%d)", len(data), label, size)
	}
	b.counts.BuffersCreated++
	return &buffer{owner: b, label: label, kind: kind, size: size}, nil
}

func (b *Backend) CreateBindGroup(label string, layout wgpu.BindGroupLayoutDescriptor, buffers []bind_group_provider.Buffer) (bind_group_provider.BindGroup, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(buffers) != len(layout.Entries) {
		return nil, fmt.Errorf("renderertest: %q has %d buffers for %d entries", label, len(buffers), len(layout.Entries))
	}
	for _, handle := range buffers {
		if !b.liveLocked(handle) {
			return nil, fmt.Errorf("renderertest: %q binds a dead buffer", label)
		}
	}
	b.counts.BindGroupsCreated++
	return &bindGroup{owner: b, label: label}, nil
}

func (b *Backend) WriteBuffer(handle bind_group_provider.Buffer, offset uint64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.liveLocked(handle) {
		return fmt.Errorf("renderertest: write to released buffer %q", handle.Label())
	}
	if offset+uint64(len(data)) > handle.Size() {
		return fmt.Errorf("renderertest: write of %d bytes at %d overflows %q", len(data), offset, handle.Label())
	}
	b.counts.Writes++
	return nil
}

func (b *Backend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailBegin != nil {
		return b.FailBegin
	}
	if b.inFrame {
		return errors.New("renderertest: frame already open")
	}
	b.inFrame = true
	b.draws = b.draws[:0]
	return nil
}

func (b *Backend) DrawCall(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailDraw != nil {
		return b.FailDraw
	}
	if !b.inFrame {
		return errors.New("renderertest: draw outside frame")
	}
	if !b.liveLocked(mesh.VertexBuffer()) || !b.liveLocked(mesh.IndexBuffer()) {
		return fmt.Errorf("renderertest: mesh %q is not uploaded", mesh.Label())
	}
	d := Draw{
		Pipeline:   p.PipelineKey(),
		Mesh:       mesh.Label(),
		Instances:  instanceCount,
		IndexCount: mesh.IndexCount(),
	}
	for _, g := range bindGroups {
		bg, ok := renderer.UnwrapBindGroup(g.BindGroup()).(*bindGroup)
		if !ok || bg.released {
			b.counts.UseAfterRelease++
			return fmt.Errorf("renderertest: bind group of %q is not live", g.Label())
		}
		d.BindGroups = append(d.BindGroups, g.Label())
	}
	b.draws = append(b.draws, d)
	return nil
}

func (b *Backend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inFrame {
		return errors.New("renderertest: end without begin")
	}
	b.inFrame = false
	if b.FailEnd != nil {
		return b.FailEnd
	}
	b.frameDraws = append(b.frameDraws[:0], b.draws...)
	b.counts.Frames++
	return nil
}

func (b *Backend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts.Presents++
}

func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.counts.Released {
		b.counts.DoubleReleases++
		return
	}
	b.counts.Released = true
}

// liveLocked reports whether handle is an unreleased buffer of this backend.
func (b *Backend) liveLocked(handle bind_group_provider.Buffer) bool {
	if handle == nil {
		return false
	}
	buf, ok := renderer.UnwrapBuffer(handle).(*buffer)
	if !ok || buf.owner != b {
		return false
	}
	if buf.released {
		b.counts.UseAfterRelease++
		return false
	}
	return true
}

type buffer struct {
	owner    *Backend
	label    string
	kind     renderer.BufferKind
	size     uint64
	released bool
}

func (f *buffer) Label() string { return f.label }
func (f *buffer) Size() uint64  { return f.size }

func (f *buffer) Release() {
	f.owner.mu.Lock()
	defer f.owner.mu.Unlock()
	if f.released {
		f.owner.counts.DoubleReleases++
		return
	}
	f.released = true
	f.owner.counts.BuffersReleased++
}

type bindGroup struct {
	owner    *Backend
	label    string
	released bool
}

func (f *bindGroup) Label() string { return f.label }

func (f *bindGroup) Release() {
	f.owner.mu.Lock()
	defer f.owner.mu.Unlock()
	if f.released {
		f.owner.counts.DoubleReleases++
		return
	}
	f.released = true
	f.owner.counts.BindGroupsReleased++
}
