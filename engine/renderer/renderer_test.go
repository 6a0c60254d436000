package renderer_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type fixedSurface struct{ w, h int }

func (s fixedSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (s fixedSurface) SurfaceSize() (int, int)                    { return s.w, s.h }

func newTestRenderer(t *testing.T, w, h int) (renderer.Renderer, *renderertest.Backend) {
	t.Helper()
	backend := renderertest.NewBackend()
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, fixedSurface{w, h}, renderer.WithBackend(backend))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r, backend
}

func TestNewRendererConfiguresSurface(t *testing.T) {
	r, backend := newTestRenderer(t, 0, 720)
	if w, h := r.Size(); w != 1 || h != 720 {
		t.Errorf("Size() = %dx%d, want 1x720", w, h)
	}
	if w, h := backend.Size(); w != 1 || h != 720 {
		t.Errorf("backend configured at %dx%d, want 1x720", w, h)
	}
	if got := r.LiveResources().Surfaces; got != 1 {
		t.Errorf("live surfaces = %d, want 1", got)
	}
	if err := r.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !backend.Counts().Released {
		t.Error("backend was not released")
	}
}

func TestNewRendererWithoutSurface(t *testing.T) {
	_, err := renderer.NewRenderer(renderer.BackendTypeWGPU, nil)
	if !errors.Is(err, renderer.ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestNewRendererConfigureFailure(t *testing.T) {
	backend := renderertest.NewBackend()
	backend.FailConfigure = renderertest.ErrInjected
	_, err := renderer.NewRenderer(renderer.BackendTypeWGPU, fixedSurface{10, 10}, renderer.WithBackend(backend))
	if !errors.Is(err, renderer.ErrBackendUnavailable) || !errors.Is(err, renderertest.ErrInjected) {
		t.Fatalf("err = %v, want ErrBackendUnavailable wrapping the cause", err)
	}
	if !backend.Counts().Released {
		t.Error("backend should be released after a failed construction")
	}
}

func TestPresentModeOption(t *testing.T) {
	backend := renderertest.NewBackend()
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, fixedSurface{4, 4},
		renderer.WithBackend(backend), renderer.WithPresentMode(renderer.PresentModeUncapped))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Release()
	if backend.PresentMode() != renderer.PresentModeUncapped {
		t.Errorf("present mode = %v, want uncapped", backend.PresentMode())
	}
	if renderer.ParsePresentMode("uncapped") != renderer.PresentModeUncapped || renderer.ParsePresentMode("bogus") != renderer.PresentModeVSync {
		t.Error("ParsePresentMode mapping is wrong")
	}
}

func TestResourceLedger(t *testing.T) {
	r, backend := newTestRenderer(t, 800, 600)

	if err := r.RegisterPipelines(pipeline.NewParticlePipeline(), pipeline.NewWireframePipeline(), pipeline.NewParticlePipeline()); err != nil {
		t.Fatal(err)
	}
	if got := backend.Counts().Pipelines; got != 2 {
		t.Errorf("registered pipelines = %d, want 2 (duplicates skipped)", got)
	}

	frame := bind_group_provider.NewBindGroupProvider("frame")
	if err := r.InitBindGroup(frame, shader.FrameLayout()); err != nil {
		t.Fatal(err)
	}
	mesh := bind_group_provider.NewBindGroupProvider("mesh")
	if err := r.InitMeshBuffers(mesh, make([]byte, 48), make([]byte, 24), 6); err != nil {
		t.Fatal(err)
	}

	live := r.LiveResources()
	want := renderer.ResourceStats{Buffers: 4, BindGroups: 1, Pipelines: 2, Surfaces: 1}
	if live != want {
		t.Errorf("LiveResources() = %s, want %s", live, want)
	}

	err := r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: frame, Binding: 0, Data: make([]byte, shader.CameraUniformSize)},
		{Provider: frame, Binding: 1, Data: make([]byte, shader.LightsUniformSize)},
	})
	if err != nil {
		t.Fatalf("WriteBuffers: %v", err)
	}

	if err := r.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawCall(pipeline.KeyParticles, mesh, 10, []bind_group_provider.BindGroupProvider{frame}); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawCall("missing", mesh, 1, nil); err == nil {
		t.Error("draw with an unknown pipeline should fail")
	}
	if err := r.EndFrame(); err != nil {
		t.Fatal(err)
	}
	r.Present()
	draws := backend.LastFrame()
	if len(draws) != 1 || draws[0].Instances != 10 || draws[0].IndexCount != 6 {
		t.Errorf("LastFrame() = %+v", draws)
	}

	frame.Release()
	mesh.Release()
	mesh.Release()
	if err := r.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	c := backend.Counts()
	if c.LiveBuffers() != 0 || c.LiveBindGroups() != 0 || c.DoubleReleases != 0 {
		t.Errorf("backend counts after teardown = %+v", c)
	}
	if total := r.LiveResources().Total(); total != 0 {
		t.Errorf("live resources after release = %d", total)
	}
}

func TestReleaseReportsLeaks(t *testing.T) {
	r, _ := newTestRenderer(t, 10, 10)
	leaked := bind_group_provider.NewBindGroupProvider("leaked")
	if err := r.InitBindGroup(leaked, shader.ObjectLayout()); err != nil {
		t.Fatal(err)
	}
	if err := r.Release(); !errors.Is(err, renderer.ErrLeakedResources) {
		t.Fatalf("Release() = %v, want ErrLeakedResources", err)
	}
	if err := r.Resize(5, 5); !errors.Is(err, renderer.ErrReleased) {
		t.Errorf("Resize after release = %v, want ErrReleased", err)
	}
	leaked.Release()
}

func TestResizeClampsZero(t *testing.T) {
	r, backend := newTestRenderer(t, 1920, 1080)
	defer r.Release()
	if err := r.Resize(0, 0); err != nil {
		t.Fatalf("Resize(0,0): %v", err)
	}
	if w, h := backend.Size(); w != 1 || h != 1 {
		t.Errorf("backend size = %dx%d, want 1x1", w, h)
	}
	if err := r.Resize(1280, 720); err != nil {
		t.Fatal(err)
	}
	if w, h := r.Size(); w != 1280 || h != 720 {
		t.Errorf("Size() = %dx%d", w, h)
	}
}
