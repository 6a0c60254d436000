package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/backdrop"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/config"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/environment/environmenttest"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeWindow runs a scripted message loop; onIteration is called before each update.
type fakeWindow struct {
	*environmenttest.Signals

	running     bool
	closed      bool
	owner       any
	iterations  int
	onUpdate    func()
	onIteration func(i int)
}

var _ window.Window = &fakeWindow{}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{Signals: environmenttest.NewSignals(320, 240), running: true}
}

func (w *fakeWindow) SetUpdateCallback(cb func())                { w.onUpdate = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) SurfaceSize() (int, int)                    { return w.Size() }
func (w *fakeWindow) IsRunning() bool                            { return w.running }
func (w *fakeWindow) RequestClose()                              { w.running = false }

func (w *fakeWindow) Close() error {
	w.running, w.closed = false, true
	return nil
}

func (w *fakeWindow) AttachSurface(owner any) error {
	if w.owner != nil {
		return window.ErrMountBusy
	}
	w.owner = owner
	return nil
}

func (w *fakeWindow) DetachSurface(owner any) error {
	if w.owner != owner {
		return window.ErrNotOwner
	}
	w.owner = nil
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for w.running {
		w.iterations++
		if w.onIteration != nil {
			w.onIteration(w.iterations)
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		if w.iterations > 1000 {
			return
		}
	}
}

type recordingFactory struct {
	backends []*renderertest.Backend
}

func (f *recordingFactory) create(surface renderer.SurfaceSource, _ config.RendererConfig) (renderer.Renderer, error) {
	b := renderertest.NewBackend()
	f.backends = append(f.backends, b)
	return renderer.NewRenderer(renderer.BackendTypeWGPU, surface, renderer.WithBackend(b))
}

func TestRunDrivesBackdropAndReloads(t *testing.T) {
	win := newFakeWindow()
	factory := &recordingFactory{}
	e, err := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithBackdrop(backdrop.NewBackdrop(backdrop.WithRendererFactory(factory.create))),
		engine.WithProfiling(true),
	)
	if err != nil {
		t.Fatal(err)
	}

	reloaded := config.Default()
	reloaded.Particles.Count = 10
	var particlesAfterReload int
	win.onIteration = func(i int) {
		switch i {
		case 3:
			e.RequestReload(config.Default())
			e.RequestReload(reloaded) // replaces the pending request
		case 8:
			particlesAfterReload = e.Backdrop().Scene().Particles().Model().InstanceCount()
		case 10:
			e.Quit()
			e.Quit()
		}
	}

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if win.iterations != 10 {
		t.Errorf("iterations = %d, want 10", win.iterations)
	}
	if len(factory.backends) != 2 {
		t.Fatalf("activations = %d, want 2", len(factory.backends))
	}
	if particlesAfterReload != 10 {
		t.Errorf("particles after reload = %d, want 10", particlesAfterReload)
	}
	for i, b := range factory.backends {
		c := b.Counts()
		if c.Frames == 0 {
			t.Errorf("activation %d rendered no frames", i)
		}
		if c.LiveBuffers() != 0 || c.LiveBindGroups() != 0 || !c.Released {
			t.Errorf("activation %d leaked: %+v", i, c)
		}
	}
	if e.Backdrop().Active() || win.Listeners() != 0 || win.owner != nil {
		t.Error("Run returned with the backdrop still attached")
	}
}

func TestRunWithoutBackdrop(t *testing.T) {
	win := newFakeWindow()
	cause := errors.New("no adapter")
	e, err := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithBackdrop(backdrop.NewBackdrop(backdrop.WithRendererFactory(
			func(renderer.SurfaceSource, config.RendererConfig) (renderer.Renderer, error) { return nil, cause },
		))),
	)
	if err != nil {
		t.Fatal(err)
	}
	win.onIteration = func(i int) {
		if i == 3 {
			e.Quit()
		}
	}

	err = e.Run()
	if !errors.Is(err, renderer.ErrBackendUnavailable) || !errors.Is(err, cause) {
		t.Errorf("Run = %v, want the activation error", err)
	}
	if win.iterations != 3 {
		t.Errorf("the window loop should keep running without a backdrop, ran %d iterations", win.iterations)
	}
	if win.owner != nil || win.Listeners() != 0 {
		t.Error("failed activation touched the window")
	}
}

func TestProfilerReportsLiveResources(t *testing.T) {
	win := newFakeWindow()
	factory := &recordingFactory{}
	bd := backdrop.NewBackdrop(backdrop.WithRendererFactory(factory.create))

	// Every clock read is a second later, so every profiled frame produces a report.
	now := time.Unix(0, 0)
	prof := profiler.NewProfiler(
		profiler.WithClock(func() time.Time { now = now.Add(time.Second); return now }),
		profiler.WithResources(bd.LiveResources),
	)
	e, err := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithBackdrop(bd),
		engine.WithProfiler(prof),
		engine.WithProfiling(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	win.onIteration = func(i int) {
		if i == 5 {
			e.Quit()
		}
	}
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := prof.Last()
	if got.FPS <= 0 {
		t.Errorf("FPS = %v, want > 0", got.FPS)
	}
	if got.Resources.Pipelines != 2 || got.Resources.Buffers == 0 || got.Resources.BindGroups == 0 {
		t.Errorf("profiled resources = %+v, want the live scene's buffers, bind groups and 2 pipelines", got.Resources)
	}
	if bd.LiveResources() != (renderer.ResourceStats{}) {
		t.Errorf("LiveResources after Run = %+v, want zero", bd.LiveResources())
	}
}
