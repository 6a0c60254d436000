package backdrop_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/backdrop"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/config"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/environment/environmenttest"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/frame"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/renderertest"
	"github.com/cogentcore/webgpu/wgpu"
)

var errMountBusy = errors.New("mount busy")

type fakeMount struct {
	w, h     int
	owner    any
	attaches int
	detaches int

	detachErr error
}

func (m *fakeMount) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (m *fakeMount) SurfaceSize() (int, int)                    { return m.w, m.h }

func (m *fakeMount) AttachSurface(owner any) error {
	if m.owner != nil {
		return errMountBusy
	}
	m.owner = owner
	m.attaches++
	return nil
}

func (m *fakeMount) DetachSurface(owner any) error {
	if m.detachErr != nil {
		return m.detachErr
	}
	if m.owner != owner {
		return errors.New("not the surface owner")
	}
	m.owner = nil
	m.detaches++
	return nil
}

type harness struct {
	mount    *fakeMount
	signals  *environmenttest.Signals
	queue    *frame.Queue
	backends []*renderertest.Backend
}

func newHarness(w, h int) *harness {
	return &harness{
		mount:   &fakeMount{w: w, h: h},
		signals: environmenttest.NewSignals(w, h),
		queue:   frame.NewQueue(),
	}
}

func (h *harness) host() backdrop.Host {
	return backdrop.Host{Mount: h.mount, Signals: h.signals, Scheduler: h.queue}
}

func (h *harness) factory(surface renderer.SurfaceSource, _ config.RendererConfig) (renderer.Renderer, error) {
	backend := renderertest.NewBackend()
	h.backends = append(h.backends, backend)
	return renderer.NewRenderer(renderer.BackendTypeWGPU, surface, renderer.WithBackend(backend))
}

func (h *harness) backend() *renderertest.Backend {
	return h.backends[len(h.backends)-1]
}

func (h *harness) run(frames int) {
	for range frames {
		h.queue.RunFrame(time.Now())
	}
}

func TestBackdropScenario(t *testing.T) {
	h := newHarness(1920, 1080)
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))
	if err := b.Activate(h.host()); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	s := b.Scene()
	if s.Particles().Model().InstanceCount() != 2000 || len(s.Solids()) != 3 || len(s.Lights()) != 4 {
		t.Fatalf("scene shape wrong: %d particles, %d solids, %d lights",
			s.Particles().Model().InstanceCount(), len(s.Solids()), len(s.Lights()))
	}
	if h.mount.owner == nil {
		t.Error("surface not attached to the mount")
	}

	// Pointer at normalized (0.5, 0.5).
	h.signals.MovePointer(1440, 270)
	h.run(100)

	if b.Frames() != 100 {
		t.Errorf("Frames() = %d, want 100", b.Frames())
	}
	x, y, _ := s.Camera().Controller().Position()
	if math.Abs(float64(x-1)) > 0.02 || math.Abs(float64(y+1)) > 0.02 {
		t.Errorf("camera = (%v, %v), want near (1, -1)", x, y)
	}
	if h.backend().Counts().Presents != 100 {
		t.Errorf("presents = %d, want 100", h.backend().Counts().Presents)
	}

	if err := b.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	c := h.backend().Counts()
	if c.LiveBuffers() != 0 || c.LiveBindGroups() != 0 || !c.Released {
		t.Errorf("resources after deactivation: %+v", c)
	}
	if n := h.signals.Listeners(); n != 0 {
		t.Errorf("listeners after deactivation = %d, want 0", n)
	}
	if h.queue.Pending() != 0 {
		t.Errorf("pending frames after deactivation = %d, want 0", h.queue.Pending())
	}
	if h.mount.owner != nil {
		t.Error("mount still owned after deactivation")
	}
}

func TestActivationCyclesAreSymmetric(t *testing.T) {
	h := newHarness(640, 480)
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))
	for i := range 4 {
		if err := b.Activate(h.host()); err != nil {
			t.Fatalf("cycle %d Activate: %v", i, err)
		}
		if n := h.signals.Listeners(); n != 3 {
			t.Errorf("cycle %d listeners = %d, want 3", i, n)
		}
		h.run(3)
		if err := b.Deactivate(); err != nil {
			t.Fatalf("cycle %d Deactivate: %v", i, err)
		}
		c := h.backend().Counts()
		if c.LiveBuffers() != 0 || c.LiveBindGroups() != 0 || c.DoubleReleases != 0 || c.UseAfterRelease != 0 {
			t.Errorf("cycle %d counts = %+v", i, c)
		}
		if h.signals.Listeners() != 0 || h.queue.Pending() != 0 {
			t.Errorf("cycle %d left listeners or frames behind", i)
		}
	}
	if h.mount.attaches != 4 || h.mount.detaches != 4 {
		t.Errorf("mount attaches/detaches = %d/%d, want 4/4", h.mount.attaches, h.mount.detaches)
	}
	if err := b.Deactivate(); err != nil {
		t.Errorf("Deactivate while inactive = %v", err)
	}
}

func TestDeactivateStopsTicks(t *testing.T) {
	h := newHarness(100, 100)
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))
	if err := b.Activate(h.host()); err != nil {
		t.Fatal(err)
	}
	h.run(2)
	if err := b.Deactivate(); err != nil {
		t.Fatal(err)
	}
	frames := h.backend().Counts().Frames
	if ran := h.queue.RunFrame(time.Now()); ran != 0 {
		t.Errorf("%d callbacks ran after deactivation", ran)
	}
	if h.backend().Counts().Frames != frames {
		t.Error("a frame was rendered after deactivation")
	}
}

func TestActivateTwice(t *testing.T) {
	h := newHarness(100, 100)
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))
	if err := b.Activate(h.host()); err != nil {
		t.Fatal(err)
	}
	defer b.Deactivate()

	if err := b.Activate(h.host()); !errors.Is(err, backdrop.ErrAlreadyActive) {
		t.Errorf("second Activate = %v, want ErrAlreadyActive", err)
	}
	if len(h.backends) != 1 || h.signals.Listeners() != 3 || h.queue.Pending() != 1 {
		t.Errorf("second Activate allocated: backends=%d listeners=%d pending=%d",
			len(h.backends), h.signals.Listeners(), h.queue.Pending())
	}
}

func TestConstructionFailure(t *testing.T) {
	h := newHarness(100, 100)
	cause := errors.New("no adapter")
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(func(renderer.SurfaceSource, config.RendererConfig) (renderer.Renderer, error) {
		return nil, cause
	}))

	err := b.Activate(h.host())
	if !errors.Is(err, renderer.ErrBackendUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("Activate = %v, want ErrBackendUnavailable wrapping the cause", err)
	}
	if b.Active() {
		t.Error("Active() = true after a failed activation")
	}
	if h.mount.attaches != 0 || h.signals.Listeners() != 0 || h.queue.Pending() != 0 {
		t.Error("failed activation touched the host")
	}
}

func TestInvalidConfigRejectedBeforeRenderer(t *testing.T) {
	h := newHarness(100, 100)
	cfg := config.Default()
	cfg.Lights.Points = cfg.Lights.Points[:2]
	b := backdrop.NewBackdrop(backdrop.WithConfig(cfg), backdrop.WithRendererFactory(h.factory))

	if err := b.Activate(h.host()); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("Activate = %v, want ErrInvalidConfig", err)
	}
	if len(h.backends) != 0 {
		t.Error("renderer was created for an invalid config")
	}
}

func TestMountBusyReleasesResources(t *testing.T) {
	h := newHarness(100, 100)
	h.mount.owner = "someone else"
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))

	if err := b.Activate(h.host()); !errors.Is(err, errMountBusy) {
		t.Fatalf("Activate = %v, want the mount error", err)
	}
	c := h.backend().Counts()
	if c.LiveBuffers() != 0 || c.LiveBindGroups() != 0 || !c.Released {
		t.Errorf("resources after refused mount: %+v", c)
	}
	if h.signals.Listeners() != 0 {
		t.Error("listeners registered after refused mount")
	}
}

func TestRenderFailureStopsLoop(t *testing.T) {
	h := newHarness(100, 100)
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))
	if err := b.Activate(h.host()); err != nil {
		t.Fatal(err)
	}
	h.run(2)
	h.backend().SetFailBegin(renderertest.ErrInjected)
	h.run(3)

	if !errors.Is(b.Err(), renderertest.ErrInjected) {
		t.Errorf("Err() = %v, want the render failure", b.Err())
	}
	if b.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3: the loop must stop on the failing tick", b.Frames())
	}
	if h.queue.Pending() != 0 {
		t.Error("loop still has a frame pending after a render failure")
	}
	if !b.Active() {
		t.Error("backdrop should stay active until Deactivate")
	}
	if err := b.Deactivate(); err != nil {
		t.Fatalf("Deactivate after failure: %v", err)
	}
	if c := h.backend().Counts(); c.LiveBuffers() != 0 || c.LiveBindGroups() != 0 {
		t.Errorf("resources after failure teardown: %+v", c)
	}
}

func TestDeactivateAttemptsEveryStep(t *testing.T) {
	h := newHarness(100, 100)
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))
	if err := b.Activate(h.host()); err != nil {
		t.Fatal(err)
	}
	h.run(2)

	refused := errors.New("detach refused")
	h.mount.detachErr = refused
	if err := b.Deactivate(); !errors.Is(err, refused) {
		t.Fatalf("Deactivate = %v, want the detach error", err)
	}
	c := h.backend().Counts()
	if c.LiveBuffers() != 0 || c.LiveBindGroups() != 0 || !c.Released {
		t.Errorf("resources after failed detach: %+v", c)
	}
	if n := h.signals.Listeners(); n != 0 {
		t.Errorf("listeners after failed detach = %d, want 0", n)
	}
	if h.queue.Pending() != 0 {
		t.Errorf("pending frames after failed detach = %d, want 0", h.queue.Pending())
	}
	if b.Active() {
		t.Error("backdrop still active after Deactivate")
	}
}

func TestResizeFailureStopsLoop(t *testing.T) {
	h := newHarness(800, 600)
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))
	if err := b.Activate(h.host()); err != nil {
		t.Fatal(err)
	}
	h.run(1)

	h.backend().FailConfigure = renderertest.ErrInjected
	h.signals.Resize(1000, 500)

	if !errors.Is(b.Err(), renderertest.ErrInjected) {
		t.Errorf("Err() = %v, want the reconfigure failure", b.Err())
	}
	if h.queue.Pending() != 0 {
		t.Errorf("pending frames after resize failure = %d, want 0", h.queue.Pending())
	}
	h.run(3)
	if b.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1: no tick may run after a resize failure", b.Frames())
	}

	if err := b.Deactivate(); err != nil {
		t.Fatalf("Deactivate after resize failure: %v", err)
	}
	c := h.backend().Counts()
	if c.LiveBuffers() != 0 || c.LiveBindGroups() != 0 || !c.Released {
		t.Errorf("resources after resize-failure teardown: %+v", c)
	}
	if h.signals.Listeners() != 0 || h.mount.owner != nil {
		t.Error("subscriptions or mount left behind after resize-failure teardown")
	}
}

func TestResizeReconfiguresSynchronously(t *testing.T) {
	h := newHarness(800, 600)
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))
	if err := b.Activate(h.host()); err != nil {
		t.Fatal(err)
	}
	defer b.Deactivate()

	h.signals.Resize(0, 0)
	if w, hh := h.backend().Size(); w != 1 || hh != 1 {
		t.Errorf("surface = %dx%d, want 1x1", w, hh)
	}
	if a := b.Scene().Camera().Aspect(); a != 1 {
		t.Errorf("aspect = %v, want 1", a)
	}
	h.signals.Resize(1200, 600)
	if a := b.Scene().Camera().Aspect(); a != 2 {
		t.Errorf("aspect = %v, want 2", a)
	}
	h.run(1)
	if b.Err() != nil {
		t.Errorf("Err() = %v", b.Err())
	}
}

func TestScrollDrivesRootRotation(t *testing.T) {
	h := newHarness(100, 100)
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))
	if err := b.Activate(h.host()); err != nil {
		t.Fatal(err)
	}
	defer b.Deactivate()

	h.signals.Scroll(1000)
	h.run(1)
	if _, ry, _ := b.Scene().Root().Rotation(); math.Abs(float64(ry-0.6)) > 1e-6 {
		t.Errorf("root y rotation = %v, want 0.6", ry)
	}
	h.signals.Scroll(0)
	h.run(1)
	if _, ry, _ := b.Scene().Root().Rotation(); ry != 0 {
		t.Errorf("root y rotation = %v, want 0", ry)
	}
}

func TestElapsedTiming(t *testing.T) {
	h := newHarness(100, 100)
	cfg := config.Default()
	cfg.Timing = config.TimingElapsed
	start := time.Unix(1000, 0)
	b := backdrop.NewBackdrop(
		backdrop.WithConfig(cfg),
		backdrop.WithRendererFactory(h.factory),
		backdrop.WithClock(func() time.Time { return start }),
	)
	if err := b.Activate(h.host()); err != nil {
		t.Fatal(err)
	}
	defer b.Deactivate()

	// Two reference frames of wall time in one tick.
	h.queue.RunFrame(start.Add(time.Second / 30))
	rx, ry, _ := b.Scene().Particles().Rotation()
	if math.Abs(float64(rx-0.001)) > 1e-6 || math.Abs(float64(ry-0.001)) > 1e-6 {
		t.Errorf("particle rotation = (%v, %v), want 0.001 each", rx, ry)
	}

	// A long stall is capped.
	h.queue.RunFrame(start.Add(time.Hour))
	rx, _, _ = b.Scene().Particles().Rotation()
	if want := 0.001 + 0.0005*15; math.Abs(float64(rx)-want) > 1e-5 {
		t.Errorf("rotation after stall = %v, want %v", rx, want)
	}
}

func TestSetConfig(t *testing.T) {
	h := newHarness(100, 100)
	b := backdrop.NewBackdrop(backdrop.WithRendererFactory(h.factory))
	if err := b.Activate(h.host()); err != nil {
		t.Fatal(err)
	}
	if live := b.LiveResources(); live.Buffers == 0 || live.Surfaces != 1 {
		t.Errorf("LiveResources() = %v while active", live)
	}

	cfg := config.Default()
	cfg.Particles.Count = 10
	if err := b.SetConfig(cfg); !errors.Is(err, backdrop.ErrAlreadyActive) {
		t.Errorf("SetConfig while active = %v, want ErrAlreadyActive", err)
	}
	if err := b.Deactivate(); err != nil {
		t.Fatal(err)
	}
	if live := b.LiveResources(); live.Total() != 0 {
		t.Errorf("LiveResources() = %v while inactive", live)
	}

	bad := config.Default()
	bad.Camera.Smoothing = 0
	if err := b.SetConfig(bad); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("SetConfig(invalid) = %v", err)
	}
	if err := b.SetConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := b.Activate(h.host()); err != nil {
		t.Fatal(err)
	}
	defer b.Deactivate()
	if n := b.Scene().Particles().Model().InstanceCount(); n != 10 {
		t.Errorf("particles after SetConfig = %d, want 10", n)
	}
}
