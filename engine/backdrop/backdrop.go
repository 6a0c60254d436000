// Package backdrop is the animated 3D backdrop component: it owns one Scene per activation,
// drives it from the host's frame scheduler and tears every resource down on deactivation.
package backdrop

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/config"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/environment"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/frame"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
)

var (
	// ErrAlreadyActive is returned by Activate while a previous activation is still live.
	ErrAlreadyActive = errors.New("backdrop: already active")
	// ErrInvalidHost is returned by Activate when a Host field is missing.
	ErrInvalidHost = errors.New("backdrop: host is incomplete")
)

// maxElapsedStep caps the elapsed-time step after a stall (a hidden window, a debugger pause).
const maxElapsedStep = 250 * time.Millisecond

// Mount is the host element the backdrop draws into. It accepts exactly one surface owner.
type Mount interface {
	renderer.SurfaceSource

	// AttachSurface makes owner the mount's surface owner.
	AttachSurface(owner any) error

	// DetachSurface releases the mount if owner currently holds it.
	DetachSurface(owner any) error
}

// Host bundles what an activation needs from its environment.
type Host struct {
	Mount     Mount
	Signals   environment.Signals
	Scheduler frame.Scheduler
}

// RendererFactory creates the Renderer for one activation.
type RendererFactory func(surface renderer.SurfaceSource, cfg config.RendererConfig) (renderer.Renderer, error)

// Backdrop defines the interface for the backdrop component lifecycle.
//
// Activate acquires the renderer, builds the Scene, attaches the surface to the mount,
// subscribes to the host signals and starts the Frame Driver. Deactivate undoes every one of
// those steps. Between the two, the backdrop is a pure observer of input events.
type Backdrop interface {
	// Activate starts a new activation on host.
	//
	// Parameters:
	//   - host: the mount, signals and scheduler to use
	//
	// Returns:
	//   - error: ErrAlreadyActive, ErrInvalidHost, config.ErrInvalidConfig, or a construction
	//     error wrapping renderer.ErrBackendUnavailable
	Activate(host Host) error

	// Deactivate stops the Frame Driver, cancels every subscription, releases every GPU
	// resource and detaches the surface. Every step is attempted even if an earlier one
	// fails. Calling Deactivate while inactive is a no-op.
	//
	// Returns:
	//   - error: the joined teardown errors, or nil
	Deactivate() error

	// Active reports whether an activation is live.
	Active() bool

	// Scene returns the live Scene, or nil while inactive.
	Scene() scene.Scene

	// Sample returns the latest environment sample of the live activation.
	Sample() environment.Sample

	// Frames returns the number of ticks the current activation has run.
	Frames() uint64

	// Err returns the terminal error that stopped the Frame Driver of the current activation.
	Err() error

	// LiveResources returns the GPU resources held by the current activation.
	//
	// Returns:
	//   - renderer.ResourceStats: the live counts, zero while inactive
	LiveResources() renderer.ResourceStats

	// SetConfig replaces the configuration used by the next activation.
	//
	// Parameters:
	//   - cfg: the new configuration
	//
	// Returns:
	//   - error: ErrAlreadyActive while active, or the validation error
	SetConfig(cfg config.Config) error
}

// activation is everything one Activate call allocated.
type activation struct {
	host    Host
	r       renderer.Renderer
	scene   scene.Scene
	sampler environment.Sampler
	loop    *frame.Loop

	start time.Time
	last  time.Time
}

type backdrop struct {
	mu *sync.Mutex

	cfg          config.Config
	newRenderer  RendererFactory
	now          func() time.Time
	sceneOptions []scene.SceneBuilderOption

	current *activation
	err     error
}

var _ Backdrop = &backdrop{}

// NewBackdrop creates an inactive Backdrop.
//
// Parameters:
//   - options: functional options to configure the backdrop
//
// Returns:
//   - Backdrop: the new backdrop
func NewBackdrop(options ...BackdropBuilderOption) Backdrop {
	b := &backdrop{
		mu:          &sync.Mutex{},
		cfg:         config.Default(),
		newRenderer: NewWGPURenderer,
		now:         time.Now,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// NewWGPURenderer is the default RendererFactory: a WebGPU renderer configured from cfg.
//
// Parameters:
//   - surface: the surface to draw into
//   - cfg: MSAA, present mode and software fallback settings
//
// Returns:
//   - renderer.Renderer: the renderer
//   - error: a wrapped renderer.ErrBackendUnavailable on failure
func NewWGPURenderer(surface renderer.SurfaceSource, cfg config.RendererConfig) (renderer.Renderer, error) {
	return renderer.NewRenderer(renderer.BackendTypeWGPU, surface,
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.MSAA)),
		renderer.WithPresentMode(renderer.ParsePresentMode(cfg.PresentMode)),
		renderer.WithForceSoftwareRenderer(cfg.Software),
	)
}

func (b *backdrop) Activate(host Host) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil {
		return ErrAlreadyActive
	}
	if host.Mount == nil || host.Signals == nil || host.Scheduler == nil {
		return ErrInvalidHost
	}

	a, err := b.construct(host)
	if err != nil {
		log.Printf("[backdrop] activation failed: %v", err)
		return err
	}

	b.err = nil
	b.current = a
	a.start = b.now()
	a.last = a.start
	a.loop = frame.Start(host.Scheduler, func(now time.Time) error {
		return b.tick(a, now)
	}, b.stopped)
	log.Printf("[backdrop] activated %q", a.scene.Name())
	return nil
}

// construct acquires the renderer, builds the scene, claims the mount and subscribes to the
// host signals, unwinding whatever succeeded when a later step fails.
func (b *backdrop) construct(host Host) (*activation, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	r, err := b.newRenderer(host.Mount, b.cfg.Renderer)
	if err != nil {
		if !errors.Is(err, renderer.ErrBackendUnavailable) {
			err = fmt.Errorf("%w: %w", renderer.ErrBackendUnavailable, err)
		}
		return nil, err
	}

	w, h := host.Signals.Size()
	viewport := common.Viewport{Width: w, Height: h, PixelRatio: host.Signals.PixelRatio()}
	s, err := scene.Build(r, b.cfg, viewport, b.sceneOptions...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: build scene: %w", renderer.ErrBackendUnavailable, err), r.Release())
	}

	if err := host.Mount.AttachSurface(b); err != nil {
		return nil, errors.Join(err, s.Release(), r.Release())
	}

	a := &activation{host: host, r: r, scene: s}
	a.sampler = environment.NewSampler(environment.WithReferenceDistance(b.cfg.Scroll.ReferenceDistance))
	if err := a.sampler.Attach(host.Signals, func(v common.Viewport) { b.resized(a, v) }); err != nil {
		return nil, errors.Join(err, s.Release(), r.Release(), host.Mount.DetachSurface(b))
	}
	return a, nil
}

// tick is one Frame Driver step: sample, advance, render.
func (b *backdrop) tick(a *activation, now time.Time) error {
	step := float32(1)
	if b.cfg.Timing == config.TimingElapsed {
		dt := min(max(now.Sub(a.last), 0), maxElapsedStep)
		step = float32(dt.Seconds() * b.cfg.ReferenceHz)
	}
	a.last = now

	smp := a.sampler.Sample()
	a.scene.Advance(scene.Input{
		Elapsed:      max(now.Sub(a.start), 0),
		Step:         step,
		PointerX:     smp.PointerX,
		PointerY:     smp.PointerY,
		ScrollFactor: smp.ScrollFactor,
	})
	return a.scene.Render()
}

// resized runs synchronously inside the host's resize event.
func (b *backdrop) resized(a *activation, v common.Viewport) {
	if a.scene.Released() {
		return
	}
	if err := a.scene.Resize(v); err != nil && a.loop != nil {
		a.loop.Fail(err)
	}
}

// stopped is the Loop's onStop hook; a nil error means the loop was cancelled.
func (b *backdrop) stopped(err error) {
	if err == nil {
		return
	}
	log.Printf("[backdrop] frame driver stopped: %v", err)
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
}

func (b *backdrop) Deactivate() error {
	b.mu.Lock()
	a := b.current
	b.current = nil
	b.mu.Unlock()
	if a == nil {
		return nil
	}

	a.loop.Cancel()
	a.sampler.Detach()
	err := errors.Join(
		a.scene.Release(),
		a.r.Release(),
		a.host.Mount.DetachSurface(b),
	)
	if err != nil {
		log.Printf("[backdrop] deactivation: %v", err)
	} else {
		log.Printf("[backdrop] deactivated after %d frames", a.loop.Frames())
	}
	return err
}

func (b *backdrop) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current != nil
}

func (b *backdrop) Scene() scene.Scene {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	return b.current.scene
}

func (b *backdrop) Sample() environment.Sample {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return environment.Sample{}
	}
	return b.current.sampler.Sample()
}

func (b *backdrop) Frames() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil || b.current.loop == nil {
		return 0
	}
	return b.current.loop.Frames()
}

func (b *backdrop) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *backdrop) LiveResources() renderer.ResourceStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return renderer.ResourceStats{}
	}
	return b.current.r.LiveResources()
}

func (b *backdrop) SetConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil {
		return ErrAlreadyActive
	}
	b.cfg = cfg
	return nil
}
