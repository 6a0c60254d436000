package engine

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/backdrop"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/config"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/frame"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
)

// idleSleep paces the message loop while no frame callback is pending.
const idleSleep = 10 * time.Millisecond

// engine implements the Engine interface.
// Everything runs on the thread that called Run: window events, frame callbacks and reloads.
type engine struct {
	window   window.Window
	queue    *frame.Queue
	backdrop backdrop.Backdrop

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	// reloadChannel holds at most one pending configuration; newer requests replace it.
	reloadChannel chan config.Config

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = paced by present mode only
	lastFrame        time.Time

	activationErr error
}

// Engine is the main entry point: it hosts the backdrop in a window and drives its frame
// scheduler from the window's message loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Backdrop returns the hosted backdrop.
	//
	// Returns:
	//   - backdrop.Backdrop: the backdrop
	Backdrop() backdrop.Backdrop

	// Host returns the mount, signals and scheduler the backdrop is activated on.
	//
	// Returns:
	//   - backdrop.Host: the host
	Host() backdrop.Host

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second on top of the
	// present mode's pacing. Pass 0 to remove the cap.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// RequestReload schedules a deactivate and re-activate with cfg on the loop thread.
	// Safe to call from any goroutine; a newer request replaces one still pending.
	//
	// Parameters:
	//   - cfg: the configuration to activate with
	RequestReload(cfg config.Config)

	// Run activates the backdrop and runs the message loop until the window closes or Quit
	// is called, then deactivates. A failed activation is logged and the window keeps
	// running without a backdrop.
	//
	// Returns:
	//   - error: the activation error, if any, joined with any teardown error
	Run() error

	// Quit stops the message loop. Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// A window is created when none is supplied with WithWindow.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the default window could not be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		queue:         frame.NewQueue(),
		quitChannel:   make(chan struct{}),
		reloadChannel: make(chan config.Config, 1),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		w, err := window.NewWindow()
		if err != nil {
			return nil, err
		}
		e.window = w
	}
	if e.backdrop == nil {
		e.backdrop = backdrop.NewBackdrop()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithResources(e.backdrop.LiveResources))
	}
	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Backdrop() backdrop.Backdrop {
	return e.backdrop
}

func (e *engine) Host() backdrop.Host {
	return backdrop.Host{Mount: e.window, Signals: e.window, Scheduler: e.queue}
}

func (e *engine) Run() error {
	if err := e.backdrop.Activate(e.Host()); err != nil {
		log.Printf("[engine] running without backdrop: %v", err)
		e.activationErr = err
	}

	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(e.update)
	e.window.ProcessMessages()
	e.window.SetUpdateCallback(nil)

	return errors.Join(e.activationErr, e.backdrop.Deactivate())
}

// Quit signals the message loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) RequestReload(cfg config.Config) {
	for {
		select {
		case e.reloadChannel <- cfg:
			return
		default:
		}
		// Drop the stale pending request and retry.
		select {
		case <-e.reloadChannel:
		default:
		}
	}
}

// update runs once per message loop iteration.
func (e *engine) update() {
	select {
	case <-e.quitChannel:
		e.window.RequestClose()
		return
	default:
	}

	select {
	case cfg := <-e.reloadChannel:
		e.reload(cfg)
	default:
	}

	if e.queue.Pending() == 0 {
		time.Sleep(idleSleep)
		return
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(e.lastFrame); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	now := time.Now()
	e.lastFrame = now
	if e.queue.RunFrame(now) > 0 && e.profilingEnabled {
		e.profiler.Tick()
	}
}

// reload swaps the backdrop configuration. An invalid configuration keeps the previous one.
func (e *engine) reload(cfg config.Config) {
	if err := e.backdrop.Deactivate(); err != nil {
		log.Printf("[engine] reload: deactivate: %v", err)
	}
	if err := e.backdrop.SetConfig(cfg); err != nil {
		log.Printf("[engine] reload: keeping previous config: %v", err)
	}
	if err := e.backdrop.Activate(e.Host()); err != nil {
		log.Printf("[engine] reload: activate: %v", err)
		e.activationErr = err
		return
	}
	e.activationErr = nil
	log.Printf("[engine] configuration reloaded")
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
