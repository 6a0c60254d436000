package window

import (
	"errors"
	"runtime"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/event"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMountBusy is returned by AttachSurface when another owner already holds the surface.
var ErrMountBusy = errors.New("window: surface already has an owner")

// ErrNotOwner is returned by DetachSurface when the caller does not hold the surface.
var ErrNotOwner = errors.New("window: caller does not own the surface")

// Window provides platform windowing and input event handling.
// It is the backdrop's mount point and the source of its pointer, scroll and resize signals.
// Listeners only observe events: every registered listener sees every event.
//
// All methods must be called from the thread that created the window.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// OnPointerMove registers a listener for cursor movement in window coordinates.
	//
	// Parameters:
	//   - fn: function receiving the cursor x, y position
	//
	// Returns:
	//   - event.Subscription: the handle that removes the listener
	OnPointerMove(fn func(x, y float64)) event.Subscription

	// OnScroll registers a listener for changes of the virtual scroll offset.
	//
	// Parameters:
	//   - fn: function receiving the new offset in window coordinates
	//
	// Returns:
	//   - event.Subscription: the handle that removes the listener
	OnScroll(fn func(offset float64)) event.Subscription

	// OnResize registers a listener for window size changes.
	//
	// Parameters:
	//   - fn: function receiving the new width and height in window coordinates
	//
	// Returns:
	//   - event.Subscription: the handle that removes the listener
	OnResize(fn func(width, height int)) event.Subscription

	// Listeners returns the number of registered pointer, scroll and resize listeners.
	Listeners() int

	// Size returns the client area size in window coordinates.
	Size() (width, height int)

	// PixelRatio returns framebuffer pixels per window coordinate.
	PixelRatio() float32

	// ScrollOffset returns the virtual scroll offset. The wheel moves it by the configured
	// step, and it never goes below zero or above the scroll extent.
	ScrollOffset() float64

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// SurfaceSize returns the framebuffer size in pixels.
	SurfaceSize() (width, height int)

	// AttachSurface makes owner the window's single surface owner.
	//
	// Parameters:
	//   - owner: the component drawing into the window
	//
	// Returns:
	//   - error: ErrMountBusy if another owner is attached
	AttachSurface(owner any) error

	// DetachSurface releases the surface held by owner.
	//
	// Parameters:
	//   - owner: the current owner
	//
	// Returns:
	//   - error: ErrNotOwner if owner does not hold the surface
	DetachSurface(owner any) error

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration. The window
	// stays valid until Close.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event registries.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height are the client area size in window coordinates.
	width  int
	height int

	// fbWidth and fbHeight are the framebuffer size in pixels.
	fbWidth  int
	fbHeight int

	transparent bool

	// scrollStep is the offset change per wheel notch; scrollExtent caps the offset (0 = unbounded).
	scrollStep   float64
	scrollExtent float64
	scrollOffset float64

	surfaceOwner any

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	pointer *event.Registry[[2]float64]
	scrolls *event.Registry[float64]
	resizes *event.Registry[[2]int]
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:       "oxy backdrop",
		maxWidth:    7680,
		maxHeight:   4320,
		minWidth:    200,
		minHeight:   150,
		width:       1280,
		height:      720,
		transparent: true,
		scrollStep:  100,
		pointer:     event.NewRegistry[[2]float64](),
		scrolls:     event.NewRegistry[float64](),
		resizes:     event.NewRegistry[[2]int](),
	}
	for _, opt := range options {
		opt(w)
	}
	w.maxWidth, w.maxHeight = max(w.maxWidth, w.minWidth), max(w.maxHeight, w.minHeight)
	w.width = common.Clamp(w.width, w.minWidth, w.maxWidth)
	w.height = common.Clamp(w.height, w.minHeight, w.maxHeight)
	w.fbWidth, w.fbHeight = w.width, w.height
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) OnPointerMove(fn func(x, y float64)) event.Subscription {
	return w.pointer.Add(func(p [2]float64) { fn(p[0], p[1]) })
}

func (w *engineWindow) OnScroll(fn func(offset float64)) event.Subscription {
	return w.scrolls.Add(fn)
}

func (w *engineWindow) OnResize(fn func(width, height int)) event.Subscription {
	return w.resizes.Add(func(s [2]int) { fn(s[0], s[1]) })
}

func (w *engineWindow) Listeners() int {
	return w.pointer.Len() + w.scrolls.Len() + w.resizes.Len()
}

func (w *engineWindow) Size() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) PixelRatio() float32 {
	if w.width <= 0 || w.fbWidth <= 0 {
		return 1
	}
	return float32(w.fbWidth) / float32(w.width)
}

func (w *engineWindow) ScrollOffset() float64 {
	return w.scrollOffset
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) SurfaceSize() (int, int) {
	return w.fbWidth, w.fbHeight
}

func (w *engineWindow) AttachSurface(owner any) error {
	if w.surfaceOwner != nil {
		return ErrMountBusy
	}
	w.surfaceOwner = owner
	return nil
}

func (w *engineWindow) DetachSurface(owner any) error {
	if w.surfaceOwner == nil || w.surfaceOwner != owner {
		return ErrNotOwner
	}
	w.surfaceOwner = nil
	return nil
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

// handleCursor fans a cursor move out to the pointer listeners.
func (w *engineWindow) handleCursor(x, y float64) {
	w.pointer.Emit([2]float64{x, y})
}

// handleWheel moves the virtual scroll offset. A positive yoff scrolls up, toward offset 0.
func (w *engineWindow) handleWheel(yoff float64) {
	offset := max(w.scrollOffset-yoff*w.scrollStep, 0)
	if w.scrollExtent > 0 {
		offset = min(offset, w.scrollExtent)
	}
	if offset == w.scrollOffset {
		return
	}
	w.scrollOffset = offset
	w.scrolls.Emit(offset)
}

// handleResize records new window and framebuffer sizes and notifies the resize listeners.
func (w *engineWindow) handleResize(width, height, fbWidth, fbHeight int) {
	w.width, w.height = width, height
	w.fbWidth, w.fbHeight = fbWidth, fbHeight
	w.resizes.Emit([2]int{width, height})
}
