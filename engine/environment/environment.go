// Package environment samples the host's pointer, scroll and viewport signals into the
// per-frame inputs of the backdrop.
package environment

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/event"
)

// ErrAttached is returned by Attach when the Sampler already holds subscriptions.
var ErrAttached = errors.New("environment: sampler already attached")

// Signals is the host surface the Sampler listens to. Coordinates and sizes are in
// CSS-equivalent (logical) pixels.
type Signals interface {
	// Size returns the current viewport size.
	Size() (width, height int)

	// PixelRatio returns the ratio of framebuffer pixels to logical pixels.
	PixelRatio() float32

	// ScrollOffset returns the current vertical scroll offset.
	ScrollOffset() float64

	// OnPointerMove registers fn for pointer moves in viewport coordinates.
	OnPointerMove(fn func(x, y float64)) event.Subscription

	// OnScroll registers fn for scroll offset changes.
	OnScroll(fn func(offset float64)) event.Subscription

	// OnResize registers fn for viewport size changes.
	OnResize(fn func(width, height int)) event.Subscription
}

// Sample is the latest view of the environment.
type Sample struct {
	// PointerX and PointerY are in [-1, 1]; y is positive toward the top of the viewport.
	PointerX, PointerY float32
	// ScrollFactor is the scroll offset divided by the reference distance.
	ScrollFactor float32
	// Viewport is the clamped current viewport.
	Viewport common.Viewport
}

// Sampler defines the interface for the environment sampler. It owns the three subscriptions
// that feed it and holds the most recent Sample.
type Sampler interface {
	// Attach subscribes to pointer, scroll and resize signals and seeds the sample from the
	// current viewport and scroll offset. onResize runs synchronously inside every resize event.
	//
	// Parameters:
	//   - signals: the host signals
	//   - onResize: called with the clamped viewport on every resize; may be nil
	//
	// Returns:
	//   - error: ErrAttached if already attached
	Attach(signals Signals, onResize func(common.Viewport)) error

	// Detach cancels every subscription. Calling Detach when not attached is a no-op.
	Detach()

	// Attached reports whether the Sampler holds subscriptions.
	Attached() bool

	// Sample returns the latest sample.
	//
	// Returns:
	//   - Sample: a copy of the current sample
	Sample() Sample

	// SubscriptionCount returns the number of subscriptions still active.
	SubscriptionCount() int
}

type sampler struct {
	mu *sync.Mutex

	referenceDistance float64

	signals  Signals
	onResize func(common.Viewport)
	subs     []event.Subscription
	sample   Sample
}

var _ Sampler = &sampler{}

// NewSampler creates a detached Sampler.
//
// Parameters:
//   - options: functional options to configure the sampler
//
// Returns:
//   - Sampler: the new sampler
func NewSampler(options ...SamplerBuilderOption) Sampler {
	s := &sampler{
		mu:                &sync.Mutex{},
		referenceDistance: 500,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *sampler) Attach(signals Signals, onResize func(common.Viewport)) error {
	s.mu.Lock()
	if len(s.subs) > 0 {
		s.mu.Unlock()
		return ErrAttached
	}
	s.signals = signals
	s.onResize = onResize
	w, h := signals.Size()
	s.sample = Sample{
		ScrollFactor: s.scrollFactor(signals.ScrollOffset()),
		Viewport:     common.Viewport{Width: w, Height: h, PixelRatio: signals.PixelRatio()}.Clamped(),
	}
	s.mu.Unlock()

	// Registration happens outside the lock: a host may emit synchronously from On*.
	subs := []event.Subscription{
		signals.OnPointerMove(s.pointerMoved),
		signals.OnScroll(s.scrolled),
		signals.OnResize(s.resized),
	}

	s.mu.Lock()
	s.subs = subs
	s.mu.Unlock()
	return nil
}

func (s *sampler) Detach() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.onResize = nil
	s.signals = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

func (s *sampler) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs) > 0
}

func (s *sampler) Sample() Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sample
}

func (s *sampler) SubscriptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sub := range s.subs {
		if sub.Active() {
			n++
		}
	}
	return n
}

func (s *sampler) pointerMoved(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.sample.Viewport
	s.sample.PointerX = common.Clamp(float32(x/float64(v.Width))*2-1, -1, 1)
	s.sample.PointerY = common.Clamp(-float32(y/float64(v.Height))*2+1, -1, 1)
}

func (s *sampler) scrolled(offset float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sample.ScrollFactor = s.scrollFactor(offset)
}

func (s *sampler) resized(width, height int) {
	s.mu.Lock()
	ratio := s.sample.Viewport.PixelRatio
	if s.signals != nil {
		ratio = s.signals.PixelRatio()
	}
	v := common.Viewport{Width: width, Height: height, PixelRatio: ratio}.Clamped()
	s.sample.Viewport = v
	onResize := s.onResize
	s.mu.Unlock()

	if onResize != nil {
		onResize(v)
	}
}

func (s *sampler) scrollFactor(offset float64) float32 {
	return float32(offset / s.referenceDistance)
}
