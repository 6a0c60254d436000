// Package environmenttest provides a scriptable environment.Signals for tests.
package environmenttest

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/environment"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/event"
)

type pointer struct{ x, y float64 }

type size struct{ w, h int }

// Signals is an in-memory host whose events are fired by the test.
type Signals struct {
	mu     *sync.Mutex
	width  int
	height int
	ratio  float32
	scroll float64

	pointer *event.Registry[pointer]
	scrolls *event.Registry[float64]
	resizes *event.Registry[size]
}

var _ environment.Signals = &Signals{}

// NewSignals returns a host with the given logical viewport and pixel ratio 1.
func NewSignals(width, height int) *Signals {
	return &Signals{
		mu:      &sync.Mutex{},
		width:   width,
		height:  height,
		ratio:   1,
		pointer: event.NewRegistry[pointer](),
		scrolls: event.NewRegistry[float64](),
		resizes: event.NewRegistry[size](),
	}
}

func (s *Signals) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Signals) PixelRatio() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratio
}

func (s *Signals) ScrollOffset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scroll
}

func (s *Signals) OnPointerMove(fn func(x, y float64)) event.Subscription {
	return s.pointer.Add(func(p pointer) { fn(p.x, p.y) })
}

func (s *Signals) OnScroll(fn func(offset float64)) event.Subscription {
	return s.scrolls.Add(fn)
}

func (s *Signals) OnResize(fn func(width, height int)) event.Subscription {
	return s.resizes.Add(func(sz size) { fn(sz.w, sz.h) })
}

// SetPixelRatio changes the ratio reported to the next resize.
func (s *Signals) SetPixelRatio(ratio float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratio = ratio
}

// MovePointer fires a pointer move.
func (s *Signals) MovePointer(x, y float64) {
	s.pointer.Emit(pointer{x, y})
}

// Scroll sets the scroll offset and fires a scroll event.
func (s *Signals) Scroll(offset float64) {
	s.mu.Lock()
	s.scroll = offset
	s.mu.Unlock()
	s.scrolls.Emit(offset)
}

// Resize sets the viewport size and fires a resize event.
func (s *Signals) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
	s.resizes.Emit(size{width, height})
}

// Listeners returns the total number of registered listeners across all three signals.
func (s *Signals) Listeners() int {
	return s.pointer.Len() + s.scrolls.Len() + s.resizes.Len()
}
