package renderer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
)

// ResourceStats counts live GPU resources created through a Renderer.
type ResourceStats struct {
	Buffers    int
	BindGroups int
	Pipelines  int
	Surfaces   int
}

// Total returns the sum of every live resource.
func (s ResourceStats) Total() int {
	return s.Buffers + s.BindGroups + s.Pipelines + s.Surfaces
}

func (s ResourceStats) String() string {
	return fmt.Sprintf("buffers=%d bind_groups=%d pipelines=%d surfaces=%d", s.Buffers, s.BindGroups, s.Pipelines, s.Surfaces)
}

// ledger is the Renderer's live resource counter.
type ledger struct {
	mu    *sync.Mutex
	stats ResourceStats
}

func newLedger() *ledger {
	return &ledger{mu: &sync.Mutex{}}
}

func (l *ledger) update(fn func(s *ResourceStats)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.stats)
}

func (l *ledger) snapshot() ResourceStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// trackedBuffer decrements the ledger the first time it is released.
type trackedBuffer struct {
	inner    bind_group_provider.Buffer
	ledger   *ledger
	released atomic.Bool
}

var _ bind_group_provider.Buffer = &trackedBuffer{}

func (t *trackedBuffer) Label() string                      { return t.inner.Label() }
func (t *trackedBuffer) Size() uint64                       { return t.inner.Size() }
func (t *trackedBuffer) Unwrap() bind_group_provider.Buffer { return t.inner }

func (t *trackedBuffer) Release() {
	if !t.released.CompareAndSwap(false, true) {
		return
	}
	t.inner.Release()
	t.ledger.update(func(s *ResourceStats) { s.Buffers-- })
}

type trackedBindGroup struct {
	inner    bind_group_provider.BindGroup
	ledger   *ledger
	released atomic.Bool
}

var _ bind_group_provider.BindGroup = &trackedBindGroup{}

func (t *trackedBindGroup) Label() string                         { return t.inner.Label() }
func (t *trackedBindGroup) Unwrap() bind_group_provider.BindGroup { return t.inner }

func (t *trackedBindGroup) Release() {
	if !t.released.CompareAndSwap(false, true) {
		return
	}
	t.inner.Release()
	t.ledger.update(func(s *ResourceStats) { s.BindGroups-- })
}
