// Package event holds the listener registries the host window uses to fan out input signals.
// Every registration hands back a Subscription, and cancelling it is the only way a listener leaves.
package event

import (
	"sync"
)

// Subscription is a handle to a single registered listener.
type Subscription interface {
	// Cancel removes the listener from its registry. Calling Cancel more than once is a no-op.
	Cancel()

	// Active reports whether the listener is still registered.
	//
	// Returns:
	//   - bool: true until Cancel has been called
	Active() bool
}

// Registry is an ordered set of listeners for events of type T.
// Listeners observe events and never consume them: every active listener sees every emitted value.
type Registry[T any] struct {
	mu        *sync.Mutex
	nextID    uint64
	listeners []*listener[T]
}

type listener[T any] struct {
	id       uint64
	fn       func(T)
	registry *Registry[T]
}

var _ Subscription = &listener[int]{}

// NewRegistry creates an empty Registry.
//
// Returns:
//   - *Registry[T]: the new registry
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{mu: &sync.Mutex{}}
}

// Add registers fn and returns the Subscription that removes it.
//
// Parameters:
//   - fn: the listener callback
//
// Returns:
//   - Subscription: the handle for this registration
func (r *Registry[T]) Add(fn func(T)) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l := &listener[T]{id: r.nextID, fn: fn, registry: r}
	r.listeners = append(r.listeners, l)
	return l
}

// Emit delivers v to every listener registered at the time of the call.
// Listeners cancelled by an earlier listener during the same Emit are skipped.
//
// Parameters:
//   - v: the event value
func (r *Registry[T]) Emit(v T) {
	r.mu.Lock()
	snapshot := make([]*listener[T], len(r.listeners))
	copy(snapshot, r.listeners)
	r.mu.Unlock()

	for _, l := range snapshot {
		if l.Active() {
			l.fn(v)
		}
	}
}

// Len returns the number of active listeners.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

func (l *listener[T]) Cancel() {
	r := l.registry
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, other := range r.listeners {
		if other.id == l.id {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

func (l *listener[T]) Active() bool {
	r := l.registry
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.listeners {
		if other.id == l.id {
			return true
		}
	}
	return false
}
