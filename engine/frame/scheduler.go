// Package frame provides a display-synchronised frame request queue and the cancellable
// repeating task built on top of it.
package frame

import (
	"sync"
	"time"
)

// Callback runs once for the frame it was requested for.
type Callback func(now time.Time)

// Request is the handle for one pending frame callback.
type Request interface {
	// Cancel removes the callback from the scheduler. It is a no-op once the callback has run.
	Cancel()
}

// Scheduler hands out one-shot frame callbacks, in the manner of requestAnimationFrame.
type Scheduler interface {
	// RequestFrame registers cb to run on the next frame.
	//
	// Parameters:
	//   - cb: the callback to run
	//
	// Returns:
	//   - Request: the handle used to cancel the callback before it runs
	RequestFrame(cb Callback) Request
}

// Queue is the host side of a Scheduler. The host calls RunFrame once per displayed frame.
// Callbacks requested while a frame is running are deferred to the next frame.
type Queue struct {
	mu      *sync.Mutex
	pending []*request
}

type request struct {
	cb        Callback
	queue     *Queue
	cancelled bool
}

var _ Scheduler = &Queue{}
var _ Request = &request{}

// NewQueue creates an empty frame Queue.
//
// Returns:
//   - *Queue: the new queue
func NewQueue() *Queue {
	return &Queue{mu: &sync.Mutex{}}
}

func (q *Queue) RequestFrame(cb Callback) Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	r := &request{cb: cb, queue: q}
	q.pending = append(q.pending, r)
	return r
}

// RunFrame runs every callback that was pending when the call began.
//
// Parameters:
//   - now: the frame timestamp handed to each callback
//
// Returns:
//   - int: the number of callbacks that ran
func (q *Queue) RunFrame(now time.Time) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	ran := 0
	for _, r := range batch {
		q.mu.Lock()
		skip := r.cancelled
		r.cancelled = true
		q.mu.Unlock()
		if skip {
			continue
		}
		r.cb(now)
		ran++
	}
	return ran
}

// Pending returns the number of callbacks waiting for the next frame.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (r *request) Cancel() {
	q := r.queue
	q.mu.Lock()
	defer q.mu.Unlock()
	r.cancelled = true
	for i, other := range q.pending {
		if other == r {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}
