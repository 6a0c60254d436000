package frame

import (
	"errors"
	"fmt"
	"time"
)

// ErrTickPanic wraps a panic recovered from a tick function.
var ErrTickPanic = errors.New("frame: tick panicked")

// TickFunc is the body of a Loop. A non-nil error stops the loop.
type TickFunc func(now time.Time) error

// Loop is a repeating task on a Scheduler. The next frame is requested before each tick runs,
// and cancelling the Loop cancels that pending request. Cancel is the only way to stop it.
type Loop struct {
	scheduler Scheduler
	tick      TickFunc
	onStop    func(error)

	pending Request
	stopped bool
	frames  uint64
	err     error
}

// Start requests the first frame and returns the running Loop.
//
// Parameters:
//   - s: the scheduler frames are requested from
//   - tick: the per-frame body
//   - onStop: optional callback run exactly once when the loop stops, with the tick error or nil
//
// Returns:
//   - *Loop: the loop handle
func Start(s Scheduler, tick TickFunc, onStop func(error)) *Loop {
	l := &Loop{scheduler: s, tick: tick, onStop: onStop}
	l.pending = s.RequestFrame(l.fire)
	return l
}

// Cancel stops the loop. A tick that is running when Cancel is called finishes,
// but the frame it requested never runs.
func (l *Loop) Cancel() {
	l.stop(nil)
}

// Fail stops the loop with err, as if a tick had returned it.
//
// Parameters:
//   - err: the terminal error reported through Err and onStop
func (l *Loop) Fail(err error) {
	l.stop(err)
}

// Running reports whether the loop still has a frame pending.
func (l *Loop) Running() bool {
	return !l.stopped
}

// Frames returns the number of ticks that have run.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Err returns the error that stopped the loop, if any.
func (l *Loop) Err() error {
	return l.err
}

func (l *Loop) fire(now time.Time) {
	l.pending = l.scheduler.RequestFrame(l.fire)
	l.frames++
	if err := l.safeTick(now); err != nil {
		l.stop(err)
	}
}

func (l *Loop) safeTick(now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTickPanic, r)
		}
	}()
	return l.tick(now)
}

func (l *Loop) stop(err error) {
	if l.stopped {
		return
	}
	l.stopped = true
	if l.pending != nil {
		l.pending.Cancel()
		l.pending = nil
	}
	l.err = err
	if l.onStop != nil {
		l.onStop(err)
	}
}
