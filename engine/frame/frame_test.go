package frame

import (
	"errors"
	"testing"
	"time"
)

func TestQueueDefersNestedRequests(t *testing.T) {
	q := NewQueue()
	order := []string{}
	q.RequestFrame(func(time.Time) {
		order = append(order, "a")
		q.RequestFrame(func(time.Time) { order = append(order, "b") })
	})

	if ran := q.RunFrame(time.Now()); ran != 1 {
		t.Fatalf("RunFrame ran %d callbacks, want 1", ran)
	}
	if q.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", q.Pending())
	}
	q.RunFrame(time.Now())
	if len(order) != 2 || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
}

func TestQueueCancelRemovesRequest(t *testing.T) {
	q := NewQueue()
	ran := false
	r := q.RequestFrame(func(time.Time) { ran = true })
	r.Cancel()
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d after Cancel, want 0", q.Pending())
	}
	q.RunFrame(time.Now())
	if ran {
		t.Error("cancelled callback ran")
	}
}

func TestQueueCancelWithinSameFrame(t *testing.T) {
	q := NewQueue()
	var second Request
	ran := false
	q.RequestFrame(func(time.Time) { second.Cancel() })
	second = q.RequestFrame(func(time.Time) { ran = true })
	q.RunFrame(time.Now())
	if ran {
		t.Error("callback cancelled earlier in the same frame still ran")
	}
}

func TestLoopRunsUntilCancelled(t *testing.T) {
	q := NewQueue()
	ticks := 0
	l := Start(q, func(time.Time) error { ticks++; return nil }, nil)
	for range 5 {
		q.RunFrame(time.Now())
	}
	l.Cancel()
	for range 5 {
		q.RunFrame(time.Now())
	}
	if ticks != 5 {
		t.Errorf("ticks = %d, want 5", ticks)
	}
	if l.Running() {
		t.Error("Running() = true after Cancel")
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d after Cancel, want 0", q.Pending())
	}
}

func TestLoopCancelDuringTick(t *testing.T) {
	q := NewQueue()
	ticks := 0
	var l *Loop
	l = Start(q, func(time.Time) error {
		ticks++
		l.Cancel()
		return nil
	}, nil)
	q.RunFrame(time.Now())
	q.RunFrame(time.Now())
	if ticks != 1 {
		t.Errorf("ticks = %d, want 1", ticks)
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", q.Pending())
	}
}

func TestLoopStopsOnTickError(t *testing.T) {
	q := NewQueue()
	boom := errors.New("boom")
	stops := 0
	var stopErr error
	l := Start(q, func(time.Time) error { return boom }, func(err error) {
		stops++
		stopErr = err
	})
	q.RunFrame(time.Now())
	q.RunFrame(time.Now())
	l.Cancel()

	if stops != 1 {
		t.Errorf("onStop ran %d times, want 1", stops)
	}
	if !errors.Is(stopErr, boom) || !errors.Is(l.Err(), boom) {
		t.Errorf("stop error = %v, want %v", stopErr, boom)
	}
	if l.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", l.Frames())
	}
}

func TestLoopRecoversPanic(t *testing.T) {
	q := NewQueue()
	l := Start(q, func(time.Time) error { panic("bad frame") }, nil)
	q.RunFrame(time.Now())
	if !errors.Is(l.Err(), ErrTickPanic) {
		t.Errorf("Err() = %v, want ErrTickPanic", l.Err())
	}
	if l.Running() {
		t.Error("loop kept running after a panic")
	}
}

func TestLoopFail(t *testing.T) {
	q := NewQueue()
	ticks := 0
	l := Start(q, func(time.Time) error { ticks++; return nil }, nil)
	q.RunFrame(time.Now())

	boom := errors.New("resize failed")
	l.Fail(boom)
	if q.RunFrame(time.Now()) != 0 || ticks != 1 {
		t.Errorf("loop ticked after Fail: ticks = %d", ticks)
	}
	if !errors.Is(l.Err(), boom) {
		t.Errorf("Err() = %v, want %v", l.Err(), boom)
	}
	l.Fail(errors.New("second"))
	if !errors.Is(l.Err(), boom) {
		t.Errorf("second Fail replaced the error: %v", l.Err())
	}
}
