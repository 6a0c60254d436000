package event

import "testing"

func TestRegistryFanOut(t *testing.T) {
	r := NewRegistry[int]()
	var a, b []int
	subA := r.Add(func(v int) { a = append(a, v) })
	r.Add(func(v int) { b = append(b, v) })

	r.Emit(1)
	subA.Cancel()
	r.Emit(2)

	if len(a) != 1 || a[0] != 1 {
		t.Errorf("listener a saw %v, want [1]", a)
	}
	if len(b) != 2 {
		t.Errorf("listener b saw %v, want [1 2]", b)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	r := NewRegistry[string]()
	sub := r.Add(func(string) {})
	other := r.Add(func(string) {})
	sub.Cancel()
	sub.Cancel()
	if sub.Active() {
		t.Error("Active() = true after Cancel")
	}
	if !other.Active() {
		t.Error("second Cancel removed an unrelated listener")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestCancelDuringEmit(t *testing.T) {
	r := NewRegistry[int]()
	var second Subscription
	calls := 0
	r.Add(func(int) { second.Cancel() })
	second = r.Add(func(int) { calls++ })

	r.Emit(0)
	if calls != 0 {
		t.Errorf("cancelled listener ran %d times, want 0", calls)
	}
}
