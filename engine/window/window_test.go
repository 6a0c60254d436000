package window

import (
	"errors"
	"testing"
)

func TestWheelMovesVirtualScroll(t *testing.T) {
	w := newEngineWindow(WithScrollStep(50), WithScrollExtent(120))
	var seen []float64
	sub := w.OnScroll(func(offset float64) { seen = append(seen, offset) })
	defer sub.Cancel()

	w.handleWheel(-1) // down
	w.handleWheel(-1)
	w.handleWheel(-1) // capped at the extent
	w.handleWheel(-1) // no change, no event
	w.handleWheel(5)  // clamped at zero

	want := []float64{50, 100, 120, 0}
	if len(seen) != len(want) {
		t.Fatalf("scroll events = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, seen[i], want[i])
		}
	}
	if w.ScrollOffset() != 0 {
		t.Errorf("ScrollOffset() = %v, want 0", w.ScrollOffset())
	}
}

func TestListenersObserveWithoutConsuming(t *testing.T) {
	w := newEngineWindow()
	var a, b int
	subA := w.OnPointerMove(func(x, y float64) { a++ })
	subB := w.OnPointerMove(func(x, y float64) { b++ })
	w.handleCursor(10, 20)
	if a != 1 || b != 1 {
		t.Errorf("listeners saw %d and %d events, want 1 each", a, b)
	}

	subA.Cancel()
	subA.Cancel()
	w.handleCursor(10, 20)
	if a != 1 || b != 2 {
		t.Errorf("after cancel: %d and %d events, want 1 and 2", a, b)
	}
	subB.Cancel()
	if w.Listeners() != 0 {
		t.Errorf("Listeners() = %d, want 0", w.Listeners())
	}
}

func TestResizeUpdatesSizes(t *testing.T) {
	w := newEngineWindow(WithWidth(800), WithHeight(600))
	var got [2]int
	sub := w.OnResize(func(width, height int) { got = [2]int{width, height} })
	defer sub.Cancel()

	w.handleResize(1000, 500, 2000, 1000)
	if got != [2]int{1000, 500} {
		t.Errorf("resize event = %v, want [1000 500]", got)
	}
	if fw, fh := w.SurfaceSize(); fw != 2000 || fh != 1000 {
		t.Errorf("SurfaceSize() = %dx%d", fw, fh)
	}
	if r := w.PixelRatio(); r != 2 {
		t.Errorf("PixelRatio() = %v, want 2", r)
	}

	w.handleResize(0, 0, 0, 0)
	if r := w.PixelRatio(); r != 1 {
		t.Errorf("PixelRatio() of a minimized window = %v, want 1", r)
	}
}

func TestInitialSizeRespectsLimits(t *testing.T) {
	tests := []struct {
		name          string
		options       []WindowBuilderOption
		width, height int
	}{
		{"within limits", []WindowBuilderOption{WithWidth(800), WithHeight(600)}, 800, 600},
		{"below minimum", []WindowBuilderOption{WithMinWidth(640), WithMinHeight(480), WithWidth(100), WithHeight(100)}, 640, 480},
		{"above maximum", []WindowBuilderOption{WithMaxWidth(1024), WithMaxHeight(768), WithWidth(4000), WithHeight(3000)}, 1024, 768},
		{"minimum wins over a smaller maximum", []WindowBuilderOption{WithMinWidth(900), WithMaxWidth(300), WithMinHeight(10), WithMaxHeight(20), WithHeight(15)}, 900, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newEngineWindow(tt.options...)
			if width, height := w.Size(); width != tt.width || height != tt.height {
				t.Errorf("Size() = %dx%d, want %dx%d", width, height, tt.width, tt.height)
			}
			if fw, fh := w.SurfaceSize(); fw != tt.width || fh != tt.height {
				t.Errorf("SurfaceSize() = %dx%d, want %dx%d", fw, fh, tt.width, tt.height)
			}
		})
	}
}

func TestSurfaceOwnership(t *testing.T) {
	w := newEngineWindow()
	first, second := new(int), new(int)

	if err := w.AttachSurface(first); err != nil {
		t.Fatal(err)
	}
	if err := w.AttachSurface(second); !errors.Is(err, ErrMountBusy) {
		t.Errorf("second AttachSurface = %v, want ErrMountBusy", err)
	}
	if err := w.DetachSurface(second); !errors.Is(err, ErrNotOwner) {
		t.Errorf("DetachSurface by non-owner = %v, want ErrNotOwner", err)
	}
	if err := w.DetachSurface(first); err != nil {
		t.Fatal(err)
	}
	if err := w.AttachSurface(second); err != nil {
		t.Errorf("AttachSurface after detach = %v", err)
	}
}
