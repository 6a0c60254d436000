package environment_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/environment"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/environment/environmenttest"
)

func TestPointerNormalization(t *testing.T) {
	sig := environmenttest.NewSignals(1920, 1080)
	s := environment.NewSampler()
	if err := s.Attach(sig, nil); err != nil {
		t.Fatal(err)
	}
	defer s.Detach()

	tests := []struct {
		name   string
		x, y   float64
		wx, wy float32
	}{
		{"centre", 960, 540, 0, 0},
		{"top left", 0, 0, -1, 1},
		{"bottom right", 1920, 1080, 1, -1},
		{"three quarters", 1440, 270, 0.5, 0.5},
		{"outside is clamped", -500, 5000, -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig.MovePointer(tt.x, tt.y)
			got := s.Sample()
			if got.PointerX != tt.wx || got.PointerY != tt.wy {
				t.Errorf("pointer = (%v, %v), want (%v, %v)", got.PointerX, got.PointerY, tt.wx, tt.wy)
			}
		})
	}
}

func TestScrollFactor(t *testing.T) {
	sig := environmenttest.NewSignals(100, 100)
	sig.Scroll(250)
	s := environment.NewSampler(environment.WithReferenceDistance(500))
	if err := s.Attach(sig, nil); err != nil {
		t.Fatal(err)
	}
	defer s.Detach()

	if got := s.Sample().ScrollFactor; got != 0.5 {
		t.Errorf("initial scroll factor = %v, want 0.5", got)
	}
	sig.Scroll(1000)
	if got := s.Sample().ScrollFactor; got != 2 {
		t.Errorf("scroll factor = %v, want 2", got)
	}
}

func TestResizeIsSynchronousAndClamped(t *testing.T) {
	sig := environmenttest.NewSignals(800, 600)
	var got []common.Viewport
	s := environment.NewSampler()
	if err := s.Attach(sig, func(v common.Viewport) { got = append(got, v) }); err != nil {
		t.Fatal(err)
	}
	defer s.Detach()

	sig.SetPixelRatio(2)
	sig.Resize(0, 0)
	if len(got) != 1 {
		t.Fatalf("resize callbacks = %d, want 1 before Resize returns", len(got))
	}
	if v := got[0]; v.Width != 1 || v.Height != 1 || v.PixelRatio != 2 {
		t.Errorf("viewport = %+v, want 1x1 @2", v)
	}
	if v := s.Sample().Viewport; v.Width != 1 || v.Height != 1 {
		t.Errorf("sample viewport = %+v", v)
	}

	// A pointer move on a 1x1 viewport stays in range.
	sig.MovePointer(10, 10)
	if p := s.Sample(); p.PointerX != 1 || p.PointerY != -1 {
		t.Errorf("pointer = (%v, %v), want (1, -1)", p.PointerX, p.PointerY)
	}
}

func TestSubscriptionSymmetry(t *testing.T) {
	sig := environmenttest.NewSignals(100, 100)
	s := environment.NewSampler()
	for i := range 3 {
		if err := s.Attach(sig, nil); err != nil {
			t.Fatalf("cycle %d Attach: %v", i, err)
		}
		if n := s.SubscriptionCount(); n != 3 {
			t.Errorf("cycle %d subscriptions = %d, want 3", i, n)
		}
		if n := sig.Listeners(); n != 3 {
			t.Errorf("cycle %d host listeners = %d, want 3", i, n)
		}
		s.Detach()
		if n := sig.Listeners(); n != 0 {
			t.Errorf("cycle %d host listeners after Detach = %d, want 0", i, n)
		}
	}
	s.Detach()
	if s.Attached() || s.SubscriptionCount() != 0 {
		t.Error("sampler still attached after Detach")
	}
}

func TestAttachTwice(t *testing.T) {
	sig := environmenttest.NewSignals(100, 100)
	s := environment.NewSampler()
	if err := s.Attach(sig, nil); err != nil {
		t.Fatal(err)
	}
	defer s.Detach()
	if err := s.Attach(sig, nil); !errors.Is(err, environment.ErrAttached) {
		t.Errorf("second Attach = %v, want ErrAttached", err)
	}
	if n := sig.Listeners(); n != 3 {
		t.Errorf("host listeners = %d, want 3", n)
	}
}

func TestListenersDoNotConsume(t *testing.T) {
	sig := environmenttest.NewSignals(100, 100)
	var other int
	sub := sig.OnPointerMove(func(x, y float64) { other++ })
	defer sub.Cancel()

	s := environment.NewSampler()
	if err := s.Attach(sig, nil); err != nil {
		t.Fatal(err)
	}
	defer s.Detach()

	sig.MovePointer(75, 25)
	if other != 1 {
		t.Errorf("other listener saw %d events, want 1", other)
	}
	if p := s.Sample(); p.PointerX != 0.5 || p.PointerY != 0.5 {
		t.Errorf("pointer = (%v, %v), want (0.5, 0.5)", p.PointerX, p.PointerY)
	}
}
