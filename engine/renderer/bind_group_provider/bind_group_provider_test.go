package bind_group_provider

import "testing"

type countingHandle struct {
	label    string
	released *int
}

func (h *countingHandle) Label() string { return h.label }
func (h *countingHandle) Size() uint64  { return 64 }
func (h *countingHandle) Release()      { *h.released++ }

func TestReleaseFreesEveryHandleOnce(t *testing.T) {
	released := 0
	h := func(label string) *countingHandle { return &countingHandle{label: label, released: &released} }

	p := NewBindGroupProvider("solid", WithBuffer(0, h("uniform")), WithIndexCount(36))
	p.SetBindGroup(h("bg"))
	p.SetVertexBuffer(h("vertex"))
	p.SetIndexBuffer(h("index"))

	if p.Label() != "solid" {
		t.Errorf("Label() = %q, want solid", p.Label())
	}
	if p.Live() != 4 {
		t.Errorf("Live() = %d, want 4", p.Live())
	}

	p.Release()
	p.Release()

	if released != 4 {
		t.Errorf("released %d handles, want 4", released)
	}
	if p.Live() != 0 || p.IndexCount() != 0 {
		t.Errorf("after Release Live() = %d IndexCount() = %d, want 0/0", p.Live(), p.IndexCount())
	}
}

func TestBuffersOrderedByBinding(t *testing.T) {
	released := 0
	p := NewBindGroupProvider("frame")
	p.SetBuffer(1, &countingHandle{label: "lights", released: &released})
	p.SetBuffer(0, &countingHandle{label: "camera", released: &released})

	bufs := p.Buffers()
	if len(bufs) != 2 || bufs[0].Label() != "camera" || bufs[1].Label() != "lights" {
		t.Errorf("Buffers() order wrong: %v", bufs)
	}
}
