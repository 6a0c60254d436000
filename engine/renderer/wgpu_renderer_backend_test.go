package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "frame", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
		1: {Label: "object", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "frame", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 2 {
		t.Fatalf("merged groups = %d, want 2", len(merged))
	}
	frame := merged[0]
	if len(frame.Entries) != 2 || frame.Entries[0].Binding != 0 || frame.Entries[1].Binding != 1 {
		t.Fatalf("frame entries = %+v, want bindings 0,1", frame.Entries)
	}
	if frame.Entries[0].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Errorf("binding 0 visibility = %v, want vertex|fragment", frame.Entries[0].Visibility)
	}
	if merged[1].Label != "object" {
		t.Errorf("group 1 label = %q", merged[1].Label)
	}
}
