package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
)

type countingBuffer struct{ releases *int }

func (b countingBuffer) Label() string { return "buf" }
func (b countingBuffer) Size() uint64  { return 4 }
func (b countingBuffer) Release()      { *b.releases++ }

func TestFromWireframe(t *testing.T) {
	g := geometry.Octahedron(4, 0)
	m := FromWireframe(g, material.NewMaterial())
	if m.Name() != "octahedron" || m.PipelineKey() != pipeline.KeyWireframe {
		t.Errorf("Name/PipelineKey = %q/%q", m.Name(), m.PipelineKey())
	}
	// 12 edges, two indices each.
	if m.IndexCount() != 24 || len(m.IndexData()) != 24*4 {
		t.Errorf("IndexCount() = %d, IndexData = %d bytes", m.IndexCount(), len(m.IndexData()))
	}
	if len(m.VertexData()) != g.VertexCount()*geometry.VertexStride*4 {
		t.Errorf("VertexData = %d bytes", len(m.VertexData()))
	}
	if m.InstanceCount() != 1 || m.BoundingRadius() < 3.99 {
		t.Errorf("InstanceCount = %d, BoundingRadius = %v", m.InstanceCount(), m.BoundingRadius())
	}
	if m.MeshProvider().Label() != "octahedron_mesh" {
		t.Errorf("mesh provider label = %q", m.MeshProvider().Label())
	}
}

func TestFromPointCloud(t *testing.T) {
	cloud := geometry.SamplePointCloud(2000, 100, nil)
	m := FromPointCloud("particles", cloud, material.NewMaterial())
	if m.InstanceCount() != 2000 || m.IndexCount() != 6 {
		t.Errorf("instances = %d, indices = %d", m.InstanceCount(), m.IndexCount())
	}
	if len(m.VertexData()) != 2000*geometry.ParticleStride*4 {
		t.Errorf("VertexData = %d bytes", len(m.VertexData()))
	}
}

func TestReleaseFreesMeshAndMaterial(t *testing.T) {
	releases := 0
	mat := material.NewMaterial()
	mat.SetBindGroupProvider(bind_group_provider.NewBindGroupProvider("mat", bind_group_provider.WithBuffer(0, countingBuffer{&releases})))
	m := NewModel(WithName("solid"), WithMaterial(mat),
		WithMeshProvider(bind_group_provider.NewBindGroupProvider("mesh", bind_group_provider.WithBuffer(0, countingBuffer{&releases}))))
	m.Release()
	m.Release()
	if releases != 2 {
		t.Errorf("releases = %d, want 2 (one per buffer, second Release a no-op)", releases)
	}
}
