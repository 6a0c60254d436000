package scene

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/config"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/game_object"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/light"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
)

// builder collects Build options.
type builder struct {
	name    string
	workers int
	random  func() float32
}

// meshResult holds one generated mesh; exactly one of cloud or mesh is filled.
type meshResult struct {
	cloud geometry.PointCloud
	mesh  geometry.Geometry
}

// Build is the Scene Builder: it generates the particle field and the three solids, uploads
// them through r, and returns a Scene whose surface and camera match viewport.
//
// Mesh generation runs in parallel on a worker pool; GPU uploads run serially on the caller's
// goroutine. On any upload failure every resource allocated so far is released before the
// error is returned, so a failed Build leaves nothing live in r.
//
// Parameters:
//   - r: the renderer to allocate GPU resources through (must not be nil)
//   - cfg: a validated configuration
//   - viewport: the target viewport
//   - options: functional options to further configure the build
//
// Returns:
//   - Scene: the populated scene
//   - error: a validation or allocation error
func Build(r renderer.Renderer, cfg config.Config, viewport common.Viewport, options ...SceneBuilderOption) (Scene, error) {
	if r == nil {
		return nil, errors.New("scene: Build requires a non-nil Renderer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		name:    "backdrop",
		workers: defaultWorkers(),
	}
	for _, opt := range options {
		opt(b)
	}

	results := b.generate(cfg)

	s := &scene{
		mu:                 &sync.Mutex{},
		name:               b.name,
		r:                  r,
		smoothing:          cfg.Camera.Smoothing,
		pointerScale:       cfg.Camera.PointerScale,
		scrollScale:        cfg.Scroll.RotationScale,
		drawBindGroupsPool: make([]bind_group_provider.BindGroupProvider, 0, 2),
		root:               game_object.NewGameObject(game_object.WithName(b.name + "_root")),
	}

	s.frameProvider = bind_group_provider.NewBindGroupProvider(b.name + "_frame")
	s.cam = camera.NewCamera(
		camera.WithFieldOfView(cfg.Camera.Fov),
		camera.WithClipPlanes(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithController(camera.NewCameraController(camera.WithDistance(cfg.Camera.Distance))),
		camera.WithAspect(viewport.Clamped().Aspect()),
		camera.WithBindGroupProvider(s.frameProvider),
	)
	s.lights = buildLights(cfg.Lights)

	s.particles = particleEntity(b.name, cfg.Particles, results[0].cloud)
	for i, sc := range cfg.Solids {
		obj, solidErr := solidEntity(sc, results[i+1].mesh)
		if solidErr != nil {
			return nil, solidErr
		}
		s.solids = append(s.solids, obj)
	}

	if err := s.upload(); err != nil {
		return nil, errors.Join(err, s.Release())
	}
	if err := s.Resize(viewport); err != nil {
		return nil, errors.Join(err, s.Release())
	}

	log.Printf("[scene] %q built: %d particles, %d solids, %d lights", s.name, results[0].cloud.Len(), len(s.solids), len(s.lights))
	return s, nil
}

// generate builds every CPU mesh in parallel. Index 0 is the particle field, index i+1 is cfg.Solids[i].
func (b *builder) generate(cfg config.Config) []meshResult {
	jobs := []func() meshResult{func() meshResult {
		return meshResult{cloud: geometry.SamplePointCloud(cfg.Particles.Count, cfg.Particles.Extent, b.random)}
	}}
	for _, sc := range cfg.Solids {
		jobs = append(jobs, func() meshResult {
			return meshResult{mesh: solidGeometry(sc)}
		})
	}

	// A fresh pool per build; idle workers exit on their own after the timeout.
	pool := worker.NewDynamicWorkerPool(b.workers, 256, 1*time.Second)
	results := make([]meshResult, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				results[i] = job()
				return nil, nil
			},
		})
	}
	wg.Wait()
	return results
}

func solidGeometry(sc config.SolidConfig) geometry.Geometry {
	var g geometry.Geometry
	switch sc.Shape {
	case config.ShapeTorusKnot:
		g = geometry.TorusKnot(geometry.TorusKnotParams{
			Radius:          sc.Radius,
			Tube:            sc.Tube,
			TubularSegments: sc.TubularSegments,
			RadialSegments:  sc.RadialSegments,
			P:               sc.P,
			Q:               sc.Q,
		})
	case config.ShapeIcosahedron:
		g = geometry.Icosahedron(sc.Radius, sc.Detail)
	case config.ShapeOctahedron:
		g = geometry.Octahedron(sc.Radius, sc.Detail)
	}
	if sc.Name != "" {
		g.Name = sc.Name
	}
	return g
}

func particleEntity(prefix string, pc config.ParticleConfig, cloud geometry.PointCloud) game_object.GameObject {
	mat := material.NewMaterial(
		material.WithName(prefix+"_particles"),
		material.WithColor(pc.Color),
		material.WithOpacity(pc.Opacity),
		material.WithPointSize(pc.Size),
		material.WithPipelineKey(pipeline.KeyParticles),
	)
	return game_object.NewGameObject(
		game_object.WithName("particles"),
		game_object.WithModel(model.FromPointCloud(prefix+"_particles", cloud, mat)),
		game_object.WithMotion(game_object.Motion{RotationRate: pc.RotationRate}),
	)
}

func solidEntity(sc config.SolidConfig, g geometry.Geometry) (game_object.GameObject, error) {
	axis, err := config.ParseAxis(sc.Oscillation.Axis)
	if err != nil {
		return nil, fmt.Errorf("solid %q: %w", sc.Name, err)
	}
	wave, err := game_object.ParseWave(sc.Oscillation.Wave)
	if err != nil {
		return nil, fmt.Errorf("solid %q: %w", sc.Name, err)
	}

	mat := material.NewMaterial(
		material.WithName(g.Name),
		material.WithColor(sc.Color),
		material.WithEmissive(sc.Color, sc.EmissiveIntensity),
		material.WithPipelineKey(pipeline.KeyWireframe),
	)
	motion := game_object.Motion{
		RotationRate: sc.RotationRate,
		Oscillation: &game_object.Oscillation{
			Axis:             axis,
			Amplitude:        float64(sc.Oscillation.Amplitude),
			AngularFrequency: sc.Oscillation.AngularFrequency,
			Wave:             wave,
			Offset:           float64(sc.Oscillation.Offset),
		},
	}
	return game_object.NewGameObject(
		game_object.WithName(g.Name),
		game_object.WithModel(model.FromWireframe(g, mat)),
		game_object.WithMotion(motion),
		game_object.WithPosition(sc.Position[0], sc.Position[1], sc.Position[2]),
	), nil
}

func buildLights(lc config.LightsConfig) []light.Light {
	lights := []light.Light{
		light.NewLight(light.LightTypeAmbient,
			light.WithColor(lc.Ambient.Color),
			light.WithIntensity(lc.Ambient.Intensity),
		),
	}
	for _, p := range lc.Points {
		lights = append(lights, light.NewLight(light.LightTypePoint,
			light.WithColor(p.Color),
			light.WithIntensity(p.Intensity),
			light.WithRange(p.Range),
			light.WithPosition(p.Position[0], p.Position[1], p.Position[2]),
		))
	}
	return lights
}

// upload registers the pipelines and allocates every buffer and bind group. Providers are
// attached to their owners before allocation so that Release finds partial allocations.
func (s *scene) upload() error {
	if err := s.r.RegisterPipelines(pipeline.NewParticlePipeline(), pipeline.NewWireframePipeline()); err != nil {
		return err
	}
	if err := s.r.InitBindGroup(s.frameProvider, shader.FrameLayout()); err != nil {
		return err
	}
	for _, obj := range s.entities() {
		mdl := obj.Model()
		if err := s.r.InitMeshBuffers(mdl.MeshProvider(), mdl.VertexData(), mdl.IndexData(), mdl.IndexCount()); err != nil {
			return fmt.Errorf("upload %q: %w", mdl.Name(), err)
		}
		mat := mdl.Material()
		provider := bind_group_provider.NewBindGroupProvider(mdl.Name() + "_material")
		mat.SetBindGroupProvider(provider)
		if err := s.r.InitBindGroup(provider, shader.ObjectLayout()); err != nil {
			return fmt.Errorf("upload %q material: %w", mdl.Name(), err)
		}
	}
	return nil
}
