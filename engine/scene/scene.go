package scene

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/game_object"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/light"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
)

// ErrReleased is returned by Render and Resize after the Scene has been released.
var ErrReleased = errors.New("scene: released")

// Input is everything one Frame Driver tick feeds into Advance.
type Input struct {
	// Elapsed is the monotonic time since activation; oscillations are a function of it.
	Elapsed time.Duration
	// Step is the number of reference frames this tick stands for: 1 under frame timing,
	// dt * reference Hz under elapsed timing.
	Step float32
	// PointerX and PointerY are the normalized pointer coordinates in [-1, 1], y up.
	PointerX, PointerY float32
	// ScrollFactor is the scroll offset divided by the reference distance.
	ScrollFactor float32
}

// Scene defines the interface for one activation's complete set of renderable entities,
// lights and camera.
//
// The particle field, the solids and the point lights are children of a single root whose
// Y rotation tracks scroll; the camera is outside the root. A Scene owns every GPU buffer and
// bind group it allocated and frees them all in Release. It does not own the Renderer.
type Scene interface {
	// Name returns the scene name, used as the prefix of its GPU resource labels.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Camera returns the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Lights returns the ambient light followed by the point lights.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// Root returns the entity every other entity and point light is parented to.
	//
	// Returns:
	//   - game_object.GameObject: the scene root
	Root() game_object.GameObject

	// Particles returns the particle field entity.
	//
	// Returns:
	//   - game_object.GameObject: the particle field
	Particles() game_object.GameObject

	// Solids returns the rotating solids in configuration order.
	//
	// Returns:
	//   - []game_object.GameObject: the solids
	Solids() []game_object.GameObject

	// Advance applies one tick of motion: entity motions, camera smoothing toward the
	// pointer target, and the scroll-driven root rotation.
	//
	// Parameters:
	//   - in: the tick input
	Advance(in Input)

	// Resize reconfigures the render surface and the camera aspect for a new viewport.
	// Zero dimensions are clamped to 1.
	//
	// Parameters:
	//   - viewport: the new viewport in CSS-equivalent pixels plus pixel ratio
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(viewport common.Viewport) error

	// Render uploads the frame's uniforms and draws every entity through the camera.
	//
	// Returns:
	//   - error: the first backend failure, wrapped
	Render() error

	// Release frees every GPU resource the Scene allocated. Every release is attempted;
	// calling Release again is a no-op.
	//
	// Returns:
	//   - error: an error naming any provider that still holds GPU handles afterwards
	Release() error

	// Released reports whether Release has been called.
	//
	// Returns:
	//   - bool: true after Release
	Released() bool
}

type scene struct {
	mu *sync.Mutex

	name     string
	released bool

	r   renderer.Renderer
	cam camera.Camera

	frameProvider bind_group_provider.BindGroupProvider

	root      game_object.GameObject
	particles game_object.GameObject
	solids    []game_object.GameObject
	lights    []light.Light

	smoothing    float32
	pointerScale float32
	scrollScale  float32

	// Pre-allocated slices reused each frame to avoid per-frame allocations.
	writePool          []bind_group_provider.BufferWrite
	drawBindGroupsPool []bind_group_provider.BindGroupProvider
}

var _ Scene = &scene{}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Lights() []light.Light {
	return s.lights
}

func (s *scene) Root() game_object.GameObject {
	return s.root
}

func (s *scene) Particles() game_object.GameObject {
	return s.particles
}

func (s *scene) Solids() []game_object.GameObject {
	return s.solids
}

// entities returns the drawable entities in draw order: opaque wireframes before the
// additive particle field.
func (s *scene) entities() []game_object.GameObject {
	out := make([]game_object.GameObject, 0, len(s.solids)+1)
	out = append(out, s.solids...)
	if s.particles != nil {
		out = append(out, s.particles)
	}
	return out
}

// SmoothingFactor converts a per-reference-frame smoothing factor k into the factor for a
// tick of step reference frames, 1 - (1 - k)^step, so that elapsed-time ticks converge at
// the same wall-clock rate as frame ticks at the reference rate.
//
// Parameters:
//   - k: the per-frame factor in (0, 1]
//   - step: the tick size in reference frames
//
// Returns:
//   - float32: the factor to apply this tick, in [0, 1]
func SmoothingFactor(k, step float32) float32 {
	if step == 1 {
		return k
	}
	if step <= 0 {
		return 0
	}
	return common.Clamp(float32(1-math.Pow(float64(1-k), float64(step))), 0, 1)
}

func (s *scene) Advance(in Input) {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := in.Step
	for _, obj := range s.entities() {
		obj.Advance(step, in.Elapsed)
	}

	// The camera leads the cursor: the vertical target is sign-flipped.
	tx := in.PointerX * s.pointerScale
	ty := -in.PointerY * s.pointerScale
	s.cam.Controller().Follow(tx, ty, SmoothingFactor(s.smoothing, step))
	s.cam.Update()

	// Direct assignment: the root rotation is a pure function of the current scroll factor.
	s.root.SetRotation(0, in.ScrollFactor*s.scrollScale, 0)
}

func (s *scene) Resize(viewport common.Viewport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}

	v := viewport.Clamped()
	s.cam.SetAspect(v.Aspect())
	w, h := v.SurfaceSize()
	if err := s.r.Resize(w, h); err != nil {
		return fmt.Errorf("resize scene %q to %dx%d: %w", s.name, w, h, err)
	}
	return nil
}

func (s *scene) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}

	rootMatrix := s.root.ModelMatrix()
	camUniform := s.cam.Uniform()
	lightsUniform := light.PackLights(s.lights, rootMatrix[:])

	writes := s.writePool[:0]
	writes = append(writes,
		bind_group_provider.BufferWrite{Provider: s.frameProvider, Binding: 0, Data: camUniform.Marshal()},
		bind_group_provider.BufferWrite{Provider: s.frameProvider, Binding: 1, Data: lightsUniform.Marshal()},
	)
	var world [16]float32
	for _, obj := range s.entities() {
		mdl := obj.Model()
		if mdl == nil || mdl.Material() == nil || !obj.Enabled() {
			continue
		}
		local := obj.ModelMatrix()
		common.Mul4(world[:], rootMatrix[:], local[:])
		u := mdl.Material().Uniform(world[:])
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: mdl.Material().BindGroupProvider(),
			Binding:  0,
			Data:     u.Marshal(),
		})
	}
	s.writePool = writes
	if err := s.r.WriteBuffers(writes); err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}

	if err := s.r.BeginFrame(); err != nil {
		return fmt.Errorf("scene %q: begin frame: %w", s.name, err)
	}
	if err := s.drawCalls(); err != nil {
		// Close the pass so the backend is left consistent for teardown.
		return errors.Join(err, s.r.EndFrame())
	}
	if err := s.r.EndFrame(); err != nil {
		return fmt.Errorf("scene %q: end frame: %w", s.name, err)
	}
	s.r.Present()
	return nil
}

// drawCalls issues one draw per enabled entity. Caller must hold the mutex.
func (s *scene) drawCalls() error {
	for _, obj := range s.entities() {
		mdl := obj.Model()
		if mdl == nil || !obj.Enabled() {
			continue
		}
		mat := mdl.Material()
		if mat == nil || mat.BindGroupProvider() == nil {
			continue
		}

		bindGroups := append(s.drawBindGroupsPool[:0], s.frameProvider, mat.BindGroupProvider())
		s.drawBindGroupsPool = bindGroups
		if err := s.r.DrawCall(mdl.PipelineKey(), mdl.MeshProvider(), uint32(mdl.InstanceCount()), bindGroups); err != nil {
			return fmt.Errorf("draw call failed for %q in scene %q: %w", mdl.Name(), s.name, err)
		}
	}
	return nil
}

func (s *scene) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	s.released = true

	var errs []error
	for _, obj := range s.entities() {
		mdl := obj.Model()
		if mdl == nil {
			continue
		}
		mdl.Release()
		if n := mdl.MeshProvider().Live(); n != 0 {
			errs = append(errs, fmt.Errorf("scene %q: mesh %q holds %d handles after release", s.name, mdl.Name(), n))
		}
	}
	if s.frameProvider != nil {
		s.frameProvider.Release()
		if n := s.frameProvider.Live(); n != 0 {
			errs = append(errs, fmt.Errorf("scene %q: frame provider holds %d handles after release", s.name, n))
		}
	}
	return errors.Join(errs...)
}

func (s *scene) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}
