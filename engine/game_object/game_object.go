package game_object

import (
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
)

type gameObject struct {
	id      uint64
	name    string
	enabled atomic.Bool
	mdl     model.Model
	motion  Motion

	position [3]float32
	rotation [3]float32
	scale    [3]float32
}

// GameObject defines the interface for a scene entity: an optional Model placed by a
// position/rotation/scale transform and animated by a declarative Motion.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Motion returns the object's motion descriptor.
	//
	// Returns:
	//   - Motion: the motion
	Motion() Motion

	// Position returns the object's position relative to its parent.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Rotation returns the object's Euler rotation in radians, applied in XYZ order.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles
	Rotation() (rx, ry, rz float32)

	// Scale returns the object's scale.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// ModelMatrix composes the object's transform into a column-major matrix.
	//
	// Returns:
	//   - [16]float32: the local model matrix
	ModelMatrix() [16]float32

	// Advance applies one tick of the object's Motion: each rotation axis grows by
	// RotationRate * step, and the oscillating axis, if any, is assigned from elapsed.
	//
	// Parameters:
	//   - step: the number of reference frames this tick represents
	//   - elapsed: the time since activation
	Advance(step float32, elapsed time.Duration)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetModel assigns a Model to this object.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// SetMotion replaces the object's motion descriptor.
	//
	// Parameters:
	//   - m: the motion
	SetMotion(m Motion)

	// SetPosition sets the object's position.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// SetRotation sets the object's rotation.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation angles
	SetRotation(rx, ry, rz float32)

	// SetScale sets the object's scale.
	//
	// Parameters:
	//   - sx, sy, sz: new scale factors
	SetScale(sx, sy, sz float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject at the origin with unit scale,
// configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Motion() Motion {
	return g.motion
}

func (g *gameObject) Position() (x, y, z float32) {
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	return g.rotation[0], g.rotation[1], g.rotation[2]
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	return g.scale[0], g.scale[1], g.scale[2]
}

func (g *gameObject) ModelMatrix() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:],
		g.position[0], g.position[1], g.position[2],
		g.rotation[0], g.rotation[1], g.rotation[2],
		g.scale[0], g.scale[1], g.scale[2],
	)
	return m
}

func (g *gameObject) Advance(step float32, elapsed time.Duration) {
	for i, rate := range g.motion.RotationRate {
		g.rotation[i] += rate * step
	}
	if o := g.motion.Oscillation; o != nil && o.Axis >= 0 && o.Axis < 3 {
		g.position[o.Axis] = o.Value(elapsed)
	}
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
}

func (g *gameObject) SetMotion(m Motion) {
	g.motion = m
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.position = [3]float32{x, y, z}
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.rotation = [3]float32{rx, ry, rz}
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.scale = [3]float32{sx, sy, sz}
}
