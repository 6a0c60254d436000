package camera

import (
	"sync"
)

// CameraController owns the camera's positional state. The camera reads position and
// target from it and computes view/projection matrices.
//
// The controller keeps the camera at a fixed distance in front of the XY plane and looking
// straight down -Z: moving laterally moves the target with it, so the view slides rather
// than swivels. Lateral motion is only ever applied through Follow, which smooths toward a
// target instead of snapping to it.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// Distance returns the camera's fixed distance from the XY plane.
	//
	// Returns:
	//   - float32: the z position of the camera
	Distance() float32

	// Follow moves the camera's x and y a fraction of the way toward (tx, ty):
	// axis += (target - axis) * factor. The factor is clamped to [0, 1], so the camera
	// approaches the target monotonically and never passes it.
	//
	// Parameters:
	//   - tx, ty: the lateral target
	//   - factor: the smoothing factor for this step
	Follow(tx, ty, factor float32)
}

// followController is the implementation of CameraController.
type followController struct {
	mu *sync.Mutex

	x, y     float32
	distance float32
}

// Compile-time interface compliance check
var _ CameraController = &followController{}

// NewCameraController creates a new pointer-follow controller positioned at (0, 0, 30).
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &followController{
		mu:       &sync.Mutex{},
		distance: 30,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *followController) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.x, cc.y, cc.distance
}

func (cc *followController) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.x, cc.y, 0
}

func (cc *followController) Distance() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.distance
}

func (cc *followController) Follow(tx, ty, factor float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	switch {
	case factor <= 0:
		return
	case factor > 1:
		factor = 1
	}
	cc.x += (tx - cc.x) * factor
	cc.y += (ty - cc.y) * factor
}
