package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
)

// CameraBuilderOption is a functional option applied to a camera during NewCamera.
type CameraBuilderOption func(*cameraImpl)

// WithFieldOfView sets the vertical field of view. Values outside (0, 180) are ignored.
//
// Parameters:
//   - degrees: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFieldOfView(degrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if degrees > 0 && degrees < 180 {
			c.fov = degrees * math.Pi / 180
		}
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
// A non-positive or non-finite aspect is replaced with 1.
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = sanitizeAspect(aspect)
	}
}

// WithClipPlanes sets the near and far clipping plane distances. The pair is ignored
// unless 0 < near < far.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if near > 0 && far > near {
			c.near, c.far = near, far
		}
	}
}

// WithController attaches a controller to the camera.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}

// WithBindGroupProvider attaches the provider that holds the frame uniforms
// (camera at binding 0, lights at binding 1).
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the bind group provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}
