package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*followController)

// WithDistance sets the camera's distance from the XY plane. Non-positive values are ignored.
//
// Parameters:
//   - distance: the z position of the camera
//
// Returns:
//   - CameraControllerOption: functional option to set the distance
func WithDistance(distance float32) CameraControllerOption {
	return func(cc *followController) {
		if distance > 0 {
			cc.distance = distance
		}
	}
}

// WithOffset sets the initial lateral position of the camera.
//
// Parameters:
//   - x, y: the lateral position
//
// Returns:
//   - CameraControllerOption: functional option to set the starting offset
func WithOffset(x, y float32) CameraControllerOption {
	return func(cc *followController) {
		cc.x, cc.y = x, y
	}
}
