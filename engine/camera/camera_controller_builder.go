package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a camera controller.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: distance from target
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
		cc.updatePosition()
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
		cc.updatePosition()
	}
}

// WithPolar sets the initial angle from the world +Y axis.
//
// Parameters:
//   - polar: angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the polar angle
func WithPolar(polar float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.polar = polar
		cc.updatePosition()
	}
}

// WithTarget sets the look-at/pivot point. The spherical state is kept so the camera moves with it.
//
// Parameters:
//   - target: world-space target
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
		cc.updatePosition()
	}
}

// WithPosition places the camera and derives radius, azimuth and polar angle from the offset to the target.
// Apply it after WithTarget. Bounds are enforced on the first Update.
//
// Parameters:
//   - position: world-space camera position
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(position mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = position
		cc.updateSpherical()
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - min: minimum radius
//   - max: maximum radius
//
// Returns:
//   - CameraControllerOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithPolarBounds sets the allowed range of the polar angle in radians.
//
// Parameters:
//   - min: smallest angle from +Y
//   - max: largest angle from +Y
//
// Returns:
//   - CameraControllerOption: functional option to set polar bounds
func WithPolarBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minPolar = min
		cc.maxPolar = max
	}
}

// WithDamping enables damping with the given factor. A factor outside (0, 1] disables damping.
//
// Parameters:
//   - factor: share of pending motion applied per update
//
// Returns:
//   - CameraControllerOption: functional option to configure damping
func WithDamping(factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if factor <= 0 || factor > 1 {
			cc.enableDamping = false
			return
		}
		cc.enableDamping = true
		cc.dampingFactor = factor
	}
}

// WithZoom enables or disables zooming.
func WithZoom(enabled bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.enableZoom = enabled
	}
}

// WithZoomScale sets the radius multiplier applied per zoom step.
//
// Parameters:
//   - scale: multiplier in (0, 1)
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom scale
func WithZoomScale(scale float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if scale > 0 && scale < 1 {
			cc.zoomScale = scale
		}
	}
}

// WithRotateSpeed sets the multiplier applied to pointer driven rotation.
func WithRotateSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotateSpeed = speed
	}
}

// WithPanSpeed sets the multiplier applied to pointer driven panning.
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}
