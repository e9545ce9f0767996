package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines the union interface for camera control systems.
// Controllers own positional state (position, target). Camera reads from controller
// and computes view/projection matrices. Embeds both orbitCameraController and
// planarCameraController so that orbiting and panning work from a single controller instance.
//
// Motions requested through the controller are pending until Update is called, which applies them
// with the configured damping. Update is expected to run once per rendered frame.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// SetPosition places the camera directly. The spherical state is derived from the offset to the target
	// and is only clamped to the configured bounds on the next Update.
	//
	// Parameters:
	//   - position: world-space coordinates
	SetPosition(position mgl32.Vec3)

	// Zoom queues a dolly of ZoomScale^delta. Positive delta moves the camera closer to the target.
	// Zoom is not damped; the whole dolly lands on the next Update.
	//
	// Parameters:
	//   - delta: number of zoom steps, typically the scroll wheel offset
	Zoom(delta float32)

	// Update applies pending motion and returns true when the camera moved.
	// With damping enabled only DampingFactor of the pending rotation and pan is applied,
	// and the remainder decays by (1 - DampingFactor).
	//
	// Returns:
	//   - bool: whether position or target changed
	Update() bool

	// DampingEnabled reports whether pending motion is eased over several updates.
	DampingEnabled() bool

	// DampingFactor returns the share of pending motion applied per Update.
	DampingFactor() float32

	// ZoomEnabled reports whether Zoom has any effect.
	ZoomEnabled() bool

	// ZoomScale returns the radius multiplier applied per zoom step (0.95 by default).
	ZoomScale() float32
}

// orbitCameraController defines orbit-specific control methods.
// Provides third-person orbit controls using spherical coordinates (radius, azimuth, polar)
// relative to the target/pivot point. The polar angle is measured from the world +Y axis.
type orbitCameraController interface {
	// RotateLeft queues a rotation around the world Y axis. Positive angles move the camera to its left.
	//
	// Parameters:
	//   - angle: rotation in radians
	RotateLeft(angle float32)

	// RotateUp queues a change of polar angle. Positive angles raise the camera.
	//
	// Parameters:
	//   - angle: rotation in radians
	RotateUp(angle float32)

	// Radius returns the current orbit radius (distance from target).
	Radius() float32

	// MinRadius returns the minimum allowed orbit radius.
	MinRadius() float32

	// MaxRadius returns the maximum allowed orbit radius.
	MaxRadius() float32

	// Azimuth returns the current horizontal angle in radians around the world Y axis.
	Azimuth() float32

	// Polar returns the current angle in radians between the world +Y axis and the camera offset.
	Polar() float32

	// MinPolar returns the minimum allowed polar angle.
	MinPolar() float32

	// MaxPolar returns the maximum allowed polar angle.
	MaxPolar() float32

	// RotateSpeed returns the multiplier applied to pointer driven rotation.
	RotateSpeed() float32
}

// planarCameraController defines translation of the target in the camera's screen plane.
type planarCameraController interface {
	// Pan queues a translation of the target and camera along the camera's right and up axes.
	//
	// Parameters:
	//   - right: world units along the camera's right vector
	//   - up: world units along the camera's up vector
	Pan(right, up float32)

	// PanSpeed returns the multiplier applied to pointer driven panning.
	PanSpeed() float32
}
