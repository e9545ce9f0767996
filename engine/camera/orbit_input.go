package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// MouseButton identifies the pointer button driving an orbit gesture.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

type dragMode int

const (
	dragNone dragMode = iota
	dragRotate
	dragPan
)

// OrbitInput translates window pointer events into controller motions.
// Left drag rotates, right drag pans and the wheel zooms. A full drag across the viewport
// height rotates by one full turn times the controller's rotate speed.
type OrbitInput struct {
	mu *sync.Mutex

	camera Camera

	mode  dragMode
	lastX float64
	lastY float64

	viewportHeight float32
}

// NewOrbitInput creates an input adapter for the camera's controller.
//
// Parameters:
//   - cam: the camera whose controller receives motions
//   - viewportHeight: the current drawable height in pixels
//
// Returns:
//   - *OrbitInput: the input adapter
func NewOrbitInput(cam Camera, viewportHeight int) *OrbitInput {
	in := &OrbitInput{mu: &sync.Mutex{}, camera: cam}
	in.SetViewportHeight(viewportHeight)
	return in
}

// SetViewportHeight updates the pixel height used to scale drags. Non-positive heights are ignored.
func (in *OrbitInput) SetViewportHeight(height int) {
	if height <= 0 {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.viewportHeight = float32(height)
}

// ButtonDown starts a gesture at the given cursor position.
//
// Parameters:
//   - button: the pressed button
//   - x, y: cursor position in pixels
func (in *OrbitInput) ButtonDown(button MouseButton, x, y float64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	switch button {
	case MouseLeft:
		in.mode = dragRotate
	case MouseRight, MouseMiddle:
		in.mode = dragPan
	default:
		return
	}
	in.lastX, in.lastY = x, y
}

// ButtonUp ends any gesture in progress.
func (in *OrbitInput) ButtonUp(MouseButton) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.mode = dragNone
}

// CursorMove feeds a cursor position. Motion is only forwarded while a button is held.
//
// Parameters:
//   - x, y: cursor position in pixels
func (in *OrbitInput) CursorMove(x, y float64) {
	in.mu.Lock()
	dx := float32(x - in.lastX)
	dy := float32(y - in.lastY)
	in.lastX, in.lastY = x, y
	mode, height := in.mode, in.viewportHeight
	in.mu.Unlock()

	ctrl := in.camera.Controller()
	if ctrl == nil || height <= 0 || mode == dragNone {
		return
	}

	switch mode {
	case dragRotate:
		speed := ctrl.RotateSpeed()
		ctrl.RotateLeft(2 * math32.Pi * dx / height * speed)
		ctrl.RotateUp(2 * math32.Pi * dy / height * speed)
	case dragPan:
		// world units covered by half the viewport height at the target distance
		targetDistance := ctrl.Position().Sub(ctrl.Target()).Len() * math32.Tan(in.camera.Fov()/2)
		speed := ctrl.PanSpeed()
		ctrl.Pan(-2*dx*targetDistance/height*speed, 2*dy*targetDistance/height*speed)
	}
}

// Scroll forwards a wheel offset. Positive offsets (wheel up) zoom in.
func (in *OrbitInput) Scroll(yOffset float64) {
	ctrl := in.camera.Controller()
	if ctrl == nil {
		return
	}
	ctrl.Zoom(float32(yOffset))
}
