package camera

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// polarEpsilon keeps the polar angle away from the poles where the look-at basis degenerates.
const polarEpsilon = 1e-6

// changeEpsilon is the squared distance below which Update reports no movement.
const changeEpsilon = 1e-6

type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	radius  float32
	azimuth float32 // horizontal angle around Y axis
	polar   float32 // angle from +Y

	minRadius float32
	maxRadius float32
	minPolar  float32
	maxPolar  float32

	enableDamping bool
	dampingFactor float32
	enableZoom    bool
	zoomScale     float32
	rotateSpeed   float32
	panSpeed      float32

	// pending motion, consumed by Update
	deltaAzimuth float32
	deltaPolar   float32
	panOffset    mgl32.Vec3
	scale        float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a damped orbit controller.
// Defaults: target at origin, radius 10 on the +Z axis, polar range [0, pi], damping off,
// zoom enabled with a 0.95 step, rotate and pan speed 1.
//
// Parameters:
//   - options: variadic list of CameraControllerOption functions
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:            &sync.Mutex{},
		radius:        10,
		azimuth:       0,
		polar:         math32.Pi / 2,
		minRadius:     0,
		maxRadius:     math32.MaxFloat32,
		minPolar:      0,
		maxPolar:      math32.Pi,
		dampingFactor: 0.05,
		enableZoom:    true,
		zoomScale:     0.95,
		rotateSpeed:   1,
		panSpeed:      1,
		scale:         1,
	}
	cc.updatePosition()

	for _, option := range options {
		option(cc)
	}
	return cc
}

// NewOrbitController is an alias for NewCameraController.
func NewOrbitController(options ...CameraControllerOption) CameraController {
	return NewCameraController(options...)
}

// updatePosition places the camera from the spherical state around the target.
func (cc *cameraControllerImpl) updatePosition() {
	sinP, cosP := math32.Sincos(cc.polar)
	sinA, cosA := math32.Sincos(cc.azimuth)
	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * sinP * sinA,
		cc.radius * cosP,
		cc.radius * sinP * cosA,
	})
}

// updateSpherical derives the spherical state from the current position and target.
func (cc *cameraControllerImpl) updateSpherical() {
	offset := cc.position.Sub(cc.target)
	cc.radius = offset.Len()
	if cc.radius == 0 {
		cc.azimuth = 0
		cc.polar = 0
		return
	}
	cc.azimuth = math32.Atan2(offset[0], offset[2])
	cc.polar = math32.Acos(mgl32.Clamp(offset[1]/cc.radius, -1, 1))
}

// localAxes returns the camera's right and up vectors for a world up of +Y.
// Both are zero when the camera sits on the target.
func (cc *cameraControllerImpl) localAxes() (right, up mgl32.Vec3) {
	back := cc.position.Sub(cc.target)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()

	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		// looking straight down or up: derive right from the azimuth instead
		sinA, cosA := math32.Sincos(cc.azimuth)
		right = mgl32.Vec3{cosA, 0, -sinA}
	}
	right = right.Normalize()
	up = back.Cross(right)
	return
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(position mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = position
	cc.updateSpherical()
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enableZoom || delta == 0 {
		return
	}
	cc.scale *= math32.Pow(cc.zoomScale, delta)
}

func (cc *cameraControllerImpl) RotateLeft(angle float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaAzimuth -= angle
}

func (cc *cameraControllerImpl) RotateUp(angle float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaPolar -= angle
}

func (cc *cameraControllerImpl) Pan(right, up float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	r, u := cc.localAxes()
	cc.panOffset = cc.panOffset.Add(r.Mul(right)).Add(u.Mul(up))
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	prevPosition, prevTarget := cc.position, cc.target

	if cc.enableDamping {
		cc.azimuth += cc.deltaAzimuth * cc.dampingFactor
		cc.polar += cc.deltaPolar * cc.dampingFactor
	} else {
		cc.azimuth += cc.deltaAzimuth
		cc.polar += cc.deltaPolar
	}

	cc.polar = mgl32.Clamp(cc.polar, cc.minPolar, cc.maxPolar)
	cc.polar = mgl32.Clamp(cc.polar, polarEpsilon, math32.Pi-polarEpsilon)

	cc.radius = mgl32.Clamp(cc.radius*cc.scale, cc.minRadius, cc.maxRadius)

	if cc.enableDamping {
		cc.target = cc.target.Add(cc.panOffset.Mul(cc.dampingFactor))
	} else {
		cc.target = cc.target.Add(cc.panOffset)
	}

	cc.updatePosition()

	if cc.enableDamping {
		decay := 1 - cc.dampingFactor
		cc.deltaAzimuth *= decay
		cc.deltaPolar *= decay
		cc.panOffset = cc.panOffset.Mul(decay)
	} else {
		cc.deltaAzimuth = 0
		cc.deltaPolar = 0
		cc.panOffset = mgl32.Vec3{}
	}
	cc.scale = 1

	moved := cc.position.Sub(prevPosition)
	shifted := cc.target.Sub(prevTarget)
	return moved.Dot(moved) > changeEpsilon || shifted.Dot(shifted) > changeEpsilon
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Polar() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.polar
}

func (cc *cameraControllerImpl) MinPolar() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minPolar
}

func (cc *cameraControllerImpl) MaxPolar() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxPolar
}

func (cc *cameraControllerImpl) RotateSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotateSpeed
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

func (cc *cameraControllerImpl) DampingEnabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enableDamping
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingFactor
}

func (cc *cameraControllerImpl) ZoomEnabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enableZoom
}

func (cc *cameraControllerImpl) ZoomScale() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomScale
}
