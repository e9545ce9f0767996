package yuletide

import (
	"context"

	"github.com/Carmen-Shannon/oxy-yuletide/engine/camera"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/loader"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/scene"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/window"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type app struct {
	logger zerolog.Logger

	scene      scene.Scene
	camera     camera.Camera
	controller camera.CameraController
	input      *camera.OrbitInput
	renderer   renderer.Renderer
	loader     loader.Loader
	random     RandomSource

	window    window.Window
	resizeSub window.ResizeSubscription

	width, height int
	assembled     bool
	base          int
	loads         []*modelLoad
}

// App owns the holiday scene and everything needed to draw it: the scene graph, the orbit camera,
// the renderer and the model loads still in flight. All methods must be called from the render goroutine.
type App interface {
	// Scene returns the scene graph.
	Scene() scene.Scene

	// Camera returns the orbit camera.
	Camera() camera.Camera

	// Assemble builds the static scene and submits the model loads. Calling it again has no effect.
	// Lights, skybox, ground and tree are attached immediately; ornaments, gifts and the snowman are
	// attached by Sync once their loads resolve.
	Assemble()

	// Pending returns the number of model loads not yet merged into the scene.
	Pending() int

	// Sync merges every resolved model load into the scene. A load still running delays only its own
	// subtree. Each load owns a fixed slot among the top-level nodes, following the loads submitted
	// before it, so the final child order does not depend on completion order. Failed loads are logged
	// at debug level and dropped without retry.
	//
	// Returns:
	//   - int: the number of subtrees attached
	Sync() int

	// AwaitLoads blocks until every submitted load has resolved or the context ends, then syncs.
	//
	// Parameters:
	//   - ctx: bounds the wait
	//
	// Returns:
	//   - error: the context error if the wait was abandoned
	AwaitLoads(ctx context.Context) error

	// Frame runs one tick of the render loop: sync, advance the damped controller, refresh the camera
	// and draw the scene.
	//
	// Parameters:
	//   - dt: seconds since the previous frame, unused by the damping which is per frame
	Frame(dt float32)

	// Bind subscribes to the window's resize notifications and routes pointer input to the orbit
	// controller. A previously bound window is released first.
	//
	// Parameters:
	//   - w: the window to bind
	Bind(w window.Window)

	// Resize sets the camera aspect to width/height and reconfigures the renderer surface.
	// Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	Resize(width, height int)

	// Close unsubscribes from the bound window. Pending loads are abandoned.
	Close()
}

var _ App = &app{}

// NewApp creates the App with an empty scene and the orbit camera. A loader is created when none is given.
//
// Parameters:
//   - options: variadic list of AppBuilderOption functions
//
// Returns:
//   - App: the new App
func NewApp(options ...AppBuilderOption) App {
	a := &app{
		logger: log.Logger,
		width:  1,
		height: 1,
	}
	for _, opt := range options {
		opt(a)
	}

	if a.random == nil {
		a.random = NewRandom(nil)
	}
	if a.loader == nil {
		a.loader = loader.NewLoader(loader.WithLogger(a.logger))
	}

	a.scene = scene.NewScene(scene.WithSceneName("yuletide"))
	a.controller = camera.NewCameraController(
		camera.WithTarget(mgl32.Vec3{0, 0, 0}),
		camera.WithPosition(mgl32.Vec3{0, -4, 10}),
		camera.WithDamping(0.1),
		camera.WithZoom(true),
		camera.WithPolarBounds(0, math32.Pi/2-0.1),
	)
	a.camera = camera.NewCamera(
		camera.WithFovDegrees(75),
		camera.WithAspect(float32(a.width)/float32(a.height)),
		camera.WithNear(0.1),
		camera.WithFar(1000),
		camera.WithController(a.controller),
	)
	a.input = camera.NewOrbitInput(a.camera, a.height)
	return a
}

func (a *app) Scene() scene.Scene {
	return a.scene
}

func (a *app) Camera() camera.Camera {
	return a.camera
}

func (a *app) Assemble() {
	if a.assembled {
		return
	}
	a.assembled = true

	a.addLights()
	a.addSkybox()
	a.addGround()
	a.addTree()
	a.base = a.scene.ChildCount()
	a.submitOrnaments()
	a.submitGifts()
	a.submitSnowman()

	a.logger.Info().Int("nodes", a.scene.ChildCount()).Int("loads", len(a.loads)).Msg("scene assembled")
}

func (a *app) Pending() int {
	pending := 0
	for _, ld := range a.loads {
		if !ld.done {
			pending++
		}
	}
	return pending
}

func (a *app) Sync() int {
	merged := 0
	at := a.base
	for _, ld := range a.loads {
		if ld.done || !ld.task.Ready() {
			at += ld.placed
			continue
		}
		ld.done = true
		attach := ld.attach
		ld.attach = nil

		node, err := ld.task.Result()
		if err != nil {
			a.logger.Debug().Err(err).Str("load", ld.name).Msg("model load failed, skipping")
			continue
		}
		nodes := attach(node)
		a.scene.Insert(at, nodes...)
		ld.placed = len(nodes)
		at += ld.placed
		merged++
	}
	return merged
}

func (a *app) AwaitLoads(ctx context.Context) error {
	for _, ld := range a.loads {
		select {
		case <-ld.task.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	a.Sync()
	return nil
}

func (a *app) Frame(dt float32) {
	a.Sync()
	a.controller.Update()
	a.camera.Update()

	if a.renderer == nil {
		return
	}
	if err := a.renderer.Render(a.scene.Collect(), a.camera); err != nil {
		a.logger.Warn().Err(err).Msg("frame dropped")
	}
}

func (a *app) Bind(w window.Window) {
	a.Close()
	a.window = w
	a.resizeSub = w.SubscribeResize(a.Resize)

	w.SetMouseButtonCallback(func(button window.MouseButton, pressed bool, x, y float64) {
		b, ok := orbitButton(button)
		if !ok {
			return
		}
		if pressed {
			a.input.ButtonDown(b, x, y)
		} else {
			a.input.ButtonUp(b)
		}
	})
	w.SetMouseMoveCallback(a.input.CursorMove)
	w.SetScrollCallback(func(delta float32) {
		a.input.Scroll(float64(delta))
	})

	a.Resize(w.Width(), w.Height())
}

func orbitButton(b window.MouseButton) (camera.MouseButton, bool) {
	switch b {
	case window.MouseButtonLeft:
		return camera.MouseLeft, true
	case window.MouseButtonRight:
		return camera.MouseRight, true
	case window.MouseButtonMiddle:
		return camera.MouseMiddle, true
	}
	return 0, false
}

func (a *app) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.width, a.height = width, height
	a.camera.SetAspect(float32(width) / float32(height))
	a.input.SetViewportHeight(height)
	if a.renderer != nil {
		a.renderer.Resize(width, height)
	}
}

func (a *app) Close() {
	if a.window == nil {
		return
	}
	a.window.Unsubscribe(a.resizeSub)
	a.window.SetMouseButtonCallback(nil)
	a.window.SetMouseMoveCallback(nil)
	a.window.SetScrollCallback(nil)
	a.window = nil
	a.resizeSub = 0
}
