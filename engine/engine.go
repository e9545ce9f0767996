package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-yuletide/engine/profiler"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/window"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// engine implements the Engine interface.
// The window, the GPU and the scene all live on the goroutine that calls Run.
type engine struct {
	mu sync.Mutex

	running  bool
	quitOnce sync.Once

	window window.Window
	logger zerolog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback func(deltaTime float32)
	closeCallback func()

	lastFrame        time.Time
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	sleep            func(time.Duration)
	now              func() time.Time
}

// Engine is the main entry point for the engine.
// It drives the frame loop on the window's message loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers the function called once per display frame.
	// Use this to merge finished work, advance controllers and render.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous frame in seconds
	SetFrameCallback(callback func(deltaTime float32))

	// SetCloseCallback registers the function called once after the loop stops.
	//
	// Parameters:
	//   - callback: function to call on shutdown
	SetCloseCallback(callback func())

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default); with vsync the display then paces it.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Step runs a single frame. Run calls it from the window's message loop.
	Step()

	// Running reports whether Run is active and Quit has not been called.
	Running() bool

	// Run starts the frame loop and blocks until the window closes or Quit is called.
	Run()

	// Quit stops the frame loop and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, frame limit)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger: log.Logger,
		sleep:  time.Sleep,
		now:    time.Now,
	}

	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(e.logger)
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *engine) Run() {
	if e.window == nil {
		panic("engine has no window")
	}

	e.mu.Lock()
	e.running = true
	e.lastFrame = e.now()
	e.mu.Unlock()

	e.window.SetUpdateCallback(e.Step)
	e.window.ProcessMessages()

	e.Quit()
}

// Quit signals the loop to stop and closes the window.
// Uses sync.Once to ensure shutdown only happens once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()

		if e.window != nil {
			e.window.SetUpdateCallback(nil)
			if err := e.window.Close(); err != nil {
				e.logger.Debug().Err(err).Msg("window close")
			}
		}
		if e.closeCallback != nil {
			e.closeCallback()
		}
	})
}

// Step runs the frame callback, ticks the profiler and then sleeps off the remainder of the frame
// budget when a frame limit is set. A panic in the callback is logged and stops the engine.
func (e *engine) Step() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Str("panic", fmt.Sprint(r)).Msg("frame recovered from panic")
			e.Quit()
		}
	}()

	start := e.now()
	e.mu.Lock()
	if e.lastFrame.IsZero() {
		e.lastFrame = start
	}
	dt := float32(start.Sub(e.lastFrame).Seconds())
	e.lastFrame = start
	limit := e.renderFrameLimit
	profiling := e.profilingEnabled
	e.mu.Unlock()

	if e.frameCallback != nil {
		e.frameCallback(dt)
	}

	if profiling {
		e.profiler.Tick()
	}

	if limit > 0 {
		if remaining := limit - e.now().Sub(start); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetFrameCallback registers the function called each frame.
func (e *engine) SetFrameCallback(callback func(deltaTime float32)) {
	e.frameCallback = callback
}

// SetCloseCallback registers the function called on shutdown.
func (e *engine) SetCloseCallback(callback func()) {
	e.closeCallback = callback
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameDuration(fps)
}

// frameDuration converts a frame rate into the minimum duration of one frame, 0 for uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
