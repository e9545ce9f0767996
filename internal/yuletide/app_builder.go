package yuletide

import (
	"github.com/Carmen-Shannon/oxy-yuletide/engine/loader"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer"
	"github.com/rs/zerolog"
)

// AppBuilderOption is a functional option for configuring an App.
type AppBuilderOption func(*app)

// WithLogger sets the logger. Defaults to the global zerolog logger.
func WithLogger(logger zerolog.Logger) AppBuilderOption {
	return func(a *app) {
		a.logger = logger
	}
}

// WithRandom sets the source used for the tree-light jitter and the gift scales.
//
// Parameters:
//   - rnd: the random source
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRandom(rnd RandomSource) AppBuilderOption {
	return func(a *app) {
		a.random = rnd
	}
}

// WithRenderer sets the renderer Frame draws with. Without one, Frame only advances state.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) AppBuilderOption {
	return func(a *app) {
		a.renderer = r
	}
}

// WithLoader sets the loader textures and models come from.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithLoader(l loader.Loader) AppBuilderOption {
	return func(a *app) {
		a.loader = l
	}
}

// WithSize sets the initial surface size the camera aspect is derived from.
func WithSize(width, height int) AppBuilderOption {
	return func(a *app) {
		if width > 0 && height > 0 {
			a.width, a.height = width, height
		}
	}
}
