package light

import (
	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a functional option for configuring a Light via NewLight.
type LightBuilderOption func(*lightImpl)

// WithColor sets the linear RGB color of the light.
//
// Parameters:
//   - c: the color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option
func WithColor(c common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithHexColor sets the color from a 0xRRGGBB sRGB value.
//
// Parameters:
//   - hex: the packed sRGB color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option
func WithHexColor(hex uint32) LightBuilderOption {
	return WithColor(common.HexColor(hex))
}

// WithIntensity sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange sets the cutoff distance of a point light. Negative values are treated as zero (unlimited).
//
// Parameters:
//   - lightRange: the cutoff distance
//
// Returns:
//   - LightBuilderOption: a function that applies the range option
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = max(lightRange, 0)
	}
}

// WithDecay sets the falloff exponent.
//
// Parameters:
//   - decay: the decay exponent
//
// Returns:
//   - LightBuilderOption: a function that applies the decay option
func WithDecay(decay float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.decay = decay
	}
}

// WithTarget sets the world-space point a directional light shines toward.
//
// Parameters:
//   - x, y, z: the target point
//
// Returns:
//   - LightBuilderOption: a function that applies the target option
func WithTarget(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = mgl32.Vec3{x, y, z}
	}
}

// WithEnabled sets whether the light starts enabled.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
