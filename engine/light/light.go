package light

import (
	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient adds a constant color to every lit fragment regardless of position or normal.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a light with no falloff that shines from its position
	// toward its target. Used for distant sources like the sun or moon.
	LightTypeDirectional

	// LightTypePoint represents a light that emits in all directions from a position.
	// It fades to zero at its range following its decay exponent. A zero range never fades.
	LightTypePoint
)

// String returns the lowercase name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType  LightType
	color      common.Color
	intensity  float32
	lightRange float32
	decay      float32
	target     mgl32.Vec3
	enabled    bool
}

// Light defines the interface for a light source payload.
//
// A Light carries only the emission parameters. Where the light is comes from the scene node
// it is attached to: the scene resolves world positions when it collects lights for a frame,
// and MarshalLightBuffer packs the resulting instances for the GPU.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Color returns the linear RGB color of the light.
	//
	// Returns:
	//   - common.Color: the color
	Color() common.Color

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the distance at which a point light's contribution reaches zero. Zero means unlimited.
	//
	// Returns:
	//   - float32: the cutoff distance
	Range() float32

	// Decay returns the falloff exponent applied between the light and its range.
	//
	// Returns:
	//   - float32: the decay exponent
	Decay() float32

	// Target returns the world-space point a directional light shines toward.
	//
	// Returns:
	//   - mgl32.Vec3: the target point
	Target() mgl32.Vec3

	// Enabled reports whether the light contributes to rendering.
	//
	// Returns:
	//   - bool: true when enabled
	Enabled() bool

	// SetColor sets the linear RGB color.
	//
	// Parameters:
	//   - c: the color
	SetColor(c common.Color)

	// SetIntensity sets the intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity
	SetIntensity(intensity float32)

	// SetEnabled toggles the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Clone returns an independent copy of the light.
	//
	// Returns:
	//   - Light: the copy
	Clone() Light
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the given type with the provided options applied.
// Defaults are white, intensity 1, unlimited range, decay 1, target at the origin and enabled.
//
// Parameters:
//   - lightType: the kind of light
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the configured light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		color:     common.White,
		intensity: 1,
		decay:     1,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewAmbient creates an ambient light from a 0xRRGGBB sRGB color and an intensity.
func NewAmbient(hex uint32, intensity float32) Light {
	return NewLight(LightTypeAmbient, WithHexColor(hex), WithIntensity(intensity))
}

// NewDirectional creates a directional light aimed at the origin from a 0xRRGGBB sRGB color and an intensity.
func NewDirectional(hex uint32, intensity float32) Light {
	return NewLight(LightTypeDirectional, WithHexColor(hex), WithIntensity(intensity))
}

// NewPoint creates a point light from a 0xRRGGBB sRGB color, an intensity and a cutoff distance.
func NewPoint(hex uint32, intensity, distance float32) Light {
	return NewLight(LightTypePoint, WithHexColor(hex), WithIntensity(intensity), WithRange(distance))
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) Decay() float32 {
	return l.decay
}

func (l *lightImpl) Target() mgl32.Vec3 {
	return l.target
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetColor(c common.Color) {
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) Clone() Light {
	c := *l
	return &c
}
