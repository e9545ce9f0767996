package material

import (
	"github.com/Carmen-Shannon/oxy-yuletide/common"
)

// MaterialBuilderOption is a functional option for configuring a Material via NewMaterial.
type MaterialBuilderOption func(*material)

// WithName sets the material identifier.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithKind sets the shading model.
//
// Parameters:
//   - kind: the shading model
//
// Returns:
//   - MaterialBuilderOption: a function that applies the kind option to a material
func WithKind(kind Kind) MaterialBuilderOption {
	return func(m *material) {
		m.kind = kind
	}
}

// WithColor sets the linear base color.
//
// Parameters:
//   - color: the base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithHexColor sets the base color from a 0xRRGGBB sRGB value.
//
// Parameters:
//   - hex: the packed sRGB color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithHexColor(hex uint32) MaterialBuilderOption {
	return WithColor(common.HexColor(hex))
}

// WithEmissive sets the linear emitted color.
//
// Parameters:
//   - color: the emissive color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.emissive = color
	}
}

// WithOpacity sets the opacity.
//
// Parameters:
//   - opacity: the opacity, clamped to [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = common.Clamp01(opacity)
	}
}

// WithTransparent enables alpha blending.
//
// Parameters:
//   - transparent: true to blend
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transparent option to a material
func WithTransparent(transparent bool) MaterialBuilderOption {
	return func(m *material) {
		m.transparent = transparent
	}
}

// WithAlphaTest sets the alpha cutoff.
//
// Parameters:
//   - cutoff: fragments with alpha below this value are discarded
//
// Returns:
//   - MaterialBuilderOption: a function that applies the alpha test option to a material
func WithAlphaTest(cutoff float32) MaterialBuilderOption {
	return func(m *material) {
		m.alphaTest = cutoff
	}
}

// WithSide sets which faces are rasterized.
//
// Parameters:
//   - side: the rasterized side
//
// Returns:
//   - MaterialBuilderOption: a function that applies the side option to a material
func WithSide(side Side) MaterialBuilderOption {
	return func(m *material) {
		m.side = side
	}
}

// WithRoughness sets the roughness factor.
//
// Parameters:
//   - roughness: the roughness factor, clamped to [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = common.Clamp01(roughness)
	}
}

// WithMetalness sets the metalness factor.
//
// Parameters:
//   - metalness: the metalness factor, clamped to [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metalness option to a material
func WithMetalness(metalness float32) MaterialBuilderOption {
	return func(m *material) {
		m.metalness = common.Clamp01(metalness)
	}
}

// WithDisplacementScale sets the displacement height scale.
//
// Parameters:
//   - scale: world units per full-intensity texel
//
// Returns:
//   - MaterialBuilderOption: a function that applies the displacement scale option to a material
func WithDisplacementScale(scale float32) MaterialBuilderOption {
	return func(m *material) {
		m.displacementScale = scale
	}
}

// WithBumpScale sets the bump map strength.
//
// Parameters:
//   - scale: the bump strength
//
// Returns:
//   - MaterialBuilderOption: a function that applies the bump scale option to a material
func WithBumpScale(scale float32) MaterialBuilderOption {
	return func(m *material) {
		m.bumpScale = scale
	}
}

// WithMap binds a texture to a slot. A nil texture clears the slot.
//
// Parameters:
//   - slot: the texture slot
//   - tex: the texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the map option to a material
func WithMap(slot MapSlot, tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		if slot >= 0 && slot < MapCount {
			m.maps[slot] = tex
		}
	}
}
