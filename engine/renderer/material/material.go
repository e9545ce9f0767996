package material

import (
	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/bind_group_provider"
)

// Kind selects the shading model of a material.
type Kind uint32

const (
	// KindBasic is unlit: the fragment color is the material color times the diffuse map.
	KindBasic Kind = iota
	// KindLambert is diffuse-only lighting evaluated per fragment.
	KindLambert
	// KindStandard is metallic-roughness physically based shading.
	KindStandard
)

// Side selects which triangle faces are rasterized.
type Side uint32

const (
	SideFront Side = iota
	SideBack
	SideDouble
)

// MapSlot names a texture slot of a material.
type MapSlot int

const (
	MapDiffuse MapSlot = iota
	MapNormal
	// MapRoughness reads roughness from the green channel.
	MapRoughness
	// MapMetalness reads metalness from the blue channel.
	MapMetalness
	// MapDisplacement offsets vertices along their normal by the red channel times the displacement scale.
	MapDisplacement
	// MapAlpha multiplies opacity by the green channel.
	MapAlpha
	// MapBump perturbs the shading normal by the screen-space slope of the red channel.
	MapBump
	MapEmissive

	// MapCount is the number of texture slots.
	MapCount
)

// material is the implementation of the Material interface.
type material struct {
	name              string
	kind              Kind
	color             common.Color
	emissive          common.Color
	opacity           float32
	transparent       bool
	alphaTest         float32
	side              Side
	roughness         float32
	metalness         float32
	displacementScale float32
	bumpScale         float32
	maps              [MapCount]*common.ImportedTexture
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a render material, encapsulating surface
// properties, texture references, and GPU resource bindings needed for draw calls.
//
// Surface properties are fixed at construction and read-only through this interface.
// The bind group provider is mutable so the renderer can attach GPU resources the first
// time the material is drawn.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind retrieves the shading model.
	//
	// Returns:
	//   - Kind: the shading model
	Kind() Kind

	// Color retrieves the linear base color.
	//
	// Returns:
	//   - common.Color: the base color
	Color() common.Color

	// Emissive retrieves the linear emitted color.
	//
	// Returns:
	//   - common.Color: the emissive color
	Emissive() common.Color

	// Opacity retrieves the opacity in [0, 1]. It only has a visible effect when Transparent is true.
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// Transparent reports whether the material is alpha blended and drawn after opaque geometry.
	//
	// Returns:
	//   - bool: true when blended
	Transparent() bool

	// AlphaTest retrieves the cutoff below which fragments are discarded, zero when disabled.
	//
	// Returns:
	//   - float32: the alpha cutoff
	AlphaTest() float32

	// Side retrieves which faces are rasterized.
	//
	// Returns:
	//   - Side: the rasterized side
	Side() Side

	// Roughness retrieves the roughness factor (standard materials only).
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Metalness retrieves the metalness factor (standard materials only).
	//
	// Returns:
	//   - float32: the metalness factor
	Metalness() float32

	// DisplacementScale retrieves the world-unit height of a full-intensity displacement texel.
	//
	// Returns:
	//   - float32: the displacement scale
	DisplacementScale() float32

	// BumpScale retrieves the strength of the bump map.
	//
	// Returns:
	//   - float32: the bump scale
	BumpScale() float32

	// Map retrieves the texture bound to a slot, or nil.
	//
	// Parameters:
	//   - slot: the texture slot
	//
	// Returns:
	//   - *common.ImportedTexture: the texture, or nil
	Map(slot MapSlot) *common.ImportedTexture

	// MapMask returns a bit mask with bit i set when slot i holds a texture.
	//
	// Returns:
	//   - uint32: the populated-slot mask
	MapMask() uint32

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults are an opaque white front-sided standard material with roughness 1 and metalness 0.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		kind:      KindStandard,
		color:     common.White,
		opacity:   1,
		roughness: 1,
		bumpScale: 1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() Kind {
	return m.kind
}

func (m *material) Color() common.Color {
	return m.color
}

func (m *material) Emissive() common.Color {
	return m.emissive
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) AlphaTest() float32 {
	return m.alphaTest
}

func (m *material) Side() Side {
	return m.side
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Metalness() float32 {
	return m.metalness
}

func (m *material) DisplacementScale() float32 {
	return m.displacementScale
}

func (m *material) BumpScale() float32 {
	return m.bumpScale
}

func (m *material) Map(slot MapSlot) *common.ImportedTexture {
	if slot < 0 || slot >= MapCount {
		return nil
	}
	return m.maps[slot]
}

func (m *material) MapMask() uint32 {
	var mask uint32
	for i, tex := range m.maps {
		if tex != nil {
			mask |= 1 << i
		}
	}
	return mask
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
