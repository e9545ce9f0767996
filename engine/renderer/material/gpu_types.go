package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialUniforms is the GPU-aligned uniform block bound at group 2, binding 0 of the scene shader.
// Size: 64 bytes (four vec4 rows, std140 aligned).
type GPUMaterialUniforms struct {
	Color    [4]float32 // offset  0: linear base color (rgb) + opacity (a)
	Emissive [4]float32 // offset 16: linear emissive color (rgb) + alpha test cutoff (a)
	Params   [4]float32 // offset 32: roughness, metalness, displacement scale, bump scale
	Flags    [4]uint32  // offset 48: kind, map mask, transparent, unused
}

// Size returns the size of the GPUMaterialUniforms struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUMaterialUniforms) Marshal() []byte {
	buf := make([]byte, 64)
	rows := [3][4]float32{g.Color, g.Emissive, g.Params}
	for r, row := range rows {
		for c, f := range row {
			binary.LittleEndian.PutUint32(buf[r*16+c*4:], math.Float32bits(f))
		}
	}
	for c, u := range g.Flags {
		binary.LittleEndian.PutUint32(buf[48+c*4:], u)
	}
	return buf
}

// Uniforms packs a material's scalar properties into its GPU uniform block.
//
// Parameters:
//   - m: the material to pack
//
// Returns:
//   - GPUMaterialUniforms: the packed uniforms
func Uniforms(m Material) GPUMaterialUniforms {
	var transparent uint32
	if m.Transparent() {
		transparent = 1
	}
	return GPUMaterialUniforms{
		Color:    m.Color().Vec4(m.Opacity()),
		Emissive: m.Emissive().Vec4(m.AlphaTest()),
		Params:   [4]float32{m.Roughness(), m.Metalness(), m.DisplacementScale(), m.BumpScale()},
		Flags:    [4]uint32{uint32(m.Kind()), m.MapMask(), transparent, 0},
	}
}
