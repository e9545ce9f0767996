package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneShaderEntryPoints(t *testing.T) {
	s := NewShader("scene", SceneSource)
	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())
	assert.Equal(t, "scene", s.Module().Label)
}

func TestSceneShaderVertexLayoutMatchesVertexStride(t *testing.T) {
	s := NewShader("scene", SceneSource)

	require.Len(t, s.VertexLayouts(), 1)
	layout := s.VertexLayout(0)
	require.Len(t, layout, 1)
	assert.Equal(t, uint64(64), layout[0].ArrayStride)

	offsets := make([]uint64, 0, len(layout[0].Attributes))
	for _, a := range layout[0].Attributes {
		offsets = append(offsets, a.Offset)
	}
	assert.Equal(t, []uint64{0, 12, 24, 32, 48}, offsets)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layout[0].Attributes[2].Format)
}

func TestSceneShaderBindGroups(t *testing.T) {
	s := NewShader("scene", SceneSource)
	groups := s.BindGroupLayoutDescriptors()
	require.Len(t, groups, 3)

	frame := groups[0].Entries
	require.Len(t, frame, 2)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, frame[0].Buffer.Type)
	assert.Equal(t, uint64(144), frame[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, frame[1].Buffer.Type)
	// header plus one light
	assert.Equal(t, uint64(80), frame[1].Buffer.MinBindingSize)

	object := groups[1].Entries
	require.Len(t, object, 1)
	assert.Equal(t, uint64(128), object[0].Buffer.MinBindingSize)

	mat := groups[2].Entries
	require.Len(t, mat, 10)
	assert.Equal(t, uint64(64), mat[0].Buffer.MinBindingSize)
	for _, e := range mat[1:9] {
		assert.Equal(t, wgpu.TextureViewDimension2D, e.Texture.ViewDimension)
		assert.Equal(t, wgpu.TextureSampleTypeFloat, e.Texture.SampleType)
	}
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, mat[9].Sampler.Type)

	for _, e := range append(append(frame, object...), mat...) {
		assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, e.Visibility)
	}
}

func TestBindingVarNames(t *testing.T) {
	s := NewShader("scene", SceneSource)
	assert.Equal(t, "lights", s.BindGroupVarName(0, 1))
	assert.Equal(t, "", s.BindGroupVarName(7, 0))

	b, ok := s.BindingFromVarName(2, "displacementMap")
	require.True(t, ok)
	assert.Equal(t, 5, b)

	_, ok = s.BindingFromVarName(2, "nope")
	assert.False(t, ok)
}

func TestStructLayoutRules(t *testing.T) {
	src := `
struct Inner { a: vec3f, b: f32 }
/* a nested /* block */ comment */
struct Outer {
    x: f32, // trailing
    inner: Inner,
    grid: array<vec2f, 4>,
}
@group(0) @binding(0) var<uniform> outer: Outer;
@group(0) @binding(1) var<storage, read_write> data: array<Inner>;
@vertex fn main() -> @builtin(position) vec4f { return vec4f(0.0); }
`
	groups, _ := parseBindGroupLayouts(src, wgpu.ShaderStageVertex)
	entries := groups[0].Entries
	require.Len(t, entries, 2)
	// x at 0, inner at 16 (16 bytes), grid at 32 (32 bytes)
	assert.Equal(t, uint64(64), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, entries[1].Buffer.Type)
	assert.Equal(t, uint64(16), entries[1].Buffer.MinBindingSize)
}

func TestNewShaderWithoutVertexEntryPanics(t *testing.T) {
	assert.Panics(t, func() { NewShader("broken", "@fragment fn fs() {}") })
}
