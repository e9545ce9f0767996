package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestVariantFor(t *testing.T) {
	ground := material.NewMaterial(material.WithTransparent(true))
	sky := material.NewMaterial(material.WithKind(material.KindBasic), material.WithSide(material.SideBack))

	assert.Equal(t, Variant{Side: material.SideFront, Transparent: true}, VariantFor(ground))
	assert.Equal(t, "scene/front/blend", VariantFor(ground).Key())
	assert.Equal(t, "scene/back/opaque", VariantFor(sky).Key())
	assert.Equal(t, "scene/double/opaque", Variant{Side: material.SideDouble}.Key())
}

func TestCullMode(t *testing.T) {
	assert.Equal(t, wgpu.CullModeBack, CullMode(material.SideFront))
	assert.Equal(t, wgpu.CullModeFront, CullMode(material.SideBack))
	assert.Equal(t, wgpu.CullModeNone, CullMode(material.SideDouble))
}

func TestScenePipeline(t *testing.T) {
	s := shader.NewShader("scene", shader.SceneSource)

	opaque := NewScenePipeline(s, Variant{Side: material.SideFront})
	assert.Equal(t, "scene/front/opaque", opaque.PipelineKey())
	assert.Same(t, s, opaque.Shader())
	assert.True(t, opaque.DepthWriteEnabled())
	assert.False(t, opaque.BlendEnabled())
	assert.Nil(t, opaque.BlendState())
	assert.Equal(t, wgpu.CullModeBack, opaque.CullMode())

	blended := NewScenePipeline(s, Variant{Side: material.SideDouble, Transparent: true})
	assert.False(t, blended.DepthWriteEnabled())
	assert.True(t, blended.DepthTestEnabled())
	if assert.NotNil(t, blended.BlendState()) {
		assert.Equal(t, wgpu.BlendFactorSrcAlpha, blended.BlendState().Color.SrcFactor)
	}
	assert.Equal(t, wgpu.CullModeNone, blended.CullMode())
	assert.Nil(t, blended.RenderPipeline())
}
