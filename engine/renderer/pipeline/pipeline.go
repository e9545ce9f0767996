package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Variant is the part of a material's state that is baked into a render pipeline.
// Materials with equal variants share one pipeline.
type Variant struct {
	Side        material.Side
	Transparent bool
}

// VariantFor returns the pipeline variant a material draws with.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - Variant: the variant
func VariantFor(m material.Material) Variant {
	return Variant{Side: m.Side(), Transparent: m.Transparent()}
}

// Key returns the pipeline cache key of the variant, e.g. "scene/front/opaque".
func (v Variant) Key() string {
	side := "front"
	switch v.Side {
	case material.SideBack:
		side = "back"
	case material.SideDouble:
		side = "double"
	}
	blend := "opaque"
	if v.Transparent {
		blend = "blend"
	}
	return fmt.Sprintf("scene/%s/%s", side, blend)
}

// CullMode maps a material side to the faces the rasterizer discards. Front faces wind counter-clockwise.
func CullMode(side material.Side) wgpu.CullMode {
	switch side {
	case material.SideBack:
		return wgpu.CullModeFront
	case material.SideDouble:
		return wgpu.CullModeNone
	default:
		return wgpu.CullModeBack
	}
}

// pipeline is the implementation of the Pipeline interface.
// It holds the render pipeline object together with the state it was created from.
type pipeline struct {
	pipelineKey string
	shader      shader.Shader

	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline defines the interface for a render pipeline: one shader program plus the depth, blend,
// cull and topology state it is compiled with. The GPU object is attached by the renderer backend.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the program holding both entry points.
	//
	// Returns:
	//   - shader.Shader: the shader, or nil if not set
	Shader() shader.Shader

	// RenderPipeline returns the GPU pipeline, or nil before the backend has registered it.
	RenderPipeline() *wgpu.RenderPipeline

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, or nil when blending is disabled
	BlendState() *wgpu.BlendState

	// SetRenderPipeline sets the render pipeline
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release frees the GPU pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new render Pipeline. Defaults are depth test and write on, no blending,
// no culling, counter-clockwise triangle lists, and straight alpha blending
// when blending is enabled.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewScenePipeline creates the pipeline a material variant draws with.
// Transparent variants blend and leave the depth buffer untouched.
//
// Parameters:
//   - s: the scene shader
//   - v: the material variant
//
// Returns:
//   - Pipeline: the configured pipeline
func NewScenePipeline(s shader.Shader, v Variant) Pipeline {
	return NewPipeline(v.Key(),
		WithShader(s),
		WithCullMode(CullMode(v.Side)),
		WithBlendEnabled(v.Transparent),
		WithDepthWriteEnabled(!v.Transparent),
	)
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	if !p.blendEnabled {
		return nil
	}
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
