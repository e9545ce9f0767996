package renderer

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/camera"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/light"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/scene"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Bind group indices of the scene shader.
const (
	groupFrame    = 0
	groupNode     = 1
	groupMaterial = 2
)

// ErrReleased is returned by Render after Release.
var ErrReleased = errors.New("renderer has been released")

// mapVarNames are the shader variables each material map slot is bound to.
var mapVarNames = [material.MapCount]string{
	material.MapDiffuse:      "diffuseMap",
	material.MapNormal:       "normalMap",
	material.MapRoughness:    "roughnessMap",
	material.MapMetalness:    "metalnessMap",
	material.MapDisplacement: "displacementMap",
	material.MapAlpha:        "alphaMap",
	material.MapBump:         "bumpMap",
	material.MapEmissive:     "emissiveMap",
}

// neutralTexel is the value an absent, pending or broken map samples as. Each leaves the material's
// scalar properties unchanged.
func neutralTexel(slot material.MapSlot) *common.TextureStagingData {
	switch slot {
	case material.MapNormal:
		return common.SolidTexture(128, 128, 255, 255)
	case material.MapDisplacement, material.MapBump:
		return common.SolidTexture(0, 0, 0, 255)
	default:
		return common.SolidTexture(255, 255, 255, 255)
	}
}

// textureFormat returns the format a map is uploaded as. Color maps are sRGB encoded, data maps are not.
func textureFormat(slot material.MapSlot) wgpu.TextureFormat {
	switch slot {
	case material.MapDiffuse, material.MapEmissive:
		return wgpu.TextureFormatRGBA8UnormSrgb
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

// drawItem is one indexed draw of a mesh draw group.
type drawItem struct {
	pipeline pipeline.Pipeline
	mesh     bind_group_provider.BindGroupProvider
	node     bind_group_provider.BindGroupProvider
	material bind_group_provider.BindGroupProvider
	group    model.Group
	distance float32
	blended  bool
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	shader      shader.Shader
	logger      zerolog.Logger

	pipelineCache map[string]pipeline.Pipeline

	// pendingMaterials were built with placeholder maps and are rebuilt once every map has decoded.
	pendingMaterials map[material.Material]struct{}

	// owned tracks providers created here so Release can free them.
	owned []bind_group_provider.BindGroupProvider

	frameProvider bind_group_provider.BindGroupProvider
	released      bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer draws scene frames. It uploads meshes, node transforms and materials to the GPU the first time
// they are drawn and keeps one pipeline per material variant.
type Renderer interface {
	// Render draws one frame: frame uniforms, then every visible mesh with opaque draws first and
	// transparent draws after them, sorted back to front.
	//
	// Parameters:
	//   - frame: the collected scene snapshot
	//   - cam: the camera to draw from; its matrices must already be up to date
	//
	// Returns:
	//   - error: an error if the frame could not be started
	Render(frame scene.Frame, cam camera.Camera) error

	// Resize configures the underlying backend to handle a new surface size.
	// Zero sizes, as reported for minimized windows, are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a copy of the pipeline cache.
	Pipelines() map[string]pipeline.Pipeline

	// Release frees every GPU resource the renderer created, then the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer that draws into the given window.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface and its initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer configured with the specified backend and options
//   - error: an error if no GPU device could be created
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(options...)

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	}
	r.backendType = backendType

	r.start(window.Width(), window.Height())
	return r, nil
}

// newRenderer applies options without creating a backend.
func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		logger:           log.Logger,
		shader:           shader.NewShader("scene", shader.SceneSource),
		pipelineCache:    make(map[string]pipeline.Pipeline),
		pendingMaterials: make(map[material.Material]struct{}),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

// start applies the pending present mode and configures the surface for the first time.
func (r *renderer) start(width, height int) {
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.Resize(width, height)
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) Render(frame scene.Frame, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}

	r.refreshPendingMaterials()

	if err := r.ensureFrameProvider(cam); err != nil {
		return err
	}
	uniform := cam.Uniform()
	writes := []bind_group_provider.BufferWrite{
		{Provider: r.frameProvider, Binding: 0, Data: uniform.Marshal()},
		{Provider: r.frameProvider, Binding: 1, Data: light.MarshalLightBuffer(frame.Lights)},
	}

	camPos := cam.Position()
	items := make([]drawItem, 0, len(frame.Meshes))
	for _, inst := range frame.Meshes {
		meshItems, nodeWrite, err := r.prepareMesh(inst, camPos)
		if err != nil {
			r.logger.Warn().Err(err).Str("node", inst.Node.Name()).Msg("skipping mesh")
			continue
		}
		writes = append(writes, nodeWrite)
		items = append(items, meshItems...)
	}
	sortDrawItems(items)

	r.backend.WriteBuffers(writes)
	if err := r.backend.BeginFrame(frame.Background); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	for _, it := range items {
		r.backend.DrawCall(it.pipeline, it.mesh, uint32(it.group.Start), uint32(it.group.Count),
			[]bind_group_provider.BindGroupProvider{r.frameProvider, it.node, it.material})
	}
	r.backend.EndFrame()
	r.backend.Present()
	return nil
}

// sortDrawItems puts opaque draws first in submission order, then blended draws from far to near.
func sortDrawItems(items []drawItem) {
	slices.SortStableFunc(items, func(a, b drawItem) int {
		switch {
		case a.blended != b.blended:
			if a.blended {
				return 1
			}
			return -1
		case !a.blended:
			return 0
		case a.distance > b.distance:
			return -1
		case a.distance < b.distance:
			return 1
		}
		return 0
	})
}

// ensureFrameProvider creates the camera and light bind group on first use.
func (r *renderer) ensureFrameProvider(cam camera.Camera) error {
	if r.frameProvider != nil {
		return nil
	}
	provider := cam.BindGroupProvider()
	if provider == nil {
		provider = bind_group_provider.NewBindGroupProvider("Frame")
		cam.SetBindGroupProvider(provider)
	}
	err := r.backend.InitBindGroup(provider, groupFrame, r.shader.BindGroupLayoutDescriptor(groupFrame),
		map[int]uint64{1: light.LightBufferSize})
	if err != nil {
		return fmt.Errorf("failed to create frame bind group: %w", err)
	}
	r.frameProvider = provider
	r.owned = append(r.owned, provider)
	return nil
}

// prepareMesh makes sure a mesh instance's resources exist and returns its draws and transform write.
func (r *renderer) prepareMesh(inst scene.MeshInstance, camPos mgl32.Vec3) ([]drawItem, bind_group_provider.BufferWrite, error) {
	m := inst.Mesh.Model

	meshProvider := m.MeshProvider()
	if meshProvider == nil {
		meshProvider = bind_group_provider.NewBindGroupProvider(m.Name() + " Mesh")
		if err := r.backend.InitMeshBuffers(meshProvider, m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
			return nil, bind_group_provider.BufferWrite{}, err
		}
		m.SetMeshProvider(meshProvider)
		r.owned = append(r.owned, meshProvider)
	}

	nodeProvider := inst.Node.BindGroupProvider()
	if nodeProvider == nil {
		nodeProvider = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s Node %d", inst.Node.Name(), inst.Node.ID()))
		if err := r.backend.InitBindGroup(nodeProvider, groupNode, r.shader.BindGroupLayoutDescriptor(groupNode), nil); err != nil {
			return nil, bind_group_provider.BufferWrite{}, err
		}
		inst.Node.SetBindGroupProvider(nodeProvider)
		r.owned = append(r.owned, nodeProvider)
	}
	nodeWrite := bind_group_provider.BufferWrite{Provider: nodeProvider, Binding: 0, Data: nodeUniform(inst.World)}

	groups := m.Groups()
	if len(groups) == 0 {
		groups = []model.Group{{Start: 0, Count: m.IndexCount()}}
	}

	distance := camPos.Sub(inst.World.Col(3).Vec3()).Len()
	items := make([]drawItem, 0, len(groups))
	for _, g := range groups {
		mat := inst.Mesh.MaterialFor(g)
		if mat == nil || g.Count == 0 {
			continue
		}
		matProvider, err := r.materialProvider(mat)
		if err != nil {
			return nil, bind_group_provider.BufferWrite{}, err
		}
		p, err := r.pipelineFor(pipeline.VariantFor(mat))
		if err != nil {
			return nil, bind_group_provider.BufferWrite{}, err
		}
		items = append(items, drawItem{
			pipeline: p,
			mesh:     meshProvider,
			node:     nodeProvider,
			material: matProvider,
			group:    g,
			distance: distance,
			blended:  mat.Transparent(),
		})
	}
	return items, nodeWrite, nil
}

// nodeUniform packs a world matrix and its normal matrix, the inverse transpose of the world matrix.
func nodeUniform(world mgl32.Mat4) []byte {
	normal := world.Inv().Transpose()
	return common.SliceToBytes([]mgl32.Mat4{world, normal})
}

// pipelineFor returns the cached pipeline of a variant, registering it on first use.
func (r *renderer) pipelineFor(v pipeline.Variant) (pipeline.Pipeline, error) {
	key := v.Key()
	if p, ok := r.pipelineCache[key]; ok {
		return p, nil
	}
	p := pipeline.NewScenePipeline(r.shader, v)
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return nil, fmt.Errorf("failed to register pipeline %s: %w", key, err)
	}
	r.pipelineCache[key] = p
	r.logger.Debug().Str("pipeline", key).Msg("pipeline registered")
	return p, nil
}

// materialProvider returns a material's bind group, building it on first use. Maps that are still
// decoding are bound as neutral placeholders and the material is queued for a rebuild. Once every map
// is on the GPU the decoded pixels are released.
func (r *renderer) materialProvider(m material.Material) (bind_group_provider.BindGroupProvider, error) {
	if p := m.BindGroupProvider(); p != nil {
		return p, nil
	}

	provider := bind_group_provider.NewBindGroupProvider(common.Coalesce(m.Name(), "material") + " Material")
	sampler := common.DefaultSampler()
	pending := false
	var uploaded []*common.ImportedTexture

	for slot := range material.MapCount {
		binding, ok := r.shader.BindingFromVarName(groupMaterial, mapVarNames[slot])
		if !ok {
			continue
		}

		staging := neutralTexel(slot)
		if tex := m.Map(slot); tex != nil {
			switch {
			case tex.Pending():
				pending = true
			default:
				decoded, err := tex.Decode()
				if err != nil {
					r.logger.Warn().Err(err).Str("material", m.Name()).Str("texture", tex.Name).Msg("using fallback texture")
					break
				}
				staging = decoded
				uploaded = append(uploaded, tex)
			}
			if tex.SamplerData != nil && slot == material.MapDiffuse {
				sampler = tex.SamplerData
			}
		}

		if err := r.backend.InitTexture(provider, binding, *staging, textureFormat(slot)); err != nil {
			provider.Release()
			return nil, err
		}
	}

	if binding, ok := r.shader.BindingFromVarName(groupMaterial, "materialSampler"); ok {
		if err := r.backend.InitSampler(provider, binding, *sampler); err != nil {
			provider.Release()
			return nil, err
		}
	}

	if err := r.backend.InitBindGroup(provider, groupMaterial, r.shader.BindGroupLayoutDescriptor(groupMaterial), nil); err != nil {
		provider.Release()
		return nil, err
	}

	uniforms := material.Uniforms(m)
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: provider, Binding: 0, Data: uniforms.Marshal()}})

	m.SetBindGroupProvider(provider)
	r.owned = append(r.owned, provider)
	if pending {
		r.pendingMaterials[m] = struct{}{}
	} else {
		for _, tex := range uploaded {
			tex.Release()
		}
	}
	return provider, nil
}

// refreshPendingMaterials drops the bind group of every queued material whose maps have all finished
// decoding, so that the next draw rebuilds it with the real textures.
func (r *renderer) refreshPendingMaterials() {
	for m := range r.pendingMaterials {
		ready := true
		for slot := range material.MapCount {
			if tex := m.Map(slot); tex != nil && tex.Pending() {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		if p := m.BindGroupProvider(); p != nil {
			p.Release()
			r.owned = slices.DeleteFunc(r.owned, func(o bind_group_provider.BindGroupProvider) bool { return o == p })
		}
		m.SetBindGroupProvider(nil)
		delete(r.pendingMaterials, m)
	}
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true

	for _, p := range r.owned {
		p.Release()
	}
	r.owned = nil
	for k, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, k)
	}
	r.backend.Release()
}
