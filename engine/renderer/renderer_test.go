package renderer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/camera"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/geometry"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/light"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textureUpload struct {
	provider bind_group_provider.BindGroupProvider
	binding  int
	staging  common.TextureStagingData
	format   wgpu.TextureFormat
}

type bindGroupInit struct {
	provider  bind_group_provider.BindGroupProvider
	group     int
	overrides map[int]uint64
}

type drawRecord struct {
	pipeline   string
	firstIndex uint32
	indexCount uint32
	bindGroups []bind_group_provider.BindGroupProvider
}

// fakeBackend records every call instead of touching a GPU.
type fakeBackend struct {
	configured [][2]int
	meshInits  []string
	bindGroups []bindGroupInit
	textures   []textureUpload
	samplers   int
	pipelines  []string
	writes     []bind_group_provider.BufferWrite
	draws      []drawRecord
	frames     int
	presented  int
	released   bool

	failMesh  string
	failBegin error
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configured = append(f.configured, [2]int{width, height})
}

func (f *fakeBackend) SetPresentMode(PresentMode) {}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.pipelines = append(f.pipelines, p.PipelineKey())
	return nil
}

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, _, _ []byte, indexCount int) error {
	if f.failMesh != "" && strings.HasPrefix(provider.Label(), f.failMesh) {
		return errors.New("out of memory")
	}
	f.meshInits = append(f.meshInits, provider.Label())
	provider.SetMesh(nil, nil, indexCount)
	return nil
}

func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, group int, _ wgpu.BindGroupLayoutDescriptor, overrides map[int]uint64) error {
	f.bindGroups = append(f.bindGroups, bindGroupInit{provider: provider, group: group, overrides: overrides})
	return nil
}

func (f *fakeBackend) InitTexture(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData, format wgpu.TextureFormat) error {
	f.textures = append(f.textures, textureUpload{provider: provider, binding: binding, staging: staging, format: format})
	return nil
}

func (f *fakeBackend) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	f.samplers++
	return nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeBackend) BeginFrame(common.Color) error {
	if f.failBegin != nil {
		return f.failBegin
	}
	f.frames++
	return nil
}

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, _ bind_group_provider.BindGroupProvider, firstIndex, indexCount uint32, bindGroups []bind_group_provider.BindGroupProvider) {
	f.draws = append(f.draws, drawRecord{pipeline: p.PipelineKey(), firstIndex: firstIndex, indexCount: indexCount, bindGroups: bindGroups})
}

func (f *fakeBackend) EndFrame() {}

func (f *fakeBackend) Present() { f.presented++ }

func (f *fakeBackend) Release() { f.released = true }

func (f *fakeBackend) groupInits(group int) int {
	n := 0
	for _, b := range f.bindGroups {
		if b.group == group {
			n++
		}
	}
	return n
}

// uploadsFor returns the textures uploaded for one binding, in upload order.
func (f *fakeBackend) uploadsFor(binding int) []textureUpload {
	var out []textureUpload
	for _, u := range f.textures {
		if u.binding == binding {
			out = append(out, u)
		}
	}
	return out
}

func newTestRenderer(t *testing.T) (*renderer, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	r := newRenderer(WithLogger(zerolog.Nop()))
	r.backend = backend
	r.start(800, 600)
	return r, backend
}

func testCamera(z float32) camera.Camera {
	return camera.NewCamera(camera.WithController(camera.NewOrbitController(camera.WithPosition(mgl32.Vec3{0, 0, z}))))
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStartConfiguresSurface(t *testing.T) {
	_, backend := newTestRenderer(t)
	assert.Equal(t, [][2]int{{800, 600}}, backend.configured)
}

func TestResizeIgnoresZeroSizes(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.Resize(0, 600)
	r.Resize(800, 0)
	r.Resize(1024, 768)
	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}}, backend.configured)
}

func TestRenderCreatesSharedResourcesOnce(t *testing.T) {
	r, backend := newTestRenderer(t)

	s := scene.NewScene()
	mat := material.NewMaterial(material.WithKind(material.KindStandard))
	box := scene.NewMesh(geometry.Box(1, 1, 1), []material.Material{mat}, scene.WithName("box"))
	s.Add(box, box.Clone(), scene.NewLight(light.NewAmbient(0xffffff, 0.5)))
	cam := testCamera(10)

	for range 2 {
		require.NoError(t, r.Render(s.Collect(), cam))
	}

	assert.Len(t, backend.meshInits, 1, "clones share geometry")
	assert.Equal(t, 1, backend.groupInits(groupFrame))
	assert.Equal(t, 2, backend.groupInits(groupNode))
	assert.Equal(t, 1, backend.groupInits(groupMaterial), "clones share materials")
	assert.Equal(t, []string{"scene/front/opaque"}, backend.pipelines)
	assert.Equal(t, 2, backend.frames)
	assert.Equal(t, 2, backend.presented)

	// a box has one draw group per face
	require.Len(t, backend.draws, 2*2*6)
	for _, d := range backend.draws {
		require.Len(t, d.bindGroups, 3)
		assert.Same(t, cam.BindGroupProvider(), d.bindGroups[0])
	}
}

func TestRenderSizesLightBuffer(t *testing.T) {
	r, backend := newTestRenderer(t)
	cam := testCamera(10)
	require.NoError(t, r.Render(scene.Frame{}, cam))

	require.Equal(t, 1, backend.groupInits(groupFrame))
	assert.Equal(t, uint64(light.LightBufferSize), backend.bindGroups[0].overrides[1])

	require.GreaterOrEqual(t, len(backend.writes), 2)
	assert.Len(t, backend.writes[0].Data, 144)
	assert.Same(t, cam.BindGroupProvider(), backend.writes[1].Provider)
	assert.Equal(t, 1, backend.writes[1].Binding)
}

func TestRenderDrawsOpaqueFirstThenTransparentBackToFront(t *testing.T) {
	r, backend := newTestRenderer(t)

	glass := material.NewMaterial(material.WithTransparent(true), material.WithOpacity(0.5))
	solid := material.NewMaterial()
	plane := geometry.Plane(1, 1)

	near := scene.NewMesh(plane, []material.Material{glass}, scene.WithName("near"), scene.WithPosition(0, 0, 0))
	far := scene.NewMesh(plane, []material.Material{glass}, scene.WithName("far"), scene.WithPosition(0, 0, -5))
	opaque := scene.NewMesh(plane, []material.Material{solid}, scene.WithName("opaque"), scene.WithPosition(0, 0, 5))

	s := scene.NewScene()
	s.Add(near, opaque, far)
	require.NoError(t, r.Render(s.Collect(), testCamera(10)))

	require.Len(t, backend.draws, 3)
	assert.Same(t, opaque.BindGroupProvider(), backend.draws[0].bindGroups[groupNode])
	assert.Same(t, far.BindGroupProvider(), backend.draws[1].bindGroups[groupNode])
	assert.Same(t, near.BindGroupProvider(), backend.draws[2].bindGroups[groupNode])
	assert.Equal(t, "scene/front/opaque", backend.draws[0].pipeline)
	assert.Equal(t, "scene/front/blend", backend.draws[1].pipeline)
}

func TestRenderUsesDrawGroups(t *testing.T) {
	r, backend := newTestRenderer(t)

	mats := make([]material.Material, 6)
	for i := range mats {
		mats[i] = material.NewMaterial(material.WithSide(material.SideBack))
	}
	box := geometry.Box(1, 1, 1)
	s := scene.NewScene()
	s.Add(scene.NewMesh(box, mats))
	require.NoError(t, r.Render(s.Collect(), testCamera(10)))

	groups := box.Groups()
	require.Len(t, backend.draws, len(groups))
	for i, g := range groups {
		assert.Equal(t, uint32(g.Start), backend.draws[i].firstIndex)
		assert.Equal(t, uint32(g.Count), backend.draws[i].indexCount)
		assert.Same(t, mats[g.MaterialIndex].BindGroupProvider(), backend.draws[i].bindGroups[groupMaterial])
	}
	assert.Equal(t, []string{"scene/back/opaque"}, backend.pipelines)
}

func TestPendingTextureIsReplacedOnceDecoded(t *testing.T) {
	r, backend := newTestRenderer(t)

	tex := &common.ImportedTexture{Name: "snow", Data: encodePNG(t, 4, 2)}
	tex.MarkPending()
	mat := material.NewMaterial(material.WithMap(material.MapDiffuse, tex))
	s := scene.NewScene()
	s.Add(scene.NewMesh(geometry.Plane(1, 1), []material.Material{mat}))
	cam := testCamera(10)

	diffuse, ok := r.shader.BindingFromVarName(groupMaterial, "diffuseMap")
	require.True(t, ok)

	require.NoError(t, r.Render(s.Collect(), cam))
	uploads := backend.uploadsFor(diffuse)
	require.Len(t, uploads, 1)
	assert.Equal(t, uint32(1), uploads[0].staging.Width, "placeholder while decoding")
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, uploads[0].format)

	// still pending, nothing changes
	require.NoError(t, r.Render(s.Collect(), cam))
	assert.Len(t, backend.uploadsFor(diffuse), 1)

	_, err := tex.Decode()
	require.NoError(t, err)
	require.NoError(t, r.Render(s.Collect(), cam))

	uploads = backend.uploadsFor(diffuse)
	require.Len(t, uploads, 2)
	assert.Equal(t, uint32(4), uploads[1].staging.Width)
	assert.Equal(t, uint32(2), uploads[1].staging.Height)
	assert.Equal(t, 2, backend.groupInits(groupMaterial))
	assert.Empty(t, r.pendingMaterials)
}

func TestUploadedTexturesAreReleased(t *testing.T) {
	r, backend := newTestRenderer(t)

	ready := &common.ImportedTexture{Name: "wood", Data: encodePNG(t, 4, 2)}
	decoding := &common.ImportedTexture{Name: "bark", Data: encodePNG(t, 2, 2)}
	decoding.MarkPending()
	partial := material.NewMaterial(material.WithName("partial"), material.WithMap(material.MapDiffuse, ready), material.WithMap(material.MapNormal, decoding))

	done := &common.ImportedTexture{Name: "snow", Data: encodePNG(t, 4, 2)}
	full := material.NewMaterial(material.WithName("full"), material.WithMap(material.MapDiffuse, done))

	s := scene.NewScene()
	s.Add(
		scene.NewMesh(geometry.Plane(1, 1), []material.Material{partial}),
		scene.NewMesh(geometry.Plane(1, 1), []material.Material{full}),
	)
	require.NoError(t, r.Render(s.Collect(), testCamera(10)))
	require.NotEmpty(t, backend.textures)

	// a released texture decodes its source again
	done.Data = []byte("gone")
	_, err := done.Decode()
	assert.Error(t, err)

	// pixels stay cached while the material waits for a rebuild
	ready.Data = []byte("gone")
	_, err = ready.Decode()
	assert.NoError(t, err)
}

func TestBrokenTextureFallsBackToNeutral(t *testing.T) {
	r, backend := newTestRenderer(t)

	broken := &common.ImportedTexture{Name: "bad", Data: []byte("not an image")}
	mat := material.NewMaterial(material.WithMap(material.MapNormal, broken))
	s := scene.NewScene()
	s.Add(scene.NewMesh(geometry.Plane(1, 1), []material.Material{mat}))
	require.NoError(t, r.Render(s.Collect(), testCamera(10)))

	normal, ok := r.shader.BindingFromVarName(groupMaterial, "normalMap")
	require.True(t, ok)
	uploads := backend.uploadsFor(normal)
	require.Len(t, uploads, 1)
	assert.Equal(t, []byte{128, 128, 255, 255}, uploads[0].staging.Pixels)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, uploads[0].format)
	assert.Len(t, backend.draws, 1)
	assert.Equal(t, 1, backend.samplers)
}

func TestMeshFailureSkipsOnlyThatMesh(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.failMesh = "sphere"

	s := scene.NewScene()
	s.Add(
		scene.NewMesh(geometry.Sphere(1, 8, 6), []material.Material{material.NewMaterial()}),
		scene.NewMesh(geometry.Plane(1, 1), []material.Material{material.NewMaterial()}),
	)
	require.NoError(t, r.Render(s.Collect(), testCamera(10)))
	assert.Len(t, backend.draws, 1)
}

func TestBeginFrameFailureIsReported(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.failBegin = errors.New("surface lost")

	err := r.Render(scene.Frame{}, testCamera(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surface lost")
	assert.Zero(t, backend.presented)
}

func TestReleaseFreesEverythingOnce(t *testing.T) {
	r, backend := newTestRenderer(t)
	s := scene.NewScene()
	s.Add(scene.NewMesh(geometry.Plane(1, 1), []material.Material{material.NewMaterial()}))
	require.NoError(t, r.Render(s.Collect(), testCamera(10)))

	r.Release()
	r.Release()
	assert.True(t, backend.released)
	assert.Empty(t, r.Pipelines())
	assert.ErrorIs(t, r.Render(scene.Frame{}, testCamera(10)), ErrReleased)
}
