package yuletide

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/camera"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/geometry"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/light"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/loader"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/scene"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/window"
	"github.com/chewxy/math32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader hands out controllable tasks in call order.
type fakeLoader struct {
	loader.Loader

	textures map[string]*common.ImportedTexture
	paths    []string
	resolve  []func(scene.Node, error)
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{textures: make(map[string]*common.ImportedTexture)}
}

func (l *fakeLoader) Texture(path string) *common.ImportedTexture {
	if tex, ok := l.textures[path]; ok {
		return tex
	}
	tex := &common.ImportedTexture{Path: path}
	l.textures[path] = tex
	return tex
}

func (l *fakeLoader) LoadAsync(path string) *loader.Task[scene.Node] {
	task, resolve := loader.NewPendingTask[scene.Node]()
	l.paths = append(l.paths, path)
	l.resolve = append(l.resolve, resolve)
	return task
}

func (l *fakeLoader) succeed(i int) {
	l.resolve[i](testModel(), nil)
}

func (l *fakeLoader) fail(i int) {
	l.resolve[i](nil, errors.New("missing file"))
}

type fakeRenderer struct {
	renderer.Renderer

	resizes [][2]int
	frames  []scene.Frame
	err     error
}

func (r *fakeRenderer) Resize(width, height int) {
	r.resizes = append(r.resizes, [2]int{width, height})
}

func (r *fakeRenderer) Render(frame scene.Frame, _ camera.Camera) error {
	r.frames = append(r.frames, frame)
	return r.err
}

type fakeWindow struct {
	window.Window

	width, height int
	resize        map[window.ResizeSubscription]func(int, int)
	nextSub       window.ResizeSubscription
	button        func(window.MouseButton, bool, float64, float64)
	move          func(float64, float64)
	scroll        func(float32)
}

func newFakeWindow(width, height int) *fakeWindow {
	return &fakeWindow{width: width, height: height, resize: make(map[window.ResizeSubscription]func(int, int))}
}

func (w *fakeWindow) Width() int  { return w.width }
func (w *fakeWindow) Height() int { return w.height }

func (w *fakeWindow) SubscribeResize(fn func(width, height int)) window.ResizeSubscription {
	w.nextSub++
	w.resize[w.nextSub] = fn
	return w.nextSub
}

func (w *fakeWindow) Unsubscribe(sub window.ResizeSubscription) bool {
	_, ok := w.resize[sub]
	delete(w.resize, sub)
	return ok
}

func (w *fakeWindow) SetMouseButtonCallback(fn func(window.MouseButton, bool, float64, float64)) {
	w.button = fn
}

func (w *fakeWindow) SetMouseMoveCallback(fn func(float64, float64)) { w.move = fn }
func (w *fakeWindow) SetScrollCallback(fn func(float32))             { w.scroll = fn }

func (w *fakeWindow) notify(width, height int) {
	for _, fn := range w.resize {
		fn(width, height)
	}
}

func testModel() scene.Node {
	return scene.NewGroup(scene.WithName("model"), scene.WithChildren(
		scene.NewMesh(geometry.Box(1, 1, 1), []material.Material{material.NewMaterial()}, scene.WithName("body")),
	))
}

func newTestApp(t *testing.T, options ...AppBuilderOption) (App, *fakeLoader) {
	t.Helper()
	l := newFakeLoader()
	seed := int64(1)
	a := NewApp(append([]AppBuilderOption{
		WithLogger(zerolog.Nop()),
		WithLoader(l),
		WithRandom(NewRandom(&seed)),
	}, options...)...)
	t.Cleanup(a.Close)
	return a, l
}

func childNames(s scene.Scene) []string {
	var names []string
	for _, c := range s.Children() {
		names = append(names, c.Name())
	}
	return names
}

func TestAssembleBuildsStaticScene(t *testing.T) {
	a, l := newTestApp(t)
	a.Assemble()
	a.Assemble()

	assert.Equal(t, []string{"ambient", "sun", "skybox", "ground", "tree"}, childNames(a.Scene()))
	assert.Equal(t, 5, a.Pending())
	assert.Equal(t, []string{OrnamentModel, GiftModel, GiftModel, GiftModel, SnowmanModel}, l.paths)
	assert.Len(t, l.textures, 14)

	lights := a.Scene().Collect().Lights
	require.Len(t, lights, 2)
	assert.Equal(t, light.LightTypeAmbient, lights[0].Light.Type())
	assert.InDelta(t, 0.4, lights[0].Light.Intensity(), tolerance)
	assert.Equal(t, light.LightTypeDirectional, lights[1].Light.Type())
	assert.InDelta(t, 0.6, lights[1].Light.Intensity(), tolerance)
	assert.InDelta(t, 1, lights[1].Position.Y(), tolerance)
	assert.InDelta(t, 0.5, lights[1].Position.Z(), tolerance)
}

func TestSkyboxAndGround(t *testing.T) {
	a, l := newTestApp(t)
	a.Assemble()

	sky := a.Scene().FindByName("skybox")
	require.NotNil(t, sky)
	assert.InDelta(t, 10, sky.Position().Y(), tolerance)
	require.Len(t, sky.Mesh().Materials, 6)
	for i, face := range skyboxFaces {
		m := sky.Mesh().Materials[i]
		assert.Equal(t, material.KindBasic, m.Kind())
		assert.Equal(t, material.SideBack, m.Side())
		assert.Same(t, l.textures["background/"+face+".jpg"], m.Map(material.MapDiffuse))
	}

	ground := a.Scene().FindByName("ground")
	require.NotNil(t, ground)
	assert.InDelta(t, -0.75, ground.Position().Y(), tolerance)
	// the plane is built facing +Z and laid flat
	normal := ground.Rotation().Rotate([3]float32{0, 0, 1})
	assert.InDelta(t, 1, normal.Y(), tolerance)
	snow := ground.Mesh().Materials[0]
	assert.True(t, snow.Transparent())
	assert.InDelta(t, 0.1, snow.DisplacementScale(), tolerance)
	for _, slot := range []material.MapSlot{material.MapDiffuse, material.MapDisplacement, material.MapRoughness, material.MapAlpha, material.MapNormal} {
		assert.NotNil(t, snow.Map(slot), "slot %d", slot)
	}
	assert.Same(t, l.textures["textures/snow_translucent.png"], snow.Map(material.MapAlpha))
}

func TestTreeStructure(t *testing.T) {
	a, _ := newTestApp(t)
	a.Assemble()

	tree := a.Scene().FindByName("tree")
	require.NotNil(t, tree)
	assert.Equal(t, float32(1.2), tree.Scale().X())
	require.Equal(t, 4, tree.ChildCount())

	trunk := tree.Child(0)
	assert.Equal(t, "trunk", trunk.Name())
	assert.InDelta(t, 1.15, trunk.Position().Y(), tolerance)
	assert.NotNil(t, trunk.Mesh().Materials[0].Map(material.MapBump))

	for i, layer := range TreeLayers() {
		cone := tree.Child(i + 1)
		assert.InDelta(t, layer.Y, cone.Position().Y(), tolerance)
		assert.Equal(t, material.KindLambert, cone.Mesh().Materials[0].Kind())
		require.Equal(t, 10, cone.ChildCount())
		for _, bulb := range cone.Children() {
			assert.Equal(t, material.KindBasic, bulb.Mesh().Materials[0].Kind())
			p := bulb.Position()
			r := math32.Hypot(p.X(), p.Z())
			assert.GreaterOrEqual(t, r, float32(0.5)-tolerance)
			assert.Less(t, r, layer.Radius+0.5+tolerance)
		}
	}
}

func TestSyncAttachesLoadsInCompletionOrder(t *testing.T) {
	a, l := newTestApp(t)
	a.Assemble()

	l.succeed(2) // gift_1 finishes while the ornaments are still loading
	assert.Equal(t, 1, a.Sync())
	assert.Equal(t, []string{"ambient", "sun", "skybox", "ground", "tree", "gift_1"}, childNames(a.Scene()))
	assert.Equal(t, 4, a.Pending())

	l.succeed(4)
	assert.Equal(t, 1, a.Sync())
	assert.Equal(t, []string{"gift_1", "snowman"}, childNames(a.Scene())[5:])

	l.succeed(0)
	assert.Equal(t, 1, a.Sync())
	assert.Equal(t, 5+22+2, a.Scene().ChildCount())
	assert.Equal(t, 2, a.Pending())

	l.succeed(3)
	l.succeed(1)
	assert.Equal(t, 2, a.Sync())
	assert.Equal(t, 31, a.Scene().ChildCount())
	assert.Zero(t, a.Pending())
	assert.Zero(t, a.Sync())

	// slots follow submission order whatever the completion order was
	names := childNames(a.Scene())
	assert.Equal(t, "ornament_0_0", names[5])
	assert.Equal(t, "ornament_2_3", names[26])
	assert.Equal(t, []string{"gift_0", "gift_1", "gift_2", "snowman"}, names[27:])
}

func TestUnfinishedLoadDelaysOnlyItsSubtree(t *testing.T) {
	a, l := newTestApp(t)
	a.Assemble()

	// the ornament load never resolves
	for i := 1; i < len(l.resolve); i++ {
		l.succeed(i)
	}
	assert.Equal(t, 4, a.Sync())
	assert.Equal(t, 1, a.Pending())
	assert.Equal(t, []string{"ambient", "sun", "skybox", "ground", "tree", "gift_0", "gift_1", "gift_2", "snowman"}, childNames(a.Scene()))

	for range 3 {
		a.Frame(1.0 / 60)
	}
	assert.Equal(t, 9, a.Scene().ChildCount())
	assert.Nil(t, a.Scene().FindByName("ornament_0_0"))
}

func TestFailedLoadOmitsOnlyItsSubtree(t *testing.T) {
	var logs bytes.Buffer
	a, l := newTestApp(t, WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))
	a.Assemble()

	l.fail(0)
	l.succeed(1)
	l.fail(2)
	l.succeed(3)
	l.succeed(4)

	require.NotPanics(t, func() { a.Sync() })
	assert.Zero(t, a.Pending())
	assert.Equal(t, []string{"ambient", "sun", "skybox", "ground", "tree", "gift_0", "gift_2", "snowman"}, childNames(a.Scene()))
	assert.Contains(t, logs.String(), `"level":"debug"`)
	assert.Contains(t, logs.String(), "ornaments")
}

func TestOrnamentClones(t *testing.T) {
	a, l := newTestApp(t)
	a.Assemble()
	l.succeed(0)
	a.Sync()

	layers := TreeLayers()
	var clones []scene.Node
	for _, c := range a.Scene().Children() {
		if strings.HasPrefix(c.Name(), "ornament_") {
			clones = append(clones, c)
		}
	}
	require.Len(t, clones, 22)

	idx := 0
	for i, n := range ornamentCounts {
		for j := range n {
			c := clones[idx]
			idx++
			assert.Equal(t, fmt.Sprintf("ornament_%d_%d", i, j), c.Name())
			assert.Equal(t, float32(4), c.Scale().X())
			p := c.Position()
			assert.InDelta(t, layers[i].Radius, math32.Hypot(p.X(), p.Z()), tolerance)
			assert.Equal(t, ornamentHeights[i], p.Y())

			lightNode := c.FindByName("ornament_light")
			require.NotNil(t, lightNode)
			assert.Equal(t, light.LightTypePoint, lightNode.Light().Type())
			assert.Equal(t, float32(2), lightNode.Light().Range())
			assert.NotNil(t, c.FindByName("body"))
		}
	}

	clones[0].SetPosition(9, 9, 9)
	assert.NotEqual(t, clones[0].Position(), clones[1].Position())
	assert.NotSame(t, clones[0].FindByName("ornament_light").Light(), clones[1].FindByName("ornament_light").Light())
}

func TestGiftPlacementAndScale(t *testing.T) {
	rnd := &sequence{values: []float64{0.5}}
	a, l := newTestApp(t, WithRandom(rnd))
	a.Assemble()
	for i := range l.resolve {
		l.succeed(i)
	}
	a.Sync()

	for i, want := range GiftPositions() {
		gift := a.Scene().FindByName(fmt.Sprintf("gift_%d", i))
		require.NotNil(t, gift)
		assert.True(t, gift.Position().ApproxEqual(want))
		assert.InDelta(t, 4, gift.Position().X()*gift.Position().X()+gift.Position().Z()*gift.Position().Z(), tolerance)
		assert.InDelta(t, 2.65, gift.Scale().X(), tolerance)

		glow := gift.FindByName("gift_light")
		require.NotNil(t, glow)
		assert.Equal(t, light.LightTypePoint, glow.Light().Type())
		assert.InDelta(t, 3, glow.Light().Intensity(), tolerance)
		assert.InDelta(t, 0.5, glow.Light().Range(), tolerance)
	}

	snowman := a.Scene().FindByName("snowman")
	require.NotNil(t, snowman)
	assert.True(t, snowman.Position().ApproxEqual([3]float32{2.5, -0.7, 3}))
	assert.Equal(t, float32(1), snowman.Scale().X())
}

func TestResize(t *testing.T) {
	r := &fakeRenderer{}
	a, _ := newTestApp(t, WithRenderer(r), WithSize(800, 600))
	assert.InDelta(t, 800.0/600.0, a.Camera().Aspect(), tolerance)

	a.Resize(1920, 1080)
	assert.InDelta(t, 1920.0/1080.0, a.Camera().Aspect(), tolerance)
	assert.Equal(t, [][2]int{{1920, 1080}}, r.resizes)

	a.Resize(0, 1080)
	a.Resize(1920, 0)
	assert.Len(t, r.resizes, 1)
	assert.InDelta(t, 1920.0/1080.0, a.Camera().Aspect(), tolerance)
}

func TestBindSubscribesAndCloseUnsubscribes(t *testing.T) {
	r := &fakeRenderer{}
	w := newFakeWindow(1024, 512)
	a, _ := newTestApp(t, WithRenderer(r))

	a.Bind(w)
	assert.InDelta(t, 2, a.Camera().Aspect(), tolerance)
	require.Len(t, w.resize, 1)
	require.NotNil(t, w.button)

	w.notify(300, 600)
	assert.InDelta(t, 0.5, a.Camera().Aspect(), tolerance)
	assert.Equal(t, [][2]int{{1024, 512}, {300, 600}}, r.resizes)

	a.Close()
	assert.Empty(t, w.resize)
	assert.Nil(t, w.button)
	w.notify(100, 100)
	assert.Len(t, r.resizes, 2)
}

func TestPointerInputDrivesController(t *testing.T) {
	w := newFakeWindow(800, 800)
	a, _ := newTestApp(t)
	a.Bind(w)
	a.Frame(0)
	before := a.Camera().Position()

	w.button(window.MouseButtonLeft, true, 400, 400)
	w.move(500, 400)
	w.button(window.MouseButtonLeft, false, 500, 400)
	for range 60 {
		a.Frame(1.0 / 60)
	}
	after := a.Camera().Position()
	assert.False(t, before.ApproxEqualThreshold(after, 1e-3))
	// orbiting keeps the distance to the target
	assert.InDelta(t, before.Len(), after.Len(), 1e-2)
}

func TestFrameSyncsAndRenders(t *testing.T) {
	r := &fakeRenderer{}
	a, l := newTestApp(t, WithRenderer(r))
	a.Assemble()

	a.Frame(0)
	require.Len(t, r.frames, 1)
	static := len(r.frames[0].Meshes)
	// skybox, ground, trunk, 3 cones, 30 bulbs
	assert.Equal(t, 36, static)
	assert.Len(t, r.frames[0].Lights, 2)

	l.succeed(0)
	r.err = errors.New("surface lost")
	require.NotPanics(t, func() { a.Frame(0) })
	require.Len(t, r.frames, 2)
	assert.Equal(t, static+22, len(r.frames[1].Meshes))
	assert.Len(t, r.frames[1].Lights, 2+22)
}

func TestFrameKeepsCameraWithinPolarBounds(t *testing.T) {
	a, _ := newTestApp(t)
	a.Frame(0)
	// the start position sits below the target; the first update clamps it above the ground plane
	assert.GreaterOrEqual(t, a.Camera().Position().Y(), float32(0))
}

func TestAwaitLoadsHonoursContext(t *testing.T) {
	a, l := newTestApp(t)
	a.Assemble()
	l.succeed(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, a.AwaitLoads(ctx), context.Canceled)
	assert.Equal(t, 5, a.Pending())
}

// triangleGLTF is a one-triangle model with its buffer inlined.
func triangleGLTF() string {
	var buf bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(f))
	}
	for _, i := range []uint16{0, 1, 2} {
		_ = binary.Write(&buf, binary.LittleEndian, i)
	}
	buf.Write([]byte{0, 0})
	data := buf.Bytes()

	return fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": "body", "mesh": 0}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ]
}`, len(data), base64.StdEncoding.EncodeToString(data))
}

func TestAssembleEndToEnd(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{OrnamentModel, GiftModel, SnowmanModel} {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(triangleGLTF()), 0o644))
	}

	l := loader.NewLoader(loader.WithRoot(root), loader.WithWorkers(2), loader.WithLogger(zerolog.Nop()))
	t.Cleanup(l.Close)

	a := NewApp(WithLoader(l), WithLogger(zerolog.Nop()))
	t.Cleanup(a.Close)
	a.Assemble()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, a.AwaitLoads(ctx))

	assert.Zero(t, a.Pending())
	assert.Equal(t, 5+22+3+1, a.Scene().ChildCount())

	lit := 0
	for _, c := range a.Scene().Children() {
		for _, gc := range c.Children() {
			if gc.Kind() == scene.KindLight && gc.Light().Type() == light.LightTypePoint {
				lit++
			}
		}
	}
	assert.Equal(t, 22+3, lit)
}

func TestMissingAssetsLeaveStaticScene(t *testing.T) {
	l := loader.NewLoader(loader.WithRoot(t.TempDir()), loader.WithLogger(zerolog.Nop()))
	t.Cleanup(l.Close)

	a := NewApp(WithLoader(l), WithLogger(zerolog.Nop()))
	a.Assemble()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, a.AwaitLoads(ctx))
	assert.Equal(t, 5, a.Scene().ChildCount())
}
