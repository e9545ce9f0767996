package scene

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-yuletide/engine/light"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func testMesh(opts ...NodeBuilderOption) Node {
	m := model.NewModel(model.WithName("tri"), model.WithMesh(
		[]model.GPUVertex{{Position: [3]float32{0, 0, 0}}, {Position: [3]float32{1, 0, 0}}, {Position: [3]float32{0, 1, 0}}},
		[]uint32{0, 1, 2},
	))
	return NewMesh(m, []material.Material{material.NewMaterial()}, opts...)
}

func TestNodeIDsAreUnique(t *testing.T) {
	a, b := NewGroup(), NewGroup()
	assert.NotZero(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestAddReparents(t *testing.T) {
	p1, p2 := NewGroup(WithName("p1")), NewGroup(WithName("p2"))
	child := NewGroup(WithName("child"))

	p1.Add(child)
	require.Equal(t, 1, p1.ChildCount())
	assert.Same(t, p1, child.Parent())

	p2.Add(child)
	assert.Equal(t, 0, p1.ChildCount())
	assert.Equal(t, 1, p2.ChildCount())
	assert.Same(t, p2, child.Parent())
}

func TestAddRejectsCycles(t *testing.T) {
	a := NewGroup()
	b := NewGroup()
	a.Add(b)
	b.Add(a)
	a.Add(a)

	assert.Nil(t, a.Parent())
	assert.Equal(t, 1, a.ChildCount())
	assert.Equal(t, 0, b.ChildCount())
}

func TestInsert(t *testing.T) {
	names := func(n Node) []string {
		var out []string
		for _, c := range n.Children() {
			out = append(out, c.Name())
		}
		return out
	}
	p := NewGroup()
	p.Add(NewGroup(WithName("a")), NewGroup(WithName("d")))

	p.Insert(1, NewGroup(WithName("b")), NewGroup(WithName("c")))
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(p))

	p.Insert(-3, NewGroup(WithName("first")))
	p.Insert(99, NewGroup(WithName("last")))
	assert.Equal(t, []string{"first", "a", "b", "c", "d", "last"}, names(p))

	// an existing child moves rather than duplicating
	a := p.Child(1)
	p.Insert(0, a)
	assert.Equal(t, []string{"a", "first", "b", "c", "d", "last"}, names(p))
	assert.Same(t, p, a.Parent())

	p.Insert(0, p)
	assert.Equal(t, 6, p.ChildCount())

	s := NewScene(WithNodes(NewGroup(WithName("x")), NewGroup(WithName("z"))))
	s.Insert(1, NewGroup(WithName("y")))
	assert.Equal(t, []string{"x", "y", "z"}, names(s.Root()))
}

func TestRemove(t *testing.T) {
	p := NewGroup()
	c := NewGroup()
	other := NewGroup()
	p.Add(c)

	assert.False(t, p.Remove(other))
	assert.True(t, p.Remove(c))
	assert.Nil(t, c.Parent())
	assert.Equal(t, 0, p.ChildCount())
	assert.Nil(t, p.Child(0))

	p.Add(c)
	c.RemoveFromParent()
	assert.Equal(t, 0, p.ChildCount())
}

func TestWorldMatrix(t *testing.T) {
	tree := NewGroup(WithScale(1.2, 1.2, 1.2))
	layer := NewGroup(WithPosition(0, 2, 0))
	bulb := NewGroup(WithPosition(1, 0, 0))
	tree.Add(layer)
	layer.Add(bulb)

	got := bulb.WorldPosition()
	assertVec3InDelta(t, mgl32.Vec3{1.2, 2.4, 0}, got, 1e-5)
}

func TestSetRotationAndMatrix(t *testing.T) {
	n := NewGroup()
	n.SetRotation(-math.Pi/2, 0, 0)
	n.SetPosition(0, -0.75, 0)
	n.SetScale(2, 2, 2)

	other := NewGroup()
	other.SetMatrix(n.LocalMatrix())
	assertVec3InDelta(t, n.Position(), other.Position(), 1e-5)
	assertVec3InDelta(t, n.Scale(), other.Scale(), 1e-5)
	assert.True(t, other.Rotation().OrientationEqualThreshold(n.Rotation(), 1e-4))

	// the plane normal +Z ends up pointing +Y
	up := n.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3().Normalize()
	assertVec3InDelta(t, mgl32.Vec3{0, 1, 0}, up, 1e-5)
}

func TestCloneSharesGeometryAndCopiesLights(t *testing.T) {
	orig := testMesh(WithName("ball"), WithScale(4, 4, 4))
	glow := light.NewPoint(0x130044, 1, 2)
	orig.Add(NewLight(glow, WithName("glow")))

	c := orig.Clone()
	require.NotNil(t, c)
	assert.NotEqual(t, orig.ID(), c.ID())
	assert.Nil(t, c.Parent())
	assert.Equal(t, "ball", c.Name())
	assert.Equal(t, orig.Scale(), c.Scale())
	assert.Same(t, orig.Mesh().Model, c.Mesh().Model)
	assert.Same(t, orig.Mesh().Materials[0], c.Mesh().Materials[0])

	require.Equal(t, 1, c.ChildCount())
	clonedLight := c.Child(0)
	assert.Same(t, c, clonedLight.Parent())
	assert.NotSame(t, glow, clonedLight.Light())

	c.SetPosition(5, 0, 0)
	clonedLight.Light().SetIntensity(7)
	assert.Equal(t, mgl32.Vec3{}, orig.Position())
	assert.Equal(t, float32(1), glow.Intensity())
}

func TestFindByNameAndTraverse(t *testing.T) {
	s := NewScene(WithSceneName("holiday"))
	tree := NewGroup(WithName("tree"))
	tree.Add(NewGroup(WithName("layer")))
	s.Add(NewGroup(WithName("skybox")), tree)

	assert.Equal(t, "holiday", s.Name())
	assert.Equal(t, 2, s.ChildCount())
	require.NotNil(t, s.FindByName("layer"))
	assert.Same(t, tree, s.FindByName("layer").Parent())
	assert.Nil(t, s.FindByName("missing"))

	var visited []string
	s.Traverse(func(n Node) bool {
		visited = append(visited, n.Name())
		return n.Name() != "tree"
	})
	assert.Equal(t, []string{"skybox", "tree"}, visited)
}

func TestSceneRemoveAndClear(t *testing.T) {
	a, b := NewGroup(), NewGroup()
	s := NewScene(WithNodes(a, b))
	assert.Same(t, s.Root(), a.Parent())

	assert.True(t, s.Remove(a))
	assert.False(t, s.Remove(a))
	assert.Equal(t, 1, s.ChildCount())

	s.Clear()
	assert.Equal(t, 0, s.ChildCount())
	assert.Nil(t, b.Parent())
}

func TestCollect(t *testing.T) {
	s := NewScene()

	visibleMesh := testMesh(WithPosition(1, 0, 0))
	hidden := NewGroup(WithVisible(false))
	hidden.Add(testMesh(), NewLight(light.NewPoint(0xffffff, 1, 1)))

	parent := NewGroup(WithPosition(0, 2, 0))
	parent.Add(NewLight(light.NewPoint(0xffffff, 1, 1), WithPosition(0, 1, 0)))

	off := light.NewDirectional(0xffffff, 1)
	off.SetEnabled(false)

	s.Add(NewLight(light.NewAmbient(0xffffff, 0.4)), visibleMesh, hidden, parent, NewLight(off))

	f := s.Collect()
	require.Len(t, f.Meshes, 1)
	assert.Same(t, visibleMesh, f.Meshes[0].Node)
	assert.Equal(t, float32(1), f.Meshes[0].World.Col(3)[0])

	require.Len(t, f.Lights, 2)
	assert.Equal(t, light.LightTypeAmbient, f.Lights[0].Light.Type())
	assertVec3InDelta(t, mgl32.Vec3{0, 3, 0}, f.Lights[1].Position, 1e-6)
}

func TestMeshMaterialFor(t *testing.T) {
	a, b := material.NewMaterial(), material.NewMaterial()
	single := &Mesh{Materials: []material.Material{a}}
	assert.Same(t, a, single.MaterialFor(model.Group{MaterialIndex: 3}))

	multi := &Mesh{Materials: []material.Material{a, b}}
	assert.Same(t, b, multi.MaterialFor(model.Group{MaterialIndex: 1}))
	assert.Nil(t, multi.MaterialFor(model.Group{MaterialIndex: 2}))
}
