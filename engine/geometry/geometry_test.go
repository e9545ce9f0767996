package geometry

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertWellFormed(t *testing.T, m model.Model) {
	t.Helper()
	n := uint32(len(m.Vertices()))
	require.Zero(t, m.IndexCount()%3)
	for _, idx := range m.Indices() {
		require.Less(t, idx, n)
	}
	for _, v := range m.Vertices() {
		assert.InDelta(t, 1, mgl32.Vec3(v.Normal).Len(), 1e-4)
		assert.InDelta(t, 0.5, v.TexCoord[1], 0.5+1e-6)
		// sphere pole rows are shifted by half a segment and may leave [0, 1]
		if math32.Abs(v.Normal[1]) < 1-1e-4 {
			assert.InDelta(t, 0.5, v.TexCoord[0], 0.5+1e-6)
		}
	}
	covered := 0
	for _, g := range m.Groups() {
		covered += g.Count
	}
	assert.Equal(t, m.IndexCount(), covered)
}

// frontFacing reports whether every triangle's winding agrees with its vertex normals.
func frontFacing(m model.Model) bool {
	vs, is := m.Vertices(), m.Indices()
	for i := 0; i+2 < len(is); i += 3 {
		p0 := mgl32.Vec3(vs[is[i]].Position)
		face := mgl32.Vec3(vs[is[i+1]].Position).Sub(p0).Cross(mgl32.Vec3(vs[is[i+2]].Position).Sub(p0))
		if face.Len() < 1e-9 {
			continue
		}
		if face.Dot(mgl32.Vec3(vs[is[i]].Normal)) < 0 {
			return false
		}
	}
	return true
}

func TestBox(t *testing.T) {
	m := Box(100, 100, 100)
	assertWellFormed(t, m)
	assert.Len(t, m.Vertices(), 24)
	assert.Equal(t, 36, m.IndexCount())
	require.Len(t, m.Groups(), 6)
	for i, g := range m.Groups() {
		assert.Equal(t, i, g.MaterialIndex)
		assert.Equal(t, i*6, g.Start)
		assert.Equal(t, 6, g.Count)
	}
	assert.True(t, frontFacing(m))

	posX := m.Vertices()[m.Indices()[m.Groups()[FacePosX].Start]]
	assert.Equal(t, [3]float32{1, 0, 0}, posX.Normal)
	assert.Equal(t, float32(50), posX.Position[0])

	negZ := m.Vertices()[m.Indices()[m.Groups()[FaceNegZ].Start]]
	assert.Equal(t, [3]float32{0, 0, -1}, negZ.Normal)
	assert.Equal(t, model.Parameters{Kind: model.KindBox, Width: 100, Height: 100, Depth: 100}, m.Parameters())
}

func TestPlane(t *testing.T) {
	m := Plane(100, 100)
	assertWellFormed(t, m)
	assert.Len(t, m.Vertices(), 4)
	assert.Equal(t, 6, m.IndexCount())
	assert.True(t, frontFacing(m))
	for _, v := range m.Vertices() {
		assert.Equal(t, float32(0), v.Position[2])
		assert.Equal(t, float32(50), mgl32.Abs(v.Position[0]))
	}
	// top-left vertex samples the top-left texel
	assert.Equal(t, [3]float32{-50, 50, 0}, m.Vertices()[0].Position)
	assert.Equal(t, [2]float32{0, 0}, m.Vertices()[0].TexCoord)
}

func TestCylinder(t *testing.T) {
	m := Cylinder(0.2, 0.5, 3.5, 32)
	assertWellFormed(t, m)
	assert.Len(t, m.Vertices(), 66+65+65)
	assert.Equal(t, 192+96+96, m.IndexCount())
	require.Len(t, m.Groups(), 3)
	assert.Equal(t, []int{0, 1, 2}, []int{m.Groups()[0].MaterialIndex, m.Groups()[1].MaterialIndex, m.Groups()[2].MaterialIndex})
	assert.True(t, frontFacing(m))

	bmin, bmax := model.BoundingBox(m.Vertices())
	assert.InDelta(t, -1.75, bmin[1], 1e-5)
	assert.InDelta(t, 1.75, bmax[1], 1e-5)
	assert.InDelta(t, 0.5, bmax[0], 1e-5)
}

func TestCone(t *testing.T) {
	m := Cone(2.2, 2.3, 32)
	assertWellFormed(t, m)
	assert.Len(t, m.Vertices(), 66+65)
	assert.Equal(t, 192+96, m.IndexCount())
	require.Len(t, m.Groups(), 2)
	assert.Equal(t, 2, m.Groups()[1].MaterialIndex)
	assert.Equal(t, model.KindCone, m.Parameters().Kind)
	assert.Equal(t, float32(2.2), m.Parameters().Radius)
	assert.True(t, frontFacing(m))

	// apex at +h/2
	assert.InDelta(t, 1.15, m.Vertices()[0].Position[1], 1e-5)
	assert.InDelta(t, 0, m.Vertices()[0].Position[0], 1e-6)
}

func TestSphere(t *testing.T) {
	m := Sphere(0.1, 8, 8)
	assertWellFormed(t, m)
	assert.Len(t, m.Vertices(), 81)
	assert.Equal(t, 336, m.IndexCount())
	assert.True(t, frontFacing(m))
	for _, v := range m.Vertices() {
		assert.InDelta(t, 0.1, mgl32.Vec3(v.Position).Len(), 1e-5)
	}
	assert.InDelta(t, 0.1, m.BoundingRadius(), 1e-5)

	// the first vertex of each pole row samples the middle of its wedge
	vs := m.Vertices()
	assert.InDelta(t, 0.0625, vs[0].TexCoord[0], 1e-6)
	assert.InDelta(t, -0.0625, vs[len(vs)-9].TexCoord[0], 1e-6)
	assert.InDelta(t, 0, vs[9].TexCoord[0], 1e-6)
}

func TestSegmentMinimums(t *testing.T) {
	s := Sphere(1, 1, 1)
	assert.Equal(t, 3, s.Parameters().WidthSegments)
	assert.Equal(t, 2, s.Parameters().HeightSegments)
	c := Cone(1, 1, 0)
	assert.Equal(t, 3, c.Parameters().RadialSegments)
}
