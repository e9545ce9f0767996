package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() ([]GPUVertex, []uint32) {
	vertices := []GPUVertex{
		{Position: [3]float32{-1, 0, -1}, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{-1, 0, 1}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{1, 0, 1}, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{1, 0, -1}, TexCoord: [2]float32{1, 0}},
	}
	return vertices, []uint32{0, 1, 2, 0, 2, 3}
}

func TestNewModelDefaults(t *testing.T) {
	vertices, indices := quad()
	m := NewModel(WithName("quad"), WithMesh(vertices, indices))

	assert.Equal(t, "quad", m.Name())
	assert.Equal(t, 6, m.IndexCount())
	require.Len(t, m.Groups(), 1)
	assert.Equal(t, Group{Start: 0, Count: 6, MaterialIndex: 0}, m.Groups()[0])
	assert.InDelta(t, math.Sqrt2, m.BoundingRadius(), 1e-6)
	assert.Nil(t, m.MeshProvider())
}

func TestNewModelKeepsExplicitBoundingRadius(t *testing.T) {
	vertices, indices := quad()
	m := NewModel(WithMesh(vertices, indices), WithBoundingRadius(0))
	assert.Equal(t, float32(0), m.BoundingRadius())
}

func TestVertexAndIndexData(t *testing.T) {
	vertices, indices := quad()
	m := NewModel(WithMesh(vertices, indices))

	vd := m.VertexData()
	require.Len(t, vd, 4*GPUVertexStride)
	// x of the third vertex
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(vd[2*GPUVertexStride:])))

	id := m.IndexData()
	require.Len(t, id, 24)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(id[20:]))

	var v GPUVertex
	assert.Equal(t, GPUVertexStride, v.Size())
	assert.Equal(t, vd[:GPUVertexStride], vertices[0].Marshal())
}

func TestGenerateNormalsAndTangents(t *testing.T) {
	vertices, indices := quad()
	GenerateNormals(vertices, indices)
	for _, v := range vertices {
		assert.InDeltaSlice(t, []float32{0, 1, 0}, v.Normal[:], 1e-6)
	}

	GenerateTangents(vertices, indices)
	for _, v := range vertices {
		assert.InDeltaSlice(t, []float32{1, 0, 0}, v.Tangent[:3], 1e-6)
		assert.InDelta(t, 1, math.Abs(float64(v.Tangent[3])), 1e-6)
	}
}

func TestGenerateNormalsDegenerate(t *testing.T) {
	vertices := []GPUVertex{{}, {}, {}}
	GenerateNormals(vertices, []uint32{0, 1, 2, 0, 1, 9})
	assert.Equal(t, [3]float32{0, 1, 0}, vertices[0].Normal)
}

func TestBoundingBox(t *testing.T) {
	vertices, _ := quad()
	bmin, bmax := BoundingBox(vertices)
	assert.Equal(t, [3]float32{-1, 0, -1}, bmin)
	assert.Equal(t, [3]float32{1, 0, 1}, bmax)

	zmin, zmax := BoundingBox(nil)
	assert.Equal(t, [3]float32{}, zmin)
	assert.Equal(t, [3]float32{}, zmax)
}
