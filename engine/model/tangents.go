package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// GenerateNormals computes smooth vertex normals from triangle geometry.
// Each face normal (edge1 x edge2, so its length is proportional to area) is accumulated onto the three
// corners and the sums are normalized. Vertices that receive no area get +Y.
//
// Parameters:
//   - vertices: the vertex slice to write normal data into
//   - indices: the triangle index buffer (must be a multiple of 3)
func GenerateNormals(vertices []GPUVertex, indices []uint32) {
	n := len(vertices)
	accum := make([]mgl32.Vec3, n)

	forEachTriangle(n, indices, func(i0, i1, i2 uint32) {
		p0 := mgl32.Vec3(vertices[i0].Position)
		face := mgl32.Vec3(vertices[i1].Position).Sub(p0).Cross(mgl32.Vec3(vertices[i2].Position).Sub(p0))
		accum[i0] = accum[i0].Add(face)
		accum[i1] = accum[i1].Add(face)
		accum[i2] = accum[i2].Add(face)
	})

	for i := range vertices {
		if accum[i].Len() < 1e-6 {
			vertices[i].Normal = [3]float32{0, 1, 0}
			continue
		}
		vertices[i].Normal = accum[i].Normalize()
	}
}

// GenerateTangents computes per-vertex tangents from UV gradients.
// Per-triangle tangent and bitangent directions are accumulated per vertex, the tangent is Gram-Schmidt
// orthonormalized against the vertex normal, and W stores the handedness (+1 or -1) such that
// cross(N, T) * W follows the glTF bitangent convention.
// Normals must already be populated.
//
// Parameters:
//   - vertices: the vertex slice to write tangent data into
//   - indices: the triangle index buffer (must be a multiple of 3)
func GenerateTangents(vertices []GPUVertex, indices []uint32) {
	n := len(vertices)
	tan := make([]mgl32.Vec3, n)
	btan := make([]mgl32.Vec3, n)

	forEachTriangle(n, indices, func(i0, i1, i2 uint32) {
		p0 := mgl32.Vec3(vertices[i0].Position)
		e1 := mgl32.Vec3(vertices[i1].Position).Sub(p0)
		e2 := mgl32.Vec3(vertices[i2].Position).Sub(p0)

		uv0 := mgl32.Vec2(vertices[i0].TexCoord)
		d1 := mgl32.Vec2(vertices[i1].TexCoord).Sub(uv0)
		d2 := mgl32.Vec2(vertices[i2].TexCoord).Sub(uv0)

		det := d1[0]*d2[1] - d1[1]*d2[0]
		if det == 0 {
			return
		}
		r := 1 / det
		t := e1.Mul(d2[1] * r).Sub(e2.Mul(d1[1] * r))
		b := e2.Mul(d1[0] * r).Sub(e1.Mul(d2[0] * r))

		for _, idx := range [3]uint32{i0, i1, i2} {
			tan[idx] = tan[idx].Add(t)
			btan[idx] = btan[idx].Add(b)
		}
	})

	for i := range vertices {
		normal := mgl32.Vec3(vertices[i].Normal)
		ortho := tan[i].Sub(normal.Mul(normal.Dot(tan[i])))
		if ortho.Len() < 1e-6 {
			vertices[i].Tangent = [4]float32{1, 0, 0, 1}
			continue
		}
		ortho = ortho.Normalize()

		// UVs have a top-left origin, so the bitangent normal maps expect points toward decreasing v.
		w := float32(1)
		if normal.Cross(ortho).Dot(btan[i]) > 0 {
			w = -1
		}
		vertices[i].Tangent = ortho.Vec4(w)
	}
}

// forEachTriangle calls fn for every complete triangle whose indices are all in range.
func forEachTriangle(vertexCount int, indices []uint32, fn func(i0, i1, i2 uint32)) {
	limit := uint32(vertexCount)
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if i0 >= limit || i1 >= limit || i2 >= limit {
			continue
		}
		fn(i0, i1, i2)
	}
}

// BoundingBox returns the axis-aligned bounds of the vertex positions, or two zero vectors for an empty slice.
//
// Parameters:
//   - vertices: the vertices to measure
//
// Returns:
//   - [3]float32: minimum corner
//   - [3]float32: maximum corner
func BoundingBox(vertices []GPUVertex) ([3]float32, [3]float32) {
	if len(vertices) == 0 {
		return [3]float32{}, [3]float32{}
	}
	bmin, bmax := vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		for j := 0; j < 3; j++ {
			bmin[j] = min(bmin[j], v.Position[j])
			bmax[j] = max(bmax[j], v.Position[j])
		}
	}
	return bmin, bmax
}
