// Package geometry generates the procedural primitive meshes used by scenes: boxes, planes, cylinders, cones and spheres.
// Every generator produces counter-clockwise front faces, smooth normals, tangents and UVs whose origin is the
// top-left corner of the image.
package geometry

import (
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
)

// meshBuilder accumulates vertices, indices and draw groups while a generator runs.
type meshBuilder struct {
	vertices []model.GPUVertex
	indices  []uint32
	groups   []model.Group
}

// vertex appends a vertex and returns its index. v is given with a bottom-left origin and is flipped here.
func (b *meshBuilder) vertex(position, normal [3]float32, u, v float32) uint32 {
	b.vertices = append(b.vertices, model.GPUVertex{
		Position: position,
		Normal:   normal,
		TexCoord: [2]float32{u, 1 - v},
		Color:    [4]float32{1, 1, 1, 1},
	})
	return uint32(len(b.vertices) - 1)
}

func (b *meshBuilder) triangle(a, c, d uint32) {
	b.indices = append(b.indices, a, c, d)
}

// group closes a draw group covering every index appended since start.
func (b *meshBuilder) group(start, materialIndex int) {
	if count := len(b.indices) - start; count > 0 {
		b.groups = append(b.groups, model.Group{Start: start, Count: count, MaterialIndex: materialIndex})
	}
}

// build generates tangents and wraps the accumulated data in a Model.
func (b *meshBuilder) build(name string, params model.Parameters) model.Model {
	model.GenerateTangents(b.vertices, b.indices)
	return model.NewModel(
		model.WithName(name),
		model.WithParameters(params),
		model.WithMesh(b.vertices, b.indices),
		model.WithGroups(b.groups...),
	)
}
