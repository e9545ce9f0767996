package model

import (
	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies the generator a Model came from.
type Kind string

const (
	KindImported Kind = "imported"
	KindBox      Kind = "box"
	KindPlane    Kind = "plane"
	KindCylinder Kind = "cylinder"
	KindCone     Kind = "cone"
	KindSphere   Kind = "sphere"
)

// Parameters records the inputs of a procedural geometry generator.
// Fields that do not apply to a Kind are left at zero.
type Parameters struct {
	Kind Kind

	Width, Height, Depth float32

	// Radius is used by spheres and cones, RadiusTop and RadiusBottom by cylinders.
	Radius, RadiusTop, RadiusBottom float32

	WidthSegments, HeightSegments, RadialSegments int
}

// Group is a contiguous range of the index buffer drawn with one material slot.
type Group struct {
	// Start is the first index of the range.
	Start int

	// Count is the number of indices in the range.
	Count int

	// MaterialIndex selects the material used for this range.
	MaterialIndex int
}

// ImportedModel represents a 3D model loaded from an external format before it is turned into scene nodes.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains one entry per glTF primitive.
	Meshes []ImportedMesh

	// Materials are referenced by ImportedMesh.MaterialIndex.
	Materials []common.ImportedMaterial

	// Nodes is the transform hierarchy. Roots lists the top-level entries.
	Nodes []ImportedNode
	Roots []int
}

// ImportedNode is one entry of an imported transform hierarchy.
type ImportedNode struct {
	Name string

	// Matrix is the local transform relative to the parent node.
	Matrix mgl32.Mat4

	// Meshes indexes ImportedModel.Meshes drawn at this node.
	Meshes []int

	// Children indexes ImportedModel.Nodes.
	Children []int
}

// ImportedMesh represents a single primitive within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	Vertices []GPUVertex
	Indices  []uint32

	// MaterialIndex references ImportedModel.Materials, or -1 for the default material.
	MaterialIndex int

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}
