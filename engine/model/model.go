package model

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/bind_group_provider"
)

// model is the implementation of the Model interface.
type model struct {
	mu sync.Mutex

	name           string
	parameters     Parameters
	vertices       []GPUVertex
	indices        []uint32
	groups         []Group
	boundingRadius float32

	vertexData, indexData []byte
	meshProvider          bind_group_provider.BindGroupProvider
}

// Model defines the interface for shareable mesh geometry.
// A Model holds CPU-side vertices, indices and draw groups, plus the BindGroupProvider that owns the GPU
// copies once the renderer has uploaded them. A single Model can be referenced by many scene nodes.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Parameters returns the shape parameters the geometry was generated from.
	// Imported meshes report KindImported and zero dimensions.
	//
	// Returns:
	//   - Parameters: the generator parameters
	Parameters() Parameters

	// Vertices returns the vertex list.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices returns the triangle index list.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// Groups returns the draw ranges of the index buffer, each with the material slot it is drawn with.
	// A model always has at least one group.
	//
	// Returns:
	//   - []Group: the draw groups
	Groups() []Group

	// VertexData returns the vertices serialized for GPU upload. The result is computed once.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the indices serialized for GPU upload. The result is computed once.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the maximum vertex distance from the model origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources, or nil before upload.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// SetMeshProvider assigns the BindGroupProvider holding GPU mesh resources.
	//
	// Parameters:
	//   - provider: the mesh provider
	SetMeshProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// When no groups are given a single group spanning every index with material slot 0 is created,
// and the bounding radius is computed from the vertices unless WithBoundingRadius was used.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{boundingRadius: -1}
	for _, opt := range options {
		opt(m)
	}
	if len(m.groups) == 0 {
		m.groups = []Group{{Start: 0, Count: len(m.indices), MaterialIndex: 0}}
	}
	if m.boundingRadius < 0 {
		m.boundingRadius = ComputeBoundingRadius(m.vertices)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Parameters() Parameters {
	return m.parameters
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) Groups() []Group {
	return m.groups
}

func (m *model) VertexData() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vertexData == nil {
		m.vertexData = MarshalVertices(m.vertices)
	}
	return m.vertexData
}

func (m *model) IndexData() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexData == nil {
		m.indexData = MarshalIndices(m.indices)
	}
	return m.indexData
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meshProvider
}

func (m *model) SetMeshProvider(provider bind_group_provider.BindGroupProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meshProvider = provider
}
