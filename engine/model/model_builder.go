package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithParameters is an option builder that records the shape parameters the geometry was generated from.
//
// Parameters:
//   - params: the generator parameters
//
// Returns:
//   - ModelBuilderOption: a function that applies the parameters option to a model
func WithParameters(params Parameters) ModelBuilderOption {
	return func(m *model) {
		m.parameters = params
	}
}

// WithMesh is an option builder that sets the vertices and triangle indices of the Model.
//
// Parameters:
//   - vertices: the vertex list
//   - indices: the triangle index list
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(vertices []GPUVertex, indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.vertices = vertices
		m.indices = indices
	}
}

// WithGroups is an option builder that splits the index buffer into material draw groups.
//
// Parameters:
//   - groups: the draw groups
//
// Returns:
//   - ModelBuilderOption: a function that applies the groups option to a model
func WithGroups(groups ...Group) ModelBuilderOption {
	return func(m *model) {
		m.groups = groups
	}
}

// WithBoundingRadius is an option builder that manually sets the bounding sphere radius.
//
// Parameters:
//   - radius: the bounding radius to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounding radius option to a model
func WithBoundingRadius(radius float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = radius
	}
}
