package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption configures a BindGroupProvider in NewBindGroupProvider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithMesh attaches already uploaded geometry, e.g. when several providers draw the same buffers.
//
// Parameters:
//   - vertices: the vertex buffer
//   - indices: the index buffer
//   - indexCount: the number of indices drawn
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithMesh(vertices, indices *wgpu.Buffer, indexCount int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.SetMesh(vertices, indices, indexCount)
	}
}
