package renderer

import (
	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync queues frames and presents one per vertical blank (FIFO). This is the default:
	// the display's refresh paces the frame loop.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the GPU API the Renderer drives. Scene traversal, resource bookkeeping and
// draw ordering live in the Renderer; the backend only creates and uses GPU objects.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and recreates the depth and MSAA targets.
	// It must be called whenever the drawable size changes.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline compiles the pipeline's shader and state into a GPU render pipeline and
	// stores it on p. Bind group layouts are created once per group and shared by every pipeline.
	//
	// Parameters:
	//   - p: the pipeline to compile
	//
	// Returns:
	//   - error: an error if the pipeline could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data and stores the buffers on provider.
	//
	// Parameters:
	//   - provider: the mesh provider
	//   - vertexData: the serialized vertices
	//   - indexData: the serialized uint32 indices
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates any missing buffers of a bind group and then the bind group itself.
	// Textures and samplers must already be stored on provider.
	//
	// Parameters:
	//   - provider: the provider receiving the buffers and bind group
	//   - group: the group index, selecting the shared layout
	//   - descriptor: the group's layout descriptor
	//   - bufferSizeOverrides: buffer sizes by binding, replacing MinBindingSize
	//
	// Returns:
	//   - error: an error if a resource is missing or could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, group int, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// InitTexture uploads RGBA8 pixels into a new texture and stores it with its view on provider.
	//
	// Parameters:
	//   - provider: the provider receiving the texture
	//   - binding: the binding index
	//   - stagingData: the pixels and size
	//   - format: RGBA8UnormSrgb for color data, RGBA8Unorm for data maps
	//
	// Returns:
	//   - error: an error if the texture could not be created
	InitTexture(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData, format wgpu.TextureFormat) error

	// InitSampler creates a sampler and stores it on provider.
	//
	// Parameters:
	//   - provider: the provider receiving the sampler
	//   - binding: the binding index
	//   - samplerStagingData: the sampler configuration, zero fields take defaults
	//
	// Returns:
	//   - error: an error if the sampler could not be created
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues buffer writes. Writes without a destination buffer are skipped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain texture and begins the main render pass, clearing to clear.
	// Must be paired with EndFrame.
	//
	// Parameters:
	//   - clear: the linear clear color
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame(clear common.Color) error

	// DrawCall encodes one indexed draw within the current render pass.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - meshProvider: the provider holding vertex and index buffers
	//   - firstIndex: the first index of the range
	//   - indexCount: the number of indices to draw
	//   - bindGroups: providers whose bind groups are set at group 0, 1, ...
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, firstIndex, indexCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present presents the surface and releases the swapchain texture.
	Present()

	// Release frees the surface targets, shared layouts and the device.
	Release()
}
