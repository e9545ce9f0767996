// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxTextureDimension is the largest width or height a decoded texture keeps.
// Larger images are resampled down so that they fit the default device limits.
const MaxTextureDimension = 4096

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// DefaultSampler returns linear filtering with clamp-to-edge addressing, which is what file textures get
// unless a model file says otherwise.
func DefaultSampler() *SamplerStagingData {
	return &SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// ImportedMaterial represents material properties from an imported model file.
type ImportedMaterial struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo color (RGBA, linear).
	BaseColor [4]float32

	// Emissive is the emitted color (linear).
	Emissive [3]float32

	// Metallic factor (0.0 = dielectric, 1.0 = metal).
	Metallic float32

	// Roughness factor (0.0 = smooth, 1.0 = rough).
	Roughness float32

	// AlphaBlend reports whether the material uses alpha blending.
	AlphaBlend bool

	// AlphaCutoff is the mask threshold, zero when masking is off.
	AlphaCutoff float32

	// DoubleSided disables back-face culling.
	DoubleSided bool

	DiffuseTexture           *ImportedTexture
	NormalTexture            *ImportedTexture
	MetallicRoughnessTexture *ImportedTexture
	EmissiveTexture          *ImportedTexture
}

// ImportedTexture represents texture data that is decoded on demand.
// For embedded textures the Data field contains raw image bytes.
// For external textures the Path field contains the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "diffuse", "normal").
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw encoded image bytes for embedded textures.
	Data []byte

	// MimeType indicates the image format (e.g., "image/png", "image/jpeg").
	MimeType string

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int

	// SamplerData holds GPU sampler parameters. When nil, DefaultSampler is used.
	SamplerData *SamplerStagingData

	decodeMu sync.Mutex
	decoded  bool
	staged   *TextureStagingData
	err      error
	pending  atomic.Bool
}

// MarkPending flags the texture as being decoded in the background. Pending is cleared when Decode finishes.
func (t *ImportedTexture) MarkPending() {
	t.pending.Store(true)
}

// Pending reports whether a background decode has been scheduled and has not finished yet.
func (t *ImportedTexture) Pending() bool {
	return t.pending.Load()
}

// Release drops the cached pixels, typically once they have been uploaded to the GPU.
// A later Decode reads the source again.
func (t *ImportedTexture) Release() {
	t.decodeMu.Lock()
	defer t.decodeMu.Unlock()
	t.decoded = false
	t.staged = nil
	t.err = nil
}

// Decode decodes the texture to raw RGBA pixel data.
// Uses either embedded Data bytes or loads from Path on disk. The result, including a failure,
// is cached until Release so concurrent and repeated calls decode once.
// PNG, JPEG, BMP, TIFF and WebP are supported. Images wider or taller than MaxTextureDimension
// are resampled to fit.
//
// Returns:
//   - *TextureStagingData: RGBA pixels and dimensions
//   - error: error if the source cannot be read or decoded
func (t *ImportedTexture) Decode() (*TextureStagingData, error) {
	if t == nil {
		return nil, fmt.Errorf("texture is nil")
	}

	t.decodeMu.Lock()
	defer t.decodeMu.Unlock()
	defer t.pending.Store(false)

	if !t.decoded {
		t.staged, t.err = t.decode()
		t.decoded = true
	}
	return t.staged, t.err
}

// decode reads and converts the source image. Caller must hold decodeMu.
func (t *ImportedTexture) decode() (*TextureStagingData, error) {
	var src io.Reader
	switch {
	case len(t.Data) > 0:
		src = bytes.NewReader(t.Data)
	case t.Path != "":
		file, err := os.Open(t.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open texture file %s: %w", t.Path, err)
		}
		defer file.Close()
		src = file
	default:
		return nil, fmt.Errorf("texture has neither data nor path")
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", Coalesce(t.Path, t.Name), err)
	}

	rgba := toRGBA(img, MaxTextureDimension)
	t.Width = rgba.Bounds().Dx()
	t.Height = rgba.Bounds().Dy()

	return &TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(t.Width),
		Height: uint32(t.Height),
	}, nil
}

// SolidTexture returns a 1x1 texture staging buffer filled with the given RGBA value.
func SolidTexture(r, g, b, a byte) *TextureStagingData {
	return &TextureStagingData{Pixels: []byte{r, g, b, a}, Width: 1, Height: 1}
}

// toRGBA copies img into a tightly packed RGBA image, scaling it down with Catmull-Rom
// filtering when either side exceeds limit.
func toRGBA(img image.Image, limit int) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > limit || h > limit {
		if w >= h {
			h = max(1, h*limit/w)
			w = limit
		} else {
			w = max(1, w*limit/h)
			h = limit
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		return dst
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}
