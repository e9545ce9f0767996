package loader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-yuletide/common"

	"github.com/cogentcore/webgpu/wgpu"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser

	// textures caches resolved textures by glTF texture index so that materials sharing an image share one texture.
	textures map[int]*common.ImportedTexture
}

// gltfMaterialExtractor defines the interface for extracting material and texture data
// from a parsed glTF document into engine-ready ImportedMaterial structs.
type gltfMaterialExtractor interface {
	// ExtractMaterial extracts a single material by index, resolving referenced textures.
	// Texture pixels are not decoded here.
	//
	// Parameters:
	//   - materialIndex: the index of the material in the document
	//
	// Returns:
	//   - *common.ImportedMaterial: the extracted material
	//   - error: error if extraction fails
	ExtractMaterial(materialIndex int) (*common.ImportedMaterial, error)

	// ExtractAllMaterials extracts all materials from the document.
	//
	// Returns:
	//   - []common.ImportedMaterial: all extracted materials in document order
	//   - error: error if extraction fails
	ExtractAllMaterials() ([]common.ImportedMaterial, error)

	// Textures returns every distinct texture resolved so far.
	Textures() []*common.ImportedTexture
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a new material extractor for a parsed document.
func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{parser: parser, textures: make(map[int]*common.ImportedTexture)}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex int) (*common.ImportedMaterial, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if materialIndex < 0 || materialIndex >= len(doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", materialIndex)
	}

	mat := &doc.Materials[materialIndex]

	result := &common.ImportedMaterial{
		Name:        mat.Name,
		BaseColor:   [4]float32{1, 1, 1, 1},
		Metallic:    1.0,
		Roughness:   1.0,
		DoubleSided: mat.DoubleSided,
	}

	switch mat.AlphaMode {
	case gltfAlphaModeBlend:
		result.AlphaBlend = true
	case gltfAlphaModeMask:
		result.AlphaCutoff = 0.5
		if mat.AlphaCutoff != nil {
			result.AlphaCutoff = *mat.AlphaCutoff
		}
	}

	if mat.EmissiveFactor != nil {
		result.Emissive = *mat.EmissiveFactor
	}

	var err error
	if pbr := mat.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			result.BaseColor = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			result.Metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			result.Roughness = *pbr.RoughnessFactor
		}
		if result.DiffuseTexture, err = e.textureFor(pbr.BaseColorTexture); err != nil {
			return nil, fmt.Errorf("material %q: base color texture: %w", mat.Name, err)
		}
		if result.MetallicRoughnessTexture, err = e.textureFor(pbr.MetallicRoughnessTexture); err != nil {
			return nil, fmt.Errorf("material %q: metallic-roughness texture: %w", mat.Name, err)
		}
	}

	if result.NormalTexture, err = e.textureFor(mat.NormalTexture); err != nil {
		return nil, fmt.Errorf("material %q: normal texture: %w", mat.Name, err)
	}
	if result.EmissiveTexture, err = e.textureFor(mat.EmissiveTexture); err != nil {
		return nil, fmt.Errorf("material %q: emissive texture: %w", mat.Name, err)
	}

	return result, nil
}

func (e *gltfMaterialExtractorImpl) ExtractAllMaterials() ([]common.ImportedMaterial, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	materials := make([]common.ImportedMaterial, 0, len(doc.Materials))
	for i := range doc.Materials {
		mat, err := e.ExtractMaterial(i)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		materials = append(materials, *mat)
	}
	return materials, nil
}

func (e *gltfMaterialExtractorImpl) Textures() []*common.ImportedTexture {
	doc := e.parser.Document()
	result := make([]*common.ImportedTexture, 0, len(e.textures))
	if doc == nil {
		return result
	}
	for i := range doc.Textures {
		if tex, ok := e.textures[i]; ok && tex != nil {
			result = append(result, tex)
		}
	}
	return result
}

// textureFor resolves a texture reference, returning nil for a nil reference.
func (e *gltfMaterialExtractorImpl) textureFor(info *gltfTextureInfo) (*common.ImportedTexture, error) {
	if info == nil {
		return nil, nil
	}
	if tex, ok := e.textures[info.Index]; ok {
		return tex, nil
	}
	tex, err := e.loadTexture(info.Index)
	if err != nil {
		return nil, err
	}
	e.textures[info.Index] = tex
	return tex, nil
}

// loadTexture resolves a glTF texture index into an ImportedTexture.
// Embedded images (buffer view or data URI) carry their bytes; external images carry a resolved path.
func (e *gltfMaterialExtractorImpl) loadTexture(textureIndex int) (*common.ImportedTexture, error) {
	doc := e.parser.Document()
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}

	tex := &doc.Textures[textureIndex]
	if tex.Source == nil {
		return nil, nil
	}

	// glTF defaults to repeat wrapping with linear filtering when no sampler is given
	samplerData := gltfSamplerToStagingData(&gltfSampler{})
	if tex.Sampler != nil {
		samplerIdx := *tex.Sampler
		if samplerIdx < 0 || samplerIdx >= len(doc.Samplers) {
			return nil, fmt.Errorf("sampler index %d out of range", samplerIdx)
		}
		samplerData = gltfSamplerToStagingData(&doc.Samplers[samplerIdx])
	}

	imageIndex := *tex.Source
	if imageIndex < 0 || imageIndex >= len(doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", imageIndex)
	}
	img := &doc.Images[imageIndex]

	result := &common.ImportedTexture{
		Name:        common.Coalesce(img.Name, tex.Name, fmt.Sprintf("texture_%d", textureIndex)),
		MimeType:    img.MimeType,
		SamplerData: samplerData,
	}

	switch {
	case img.BufferView != nil:
		data, err := e.readBufferViewRaw(*img.BufferView)
		if err != nil {
			return nil, fmt.Errorf("failed to read image buffer view: %w", err)
		}
		result.Data = data
	case strings.HasPrefix(img.URI, "data:"):
		data, mimeType, err := gltfDecodeDataURI(img.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data URI: %w", err)
		}
		result.Data = data
		result.MimeType = common.Coalesce(result.MimeType, mimeType)
	case img.URI != "":
		result.Path = e.parser.ResolvePath(img.URI)
	default:
		return nil, fmt.Errorf("image %d has neither uri nor bufferView", imageIndex)
	}

	return result, nil
}

// readBufferViewRaw reads raw bytes from a buffer view by index (not through an accessor).
// Image data is stored directly in buffer views without accessor interpretation.
func (e *gltfMaterialExtractorImpl) readBufferViewRaw(bufferViewIndex int) ([]byte, error) {
	doc := e.parser.Document()
	if bufferViewIndex < 0 || bufferViewIndex >= len(doc.BufferViews) {
		return nil, fmt.Errorf("bufferView index %d out of range", bufferViewIndex)
	}

	bv := &doc.BufferViews[bufferViewIndex]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer index %d out of range", bv.Buffer)
	}

	buf := &doc.Buffers[bv.Buffer]
	end := bv.ByteOffset + bv.ByteLength
	if end > len(buf.Data) {
		return nil, fmt.Errorf("bufferView exceeds buffer bounds: offset=%d length=%d bufSize=%d", bv.ByteOffset, bv.ByteLength, len(buf.Data))
	}

	data := make([]byte, bv.ByteLength)
	copy(data, buf.Data[bv.ByteOffset:end])
	return data, nil
}

// gltfSamplerToStagingData converts a glTF sampler definition into engine-ready SamplerStagingData.
// Any unset fields fall back to the glTF defaults (linear filtering, repeat wrapping).
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-sampler
//
// Parameters:
//   - s: the glTF sampler to convert
//
// Returns:
//   - *common.SamplerStagingData: the converted sampler staging data
func gltfSamplerToStagingData(s *gltfSampler) *common.SamplerStagingData {
	result := common.DefaultSampler()
	result.AddressModeU = wgpu.AddressModeRepeat
	result.AddressModeV = wgpu.AddressModeRepeat
	result.AddressModeW = wgpu.AddressModeRepeat

	if s.MagFilter != nil && *s.MagFilter == gltfFilterNearest {
		result.MagFilter = wgpu.FilterModeNearest
	}

	if s.MinFilter != nil {
		switch *s.MinFilter {
		case gltfFilterNearest, gltfFilterNearestMipmapNearest, gltfFilterNearestMipmapLinear:
			result.MinFilter = wgpu.FilterModeNearest
		}
		switch *s.MinFilter {
		case gltfFilterNearestMipmapNearest, gltfFilterLinearMipmapNearest, gltfFilterNearest, gltfFilterLinear:
			result.MipmapFilter = wgpu.MipmapFilterModeNearest
		}
	}

	if s.WrapS != nil {
		result.AddressModeU = gltfWrapToAddressMode(*s.WrapS)
	}
	if s.WrapT != nil {
		result.AddressModeV = gltfWrapToAddressMode(*s.WrapT)
	}
	return result
}

// gltfWrapToAddressMode converts a glTF wrap mode constant to a wgpu AddressMode.
func gltfWrapToAddressMode(wrap int) wgpu.AddressMode {
	switch wrap {
	case gltfWrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltfWrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}
