package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter defines the interface for orchestrating a full glTF/GLB import.
// It combines the parser and the extractors to produce a complete ImportedModel.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts meshes, materials and the node hierarchy
	// of the default scene.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *model.ImportedModel: the populated imported model
	//   - error: error if import fails
	Import(path string) (*model.ImportedModel, error)

	// ImportReader loads a glTF JSON or GLB binary stream.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - baseDir: directory that relative buffer and image URIs resolve against
	//   - name: fallback model name when the document does not name its scene
	//
	// Returns:
	//   - *model.ImportedModel: the populated imported model
	//   - error: error if import fails
	ImportReader(r io.Reader, baseDir, name string) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return imp.importFromParser(parser, path)
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, baseDir, name string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, baseDir); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}

	return imp.importFromParser(parser, name)
}

// importFromParser extracts everything reachable from the default scene of an already parsed document.
func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackName string) (*model.ImportedModel, error) {
	doc := parser.Document()

	if len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = *doc.Scene
	}
	if sceneIndex < 0 || sceneIndex >= len(doc.Scenes) {
		return nil, fmt.Errorf("default scene %d out of range: %w", sceneIndex, ErrNoScene)
	}

	meshExtractor := newGLTFMeshExtractor(parser)
	materialExtractor := newGLTFMaterialExtractor(parser)

	// a glTF mesh expands to one ImportedMesh per primitive, so nodes keep a list
	var meshes []model.ImportedMesh
	meshSlots := make([][]int, len(doc.Meshes))
	for i := range doc.Meshes {
		prims, err := meshExtractor.ExtractMesh(i)
		if err != nil {
			return nil, fmt.Errorf("mesh extraction failed: %w", err)
		}
		for _, p := range prims {
			meshSlots[i] = append(meshSlots[i], len(meshes))
			meshes = append(meshes, p)
		}
	}

	materials, err := materialExtractor.ExtractAllMaterials()
	if err != nil {
		return nil, fmt.Errorf("material extraction failed: %w", err)
	}
	for i := range meshes {
		if meshes[i].MaterialIndex >= len(materials) {
			return nil, fmt.Errorf("mesh %q references material %d of %d", meshes[i].Name, meshes[i].MaterialIndex, len(materials))
		}
	}

	nodes := make([]model.ImportedNode, len(doc.Nodes))
	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		for _, c := range n.Children {
			if c < 0 || c >= len(doc.Nodes) {
				return nil, fmt.Errorf("node %d child index %d out of range", i, c)
			}
		}
		nodes[i] = model.ImportedNode{
			Name:     common.Coalesce(n.Name, fmt.Sprintf("node_%d", i)),
			Matrix:   gltfNodeMatrix(n),
			Children: append([]int(nil), n.Children...),
		}
		if n.Mesh != nil {
			if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
				return nil, fmt.Errorf("node %d mesh index %d out of range", i, *n.Mesh)
			}
			nodes[i].Meshes = append([]int(nil), meshSlots[*n.Mesh]...)
		}
	}

	roots := append([]int(nil), doc.Scenes[sceneIndex].Nodes...)
	for _, r := range roots {
		if r < 0 || r >= len(doc.Nodes) {
			return nil, fmt.Errorf("scene root index %d out of range", r)
		}
	}

	return &model.ImportedModel{
		Name:      gltfExtractModelName(doc, sceneIndex, fallbackName),
		Meshes:    meshes,
		Materials: materials,
		Nodes:     nodes,
		Roots:     roots,
	}, nil
}

// gltfNodeMatrix returns the local transform of a node. An explicit matrix wins over TRS properties.
func gltfNodeMatrix(n *gltfNode) mgl32.Mat4 {
	if n.Matrix != nil {
		return mgl32.Mat4(*n.Matrix)
	}

	translation := mgl32.Vec3{}
	if n.Translation != nil {
		translation = mgl32.Vec3(*n.Translation)
	}
	// glTF stores quaternions as (x, y, z, w)
	rotation := mgl32.QuatIdent()
	if n.Rotation != nil {
		r := *n.Rotation
		rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	scale := mgl32.Vec3{1, 1, 1}
	if n.Scale != nil {
		scale = mgl32.Vec3(*n.Scale)
	}
	return common.ComposeTRS(translation, rotation, scale)
}

// gltfExtractModelName derives a model name from the scene name or a file path fallback.
func gltfExtractModelName(doc *gltfDocument, sceneIndex int, fallback string) string {
	if name := doc.Scenes[sceneIndex].Name; name != "" {
		return name
	}
	if fallback != "" {
		return strings.TrimSuffix(filepath.Base(fallback), filepath.Ext(fallback))
	}
	return "unnamed_model"
}
