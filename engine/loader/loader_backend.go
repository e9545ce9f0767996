package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
)

// loaderBackend imports one model file format into the format-neutral model.ImportedModel.
type loaderBackend interface {
	// Load imports the file at path.
	Load(path string) (*model.ImportedModel, error)

	// LoadReader imports a stream.
	//
	// Parameters:
	//   - r: the model data
	//   - baseDir: directory that relative references inside the stream resolve against
	//   - name: the model name used when the stream does not carry one
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if parsing or extraction fails
	LoadReader(r io.Reader, baseDir, name string) (*model.ImportedModel, error)
}

// gltfBackend serves .gltf and .glb files through the glTF importer.
type gltfBackend struct {
	importer gltfImporter
}

var _ loaderBackend = &gltfBackend{}

func newGLTFLoaderBackend() loaderBackend {
	return &gltfBackend{importer: newGLTFImporter()}
}

func (b *gltfBackend) Load(path string) (*model.ImportedModel, error) {
	return b.importer.Import(path)
}

func (b *gltfBackend) LoadReader(r io.Reader, baseDir, name string) (*model.ImportedModel, error) {
	return b.importer.ImportReader(r, baseDir, name)
}
