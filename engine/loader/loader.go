package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/scene"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNoScene is returned when a model document has no scene to instantiate.
	ErrNoScene = errors.New("loaded model has no scene")

	// ErrUnsupportedFormat is returned for model files whose extension no backend handles.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrLoaderClosed is returned by loads submitted after Close.
	ErrLoaderClosed = errors.New("loader is closed")
)

const (
	defaultWorkers     = 4
	defaultQueueSize   = 64
	defaultIdleTimeout = 5 * time.Second
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	root   string
	logger zerolog.Logger

	workers   int
	queueSize int
	pool      worker.DynamicWorkerPool
	taskSeq   atomic.Int64
	closed    bool

	// models holds one prototype subtree per resolved path. Callers only ever receive clones.
	models   map[string]scene.Node
	textures map[string]*common.ImportedTexture
	inflight singleflight.Group

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching textures and 3D models.
// It abstracts the file format (glTF, GLB) behind a backend, resolves relative paths against
// an asset root and runs slow work on a worker pool.
type Loader interface {
	// Texture returns the texture for an image file and schedules its decode in the background.
	// Repeated calls with the same path return the same texture. The texture reports Pending
	// until the background decode finishes.
	//
	// Parameters:
	//   - path: the image path, relative to the asset root
	//
	// Returns:
	//   - *common.ImportedTexture: the shared texture
	Texture(path string) *common.ImportedTexture

	// LoadModel imports a model file and returns a fresh copy of its node tree.
	// The first load of a path is cached; concurrent first loads of the same path share one import.
	// Copies share geometry and materials but have independent transforms.
	//
	// Parameters:
	//   - path: the model path, relative to the asset root
	//
	// Returns:
	//   - scene.Node: a group node holding the model's default scene
	//   - error: error if loading fails
	LoadModel(path string) (scene.Node, error)

	// LoadAsync runs LoadModel on the worker pool.
	//
	// Parameters:
	//   - path: the model path, relative to the asset root
	//
	// Returns:
	//   - *Task[scene.Node]: handle resolving to the node tree or the load error
	LoadAsync(path string) *Task[scene.Node]

	// LoadReader imports a model stream and caches it under name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing glTF JSON or GLB data
	//   - baseDir: directory that relative URIs inside the stream resolve against
	//
	// Returns:
	//   - scene.Node: a fresh copy of the model's node tree
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, baseDir string) (scene.Node, error)

	// Get returns a fresh copy of a cached model, or nil if the name is not cached.
	//
	// Parameters:
	//   - name: the path or name the model was loaded under
	//
	// Returns:
	//   - scene.Node: the copy or nil
	Get(name string) scene.Node

	// Root returns the directory relative paths resolve against.
	Root() string

	// Close stops the worker pool. Loads submitted afterwards fail with ErrLoaderClosed.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the glTF backend and the given options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		logger:    log.Logger,
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
		models:    make(map[string]scene.Node),
		textures:  make(map[string]*common.ImportedTexture),
		backend:   newGLTFLoaderBackend(),
	}

	for _, option := range options {
		option(l)
	}

	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.workers, l.queueSize, defaultIdleTimeout)
	}
	return l
}

func (l *loader) Root() string {
	return l.root
}

func (l *loader) Texture(path string) *common.ImportedTexture {
	full := l.resolvePath(path)

	l.mu.Lock()
	if tex, ok := l.textures[full]; ok {
		l.mu.Unlock()
		return tex
	}
	tex := &common.ImportedTexture{
		Name:        filepath.Base(path),
		Path:        full,
		SamplerData: common.DefaultSampler(),
	}
	l.textures[full] = tex
	closed := l.closed
	if !closed {
		tex.MarkPending()
	}
	l.mu.Unlock()

	// after Close the renderer decodes on first use instead
	if closed {
		return tex
	}

	l.submit(full, func() (any, error) {
		if _, err := tex.Decode(); err != nil {
			l.logger.Debug().Err(err).Str("path", full).Msg("texture decode failed")
			return nil, err
		}
		return tex, nil
	})
	return tex
}

func (l *loader) LoadModel(path string) (scene.Node, error) {
	full := l.resolvePath(path)
	if n := l.Get(full); n != nil {
		return n, nil
	}

	backend, err := l.resolveBackend(full)
	if err != nil {
		return nil, err
	}

	proto, err, _ := l.inflight.Do(full, func() (any, error) {
		l.mu.RLock()
		cached, ok := l.models[full]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}

		start := time.Now()
		imported, err := backend.Load(full)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		l.decodeTextures(imported)

		n := BuildNode(imported)
		l.mu.Lock()
		l.models[full] = n
		l.mu.Unlock()

		l.logger.Debug().
			Str("path", full).
			Int("meshes", len(imported.Meshes)).
			Int("materials", len(imported.Materials)).
			Dur("took", time.Since(start)).
			Msg("model loaded")
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return proto.(scene.Node).Clone(), nil
}

func (l *loader) LoadAsync(path string) *Task[scene.Node] {
	task := newTask[scene.Node]()

	ok := l.submit(path, func() (any, error) {
		n, err := l.loadRecovered(path)
		task.resolve(n, err)
		return n, err
	})
	if !ok {
		task.resolve(nil, fmt.Errorf("failed to load %s: %w", path, ErrLoaderClosed))
	}
	return task
}

func (l *loader) LoadReader(name string, r io.Reader, baseDir string) (scene.Node, error) {
	if n := l.Get(name); n != nil {
		return n, nil
	}

	imported, err := l.backend.LoadReader(r, baseDir, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	l.decodeTextures(imported)

	n := BuildNode(imported)
	l.mu.Lock()
	l.models[name] = n
	l.mu.Unlock()

	return n.Clone(), nil
}

func (l *loader) Get(name string) scene.Node {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n, ok := l.models[name]
	if !ok {
		n, ok = l.models[l.resolvePath(name)]
	}
	if !ok {
		return nil
	}
	return n.Clone()
}

func (l *loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.pool.Stop()
}

// submit queues fn on the worker pool. It reports false when the loader is closed.
func (l *loader) submit(label string, fn func() (any, error)) bool {
	l.mu.RLock()
	closed := l.closed
	l.mu.RUnlock()
	if closed {
		return false
	}

	l.pool.SubmitTask(worker.Task{
		ID:      int(l.taskSeq.Add(1)),
		Payload: label,
		Do:      recoverTask(label, fn),
	})
	return true
}

// loadRecovered runs LoadModel and turns a panic into an error.
func (l *loader) loadRecovered(path string) (n scene.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = nil, fmt.Errorf("loading %s panicked: %v", path, r)
		}
	}()
	return l.LoadModel(path)
}

// recoverTask wraps fn so that a panic becomes an error instead of killing the worker goroutine.
func recoverTask(label string, fn func() (any, error)) func() (any, error) {
	return func() (result any, err error) {
		defer func() {
			if r := recover(); r != nil {
				result, err = nil, fmt.Errorf("task %s panicked: %v", label, r)
			}
		}()
		return fn()
	}
}

// decodeTextures decodes every texture of an imported model so the first draw does not stall.
// Failures are logged and left for the renderer to replace with a fallback texture.
func (l *loader) decodeTextures(imported *model.ImportedModel) {
	seen := make(map[*common.ImportedTexture]bool)
	for i := range imported.Materials {
		m := &imported.Materials[i]
		for _, tex := range []*common.ImportedTexture{m.DiffuseTexture, m.NormalTexture, m.MetallicRoughnessTexture, m.EmissiveTexture} {
			if tex == nil || seen[tex] {
				continue
			}
			seen[tex] = true
			if _, err := tex.Decode(); err != nil {
				l.logger.Debug().Err(err).Str("model", imported.Name).Str("texture", tex.Name).Msg("texture decode failed")
			}
		}
	}
}

// resolvePath joins relative paths onto the asset root.
func (l *loader) resolvePath(path string) string {
	if l.root == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.root, path)
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
