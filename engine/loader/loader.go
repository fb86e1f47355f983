package loader

import (
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"golang.org/x/sync/singleflight"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeMDL selects the studio model (.mdl) loader backend.
	BackendTypeMDL LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	readFile fileReader

	modelCache map[string]studio.StudioModel
	inflight   singleflight.Group

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching studio models.
// It abstracts the file format behind a generic backend and manages a cache of previously
// loaded models.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// Concurrent calls for the same path share a single import.
	// The backend is selected based on the file extension (.mdl → studio model backend).
	// Sequences stored in external group files are read from the sibling <base>NN.mdl files.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - studio.StudioModel: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (studio.StudioModel, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//
	// Returns:
	//   - studio.StudioModel: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (studio.StudioModel, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - studio.StudioModel: the cached model or nil
	Get(name string) studio.StudioModel

	// Evict removes a model from the cache so the next Load reads it again.
	//
	// Parameters:
	//   - key: the cache key, a file path or a LoadReader name
	//
	// Returns:
	//   - bool: true if a model was cached under key
	Evict(key string) bool

	// Models returns a copy of the full model cache.
	//
	// Returns:
	//   - map[string]studio.StudioModel: all cached models keyed by name
	Models() map[string]studio.StudioModel
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeMDL)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		readFile:   os.ReadFile,
		modelCache: make(map[string]studio.StudioModel),
	}

	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeMDL:
		l.backend = newMDLLoaderBackend(l.readFile)
	}
	return l
}

func (l *loader) Load(path string) (studio.StudioModel, error) {
	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}
	return l.cached(path, func() (studio.StudioModel, error) {
		m, err := backend.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		log.Printf("[Loader] loaded %s: %d bones, %d controllers, %d sequences", path, len(m.Bones()), len(m.BoneControllers()), len(m.Sequences()))
		return m, nil
	})
}

func (l *loader) LoadReader(name string, r io.Reader) (studio.StudioModel, error) {
	if l.backend == nil {
		return nil, fmt.Errorf("loader: no backend configured")
	}
	return l.cached(name, func() (studio.StudioModel, error) {
		m, err := l.backend.LoadReader(name, r)
		if err != nil {
			return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
		}
		return m, nil
	})
}

// cached returns the model cached under key, or runs load once for all concurrent callers
// asking for the same key and caches its result.
func (l *loader) cached(key string, load func() (studio.StudioModel, error)) (studio.StudioModel, error) {
	if m := l.Get(key); m != nil {
		return m, nil
	}

	v, err, _ := l.inflight.Do(key, func() (any, error) {
		if m := l.Get(key); m != nil {
			return m, nil
		}
		m, err := load()
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.modelCache[key] = m
		l.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(studio.StudioModel), nil
}

func (l *loader) Evict(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.modelCache[key]
	delete(l.modelCache, key)
	return ok
}

func (l *loader) Get(name string) studio.StudioModel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]studio.StudioModel {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return maps.Clone(l.modelCache)
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only studio models are supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mdl":
		if l.backend == nil {
			return nil, fmt.Errorf("loader: no backend configured")
		}
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported model format: %s", ext)
	}
}
