package loader

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithFileSystem is an option builder that makes the Loader read model and sequence group
// files from fsys instead of the operating system's file system.
//
// Parameters:
//   - fsys: the file system to read from
//
// Returns:
//   - LoaderBuilderOption: a function that applies the file system option to a loader
func WithFileSystem(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.readFile = func(name string) ([]byte, error) {
			return fs.ReadFile(fsys, name)
		}
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model studio.StudioModel) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}
