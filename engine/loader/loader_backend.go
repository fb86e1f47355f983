package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
)

// loaderBackend defines the generic interface for loading models from files or streams.
// Concrete implementations (e.g., mdlLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load performs a full model import from the given file path.
	// This extracts the skeleton, bone controllers, sequences and their events.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - studio.StudioModel: the imported model
	//   - error: error if loading fails
	Load(path string) (studio.StudioModel, error)

	// LoadReader imports a model from a reader stream. External sequence group files are
	// resolved relative to name.
	//
	// Parameters:
	//   - name: the name the model is known by, used for group files and diagnostics
	//   - r: the reader providing model data
	//
	// Returns:
	//   - studio.StudioModel: the imported model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (studio.StudioModel, error)
}
