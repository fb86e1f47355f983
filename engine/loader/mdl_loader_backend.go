package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
)

// fileReader returns the full contents of the named file.
type fileReader func(name string) ([]byte, error)

// mdlLoaderBackendImpl is the implementation of mdlLoaderBackend.
type mdlLoaderBackendImpl struct {
	readFile fileReader
}

// mdlLoaderBackend is a loaderBackend implementation for studio model (.mdl) files.
type mdlLoaderBackend interface {
	loaderBackend
}

var _ mdlLoaderBackend = &mdlLoaderBackendImpl{}

// newMDLLoaderBackend creates a new studio model loader backend reading files through readFile.
//
// Parameters:
//   - readFile: the function used to read model and sequence group files
//
// Returns:
//   - mdlLoaderBackend: the loader backend for .mdl files
func newMDLLoaderBackend(readFile fileReader) mdlLoaderBackend {
	return &mdlLoaderBackendImpl{
		readFile: readFile,
	}
}

func (b *mdlLoaderBackendImpl) Load(path string) (studio.StudioModel, error) {
	data, err := b.readFile(path)
	if err != nil {
		return nil, err
	}
	return newMDLParser(modelName(path), data, b.groupSource(path)).parse()
}

func (b *mdlLoaderBackendImpl) LoadReader(name string, r io.Reader) (studio.StudioModel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return newMDLParser(modelName(name), data, b.groupSource(name)).parse()
}

// groupSource resolves external sequence groups of the model at path to the sibling files
// <base>01.mdl, <base>02.mdl and so on.
func (b *mdlLoaderBackendImpl) groupSource(path string) sequenceGroupSource {
	return func(index int) ([]byte, error) {
		return b.readFile(SequenceGroupPath(path, index))
	}
}

// SequenceGroupPath returns the path of external sequence group file index for the model at path.
//
// Parameters:
//   - path: the path of the main model file
//   - index: the 1-based sequence group index
//
// Returns:
//   - string: the sibling file holding that group's animation data
func SequenceGroupPath(path string, index int) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return fmt.Sprintf("%s%02d%s", base, index, sequenceGroupFileExt)
}

// modelName returns the file name of path without directory or extension.
func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
