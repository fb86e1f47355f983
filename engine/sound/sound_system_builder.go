package sound

import "io/fs"

// SoundSystemBuilderOption is a functional option for configuring a SoundSystem via NewSoundSystem.
type SoundSystemBuilderOption func(*soundSystem)

// WithSearchPath appends a directory on disk to the search roots.
//
// Parameters:
//   - dir: the directory, typically a game directory such as "valve"
//
// Returns:
//   - SoundSystemBuilderOption: a function that applies the search path option to a sound system
func WithSearchPath(dir string) SoundSystemBuilderOption {
	return func(s *soundSystem) {
		s.AddSearchPath(dir)
	}
}

// WithSearchFS appends a file system to the search roots.
//
// Parameters:
//   - name: a name for diagnostics
//   - fsys: the file system
//
// Returns:
//   - SoundSystemBuilderOption: a function that applies the search file system option to a sound system
func WithSearchFS(name string, fsys fs.FS) SoundSystemBuilderOption {
	return func(s *soundSystem) {
		s.AddSearchFS(name, fsys)
	}
}

// WithRecursiveSearch makes lookups also try every subdirectory of each search root.
//
// Parameters:
//   - recursive: true to search subdirectories
//
// Returns:
//   - SoundSystemBuilderOption: a function that applies the recursive option to a sound system
func WithRecursiveSearch(recursive bool) SoundSystemBuilderOption {
	return func(s *soundSystem) {
		s.recursive = recursive
	}
}

// WithSampleRate sets the output sample rate of the audio context. Ignored when another
// component already created the process-wide context.
//
// Parameters:
//   - sampleRate: the sample rate in Hz
//
// Returns:
//   - SoundSystemBuilderOption: a function that applies the sample rate option to a sound system
func WithSampleRate(sampleRate int) SoundSystemBuilderOption {
	return func(s *soundSystem) {
		if sampleRate > 0 {
			s.sampleRate = sampleRate
		}
	}
}

// WithVolume sets the playback volume in [0, 1].
//
// Parameters:
//   - volume: the volume
//
// Returns:
//   - SoundSystemBuilderOption: a function that applies the volume option to a sound system
func WithVolume(volume float64) SoundSystemBuilderOption {
	return func(s *soundSystem) {
		s.volume = min(max(volume, 0), 1)
	}
}

// withBackend replaces the audio backend.
func withBackend(b soundBackend) SoundSystemBuilderOption {
	return func(s *soundSystem) {
		s.backend = b
	}
}
