package sound

// soundBackend plays decoded sound files. Concrete implementations (e.g., ebitenSoundBackend)
// handle the audio device.
type soundBackend interface {
	// Play starts asynchronous playback of a WAV file.
	//
	// Parameters:
	//   - name: the resolved file name, for diagnostics
	//   - data: the raw file bytes
	//
	// Returns:
	//   - error: error if the file cannot be decoded or played
	Play(name string, data []byte) error

	// Close stops every active sound and releases the device.
	//
	// Returns:
	//   - error: error if the device could not be released
	Close() error
}
