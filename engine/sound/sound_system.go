package sound

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-mdl/engine/animation"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
)

// ErrSoundNotFound is returned when no search root holds a requested sound.
var ErrSoundNotFound = errors.New("sound not found")

// soundDir is the directory sounds live in under a game directory.
const soundDir = "sound"

// searchRoot is one directory searched for sound files.
type searchRoot struct {
	name string
	fsys fs.FS
}

// cachedSound is a resolved sound file.
type cachedSound struct {
	name string
	data []byte
}

// soundSystem is the implementation of the SoundSystem interface.
type soundSystem struct {
	mu sync.Mutex

	roots     []searchRoot
	recursive bool

	sampleRate int
	volume     float64

	backend soundBackend

	cache     map[string]cachedSound
	missing   map[string]bool
	resolving map[string]bool
	wg        sync.WaitGroup
}

// SoundSystem resolves sound tokens from animation events against a list of search roots and
// plays the resolved WAV files.
//
// A token such as "scientist/sci_pain1.wav" is looked up in each root in the order the roots
// were added, first as given and then under the root's "sound" directory. With recursive
// search enabled every subdirectory of a root is tried as well. Resolved files are read once
// and cached.
//
// PlaySound does no file I/O on the caller's goroutine: a cached sound starts playing at once,
// and a token seen for the first time is resolved and played in the background. Preload
// resolves every sound a model's events name so playback never waits on disk.
type SoundSystem interface {
	animation.SoundPlayer

	// AddSearchPath appends a directory on disk to the search roots.
	//
	// Parameters:
	//   - dir: the directory, typically a game directory such as "valve"
	AddSearchPath(dir string)

	// AddSearchFS appends a file system to the search roots.
	//
	// Parameters:
	//   - name: a name for diagnostics
	//   - fsys: the file system
	AddSearchFS(name string, fsys fs.FS)

	// Preload resolves the sound of every sound event in model's sequences.
	//
	// Parameters:
	//   - model: the model whose events to scan
	//
	// Returns:
	//   - int: the number of distinct sounds found
	//   - error: a joined ErrSoundNotFound for every token no root holds
	Preload(model studio.StudioModel) (int, error)

	// Resolve finds the file a token refers to without playing it. It reads from the search
	// roots on the caller's goroutine.
	//
	// Parameters:
	//   - token: the sound token
	//
	// Returns:
	//   - string: the root name and path of the resolved file
	//   - []byte: the file contents
	//   - error: ErrSoundNotFound when no root holds the file
	Resolve(token string) (string, []byte, error)

	// Close waits for background resolutions, then stops playback and releases the audio device.
	//
	// Returns:
	//   - error: error if the device could not be released
	Close() error
}

var _ SoundSystem = &soundSystem{}

// NewSoundSystem creates a SoundSystem playing through Ebiten's audio context.
//
// Parameters:
//   - options: a variadic list of SoundSystemBuilderOption functions
//
// Returns:
//   - SoundSystem: the sound system
func NewSoundSystem(options ...SoundSystemBuilderOption) SoundSystem {
	s := &soundSystem{
		sampleRate: DefaultSampleRate,
		volume:     1,
		cache:      make(map[string]cachedSound),
		missing:    make(map[string]bool),
		resolving:  make(map[string]bool),
	}
	for _, option := range options {
		option(s)
	}
	if s.backend == nil {
		s.backend = newEbitenSoundBackend(s.sampleRate, s.volume)
	}
	return s
}

func (s *soundSystem) AddSearchPath(dir string) {
	s.AddSearchFS(dir, os.DirFS(dir))
}

func (s *soundSystem) AddSearchFS(name string, fsys fs.FS) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roots = append(s.roots, searchRoot{name: name, fsys: fsys})
	clear(s.missing)
}

func (s *soundSystem) PlaySound(token string) error {
	rel, err := cleanToken(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	c, cached := s.cache[rel]
	switch {
	case cached:
	case s.missing[rel]:
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSoundNotFound, rel)
	case s.resolving[rel]:
		s.mu.Unlock()
		return nil
	default:
		s.resolving[rel] = true
		s.wg.Add(1)
		s.mu.Unlock()
		go s.resolveAndPlay(rel)
		return nil
	}
	s.mu.Unlock()

	return s.play(c)
}

func (s *soundSystem) Preload(model studio.StudioModel) (int, error) {
	seen := make(map[string]bool)
	var errs []error
	for _, seq := range model.Sequences() {
		for _, ev := range seq.Events {
			if ev.Event != studio.ScriptEventSound {
				continue
			}
			token := animation.SoundToken(ev.Options)
			if token == "" || seen[token] {
				continue
			}
			seen[token] = true
			if _, _, err := s.Resolve(token); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return len(seen) - len(errs), errors.Join(errs...)
}

// resolveAndPlay looks a token up off the caller's goroutine and plays it if found.
func (s *soundSystem) resolveAndPlay(rel string) {
	defer s.wg.Done()

	name, data, err := s.Resolve(rel)

	s.mu.Lock()
	delete(s.resolving, rel)
	s.mu.Unlock()

	if err != nil {
		return
	}
	_ = s.play(cachedSound{name: name, data: data})
}

func (s *soundSystem) play(c cachedSound) error {
	if err := s.backend.Play(c.name, c.data); err != nil {
		log.Printf("[Sound] %v", err)
		return err
	}
	return nil
}

func (s *soundSystem) Resolve(token string) (string, []byte, error) {
	rel, err := cleanToken(token)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	if c, ok := s.cache[rel]; ok {
		s.mu.Unlock()
		return c.name, c.data, nil
	}
	if s.missing[rel] {
		s.mu.Unlock()
		return "", nil, fmt.Errorf("%w: %s", ErrSoundNotFound, rel)
	}
	roots := slices.Clone(s.roots)
	s.mu.Unlock()

	for _, root := range roots {
		p, ok := s.find(root.fsys, rel)
		if !ok {
			continue
		}
		data, err := fs.ReadFile(root.fsys, p)
		if err != nil {
			return "", nil, fmt.Errorf("sound: read %s/%s: %w", root.name, p, err)
		}
		c := cachedSound{name: path.Join(root.name, p), data: data}
		s.mu.Lock()
		s.cache[rel] = c
		s.mu.Unlock()
		return c.name, c.data, nil
	}

	s.mu.Lock()
	// A root added during the search may hold the file; leave it unmarked so it is retried.
	if len(s.roots) == len(roots) {
		s.missing[rel] = true
	}
	s.mu.Unlock()
	log.Printf("[Sound] %s not found in %d search paths", rel, len(roots))
	return "", nil, fmt.Errorf("%w: %s", ErrSoundNotFound, rel)
}

func (s *soundSystem) Close() error {
	s.wg.Wait()
	return s.backend.Close()
}

// find returns the path of rel inside fsys.
func (s *soundSystem) find(fsys fs.FS, rel string) (string, bool) {
	for _, candidate := range []string{rel, path.Join(soundDir, rel)} {
		if isFile(fsys, candidate) {
			return candidate, true
		}
	}
	if !s.recursive {
		return "", false
	}

	var found string
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		candidate := path.Join(p, rel)
		if isFile(fsys, candidate) {
			found = candidate
			return fs.SkipAll
		}
		return nil
	})
	return found, found != ""
}

func isFile(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && !info.IsDir()
}

// cleanToken turns an event payload into a slash-separated path relative to a search root.
func cleanToken(token string) (string, error) {
	rel := strings.TrimSpace(animation.SoundToken(token))
	rel = strings.ReplaceAll(rel, `\`, "/")
	rel = path.Clean(strings.TrimLeft(rel, "/"))
	if rel == "." || !fs.ValidPath(rel) {
		return "", fmt.Errorf("sound: invalid sound token %q", token)
	}
	return rel, nil
}
