package sound

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-mdl/engine/animation"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio/studiotest"
	"github.com/go-gl/mathgl/mgl32"
)

type recordingBackend struct {
	played []string
	err    error
	closed bool
}

func (b *recordingBackend) Play(name string, _ []byte) error {
	b.played = append(b.played, name)
	return b.err
}

func (b *recordingBackend) Close() error {
	b.closed = true
	return nil
}

func gameFS() fstest.MapFS {
	return fstest.MapFS{
		"sound/scientist/sci_pain1.wav": {Data: []byte("RIFF-pain")},
		"sound/common/npc_step1.wav":    {Data: []byte("RIFF-step")},
		"root.wav":                      {Data: []byte("RIFF-root")},
		"sound/barney":                  {Mode: fs.ModeDir | 0o755},
	}
}

func TestResolveUnderSoundDirectory(t *testing.T) {
	s := NewSoundSystem(withBackend(&recordingBackend{}), WithSearchFS("valve", gameFS()))

	name, data, err := s.Resolve("scientist/sci_pain1.wav")
	if err != nil {
		t.Fatal(err)
	}
	if name != "valve/sound/scientist/sci_pain1.wav" {
		t.Errorf("name = %q", name)
	}
	if string(data) != "RIFF-pain" {
		t.Errorf("data = %q", data)
	}
}

func TestResolvePrefersRootOverSoundDirectory(t *testing.T) {
	s := NewSoundSystem(withBackend(&recordingBackend{}), WithSearchFS("valve", gameFS()))
	name, _, err := s.Resolve("root.wav")
	if err != nil {
		t.Fatal(err)
	}
	if name != "valve/root.wav" {
		t.Errorf("name = %q, want valve/root.wav", name)
	}
}

func TestResolveSearchOrder(t *testing.T) {
	mod := fstest.MapFS{"sound/common/npc_step1.wav": {Data: []byte("MOD")}}
	s := NewSoundSystem(withBackend(&recordingBackend{}),
		WithSearchFS("mod", mod),
		WithSearchFS("valve", gameFS()),
	)
	_, data, err := s.Resolve("common/npc_step1.wav")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "MOD" {
		t.Errorf("data = %q, want the first search root's file", data)
	}
}

func TestResolveNormalizesTokens(t *testing.T) {
	s := NewSoundSystem(withBackend(&recordingBackend{}), WithSearchFS("valve", gameFS()))
	for _, token := range []string{"*scientist/sci_pain1.wav", `scientist\sci_pain1.wav`, "/scientist/sci_pain1.wav"} {
		if _, _, err := s.Resolve(token); err != nil {
			t.Errorf("Resolve(%q): %v", token, err)
		}
	}
}

func TestResolveRejectsInvalidTokens(t *testing.T) {
	s := NewSoundSystem(withBackend(&recordingBackend{}), WithSearchFS("valve", gameFS()))
	for _, token := range []string{"", "*", "../secret.wav"} {
		if _, _, err := s.Resolve(token); err == nil {
			t.Errorf("Resolve(%q) should fail", token)
		}
	}
}

func TestResolveMissing(t *testing.T) {
	s := NewSoundSystem(withBackend(&recordingBackend{}), WithSearchFS("valve", gameFS()))
	_, _, err := s.Resolve("barney/ba_hello.wav")
	if !errors.Is(err, ErrSoundNotFound) {
		t.Fatalf("err = %v, want ErrSoundNotFound", err)
	}

	s.AddSearchFS("extra", fstest.MapFS{"sound/barney/ba_hello.wav": {Data: []byte("hi")}})
	if _, _, err := s.Resolve("barney/ba_hello.wav"); err != nil {
		t.Errorf("adding a search root should retry missing sounds: %v", err)
	}
}

func TestResolveDirectoryIsNotASound(t *testing.T) {
	s := NewSoundSystem(withBackend(&recordingBackend{}), WithSearchFS("valve", gameFS()))
	if _, _, err := s.Resolve("barney"); !errors.Is(err, ErrSoundNotFound) {
		t.Errorf("err = %v, want ErrSoundNotFound", err)
	}
}

func TestRecursiveSearch(t *testing.T) {
	fsys := fstest.MapFS{"addons/hd/sound/vox/hello.wav": {Data: []byte("vox")}}

	flat := NewSoundSystem(withBackend(&recordingBackend{}), WithSearchFS("game", fsys))
	if _, _, err := flat.Resolve("vox/hello.wav"); err == nil {
		t.Error("non-recursive search should not descend into subdirectories")
	}

	deep := NewSoundSystem(withBackend(&recordingBackend{}), WithSearchFS("game", fsys), WithRecursiveSearch(true))
	name, _, err := deep.Resolve("vox/hello.wav")
	if err != nil {
		t.Fatal(err)
	}
	if name != "game/addons/hd/sound/vox/hello.wav" {
		t.Errorf("name = %q", name)
	}
}

func TestPlaySoundCachedPlaysImmediately(t *testing.T) {
	b := &recordingBackend{}
	s := NewSoundSystem(withBackend(b), WithSearchFS("valve", gameFS()))
	if _, _, err := s.Resolve("common/npc_step1.wav"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := s.PlaySound("common/npc_step1.wav"); err != nil {
			t.Fatal(err)
		}
	}
	if len(b.played) != 2 || b.played[0] != "valve/sound/common/npc_step1.wav" || b.played[1] != b.played[0] {
		t.Errorf("played = %v", b.played)
	}
}

func TestPlaySoundResolvesInBackground(t *testing.T) {
	b := &recordingBackend{}
	s := NewSoundSystem(withBackend(b), WithSearchFS("valve", gameFS()))

	if err := s.PlaySound("common/npc_step1.wav"); err != nil {
		t.Fatalf("first play of an unresolved sound = %v, want nil", err)
	}
	if err := s.PlaySound("nope.wav"); err != nil {
		t.Fatalf("first play of a missing sound = %v, want nil", err)
	}
	if err := s.Close(); err != nil || !b.closed {
		t.Fatalf("Close = %v, closed %v", err, b.closed)
	}
	if len(b.played) != 1 || b.played[0] != "valve/sound/common/npc_step1.wav" {
		t.Fatalf("played = %v", b.played)
	}

	if err := s.PlaySound("nope.wav"); !errors.Is(err, ErrSoundNotFound) {
		t.Errorf("known missing sound: err = %v, want ErrSoundNotFound", err)
	}
	if len(b.played) != 1 {
		t.Error("missing sounds should not reach the backend")
	}
}

func TestPreloadResolvesModelSounds(t *testing.T) {
	seq := studiotest.Sequence("talk", 10, 4, studiotest.ConstantTrack(1, 4, mgl32.Vec3{}, mgl32.QuatIdent()))
	seq.Events = []studio.AnimationEvent{
		{Frame: 0, Event: studio.ScriptEventSound, Options: "*scientist/sci_pain1.wav"},
		{Frame: 1, Event: studio.ScriptEventSound, Options: "scientist/sci_pain1.wav"},
		{Frame: 2, Event: studio.ScriptEventSound, Options: "barney/ba_hello.wav"},
		{Frame: 3, Event: 1001, Options: "root.wav"},
	}
	m := studiotest.MustModel(t,
		studio.WithBones(studiotest.ChainBones(1, mgl32.Vec3{})),
		studio.WithSequence(seq),
	)

	b := &recordingBackend{}
	s := NewSoundSystem(withBackend(b), WithSearchFS("valve", gameFS()))
	n, err := s.Preload(m)
	if n != 1 {
		t.Errorf("Preload found %d sounds, want 1", n)
	}
	if !errors.Is(err, ErrSoundNotFound) {
		t.Errorf("err = %v, want ErrSoundNotFound for the missing token", err)
	}

	if err := s.PlaySound("scientist/sci_pain1.wav"); err != nil {
		t.Fatal(err)
	}
	if len(b.played) != 1 {
		t.Errorf("a preloaded sound should play without waiting, played = %v", b.played)
	}
	if err := s.PlaySound("barney/ba_hello.wav"); !errors.Is(err, ErrSoundNotFound) {
		t.Errorf("err = %v, want ErrSoundNotFound", err)
	}
}

func TestPlaySoundBackendError(t *testing.T) {
	boom := errors.New("decode failed")
	s := NewSoundSystem(withBackend(&recordingBackend{err: boom}), WithSearchFS("valve", gameFS()))
	if _, _, err := s.Resolve("root.wav"); err != nil {
		t.Fatal(err)
	}
	if err := s.PlaySound("root.wav"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestSoundEventHandlerPlaysThroughSoundSystem(t *testing.T) {
	b := &recordingBackend{}
	s := NewSoundSystem(withBackend(b), WithSearchFS("valve", gameFS()))

	h := &animation.SoundEventHandler{Player: s}
	h.HandleEvent(nil, &studio.AnimationEvent{Event: studio.ScriptEventSound, Options: "*scientist/sci_pain1.wav"})
	s.Close()
	if len(b.played) != 1 || b.played[0] != "valve/sound/scientist/sci_pain1.wav" {
		t.Errorf("played = %v", b.played)
	}
}

func TestNullPlayer(t *testing.T) {
	var p animation.SoundPlayer = NullPlayer{}
	if err := p.PlaySound("anything.wav"); err != nil {
		t.Errorf("NullPlayer.PlaySound = %v", err)
	}
}

func TestWithVolumeClamps(t *testing.T) {
	s := NewSoundSystem(withBackend(&recordingBackend{}), WithVolume(3)).(*soundSystem)
	if s.volume != 1 {
		t.Errorf("volume = %v, want 1", s.volume)
	}
	s = NewSoundSystem(withBackend(&recordingBackend{}), WithVolume(-1), WithSampleRate(22050)).(*soundSystem)
	if s.volume != 0 || s.sampleRate != 22050 {
		t.Errorf("volume = %v sampleRate = %d", s.volume, s.sampleRate)
	}
}
