package sound

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// DefaultSampleRate is the output rate of the audio context when none is configured.
const DefaultSampleRate = 44100

// ebitenSoundBackend plays WAV files through Ebiten's audio context. Active players are kept
// until they finish so overlapping sounds are not cut off.
type ebitenSoundBackend struct {
	mu sync.Mutex

	ctx     *audio.Context
	players []*audio.Player
	volume  float64
}

func newEbitenSoundBackend(sampleRate int, volume float64) *ebitenSoundBackend {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	return &ebitenSoundBackend{
		ctx:    ctx,
		volume: volume,
	}
}

func (b *ebitenSoundBackend) Play(name string, data []byte) error {
	stream, err := wav.DecodeWithSampleRate(b.ctx.SampleRate(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}

	p, err := b.ctx.NewPlayer(stream)
	if err != nil {
		return fmt.Errorf("play %s: %w", name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune()
	p.SetVolume(b.volume)
	p.Play()
	b.players = append(b.players, p)
	return nil
}

func (b *ebitenSoundBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	for _, p := range b.players {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.players = nil
	return firstErr
}

// prune drops players that finished playing. Caller holds mu.
func (b *ebitenSoundBackend) prune() {
	active := b.players[:0]
	for _, p := range b.players {
		if p.IsPlaying() {
			active = append(active, p)
			continue
		}
		_ = p.Close()
	}
	for i := len(active); i < len(b.players); i++ {
		b.players[i] = nil
	}
	b.players = active
}
