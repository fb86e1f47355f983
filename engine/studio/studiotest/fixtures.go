// Package studiotest builds small in-memory studio models for tests.
package studiotest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/go-gl/mathgl/mgl32"
)

// ChainBones returns n bones where bone i is the child of bone i-1, each offset from its
// parent by offset and unrotated.
func ChainBones(n int, offset mgl32.Vec3) []studio.Bone {
	bones := make([]studio.Bone, n)
	for i := range bones {
		bones[i] = studio.Bone{
			Index:         i,
			ParentIndex:   i - 1,
			Name:          fmt.Sprintf("bone%02d", i),
			LocalRotation: mgl32.QuatIdent(),
			LocalPosition: offset,
		}
	}
	if n > 0 {
		bones[0].LocalPosition = mgl32.Vec3{}
	}
	return bones
}

// ConstantTrack returns a track where every bone holds pos and rot on every frame.
func ConstantTrack(numBones, numFrames int, pos mgl32.Vec3, rot mgl32.Quat) studio.Track {
	return KeyedTrack(numBones, numFrames, func(_, _ int) (mgl32.Vec3, mgl32.Quat) {
		return pos, rot
	})
}

// LinearTrack returns a track where every bone sits at frame*step on each frame, unrotated.
func LinearTrack(numBones, numFrames int, step mgl32.Vec3) studio.Track {
	return KeyedTrack(numBones, numFrames, func(_, frame int) (mgl32.Vec3, mgl32.Quat) {
		return step.Mul(float32(frame)), mgl32.QuatIdent()
	})
}

// KeyedTrack returns a track whose keys come from key(bone, frame).
func KeyedTrack(numBones, numFrames int, key func(bone, frame int) (mgl32.Vec3, mgl32.Quat)) studio.Track {
	t := studio.Track{Bones: make([]studio.BoneKeys, numBones)}
	for b := range t.Bones {
		t.Bones[b].Positions = make([]mgl32.Vec3, numFrames)
		t.Bones[b].Rotations = make([]mgl32.Quat, numFrames)
		for f := 0; f < numFrames; f++ {
			t.Bones[b].Positions[f], t.Bones[b].Rotations[f] = key(b, f)
		}
	}
	return t
}

// Sequence returns a sequence over the given tracks.
func Sequence(name string, fps float32, numFrames int, tracks ...studio.Track) studio.Sequence {
	return studio.Sequence{
		Name:      name,
		FPS:       fps,
		NumFrames: numFrames,
		BBMin:     mgl32.Vec3{-1, -1, 0},
		BBMax:     mgl32.Vec3{1, 1, 2},
		Tracks:    tracks,
	}
}

// MustModel builds a StudioModel and fails the test on error.
func MustModel(tb testing.TB, options ...studio.StudioModelBuilderOption) studio.StudioModel {
	tb.Helper()
	m, err := studio.NewStudioModel(options...)
	if err != nil {
		tb.Fatalf("NewStudioModel: %v", err)
	}
	return m
}

// RecordingPlayer is a sound player that records every token it is asked to play.
type RecordingPlayer struct {
	mu     sync.Mutex
	Err    error
	tokens []string
}

// PlaySound records token and returns p.Err.
func (p *RecordingPlayer) PlaySound(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens = append(p.tokens, token)
	return p.Err
}

// Tokens returns the recorded tokens in play order.
func (p *RecordingPlayer) Tokens() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tokens...)
}
