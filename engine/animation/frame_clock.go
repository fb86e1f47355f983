package animation

import (
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
)

// MaxFrameTime is the largest delta time, in seconds, a single advance may consume.
// Longer stalls are truncated so playback never skips whole loops.
const MaxFrameTime float32 = 0.1

// AdvanceFrame moves a frame cursor through a sequence and wraps it at the end of the loop.
// It holds no state; the caller owns the cursor.
//
// Sequences with one frame or less are static: the cursor stays at 0 and never finishes.
// Otherwise deltaTime is clamped to MaxFrameTime and the cursor moves by deltaTime * FPS * rate.
// Reaching NumFrames-1 wraps the cursor back into [0, NumFrames-1) and reports finished.
//
// Parameters:
//   - seq: the playing sequence
//   - frame: the current frame cursor
//   - rate: the playback rate multiplier
//   - deltaTime: the elapsed time in seconds
//
// Returns:
//   - float32: the advanced frame cursor
//   - bool: true if the cursor wrapped during this advance
func AdvanceFrame(seq *studio.Sequence, frame, rate, deltaTime float32) (float32, bool) {
	if seq.NumFrames <= 1 {
		return 0, false
	}

	if deltaTime > MaxFrameTime {
		deltaTime = MaxFrameTime
	}

	frame += deltaTime * seq.FPS * rate

	loop := float32(seq.LoopLength())
	if frame >= loop {
		frame -= float32(int(frame/loop)) * loop
		return frame, true
	}
	return frame, false
}
