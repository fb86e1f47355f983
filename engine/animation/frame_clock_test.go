package animation

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
)

func TestAdvanceFrameStaticSequence(t *testing.T) {
	for _, n := range []int{0, 1} {
		seq := &studio.Sequence{FPS: 30, NumFrames: n}
		for _, dt := range []float32{0, 0.01, 0.1, 5} {
			frame, finished := AdvanceFrame(seq, 0.5, 1, dt)
			if frame != 0 || finished {
				t.Fatalf("NumFrames=%d dt=%v: got (%v, %v), want (0, false)", n, dt, frame, finished)
			}
		}
	}
}

func TestAdvanceFrameClampsDeltaTime(t *testing.T) {
	seq := &studio.Sequence{FPS: 10, NumFrames: 100}
	want, _ := AdvanceFrame(seq, 0, 1, MaxFrameTime)
	for _, dt := range []float32{0.1001, 0.5, 3, 1000} {
		got, finished := AdvanceFrame(seq, 0, 1, dt)
		if got != want || finished {
			t.Fatalf("dt=%v: frame=%v finished=%v, want %v false", dt, got, finished, want)
		}
	}
	if want != 1 {
		t.Fatalf("clamped advance=%v, want 1", want)
	}
}

func TestAdvanceFrameWrapsExactly(t *testing.T) {
	seq := &studio.Sequence{FPS: 10, NumFrames: 5} // loop length 4
	cases := []struct {
		frame, rate, dt float32
		want            float32
		finished        bool
	}{
		{frame: 0, rate: 1, dt: 0.1, want: 1, finished: false},
		{frame: 2.5, rate: 1, dt: 0.1, want: 3.5, finished: false},
		{frame: 3.5, rate: 1, dt: 0.05, want: 0, finished: true},
		{frame: 3.5, rate: 1, dt: 0.1, want: 0.5, finished: true},
		{frame: 3, rate: 8, dt: 0.1, want: 3, finished: true}, // 11 mod 4
		{frame: 1, rate: 0, dt: 0.1, want: 1, finished: false},
	}
	for _, c := range cases {
		got, finished := AdvanceFrame(seq, c.frame, c.rate, c.dt)
		raw := c.frame + c.dt*seq.FPS*c.rate
		if c.finished {
			if mod := float32(math.Mod(float64(raw), 4)); math.Abs(float64(got-mod)) > 1e-5 {
				t.Fatalf("frame=%v: got %v, want %v mod 4 = %v", c.frame, got, raw, mod)
			}
		}
		if math.Abs(float64(got-c.want)) > 1e-5 || finished != c.finished {
			t.Fatalf("frame=%v rate=%v dt=%v: got (%v, %v), want (%v, %v)", c.frame, c.rate, c.dt, got, finished, c.want, c.finished)
		}
	}
}

func TestAdvanceFrameThirtyTicksFinishesOnce(t *testing.T) {
	seq := &studio.Sequence{FPS: 30, NumFrames: 30}
	var frame float32
	finishedCount := 0
	prev := frame
	for i := 0; i < 30; i++ {
		var finished bool
		frame, finished = AdvanceFrame(seq, frame, 1, 1.0/30.0)
		if finished {
			finishedCount++
			if frame > 1.01 {
				t.Fatalf("tick %d: wrapped to %v, want near 0", i, frame)
			}
		} else if frame <= prev {
			t.Fatalf("tick %d: frame went from %v to %v without finishing", i, prev, frame)
		}
		if frame < 0 || frame >= 29 {
			t.Fatalf("tick %d: frame %v outside [0, 29)", i, frame)
		}
		prev = frame
	}
	if finishedCount != 1 {
		t.Fatalf("finished %d times, want 1", finishedCount)
	}
}
