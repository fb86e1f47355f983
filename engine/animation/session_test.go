package animation

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio/studiotest"
	"github.com/go-gl/mathgl/mgl32"
)

type lifecycleRecorder struct {
	name     string
	log      *[]string
	changes  [][2]int
	finishes []int
	onChange func()
	onFinish func()
}

func (r *lifecycleRecorder) OnSequenceChanged(oldSeq, newSeq *studio.Sequence) {
	r.changes = append(r.changes, [2]int{oldSeq.Index, newSeq.Index})
	if r.log != nil {
		*r.log = append(*r.log, r.name+":changed")
	}
	if r.onChange != nil {
		r.onChange()
	}
}

func (r *lifecycleRecorder) OnSequenceFinished(seq *studio.Sequence) {
	r.finishes = append(r.finishes, seq.Index)
	if r.log != nil {
		*r.log = append(*r.log, r.name+":finished")
	}
	if r.onFinish != nil {
		r.onFinish()
	}
}

func twoSequenceModel(t *testing.T) studio.StudioModel {
	return studiotest.MustModel(t,
		studio.WithName("two"),
		studio.WithBones(studiotest.ChainBones(2, mgl32.Vec3{0, 0, 1})),
		studio.WithSequence(studiotest.Sequence("walk", 10, 3,
			studiotest.ConstantTrack(2, 3, mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent()))),
		studio.WithSequence(studiotest.Sequence("run", 10, 3,
			studiotest.ConstantTrack(2, 3, mgl32.Vec3{5, 0, 0}, mgl32.QuatIdent()))),
	)
}

func TestSessionSetSequenceNotifiesBeforeEvaluation(t *testing.T) {
	m := twoSequenceModel(t)
	var s Session
	var seenTranslation mgl32.Vec3
	var seenFrame float32 = -1
	rec := &lifecycleRecorder{onChange: func() {
		seenTranslation = s.Transforms()[0].Col(3).Vec3()
		seenFrame = s.Frame()
	}}
	s = NewSession(m, WithListener(rec))

	s.Tick(0.05)
	if s.Frame() == 0 {
		t.Fatalf("frame did not advance")
	}
	if err := s.SetSequence(1); err != nil {
		t.Fatalf("SetSequence: %v", err)
	}

	if len(rec.changes) != 1 || rec.changes[0] != [2]int{0, 1} {
		t.Fatalf("changes=%v, want [[0 1]]", rec.changes)
	}
	if seenFrame != 0 {
		t.Fatalf("frame during notification=%v, want 0", seenFrame)
	}
	if !seenTranslation.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Fatalf("transforms during notification=%v, want the previous sequence's pose", seenTranslation)
	}

	got := s.Tick(0)[0].Col(3).Vec3()
	if !got.ApproxEqualThreshold(mgl32.Vec3{5, 0, 0}, 1e-5) {
		t.Fatalf("pose after change=%v, want (5,0,0)", got)
	}
}

func TestSessionListenersInRegistrationOrder(t *testing.T) {
	m := twoSequenceModel(t)
	var log []string
	a := &lifecycleRecorder{name: "a", log: &log}
	b := &lifecycleRecorder{name: "b", log: &log}
	s := NewSession(m, WithListener(a))
	s.AddListener(b)

	if err := s.SetSequence(1); err != nil {
		t.Fatalf("SetSequence: %v", err)
	}
	s.Tick(0.1)
	s.Tick(0.1)

	want := []string{"a:changed", "b:changed", "a:finished", "b:finished"}
	if len(log) != len(want) {
		t.Fatalf("log=%v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log=%v, want %v", log, want)
		}
	}
}

func TestSessionFinishedAfterTransformsProduced(t *testing.T) {
	m := studiotest.MustModel(t,
		studio.WithBones(studiotest.ChainBones(1, mgl32.Vec3{})),
		studio.WithSequence(studiotest.Sequence("slide", 10, 3,
			studiotest.LinearTrack(1, 3, mgl32.Vec3{1, 0, 0}))),
	)
	var s Session
	var atFinish mgl32.Vec3
	rec := &lifecycleRecorder{onFinish: func() {
		atFinish = s.Transforms()[0].Col(3).Vec3()
	}}
	s = NewSession(m, WithListener(rec))

	s.Tick(0.1) // evaluates frame 0, advances to 1
	s.Tick(0.1) // evaluates frame 1, wraps

	if len(rec.finishes) != 1 {
		t.Fatalf("finishes=%v, want one", rec.finishes)
	}
	if !atFinish.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Fatalf("transforms at finish=%v, want the wrapping tick's pose (1,0,0)", atFinish)
	}
	if s.Frame() != 0 {
		t.Fatalf("frame after wrap=%v, want 0", s.Frame())
	}
}

func TestSessionEventFiresOnceAtFrame(t *testing.T) {
	seq := studiotest.Sequence("fire", 10, 10, studiotest.ConstantTrack(1, 10, mgl32.Vec3{}, mgl32.QuatIdent()))
	seq.Events = []studio.AnimationEvent{{Frame: 5, Event: studio.ScriptEventFireEvent}}
	m := studiotest.MustModel(t,
		studio.WithBones(studiotest.ChainBones(1, mgl32.Vec3{})),
		studio.WithSequence(seq),
	)

	var firedAt []int
	var s Session
	s = NewSession(m, WithEventHandler(studio.ScriptEventFireEvent, EventHandlerFunc(func(_ *studio.Sequence, ev *studio.AnimationEvent) {
		firedAt = append(firedAt, int(s.Frame()))
	})))

	for i := 0; i < 9; i++ {
		s.Tick(0.1)
	}
	if len(firedAt) != 1 || firedAt[0] != 6 {
		t.Fatalf("fired at cursor %v, want once after evaluating frame 5", firedAt)
	}

	if err := s.SetFrame(5); err != nil {
		t.Fatalf("SetFrame: %v", err)
	}
	s.Tick(0)
	s.Tick(0)
	if len(firedAt) != 2 {
		t.Fatalf("fired %d times after revisiting frame 5 twice, want 2 total", len(firedAt))
	}
}

func TestSessionSoundEventPlaysToken(t *testing.T) {
	seq := studiotest.Sequence("talk", 10, 4, studiotest.ConstantTrack(1, 4, mgl32.Vec3{}, mgl32.QuatIdent()))
	seq.Events = []studio.AnimationEvent{{Frame: 1, Event: studio.ScriptEventSound, Options: "*scientist/hello.wav"}}
	m := studiotest.MustModel(t,
		studio.WithBones(studiotest.ChainBones(1, mgl32.Vec3{})),
		studio.WithSequence(seq),
	)
	player := &studiotest.RecordingPlayer{}
	s := NewSession(m, WithSoundPlayer(player))
	for i := 0; i < 3; i++ {
		s.Tick(0.1)
	}
	if got := player.Tokens(); len(got) != 1 || got[0] != "scientist/hello.wav" {
		t.Fatalf("tokens=%v, want [scientist/hello.wav]", got)
	}
}

func TestSessionBindPoseWithoutSequences(t *testing.T) {
	m := studiotest.MustModel(t,
		studio.WithBones(studiotest.ChainBones(3, mgl32.Vec3{1, 0, 0})),
		studio.WithBoneControllers([]studio.BoneController{
			{Index: 0, BoneIndex: 2, MotionType: studio.MotionTypeTranslation, MotionAxis: studio.MotionAxisY, Start: 0, End: 1},
		}),
	)
	s := NewSession(m)

	got := s.Tick(1)
	if len(got) != 3 {
		t.Fatalf("transforms=%d, want 3", len(got))
	}
	if p := got[2].Col(3).Vec3(); !p.ApproxEqualThreshold(mgl32.Vec3{2, 0, 0}, 1e-5) {
		t.Fatalf("bind pose leaf=%v, want (2,0,0)", p)
	}
	if s.Frame() != 0 {
		t.Fatalf("frame=%v, want 0 without sequences", s.Frame())
	}

	if err := s.SetBoneController(0, 255); err != nil {
		t.Fatalf("SetBoneController: %v", err)
	}
	if p := s.Tick(1)[2].Col(3).Vec3(); !p.ApproxEqualThreshold(mgl32.Vec3{2, 1, 0}, 1e-5) {
		t.Fatalf("adjusted leaf=%v, want (2,1,0)", p)
	}
}

func TestSessionStaticSequenceStaysAtZero(t *testing.T) {
	m := studiotest.MustModel(t,
		studio.WithBones(studiotest.ChainBones(1, mgl32.Vec3{})),
		studio.WithSequence(studiotest.Sequence("pose", 30, 1,
			studiotest.ConstantTrack(1, 1, mgl32.Vec3{0, 0, 4}, mgl32.QuatIdent()))),
	)
	rec := &lifecycleRecorder{}
	s := NewSession(m, WithListener(rec))
	for i := 0; i < 5; i++ {
		if p := s.Tick(0.1)[0].Col(3).Vec3(); !p.ApproxEqualThreshold(mgl32.Vec3{0, 0, 4}, 1e-5) {
			t.Fatalf("pose=%v, want (0,0,4)", p)
		}
	}
	if s.Frame() != 0 || len(rec.finishes) != 0 {
		t.Fatalf("frame=%v finishes=%v, want 0 and none", s.Frame(), rec.finishes)
	}
}

func TestSessionConstantRotationStaysFinite(t *testing.T) {
	rot := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	m := studiotest.MustModel(t,
		studio.WithBones(studiotest.ChainBones(2, mgl32.Vec3{1, 0, 0})),
		studio.WithSequence(studiotest.Sequence("hold", 30, 4,
			studiotest.ConstantTrack(2, 4, mgl32.Vec3{1, 0, 0}, rot))),
	)
	s := NewSession(m)

	s.Tick(1.0 / 30 / 2)
	got := s.Tick(0)
	for i, mat := range got {
		for j, v := range mat {
			if v != v {
				t.Fatalf("bone %d element %d is NaN: %v", i, j, mat)
			}
		}
	}
	// Root at (1,0,0) turned 90° about Z; the child offset (1,0,0) lands at (1,1,0).
	if p := got[1].Col(3).Vec3(); !p.ApproxEqualThreshold(mgl32.Vec3{1, 1, 0}, 1e-5) {
		t.Fatalf("child position = %v, want (1,1,0)", p)
	}
}

func TestSessionInvalidIndices(t *testing.T) {
	m := twoSequenceModel(t)
	s := NewSession(m)

	checks := map[string]error{
		"sequence":         s.SetSequence(2),
		"negative":         s.SetSequence(-1),
		"bone controller":  s.SetBoneController(0, 10),
		"blend controller": s.SetBlendController(0, 10),
		"frame":            s.SetFrame(2),
	}
	for name, err := range checks {
		var domErr *studio.DomainError
		if !errors.As(err, &domErr) {
			t.Fatalf("%s: err=%v, want DomainError", name, err)
		}
	}
	if s.SequenceIndex() != 0 {
		t.Fatalf("sequence changed to %d after rejected set", s.SequenceIndex())
	}
}

func TestSessionBlendControllers(t *testing.T) {
	m := studiotest.MustModel(t,
		studio.WithBones(studiotest.ChainBones(1, mgl32.Vec3{})),
		studio.WithSequence(studiotest.Sequence("aim", 10, 2,
			studiotest.ConstantTrack(1, 2, mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent()),
			studiotest.ConstantTrack(1, 2, mgl32.Vec3{2, 0, 0}, mgl32.QuatIdent()))),
	)
	s := NewSession(m)

	if v, err := s.BlendController(0); err != nil || v != studio.ControllerRestValue {
		t.Fatalf("BlendController(0)=(%d, %v), want rest", v, err)
	}
	if err := s.SetBlendController(0, 0); err != nil {
		t.Fatalf("SetBlendController: %v", err)
	}
	if p := s.Tick(0)[0].Col(3).Vec3(); !p.ApproxEqualThreshold(mgl32.Vec3{}, 1e-5) {
		t.Fatalf("blend 0 pose=%v, want origin", p)
	}
	if err := s.SetBlendController(0, 255); err != nil {
		t.Fatalf("SetBlendController: %v", err)
	}
	if p := s.Tick(0)[0].Col(3).Vec3(); !p.ApproxEqualThreshold(mgl32.Vec3{2, 0, 0}, 1e-5) {
		t.Fatalf("blend 255 pose=%v, want (2,0,0)", p)
	}
	if err := s.SetBlendController(1, 0); err == nil {
		t.Fatalf("expected error for blend controller 1 on a two-track model")
	}
}

func TestSessionPlaybackRate(t *testing.T) {
	m := twoSequenceModel(t)
	s := NewSession(m)
	s.SetPlaybackRate(0.5)
	s.Tick(0.1)
	if !approx(s.Frame(), 0.5, 1e-6) {
		t.Fatalf("frame=%v, want 0.5", s.Frame())
	}
	s.SetPlaybackRate(-1)
	if s.PlaybackRate() != 0 {
		t.Fatalf("negative rate stored as %v, want 0", s.PlaybackRate())
	}
}

func TestSessionParallelEvaluationMatchesSerial(t *testing.T) {
	const numBones = 24
	key := func(bone, frame int) (mgl32.Vec3, mgl32.Quat) {
		angle := float32(bone+frame) * 0.1
		return mgl32.Vec3{float32(bone), 0, float32(frame)}, mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})
	}
	m := studiotest.MustModel(t,
		studio.WithBones(studiotest.ChainBones(numBones, mgl32.Vec3{0, 0, 1})),
		studio.WithSequence(studiotest.Sequence("wave", 15, 8, studiotest.KeyedTrack(numBones, 8, key))),
	)
	serial := NewSession(m)
	parallel := NewSession(m, WithParallelEvaluation(4))

	for tick := 0; tick < 10; tick++ {
		want := serial.Tick(0.05)
		got := parallel.Tick(0.05)
		for i := range want {
			if !got[i].ApproxEqualThreshold(want[i], 1e-5) {
				t.Fatalf("tick %d bone %d: parallel=%v serial=%v", tick, i, got[i], want[i])
			}
		}
	}
}

func TestSessionSnapshot(t *testing.T) {
	m := studiotest.MustModel(t,
		studio.WithName("scientist"),
		studio.WithBones(studiotest.ChainBones(2, mgl32.Vec3{})),
		studio.WithBoneControllers([]studio.BoneController{
			{Index: 0, BoneIndex: 1, MotionType: studio.MotionTypeRotation, MotionAxis: studio.MotionAxisZ, Start: -30, End: 30},
		}),
		studio.WithSequence(studiotest.Sequence("idle", 12, 5, studiotest.ConstantTrack(2, 5, mgl32.Vec3{}, mgl32.QuatIdent()))),
	)
	s := NewSession(m)
	if err := s.SetBoneController(0, 200); err != nil {
		t.Fatalf("SetBoneController: %v", err)
	}

	snap := s.Snapshot()
	if snap.ModelName != "scientist" || snap.SequenceName != "idle" || snap.NumFrames != 5 {
		t.Fatalf("snapshot header=%+v", snap)
	}
	if len(snap.Sequences) != 1 || snap.Sequences[0].FPS != 12 {
		t.Fatalf("sequences=%+v", snap.Sequences)
	}
	if len(snap.BoneControllers) != 1 {
		t.Fatalf("bone controllers=%+v", snap.BoneControllers)
	}
	bc := snap.BoneControllers[0]
	if bc.RawValue != 200 || bc.RestValue != 128 || bc.Max != 255 || bc.BoneName != "bone01" {
		t.Fatalf("bone controller info=%+v", bc)
	}
	if len(snap.BlendControllers) != 0 {
		t.Fatalf("blend controllers=%+v, want none for a single-track model", snap.BlendControllers)
	}
	if !snap.BBMax.ApproxEqualThreshold(mgl32.Vec3{1, 1, 2}, 1e-5) {
		t.Fatalf("bbox max=%v", snap.BBMax)
	}
}

func TestNewSessionPanicsOnNilModel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewSession(nil)
}
