package animation

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio/studiotest"
	"github.com/go-gl/mathgl/mgl32"
)

var quarterTurnZ = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})

func twoTrackSequence() *studio.Sequence {
	seq := studiotest.Sequence("blend", 10, 2,
		studiotest.ConstantTrack(1, 2, mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent()),
		studiotest.ConstantTrack(1, 2, mgl32.Vec3{1, 2, 3}, quarterTurnZ),
	)
	return &seq
}

func TestSampleTrackInterpolatesKeys(t *testing.T) {
	track := studiotest.LinearTrack(1, 4, mgl32.Vec3{2, 0, 0})
	pos, rot := SampleTrack(&track, 0, 1, 0.25)
	if !pos.ApproxEqualThreshold(mgl32.Vec3{2.5, 0, 0}, 1e-5) {
		t.Fatalf("pos=%v, want (2.5,0,0)", pos)
	}
	if !rot.ApproxEqualThreshold(mgl32.QuatIdent(), 1e-5) {
		t.Fatalf("rot=%v, want identity", rot)
	}

	// The last frame has no successor; it samples itself.
	pos, _ = SampleTrack(&track, 0, 3, 0.5)
	if !pos.ApproxEqualThreshold(mgl32.Vec3{6, 0, 0}, 1e-5) {
		t.Fatalf("pos at last frame=%v, want (6,0,0)", pos)
	}
}

func TestBlendTracksTwoTrackEndpoints(t *testing.T) {
	seq := twoTrackSequence()

	pos, rot := BlendTracks(seq, 0, 0, 0, [2]uint8{0, 0})
	if !pos.ApproxEqualThreshold(mgl32.Vec3{}, 1e-5) || !rot.ApproxEqualThreshold(mgl32.QuatIdent(), 1e-6) {
		t.Fatalf("blend 0: got (%v, %v), want track 0", pos, rot)
	}

	pos, rot = BlendTracks(seq, 0, 0, 0, [2]uint8{255, 0})
	if !pos.ApproxEqualThreshold(mgl32.Vec3{1, 2, 3}, 1e-5) || !rot.ApproxEqualThreshold(quarterTurnZ, 1e-5) {
		t.Fatalf("blend 255: got (%v, %v), want track 1", pos, rot)
	}
}

func TestBlendTracksTwoTrackMidpointLiesBetween(t *testing.T) {
	seq := twoTrackSequence()
	for _, v := range []uint8{127, 128} {
		pos, rot := BlendTracks(seq, 0, 0, 0, [2]uint8{v, 0})
		for i, hi := range []float32{1, 2, 3} {
			if pos[i] <= 0 || pos[i] >= hi {
				t.Fatalf("blend %d: pos[%d]=%v not strictly inside (0, %v)", v, i, pos[i], hi)
			}
		}
		if rot.V[2] <= 0 || rot.V[2] >= quarterTurnZ.V[2] || rot.W >= 1 || rot.W <= quarterTurnZ.W {
			t.Fatalf("blend %d: rot=%v not strictly between identity and %v", v, rot, quarterTurnZ)
		}
	}
}

func TestBlendTracksFourTrackTopology(t *testing.T) {
	tracks := []studio.Track{
		studiotest.ConstantTrack(1, 2, mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent()),
		studiotest.ConstantTrack(1, 2, mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent()),
		studiotest.ConstantTrack(1, 2, mgl32.Vec3{0, 10, 0}, mgl32.QuatIdent()),
		studiotest.ConstantTrack(1, 2, mgl32.Vec3{1, 10, 0}, mgl32.QuatIdent()),
	}
	seq := studiotest.Sequence("aim", 10, 2, tracks...)

	cases := []struct {
		blends [2]uint8
		want   mgl32.Vec3
	}{
		{[2]uint8{0, 0}, mgl32.Vec3{0, 0, 0}},
		{[2]uint8{255, 0}, mgl32.Vec3{1, 0, 0}},
		{[2]uint8{0, 255}, mgl32.Vec3{0, 10, 0}},
		{[2]uint8{255, 255}, mgl32.Vec3{1, 10, 0}},
	}
	for _, c := range cases {
		pos, _ := BlendTracks(&seq, 0, 0, 0, c.blends)
		if !pos.ApproxEqualThreshold(c.want, 1e-5) {
			t.Fatalf("blends=%v: pos=%v, want %v", c.blends, pos, c.want)
		}
	}
}

func TestEvaluateBoneAppliesControllersAfterBlend(t *testing.T) {
	seq := twoTrackSequence()
	bone := &studio.Bone{Index: 0, ParentIndex: -1, BoneControllers: []int{0}}
	controllers := []studio.BoneController{
		{Index: 0, BoneIndex: 0, MotionType: studio.MotionTypeTranslation, MotionAxis: studio.MotionAxisX, Start: 0, End: 5},
	}
	channels := []BoneControllerChannel{NewBoneControllerChannel()}
	channels[0].SetValue(&controllers[0], 255)

	state := &PoseState{Blends: [2]uint8{255, 0}, Controllers: controllers, Channels: channels}
	m := EvaluateBone(bone, seq, state)
	if got := m.Col(3).Vec3(); !got.ApproxEqualThreshold(mgl32.Vec3{6, 2, 3}, 1e-5) {
		t.Fatalf("translation=%v, want (6,2,3)", got)
	}
	if got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Fatalf("rotated X axis=%v, want (0,1,0)", got)
	}
}

func TestEvaluateBindPoseAppliesControllers(t *testing.T) {
	bone := &studio.Bone{
		Index: 0, ParentIndex: -1,
		LocalRotation:   mgl32.QuatIdent(),
		LocalPosition:   mgl32.Vec3{0, 0, 1},
		BoneControllers: []int{0},
	}
	controllers := []studio.BoneController{
		{Index: 0, BoneIndex: 0, MotionType: studio.MotionTypeRotation, MotionAxis: studio.MotionAxisZ, Start: 0, End: 90},
	}
	channels := []BoneControllerChannel{NewBoneControllerChannel()}
	channels[0].SetValue(&controllers[0], 255)

	m := EvaluateBindPose(bone, &PoseState{Controllers: controllers, Channels: channels})
	if got := m.Col(3).Vec3(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Fatalf("translation=%v, want (0,0,1)", got)
	}
	if got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Fatalf("rotated X axis=%v, want (0,1,0)", got)
	}
}
