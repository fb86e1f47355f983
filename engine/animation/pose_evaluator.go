package animation

import (
	"github.com/Carmen-Shannon/oxy-mdl/common"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/go-gl/mathgl/mgl32"
)

// PoseState is the read-only input of pose evaluation for one tick. It is shared by every bone
// evaluated during that tick and must not be mutated while evaluation runs.
type PoseState struct {
	// Frame is the integer part of the frame cursor.
	Frame int

	// SubFrame is the fractional part of the frame cursor, in [0, 1).
	SubFrame float32

	// Blends holds the blend controller values.
	Blends [studio.MaxBlendControllers]uint8

	// Controllers holds the model's bone controller definitions.
	Controllers []studio.BoneController

	// Channels holds one channel per controller, indexed like Controllers.
	Channels []BoneControllerChannel
}

// SampleTrack interpolates one bone of one track between the keys at frame and frame+1.
// The next key is clamped to the last frame so single-frame sequences sample their only key.
//
// Parameters:
//   - track: the keyframe stream
//   - boneIndex: the bone to sample
//   - frame: the integer frame
//   - s: the fraction between frame and frame+1
//
// Returns:
//   - mgl32.Vec3: the interpolated position
//   - mgl32.Quat: the interpolated orientation
func SampleTrack(track *studio.Track, boneIndex, frame int, s float32) (mgl32.Vec3, mgl32.Quat) {
	keys := &track.Bones[boneIndex]
	last := len(keys.Positions) - 1
	from := min(frame, last)
	to := min(frame+1, last)

	pos := common.LerpVec3(keys.Positions[from], keys.Positions[to], s)
	rot := common.Slerp(keys.Rotations[from], keys.Rotations[to], s)
	return pos, rot
}

// BlendWeight converts a blend controller value into an interpolation factor in [0, 1].
func BlendWeight(value uint8) float32 {
	return common.Clamp(float32(value)/255.0, 0, 1)
}

// BlendTracks samples every track of seq for one bone and combines them.
//
// One track is used directly. Two tracks are mixed by blend controller 0. Four tracks are
// mixed pairwise, (0,1) and (2,3) both by blend controller 0, and the two pair results are
// then mixed by blend controller 1. Positions are linearly interpolated and orientations slerped.
//
// Parameters:
//   - seq: the sequence
//   - boneIndex: the bone to evaluate
//   - frame: the integer frame
//   - s: the sub-frame fraction
//   - blends: the blend controller values
//
// Returns:
//   - mgl32.Vec3: the blended position
//   - mgl32.Quat: the blended orientation
func BlendTracks(seq *studio.Sequence, boneIndex, frame int, s float32, blends [studio.MaxBlendControllers]uint8) (mgl32.Vec3, mgl32.Quat) {
	pos, rot := SampleTrack(&seq.Tracks[0], boneIndex, frame, s)
	if len(seq.Tracks) < 2 {
		return pos, rot
	}

	t := BlendWeight(blends[0])
	pos1, rot1 := SampleTrack(&seq.Tracks[1], boneIndex, frame, s)
	pos = common.LerpVec3(pos, pos1, t)
	rot = common.Slerp(rot, rot1, t)

	if len(seq.Tracks) == 4 {
		pos2, rot2 := SampleTrack(&seq.Tracks[2], boneIndex, frame, s)
		pos3, rot3 := SampleTrack(&seq.Tracks[3], boneIndex, frame, s)
		pos2 = common.LerpVec3(pos2, pos3, t)
		rot2 = common.Slerp(rot2, rot3, t)

		t = BlendWeight(blends[1])
		pos = common.LerpVec3(pos, pos2, t)
		rot = common.Slerp(rot, rot2, t)
	}
	return pos, rot
}

// EvaluateBone produces one bone's local transform for the current animation state: track
// sampling and blending, then bone controller adjustments, then composition into a matrix.
//
// Parameters:
//   - bone: the bone to evaluate
//   - seq: the playing sequence
//   - state: the shared pose input for this tick
//
// Returns:
//   - mgl32.Mat4: the bone's local transform
func EvaluateBone(bone *studio.Bone, seq *studio.Sequence, state *PoseState) mgl32.Mat4 {
	pos, rot := BlendTracks(seq, bone.Index, state.Frame, state.SubFrame, state.Blends)
	rot, pos = applyBoneControllers(bone, state.Controllers, state.Channels, rot, pos)
	return common.ComposeTransform(rot, pos)
}

// EvaluateBindPose produces one bone's local transform from its bind pose. Bone controller
// adjustments still apply.
//
// Parameters:
//   - bone: the bone to evaluate
//   - state: the shared pose input for this tick
//
// Returns:
//   - mgl32.Mat4: the bone's local transform
func EvaluateBindPose(bone *studio.Bone, state *PoseState) mgl32.Mat4 {
	rot, pos := applyBoneControllers(bone, state.Controllers, state.Channels, bone.LocalRotation, bone.LocalPosition)
	return common.ComposeTransform(rot, pos)
}
