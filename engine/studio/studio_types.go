package studio

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaxBones is the largest skeleton the skinning stage can address. Models with more bones are
// rejected when the StudioModel is built.
const MaxBones = 128

// MaxBlendControllers is the number of blend controller slots a session carries.
const MaxBlendControllers = 2

// ControllerRestValue is the raw value every bone and blend controller starts at.
const ControllerRestValue = 128

// MouthControllerIndex is the controller slot the studio format reserves for mouth movement.
const MouthControllerIndex = 4

// --- Skeleton Types ---

// Bone represents a single bone in a studio model skeleton.
// Bones are stored so that every bone's ParentIndex is smaller than its own Index.
type Bone struct {
	// Index is the position of the bone in the model's bone array.
	Index int

	// ParentIndex is the index of the parent bone (-1 for root bones).
	ParentIndex int

	// Name is the bone's identifier.
	Name string

	// LocalRotation is the bind-pose orientation relative to the parent.
	LocalRotation mgl32.Quat

	// LocalPosition is the bind-pose translation relative to the parent.
	LocalPosition mgl32.Vec3

	// OffsetMatrix is the inverse of the bone's absolute bind-pose transform.
	// It is only consumed by the skinning stage.
	OffsetMatrix mgl32.Mat4

	// BoneControllers lists the indices of the controllers that adjust this bone, in application order.
	BoneControllers []int

	// Children lists the indices of the bones whose parent is this bone.
	Children []int
}

// IsRoot reports whether the bone has no parent.
func (b *Bone) IsRoot() bool {
	return b.ParentIndex < 0
}

// MotionType selects which part of a bone pose a controller adjusts.
type MotionType int

const (
	// MotionTypeRotation adjusts one Euler angle of the bone's orientation.
	MotionTypeRotation MotionType = iota
	// MotionTypeTranslation adjusts one component of the bone's position.
	MotionTypeTranslation
)

// String returns the display name of the motion type.
func (t MotionType) String() string {
	switch t {
	case MotionTypeRotation:
		return "rotation"
	case MotionTypeTranslation:
		return "translation"
	default:
		return "unknown"
	}
}

// MotionAxis selects the axis a controller adjusts.
type MotionAxis int

const (
	MotionAxisX MotionAxis = iota
	MotionAxisY
	MotionAxisZ
)

// String returns the display name of the axis.
func (a MotionAxis) String() string {
	switch a {
	case MotionAxisX:
		return "x"
	case MotionAxisY:
		return "y"
	case MotionAxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// BoneController describes a ranged 0..255 input that adjusts one axis of one bone.
type BoneController struct {
	// Index is the position of the controller in the model's controller array.
	Index int

	// BoneIndex is the bone the controller adjusts.
	BoneIndex int

	// MotionType selects rotation or translation.
	MotionType MotionType

	// MotionAxis selects the adjusted axis.
	MotionAxis MotionAxis

	// Start is the mapped value at raw 0. Degrees for rotation controllers.
	Start float32

	// End is the mapped value at raw 255. Degrees for rotation controllers.
	End float32

	// Wraps selects the 360 degree wraparound mapping instead of the clamped start..end range.
	Wraps bool

	// IsMouth marks the controller driving the mouth. Only used as a UI hint.
	IsMouth bool
}

// --- Animation Types ---

// BoneKeys holds the per-frame keys of one bone within one track.
// Both slices have exactly NumFrames entries.
type BoneKeys struct {
	Positions []mgl32.Vec3
	Rotations []mgl32.Quat
}

// Track is one of the parallel keyframe streams of a sequence, with one BoneKeys per bone.
type Track struct {
	Bones []BoneKeys
}

// AnimationEvent is a frame-stamped trigger embedded in a sequence timeline.
type AnimationEvent struct {
	// Frame is the integer frame at which the event fires, within [0, NumFrames).
	Frame int

	// Event is the event type code (see the ScriptEvent constants).
	Event int

	// Type is the raw event type field carried by the model file.
	Type int

	// Options is the free-form payload, e.g. a sound token.
	Options string
}

// Sequence represents a named animation clip.
type Sequence struct {
	// Index is the position of the sequence in the model's sequence array.
	Index int

	// Name is the sequence label.
	Name string

	// FPS is the playback rate in frames per second.
	FPS float32

	// NumFrames is the number of keyframes per bone and track.
	NumFrames int

	// Looping is the file-level looping flag. Playback always wraps regardless; it is informational.
	Looping bool

	// BBMin is the minimum corner of the sequence bounding box.
	BBMin mgl32.Vec3

	// BBMax is the maximum corner of the sequence bounding box.
	BBMax mgl32.Vec3

	// Tracks holds 1, 2 or 4 parallel keyframe streams.
	Tracks []Track

	// Events lists the timeline events, ordered by frame.
	Events []AnimationEvent
}

// NumBlends returns the number of parallel tracks.
func (s *Sequence) NumBlends() int {
	return len(s.Tracks)
}

// LoopLength returns the frame span the cursor wraps over, which is NumFrames - 1.
func (s *Sequence) LoopLength() int {
	if s.NumFrames <= 1 {
		return 0
	}
	return s.NumFrames - 1
}

// BoneSegment is a pair of bone indices forming one visible line of the skeleton.
type BoneSegment struct {
	Parent int
	Child  int
}
