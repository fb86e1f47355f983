package animation

import (
	"math"

	"github.com/Carmen-Shannon/oxy-mdl/common"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/go-gl/mathgl/mgl32"
)

// BoneControllerChannel is the runtime state of one bone controller: the raw 0..255 input and
// the adjustment derived from it. It only changes through SetValue and Reset.
type BoneControllerChannel struct {
	rawValue      uint8
	adjustedValue float32
}

// NewBoneControllerChannel returns a channel at the rest value.
func NewBoneControllerChannel() BoneControllerChannel {
	var c BoneControllerChannel
	c.Reset()
	return c
}

// Reset puts the channel back to raw 128 with no adjustment.
func (c *BoneControllerChannel) Reset() {
	c.rawValue = studio.ControllerRestValue
	c.adjustedValue = 0
}

// SetValue stores raw and derives the adjustment through the controller's mapping rule.
//
// Wrapping controllers map to raw*360/256 + Start. Other controllers map to
// lerp(Start, End, clamp(raw/255, 0, 1)). Rotation controllers convert the mapped degrees to
// radians; translation controllers use the mapped value as a distance.
//
// Parameters:
//   - ctrl: the controller definition
//   - raw: the input value
func (c *BoneControllerChannel) SetValue(ctrl *studio.BoneController, raw uint8) {
	c.rawValue = raw

	var mapped float32
	if ctrl.Wraps {
		mapped = float32(raw)*(360.0/256.0) + ctrl.Start
	} else {
		t := common.Clamp(float32(raw)/255.0, 0, 1)
		mapped = common.Lerp(ctrl.Start, ctrl.End, t)
	}

	if ctrl.MotionType == studio.MotionTypeRotation {
		mapped *= math.Pi / 180.0
	}
	c.adjustedValue = mapped
}

// RawValue returns the last raw input.
func (c *BoneControllerChannel) RawValue() uint8 {
	return c.rawValue
}

// AdjustedValue returns the derived adjustment: radians for rotation controllers, scene units
// for translation controllers.
func (c *BoneControllerChannel) AdjustedValue() float32 {
	return c.adjustedValue
}

// ApplyBoneController adds one controller's adjustment to a bone pose.
//
// Rotation controllers decompose the orientation into Euler angles, add the adjustment to the
// controlled axis and rebuild the quaternion. Near the Y singularity this decomposition is not
// unique, so several rotation controllers on the same bone do not commute.
// Translation controllers add the adjustment to the controlled position component.
//
// Parameters:
//   - ctrl: the controller definition
//   - channel: the controller state
//   - rotation: the bone orientation to adjust
//   - position: the bone position to adjust
//
// Returns:
//   - mgl32.Quat: the adjusted orientation
//   - mgl32.Vec3: the adjusted position
func ApplyBoneController(ctrl *studio.BoneController, channel *BoneControllerChannel, rotation mgl32.Quat, position mgl32.Vec3) (mgl32.Quat, mgl32.Vec3) {
	switch ctrl.MotionType {
	case studio.MotionTypeRotation:
		angles := common.EulerAngles(rotation)
		angles[ctrl.MotionAxis] += channel.adjustedValue
		rotation = common.QuatFromEuler(angles)
	case studio.MotionTypeTranslation:
		position[ctrl.MotionAxis] += channel.adjustedValue
	}
	return rotation, position
}

// applyBoneControllers runs every controller attached to bone, in list order.
func applyBoneControllers(bone *studio.Bone, controllers []studio.BoneController, channels []BoneControllerChannel, rotation mgl32.Quat, position mgl32.Vec3) (mgl32.Quat, mgl32.Vec3) {
	for _, ci := range bone.BoneControllers {
		rotation, position = ApplyBoneController(&controllers[ci], &channels[ci], rotation, position)
	}
	return rotation, position
}
