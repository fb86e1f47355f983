package studio

// Motion flag bits used by bone controller type fields.
const (
	MotionX     = 0x0001
	MotionY     = 0x0002
	MotionZ     = 0x0004
	MotionXR    = 0x0008
	MotionYR    = 0x0010
	MotionZR    = 0x0020
	MotionLX    = 0x0040
	MotionLY    = 0x0080
	MotionLZ    = 0x0100
	MotionAX    = 0x0200
	MotionAY    = 0x0400
	MotionAZ    = 0x0800
	MotionAXR   = 0x1000
	MotionAYR   = 0x2000
	MotionAZR   = 0x4000
	MotionTypes = 0x7FFF
	MotionRLoop = 0x8000
)

// Sequence flag bits.
const (
	SequenceLooping = 0x0001
)

// Script event codes carried by AnimationEvent.Event.
const (
	ScriptEventDead         = 1000
	ScriptEventNoInterrupt  = 1001
	ScriptEventCanInterrupt = 1002
	ScriptEventFireEvent    = 1003
	ScriptEventSound        = 1004
	ScriptEventSentence     = 1005
	ScriptEventInAir        = 1006
	ScriptEventEndAnimation = 1007
	ScriptEventSoundVoice   = 1008
	ScriptEventSentenceRnd1 = 1009
	ScriptEventNotDead      = 1010
)

// MotionTypeFromFlags decodes the controller type bits into a MotionType.
//
// Parameters:
//   - flags: the raw controller type field
//
// Returns:
//   - MotionType: rotation or translation
//   - error: a ConfigurationError when no recognized motion bit is set
func MotionTypeFromFlags(flags int) (MotionType, error) {
	switch flags & MotionTypes {
	case MotionX, MotionY, MotionZ, MotionLX, MotionLY, MotionLZ, MotionAX, MotionAY, MotionAZ:
		return MotionTypeTranslation, nil
	case MotionXR, MotionYR, MotionZR, MotionAXR, MotionAYR, MotionAZR:
		return MotionTypeRotation, nil
	default:
		return 0, NewConfigurationError("unrecognized controller motion type 0x%04x", flags)
	}
}

// MotionAxisFromFlags decodes the controller type bits into a MotionAxis.
//
// Parameters:
//   - flags: the raw controller type field
//
// Returns:
//   - MotionAxis: the adjusted axis
//   - error: a ConfigurationError when no recognized axis bit is set
func MotionAxisFromFlags(flags int) (MotionAxis, error) {
	switch flags & MotionTypes {
	case MotionX, MotionLX, MotionAX, MotionXR, MotionAXR:
		return MotionAxisX, nil
	case MotionY, MotionLY, MotionAY, MotionYR, MotionAYR:
		return MotionAxisY, nil
	case MotionZ, MotionLZ, MotionAZ, MotionZR, MotionAZR:
		return MotionAxisZ, nil
	default:
		return 0, NewConfigurationError("unrecognized controller motion axis 0x%04x", flags)
	}
}

// ControllerFromFlags builds the type-dependent part of a BoneController from its raw fields.
//
// Parameters:
//   - index: the controller slot
//   - boneIndex: the adjusted bone
//   - flags: the raw controller type field including the wrap bit
//   - start: the mapped value at raw 0
//   - end: the mapped value at raw 255
//
// Returns:
//   - BoneController: the decoded controller
//   - error: a ConfigurationError when the flags are malformed
func ControllerFromFlags(index, boneIndex, flags int, start, end float32) (BoneController, error) {
	motionType, err := MotionTypeFromFlags(flags)
	if err != nil {
		return BoneController{}, err
	}
	axis, err := MotionAxisFromFlags(flags)
	if err != nil {
		return BoneController{}, err
	}
	return BoneController{
		Index:      index,
		BoneIndex:  boneIndex,
		MotionType: motionType,
		MotionAxis: axis,
		Start:      start,
		End:        end,
		Wraps:      flags&MotionRLoop != 0,
		IsMouth:    index == MouthControllerIndex,
	}, nil
}
