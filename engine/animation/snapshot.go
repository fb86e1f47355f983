package animation

import (
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/go-gl/mathgl/mgl32"
)

// SequenceInfo describes one selectable sequence.
type SequenceInfo struct {
	Index     int
	Name      string
	FPS       float32
	NumFrames int
	NumBlends int
	NumEvents int
}

// BoneControllerInfo describes one bone controller slider.
type BoneControllerInfo struct {
	Index      int
	BoneIndex  int
	BoneName   string
	MotionType studio.MotionType
	MotionAxis studio.MotionAxis
	Start, End float32
	Wraps      bool
	IsMouth    bool

	// Min and Max bound the raw value; RestValue is its initial position.
	Min, Max, RestValue uint8

	RawValue      uint8
	AdjustedValue float32
}

// BlendControllerInfo describes one blend controller slider.
type BlendControllerInfo struct {
	Index               int
	Min, Max, RestValue uint8
	Value               uint8
}

// Snapshot is a read-only copy of the session state for display.
type Snapshot struct {
	ModelName     string
	SequenceIndex int
	SequenceName  string
	Frame         float32
	NumFrames     int
	PlaybackRate  float32
	BBMin, BBMax  mgl32.Vec3

	Sequences        []SequenceInfo
	BoneControllers  []BoneControllerInfo
	BlendControllers []BlendControllerInfo
}

func (s *session) Snapshot() Snapshot {
	snap := Snapshot{
		ModelName:     s.model.Name(),
		SequenceIndex: s.sequence,
		Frame:         s.frame,
		PlaybackRate:  s.playbackRate,
	}
	if seq := s.Sequence(); seq != nil {
		snap.SequenceName = seq.Name
		snap.NumFrames = seq.NumFrames
		snap.BBMin, snap.BBMax = seq.BBMin, seq.BBMax
	}

	snap.Sequences = make([]SequenceInfo, len(s.sequences))
	for i := range s.sequences {
		seq := &s.sequences[i]
		snap.Sequences[i] = SequenceInfo{
			Index:     seq.Index,
			Name:      seq.Name,
			FPS:       seq.FPS,
			NumFrames: seq.NumFrames,
			NumBlends: seq.NumBlends(),
			NumEvents: len(seq.Events),
		}
	}

	controllers := s.model.BoneControllers()
	snap.BoneControllers = make([]BoneControllerInfo, len(controllers))
	for i, c := range controllers {
		snap.BoneControllers[i] = BoneControllerInfo{
			Index:         c.Index,
			BoneIndex:     c.BoneIndex,
			BoneName:      s.bones[c.BoneIndex].Name,
			MotionType:    c.MotionType,
			MotionAxis:    c.MotionAxis,
			Start:         c.Start,
			End:           c.End,
			Wraps:         c.Wraps,
			IsMouth:       c.IsMouth,
			Min:           0,
			Max:           255,
			RestValue:     studio.ControllerRestValue,
			RawValue:      s.channels[i].RawValue(),
			AdjustedValue: s.channels[i].AdjustedValue(),
		}
	}

	snap.BlendControllers = make([]BlendControllerInfo, s.numBlendControllers)
	for i := range snap.BlendControllers {
		snap.BlendControllers[i] = BlendControllerInfo{
			Index:     i,
			Min:       0,
			Max:       255,
			RestValue: studio.ControllerRestValue,
			Value:     s.blends[i],
		}
	}
	return snap
}
