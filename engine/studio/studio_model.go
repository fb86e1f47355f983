package studio

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// studioModel is the implementation of the StudioModel interface.
type studioModel struct {
	name            string
	bones           []Bone
	boneControllers []BoneController
	sequences       []Sequence
}

// StudioModel is the immutable, validated skeleton and animation data of one studio model.
// It is produced by the Loader or assembled by hand through NewStudioModel, and is shared
// read-only by every animation session playing it.
type StudioModel interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Bones retrieves the bone array in parent-before-child order.
	//
	// Returns:
	//   - []Bone: the bones
	Bones() []Bone

	// Bone retrieves a bone by index.
	//
	// Parameters:
	//   - index: the bone index
	//
	// Returns:
	//   - *Bone: the bone
	//   - error: a DomainError when index is out of range
	Bone(index int) (*Bone, error)

	// BoneByName looks up a bone by name.
	//
	// Parameters:
	//   - name: the bone name
	//
	// Returns:
	//   - *Bone: the bone, or nil if no bone has this name
	BoneByName(name string) *Bone

	// BoneControllers retrieves the bone controller definitions.
	//
	// Returns:
	//   - []BoneController: the controllers, indexed by controller slot
	BoneControllers() []BoneController

	// Sequences retrieves the animation sequences.
	//
	// Returns:
	//   - []Sequence: the sequences
	Sequences() []Sequence

	// Sequence retrieves a sequence by index.
	//
	// Parameters:
	//   - index: the sequence index
	//
	// Returns:
	//   - *Sequence: the sequence
	//   - error: a DomainError when index is out of range
	Sequence(index int) (*Sequence, error)

	// SequenceByName looks up a sequence by label.
	//
	// Parameters:
	//   - name: the sequence label
	//
	// Returns:
	//   - *Sequence: the sequence, or nil if not found
	SequenceByName(name string) *Sequence

	// NumBlendControllers returns how many blend controllers the widest sequence uses:
	// 0 for single-track models, 1 when some sequence has 2 tracks, 2 when some sequence has 4.
	//
	// Returns:
	//   - int: the blend controller count
	NumBlendControllers() int

	// BoneSegments returns one parent/child pair per non-root bone, for skeleton visualization.
	//
	// Returns:
	//   - []BoneSegment: the segments in bone order
	BoneSegments() []BoneSegment

	// BindPose returns the absolute bind-pose transform of every bone, composed from the
	// bones' local rotations and positions.
	//
	// Returns:
	//   - []mgl32.Mat4: one matrix per bone
	BindPose() []mgl32.Mat4
}

var _ StudioModel = &studioModel{}

// NewStudioModel assembles a StudioModel from the provided options, links every controller to
// its bone, builds child lists, computes missing offset matrices and validates the result.
//
// Parameters:
//   - options: functional options providing name, bones, controllers and sequences
//
// Returns:
//   - StudioModel: the validated model
//   - error: a ConfigurationError when the data violates a model invariant
func NewStudioModel(options ...StudioModelBuilderOption) (StudioModel, error) {
	m := &studioModel{}
	for _, opt := range options {
		opt(m)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	m.link()
	return m, nil
}

func (m *studioModel) Name() string {
	return m.name
}

func (m *studioModel) Bones() []Bone {
	return m.bones
}

func (m *studioModel) Bone(index int) (*Bone, error) {
	if err := CheckIndex("bone", index, len(m.bones)); err != nil {
		return nil, err
	}
	return &m.bones[index], nil
}

func (m *studioModel) BoneByName(name string) *Bone {
	for i := range m.bones {
		if m.bones[i].Name == name {
			return &m.bones[i]
		}
	}
	return nil
}

func (m *studioModel) BoneControllers() []BoneController {
	return m.boneControllers
}

func (m *studioModel) Sequences() []Sequence {
	return m.sequences
}

func (m *studioModel) Sequence(index int) (*Sequence, error) {
	if err := CheckIndex("sequence", index, len(m.sequences)); err != nil {
		return nil, err
	}
	return &m.sequences[index], nil
}

func (m *studioModel) SequenceByName(name string) *Sequence {
	for i := range m.sequences {
		if m.sequences[i].Name == name {
			return &m.sequences[i]
		}
	}
	return nil
}

func (m *studioModel) NumBlendControllers() int {
	n := 0
	for i := range m.sequences {
		switch len(m.sequences[i].Tracks) {
		case 2:
			n = max(n, 1)
		case 4:
			n = max(n, 2)
		}
	}
	return n
}

func (m *studioModel) BoneSegments() []BoneSegment {
	segments := make([]BoneSegment, 0, len(m.bones))
	for _, b := range m.bones {
		if b.IsRoot() {
			continue
		}
		segments = append(segments, BoneSegment{Parent: b.ParentIndex, Child: b.Index})
	}
	return segments
}

func (m *studioModel) BindPose() []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(m.bones))
	for i, b := range m.bones {
		local := b.LocalRotation.Mat4()
		local[12], local[13], local[14] = b.LocalPosition[0], b.LocalPosition[1], b.LocalPosition[2]
		if b.IsRoot() {
			out[i] = local
			continue
		}
		out[i] = out[b.ParentIndex].Mul4(local)
	}
	return out
}

// validate checks every structural invariant the animation engine relies on.
func (m *studioModel) validate() error {
	if len(m.bones) > MaxBones {
		return NewConfigurationError("%d bones exceeds the skinning budget of %d", len(m.bones), MaxBones)
	}

	for i := range m.bones {
		b := &m.bones[i]
		if b.Index != i {
			return NewConfigurationError("bone %q stored at %d claims index %d", b.Name, i, b.Index)
		}
		if b.ParentIndex >= i {
			return NewConfigurationError("bone %q (%d) has parent %d which does not precede it", b.Name, i, b.ParentIndex)
		}
		if b.ParentIndex < -1 {
			return NewConfigurationError("bone %q (%d) has invalid parent %d", b.Name, i, b.ParentIndex)
		}
	}

	for i, c := range m.boneControllers {
		if c.Index != i {
			return NewConfigurationError("bone controller stored at %d claims index %d", i, c.Index)
		}
		if c.BoneIndex < 0 || c.BoneIndex >= len(m.bones) {
			return NewConfigurationError("bone controller %d targets missing bone %d", i, c.BoneIndex)
		}
		if c.MotionType != MotionTypeRotation && c.MotionType != MotionTypeTranslation {
			return NewConfigurationError("bone controller %d has unknown motion type %d", i, c.MotionType)
		}
		if c.MotionAxis < MotionAxisX || c.MotionAxis > MotionAxisZ {
			return NewConfigurationError("bone controller %d has unknown motion axis %d", i, c.MotionAxis)
		}
	}

	for i := range m.sequences {
		if err := m.validateSequence(i); err != nil {
			return err
		}
	}
	return nil
}

func (m *studioModel) validateSequence(i int) error {
	seq := &m.sequences[i]
	if seq.Index != i {
		return NewConfigurationError("sequence %q stored at %d claims index %d", seq.Name, i, seq.Index)
	}
	switch len(seq.Tracks) {
	case 1, 2, 4:
	default:
		return NewConfigurationError("sequence %q has %d tracks, want 1, 2 or 4", seq.Name, len(seq.Tracks))
	}
	if seq.NumFrames < 1 {
		return NewConfigurationError("sequence %q has %d frames", seq.Name, seq.NumFrames)
	}

	for t, track := range seq.Tracks {
		if len(track.Bones) != len(m.bones) {
			return NewConfigurationError("sequence %q track %d has keys for %d bones, want %d", seq.Name, t, len(track.Bones), len(m.bones))
		}
		for b, keys := range track.Bones {
			if len(keys.Positions) != seq.NumFrames || len(keys.Rotations) != seq.NumFrames {
				return NewConfigurationError("sequence %q track %d bone %d has %d/%d keys, want %d",
					seq.Name, t, b, len(keys.Positions), len(keys.Rotations), seq.NumFrames)
			}
		}
	}

	for _, ev := range seq.Events {
		if ev.Frame < 0 || ev.Frame >= seq.NumFrames {
			return NewConfigurationError("sequence %q event %d at frame %d outside [0, %d)", seq.Name, ev.Event, ev.Frame, seq.NumFrames)
		}
	}
	return nil
}

// link rebuilds the index relations derived from parent and controller ownership.
func (m *studioModel) link() {
	for i := range m.bones {
		m.bones[i].Children = nil
		m.bones[i].BoneControllers = nil
	}
	for i := range m.bones {
		if p := m.bones[i].ParentIndex; p >= 0 {
			m.bones[p].Children = append(m.bones[p].Children, i)
		}
	}
	for _, c := range m.boneControllers {
		m.bones[c.BoneIndex].BoneControllers = append(m.bones[c.BoneIndex].BoneControllers, c.Index)
	}

	if m.hasOffsets() {
		return
	}
	for i, abs := range m.BindPose() {
		m.bones[i].OffsetMatrix = abs.Inv()
	}
}

// hasOffsets reports whether any bone already carries a non-zero offset matrix.
func (m *studioModel) hasOffsets() bool {
	var zero mgl32.Mat4
	for i := range m.bones {
		if m.bones[i].OffsetMatrix != zero {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer for log output.
func (m *studioModel) String() string {
	return fmt.Sprintf("StudioModel(%q, %d bones, %d controllers, %d sequences)",
		m.name, len(m.bones), len(m.boneControllers), len(m.sequences))
}
