package studio

import "slices"

// StudioModelBuilderOption is a functional option for configuring a StudioModel via NewStudioModel.
type StudioModelBuilderOption func(*studioModel)

// WithName is an option builder that sets the name of the StudioModel.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - StudioModelBuilderOption: a function that applies the name option to a model
func WithName(name string) StudioModelBuilderOption {
	return func(m *studioModel) {
		m.name = name
	}
}

// WithBones is an option builder that sets the bone array. Bones must be ordered so that every
// parent precedes its children; Children and BoneControllers are rebuilt by NewStudioModel.
// The model keeps its own copy, so bones may be reused for other models.
//
// Parameters:
//   - bones: the bones in parent-before-child order
//
// Returns:
//   - StudioModelBuilderOption: a function that applies the bones option to a model
func WithBones(bones []Bone) StudioModelBuilderOption {
	return func(m *studioModel) {
		m.bones = slices.Clone(bones)
	}
}

// WithBoneControllers is an option builder that sets the bone controller definitions.
//
// Parameters:
//   - controllers: the controllers indexed by slot
//
// Returns:
//   - StudioModelBuilderOption: a function that applies the controllers option to a model
func WithBoneControllers(controllers []BoneController) StudioModelBuilderOption {
	return func(m *studioModel) {
		m.boneControllers = slices.Clone(controllers)
	}
}

// WithSequences is an option builder that sets the animation sequences.
//
// Parameters:
//   - sequences: the sequences
//
// Returns:
//   - StudioModelBuilderOption: a function that applies the sequences option to a model
func WithSequences(sequences []Sequence) StudioModelBuilderOption {
	return func(m *studioModel) {
		m.sequences = sequences
	}
}

// WithSequence is an option builder that appends a single sequence, assigning its index.
//
// Parameters:
//   - seq: the sequence to append
//
// Returns:
//   - StudioModelBuilderOption: a function that appends the sequence to a model
func WithSequence(seq Sequence) StudioModelBuilderOption {
	return func(m *studioModel) {
		seq.Index = len(m.sequences)
		m.sequences = append(m.sequences, seq)
	}
}
