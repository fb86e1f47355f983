package animation

import (
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
)

// SequenceListener receives sequence lifecycle notifications from a Session.
// Listeners are notified in registration order and cannot stop delivery to later listeners.
type SequenceListener interface {
	// OnSequenceChanged is called after the session switched sequences and reset its frame
	// cursor, before any pose of the new sequence has been evaluated.
	//
	// Parameters:
	//   - oldSeq: the previously playing sequence
	//   - newSeq: the newly selected sequence
	OnSequenceChanged(oldSeq, newSeq *studio.Sequence)

	// OnSequenceFinished is called when a tick wrapped the frame cursor, after that tick's
	// transforms have been produced.
	//
	// Parameters:
	//   - seq: the sequence that completed a loop
	OnSequenceFinished(seq *studio.Sequence)
}

// SequenceListenerFuncs adapts plain functions to SequenceListener. Nil fields are skipped.
type SequenceListenerFuncs struct {
	Changed  func(oldSeq, newSeq *studio.Sequence)
	Finished func(seq *studio.Sequence)
}

var _ SequenceListener = SequenceListenerFuncs{}

func (f SequenceListenerFuncs) OnSequenceChanged(oldSeq, newSeq *studio.Sequence) {
	if f.Changed != nil {
		f.Changed(oldSeq, newSeq)
	}
}

func (f SequenceListenerFuncs) OnSequenceFinished(seq *studio.Sequence) {
	if f.Finished != nil {
		f.Finished(seq)
	}
}
