package animation

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
)

// noEventFrame marks that no event has fired for the current sequence loop.
const noEventFrame = -1

// SoundPlayer is the capability the sound event handler needs from an audio backend.
type SoundPlayer interface {
	// PlaySound starts playback of a sound token such as "common/npc_step1.wav".
	//
	// Parameters:
	//   - token: the sound file token, relative to the sound search paths
	//
	// Returns:
	//   - error: error if the sound could not be resolved or played
	PlaySound(token string) error
}

// EventHandler reacts to one timeline event.
type EventHandler interface {
	// HandleEvent is called once when the playing sequence reaches the event's frame.
	//
	// Parameters:
	//   - seq: the playing sequence
	//   - ev: the event that fired
	HandleEvent(seq *studio.Sequence, ev *studio.AnimationEvent)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(seq *studio.Sequence, ev *studio.AnimationEvent)

func (f EventHandlerFunc) HandleEvent(seq *studio.Sequence, ev *studio.AnimationEvent) {
	f(seq, ev)
}

// SoundEventHandler plays the sound named by a sound event's payload. Leading '*' marker
// characters are skipped. Playback failures and a nil player are ignored.
type SoundEventHandler struct {
	Player SoundPlayer
}

func (h *SoundEventHandler) HandleEvent(_ *studio.Sequence, ev *studio.AnimationEvent) {
	if h.Player == nil {
		return
	}
	token := SoundToken(ev.Options)
	if token == "" {
		return
	}
	_ = h.Player.PlaySound(token)
}

// SoundToken strips the leading run of '*' markers from a sound event payload.
func SoundToken(options string) string {
	return strings.TrimLeft(options, "*")
}

// eventDispatcher is the implementation of the EventDispatcher interface.
type eventDispatcher struct {
	lastEventFrame int
	handlers       map[int][]EventHandler
}

// EventDispatcher fires a sequence's timeline events once per loop. It is registered as the
// first SequenceListener of every Session so its state resets whenever the sequence changes
// or completes a loop.
type EventDispatcher interface {
	SequenceListener

	// ProcessEvents fires the events stamped with frame, unless events already fired at this
	// frame or a later one during the current loop.
	//
	// Parameters:
	//   - seq: the playing sequence
	//   - frame: the integer frame that was just evaluated
	ProcessEvents(seq *studio.Sequence, frame int)

	// RegisterHandler adds a handler for an event code. Several handlers may share a code and
	// run in registration order.
	//
	// Parameters:
	//   - code: the event code, e.g. studio.ScriptEventSound
	//   - handler: the handler to add
	RegisterHandler(code int, handler EventHandler)

	// LastEventFrame returns the frame at which events last fired, or -1 when none fired since
	// the last reset.
	//
	// Returns:
	//   - int: the last event frame
	LastEventFrame() int
}

var _ EventDispatcher = &eventDispatcher{}

// NewEventDispatcher creates an EventDispatcher. When player is non-nil a SoundEventHandler
// is registered for studio.ScriptEventSound.
//
// Parameters:
//   - player: the sound backend, or nil
//
// Returns:
//   - EventDispatcher: the dispatcher
func NewEventDispatcher(player SoundPlayer) EventDispatcher {
	d := &eventDispatcher{
		lastEventFrame: noEventFrame,
		handlers:       make(map[int][]EventHandler),
	}
	if player != nil {
		d.RegisterHandler(studio.ScriptEventSound, &SoundEventHandler{Player: player})
	}
	return d
}

func (d *eventDispatcher) OnSequenceChanged(_, _ *studio.Sequence) {
	d.lastEventFrame = noEventFrame
}

func (d *eventDispatcher) OnSequenceFinished(_ *studio.Sequence) {
	d.lastEventFrame = noEventFrame
}

func (d *eventDispatcher) ProcessEvents(seq *studio.Sequence, frame int) {
	if d.lastEventFrame >= frame {
		return
	}
	for i := range seq.Events {
		ev := &seq.Events[i]
		if ev.Frame != frame {
			continue
		}
		d.lastEventFrame = frame
		for _, h := range d.handlers[ev.Event] {
			h.HandleEvent(seq, ev)
		}
	}
}

func (d *eventDispatcher) RegisterHandler(code int, handler EventHandler) {
	d.handlers[code] = append(d.handlers[code], handler)
}

func (d *eventDispatcher) LastEventFrame() int {
	return d.lastEventFrame
}
