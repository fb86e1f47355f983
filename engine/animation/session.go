package animation

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/go-gl/mathgl/mgl32"
)

// session is the implementation of the Session interface.
type session struct {
	model     studio.StudioModel
	bones     []studio.Bone
	sequences []studio.Sequence

	sequence     int
	frame        float32
	playbackRate float32

	channels            []BoneControllerChannel
	blends              [studio.MaxBlendControllers]uint8
	numBlendControllers int

	dispatcher EventDispatcher
	listeners  []SequenceListener

	// Collected by options and attached once the dispatcher exists.
	soundPlayer      SoundPlayer
	pendingListeners []SequenceListener
	pendingHandlers  map[int][]EventHandler

	// locals and transforms are reused every tick; Tick hands out transforms directly.
	locals, transforms []mgl32.Mat4

	evalPool    worker.DynamicWorkerPool
	evalWorkers int
	taskID      int
}

// Session plays one StudioModel: it owns the current sequence, frame cursor, playback rate,
// bone controller channels and blend values, and produces the absolute bone transforms of the
// model once per Tick.
//
// A Session is not safe for concurrent use. Every setter takes effect before the next Tick.
type Session interface {
	// Model returns the model this session plays.
	//
	// Returns:
	//   - studio.StudioModel: the model
	Model() studio.StudioModel

	// SetSequence switches to another sequence and resets the frame cursor to 0. Listeners are
	// notified with the old and new sequence before any pose of the new sequence is evaluated.
	//
	// Parameters:
	//   - index: the sequence index
	//
	// Returns:
	//   - error: a studio.DomainError when index is out of range
	SetSequence(index int) error

	// SetPlaybackRate sets the playback rate multiplier. Negative rates are not supported and
	// are treated as 0.
	//
	// Parameters:
	//   - rate: the rate multiplier (1 is normal speed)
	SetPlaybackRate(rate float32)

	// SetFrame moves the frame cursor.
	//
	// Parameters:
	//   - frame: the new cursor, within [0, max(1, NumFrames-1))
	//
	// Returns:
	//   - error: a studio.DomainError when the frame is outside the playable range
	SetFrame(frame float32) error

	// SetBlendController sets a blend controller value.
	//
	// Parameters:
	//   - index: the blend controller index, below Model().NumBlendControllers()
	//   - value: the raw value, 0..255
	//
	// Returns:
	//   - error: a studio.DomainError when index is out of range
	SetBlendController(index int, value uint8) error

	// SetBoneController sets a bone controller's raw value and derives its adjustment.
	//
	// Parameters:
	//   - index: the bone controller index
	//   - value: the raw value, 0..255
	//
	// Returns:
	//   - error: a studio.DomainError when index is out of range
	SetBoneController(index int, value uint8) error

	// ResetControllers puts every bone and blend controller back to its rest value.
	ResetControllers()

	// Tick evaluates the pose at the current frame, advances the frame cursor and fires
	// events. Models without sequences are evaluated in their bind pose.
	//
	// Parameters:
	//   - deltaTime: the elapsed time in seconds
	//
	// Returns:
	//   - []mgl32.Mat4: one absolute transform per bone, valid until the next Tick
	Tick(deltaTime float32) []mgl32.Mat4

	// Transforms returns the transforms produced by the last Tick.
	//
	// Returns:
	//   - []mgl32.Mat4: one absolute transform per bone
	Transforms() []mgl32.Mat4

	// AddListener registers a listener after the ones already registered.
	//
	// Parameters:
	//   - listener: the listener to add
	AddListener(listener SequenceListener)

	// EventDispatcher returns the dispatcher firing timeline events for this session.
	//
	// Returns:
	//   - EventDispatcher: the dispatcher
	EventDispatcher() EventDispatcher

	// SequenceIndex returns the playing sequence index.
	//
	// Returns:
	//   - int: the sequence index
	SequenceIndex() int

	// Sequence returns the playing sequence, or nil when the model has none.
	//
	// Returns:
	//   - *studio.Sequence: the sequence or nil
	Sequence() *studio.Sequence

	// Frame returns the frame cursor.
	//
	// Returns:
	//   - float32: the frame cursor
	Frame() float32

	// PlaybackRate returns the playback rate multiplier.
	//
	// Returns:
	//   - float32: the rate
	PlaybackRate() float32

	// BoneController returns the runtime state of a bone controller.
	//
	// Parameters:
	//   - index: the bone controller index
	//
	// Returns:
	//   - BoneControllerChannel: a copy of the channel
	//   - error: a studio.DomainError when index is out of range
	BoneController(index int) (BoneControllerChannel, error)

	// BlendController returns a blend controller value.
	//
	// Parameters:
	//   - index: the blend controller index
	//
	// Returns:
	//   - uint8: the raw value
	//   - error: a studio.DomainError when index is out of range
	BlendController(index int) (uint8, error)

	// Snapshot captures the read-only state a UI needs to display the session.
	//
	// Returns:
	//   - Snapshot: the captured state
	Snapshot() Snapshot
}

var _ Session = &session{}

// NewSession creates a Session playing the first sequence of model with every controller at
// rest. The event dispatcher is always the first registered listener.
//
// Parameters:
//   - model: the model to play; must not be nil
//   - options: functional options for sound, listeners, handlers and parallel evaluation
//
// Returns:
//   - Session: the new session
func NewSession(model studio.StudioModel, options ...SessionBuilderOption) Session {
	if model == nil {
		panic("animation: NewSession requires a non-nil StudioModel")
	}

	s := &session{
		model:               model,
		bones:               model.Bones(),
		sequences:           model.Sequences(),
		playbackRate:        1,
		numBlendControllers: model.NumBlendControllers(),
		pendingHandlers:     make(map[int][]EventHandler),
	}
	for _, opt := range options {
		opt(s)
	}

	s.dispatcher = NewEventDispatcher(s.soundPlayer)
	for code, handlers := range s.pendingHandlers {
		for _, h := range handlers {
			s.dispatcher.RegisterHandler(code, h)
		}
	}
	s.listeners = append([]SequenceListener{s.dispatcher}, s.pendingListeners...)
	s.pendingListeners = nil
	s.pendingHandlers = nil

	s.channels = make([]BoneControllerChannel, len(model.BoneControllers()))
	s.ResetControllers()

	s.locals = make([]mgl32.Mat4, len(s.bones))
	s.transforms = make([]mgl32.Mat4, len(s.bones))

	if s.evalWorkers > 1 && s.evalPool == nil {
		s.evalPool = worker.NewDynamicWorkerPool(s.evalWorkers, 256, 1*time.Second)
	}
	return s
}

func (s *session) Model() studio.StudioModel {
	return s.model
}

func (s *session) SetSequence(index int) error {
	if err := studio.CheckIndex("sequence", index, len(s.sequences)); err != nil {
		return err
	}

	old := s.sequence
	s.sequence = index
	s.frame = 0

	for _, l := range s.listeners {
		l.OnSequenceChanged(&s.sequences[old], &s.sequences[index])
	}
	return nil
}

func (s *session) SetPlaybackRate(rate float32) {
	s.playbackRate = max(rate, 0)
}

func (s *session) SetFrame(frame float32) error {
	seq := s.Sequence()
	if seq == nil {
		return studio.CheckIndex("sequence", 0, 0)
	}
	limit := float32(max(1, seq.LoopLength()))
	if frame < 0 || frame >= limit {
		return studio.NewDomainError("frame", int(frame), int(limit))
	}
	s.frame = frame
	return nil
}

func (s *session) SetBlendController(index int, value uint8) error {
	if err := studio.CheckIndex("blend controller", index, s.numBlendControllers); err != nil {
		return err
	}
	s.blends[index] = value
	return nil
}

func (s *session) SetBoneController(index int, value uint8) error {
	if err := studio.CheckIndex("bone controller", index, len(s.channels)); err != nil {
		return err
	}
	s.channels[index].SetValue(&s.model.BoneControllers()[index], value)
	return nil
}

func (s *session) ResetControllers() {
	for i := range s.channels {
		s.channels[i].Reset()
	}
	for i := range s.blends {
		s.blends[i] = studio.ControllerRestValue
	}
}

func (s *session) Tick(deltaTime float32) []mgl32.Mat4 {
	if len(s.sequences) == 0 {
		state := s.poseState(0, 0)
		s.evaluate(func(i int) mgl32.Mat4 {
			return EvaluateBindPose(&s.bones[i], state)
		})
		ComposeHierarchy(s.bones, s.locals, s.transforms)
		return s.transforms
	}

	seq := &s.sequences[s.sequence]
	if seq.NumFrames <= 1 {
		s.frame = 0
	}
	frame := int(s.frame)
	state := s.poseState(frame, s.frame-float32(frame))

	s.evaluate(func(i int) mgl32.Mat4 {
		return EvaluateBone(&s.bones[i], seq, state)
	})
	ComposeHierarchy(s.bones, s.locals, s.transforms)

	var finished bool
	s.frame, finished = AdvanceFrame(seq, s.frame, s.playbackRate, max(deltaTime, 0))
	if finished {
		for _, l := range s.listeners {
			l.OnSequenceFinished(seq)
		}
	}

	if len(seq.Events) > 0 {
		s.dispatcher.ProcessEvents(seq, frame)
	}
	return s.transforms
}

func (s *session) Transforms() []mgl32.Mat4 {
	return s.transforms
}

func (s *session) AddListener(listener SequenceListener) {
	s.listeners = append(s.listeners, listener)
}

func (s *session) EventDispatcher() EventDispatcher {
	return s.dispatcher
}

func (s *session) SequenceIndex() int {
	return s.sequence
}

func (s *session) Sequence() *studio.Sequence {
	if len(s.sequences) == 0 {
		return nil
	}
	return &s.sequences[s.sequence]
}

func (s *session) Frame() float32 {
	return s.frame
}

func (s *session) PlaybackRate() float32 {
	return s.playbackRate
}

func (s *session) BoneController(index int) (BoneControllerChannel, error) {
	if err := studio.CheckIndex("bone controller", index, len(s.channels)); err != nil {
		return BoneControllerChannel{}, err
	}
	return s.channels[index], nil
}

func (s *session) BlendController(index int) (uint8, error) {
	if err := studio.CheckIndex("blend controller", index, s.numBlendControllers); err != nil {
		return 0, err
	}
	return s.blends[index], nil
}

// poseState captures the read-only evaluation input for one tick.
func (s *session) poseState(frame int, subFrame float32) *PoseState {
	return &PoseState{
		Frame:       frame,
		SubFrame:    subFrame,
		Blends:      s.blends,
		Controllers: s.model.BoneControllers(),
		Channels:    s.channels,
	}
}

// evaluate fills s.locals with eval(i) for every bone, fanning out over the evaluation pool
// when one is configured. Each task writes a disjoint range of s.locals.
func (s *session) evaluate(eval func(i int) mgl32.Mat4) {
	n := len(s.bones)
	if s.evalPool == nil || s.evalWorkers < 2 || n < s.evalWorkers {
		for i := 0; i < n; i++ {
			s.locals[i] = eval(i)
		}
		return
	}

	// WaitGroup gives a per-tick barrier; the pool itself only drains when workers idle out.
	var wg sync.WaitGroup
	chunk := (n + s.evalWorkers - 1) / s.evalWorkers
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		id := s.taskID
		s.taskID++
		s.evalPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					s.locals[i] = eval(i)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}
