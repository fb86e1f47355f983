package animation

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
)

// SessionBuilderOption is a functional option for configuring a Session via NewSession.
type SessionBuilderOption func(*session)

// WithSoundPlayer sets the backend the built-in sound event handler plays through.
// Without it sound events are ignored.
//
// Parameters:
//   - player: the sound backend
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithSoundPlayer(player SoundPlayer) SessionBuilderOption {
	return func(s *session) {
		s.soundPlayer = player
	}
}

// WithListener registers a sequence listener. Listeners added through options are notified
// after the event dispatcher, in option order.
//
// Parameters:
//   - listener: the listener to register
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithListener(listener SequenceListener) SessionBuilderOption {
	return func(s *session) {
		s.pendingListeners = append(s.pendingListeners, listener)
	}
}

// WithEventHandler registers a handler for a timeline event code.
//
// Parameters:
//   - code: the event code, e.g. studio.ScriptEventFireEvent
//   - handler: the handler
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithEventHandler(code int, handler EventHandler) SessionBuilderOption {
	return func(s *session) {
		s.pendingHandlers[code] = append(s.pendingHandlers[code], handler)
	}
}

// WithParallelEvaluation evaluates bone poses across a worker pool of the given size.
// Hierarchy composition stays sequential. Values below 2 keep evaluation on the calling goroutine.
//
// Parameters:
//   - workers: the number of pool workers
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithParallelEvaluation(workers int) SessionBuilderOption {
	return func(s *session) {
		s.evalWorkers = workers
	}
}

// WithWorkerPool evaluates bone poses on an existing pool, split into the given number of
// tasks per tick. The pool may be shared with other sessions.
//
// Parameters:
//   - pool: the worker pool
//   - tasks: the number of tasks each tick is split into
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithWorkerPool(pool worker.DynamicWorkerPool, tasks int) SessionBuilderOption {
	return func(s *session) {
		s.evalPool = pool
		s.evalWorkers = tasks
	}
}
