package engine

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-mdl/engine/animation"
	"github.com/Carmen-Shannon/oxy-mdl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mdl/engine/renderer/skinning"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrEngineStopped is returned by Submit once the engine has quit.
var ErrEngineStopped = errors.New("engine: stopped")

// engineState tracks the lifecycle of the tick loop.
type engineState int

const (
	stateIdle engineState = iota
	stateRunning
	stateStopped
)

// command is a function queued for execution on the tick goroutine.
type command struct {
	fn   func(animation.Session)
	done chan struct{}
}

// engine implements the Engine interface.
// Owns an animation session and advances it from a single fixed-rate tick goroutine.
type engine struct {
	mu    sync.Mutex
	state engineState

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	commandChannel  chan command

	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	session animation.Session
	palette skinning.SkinningPalette
	gpu     skinning.GPUWriter

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	fixedDelta     float32
	maxTicks       int
	ticks          int
	tickCallback   func(deltaTime float32, transforms []mgl32.Mat4)
}

// Engine is the headless player for one animation session.
//
// A single goroutine ticks the session at a fixed rate. Because a Session is not safe for
// concurrent use, every other goroutine talks to it through Submit, which runs a function on
// the tick goroutine between two ticks. When a skinning palette is attached the engine updates
// it after every tick and uploads it through the attached GPU writer.
type Engine interface {
	// Session returns the session the engine drives. While the engine is running, only touch
	// it from inside Submit or the tick callback.
	//
	// Returns:
	//   - animation.Session: the session
	Session() animation.Session

	// Palette returns the attached skinning palette, or nil.
	//
	// Returns:
	//   - skinning.SkinningPalette: the palette or nil
	Palette() skinning.SkinningPalette

	// Profiler returns the engine's profiler.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called after each tick with the tick's delta time
	// and the freshly evaluated absolute transforms. The slice is reused by the next tick.
	// Must be called before Start.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate
	SetTickCallback(callback func(deltaTime float32, transforms []mgl32.Mat4))

	// Submit runs fn against the session on the tick goroutine and waits for it to finish.
	// Before Start, fn runs on the calling goroutine.
	//
	// Parameters:
	//   - fn: the function to run
	//
	// Returns:
	//   - error: ErrEngineStopped if the engine has quit
	Submit(fn func(animation.Session)) error

	// Start launches the tick goroutine and returns immediately.
	Start()

	// Run starts the engine and blocks until it quits.
	Run()

	// Wait blocks until the tick goroutine has exited.
	Wait()

	// Quit signals the tick goroutine to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Ticks returns the number of ticks run so far. Only meaningful after Wait.
	//
	// Returns:
	//   - int: the tick count
	Ticks() int
}

var _ Engine = &engine{}

// NewEngine creates a new Engine that plays session.
// Panics if session is nil.
//
// Parameters:
//   - session: the animation session to drive
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(session animation.Session, options ...EngineBuilderOption) Engine {
	if session == nil {
		panic("engine: NewEngine requires a session")
	}

	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		commandChannel:   make(chan command),
		quitChannel:      make(chan struct{}),
		wg:               sync.WaitGroup{},
		session:          session,
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	session.AddListener(animation.SequenceListenerFuncs{
		Changed: func(_, _ *studio.Sequence) {
			e.profiler.RecordSequenceChange()
		},
		Finished: func(_ *studio.Sequence) {
			e.profiler.RecordLoop()
		},
	})

	return e
}

func (e *engine) Session() animation.Session {
	return e.session
}

func (e *engine) Palette() skinning.SkinningPalette {
	return e.palette
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateIdle {
		return
	}
	e.state = stateRunning
	e.wg.Add(1)
	go e.handleEngine()
}

func (e *engine) Run() {
	e.Start()
	e.Wait()
}

func (e *engine) Wait() {
	e.wg.Wait()
}

// Quit signals the tick goroutine to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal the tick goroutine to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.state = stateStopped
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

func (e *engine) Submit(fn func(animation.Session)) error {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()

	switch state {
	case stateIdle:
		fn(e.session)
		return nil
	case stateStopped:
		return ErrEngineStopped
	}

	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case e.commandChannel <- cmd:
	case <-e.quitChannel:
		return ErrEngineStopped
	}
	<-cmd.done
	return nil
}

func (e *engine) Ticks() int {
	return e.ticks
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Ticks the session at the configured rate, runs submitted commands between ticks and listens
// for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Player] tick goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case cmd := <-e.commandChannel:
			func() {
				defer close(cmd.done)
				cmd.fn(e.session)
			}()
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			if e.fixedDelta > 0 {
				dt = e.fixedDelta
			}

			e.tick(dt)

			if e.maxTicks > 0 && e.ticks >= e.maxTicks {
				e.signalQuit()
				return
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// tick advances the session once and publishes the result.
func (e *engine) tick(dt float32) {
	start := time.Now()
	transforms := e.session.Tick(dt)
	e.ticks++

	if e.palette != nil {
		if err := e.palette.Update(transforms); err != nil {
			log.Printf("[Player] %v", err)
		} else {
			e.palette.SetPlayhead(e.session.SequenceIndex(), e.session.Frame())
			if e.gpu != nil {
				e.palette.Upload(e.gpu)
			}
		}
	}

	if e.tickCallback != nil {
		e.tickCallback(dt, transforms)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(time.Since(start))
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	e.mu.Lock()
	running := e.state == stateRunning
	e.mu.Unlock()

	if running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32, transforms []mgl32.Mat4)) {
	e.tickCallback = callback
}

// tickInterval converts a tick rate to a ticker period, defaulting to 60Hz.
func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
