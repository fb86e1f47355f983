package engine

import (
	"github.com/Carmen-Shannon/oxy-mdl/engine/renderer/skinning"
	"github.com/go-gl/mathgl/mgl32"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickInterval(fps)
	}
}

// WithFixedDelta makes every tick advance the session by dt seconds regardless of wall time.
// Useful for deterministic playback and offline processing.
//
// Parameters:
//   - dt: the simulated seconds per tick; values <= 0 restore wall-clock deltas
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFixedDelta(dt float32) EngineBuilderOption {
	return func(e *engine) {
		e.fixedDelta = dt
	}
}

// WithMaxTicks makes the engine quit by itself after n ticks.
//
// Parameters:
//   - n: the number of ticks to run; 0 runs until Quit
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxTicks(n int) EngineBuilderOption {
	return func(e *engine) {
		e.maxTicks = n
	}
}

// WithTickCallback registers the function called after each tick.
//
// Parameters:
//   - callback: function receiving the tick's delta time and absolute bone transforms
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback func(deltaTime float32, transforms []mgl32.Mat4)) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}

// WithSkinningPalette attaches a palette that is updated from the session after every tick.
// When gpu is non-nil the palette is also uploaded through it after every tick.
//
// Parameters:
//   - palette: the palette to keep current
//   - gpu: the GPU writer to upload through, normally a renderer.Renderer; may be nil
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSkinningPalette(palette skinning.SkinningPalette, gpu skinning.GPUWriter) EngineBuilderOption {
	return func(e *engine) {
		e.palette = palette
		e.gpu = gpu
	}
}
