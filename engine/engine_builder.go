package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
	"github.com/Carmen-Shannon/oxy-spine/engine/controller"
	"github.com/Carmen-Shannon/oxy-spine/engine/profiler"
	"github.com/Carmen-Shannon/oxy-spine/engine/skeleton"
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

// WithProfiler sets the profiler used when profiling is enabled.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
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
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithAssetServer sets the asset server the engine updates each tick. The server should have
// the Spine loaders registered.
//
// Parameters:
//   - s: the asset server
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAssetServer(s asset.Server) EngineBuilderOption {
	return func(e *engine) {
		e.server = s
	}
}

// WithResolver sets the skeleton data resolver evaluated each tick.
//
// Parameters:
//   - r: the resolver
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithResolver(r skeleton.Resolver) EngineBuilderOption {
	return func(e *engine) {
		e.resolver = r
	}
}

// WithSpawner sets the spawner synced each tick.
//
// Parameters:
//   - s: the spawner
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSpawner(s controller.Spawner) EngineBuilderOption {
	return func(e *engine) {
		e.spawner = s
	}
}

// WithTickCallback registers the function called at the end of each tick.
//
// Parameters:
//   - callback: the tick callback
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}
