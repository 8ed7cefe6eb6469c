package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
	"github.com/Carmen-Shannon/oxy-spine/engine/controller"
	"github.com/Carmen-Shannon/oxy-spine/engine/loader"
	"github.com/Carmen-Shannon/oxy-spine/engine/profiler"
	"github.com/Carmen-Shannon/oxy-spine/engine/skeleton"
)

// engine implements the Engine interface.
// Drives the asset, skeleton and entity pipeline on a fixed-rate tick goroutine.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	stepMu  sync.Mutex // Serializes Step between the tick goroutine and callers
	mu      sync.Mutex // Guards settings and callbacks
	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	server   asset.Server
	resolver skeleton.Resolver
	spawner  controller.Spawner

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	readyCallback  func(ev controller.SpineReadyEvent)
}

// StepResult lists what changed during one Step.
type StepResult struct {
	Assets    []asset.Event
	Skeletons []skeleton.Event
	Ready     []controller.SpineReadyEvent
}

// Engine is the main entry point for the engine.
// Each tick applies finished asset loads, resolves skeleton data whose dependencies are loaded,
// creates controllers for entities whose skeleton data became ready, then runs game logic.
type Engine interface {
	// AssetServer returns the asset server.
	//
	// Returns:
	//   - asset.Server: the asset server
	AssetServer() asset.Server

	// Resolver returns the skeleton data resolver.
	//
	// Returns:
	//   - skeleton.Resolver: the resolver
	Resolver() skeleton.Resolver

	// Spawner returns the entity spawner.
	//
	// Returns:
	//   - controller.Spawner: the spawner
	Spawner() controller.Spawner

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called at the end of each tick.
	// Use this for game logic and input processing.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetReadyCallback registers the function called once for each entity whose controller was
	// created during a tick, before the tick callback.
	//
	// Parameters:
	//   - callback: function receiving the ready event
	SetReadyCallback(callback func(ev controller.SpineReadyEvent))

	// Step runs one pipeline pass: asset server update, resolver evaluation, spawner sync,
	// controller update, ready callbacks, then the tick callback.
	//
	// Parameters:
	//   - deltaTime: elapsed seconds since the previous step
	//
	// Returns:
	//   - StepResult: the changes made in this pass
	Step(deltaTime float32) StepResult

	// Run starts the fixed-rate tick loop and blocks until Quit is called.
	Run()

	// Quit signals the tick loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Without WithAssetServer the engine reads assets from the working directory with the Spine
// loaders registered; without WithResolver or WithSpawner it creates default ones.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.server == nil {
		e.server = asset.NewServer()
		if _, err := loader.Register(e.server); err != nil {
			log.Printf("[Engine] failed to register Spine loaders: %v", err)
		}
	}
	if e.resolver == nil {
		e.resolver = skeleton.NewResolver(skeleton.WithServer(e.server))
	}
	if e.spawner == nil {
		e.spawner = controller.NewSpawner()
	}

	return e
}

func (e *engine) AssetServer() asset.Server {
	return e.server
}

func (e *engine) Resolver() skeleton.Resolver {
	return e.resolver
}

func (e *engine) Spawner() controller.Spawner {
	return e.spawner
}

func (e *engine) Step(deltaTime float32) StepResult {
	e.stepMu.Lock()
	defer e.stepMu.Unlock()

	e.mu.Lock()
	tick, ready, profiling := e.tickCallback, e.readyCallback, e.profilingEnabled
	e.mu.Unlock()

	var res StepResult
	res.Assets = e.server.Update()
	res.Skeletons = e.resolver.Evaluate()
	res.Ready = e.spawner.Sync(res.Skeletons)
	e.spawner.Update(deltaTime)

	if ready != nil {
		for _, ev := range res.Ready {
			ready(ev)
		}
	}
	if tick != nil {
		tick(deltaTime)
	}

	if profiling && e.profiler != nil {
		e.profiler.Tick(e.pipelineStats())
	}
	return res
}

func (e *engine) pipelineStats() profiler.PipelineStats {
	assets := e.server.Stats()
	skeletons := e.resolver.Stats()
	return profiler.PipelineStats{
		AssetsLoading:     assets.Loading,
		AssetsLoaded:      assets.Loaded,
		AssetsFailed:      assets.Failed,
		SkeletonsPending:  skeletons.Pending,
		SkeletonsResolved: skeletons.Resolved,
		SkeletonsFailed:   skeletons.Failed,
		Entities:          len(e.spawner.Entities()),
	}
}

func (e *engine) Run() {
	e.handle()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the engine and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.wg.Add(2)
	go e.handleEngine()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Runs one Step at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	// Recover from panics inside the tick goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] tick goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.Step(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = true
	e.mu.Unlock()
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = false
	e.mu.Unlock()
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	if !running {
		e.engineTickRate = newRate
	}
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
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	e.tickCallback = callback
	e.mu.Unlock()
}

// SetReadyCallback registers the function called for each ready entity.
func (e *engine) SetReadyCallback(callback func(ev controller.SpineReadyEvent)) {
	e.mu.Lock()
	e.readyCallback = callback
	e.mu.Unlock()
}
