package profiler

import (
	"log"
	"runtime"
	"time"
)

// PipelineStats is a snapshot of the asset and skeleton pipeline reported with each log line.
type PipelineStats struct {
	AssetsLoading     int
	AssetsLoaded      int
	AssetsFailed      int
	SkeletonsPending  int
	SkeletonsResolved int
	SkeletonsFailed   int
	Entities          int
}

// Profiler tracks tick rate, pipeline counts and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	tickCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	logger         *log.Logger
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		tickCount:      0,
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
		logger:         log.Default(),
	}
}

// SetInterval sets how often statistics are logged. Values <= 0 are ignored.
func (p *Profiler) SetInterval(d time.Duration) {
	if d > 0 {
		p.updateInterval = d
	}
}

// SetLogger sets the logger statistics are written to.
func (p *Profiler) SetLogger(l *log.Logger) {
	if l != nil {
		p.logger = l
	}
}

// Tick should be called once per engine tick.
// Logs statistics when the update interval has elapsed: ticks per second, the pipeline
// snapshot, heap usage, allocation rate and GC count/pause times.
//
// Parameters:
//   - stats: the current pipeline snapshot
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats PipelineStats) bool {
	p.tickCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	tps := float64(p.tickCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
	}

	p.logger.Printf("[Profiler] TPS: %.2f | Assets: %d loaded, %d loading, %d failed | Skeletons: %d resolved, %d pending, %d failed | Entities: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs)",
		tps, stats.AssetsLoaded, stats.AssetsLoading, stats.AssetsFailed,
		stats.SkeletonsResolved, stats.SkeletonsPending, stats.SkeletonsFailed, stats.Entities,
		allocMB, allocRateMB, gcCount, lastPauseUs)

	p.tickCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
