package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-surface/common"
)

// Profiler tracks presented-frame rate and memory statistics for one render thread.
// Outputs stats to the engine logger at a configurable interval.
// A Profiler is only ticked from its render goroutine and is not safe for concurrent use.
type Profiler struct {
	name           string
	frameCount     int
	totalFrames    uint64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastFPS        float64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - name: label attached to every logged sample (for example the view name)
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(name string) *Profiler {
	return &Profiler{
		name:           name,
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetInterval changes how often statistics are logged.
// Non-positive values are ignored.
//
// Parameters:
//   - d: the new logging interval
func (p *Profiler) SetInterval(d time.Duration) {
	if d > 0 {
		p.updateInterval = d
	}
}

// Tick should be called once per presented frame.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	p.totalFrames++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap. TotalAlloc: cumulative (tracks churn). Sys: process footprint.
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	common.Logger().Info("profiler",
		slog.String("name", p.name),
		slog.Float64("fps", fps),
		slog.Float64("heap_mb", allocMB),
		slog.Float64("alloc_rate_mb_s", allocRateMB),
		slog.Uint64("gc", uint64(gcCount)),
		slog.Uint64("gc_last_us", lastPauseUs),
		slog.Uint64("gc_max_us", maxPauseUs),
		slog.Float64("sys_mb", sysMB),
	)

	p.lastFPS = fps
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// FPS returns the frame rate measured over the last completed interval.
//
// Returns:
//   - float64: frames per second, 0 before the first interval completes
func (p *Profiler) FPS() float64 {
	return p.lastFPS
}

// Frames returns the total number of ticks since creation.
//
// Returns:
//   - uint64: total ticked frames
func (p *Profiler) Frames() uint64 {
	return p.totalFrames
}
