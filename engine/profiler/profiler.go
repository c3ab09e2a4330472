package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-xr/engine/logger"
)

// Stats is one report produced by the Profiler.
type Stats struct {
	// FPS is the number of ticks per second over the last interval.
	FPS float64

	// Memory figures, only filled when memory statistics are enabled.
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// Profiler measures the frame rate and, optionally, memory statistics over a fixed interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time

	memStatsEnabled bool
	memStats        runtime.MemStats
	lastGCCount     uint32
	lastTotalAlloc  uint64
}

// NewProfiler creates a Profiler with a one second interval, the wall clock and memory statistics off.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per presented frame. Once more than the update interval has passed
// since the last report, it returns a new report and starts the next interval.
//
// Returns:
//   - Stats: the report, valid only when the bool is true
//   - bool: true if a report was produced this tick
func (p *Profiler) Tick() (Stats, bool) {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed <= p.updateInterval {
		return Stats{}, false
	}

	stats := Stats{FPS: float64(p.frameCount) / elapsed.Seconds()}
	if p.memStatsEnabled {
		p.readMemStats(&stats, elapsed)
		logger.Debug("profiler",
			"fps", stats.FPS,
			"heap_mb", stats.HeapMB,
			"alloc_rate_mb", stats.AllocRateMB,
			"gc", stats.GCCount,
			"last_pause_us", stats.LastPauseUs,
			"max_pause_us", stats.MaxPauseUs,
			"sys_mb", stats.SysMB,
		)
	}

	p.frameCount = 0
	p.lastTime = currentTime
	return stats, true
}

func (p *Profiler) readMemStats(stats *Stats, elapsed time.Duration) {
	runtime.ReadMemStats(&p.memStats)
	stats.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	stats.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	stats.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 pauses.
	gcCount := p.memStats.NumGC
	if gcCount > 0 {
		stats.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			stats.MaxPauseUs = max(stats.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}
	stats.GCCount = gcCount

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}
