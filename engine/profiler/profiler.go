package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting window of the Profiler.
type Stats struct {
	TicksPerSecond float64
	Loops          int
	Switches       int
	AvgTick        time.Duration // mean time spent evaluating and publishing a tick
	MaxTick        time.Duration
	HeapMB         float64
	AllocRateMB    float64 // MB allocated per second over the window
	SysMB          float64
	GCCount        uint32
	LastPauseUs    uint64
	MaxPauseUs     uint64
}

// Profiler tracks tick rate, tick cost, animation loop counts and memory statistics of a
// running engine. Outputs one log line per reporting window.
type Profiler struct {
	updateInterval time.Duration
	windowStart    time.Time

	ticks    int
	loops    int
	switches int
	work     time.Duration
	maxWork  time.Duration

	totalTicks int
	totalLoops int

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		updateInterval: time.Second,
		windowStart:    time.Now(),
	}
}

// SetUpdateInterval changes how often statistics are logged.
//
// Parameters:
//   - interval: the minimum time between two log lines
func (p *Profiler) SetUpdateInterval(interval time.Duration) {
	p.updateInterval = interval
}

// RecordLoop counts one completed pass through a sequence.
func (p *Profiler) RecordLoop() {
	p.loops++
	p.totalLoops++
}

// RecordSequenceChange counts one sequence switch.
func (p *Profiler) RecordSequenceChange() {
	p.switches++
}

// TotalTicks returns the number of ticks recorded since creation.
func (p *Profiler) TotalTicks() int {
	return p.totalTicks
}

// TotalLoops returns the number of sequence loops recorded since creation.
func (p *Profiler) TotalLoops() int {
	return p.totalLoops
}

// Last returns the statistics of the most recently reported window.
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick records one engine tick that took work to evaluate and publish. When the update
// interval has elapsed the window is summarized, logged and reset.
//
// Parameters:
//   - work: the time the tick spent evaluating the pose and publishing it
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(work time.Duration) bool {
	p.ticks++
	p.totalTicks++
	p.work += work
	p.maxWork = max(p.maxWork, work)

	now := time.Now()
	elapsed := now.Sub(p.windowStart)
	if elapsed < p.updateInterval {
		return false
	}

	p.last = p.summarize(max(elapsed.Seconds(), 1e-9))
	log.Printf("[Profiler] TPS: %.2f | Tick: %v avg, %v max | Loops: %d | Switches: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		p.last.TicksPerSecond, p.last.AvgTick, p.last.MaxTick, p.last.Loops, p.last.Switches,
		p.last.HeapMB, p.last.AllocRateMB, p.last.GCCount, p.last.LastPauseUs, p.last.MaxPauseUs, p.last.SysMB)

	p.ticks, p.loops, p.switches = 0, 0, 0
	p.work, p.maxWork = 0, 0
	p.windowStart = now
	return true
}

// summarize builds the Stats of the current window, which lasted seconds.
func (p *Profiler) summarize(seconds float64) Stats {
	const mb = 1024 * 1024
	runtime.ReadMemStats(&p.memStats)

	s := Stats{
		TicksPerSecond: float64(p.ticks) / seconds,
		Loops:          p.loops,
		Switches:       p.switches,
		AvgTick:        p.work / time.Duration(max(p.ticks, 1)),
		MaxTick:        p.maxWork,
		HeapMB:         float64(p.memStats.Alloc) / mb,
		AllocRateMB:    float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / mb / seconds,
		SysMB:          float64(p.memStats.Sys) / mb,
		GCCount:        p.memStats.NumGC,
	}

	// PauseNs is a ring of the last 256 pauses.
	if n := s.GCCount; n > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(n-1)%256] / 1000
		from := p.lastGCCount
		if n-from > 256 {
			from = n - 256
		}
		for i := from; i < n; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s
}
