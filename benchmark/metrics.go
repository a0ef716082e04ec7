// Package benchmark runs repeatable Gaussian blur throughput scenarios over
// synthetic or recorded frames.
package benchmark

import "time"

// PerformanceMetrics captures detailed performance data for one scenario.
type PerformanceMetrics struct {
	Scenario            Scenario      `json:"scenario"`
	Timestamp           time.Time     `json:"timestamp"`
	Frames              int           `json:"frames"`
	TotalDuration       time.Duration `json:"total_duration"`
	MeanFrameDuration   time.Duration `json:"mean_frame_duration"`
	MinFrameDuration    time.Duration `json:"min_frame_duration"`
	MaxFrameDuration    time.Duration `json:"max_frame_duration"`
	FramesPerSecond     float64       `json:"frames_per_second"`
	MegaPixelsPerSecond float64       `json:"megapixels_per_second"`
	Boxes               []int         `json:"boxes"`
	MemoryStats         MemoryMetrics `json:"memory_stats"`
	CPUStats            CPUMetrics    `json:"cpu_stats"`
}

// MemoryMetrics captures memory usage statistics
type MemoryMetrics struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	SysBytes        uint64 `json:"sys_bytes"`
	NumGC           uint32 `json:"num_gc"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
	HeapSysBytes    uint64 `json:"heap_sys_bytes"`
}

// CPUMetrics captures CPU usage statistics
type CPUMetrics struct {
	NumCPU     int `json:"num_cpu"`
	GOMAXPROCS int `json:"gomaxprocs"`
}

// frameTimer accumulates per-frame durations and pixel counts.
type frameTimer struct {
	count         int
	pixels        int64
	total, lo, hi time.Duration
}

func (t *frameTimer) add(d time.Duration, pixels int) {
	t.pixels += int64(pixels)
	if t.count == 0 || d < t.lo {
		t.lo = d
	}
	if d > t.hi {
		t.hi = d
	}
	t.total += d
	t.count++
}

// fill copies the accumulated timings into m.
func (t *frameTimer) fill(m *PerformanceMetrics) {
	m.Frames = t.count
	m.TotalDuration = t.total
	m.MinFrameDuration = t.lo
	m.MaxFrameDuration = t.hi
	if t.count == 0 || t.total <= 0 {
		return
	}
	m.MeanFrameDuration = t.total / time.Duration(t.count)
	seconds := t.total.Seconds()
	m.FramesPerSecond = float64(t.count) / seconds
	m.MegaPixelsPerSecond = float64(t.pixels) / 1e6 / seconds
}
