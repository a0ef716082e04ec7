// Package profiler times named pipeline stages and reports them, along with
// heap usage, through slog.
package profiler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Options configures the profiler.
type Options struct {
	// ReportInterval specifies how often to emit status reports while
	// running. Zero disables periodic reports.
	ReportInterval time.Duration
	// Logger receives the reports. Defaults to slog.Default().
	Logger *slog.Logger
}

// OperationStats summarises the recorded durations of one operation.
type OperationStats struct {
	Name  string        `json:"name"`
	Count int64         `json:"count"`
	Total time.Duration `json:"total"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Mean  time.Duration `json:"mean"`
}

// timeTracker tracks operation timing statistics.
type timeTracker struct {
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// Profiler collects operation timings from any number of goroutines.
type Profiler struct {
	reportInterval time.Duration
	logger         *slog.Logger

	mu         sync.Mutex
	startTime  time.Time
	operations map[string]*timeTracker
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a profiler with the specified options.
func New(opts Options) *Profiler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Profiler{
		reportInterval: opts.ReportInterval,
		logger:         logger,
		startTime:      time.Now(),
		operations:     make(map[string]*timeTracker),
	}
}

// Start begins periodic reporting until ctx is done or Stop is called.
// Calling Start on a running profiler does nothing.
func (p *Profiler) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil || p.reportInterval <= 0 {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.startTime = time.Now()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.reportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Report()
			}
		}
	}()
}

// Stop ends periodic reporting and waits for the reporter to exit.
func (p *Profiler) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		p.wg.Wait()
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
//   - name: The name of the operation to track
//
// Returns:
//   - A function to call when the operation completes
func (p *Profiler) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Record adds one duration to the named operation.
func (p *Profiler) Record(name string, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.operations[name]
	if !exists {
		tracker = &timeTracker{minTime: duration, maxTime: duration}
		p.operations[name] = tracker
	}

	tracker.totalTime += duration
	tracker.count++
	tracker.minTime = min(tracker.minTime, duration)
	tracker.maxTime = max(tracker.maxTime, duration)
}

// Snapshot returns the statistics of every operation, sorted by name.
func (p *Profiler) Snapshot() []OperationStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := make([]OperationStats, 0, len(p.operations))
	for name, t := range p.operations {
		stats = append(stats, OperationStats{
			Name:  name,
			Count: t.count,
			Total: t.totalTime,
			Min:   t.minTime,
			Max:   t.maxTime,
			Mean:  t.totalTime / time.Duration(t.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}

// Report logs the uptime, heap usage and every operation's timings.
func (p *Profiler) Report() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	p.mu.Lock()
	uptime := time.Since(p.startTime)
	p.mu.Unlock()

	p.logger.Info("profile",
		slog.Duration("uptime", uptime.Truncate(time.Millisecond)),
		slog.Int("goroutines", runtime.NumGoroutine()),
		slog.String("heap_alloc", formatBytes(mem.HeapAlloc)),
		slog.String("total_alloc", formatBytes(mem.TotalAlloc)),
		slog.Uint64("gc_cycles", uint64(mem.NumGC)),
	)
	for _, op := range p.Snapshot() {
		p.logger.Info("operation",
			slog.String("name", op.Name),
			slog.Int64("count", op.Count),
			slog.Duration("avg", op.Mean.Truncate(time.Microsecond)),
			slog.Duration("min", op.Min.Truncate(time.Microsecond)),
			slog.Duration("max", op.Max.Truncate(time.Microsecond)),
		)
	}
}

// formatBytes formats byte counts in human-readable format.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
