package benchmark

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-blur/images"
	"github.com/nvr-ai/go-blur/images/kernels"
	"github.com/nvr-ai/go-blur/util"
)

// Suite manages and executes benchmark scenarios.
type Suite struct {
	scenarios []Scenario
	outputDir string
	corpus    []image.Image
	logger    *slog.Logger
	mu        sync.RWMutex
	results   []PerformanceMetrics
}

// NewSuiteArgs represents the arguments for creating a new benchmark suite.
type NewSuiteArgs struct {
	// OutputPath is the directory SaveResults writes to.
	OutputPath string `json:"outputPath" yaml:"outputPath"`
	// Logger receives progress records. Defaults to images.Logger().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// NewSuite creates a new benchmark suite.
//
// Arguments:
//   - args: The arguments for creating a new benchmark suite.
//
// Returns:
//   - *Suite: The benchmark suite.
func NewSuite(args NewSuiteArgs) *Suite {
	logger := args.Logger
	if logger == nil {
		logger = images.Logger()
	}
	return &Suite{
		outputDir: args.OutputPath,
		logger:    logger,
		scenarios: make([]Scenario, 0),
		results:   make([]PerformanceMetrics, 0),
	}
}

// AddScenario adds a scenario to the benchmark suite.
func (bs *Suite) AddScenario(scenario Scenario) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.scenarios = append(bs.scenarios, scenario)
}

// LoadCorpus decodes up to maxFrames images from dir. Scenarios then blur
// these frames, fitted to their resolution, instead of synthetic noise.
// maxFrames <= 0 loads every image.
func (bs *Suite) LoadCorpus(dir string, maxFrames int) error {
	files, err := util.LoadDirectoryImageFiles(dir)
	if err != nil {
		return err
	}
	if maxFrames > 0 && len(files) > maxFrames {
		files = files[:maxFrames]
	}

	corpus := make([]image.Image, 0, len(files))
	for _, file := range files {
		img, err := images.Decode(file.Data)
		if err != nil {
			bs.logger.Warn("skipping corpus file", slog.String("path", file.Path), slog.Any("error", err))
			continue
		}
		corpus = append(corpus, img.Raster)
	}
	if len(corpus) == 0 {
		return errors.Errorf("no decodable images found in directory: %s", dir)
	}

	bs.mu.Lock()
	bs.corpus = corpus
	bs.mu.Unlock()
	return nil
}

// frames returns the rasters a scenario blurs.
func (bs *Suite) frames(scenario Scenario) []frame {
	bs.mu.RLock()
	corpus := bs.corpus
	bs.mu.RUnlock()

	if len(corpus) == 0 {
		return []frame{syntheticFrame(scenario.Resolution, scenario.Channels, 1)}
	}
	frames := make([]frame, 0, len(corpus))
	for _, img := range corpus {
		fitted := images.Fit(img, scenario.Resolution.Pixels.Width, scenario.Resolution.Pixels.Height)
		frames = append(frames, packFrame(fitted, scenario.Channels))
	}
	return frames
}

// RunScenario executes a single benchmark scenario. Cancelling ctx stops it
// between frames.
func (bs *Suite) RunScenario(ctx context.Context, scenario Scenario) (*PerformanceMetrics, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	frames := bs.frames(scenario)

	switch scenario.Channels {
	case 1:
		return runScenario[kernels.Luma](ctx, scenario, frames)
	case 2:
		return runScenario[kernels.LumaAlpha](ctx, scenario, frames)
	case 3:
		return runScenario[kernels.RGB](ctx, scenario, frames)
	default:
		return runScenario[kernels.RGBA](ctx, scenario, frames)
	}
}

func runScenario[P kernels.Pixel](ctx context.Context, scenario Scenario, frames []frame) (*PerformanceMetrics, error) {
	sources := make([][]P, len(frames))
	largest := 0
	for i, f := range frames {
		pixels, err := kernels.FromByteSlice[P](f.pix)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario %s", scenario.Name)
		}
		sources[i] = pixels
		largest = max(largest, len(pixels))
	}
	work := make([]P, largest)

	blurFrame := func(i int) (time.Duration, int) {
		f := frames[i%len(frames)]
		buf := work[:len(sources[i%len(frames)])]
		copy(buf, sources[i%len(frames)])

		start := time.Now()
		kernels.GaussianBlur(buf, f.width, f.height, scenario.Sigma)
		return time.Since(start), f.width * f.height
	}

	metrics := &PerformanceMetrics{
		Scenario:  scenario,
		Timestamp: time.Now(),
		Boxes:     kernels.PlanBoxes[P](scenario.Sigma),
	}

	// Warmup runs
	for i := 0; i < scenario.WarmupRuns; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "scenario %s", scenario.Name)
		}
		blurFrame(i)
	}

	var startMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&startMem)

	var timer frameTimer
	for i := 0; i < scenario.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "scenario %s", scenario.Name)
		}
		timer.add(blurFrame(i))
	}

	var endMem runtime.MemStats
	runtime.ReadMemStats(&endMem)

	timer.fill(metrics)
	metrics.MemoryStats = MemoryMetrics{
		AllocBytes:      endMem.Alloc,
		TotalAllocBytes: endMem.TotalAlloc - startMem.TotalAlloc,
		SysBytes:        endMem.Sys,
		NumGC:           endMem.NumGC - startMem.NumGC,
		HeapAllocBytes:  endMem.HeapAlloc,
		HeapSysBytes:    endMem.HeapSys,
	}
	metrics.CPUStats = CPUMetrics{
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}

	return metrics, nil
}

// RunAllScenarios executes all configured scenarios in order and saves the
// results. A failing scenario is logged and skipped; cancellation stops the
// run and saves what completed.
func (bs *Suite) RunAllScenarios(ctx context.Context) error {
	bs.mu.RLock()
	scenarios := make([]Scenario, len(bs.scenarios))
	copy(scenarios, bs.scenarios)
	bs.mu.RUnlock()

	var runErr error
	for _, scenario := range scenarios {
		metrics, err := bs.RunScenario(ctx, scenario)
		if ctx.Err() != nil {
			runErr = errors.Wrap(ctx.Err(), "benchmark interrupted")
			break
		}
		if err != nil {
			bs.logger.Error("scenario failed", slog.String("scenario", scenario.Name), slog.Any("error", err))
			continue
		}

		bs.mu.Lock()
		bs.results = append(bs.results, *metrics)
		bs.mu.Unlock()

		bs.logger.Info("scenario completed",
			slog.String("scenario", scenario.Name),
			slog.Float64("fps", metrics.FramesPerSecond),
			slog.Float64("mpps", metrics.MegaPixelsPerSecond),
		)
	}

	if err := bs.SaveResults(); err != nil {
		return err
	}
	return runErr
}

// SaveResults writes the results as a timestamped JSON file and a CSV
// summary into the output directory.
func (bs *Suite) SaveResults() error {
	results := bs.GetResults()

	if err := os.MkdirAll(bs.outputDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	resultsFile := filepath.Join(bs.outputDir, fmt.Sprintf("benchmark_results_%s.json", timestamp))

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal results")
	}
	if err := os.WriteFile(resultsFile, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write results file")
	}

	summaryFile := filepath.Join(bs.outputDir, fmt.Sprintf("benchmark_summary_%s.csv", timestamp))
	if err := saveSummaryCSV(summaryFile, results); err != nil {
		return errors.Wrap(err, "failed to save summary CSV")
	}

	bs.logger.Info("results saved", slog.String("results", resultsFile), slog.String("summary", summaryFile))
	return nil
}

func saveSummaryCSV(filename string, results []PerformanceMetrics) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{
		"Scenario", "Resolution", "Channels", "Sigma", "Frames", "FPS", "MPixels_per_s",
		"Mean_Frame_ms", "Total_Duration_ms", "Alloc_MB",
	}); err != nil {
		return err
	}

	for _, r := range results {
		if err := w.Write([]string{
			r.Scenario.Name,
			fmt.Sprintf("%dx%d", r.Scenario.Resolution.Pixels.Width, r.Scenario.Resolution.Pixels.Height),
			strconv.Itoa(r.Scenario.Channels),
			strconv.FormatFloat(float64(r.Scenario.Sigma), 'g', -1, 32),
			strconv.Itoa(r.Frames),
			fmt.Sprintf("%.2f", r.FramesPerSecond),
			fmt.Sprintf("%.2f", r.MegaPixelsPerSecond),
			fmt.Sprintf("%.3f", float64(r.MeanFrameDuration.Nanoseconds())/1e6),
			fmt.Sprintf("%.2f", float64(r.TotalDuration.Nanoseconds())/1e6),
			fmt.Sprintf("%.2f", float64(r.MemoryStats.AllocBytes)/(1024*1024)),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// GetResults returns all benchmark results.
func (bs *Suite) GetResults() []PerformanceMetrics {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	results := make([]PerformanceMetrics, len(bs.results))
	copy(results, bs.results)
	return results
}
