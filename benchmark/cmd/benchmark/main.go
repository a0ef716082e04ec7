package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nvr-ai/go-blur/benchmark"
	"github.com/nvr-ai/go-blur/images"
)

func main() {
	var (
		configFile   = flag.String("config", "", "Path to benchmark configuration file")
		scenarioFile = flag.String("scenarios", "", "Path to scenario configuration file")
		outputDir    = flag.String("output", "", "Output directory for results (default ./benchmark_results)")
		testImages   = flag.String("images", "", "Directory of frames to blur instead of synthetic noise")
		resolution   = flag.String("resolution", string(images.ResolutionAliasVGA), "Resolution alias for the sweep scenarios")
		quick        = flag.Bool("quick", false, "Run quick benchmark scenarios")
		sigmas       = flag.Bool("sigmas", false, "Sweep sigma at one resolution")
		resolutions  = flag.Bool("resolutions", false, "Compare every known resolution")
		channels     = flag.Bool("channels", false, "Compare 1 to 4 channels")
		timeout      = flag.Duration("timeout", 0, "Benchmark timeout duration (default from config)")
		verbose      = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	images.SetLogger(logger)

	config := benchmark.DefaultConfig()
	if *configFile != "" {
		var err error
		config, err = benchmark.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *outputDir != "" {
		config.OutputDir = *outputDir
	}
	if *testImages != "" {
		config.ImagesPath = *testImages
	}
	if *timeout > 0 {
		config.TimeoutSeconds = int(timeout.Seconds())
	}

	res, err := images.GetResolution(images.ResolutionAlias(*resolution))
	if err != nil {
		log.Fatalf("Invalid resolution: %v", err)
	}

	suite := benchmark.NewSuite(benchmark.NewSuiteArgs{
		OutputPath: config.OutputDir,
		Logger:     logger,
	})
	if config.ImagesPath != "" {
		if err := suite.LoadCorpus(config.ImagesPath, config.MaxFrames); err != nil {
			log.Fatalf("Failed to load images: %v", err)
		}
	}

	predefined := &benchmark.PredefinedScenarios{}
	add := func(set *benchmark.ScenarioSet) {
		for _, scenario := range set.Scenarios {
			suite.AddScenario(scenario)
		}
		fmt.Printf("Added %d scenarios: %s\n", len(set.Scenarios), set.Name)
	}

	if *scenarioFile != "" {
		scenarioSet, err := benchmark.LoadScenarioSet(*scenarioFile)
		if err != nil {
			log.Fatalf("Failed to load scenario file: %v", err)
		}
		add(scenarioSet)
	} else {
		if *quick {
			add(predefined.GetQuickScenarios())
		}
		if *sigmas {
			set := predefined.GetSigmaSweepScenarios(res)
			if len(config.Sigmas) > 0 {
				set = sweepWithSigmas(set, config.Sigmas)
			}
			add(set)
		}
		if *resolutions {
			add(predefined.GetResolutionComparisonScenarios(benchmark.SweepSigmas[0]))
		}
		if *channels {
			add(predefined.GetChannelComparisonScenarios(res, benchmark.SweepSigmas[0]))
		}

		// If no specific scenarios requested, use quick by default
		if !*quick && !*sigmas && !*resolutions && !*channels {
			add(predefined.GetQuickScenarios())
		}
	}

	ctx, cancel := config.WithTimeout(context.Background())
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting benchmark execution...")
	start := time.Now()

	if err := suite.RunAllScenarios(ctx); err != nil {
		log.Printf("Benchmark execution failed: %v", err)
	}

	fmt.Printf("Benchmark completed in %v\n", time.Since(start))

	results := suite.GetResults()
	fmt.Printf("\n=== BENCHMARK RESULTS SUMMARY ===\n")
	fmt.Printf("Total scenarios: %d\n", len(results))
	fmt.Printf("Results saved to: %s\n", config.OutputDir)

	var best benchmark.PerformanceMetrics
	for _, result := range results {
		if result.MegaPixelsPerSecond > best.MegaPixelsPerSecond {
			best = result
		}
		fmt.Printf("  %-28s %8.2f FPS %9.2f MP/s  boxes=%v\n",
			result.Scenario.Name,
			result.FramesPerSecond,
			result.MegaPixelsPerSecond,
			result.Boxes)
	}
	if len(results) > 0 {
		fmt.Printf("\nHighest throughput: %s (%.2f MP/s)\n", best.Scenario.Name, best.MegaPixelsPerSecond)
	}
}

// sweepWithSigmas rebuilds a sigma sweep with the configured sigmas.
func sweepWithSigmas(set *benchmark.ScenarioSet, sigmas []float32) *benchmark.ScenarioSet {
	template := set.Scenarios[0]
	scenarios := make([]benchmark.Scenario, 0, len(sigmas))
	for _, sigma := range sigmas {
		s := template
		s.Sigma = sigma
		s.Name = fmt.Sprintf("sigma_%g_%s", sigma, template.Resolution.Alias)
		scenarios = append(scenarios, s)
	}
	set.Scenarios = scenarios
	return set
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "Benchmark tool for Gaussian blur throughput.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -quick\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  %s -sigmas -resolution 1080p -images ./frames\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  %s -config ./benchmark_config.json -scenarios ./scenarios.json\n", filepath.Base(os.Args[0]))
	}
}
