package main

import (
	"fmt"
	"log"

	"github.com/nvr-ai/go-blur/benchmark"
	"github.com/nvr-ai/go-blur/images"
)

// Example program to create and save benchmark scenarios
func main() {
	predefined := &benchmark.PredefinedScenarios{}

	quick := predefined.GetQuickScenarios()
	if err := benchmark.SaveScenarioSet(quick, "quick_scenarios.json"); err != nil {
		log.Fatalf("Failed to save quick scenarios: %v", err)
	}
	fmt.Printf("Saved %d quick scenarios\n", len(quick.Scenarios))

	sweep := predefined.GetSigmaSweepScenarios(images.Resolutions[images.ResolutionAlias1080p])
	if err := benchmark.SaveScenarioSet(sweep, "sigma_scenarios.json"); err != nil {
		log.Fatalf("Failed to save sigma scenarios: %v", err)
	}
	fmt.Printf("Saved %d sigma scenarios\n", len(sweep.Scenarios))

	resolutions := predefined.GetResolutionComparisonScenarios(5)
	if err := benchmark.SaveScenarioSet(resolutions, "resolution_scenarios.json"); err != nil {
		log.Fatalf("Failed to save resolution scenarios: %v", err)
	}
	fmt.Printf("Saved %d resolution scenarios\n", len(resolutions.Scenarios))

	// Create custom scenario using builder
	customScenario := benchmark.NewScenarioBuilder("custom_4k_luma_wide").
		WithResolution(images.Resolutions[images.ResolutionAlias4K]).
		WithChannels(1).
		WithSigma(50).
		WithIterations(10).
		WithWarmupRuns(2).
		Build()

	customSet := &benchmark.ScenarioSet{
		Name:        "Custom 4K Luma Test",
		Description: "Wide blur of single-channel 4K frames",
		Scenarios:   []benchmark.Scenario{customScenario},
	}
	if err := benchmark.SaveScenarioSet(customSet, "custom_scenarios.json"); err != nil {
		log.Fatalf("Failed to save custom scenarios: %v", err)
	}
	fmt.Printf("Saved %d custom scenarios\n", len(customSet.Scenarios))
}
