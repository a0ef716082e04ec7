package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-blur/images"
)

// Scenario defines one blur configuration to time.
type Scenario struct {
	Name       string            `json:"name"`
	Resolution images.Resolution `json:"resolution"`
	// Channels is the interleaved channel count, 1 to 4.
	Channels   int     `json:"channels"`
	Sigma      float32 `json:"sigma"`
	Iterations int     `json:"iterations"`
	WarmupRuns int     `json:"warmup_runs"`
}

// Validate reports scenarios that cannot run.
func (s Scenario) Validate() error {
	switch {
	case s.Channels < 1 || s.Channels > 4:
		return errors.Errorf("scenario %s: channels must be 1..4, got %d", s.Name, s.Channels)
	case s.Resolution.Pixels.Width <= 0 || s.Resolution.Pixels.Height <= 0:
		return errors.Errorf("scenario %s: invalid resolution %dx%d",
			s.Name, s.Resolution.Pixels.Width, s.Resolution.Pixels.Height)
	case s.Iterations <= 0:
		return errors.Errorf("scenario %s: iterations must be positive", s.Name)
	case s.WarmupRuns < 0:
		return errors.Errorf("scenario %s: warmup runs must not be negative", s.Name)
	}
	return nil
}

// ScenarioBuilder helps build scenarios with a fluent API.
type ScenarioBuilder struct {
	scenario Scenario
}

// NewScenarioBuilder creates a builder for an RGB 1080p scenario at sigma 1.5.
func NewScenarioBuilder(name string) *ScenarioBuilder {
	return &ScenarioBuilder{
		scenario: Scenario{
			Name:       name,
			Resolution: images.Resolutions[images.ResolutionAlias1080p],
			Channels:   3,
			Sigma:      1.5,
			Iterations: 100,
			WarmupRuns: 10,
		},
	}
}

// WithResolution sets the frame size.
func (sb *ScenarioBuilder) WithResolution(res images.Resolution) *ScenarioBuilder {
	sb.scenario.Resolution = res
	return sb
}

// WithSize sets a custom frame size.
func (sb *ScenarioBuilder) WithSize(width, height int) *ScenarioBuilder {
	sb.scenario.Resolution = images.Resolution{
		Name:   fmt.Sprintf("%dx%d", width, height),
		Pixels: images.Pixels{Width: width, Height: height},
	}
	return sb
}

// WithChannels sets the channel count.
func (sb *ScenarioBuilder) WithChannels(channels int) *ScenarioBuilder {
	sb.scenario.Channels = channels
	return sb
}

// WithSigma sets the blur standard deviation.
func (sb *ScenarioBuilder) WithSigma(sigma float32) *ScenarioBuilder {
	sb.scenario.Sigma = sigma
	return sb
}

// WithIterations sets the number of timed iterations.
func (sb *ScenarioBuilder) WithIterations(iterations int) *ScenarioBuilder {
	sb.scenario.Iterations = iterations
	return sb
}

// WithWarmupRuns sets the number of untimed warmup runs.
func (sb *ScenarioBuilder) WithWarmupRuns(warmups int) *ScenarioBuilder {
	sb.scenario.WarmupRuns = warmups
	return sb
}

// Build returns the configured scenario.
func (sb *ScenarioBuilder) Build() Scenario {
	return sb.scenario
}

// ScenarioSet represents a collection of related scenarios.
type ScenarioSet struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Scenarios   []Scenario `json:"scenarios"`
}

// SweepSigmas are the standard deviations timed by the sigma sweep: a small
// kernel, a medium one and one wide enough to cover most of a VGA frame.
var SweepSigmas = []float32{1.5, 20, 50}

// PredefinedScenarios contains common benchmark scenario sets.
type PredefinedScenarios struct{}

// GetQuickScenarios returns a small set for smoke runs: RGB and RGBA at VGA
// and 1080p with a small sigma.
func (ps *PredefinedScenarios) GetQuickScenarios() *ScenarioSet {
	scenarios := make([]Scenario, 0)
	for _, alias := range []images.ResolutionAlias{images.ResolutionAliasVGA, images.ResolutionAlias1080p} {
		res := images.Resolutions[alias]
		for _, channels := range []int{3, 4} {
			scenarios = append(scenarios, NewScenarioBuilder(fmt.Sprintf("quick_%s_c%d", alias, channels)).
				WithResolution(res).
				WithChannels(channels).
				WithSigma(1.5).
				WithIterations(20).
				WithWarmupRuns(2).
				Build())
		}
	}

	return &ScenarioSet{
		Name:        "Quick Performance Test",
		Description: "Small sigma at common frame sizes",
		Scenarios:   scenarios,
	}
}

// GetSigmaSweepScenarios times RGB frames of one resolution at every
// SweepSigmas value.
func (ps *PredefinedScenarios) GetSigmaSweepScenarios(res images.Resolution) *ScenarioSet {
	scenarios := make([]Scenario, 0, len(SweepSigmas))
	for _, sigma := range SweepSigmas {
		scenarios = append(scenarios, NewScenarioBuilder(fmt.Sprintf("sigma_%g_%s", sigma, res.Alias)).
			WithResolution(res).
			WithChannels(3).
			WithSigma(sigma).
			WithIterations(50).
			WithWarmupRuns(5).
			Build())
	}

	return &ScenarioSet{
		Name:        fmt.Sprintf("Sigma Sweep - %s", res.Name),
		Description: "Blur time should not depend on sigma",
		Scenarios:   scenarios,
	}
}

// GetResolutionComparisonScenarios times every known resolution at one sigma.
func (ps *PredefinedScenarios) GetResolutionComparisonScenarios(sigma float32) *ScenarioSet {
	all := images.GetAllResolutions()
	scenarios := make([]Scenario, 0, len(all))
	for _, res := range all {
		scenarios = append(scenarios, NewScenarioBuilder(fmt.Sprintf("resolution_%s", res.Alias)).
			WithResolution(res).
			WithSigma(sigma).
			WithIterations(20).
			WithWarmupRuns(2).
			Build())
	}

	return &ScenarioSet{
		Name:        fmt.Sprintf("Resolution Comparison - sigma %g", sigma),
		Description: "Blur time should grow linearly with the pixel count",
		Scenarios:   scenarios,
	}
}

// GetChannelComparisonScenarios times every channel count at one resolution
// and sigma. Each channel count plans that many box passes.
func (ps *PredefinedScenarios) GetChannelComparisonScenarios(res images.Resolution, sigma float32) *ScenarioSet {
	scenarios := make([]Scenario, 0, 4)
	for channels := 1; channels <= 4; channels++ {
		scenarios = append(scenarios, NewScenarioBuilder(fmt.Sprintf("channels_%d_%s", channels, res.Alias)).
			WithResolution(res).
			WithChannels(channels).
			WithSigma(sigma).
			WithIterations(50).
			WithWarmupRuns(5).
			Build())
	}

	return &ScenarioSet{
		Name:        fmt.Sprintf("Channel Comparison @ %s", res.Name),
		Description: "Compares 1 to 4 interleaved channels",
		Scenarios:   scenarios,
	}
}

// SaveScenarioSet saves a scenario set to a JSON file.
func SaveScenarioSet(scenarioSet *ScenarioSet, filename string) error {
	data, err := json.MarshalIndent(scenarioSet, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal scenario set")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write scenario file")
	}

	return nil
}

// LoadScenarioSet loads a scenario set from a JSON file and validates every
// scenario in it.
func LoadScenarioSet(filename string) (*ScenarioSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scenario file")
	}

	var scenarioSet ScenarioSet
	if err := json.Unmarshal(data, &scenarioSet); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal scenario set")
	}
	for _, s := range scenarioSet.Scenarios {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	return &scenarioSet, nil
}

// Config represents the overall benchmark configuration.
type Config struct {
	OutputDir      string    `json:"output_dir"`
	ImagesPath     string    `json:"images_path"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	Sigmas         []float32 `json:"sigmas"`
	MaxFrames      int       `json:"max_frames"`
}

// DefaultConfig returns a default benchmark configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:      "./benchmark_results",
		TimeoutSeconds: 1800,
		Sigmas:         append([]float32(nil), SweepSigmas...),
		MaxFrames:      16,
	}
}

// WithTimeout derives the context a benchmark run executes under. A
// TimeoutSeconds of zero or less runs without a deadline.
func (c *Config) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if c.TimeoutSeconds <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, time.Duration(c.TimeoutSeconds)*time.Second)
}

// SaveConfig saves the benchmark configuration to a JSON file.
func (c *Config) SaveConfig(filename string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// LoadConfig loads benchmark configuration from a JSON file. Fields missing
// from the file keep their DefaultConfig values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return config, nil
}
