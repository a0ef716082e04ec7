package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-blur/images"
)

// DefaultOutput is the output file used when a single input is blurred and
// no output is given.
const DefaultOutput = "blurred-out.png"

// Config holds the settings of one blur run.
type Config struct {
	// Input is an image file or a directory of images.
	Input string `json:"input" yaml:"input"`
	// Output is a file for a single input, or a directory for a directory input.
	Output string `json:"output" yaml:"output"`
	// Sigma is the Gaussian standard deviation in pixels.
	Sigma float32 `json:"sigma" yaml:"sigma"`
	// Format forces the output format. Empty derives it from the output file
	// name, or keeps the input format in directory mode.
	Format string `json:"format" yaml:"format"`
	// Encode tunes JPEG and WebP output.
	Encode images.EncodeOptions `json:"encode" yaml:"encode"`
	// MaxSize shrinks images larger than MaxSize x MaxSize before blurring.
	// Zero disables it.
	MaxSize int `json:"maxSize" yaml:"maxSize"`
	// Concurrency bounds the files blurred at once in directory mode.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// Regions restricts the blur to these boxes, e.g. faces or plates to
	// redact. Empty blurs the whole frame.
	Regions []images.Rect `json:"regions" yaml:"regions"`
	// Verbose enables debug logging.
	Verbose bool `json:"verbose" yaml:"verbose"`
	// Profile logs decode, blur and encode timings and heap usage.
	Profile bool `json:"profile" yaml:"profile"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Sigma:       5,
		Concurrency: runtime.NumCPU(),
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or JSON configuration file. Fields
// missing from the file keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return config, nil
}

// Validate checks the configuration before any file is touched.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input path is required (-in)")
	}
	if c.Sigma < 0 || math32.IsNaN(c.Sigma) {
		return errors.Errorf("sigma must be a non-negative number, got %v", c.Sigma)
	}
	if c.Format != "" {
		if _, err := images.ParseFormat(c.Format); err != nil {
			return err
		}
	}
	if c.Encode.Quality < 0 || c.Encode.Quality > 100 {
		return errors.Errorf("quality must be in 0..100, got %d", c.Encode.Quality)
	}
	if c.MaxSize < 0 {
		return errors.Errorf("max size must not be negative, got %d", c.MaxSize)
	}
	if c.MaxSize > 0 && len(c.Regions) > 0 {
		// Regions are in source coordinates.
		return errors.New("regions cannot be combined with max size")
	}
	if c.Concurrency < 1 {
		return errors.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}
