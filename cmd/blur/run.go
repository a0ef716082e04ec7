package main

import (
	"context"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/nvr-ai/go-blur/images"
	"github.com/nvr-ai/go-blur/profiler"
	"github.com/nvr-ai/go-blur/util"
)

// profileInterval is how often stage timings are logged while a directory is
// being processed with profiling enabled.
const profileInterval = 10 * time.Second

// runner carries the state shared by every file of one run.
type runner struct {
	cfg    *Config
	logger *slog.Logger
	prof   *profiler.Profiler
}

// run blurs a single file or every image in a directory.
func run(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	info, err := os.Stat(cfg.Input)
	if err != nil {
		return errors.Wrap(err, "failed to stat input")
	}

	r := &runner{cfg: cfg, logger: logger}
	if cfg.Profile {
		r.prof = profiler.New(profiler.Options{ReportInterval: profileInterval, Logger: logger})
		r.prof.Start(ctx)
		defer func() {
			r.prof.Stop()
			r.prof.Report()
		}()
	}

	if info.IsDir() {
		return r.runDirectory(ctx)
	}

	out := cfg.Output
	if out == "" {
		out = DefaultOutput
	}
	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}
	return r.blurFile(data, cfg.Input, out)
}

// runDirectory writes <name>_blurred.<ext> for every image directly inside
// the input directory, at most cfg.Concurrency at a time. The first failure
// cancels the files not yet started.
func (r *runner) runDirectory(ctx context.Context) error {
	cfg, logger := r.cfg, r.logger
	outDir := cfg.Output
	if outDir == "" {
		outDir = filepath.Join(cfg.Input, "blurred")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	files, err := util.LoadDirectoryImageFiles(cfg.Input)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Errorf("no images found in %s", cfg.Input)
	}
	logger.Info("blurring directory",
		slog.String("input", cfg.Input),
		slog.String("output", outDir),
		slog.Int("files", len(files)),
		slog.Int("concurrency", cfg.Concurrency),
	)

	outputs, err := outputPaths(files, outDir, cfg.Format)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return r.blurFile(file.Data, file.Path, outputs[i])
		})
	}
	return g.Wait()
}

// outputPaths names the output of every file as <name>_blurred.<ext> inside
// outDir. Inputs that would write the same output are rejected.
func outputPaths(files []util.ImageFile, outDir, forced string) ([]string, error) {
	var forcedFormat images.ImageFormat
	if forced != "" {
		var err error
		if forcedFormat, err = images.ParseFormat(forced); err != nil {
			return nil, err
		}
	}

	outputs := make([]string, len(files))
	sources := make(map[string]string, len(files))
	for i, file := range files {
		format := file.Format
		if forcedFormat != "" {
			format = forcedFormat
		}
		name := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
		out := filepath.Join(outDir, name+"_blurred"+format.Extension())
		if prev, ok := sources[out]; ok {
			return nil, errors.Errorf("%s and %s would both be written to %s", prev, file.Path, out)
		}
		sources[out] = file.Path
		outputs[i] = out
	}
	return outputs, nil
}

// stage times fn under name when profiling is enabled.
func (r *runner) stage(name string, fn func() error) error {
	if r.prof == nil {
		return fn()
	}
	done := r.prof.StartOperation(name)
	defer done()
	return fn()
}

// blurFile decodes data, blurs it and writes the result to out.
func (r *runner) blurFile(data []byte, in, out string) error {
	cfg := r.cfg
	format, err := outputFormat(cfg.Format, out)
	if err != nil {
		return err
	}

	start := time.Now()
	var decoded *images.Image
	err = r.stage("decode", func() (err error) {
		decoded, err = images.Decode(data)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "%s", in)
	}

	var blurred image.Image
	err = r.stage("blur", func() (err error) {
		blurred, err = blurImage(decoded.Raster, cfg)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "%s", in)
	}

	err = r.stage("encode", func() error {
		f, err := os.Create(out)
		if err != nil {
			return errors.Wrap(err, "failed to create output")
		}
		if err := images.Encode(f, blurred, format, cfg.Encode); err != nil {
			f.Close()
			return errors.Wrapf(err, "%s", out)
		}
		return errors.Wrapf(f.Close(), "failed to write %s", out)
	})
	if err != nil {
		return err
	}

	b := blurred.Bounds()
	r.logger.Info("blurred",
		slog.String("input", in),
		slog.String("output", out),
		slog.Int("width", b.Dx()),
		slog.Int("height", b.Dy()),
		slog.Float64("sigma", float64(cfg.Sigma)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// blurImage fits img to cfg.MaxSize, then blurs either the whole frame or
// only cfg.Regions.
func blurImage(img image.Image, cfg *Config) (image.Image, error) {
	if cfg.MaxSize > 0 {
		img = images.Fit(img, cfg.MaxSize, cfg.MaxSize)
	}
	if len(cfg.Regions) == 0 {
		return images.Blur(img, cfg.Sigma), nil
	}

	canvas := images.Clone(img)
	if err := images.BlurRegions(canvas, cfg.Regions, cfg.Sigma); err != nil {
		return nil, err
	}
	return canvas, nil
}

// outputFormat picks the forced format, or the one implied by the output
// file name.
func outputFormat(forced, out string) (images.ImageFormat, error) {
	if forced != "" {
		return images.ParseFormat(forced)
	}
	return images.FormatFromPath(out)
}
