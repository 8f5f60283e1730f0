// Package main is daytrace, a headless runner that ticks the day cycle
// simulation and prints the lighting it produces. It needs no window or GPU.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/daylight/internal/assets"
	"github.com/Faultbox/daylight/internal/config"
	"github.com/Faultbox/daylight/internal/logger"
	"github.com/Faultbox/daylight/pkg/math"
)

var (
	flagFrames   = flag.Int("frames", 3600, "Number of ticks to simulate")
	flagDt       = flag.Float64("dt", 1.0/60, "Seconds per tick")
	flagEvery    = flag.Int("every", 60, "Print every Nth tick")
	flagFormat   = flag.String("format", "text", "Output format: text or yaml")
	flagInteract = flag.String("interact", "", "Interactions as start:end tick ranges, e.g. 120:180,400:410")
	flagLoad     = flag.Bool("load", false, "Load the model and aim the sun at its center")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Trace output owns stdout.
	opts := logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: true,
		Stderr:  true,
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	spans, err := parseSpans(*flagInteract)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -interact: %v\n", err)
		os.Exit(2)
	}

	target := math.Vec3{}
	if *flagLoad {
		model, err := assets.NewManager().Load(context.Background(), cfg.Model.Path, nil)
		if err != nil {
			logger.Error("failed to load model", zap.String("path", cfg.Model.Path), zap.Error(err))
			os.Exit(1)
		}
		target = model.Bounds.Center()
	}

	t := trace{
		cfg:      cfg,
		target:   target,
		frames:   *flagFrames,
		dt:       *flagDt,
		every:    *flagEvery,
		format:   *flagFormat,
		interact: spans,
	}
	if err := t.run(os.Stdout); err != nil {
		logger.Error("trace failed", zap.Error(err))
		os.Exit(1)
	}
}
