package commands

import (
	"github.com/colonyops/sqcrop/internal/acquire"
	"github.com/colonyops/sqcrop/internal/core/config"
	"github.com/colonyops/sqcrop/internal/core/discover"
	"github.com/colonyops/sqcrop/internal/core/imageio"
	"github.com/colonyops/sqcrop/internal/core/imagestore"
	"github.com/colonyops/sqcrop/internal/core/review"
)

// Translation from config sections to package options.

func discoverOptions(cfg *config.Config, extraExcludes []string) discover.Options {
	return discover.Options{
		Patterns:     cfg.Discover.Patterns,
		Exclude:      append(append([]string(nil), cfg.Discover.Exclude...), extraExcludes...),
		SkipPrefixes: []string{imagestore.TempPrefix},
	}
}

func codecOptions(cfg *config.Config) imageio.Options {
	return imageio.Options{
		JPEGQuality:    cfg.Output.JPEGQuality,
		PNGCompression: cfg.Output.PNGCompressionLevel(),
		AutoOrient:     cfg.Output.AutoOrient,
	}
}

func loopOptions(cfg *config.Config, format string) review.Options {
	if format == "" {
		format = cfg.Output.Format
	}
	k := cfg.Review.Keys
	return review.Options{
		OutputFormat: format,
		PollInterval: cfg.Review.PollInterval,
		NudgeStep:    cfg.Review.NudgeStep,
		Keymap: review.Keymap{
			Save:   k.Save,
			Delete: k.Delete,
			Skip:   k.Skip,
			Left:   k.Left,
			Right:  k.Right,
			Up:     k.Up,
			Down:   k.Down,
		},
	}
}

func acquireOptions(cfg *config.Config) acquire.Options {
	a := cfg.Acquire
	return acquire.Options{
		Limits: acquire.Limits{
			MaxPerLabel: a.MaxPerLabel,
			MaxLabels:   a.MaxLabels,
			MaxBytes:    a.MaxBytes,
			MaxFileSize: a.MaxFileSize,
		},
		RequestsPerSecond: a.RequestsPerSecond,
		Timeout:           a.Timeout,
		UserAgent:         a.UserAgent,
	}
}
