// Package config handles configuration loading and validation for sqcrop.
package config

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Discover DiscoverConfig `yaml:"discover"`
	Output   OutputConfig   `yaml:"output"`
	Review   ReviewConfig   `yaml:"review"`
	Acquire  AcquireConfig  `yaml:"acquire"`
	TUI      TUIConfig      `yaml:"tui"`
}

// DiscoverConfig controls which files enter the review queue.
type DiscoverConfig struct {
	Patterns []string `yaml:"patterns"` // base-name globs, case-sensitive
	Exclude  []string `yaml:"exclude"`  // root-relative globs
}

// OutputConfig controls how saved crops are encoded.
type OutputConfig struct {
	Format         string `yaml:"format"` // jpg, png, tif, gif, bmp or "source"
	JPEGQuality    int    `yaml:"jpeg_quality"`
	PNGCompression string `yaml:"png_compression"` // default, none, fast, best
	AutoOrient     bool   `yaml:"auto_orient"`
}

// ReviewConfig tunes the interactive loop.
type ReviewConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	NudgeStep    int           `yaml:"nudge_step"`
	Keys         Keys          `yaml:"keys"`
}

// Keys binds reviewer commands to key names.
type Keys struct {
	Save   []string `yaml:"save"`
	Delete []string `yaml:"delete"`
	Skip   []string `yaml:"skip"`
	Left   []string `yaml:"left"`
	Right  []string `yaml:"right"`
	Up     []string `yaml:"up"`
	Down   []string `yaml:"down"`
}

// AcquireConfig holds the download quotas for `sqcrop acquire`.
type AcquireConfig struct {
	MaxPerLabel       int           `yaml:"max_per_label"`
	MaxLabels         int           `yaml:"max_labels"`
	MaxBytes          int64         `yaml:"max_bytes"`
	MaxFileSize       int64         `yaml:"max_file_size"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
}

// TUIConfig holds display settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Discover: DiscoverConfig{
			Patterns: []string{"*.jpg", "*.jpeg", "*.png", "*.tiff", "*.tif"},
		},
		Output: OutputConfig{
			Format:         "jpg",
			JPEGQuality:    95,
			PNGCompression: "default",
		},
		Review: ReviewConfig{
			PollInterval: 50 * time.Millisecond,
			NudgeStep:    10,
			Keys: Keys{
				Save:   []string{"s"},
				Delete: []string{"d"},
				Skip:   []string{"q"},
				Left:   []string{"left", "h"},
				Right:  []string{"right", "l"},
				Up:     []string{"up", "k"},
				Down:   []string{"down", "j"},
			},
		},
		Acquire: AcquireConfig{
			MaxPerLabel:       500,
			MaxLabels:         20,
			MaxBytes:          1_000_000_000,
			MaxFileSize:       500_000,
			RequestsPerSecond: 2,
			Timeout:           30 * time.Second,
			UserAgent:         "sqcrop",
		},
		TUI: TUIConfig{
			Theme: "tokyo-night",
		},
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if len(c.Discover.Patterns) == 0 {
		c.Discover.Patterns = defaults.Discover.Patterns
	}

	if c.Output.Format == "" {
		c.Output.Format = defaults.Output.Format
	}
	if c.Output.JPEGQuality == 0 {
		c.Output.JPEGQuality = defaults.Output.JPEGQuality
	}
	if c.Output.PNGCompression == "" {
		c.Output.PNGCompression = defaults.Output.PNGCompression
	}

	if c.Review.PollInterval == 0 {
		c.Review.PollInterval = defaults.Review.PollInterval
	}
	if c.Review.NudgeStep == 0 {
		c.Review.NudgeStep = defaults.Review.NudgeStep
	}
	c.Review.Keys = mergeKeys(defaults.Review.Keys, c.Review.Keys)

	if c.Acquire.MaxPerLabel == 0 {
		c.Acquire.MaxPerLabel = defaults.Acquire.MaxPerLabel
	}
	if c.Acquire.MaxLabels == 0 {
		c.Acquire.MaxLabels = defaults.Acquire.MaxLabels
	}
	if c.Acquire.MaxBytes == 0 {
		c.Acquire.MaxBytes = defaults.Acquire.MaxBytes
	}
	if c.Acquire.MaxFileSize == 0 {
		c.Acquire.MaxFileSize = defaults.Acquire.MaxFileSize
	}
	if c.Acquire.RequestsPerSecond == 0 {
		c.Acquire.RequestsPerSecond = defaults.Acquire.RequestsPerSecond
	}
	if c.Acquire.Timeout == 0 {
		c.Acquire.Timeout = defaults.Acquire.Timeout
	}
	if c.Acquire.UserAgent == "" {
		c.Acquire.UserAgent = defaults.Acquire.UserAgent
	}

	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// mergeKeys fills commands the user left unbound with the defaults.
// A command the user bound replaces the default binding entirely.
func mergeKeys(defaults, user Keys) Keys {
	pick := func(u, d []string) []string {
		if len(u) > 0 {
			return u
		}
		return d
	}
	return Keys{
		Save:   pick(user.Save, defaults.Save),
		Delete: pick(user.Delete, defaults.Delete),
		Skip:   pick(user.Skip, defaults.Skip),
		Left:   pick(user.Left, defaults.Left),
		Right:  pick(user.Right, defaults.Right),
		Up:     pick(user.Up, defaults.Up),
		Down:   pick(user.Down, defaults.Down),
	}
}

// PNGCompressionLevel converts the configured name to a png level.
func (o OutputConfig) PNGCompressionLevel() png.CompressionLevel {
	switch o.PNGCompression {
	case "none":
		return png.NoCompression
	case "fast":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}
