package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/sqcrop/internal/core/imageio"
	"github.com/colonyops/sqcrop/internal/core/styles"
	"github.com/colonyops/sqcrop/internal/core/validate"
)

// formatSource keeps each image's own format on save.
const formatSource = "source"

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateDiscover(),
		c.validateOutput(),
		c.validateReview(),
		c.validateAcquire(),
		criterio.Run("tui.theme", c.TUI.Theme, themeExists),
	)
}

// ValidateDeep runs Validate and additionally checks the config file on disk.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return validateConfigFile(configPath)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func (c *Config) validateDiscover() error {
	var errs criterio.FieldErrorsBuilder
	for i, p := range c.Discover.Patterns {
		if err := validate.Glob(p); err != nil {
			errs = errs.Append(fmt.Sprintf("discover.patterns[%d]", i), err)
		}
	}
	for i, p := range c.Discover.Exclude {
		if err := validate.Glob(p); err != nil {
			errs = errs.Append(fmt.Sprintf("discover.exclude[%d]", i), err)
		}
	}
	return errs.ToError()
}

func (c *Config) validateOutput() error {
	var errs criterio.FieldErrorsBuilder

	if c.Output.Format != formatSource && !imageio.Format(c.Output.Format).IsValid() {
		errs = errs.Append("output.format", fmt.Errorf("unsupported format %q", c.Output.Format))
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		errs = errs.Append("output.jpeg_quality", fmt.Errorf("must be between 1 and 100"))
	}
	if !slices.Contains([]string{"default", "none", "fast", "best"}, c.Output.PNGCompression) {
		errs = errs.Append("output.png_compression", fmt.Errorf("unknown level %q", c.Output.PNGCompression))
	}

	return errs.ToError()
}

func (c *Config) validateReview() error {
	var errs criterio.FieldErrorsBuilder

	if c.Review.PollInterval < 0 {
		errs = errs.Append("review.poll_interval", fmt.Errorf("must not be negative"))
	}
	if c.Review.NudgeStep < 1 {
		errs = errs.Append("review.nudge_step", fmt.Errorf("must be at least 1"))
	}

	seen := make(map[string]string)
	for _, b := range c.Review.Keys.bindings() {
		if len(b.keys) == 0 {
			errs = errs.Append("review.keys."+b.name, fmt.Errorf("at least one key is required"))
		}
		for _, k := range b.keys {
			if other, ok := seen[k]; ok && other != b.name {
				errs = errs.Append("review.keys."+b.name, fmt.Errorf("key %q already bound to %s", k, other))
				continue
			}
			seen[k] = b.name
		}
	}

	return errs.ToError()
}

type binding struct {
	name string
	keys []string
}

// bindings lists key sets in a fixed order so duplicate reports are stable.
func (k Keys) bindings() []binding {
	return []binding{
		{"save", k.Save},
		{"delete", k.Delete},
		{"skip", k.Skip},
		{"left", k.Left},
		{"right", k.Right},
		{"up", k.Up},
		{"down", k.Down},
	}
}

func (c *Config) validateAcquire() error {
	var errs criterio.FieldErrorsBuilder
	a := c.Acquire

	if a.MaxPerLabel < 1 {
		errs = errs.Append("acquire.max_per_label", fmt.Errorf("must be at least 1"))
	}
	if a.MaxLabels < 1 {
		errs = errs.Append("acquire.max_labels", fmt.Errorf("must be at least 1"))
	}
	if a.MaxBytes < 1 {
		errs = errs.Append("acquire.max_bytes", fmt.Errorf("must be positive"))
	}
	if a.MaxFileSize < 1 {
		errs = errs.Append("acquire.max_file_size", fmt.Errorf("must be positive"))
	}
	if a.RequestsPerSecond <= 0 {
		errs = errs.Append("acquire.requests_per_second", fmt.Errorf("must be positive"))
	}
	if a.Timeout <= 0 {
		errs = errs.Append("acquire.timeout", fmt.Errorf("must be positive"))
	}

	return errs.ToError()
}

func themeExists(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}
