package config

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Discover.Patterns, cfg.Discover.Patterns)
	assert.Equal(t, "jpg", cfg.Output.Format)
	assert.Equal(t, 50*time.Millisecond, cfg.Review.PollInterval)
	assert.Equal(t, []string{"s"}, cfg.Review.Keys.Save)
	assert.Equal(t, 500, cfg.Acquire.MaxPerLabel)
	assert.Equal(t, int64(500_000), cfg.Acquire.MaxFileSize)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
discover:
  patterns: ["*.png"]
  exclude: ["**/.cache/**"]
output:
  format: source
  png_compression: best
review:
  poll_interval: 200ms
  keys:
    save: ["enter", "s"]
acquire:
  max_labels: 3
  timeout: 5s
tui:
  theme: gruvbox
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"*.png"}, cfg.Discover.Patterns)
	assert.Equal(t, []string{"**/.cache/**"}, cfg.Discover.Exclude)
	assert.Equal(t, "source", cfg.Output.Format)
	assert.Equal(t, 95, cfg.Output.JPEGQuality)
	assert.Equal(t, png.BestCompression, cfg.Output.PNGCompressionLevel())
	assert.Equal(t, 200*time.Millisecond, cfg.Review.PollInterval)
	assert.Equal(t, []string{"enter", "s"}, cfg.Review.Keys.Save)
	assert.Equal(t, []string{"d"}, cfg.Review.Keys.Delete, "unset bindings keep defaults")
	assert.Equal(t, 3, cfg.Acquire.MaxLabels)
	assert.Equal(t, 500, cfg.Acquire.MaxPerLabel)
	assert.Equal(t, 5*time.Second, cfg.Acquire.Timeout)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "output: [not, a, map")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "output:\n  format: webp\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{
			name:      "bad discover glob",
			mutate:    func(c *Config) { c.Discover.Patterns = []string{"[a-"} },
			wantField: "discover.patterns[0]",
		},
		{
			name:      "bad exclude glob",
			mutate:    func(c *Config) { c.Discover.Exclude = []string{"ok", "{"} },
			wantField: "discover.exclude[1]",
		},
		{
			name:      "unsupported format",
			mutate:    func(c *Config) { c.Output.Format = "heic" },
			wantField: "output.format",
		},
		{
			name:      "jpeg quality out of range",
			mutate:    func(c *Config) { c.Output.JPEGQuality = 101 },
			wantField: "output.jpeg_quality",
		},
		{
			name:      "unknown png compression",
			mutate:    func(c *Config) { c.Output.PNGCompression = "max" },
			wantField: "output.png_compression",
		},
		{
			name:      "nudge step",
			mutate:    func(c *Config) { c.Review.NudgeStep = 0 },
			wantField: "review.nudge_step",
		},
		{
			name:      "empty skip keys",
			mutate:    func(c *Config) { c.Review.Keys.Skip = nil },
			wantField: "review.keys.skip",
		},
		{
			name:      "duplicate key",
			mutate:    func(c *Config) { c.Review.Keys.Delete = []string{"s"} },
			wantField: "review.keys.delete",
		},
		{
			name:      "acquire byte cap",
			mutate:    func(c *Config) { c.Acquire.MaxBytes = -1 },
			wantField: "acquire.max_bytes",
		},
		{
			name:      "unknown theme",
			mutate:    func(c *Config) { c.TUI.Theme = "solarized-neon" },
			wantField: "tui.theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.wantField, fieldErrs[0].Field)
		})
	}
}

func TestValidate_Default(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateDeep(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, cfg.ValidateDeep(""))
	assert.NoError(t, cfg.ValidateDeep(filepath.Join(t.TempDir(), "missing.yaml")))

	err := cfg.ValidateDeep(t.TempDir())
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}
