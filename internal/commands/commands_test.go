package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sqcrop/internal/acquire"
	"github.com/colonyops/sqcrop/internal/core/config"
	"github.com/colonyops/sqcrop/internal/core/crop"
	"github.com/colonyops/sqcrop/internal/core/imagestore"
	"github.com/colonyops/sqcrop/internal/core/review"
	"github.com/colonyops/sqcrop/pkg/tuitest"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func testFlags(t *testing.T) *Flags {
	t.Helper()
	cfg := config.DefaultConfig()
	return &Flags{Config: &cfg, ConfigPath: filepath.Join(t.TempDir(), "config.yaml")}
}

func runApp(t *testing.T, flags *Flags, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := &cli.Command{
		Name:   "sqcrop",
		Writer: &out,
		// keep cli.Exit from terminating the test binary
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	app = NewLsCmd(flags).Register(app)
	app = NewConfigValidateCmd(flags).Register(app)

	err := app.Run(context.Background(), append([]string{"sqcrop"}, args...))
	return out.String(), err
}

func TestLsCmd(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 20, 10)
	writePNG(t, filepath.Join(dir, "b.png"), 8, 8)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.jpg"), []byte("not an image"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, imagestore.TempPrefix+"a.png.123.tmp"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	t.Run("table", func(t *testing.T) {
		out, err := runApp(t, testFlags(t), "ls", dir)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, lines[0], "STATUS")
		assert.Contains(t, lines[1], "crop")
		assert.Contains(t, lines[1], "20x10")
		assert.Contains(t, lines[2], "square")
		assert.Contains(t, lines[3], "unreadable")
	})

	t.Run("json", func(t *testing.T) {
		out, err := runApp(t, testFlags(t), "ls", "--json", dir)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)

		var first imageInfo
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		assert.Equal(t, imageInfo{Path: filepath.Join(dir, "a.png"), Width: 20, Height: 10, Status: "crop"}, first)

		var last imageInfo
		require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
		assert.Equal(t, "unreadable", last.Status)
		assert.NotEmpty(t, last.Error)
	})

	t.Run("exclude", func(t *testing.T) {
		out, err := runApp(t, testFlags(t), "ls", "--json", "--exclude", "b.png", dir)
		require.NoError(t, err)
		assert.NotContains(t, out, "b.png")
	})
}

func TestConfigValidateCmd(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := runApp(t, testFlags(t), "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, tuitest.StripANSI(out), "Configuration is valid")
	})

	t.Run("invalid json", func(t *testing.T) {
		flags := testFlags(t)
		flags.Config.Output.Format = "webp"
		flags.Config.Review.NudgeStep = -1

		out, err := runApp(t, flags, "config", "validate", "--format", "json")
		require.Error(t, err)

		var result struct {
			Valid  bool              `json:"valid"`
			Errors []validationError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.False(t, result.Valid)

		fields := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			fields = append(fields, e.Field)
		}
		assert.Contains(t, fields, "output.format")
		assert.Contains(t, fields, "review.nudge_step")
	})
}

func TestFieldErrors(t *testing.T) {
	assert.Nil(t, fieldErrors(nil))

	got := fieldErrors(errors.New("boom"))
	assert.Equal(t, []validationError{{Field: "config", Message: "boom"}}, got)

	var b criterio.FieldErrorsBuilder
	got = fieldErrors(b.Append("tui.theme", errors.New("unknown theme")).ToError())
	assert.Equal(t, []validationError{{Field: "tui.theme", Message: "unknown theme"}}, got)
}

func TestLoopOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Review.Keys.Save = []string{"enter"}

	opts := loopOptions(&cfg, "")
	assert.Equal(t, cfg.Output.Format, opts.OutputFormat)
	assert.Equal(t, review.CommandSave, opts.Keymap.Resolve("enter"))
	assert.Equal(t, review.CommandNudgeLeft, opts.Keymap.Resolve("left"))

	opts = loopOptions(&cfg, review.FormatSource)
	assert.Equal(t, review.FormatSource, opts.OutputFormat)
}

func TestDiscoverOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Discover.Exclude = []string{"**/.thumbs/**"}

	opts := discoverOptions(&cfg, []string{"raw/**"})
	assert.Equal(t, []string{"**/.thumbs/**", "raw/**"}, opts.Exclude)
	assert.Equal(t, []string{"**/.thumbs/**"}, cfg.Discover.Exclude)
	assert.Equal(t, []string{imagestore.TempPrefix}, opts.SkipPrefixes)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, review.Summary{Results: []review.Result{
		{Path: "a.png", Outcome: crop.OutcomeSaved},
		{Path: "b.png", Outcome: crop.OutcomeSaved},
		{Path: "c.png", Outcome: crop.OutcomeAlreadySquare},
	}}, 5, true)

	out := tuitest.StripANSI(buf.String())
	assert.Contains(t, out, "Reviewed 3 of 5 images (stopped early)")
	assert.Contains(t, out, "saved: 2")
	assert.Contains(t, out, "already square: 1")
	assert.NotContains(t, out, "deleted")
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, acquire.Report{
		Files:   3,
		Bytes:   3000,
		Stopped: acquire.StopMaxBytes,
		Labels: []acquire.LabelReport{
			{Label: "dog", Dir: "out/dog", Requested: 5, Saved: 3, Rejected: 1},
		},
	})

	out := tuitest.StripANSI(buf.String())
	assert.Contains(t, out, "Downloaded 3 files (3.0 kB)")
	assert.Contains(t, out, "3/5")
	assert.Contains(t, out, "max_bytes quota reached")
}
