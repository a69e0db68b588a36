package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/sqcrop/internal/core/crop"
	"github.com/colonyops/sqcrop/internal/core/discover"
	"github.com/colonyops/sqcrop/internal/core/imageio"
	"github.com/colonyops/sqcrop/internal/core/imagestore"
	"github.com/colonyops/sqcrop/internal/core/logging"
	"github.com/colonyops/sqcrop/internal/core/review"
	"github.com/colonyops/sqcrop/internal/core/styles"
	"github.com/colonyops/sqcrop/internal/tui"
)

type ReviewCmd struct {
	flags *Flags

	// flags
	format  string
	exclude []string
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Crop images to squares interactively",
		UsageText: "sqcrop review [--format jpg|png|tif|gif|bmp|source] [dir]",
		Description: `Walks dir (default ".") for images and opens each non-square one in a
terminal viewer. Move the mouse to preview a square crop, click to commit
it, and press a key to act on the image:

  s        save the committed crop over the original
  d        delete the original
  q        skip, leaving the file untouched
  arrows   nudge the committed crop
  ctrl+c   stop reviewing

Square images are skipped automatically. Keys can be rebound in the
config file under review.keys.`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})

	return app
}

// Flags returns the review flags so they can also be set on the root
// command, where review is the default action.
func (cmd *ReviewCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Usage:       "output format for saved crops, overrides output.format",
			Destination: &cmd.format,
		},
		&cli.StringSliceFlag{
			Name:        "exclude",
			Usage:       "additional root-relative glob to skip (repeatable)",
			Destination: &cmd.exclude,
		},
	}
}

// Run reviews every image under the root argument.
func (cmd *ReviewCmd) Run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	root := rootArg(c)
	out := c.Root().Writer

	if cmd.format != "" && cmd.format != review.FormatSource && !imageio.Format(cmd.format).IsValid() {
		return fmt.Errorf("unsupported format %q", cmd.format)
	}

	paths, err := discover.Walk(root, discoverOptions(cfg, cmd.exclude))
	if err != nil {
		return fmt.Errorf("discover images: %w", err)
	}

	if len(paths) == 0 {
		_, _ = fmt.Fprintf(out, "No images found in %s\n", root)
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("review needs an interactive terminal; use 'sqcrop ls' to inspect the queue")
	}

	ctx = logging.WithRunID(ctx, uuid.NewString())
	log.Info().Ctx(ctx).Str("root", root).Int("images", len(paths)).Msg("starting review")

	opts := loopOptions(cfg, cmd.format)
	codec := imageio.NewCodec(codecOptions(cfg))
	store := imagestore.New(codec, imageio.Extensions, logging.Component("imagestore"))

	surface := tui.NewSurface(ctx, tui.SurfaceOptions{Keymap: opts.Keymap}, logging.Component("tui"))
	surface.Start()

	loop := review.New(surface, codec, store, opts, logging.Component("review"))
	summary, runErr := loop.Run(ctx, paths)

	if err := surface.Close(); err != nil {
		return err
	}

	aborted := errors.Is(runErr, review.ErrSurfaceClosed) || errors.Is(runErr, context.Canceled)
	if runErr != nil && !aborted {
		return fmt.Errorf("review: %w", runErr)
	}

	printSummary(out, summary, len(paths), aborted)
	return nil
}

func printSummary(w io.Writer, s review.Summary, total int, aborted bool) {
	header := fmt.Sprintf("Reviewed %d of %d images", len(s.Results), total)
	if aborted {
		header += " (stopped early)"
	}
	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render(header))

	rows := []struct {
		outcome crop.Outcome
		label   string
		render  func(...string) string
	}{
		{crop.OutcomeSaved, "saved", styles.SuccessStyle.Render},
		{crop.OutcomeDeleted, "deleted", styles.WarnStyle.Render},
		{crop.OutcomeSkipped, "skipped", styles.MutedStyle.Render},
		{crop.OutcomeAlreadySquare, "already square", styles.MutedStyle.Render},
		{crop.OutcomeDecodeFailed, "unreadable", styles.ErrorStyle.Render},
	}
	for _, r := range rows {
		if n := s.Count(r.outcome); n > 0 {
			_, _ = fmt.Fprintf(w, "  %s %d\n", r.render(r.label+":"), n)
		}
	}
}
