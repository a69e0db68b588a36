package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sqcrop/internal/acquire"
	"github.com/colonyops/sqcrop/internal/core/logging"
	"github.com/colonyops/sqcrop/internal/core/styles"
	"github.com/colonyops/sqcrop/pkg/iojson"
)

type AcquireCmd struct {
	flags *Flags
	input iojson.FileInput

	// flags
	dest       string
	jsonOutput bool
}

// NewAcquireCmd creates a new acquire command.
func NewAcquireCmd(flags *Flags) *AcquireCmd {
	return &AcquireCmd{
		flags: flags,
		input: iojson.FileInput{Usage: "path to the YAML manifest (reads from stdin if not provided)"},
	}
}

// Register adds the acquire command to the application.
func (cmd *AcquireCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "acquire",
		Usage:     "Download labelled image sets for review",
		UsageText: "sqcrop acquire -f manifest.yaml [--dest dir]",
		Description: `Downloads the URLs listed in a manifest into <dest>/<label>/<n>.<ext>.

Manifest format:

  entries:
    - label: golden retriever
      count: 50
      urls:
        - https://example.com/dog-1.jpg

Quotas from the acquire config section apply: per-label count, number of
labels, total bytes and per-file size. Oversized files are discarded and
do not count toward any quota.`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.StringFlag{
				Name:        "dest",
				Aliases:     []string{"d"},
				Usage:       "destination root directory",
				Value:       ".",
				Destination: &cmd.dest,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the report as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AcquireCmd) run(ctx context.Context, c *cli.Command) error {
	r, err := cmd.input.Open()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	manifest, err := acquire.ParseManifest(r)
	if err != nil {
		return err
	}

	ctx = logging.WithRunID(ctx, uuid.NewString())

	d := acquire.New(acquireOptions(cmd.flags.Config), logging.Component("acquire"))
	report, err := d.Run(ctx, cmd.dest, acquire.NewManifestSource(manifest), manifest.Requests())

	out := c.Root().Writer
	if cmd.jsonOutput {
		if werr := iojson.WriteWith(out, os.Stderr, toReportJSON(report)); werr != nil {
			return werr
		}
	} else {
		printReport(out, report)
	}

	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	return nil
}

type labelJSON struct {
	Label     string `json:"label"`
	Dir       string `json:"dir"`
	Requested int    `json:"requested"`
	Saved     int    `json:"saved"`
	Rejected  int    `json:"rejected"`
	Failed    int    `json:"failed"`
}

type reportJSON struct {
	Files   int         `json:"files"`
	Bytes   int64       `json:"bytes"`
	Stopped string      `json:"stopped,omitempty"`
	Labels  []labelJSON `json:"labels"`
}

func toReportJSON(r acquire.Report) reportJSON {
	out := reportJSON{
		Files:   r.Files,
		Bytes:   r.Bytes,
		Stopped: string(r.Stopped),
		Labels:  make([]labelJSON, 0, len(r.Labels)),
	}
	for _, l := range r.Labels {
		out.Labels = append(out.Labels, labelJSON(l))
	}
	return out
}

func printReport(w io.Writer, r acquire.Report) {
	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render(
		fmt.Sprintf("Downloaded %d files (%s)", r.Files, humanize.Bytes(uint64(r.Bytes))),
	))

	if len(r.Labels) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "LABEL\tSAVED\tREJECTED\tFAILED\tDIR")
		for _, l := range r.Labels {
			_, _ = fmt.Fprintf(tw, "%s\t%d/%d\t%d\t%d\t%s\n", l.Label, l.Saved, l.Requested, l.Rejected, l.Failed, l.Dir)
		}
		_ = tw.Flush()
	}

	if r.Stopped != acquire.StopNone {
		_, _ = fmt.Fprintln(w, styles.WarnStyle.Render(fmt.Sprintf("Stopped early: %s quota reached", r.Stopped)))
	}
}
