package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/sqcrop/internal/core/discover"
	"github.com/colonyops/sqcrop/internal/core/geometry"
	"github.com/colonyops/sqcrop/internal/core/imageio"
	"github.com/colonyops/sqcrop/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	exclude    []string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List the review queue",
		UsageText: "sqcrop ls [--json] [dir]",
		Description: `Walks dir (default ".") exactly like 'sqcrop review' and prints every
queued image with its dimensions and whether it needs cropping.

Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringSliceFlag{
				Name:        "exclude",
				Usage:       "additional root-relative glob to skip (repeatable)",
				Destination: &cmd.exclude,
			},
		},
		Action: cmd.run,
	})

	return app
}

// imageInfo is the JSON output format for sqcrop ls --json.
type imageInfo struct {
	Path   string `json:"path"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	root := rootArg(c)

	paths, err := discover.Walk(root, discoverOptions(cmd.flags.Config, cmd.exclude))
	if err != nil {
		return fmt.Errorf("discover images: %w", err)
	}

	if len(paths) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No images found in %s\n", root)
		}
		return nil
	}

	codec := imageio.NewCodec(codecOptions(cmd.flags.Config))
	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, p := range paths {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := iojson.WriteLine(out, probe(codec, p)); err != nil {
				return fmt.Errorf("encode image info: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATUS\tSIZE\tPATH")
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		info := probe(codec, p)
		size := "-"
		if info.Width > 0 {
			size = geometry.Dimensions{Width: info.Width, Height: info.Height}.String()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", info.Status, size, info.Path)
	}
	return w.Flush()
}

func probe(codec *imageio.Codec, path string) imageInfo {
	info := imageInfo{Path: path}

	img, err := codec.Decode(path)
	if err != nil {
		info.Status = "unreadable"
		info.Error = err.Error()
		return info
	}

	dims := geometry.DimensionsOf(img)
	info.Width, info.Height = dims.Width, dims.Height
	if dims.IsSquare() {
		info.Status = "square"
	} else {
		info.Status = "crop"
	}
	return info
}

// rootArg returns the first positional argument or the working directory.
func rootArg(c *cli.Command) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}
