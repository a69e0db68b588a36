package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sqcrop/internal/commands"
	"github.com/colonyops/sqcrop/internal/core/config"
	"github.com/colonyops/sqcrop/internal/core/logging"
	"github.com/colonyops/sqcrop/internal/core/styles"
	"github.com/colonyops/sqcrop/pkg/logutils"
	"github.com/colonyops/sqcrop/pkg/profiler"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// ldflags aren't set by `go install module@version`, so fall back to
	// the module version and VCS metadata Go records in the binary.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		pprofPort int
		pprofSrv  *profiler.Server
	)

	flags := &commands.Flags{
		Notices: &logutils.DeferredWriter{},
	}

	app := &cli.Command{
		Name:      "sqcrop",
		Usage:     "Crop a directory of images to squares",
		UsageText: "sqcrop [global options] [command] [dir]",
		Description: `sqcrop walks a directory of images and lets you pick a square crop for
each one in the terminal, then saves, deletes, or skips the file.

Run 'sqcrop [dir]' to start reviewing (same as 'sqcrop review [dir]').
Run 'sqcrop ls [dir]' to see what would be reviewed.
Run 'sqcrop acquire -f manifest.yaml' to download labelled image sets.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SQCROP_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("SQCROP_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SQCROP_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.IntFlag{
				Name:        "pprof-port",
				Usage:       "serve pprof on 127.0.0.1:<port> while running",
				Sources:     cli.EnvVars("SQCROP_PPROF_PORT"),
				Hidden:      true,
				Destination: &pprofPort,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile, flags.Notices)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			if pprofPort > 0 {
				pprofSrv = profiler.New(pprofPort, logging.Component("profiler"))
				if err := pprofSrv.Start(ctx); err != nil {
					return ctx, fmt.Errorf("start profiler: %w", err)
				}
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if pprofSrv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				_ = pprofSrv.Shutdown(shutdownCtx)
				cancel()
			}

			// Warnings are held back while the terminal UI owns the screen.
			_ = flags.Notices.Flush(os.Stderr)

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	reviewCmd := commands.NewReviewCmd(flags)

	app = reviewCmd.Register(app)
	app = commands.NewLsCmd(flags).Register(app)
	app = commands.NewAcquireCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register review flags on root command
	app.Flags = append(app.Flags, reviewCmd.Flags()...)

	// Review is the default action; a lone argument is the directory.
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 1 {
			return fmt.Errorf("unexpected arguments %q. Run 'sqcrop --help' for usage", c.Args().Slice()[1:])
		}
		return reviewCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
