package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sqcrop/internal/core/styles"
	"github.com/colonyops/sqcrop/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "sqcrop config validate [options]",
				Description: "Validates the configuration file, checking globs, output settings, key bindings, quotas, and the theme name.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	errs := fieldErrors(cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath))
	out := c.Root().Writer

	if cmd.format == "json" {
		result := struct {
			Valid  bool              `json:"valid"`
			Path   string            `json:"path"`
			Errors []validationError `json:"errors,omitempty"`
		}{
			Valid:  len(errs) == 0,
			Path:   cmd.flags.ConfigPath,
			Errors: errs,
		}
		if err := iojson.WriteWith(out, os.Stderr, result); err != nil {
			return err
		}
	} else {
		for _, e := range errs {
			_, _ = fmt.Fprintf(out, "%s %s: %s\n", styles.ErrorStyle.Render("✗"), e.Field, e.Message)
		}
		if len(errs) == 0 {
			_, _ = fmt.Fprintf(out, "%s Configuration is valid (%s)\n", styles.SuccessStyle.Render("✓"), cmd.flags.ConfigPath)
		} else {
			_, _ = fmt.Fprintf(out, "\n%d error(s) found\n", len(errs))
		}
	}

	if len(errs) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// fieldErrors flattens a validation error into per-field messages.
func fieldErrors(err error) []validationError {
	if err == nil {
		return nil
	}

	var fe criterio.FieldErrors
	if !errors.As(err, &fe) {
		return []validationError{{Field: "config", Message: err.Error()}}
	}

	out := make([]validationError, 0, len(fe))
	for _, e := range fe {
		out = append(out, validationError{Field: e.Field, Message: e.Err.Error()})
	}
	return out
}
