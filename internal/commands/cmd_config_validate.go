package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/feedback/internal/core/config"
	"github.com/colonyops/feedback/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// validationReport is the JSON output of `config validate`.
type validationReport struct {
	Valid    bool                       `json:"valid"`
	Errors   []validationError          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

type validationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
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
				UsageText:   "feedback config validate [options]",
				Description: "Validates the configuration file, checking capture and annotate settings, file paths and executables.",
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

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	report := validationReport{Warnings: cfg.Warnings()}

	if err := cfg.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				report.Errors = append(report.Errors, validationError{Field: fe.Field, Message: fe.Err.Error()})
			}
		} else {
			report.Errors = append(report.Errors, validationError{Message: err.Error()})
		}
	}
	report.Valid = len(report.Errors) == 0

	out := c.Root().Writer
	if cmd.format == "json" {
		if err := iojson.WriteIndent(out, report); err != nil {
			return err
		}
	} else {
		for _, w := range report.Warnings {
			_, _ = fmt.Fprintf(out, "warning: %s\n", w)
		}
		for _, e := range report.Errors {
			if e.Field != "" {
				_, _ = fmt.Fprintf(out, "error: %s: %s\n", e.Field, e.Message)
			} else {
				_, _ = fmt.Fprintf(out, "error: %s\n", e.Message)
			}
		}
		if report.Valid {
			_, _ = fmt.Fprintln(out, "Configuration is valid")
		}
	}

	if !report.Valid {
		return cli.Exit(fmt.Sprintf("%d error(s) found", len(report.Errors)), 1)
	}
	return nil
}
