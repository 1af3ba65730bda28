package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/feedback/internal/app"
	"github.com/colonyops/feedback/internal/core/logging"
)

type RmCmd struct {
	flags *Flags
	app   *app.App

	force bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, a *app.App) *RmCmd {
	return &RmCmd{flags: flags, app: a}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "rm",
		Usage:         "Delete a submission",
		UsageText:     "feedback rm <id> [--force]",
		ShellComplete: SubmissionIDCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "do not fail when the submission does not exist",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx = logging.WithSubmission(ctx, id)
	if err := cmd.app.Store.Delete(ctx, id); err != nil {
		if cmd.force && notFound(err) {
			return nil
		}
		return fmt.Errorf("delete feedback #%d: %w", id, err)
	}

	log.Info().Ctx(ctx).Msg("feedback deleted")
	_, _ = fmt.Fprintf(c.Root().Writer, "Deleted feedback #%d\n", id)
	return nil
}
