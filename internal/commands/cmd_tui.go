package commands

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/feedback/internal/app"
	"github.com/colonyops/feedback/internal/tui"
	tuinotify "github.com/colonyops/feedback/internal/tui/notify"
	"github.com/colonyops/feedback/pkg/logutils"
)

// notificationHistory is how many notifications the TUI bus remembers.
const notificationHistory = 50

type TuiCmd struct {
	flags *Flags
	app   *app.App

	listLimit int
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, a *app.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   a,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "list-limit",
			Usage:       "maximum number of submissions shown in the list (defaults to tui.list_limit)",
			Sources:     cli.EnvVars("FEEDBACK_LIST_LIMIT"),
			Destination: &cmd.listLimit,
		},
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "tui",
		Usage:       "Open the interactive feedback browser",
		UsageText:   "feedback tui",
		Description: "Lists submitted feedback. Press f to open the feedback dialog.",
		Action:      cmd.run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	dialogOpts, err := cmd.app.DialogOptions()
	if err != nil {
		return err
	}

	// Stderr logs would draw over the TUI; hold them until it exits.
	if cmd.flags.LogToStderr() {
		deferred := logutils.NewDeferred(0)
		restore := log.Logger
		log.Logger = log.Logger.Output(zerolog.ConsoleWriter{Out: deferred, TimeFormat: "15:04:05"})
		defer func() {
			log.Logger = restore
			_ = deferred.Flush(os.Stderr)
		}()
	}

	limit := cmd.listLimit
	if limit <= 0 {
		limit = cmd.app.Config.TUI.ListLimit
	}

	m := tui.New(tui.Options{
		Store:     cmd.app.Store,
		Bus:       tuinotify.NewBus(notificationHistory),
		Dialog:    dialogOpts,
		ListLimit: limit,
		Warnings:  cmd.app.Warnings(),
	})

	log.Debug().Str("version", cmd.app.Build.Version).Msg("starting tui")

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
