package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/feedback/internal/app"
	corefeedback "github.com/colonyops/feedback/internal/core/feedback"
	"github.com/colonyops/feedback/pkg/iojson"
)

type ShowCmd struct {
	flags *Flags
	app   *app.App

	// flags
	imagePath  string
	jsonOutput bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, a *app.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: a}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "show",
		Usage:         "Show one submission",
		UsageText:     "feedback show <id> [--image FILE] [--json]",
		Description:   "Prints a submission. Use --image to write its screenshot to a file.",
		ShellComplete: SubmissionIDCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "image",
				Usage:       "write the screenshot to `FILE`",
				Destination: &cmd.imagePath,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	sub, err := cmd.app.Store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get feedback #%d: %w", id, err)
	}

	if cmd.imagePath != "" {
		if !sub.HasImage() {
			return fmt.Errorf("feedback #%d has no screenshot", id)
		}
		if err := os.WriteFile(cmd.imagePath, sub.Image, 0o644); err != nil {
			return fmt.Errorf("write screenshot: %w", err)
		}
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteIndent(out, newSubmissionInfo(sub))
	}

	_, _ = fmt.Fprintf(out, "#%d  %s\n", sub.ID, sub.Title)
	_, _ = fmt.Fprintf(out, "ref:     %s\n", sub.Ref)
	_, _ = fmt.Fprintf(out, "created: %s (%s)\n", sub.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(sub.CreatedAt))
	if sub.HasImage() {
		_, _ = fmt.Fprintf(out, "image:   %s, %s\n", sub.ImageType, humanize.Bytes(uint64(len(sub.Image))))
	}
	if sub.Comment != "" {
		_, _ = fmt.Fprintf(out, "\n%s\n", sub.Comment)
	}
	return nil
}

// parseID reads the submission ID from the first argument.
func parseID(c *cli.Command) (int64, error) {
	if c.Args().Len() != 1 {
		return 0, errors.New("expected exactly one submission id")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid submission id %q", c.Args().First())
	}
	return id, nil
}

// notFound reports whether err means the submission does not exist.
func notFound(err error) bool {
	return errors.Is(err, corefeedback.ErrNotFound)
}
