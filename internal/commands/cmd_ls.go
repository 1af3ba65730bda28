package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/feedback/internal/app"
	corefeedback "github.com/colonyops/feedback/internal/core/feedback"
	"github.com/colonyops/feedback/pkg/iojson"
)

const lsTitleWidth = 48

type LsCmd struct {
	flags *Flags
	app   *app.App

	// flags
	limit      int
	jsonOutput bool
}

// submissionInfo is the JSON shape of a listed submission.
type submissionInfo struct {
	ID        int64     `json:"id"`
	Ref       string    `json:"ref"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment,omitempty"`
	HasImage  bool      `json:"has_image"`
	ImageType string    `json:"image_type,omitempty"`
	ImageSize int       `json:"image_size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newSubmissionInfo(s corefeedback.Submission) submissionInfo {
	return submissionInfo{
		ID:        s.ID,
		Ref:       s.Ref,
		Title:     s.Title,
		Comment:   s.Comment,
		HasImage:  s.HasImage(),
		ImageType: s.ImageType,
		ImageSize: len(s.Image),
		CreatedAt: s.CreatedAt,
	}
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, a *app.App) *LsCmd {
	return &LsCmd{flags: flags, app: a}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List submitted feedback",
		UsageText: "feedback ls [--limit N] [--json]",
		Description: `Displays a table of submitted feedback, newest first.

Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of submissions (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	subs, err := cmd.app.Store.List(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list feedback: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, s := range subs {
			if err := iojson.WriteLine(out, newSubmissionInfo(s)); err != nil {
				return fmt.Errorf("encode submission: %w", err)
			}
		}
		return nil
	}

	if len(subs) == 0 {
		fmt.Fprintf(os.Stderr, "No feedback found\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tIMAGE\tCREATED")
	for _, s := range subs {
		image := "-"
		if s.HasImage() {
			image = humanize.Bytes(uint64(len(s.Image)))
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			s.ID, ansi.Truncate(s.Title, lsTitleWidth, "…"), image, humanize.Time(s.CreatedAt))
	}
	return w.Flush()
}
