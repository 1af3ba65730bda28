package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/feedback/internal/app"
	corefeedback "github.com/colonyops/feedback/internal/core/feedback"
	"github.com/colonyops/feedback/internal/core/validate"
	"github.com/colonyops/feedback/pkg/iojson"
)

// submitInput is the JSON accepted by `feedback submit --input`.
type submitInput struct {
	Title   string `json:"title"`
	Comment string `json:"comment"`
	Image   string `json:"image"` // path to an image file
}

type SubmitCmd struct {
	flags *Flags
	app   *app.App

	input      iojson.FileReader[submitInput]
	title      string
	comment    string
	image      string
	jsonOutput bool
}

// NewSubmitCmd creates a new submit command
func NewSubmitCmd(flags *Flags, a *app.App) *SubmitCmd {
	return &SubmitCmd{flags: flags, app: a}
}

// Register adds the submit command to the application
func (cmd *SubmitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "submit",
		Usage:     "Submit feedback without the TUI",
		UsageText: "feedback submit --title TEXT [--comment TEXT] [--image FILE]\n   feedback submit --input FILE",
		Description: `Records feedback from flags or from JSON ({"title", "comment", "image"}).

Title and comment are trimmed; a blank title is rejected.`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "feedback subject", Destination: &cmd.title},
			&cli.StringFlag{Name: "comment", Aliases: []string{"m"}, Usage: "feedback body", Destination: &cmd.comment},
			&cli.StringFlag{Name: "image", Usage: "attach the image in `FILE`", Destination: &cmd.image},
			&cli.BoolFlag{Name: "json", Usage: "print the stored submission as JSON", Destination: &cmd.jsonOutput},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SubmitCmd) run(ctx context.Context, c *cli.Command) error {
	in := submitInput{Title: cmd.title, Comment: cmd.comment, Image: cmd.image}
	if cmd.input.Set() {
		var err error
		if in, err = cmd.input.Read(); err != nil {
			return err
		}
	}

	var image []byte
	if in.Image != "" {
		data, err := os.ReadFile(in.Image)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		image = data
	}

	payload := corefeedback.FromForm(map[string]any{
		corefeedback.FieldTitle:   in.Title,
		corefeedback.FieldComment: in.Comment,
	}, image)
	if err := validate.Title(payload.Title); err != nil {
		return err
	}

	sub, err := cmd.app.Store.Save(ctx, payload)
	if err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteIndent(out, newSubmissionInfo(sub))
	}
	_, _ = fmt.Fprintf(out, "Saved feedback #%d\n", sub.ID)
	return nil
}
