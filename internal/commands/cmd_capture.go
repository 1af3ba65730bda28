package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/feedback/internal/app"
	"github.com/colonyops/feedback/internal/core/capture"
)

type CaptureCmd struct {
	flags *Flags
	app   *app.App

	out string
}

// NewCaptureCmd creates a new capture command
func NewCaptureCmd(flags *Flags, a *app.App) *CaptureCmd {
	return &CaptureCmd{flags: flags, app: a}
}

// Register adds the capture command to the application
func (cmd *CaptureCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "capture",
		Usage:     "Take a screenshot with the configured provider",
		UsageText: "feedback capture --out FILE",
		Description: `Runs the configured capture provider once and writes the image.

Useful for checking capture settings without opening the TUI.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "write the image to `FILE`",
				Required:    true,
				Destination: &cmd.out,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CaptureCmd) run(ctx context.Context, c *cli.Command) error {
	provider, err := cmd.app.CaptureProvider()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.app.Config.Capture.Timeout)
	defer cancel()

	ref, err := provider.TakeScreenshot(ctx)
	if err != nil {
		return fmt.Errorf("take screenshot: %w", err)
	}

	mime, data, err := capture.DecodeDataURL(ref)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cmd.out, data, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}

	log.Debug().Str("provider", cmd.app.Config.Capture.Provider).Str("mime", mime).Msg("screenshot captured")
	_, _ = fmt.Fprintf(c.Root().Writer, "Wrote %s (%s, %s)\n", cmd.out, mime, humanize.Bytes(uint64(len(data))))
	return nil
}
