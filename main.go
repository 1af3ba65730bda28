package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/feedback/internal/app"
	"github.com/colonyops/feedback/internal/commands"
	"github.com/colonyops/feedback/internal/core/config"
	"github.com/colonyops/feedback/internal/core/logging"
	"github.com/colonyops/feedback/internal/core/styles"
	"github.com/colonyops/feedback/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func buildInfo() app.BuildInfo {
	b := app.BuildInfo{Version: version, Commit: commit, Date: date}

	// ldflags aren't set by `go install module@version`; fall back to the
	// module version and VCS metadata Go records in the binary.
	if b.Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				b.Version = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					b.Commit = s.Value
				case "vcs.time":
					b.Date = s.Value
				}
			}
		}
	}
	return b
}

func versionString(b app.BuildInfo) string {
	short := b.Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s) %s", b.Version, short, b.Date)
}

// commandName returns the subcommand being invoked, or "tui" for the
// default action.
func commandName(c *cli.Command) string {
	if name := c.Args().First(); name != "" {
		return name
	}
	return "tui"
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		build     = buildInfo()
		feedback  = &app.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "feedback",
		Usage:     "Collect feedback with an optional annotated screenshot",
		UsageText: "feedback [global options] command [command options]",
		Description: `Feedback records a subject, a comment and an optional screenshot.

Run 'feedback' with no arguments to open the interactive browser and press f
to open the feedback dialog. Submissions are stored in a local SQLite database.`,
		Version: versionString(build),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("FEEDBACK_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/feedback.log, - for stderr)",
				Sources:     cli.EnvVars("FEEDBACK_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("FEEDBACK_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("FEEDBACK_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile := flags.LogFile
			switch logFile {
			case "":
				logFile = filepath.Join(flags.DataDir, "feedback.log")
			case "-":
				logFile = ""
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer
			ctx = logging.WithCommand(ctx, commandName(c))

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			opened, err := app.Open(cfg, build)
			if err != nil {
				return ctx, err
			}

			// Commands already hold a pointer to the pre-allocated App.
			*feedback = *opened
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if err := feedback.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close database")
				return err
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, feedback)

	root = tuiCmd.Register(root)
	root = commands.NewLsCmd(flags, feedback).Register(root)
	root = commands.NewShowCmd(flags, feedback).Register(root)
	root = commands.NewRmCmd(flags, feedback).Register(root)
	root = commands.NewSubmitCmd(flags, feedback).Register(root)
	root = commands.NewCaptureCmd(flags, feedback).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'feedback --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
