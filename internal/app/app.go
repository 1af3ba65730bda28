// Package app wires configuration, storage and capture into the pieces the
// commands and the TUI consume.
package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/feedback/internal/core/capture"
	"github.com/colonyops/feedback/internal/core/config"
	"github.com/colonyops/feedback/internal/data/db"
	"github.com/colonyops/feedback/internal/data/stores"
	"github.com/colonyops/feedback/internal/tui/annotate"
	"github.com/colonyops/feedback/internal/tui/feedback"
	"github.com/colonyops/feedback/pkg/executil"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// App is the central entry point for feedback operations.
// Commands and the TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config *config.Config
	DB     *db.DB
	Store  *stores.FeedbackStore
	Exec   executil.Executor
	Build  BuildInfo
}

// Open opens the database for cfg and builds the App. A corrupted database is
// moved aside and recreated.
func Open(cfg *config.Config, build BuildInfo) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err != nil && stores.IsCorruptionError(err) {
		backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
		if rerr != nil {
			return nil, fmt.Errorf("recover corrupted database: %w", rerr)
		}
		log.Warn().Err(err).Str("backup", backup).Msg("database corrupted, starting fresh")
		database, err = db.Open(cfg.DataDir, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &App{
		Config: cfg,
		DB:     database,
		Store:  stores.NewFeedbackStore(database),
		Exec:   &executil.RealExecutor{},
		Build:  build,
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// CaptureProvider builds the configured screenshot provider.
func (a *App) CaptureProvider() (capture.Provider, error) {
	return a.Config.CaptureProvider(a.Exec)
}

// AnnotateSurface builds the configured annotation surface.
func (a *App) AnnotateSurface() (annotate.Surface, error) {
	switch a.Config.Annotate.Mode {
	case config.AnnotateMarker:
		return annotate.NewMarker(a.Config.Annotate.Width), nil
	case config.AnnotateExternal:
		if err := os.MkdirAll(a.Config.TempDir(), 0o755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		return annotate.NewExternal(a.Config.Annotate.Command, a.Config.TempDir())
	default:
		return annotate.Passthrough{}, nil
	}
}

// DialogOptions builds the feedback dialog options from config. OnClose and
// OnSubmit are left for the host to set.
func (a *App) DialogOptions() (feedback.Options, error) {
	provider, err := a.CaptureProvider()
	if err != nil {
		return feedback.Options{}, fmt.Errorf("capture provider: %w", err)
	}
	surface, err := a.AnnotateSurface()
	if err != nil {
		return feedback.Options{}, fmt.Errorf("annotate surface: %w", err)
	}

	return feedback.Options{
		Title:          a.Config.Dialog.Title,
		SettleDelay:    a.Config.Dialog.SettleDelay,
		ThumbnailWidth: a.Config.Dialog.ThumbnailWidth,
		Provider:       provider,
		CaptureTimeout: a.Config.Capture.Timeout,
		Surface:        surface,
	}, nil
}

// Warnings lists non-fatal configuration issues for display at startup.
func (a *App) Warnings() []string {
	warnings := a.Config.Warnings()
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}
