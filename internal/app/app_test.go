package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/feedback/internal/core/capture"
	"github.com/colonyops/feedback/internal/core/config"
	corefeedback "github.com/colonyops/feedback/internal/core/feedback"
	"github.com/colonyops/feedback/internal/data/db"
	"github.com/colonyops/feedback/internal/tui/annotate"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func openApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := Open(cfg, BuildInfo{Version: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestOpen(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	assert.Equal(t, filepath.Join(cfg.DataDir, db.FileName), a.DB.Path())

	sub, err := a.Store.Save(context.Background(), corefeedback.Payload{Title: "works"})
	require.NoError(t, err)
	assert.Equal(t, "works", sub.Title)
}

func TestOpen_CreatesDataDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataDir = filepath.Join(cfg.DataDir, "nested", "dir")

	openApp(t, cfg)
	assert.DirExists(t, cfg.DataDir)
}

func TestOpen_RecoversFromCorruption(t *testing.T) {
	cfg := testConfig(t)
	garbage := []byte(strings.Repeat("this is not a sqlite database ", 200))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, db.FileName), garbage, 0o644))

	a := openApp(t, cfg)

	n, err := a.Store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	backups, err := filepath.Glob(filepath.Join(cfg.DataDir, db.FileName+".corrupt.*"))
	require.NoError(t, err)
	assert.NotEmpty(t, backups)
}

func TestAnnotateSurface(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*config.Config)
		want  any
	}{
		{"marker", func(*config.Config) {}, &annotate.Marker{}},
		{"none", func(c *config.Config) { c.Annotate.Mode = config.AnnotateNone }, annotate.Passthrough{}},
		{"external", func(c *config.Config) {
			c.Annotate.Mode = config.AnnotateExternal
			c.Annotate.Command = []string{"gimp"}
		}, &annotate.External{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.setup(cfg)
			a := &App{Config: cfg}

			s, err := a.AnnotateSurface()
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestDialogOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Capture.Provider = config.ProviderFile
	cfg.Capture.File = "shot.png"
	cfg.Capture.Delay = 0
	cfg.Dialog.Title = "Tell us"
	a := &App{Config: cfg}

	opts, err := a.DialogOptions()
	require.NoError(t, err)

	assert.Equal(t, "Tell us", opts.Title)
	assert.Equal(t, cfg.Dialog.SettleDelay, opts.SettleDelay)
	assert.Equal(t, cfg.Dialog.ThumbnailWidth, opts.ThumbnailWidth)
	assert.Equal(t, cfg.Capture.Timeout, opts.CaptureTimeout)
	assert.Equal(t, capture.FileProvider{Path: filepath.Join(cfg.DataDir, "shot.png")}, opts.Provider)
	assert.IsType(t, &annotate.Marker{}, opts.Surface)
	assert.Nil(t, opts.OnSubmit)
}

func TestWarnings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Capture.Provider = config.ProviderFile
	cfg.Capture.File = "shot.png"
	cfg.Capture.Delay = 0
	a := &App{Config: cfg}

	warnings := a.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "capture.delay is 0")
}
