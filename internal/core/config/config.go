// Package config handles configuration loading and validation for feedback.
package config

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/feedback/internal/core/capture"
	"github.com/colonyops/feedback/internal/core/styles"
	"github.com/colonyops/feedback/pkg/executil"
)

// Capture provider names.
const (
	ProviderScreen  = "screen"
	ProviderCommand = "command"
	ProviderFile    = "file"
)

// Annotation modes.
const (
	AnnotateMarker   = "marker"
	AnnotateExternal = "external"
	AnnotateNone     = "none"
)

// Config holds the application configuration.
type Config struct {
	Capture  CaptureConfig  `yaml:"capture"`
	Annotate AnnotateConfig `yaml:"annotate"`
	Dialog   DialogConfig   `yaml:"dialog"`
	TUI      TUIConfig      `yaml:"tui"`
	Database DatabaseConfig `yaml:"database"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// CaptureConfig selects where screenshots come from.
type CaptureConfig struct {
	Provider string        `yaml:"provider"` // screen, command or file
	Region   Region        `yaml:"region"`   // screen only; zero captures the whole display
	Command  []string      `yaml:"command"`  // argv of a tool writing an image to stdout
	File     string        `yaml:"file"`     // image loaded by the file provider
	Delay    time.Duration `yaml:"delay"`    // wait before grabbing so the dialog is off screen
	Timeout  time.Duration `yaml:"timeout"`
}

// Region is a screen rectangle in pixels.
type Region struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// AnnotateConfig selects the annotation surface.
type AnnotateConfig struct {
	Mode    string   `yaml:"mode"`    // marker, external or none
	Command []string `yaml:"command"` // editor argv for external mode; the image path is appended
	Width   int      `yaml:"width"`   // marker grid width in cells
}

// DialogConfig tunes the feedback dialog.
type DialogConfig struct {
	Title          string        `yaml:"title"`
	SettleDelay    time.Duration `yaml:"settle_delay"`
	ThumbnailWidth int           `yaml:"thumbnail_width"`
}

// TUIConfig holds presentation settings.
type TUIConfig struct {
	Theme     string `yaml:"theme"`
	ListLimit int    `yaml:"list_limit"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capture: CaptureConfig{
			Provider: ProviderScreen,
			Delay:    150 * time.Millisecond,
			Timeout:  30 * time.Second,
		},
		Annotate: AnnotateConfig{
			Mode:  AnnotateMarker,
			Width: 48,
		},
		Dialog: DialogConfig{
			Title:          "Got any Feedback?",
			SettleDelay:    200 * time.Millisecond,
			ThumbnailWidth: 40,
		},
		TUI: TUIConfig{
			Theme:     styles.DefaultTheme,
			ListLimit: 200,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5 * time.Second,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Capture.Provider == "" {
		c.Capture.Provider = defaults.Capture.Provider
	}
	if c.Capture.Timeout == 0 {
		c.Capture.Timeout = defaults.Capture.Timeout
	}
	if c.Annotate.Mode == "" {
		c.Annotate.Mode = defaults.Annotate.Mode
	}
	if c.Annotate.Width == 0 {
		c.Annotate.Width = defaults.Annotate.Width
	}
	if c.Dialog.Title == "" {
		c.Dialog.Title = defaults.Dialog.Title
	}
	if c.Dialog.SettleDelay == 0 {
		c.Dialog.SettleDelay = defaults.Dialog.SettleDelay
	}
	if c.Dialog.ThumbnailWidth == 0 {
		c.Dialog.ThumbnailWidth = defaults.Dialog.ThumbnailWidth
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.ListLimit == 0 {
		c.TUI.ListLimit = defaults.TUI.ListLimit
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch c.Capture.Provider {
	case ProviderScreen:
		if c.Capture.Region.Width < 0 || c.Capture.Region.Height < 0 {
			return fmt.Errorf("capture.region width and height cannot be negative")
		}
	case ProviderCommand:
		if len(c.Capture.Command) == 0 || c.Capture.Command[0] == "" {
			return fmt.Errorf("capture.command is required for the command provider")
		}
	case ProviderFile:
		if c.Capture.File == "" {
			return fmt.Errorf("capture.file is required for the file provider")
		}
	default:
		return fmt.Errorf("capture.provider %q is invalid (want screen, command or file)", c.Capture.Provider)
	}

	if c.Capture.Delay < 0 {
		return fmt.Errorf("capture.delay cannot be negative")
	}
	if c.Capture.Timeout < 0 {
		return fmt.Errorf("capture.timeout cannot be negative")
	}

	switch c.Annotate.Mode {
	case AnnotateMarker, AnnotateNone:
	case AnnotateExternal:
		if len(c.Annotate.Command) == 0 || c.Annotate.Command[0] == "" {
			return fmt.Errorf("annotate.command is required for external mode")
		}
	default:
		return fmt.Errorf("annotate.mode %q is invalid (want marker, external or none)", c.Annotate.Mode)
	}
	if c.Annotate.Width < 1 {
		return fmt.Errorf("annotate.width must be at least 1")
	}

	if c.Dialog.SettleDelay < 0 {
		return fmt.Errorf("dialog.settle_delay cannot be negative")
	}
	if c.Dialog.ThumbnailWidth < 1 {
		return fmt.Errorf("dialog.thumbnail_width must be at least 1")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is unknown", c.TUI.Theme)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns must be between 0 and max_open_conns")
	}

	return nil
}

// CaptureProvider builds the configured screenshot provider, wrapped with
// the configured delay.
func (c *Config) CaptureProvider(exec executil.Executor) (capture.Provider, error) {
	var p capture.Provider
	switch c.Capture.Provider {
	case ProviderScreen:
		p = capture.NewScreenProvider(c.Capture.Region.Rect())
	case ProviderCommand:
		cp, err := capture.NewCommandProvider(exec, c.Capture.Command)
		if err != nil {
			return nil, err
		}
		p = cp
	case ProviderFile:
		p = capture.FileProvider{Path: c.resolve(c.Capture.File)}
	default:
		return nil, fmt.Errorf("unknown capture provider %q", c.Capture.Provider)
	}

	if c.Capture.Delay > 0 {
		p = capture.Delayed{Provider: p, Delay: c.Capture.Delay}
	}
	return p, nil
}

// resolve makes path absolute relative to the data directory.
func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "feedback.log")
}

// TempDir returns the directory used for annotation scratch files.
func (c *Config) TempDir() string {
	return filepath.Join(c.DataDir, "tmp")
}
