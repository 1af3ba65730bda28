package annotate

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/feedback/internal/core/capture"
)

// External runs an image editor as a child process. The TUI is suspended
// while the editor runs; the file the editor saves is submitted as the edited
// image.
type External struct {
	argv    []string
	tempDir string
}

// NewExternal creates a surface for argv; the image path is appended as the
// last argument. tempDir may be empty to use the system default.
func NewExternal(argv []string, tempDir string) (*External, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("annotate command is empty")
	}
	return &External{argv: argv, tempDir: tempDir}, nil
}

func (e *External) Start(src string, onSubmit SubmitFunc) tea.Cmd {
	_, data, err := capture.DecodeDataURL(src)
	if err != nil {
		return failed(err)
	}

	f, err := os.CreateTemp(e.tempDir, "feedback-*.png")
	if err != nil {
		return failed(fmt.Errorf("create temp image: %w", err))
	}
	path := f.Name()

	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(path)
		return failed(fmt.Errorf("write temp image: %w", err))
	}

	args := append(append([]string{}, e.argv[1:]...), path)
	c := exec.Command(e.argv[0], args...)

	log.Debug().Str("editor", e.argv[0]).Str("file", filepath.Base(path)).Msg("starting external annotator")

	return tea.ExecProcess(c, func(err error) tea.Msg {
		defer func() { _ = os.Remove(path) }()

		if err != nil {
			return FailedMsg{Err: fmt.Errorf("annotator %s: %w", e.argv[0], err)}
		}

		edited, err := os.ReadFile(path)
		if err != nil {
			return FailedMsg{Err: fmt.Errorf("read annotated image: %w", err)}
		}
		if len(edited) == 0 {
			return FailedMsg{Err: errors.New("annotated image is empty")}
		}
		return onSubmit(edited)
	})
}

func (e *External) Update(tea.Msg) tea.Cmd { return nil }

func (e *External) View() string {
	return "Waiting for " + filepath.Base(e.argv[0]) + " to finish..."
}

func failed(err error) tea.Cmd {
	return func() tea.Msg { return FailedMsg{Err: err} }
}
