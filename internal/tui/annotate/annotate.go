// Package annotate provides surfaces that let the user mark up a captured
// screenshot before it is attached to feedback.
//
// A surface is started with a source image reference (a data URL) and a
// submit callback. It calls the callback exactly once per Start, when the user
// finishes editing, with the edited image encoded as PNG.
package annotate

import (
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/feedback/internal/core/capture"
)

// SubmitFunc converts the edited image into the message delivered to the owner
// of the surface.
type SubmitFunc func(image []byte) tea.Msg

// FailedMsg is emitted when a surface cannot produce an edited image (the
// source could not be decoded or the external editor failed).
type FailedMsg struct {
	Err error
}

// Surface is an image annotation surface.
type Surface interface {
	// Start begins an editing session for src.
	Start(src string, onSubmit SubmitFunc) tea.Cmd
	// Update handles input while the session is active.
	Update(msg tea.Msg) tea.Cmd
	// View renders the surface. Surfaces that run outside the terminal UI
	// return a short status line.
	View() string
}

// Passthrough attaches the captured image without editing it.
type Passthrough struct{}

func (Passthrough) Start(src string, onSubmit SubmitFunc) tea.Cmd {
	return func() tea.Msg {
		_, data, err := capture.DecodeDataURL(src)
		if err != nil {
			return FailedMsg{Err: err}
		}
		return onSubmit(data)
	}
}

func (Passthrough) Update(tea.Msg) tea.Cmd { return nil }
func (Passthrough) View() string           { return "" }
