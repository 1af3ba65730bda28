package feedback

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/feedback/internal/core/capture"
)

// captureDoneMsg is delivered when a capture started by BeginCapture settles.
type captureDoneMsg struct {
	session uint64
	ref     string
	err     error
}

// previewEncodedMsg carries the preview reference derived from an edited image.
type previewEncodedMsg struct {
	session uint64
	ref     string
}

// Controller owns the screenshot workflow state of one dialog: whether a
// capture is outstanding, the preview reference and the attached image.
//
// All mutation happens on the Bubble Tea update loop. Asynchronous results
// carry the session they were started in; Reset starts a new session, so
// results that arrive after a reset are dropped.
type Controller struct {
	provider capture.Provider
	timeout  time.Duration

	session    uint64
	capturing  bool
	preview    string
	screenshot []byte
}

// NewController creates a controller that captures with provider. A nil
// provider disables capture. timeout bounds a single capture; zero means no
// bound.
func NewController(provider capture.Provider, timeout time.Duration) *Controller {
	return &Controller{provider: provider, timeout: timeout}
}

// CanCapture reports whether a provider is configured.
func (c *Controller) CanCapture() bool { return c.provider != nil }

// Capturing reports whether a capture is outstanding.
func (c *Controller) Capturing() bool { return c.capturing }

// Preview returns the current preview reference, or "" when unset.
func (c *Controller) Preview() string { return c.preview }

// Screenshot returns the attached image, or nil when none is attached.
func (c *Controller) Screenshot() []byte { return c.screenshot }

// Annotating reports whether the annotation surface should be shown: a
// preview exists and nothing is attached yet.
func (c *Controller) Annotating() bool {
	return c.preview != "" && c.screenshot == nil
}

// BeginCapture marks a capture as outstanding and returns the command that
// runs the provider. It returns nil when no provider is configured or a
// capture is already running.
func (c *Controller) BeginCapture() tea.Cmd {
	if c.provider == nil || c.capturing {
		return nil
	}
	c.capturing = true

	provider, session, timeout := c.provider, c.session, c.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		ref, err := provider.TakeScreenshot(ctx)
		return captureDoneMsg{session: session, ref: ref, err: err}
	}
}

// handleCaptureDone applies a capture result. The in-progress flag is cleared
// for the current session whatever the outcome.
func (c *Controller) handleCaptureDone(msg captureDoneMsg) {
	if msg.session != c.session {
		log.Debug().Uint64("session", msg.session).Msg("discarding stale capture result")
		return
	}
	c.capturing = false

	if msg.err != nil {
		log.Warn().Err(msg.err).Msg("screenshot capture failed")
		return
	}
	if msg.ref == "" {
		log.Debug().Msg("screenshot capture returned no image")
		return
	}
	c.preview = msg.ref
}

// CompleteEdit attaches the edited image and returns the command that
// derives its preview reference.
func (c *Controller) CompleteEdit(image []byte) tea.Cmd {
	if len(image) == 0 {
		c.Abandon()
		return nil
	}
	c.screenshot = image

	session := c.session
	return func() tea.Msg {
		return previewEncodedMsg{session: session, ref: capture.ImageDataURL(image)}
	}
}

func (c *Controller) handlePreviewEncoded(msg previewEncodedMsg) {
	if msg.session != c.session || c.screenshot == nil {
		return
	}
	c.preview = msg.ref
}

// Abandon drops a preview that could not be annotated so the form is usable
// again. An attached screenshot is kept.
func (c *Controller) Abandon() {
	if c.screenshot == nil {
		c.preview = ""
	}
}

// Reset clears all workflow state and starts a new session. Calling it again
// without intervening work leaves the visible state unchanged.
func (c *Controller) Reset() {
	if c.capturing || c.preview != "" || c.screenshot != nil {
		c.session++
	}
	c.capturing = false
	c.preview = ""
	c.screenshot = nil
}
