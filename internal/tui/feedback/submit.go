package feedback

import (
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	corefeedback "github.com/colonyops/feedback/internal/core/feedback"
)

// formData reads the live control values keyed by field name.
func (d *Dialog) formData() map[string]any {
	return map[string]any{
		corefeedback.FieldTitle:   d.title.Value(),
		corefeedback.FieldComment: d.comment.Value(),
	}
}

// submit assembles the payload from the current form and attached image and
// hands it to OnSubmit. A missing title is reported on the title field and
// nothing is submitted. Submitting never closes or resets the dialog.
func (d *Dialog) submit() tea.Cmd {
	if !d.title.Validate() {
		return d.setFocus(focusTitle)
	}

	payload := corefeedback.FromForm(d.formData(), d.ctrl.Screenshot())
	log.Debug().
		Int("title_len", len(payload.Title)).
		Bool("image", payload.HasImage()).
		Msg("feedback submitted")

	if d.opts.OnSubmit == nil {
		return nil
	}
	return d.opts.OnSubmit(payload)
}
