package form

import (
	"fmt"
	"unicode/utf8"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/feedback/internal/core/styles"
)

const defaultTextAreaHeight = 4

// TextAreaField is a multi-line text input form field. When a maximum length
// is set, a character counter is shown under the input.
type TextAreaField struct {
	input      textarea.Model
	label      string
	focused    bool
	validation FieldValidation
	err        string
}

// NewTextAreaField creates a new multi-line text input field.
func NewTextAreaField(label, placeholder, defaultVal string) *TextAreaField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(defaultTextAreaHeight)
	ta.SetWidth(40)

	if defaultVal != "" {
		ta.SetValue(defaultVal)
	}

	return &TextAreaField{
		input: ta,
		label: label,
	}
}

// WithValidation sets the rules checked by Validate.
func (f *TextAreaField) WithValidation(v FieldValidation) *TextAreaField {
	f.validation = v
	return f
}

// SetWidth sets the textarea width in cells.
func (f *TextAreaField) SetWidth(w int) { f.input.SetWidth(w) }

// SetHeight sets the number of visible lines.
func (f *TextAreaField) SetHeight(h int) { f.input.SetHeight(h) }

func (f *TextAreaField) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if _, ok := msg.(tea.KeyPressMsg); ok && f.err != "" {
		f.err = f.validation.ValidateText(f.input.Value())
	}
	return f, cmd
}

// Validate checks the current value, records the error for display and
// reports whether the value is acceptable.
func (f *TextAreaField) Validate() bool {
	f.err = f.validation.ValidateText(f.input.Value())
	return f.err == ""
}

// Error returns the current validation error, if any.
func (f *TextAreaField) Error() string { return f.err }

func (f *TextAreaField) View() string {
	titleStyle := styles.TextMutedStyle
	if f.focused {
		titleStyle = styles.FormTitleStyle
	}
	label := f.label
	if f.validation.Required {
		label += " *"
	}

	parts := []string{titleStyle.Render(label), f.input.View()}
	if f.validation.MaxLength > 0 {
		parts = append(parts, f.counter())
	}
	if f.err != "" {
		parts = append(parts, styles.FormErrorStyle.Render(f.err))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	borderStyle := styles.FormFieldStyle
	if f.focused {
		borderStyle = styles.FormFieldFocusedStyle
	}

	return borderStyle.Render(content)
}

// counter renders "used/max", in the error style once over the limit.
func (f *TextAreaField) counter() string {
	n := utf8.RuneCountInString(f.input.Value())
	text := fmt.Sprintf("%d/%d", n, f.validation.MaxLength)
	if n > f.validation.MaxLength {
		return styles.FormErrorStyle.Render(text)
	}
	return styles.TextMutedStyle.Render(text)
}

func (f *TextAreaField) Focus() tea.Cmd {
	f.focused = true
	return f.input.Focus()
}

func (f *TextAreaField) Blur() {
	f.focused = false
	f.input.Blur()
}

func (f *TextAreaField) Reset() {
	f.input.Reset()
	f.err = ""
}

func (f *TextAreaField) Focused() bool { return f.focused }
func (f *TextAreaField) Value() any    { return f.input.Value() }
func (f *TextAreaField) Label() string { return f.label }
