package form

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/feedback/internal/core/styles"
)

// TextField is a single-line text input form field.
type TextField struct {
	input      textinput.Model
	label      string
	focused    bool
	validation FieldValidation
	err        string
}

// NewTextField creates a new single-line text input field.
func NewTextField(label, placeholder, defaultVal string) *TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.SetWidth(40)

	if defaultVal != "" {
		ti.SetValue(defaultVal)
	}

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(inputStyles)

	return &TextField{
		input: ti,
		label: label,
	}
}

// WithValidation sets the rules checked by Validate.
func (f *TextField) WithValidation(v FieldValidation) *TextField {
	f.validation = v
	return f
}

// SetWidth sets the input width in cells.
func (f *TextField) SetWidth(w int) { f.input.SetWidth(w) }

func (f *TextField) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if _, ok := msg.(tea.KeyPressMsg); ok && f.err != "" {
		// Editing clears a stale error once the value becomes valid.
		f.err = f.validation.ValidateText(f.input.Value())
	}
	return f, cmd
}

// Validate checks the current value, records the error for display and
// reports whether the value is acceptable.
func (f *TextField) Validate() bool {
	f.err = f.validation.ValidateText(f.input.Value())
	return f.err == ""
}

// Error returns the current validation error, if any.
func (f *TextField) Error() string { return f.err }

func (f *TextField) View() string {
	titleStyle := styles.TextMutedStyle
	if f.focused {
		titleStyle = styles.FormTitleStyle
	}
	label := f.label
	if f.validation.Required {
		label += " *"
	}
	title := titleStyle.Render(label)

	parts := []string{title, f.input.View()}
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

func (f *TextField) Focus() tea.Cmd {
	f.focused = true
	return f.input.Focus()
}

func (f *TextField) Blur() {
	f.focused = false
	f.input.Blur()
}

func (f *TextField) Reset() {
	f.input.Reset()
	f.err = ""
}

func (f *TextField) Focused() bool { return f.focused }
func (f *TextField) Value() any    { return f.input.Value() }
func (f *TextField) Label() string { return f.label }
