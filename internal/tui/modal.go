package tui

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/feedback/internal/core/styles"
)

// Modal is a confirm/cancel dialog used before destructive actions.
type Modal struct {
	title           string
	message         string
	visible         bool
	confirmSelected bool
}

// NewModal creates a visible modal with the confirm button selected.
func NewModal(title, message string) Modal {
	return Modal{
		title:           title,
		message:         message,
		visible:         true,
		confirmSelected: true,
	}
}

// ToggleSelection switches the selected button.
func (m *Modal) ToggleSelection() {
	m.confirmSelected = !m.confirmSelected
}

// ConfirmSelected returns true if the confirm button is selected.
func (m Modal) ConfirmSelected() bool {
	return m.confirmSelected
}

// Visible returns whether the modal should be displayed.
func (m Modal) Visible() bool {
	return m.visible
}

// modalResult is the outcome of a key press on the modal.
type modalResult int

const (
	modalPending modalResult = iota
	modalConfirmed
	modalCancelled
)

// HandleKey applies a key press and reports whether the modal was answered.
func (m *Modal) HandleKey(msg tea.KeyPressMsg) modalResult {
	switch msg.String() {
	case "left", "right", "h", "l", "tab":
		m.ToggleSelection()
	case "y":
		return modalConfirmed
	case "n", "esc":
		return modalCancelled
	case "enter":
		if m.confirmSelected {
			return modalConfirmed
		}
		return modalCancelled
	}
	return modalPending
}

// Overlay composites the modal centred over background.
func (m Modal) Overlay(background string, width, height int) string {
	if !m.visible {
		return background
	}

	confirmStyle, cancelStyle := styles.ModalButtonSelectedStyle, styles.ModalButtonStyle
	if !m.confirmSelected {
		confirmStyle, cancelStyle = cancelStyle, confirmStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		confirmStyle.Render("Confirm"), "  ", cancelStyle.Render("Cancel"))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		m.message,
		"",
		buttons,
		styles.ModalHelpStyle.Render("←/→ select  enter confirm  esc cancel"),
	)
	modal := styles.ModalStyle.Render(content)

	x := max((width-lipgloss.Width(modal))/2, 0)
	y := max((height-lipgloss.Height(modal))/2, 0)
	layer := lipgloss.NewLayer(modal).X(x).Y(y).Z(1)
	return lipgloss.NewCompositor(lipgloss.NewLayer(background), layer).Render()
}
