package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	corefeedback "github.com/colonyops/feedback/internal/core/feedback"
	"github.com/colonyops/feedback/internal/core/styles"
)

// View renders the submission list with the dialog, confirm modal and toasts
// composited on top.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m Model) render() string {
	content := m.renderList()
	content = m.dialog.Overlay(content)
	if m.state == stateConfirming {
		content = m.confirm.Overlay(content, m.width, m.height)
	}
	return m.toastView.Overlay(content, m.width)
}

func (m Model) renderList() string {
	var b strings.Builder

	header := styles.CommandHeaderStyle.Render(styles.IconFeedback + " feedback")
	count := styles.ListMetaStyle.Render(fmt.Sprintf("  %d submitted", m.total))
	b.WriteString(header + count + "\n")
	b.WriteString(styles.DividerStyle.Render(strings.Repeat("─", max(m.width, 1))) + "\n")

	bodyHeight := max(m.height-4, 1)
	if len(m.items) == 0 {
		b.WriteString(styles.EmptyStateStyle.Render("No feedback yet. Press f to send some."))
	} else {
		rows := make([]string, 0, len(m.items))
		for i, sub := range m.items {
			rows = append(rows, m.renderItem(sub, i == m.cursor))
		}
		b.WriteString(clampLines(strings.Join(rows, "\n\n"), m.cursorLine(rows), bodyHeight))
	}

	body := lipgloss.NewStyle().Height(bodyHeight + 2).Render(b.String())
	help := styles.FormHelpStyle.Render(shortHelp(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}

func (m Model) renderItem(sub corefeedback.Submission, selected bool) string {
	meta := fmt.Sprintf("#%d  %s", sub.ID, humanize.Time(sub.CreatedAt))
	if sub.HasImage() {
		meta += "  " + styles.IconImage + " screenshot"
	}

	lines := []string{
		styles.ListTitleStyle.Render(ansi.Truncate(sub.Title, max(m.width-4, 10), "…")),
		styles.ListMetaStyle.Render(meta),
	}
	if comment := firstLine(sub.Comment); comment != "" {
		lines = append(lines, styles.TextMutedStyle.Render(
			styles.IconComment+" "+ansi.Truncate(comment, max(m.width-6, 10), "…")))
	}

	item := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if selected {
		return styles.ListSelectedStyle.Render(item)
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(item)
}

// cursorLine returns the first line of the selected row.
func (m Model) cursorLine(rows []string) int {
	line := 0
	for i := 0; i < m.cursor && i < len(rows); i++ {
		line += lipgloss.Height(rows[i]) + 1
	}
	return line
}

// clampLines returns at most height lines of s, scrolled so that line focus
// is visible.
func clampLines(s string, focus, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= height {
		return s
	}
	start := max(min(focus-height/2, len(lines)-height), 0)
	return strings.Join(lines[start:start+height], "\n")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func shortHelp(k KeyMap) string {
	parts := make([]string, 0, 6)
	for _, b := range k.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
