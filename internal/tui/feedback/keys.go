package feedback

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// KeyMap holds the dialog key bindings.
type KeyMap struct {
	Next          key.Binding
	Prev          key.Binding
	Activate      key.Binding
	Cancel        key.Binding
	SubmitComment key.Binding
	Submit        key.Binding
}

// DefaultKeyMap returns the default dialog bindings. Cmd+Enter arrives as
// super+enter on terminals that report the super modifier.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:          key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:          key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Activate:      key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "select")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		SubmitComment: key.NewBinding(key.WithKeys("ctrl+enter", "super+enter"), key.WithHelp("ctrl+enter", "send")),
		Submit:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
	}
}

// helpLine renders bindings as "key: desc" pairs.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// isKey reports whether msg is a key press matching b.
func isKey(msg tea.Msg, b key.Binding) bool {
	k, ok := msg.(tea.KeyPressMsg)
	return ok && key.Matches(k, b)
}
