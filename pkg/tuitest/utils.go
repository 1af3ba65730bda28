// Package tuitest provides testing utilities for TUI components.
package tuitest

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape codes and trailing whitespace so rendered
// views can be compared as plain text.
func StripANSI(s string) string {
	s = ansi.Strip(s)
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		result = append(result, strings.TrimRight(line, " "))
	}
	return strings.TrimRight(strings.Join(result, "\n"), "\n")
}

// KeyPress creates a key press message for a single rune.
func KeyPress(key rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: key, Text: string(key)})
}

// Type returns one key press per rune of s, as a user typing it.
func Type(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, KeyPress(r))
	}
	return msgs
}

// Key creates a key press message for a special key code with optional
// modifiers.
func Key(code rune, mod tea.KeyMod) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: code, Mod: mod})
}

// KeyDown creates a down arrow key press message.
func KeyDown() tea.Msg { return Key(tea.KeyDown, 0) }

// KeyUp creates an up arrow key press message.
func KeyUp() tea.Msg { return Key(tea.KeyUp, 0) }

// KeyEnter creates an enter key press message.
func KeyEnter() tea.Msg { return Key(tea.KeyEnter, 0) }

// KeyEsc creates an escape key press message.
func KeyEsc() tea.Msg { return Key(tea.KeyEscape, 0) }

// KeyTab creates a tab key press message.
func KeyTab() tea.Msg { return Key(tea.KeyTab, 0) }

// KeyShiftTab creates a shift+tab key press message.
func KeyShiftTab() tea.Msg { return Key(tea.KeyTab, tea.ModShift) }

// CtrlEnter creates a ctrl+enter key press message.
func CtrlEnter() tea.Msg { return Key(tea.KeyEnter, tea.ModCtrl) }

// SuperEnter creates a cmd/super+enter key press message.
func SuperEnter() tea.Msg { return Key(tea.KeyEnter, tea.ModSuper) }

// Click creates a left mouse click at x, y.
func Click(x, y int) tea.Msg {
	return tea.MouseClickMsg(tea.Mouse{X: x, Y: y, Button: tea.MouseLeft})
}

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}

// Collect runs cmd and returns the messages it produces. Batches are
// flattened. Commands still running after wait (cursor blinks, ticks) are
// abandoned, so only prompt results are returned. Returned messages are not
// fed back into any model.
func Collect(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}

		done := make(chan tea.Msg, 1)
		go func() { done <- c() }()

		var msg tea.Msg
		select {
		case msg = <-done:
		case <-time.After(wait):
			continue
		}

		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg != nil {
			out = append(out, msg)
		}
	}
	return out
}
