package tuitest

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

type pingMsg struct{ n int }

func TestStripANSI(t *testing.T) {
	in := "\x1b[31mred\x1b[0m   \nplain  \n\n"
	assert.Equal(t, "red\nplain", StripANSI(in))
}

func TestType(t *testing.T) {
	msgs := Type("ab")
	if assert.Len(t, msgs, 2) {
		assert.Equal(t, "a", msgs[0].(tea.KeyPressMsg).String())
		assert.Equal(t, "b", msgs[1].(tea.KeyPressMsg).String())
	}
}

func TestKeyStrings(t *testing.T) {
	assert.Equal(t, "ctrl+enter", CtrlEnter().(tea.KeyPressMsg).String())
	assert.Equal(t, "shift+tab", KeyShiftTab().(tea.KeyPressMsg).String())
	assert.Equal(t, "esc", KeyEsc().(tea.KeyPressMsg).String())
}

func TestCollect(t *testing.T) {
	fast := func(n int) tea.Cmd { return func() tea.Msg { return pingMsg{n} } }
	slow := func() tea.Msg {
		time.Sleep(time.Second)
		return pingMsg{-1}
	}

	msgs := Collect(tea.Batch(fast(1), slow, tea.Batch(fast(2), nil)), 20*time.Millisecond)
	assert.ElementsMatch(t, []tea.Msg{pingMsg{1}, pingMsg{2}}, msgs)
	assert.Empty(t, Collect(nil, time.Millisecond))
}
