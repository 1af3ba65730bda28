package form

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/feedback/pkg/tuitest"
)

func TestTextAreaField(t *testing.T) {
	t.Run("creation with defaults", func(t *testing.T) {
		f := NewTextAreaField("Description", "enter text", "")
		assert.Equal(t, "Description", f.Label())
		assert.Empty(t, f.Value())
		assert.False(t, f.Focused())
	})

	t.Run("creation with default value", func(t *testing.T) {
		f := NewTextAreaField("Description", "", "hello world")
		assert.Equal(t, "hello world", f.Value())
	})

	t.Run("focus and blur", func(t *testing.T) {
		f := NewTextAreaField("Description", "", "")
		assert.False(t, f.Focused())

		f.Focus()
		assert.True(t, f.Focused())

		f.Blur()
		assert.False(t, f.Focused())
	})

	t.Run("update ignored when not focused", func(t *testing.T) {
		f := NewTextAreaField("Description", "", "")
		field, cmd := f.Update(tea.KeyPressMsg(tea.Key{Code: 'a'}))
		assert.Nil(t, cmd)
		assert.Empty(t, field.Value())
	})

	t.Run("view renders without panic", func(t *testing.T) {
		f := NewTextAreaField("Description", "placeholder", "")
		view := f.View()
		assert.Contains(t, view, "Description")
	})

	t.Run("view changes with focus", func(t *testing.T) {
		f := NewTextAreaField("Description", "", "")
		unfocused := f.View()

		f.Focus()
		focused := f.View()

		assert.NotEqual(t, unfocused, focused)
	})

	t.Run("reset clears value", func(t *testing.T) {
		f := NewTextAreaField("Comment", "", "line one\nline two")
		f.Reset()
		assert.Empty(t, f.Value())
	})

	t.Run("typing appends when focused", func(t *testing.T) {
		f := NewTextAreaField("Comment", "", "")
		f.Focus()
		f.Update(tea.KeyPressMsg(tea.Key{Code: 'o', Text: "o"}))
		f.Update(tea.KeyPressMsg(tea.Key{Code: 'k', Text: "k"}))
		assert.Equal(t, "ok", f.Value())
	})
}

func TestTextAreaField_Validation(t *testing.T) {
	t.Run("counter shown with max length", func(t *testing.T) {
		f := NewTextAreaField("Comment", "", "hello").WithValidation(FieldValidation{MaxLength: 10})
		assert.Contains(t, tuitest.StripANSI(f.View()), "5/10")
	})

	t.Run("no counter without max length", func(t *testing.T) {
		f := NewTextAreaField("Comment", "", "hello")
		assert.NotContains(t, tuitest.StripANSI(f.View()), "/")
	})

	t.Run("over the limit fails", func(t *testing.T) {
		f := NewTextAreaField("Comment", "", "way too long").WithValidation(FieldValidation{MaxLength: 3})
		assert.False(t, f.Validate())
		assert.Equal(t, "maximum 3 characters", f.Error())
		assert.Contains(t, tuitest.StripANSI(f.View()), "maximum 3 characters")
	})

	t.Run("optional empty passes", func(t *testing.T) {
		f := NewTextAreaField("Comment", "", "")
		assert.True(t, f.Validate())
		assert.Empty(t, f.Error())
	})

	t.Run("reset clears error", func(t *testing.T) {
		f := NewTextAreaField("Comment", "", "").WithValidation(FieldValidation{Required: true})
		require.False(t, f.Validate())
		f.Reset()
		assert.Empty(t, f.Error())
	})
}
