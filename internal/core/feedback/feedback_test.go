package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "trims both sides", in: "  Foo  ", want: "Foo"},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \t\n ", want: ""},
		{name: "inner whitespace kept", in: " a  b ", want: "a  b"},
		{name: "nil", in: nil, want: ""},
		{name: "non string", in: 42, want: ""},
		{name: "byte slice", in: []byte("x"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldString(tt.in))
		})
	}
}

func TestFromForm(t *testing.T) {
	t.Run("no image", func(t *testing.T) {
		p := FromForm(map[string]any{
			FieldTitle:   "Bug",
			FieldComment: "It crashes",
		}, nil)

		assert.Equal(t, Payload{Title: "Bug", Comment: "It crashes"}, p)
		assert.False(t, p.HasImage())
	})

	t.Run("missing comment", func(t *testing.T) {
		p := FromForm(map[string]any{FieldTitle: " t "}, nil)
		assert.Equal(t, "t", p.Title)
		assert.Empty(t, p.Comment)
	})

	t.Run("image attached", func(t *testing.T) {
		img := []byte{1, 2, 3}
		p := FromForm(map[string]any{FieldTitle: "t", FieldComment: "   "}, img)
		assert.Equal(t, img, p.Image)
		assert.Empty(t, p.Comment)
		assert.True(t, p.HasImage())
	})
}
