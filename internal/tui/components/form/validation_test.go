package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldValidation_ValidateText(t *testing.T) {
	tests := []struct {
		name  string
		v     FieldValidation
		value string
		want  string
	}{
		{"no rules, empty", FieldValidation{}, "", ""},
		{"no rules, non-empty", FieldValidation{}, "hello", ""},
		{"required, empty", FieldValidation{Required: true}, "", "required"},
		{"required, whitespace", FieldValidation{Required: true}, "  \t ", "required"},
		{"required, non-empty", FieldValidation{Required: true}, " hello ", ""},
		{"max_length, too long", FieldValidation{MaxLength: 3}, "hello", "maximum 3 characters"},
		{"max_length, exact", FieldValidation{MaxLength: 5}, "hello", ""},
		{"max_length, counts runes", FieldValidation{MaxLength: 2}, "éé", ""},
		{"max_length, ignores padding", FieldValidation{MaxLength: 3}, "  abc  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.ValidateText(tt.value)
			assert.Equal(t, tt.want, got)
		})
	}
}
