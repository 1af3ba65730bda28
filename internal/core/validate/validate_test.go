package validate

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/feedback/internal/core/feedback"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid title", "Broken button", false},
		{"surrounding spaces", "  ok  ", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs and newlines", "\t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Title(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Title(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestImageType(t *testing.T) {
	assert.NoError(t, ImageType(""))
	assert.NoError(t, ImageType("image/png"))
	assert.Error(t, ImageType("text/plain; charset=utf-8"))
}

func TestPayload(t *testing.T) {
	assert.NoError(t, Payload(feedback.Payload{Title: "ok"}, ""))

	err := Payload(feedback.Payload{Title: " "}, "application/octet-stream")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 2)
	assert.Equal(t, feedback.FieldTitle, fieldErrs[0].Field)
	assert.Equal(t, "image", fieldErrs[1].Field)
}
