// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/feedback/internal/core/feedback"
)

// Title validates a feedback title is non-empty after trimming whitespace.
func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// ImageType validates that a sniffed MIME type is an image.
func ImageType(mime string) error {
	if mime == "" {
		return nil
	}
	if !strings.HasPrefix(mime, "image/") {
		return fmt.Errorf("attachment is %s, not an image", mime)
	}
	return nil
}

// Payload validates a payload before it is stored. Errors are returned as
// criterio field errors keyed by form field name.
func Payload(p feedback.Payload, mime string) error {
	return criterio.ValidateStruct(
		criterio.Run(feedback.FieldTitle, p.Title, Title),
		criterio.Run("image", mime, ImageType),
	)
}
