// Package feedback defines the feedback payload handed off by the dialog and
// the store contract used to persist submitted feedback.
package feedback

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Form field names read by the submission assembler.
const (
	FieldTitle   = "title"
	FieldComment = "comment"
)

// ErrNotFound is returned when a submission does not exist.
var ErrNotFound = errors.New("feedback not found")

// Payload is produced once per submit and handed to the caller. Image is nil
// when no screenshot was attached.
type Payload struct {
	Title   string
	Comment string
	Image   []byte
}

// HasImage reports whether a screenshot is attached.
func (p Payload) HasImage() bool { return len(p.Image) > 0 }

// Submission is a persisted payload.
type Submission struct {
	ID        int64
	Ref       string
	Title     string
	Comment   string
	Image     []byte
	ImageType string
	CreatedAt time.Time
}

// HasImage reports whether the submission carries a screenshot.
func (s Submission) HasImage() bool { return len(s.Image) > 0 }

// Store persists submitted feedback.
type Store interface {
	Save(ctx context.Context, p Payload) (Submission, error)
	List(ctx context.Context, limit int) ([]Submission, error)
	Get(ctx context.Context, id int64) (Submission, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// FieldString returns v trimmed of surrounding whitespace when it is a
// string and "" for any other type.
func FieldString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// FromForm assembles a payload from raw form values and the attached image.
func FromForm(values map[string]any, image []byte) Payload {
	return Payload{
		Title:   FieldString(values[FieldTitle]),
		Comment: FieldString(values[FieldComment]),
		Image:   image,
	}
}
