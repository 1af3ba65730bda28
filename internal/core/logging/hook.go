package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the command and submission recorded in an event's
// context onto the event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if name := GetCommand(ctx); name != "" {
		e.Str("command", name)
	}
	if id := GetSubmission(ctx); id != 0 {
		e.Int64("submission", id)
	}
}
