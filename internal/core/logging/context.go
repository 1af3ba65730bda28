package logging

import "context"

type contextKey string

const (
	commandKey    contextKey = "command"
	submissionKey contextKey = "submission"
)

// WithCommand records the CLI command being run.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// GetCommand returns the command name, or "" if not present.
func GetCommand(ctx context.Context) string {
	if name, ok := ctx.Value(commandKey).(string); ok {
		return name
	}
	return ""
}

// WithSubmission records the submission an operation acts on.
func WithSubmission(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, submissionKey, id)
}

// GetSubmission returns the submission ID, or 0 if not present.
func GetSubmission(ctx context.Context) int64 {
	if id, ok := ctx.Value(submissionKey).(int64); ok {
		return id
	}
	return 0
}
