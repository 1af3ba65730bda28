package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Cmd  string
	Args []string
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command names to their stdout.
	Outputs map[string][]byte

	// Errors maps command names to their error.
	Errors map[string]error
}

var _ Executor = (*RecordingExecutor)(nil)

// Output records the command and returns configured output/error.
func (e *RecordingExecutor) Output(_ context.Context, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{Cmd: cmd, Args: args})

	if e.Errors != nil {
		if err := e.Errors[cmd]; err != nil {
			return nil, err
		}
	}
	if e.Outputs != nil {
		return e.Outputs[cmd], nil
	}
	return nil, nil
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
