// Package executil runs external commands whose stdout carries binary data.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const maxStderrLen = 500

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Executor runs external commands.
type Executor interface {
	// Output runs cmd and returns its stdout. Stderr is only used to build
	// the error message on failure.
	Output(ctx context.Context, cmd string, args ...string) ([]byte, error)
}

// RealExecutor runs actual processes.
type RealExecutor struct{}

// Output executes cmd and returns stdout untouched so binary output (images)
// survives. On failure stderr is returned as the error message, capped at 500
// bytes. The original *exec.ExitError is preserved via wrapping.
func (e *RealExecutor) Output(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd, args...)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}

	if err := c.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("exec %s: %s: %w", cmd, msg, err)
		}
		return nil, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return stdout.Bytes(), nil
}
