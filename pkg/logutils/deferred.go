package logutils

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DefaultDeferredLimit is the buffer cap used when NewDeferred gets limit <= 0.
const DefaultDeferredLimit = 1 << 20

// Deferred holds log output in memory while the terminal is owned by the TUI
// and replays it on Flush. Writes that would exceed the limit are dropped and
// counted. Safe for concurrent use.
type Deferred struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	limit   int
	dropped int
}

// NewDeferred returns a Deferred keeping at most limit bytes.
func NewDeferred(limit int) *Deferred {
	if limit <= 0 {
		limit = DefaultDeferredLimit
	}
	return &Deferred{limit: limit}
}

// Write buffers p, or drops it once the limit is reached. It never fails so
// the logger keeps running.
func (d *Deferred) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len()+len(p) > d.limit {
		d.dropped++
		return len(p), nil
	}
	return d.buf.Write(p)
}

// Dropped returns how many writes were discarded.
func (d *Deferred) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Flush writes all buffered data to w and clears the buffer.
func (d *Deferred) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len() > 0 {
		if _, err := d.buf.WriteTo(w); err != nil {
			return err
		}
	}
	if d.dropped > 0 {
		_, err := fmt.Fprintf(w, "(%d log lines dropped)\n", d.dropped)
		d.dropped = 0
		return err
	}
	return nil
}
