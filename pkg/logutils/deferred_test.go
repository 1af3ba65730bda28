package logutils

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferred_FlushReplaysInOrder(t *testing.T) {
	d := NewDeferred(0)
	_, _ = d.Write([]byte("one\n"))
	_, _ = d.Write([]byte("two\n"))

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, "one\ntwo\n", out.String())

	out.Reset()
	require.NoError(t, d.Flush(&out))
	assert.Empty(t, out.String(), "flush clears the buffer")
}

func TestDeferred_Limit(t *testing.T) {
	d := NewDeferred(8)

	n, err := d.Write([]byte("1234"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = d.Write([]byte("56789"))
	require.NoError(t, err)
	assert.Equal(t, 5, n, "dropped writes still report success")
	assert.Equal(t, 1, d.Dropped())

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, "1234(1 log lines dropped)\n", out.String())
	assert.Zero(t, d.Dropped())
}

func TestDeferred_Concurrent(t *testing.T) {
	d := NewDeferred(0)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = fmt.Fprintf(d, "line %d\n", i)
		}()
	}
	wg.Wait()

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, 20, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestDeferred_AsLoggerOutput(t *testing.T) {
	d := NewDeferred(0)
	l := zerolog.New(d)
	l.Info().Msg("while tui runs")

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Contains(t, out.String(), "while tui runs")
}
