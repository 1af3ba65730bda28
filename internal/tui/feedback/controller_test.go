package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/feedback/internal/core/capture"
)

const testRef = "data:image/png;base64,iVBORw0KGgo="

func staticProvider(ref string, err error) capture.Provider {
	return capture.Func(func(context.Context) (string, error) { return ref, err })
}

func runCapture(t *testing.T, c *Controller) captureDoneMsg {
	t.Helper()
	cmd := c.BeginCapture()
	require.NotNil(t, cmd)
	msg, ok := cmd().(captureDoneMsg)
	require.True(t, ok)
	return msg
}

func TestController_CaptureSuccess(t *testing.T) {
	c := NewController(staticProvider(testRef, nil), 0)

	cmd := c.BeginCapture()
	require.NotNil(t, cmd)
	assert.True(t, c.Capturing())
	assert.Nil(t, c.BeginCapture(), "second capture while one is outstanding")

	c.handleCaptureDone(cmd().(captureDoneMsg))
	assert.False(t, c.Capturing())
	assert.Equal(t, testRef, c.Preview())
	assert.Nil(t, c.Screenshot())
	assert.True(t, c.Annotating())
}

func TestController_CaptureFailureClearsFlag(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		err  error
	}{
		{"provider error", "", errors.New("no display")},
		{"cancelled", "", context.Canceled},
		{"empty result", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(staticProvider(tt.ref, tt.err), 0)
			c.handleCaptureDone(runCapture(t, c))

			assert.False(t, c.Capturing())
			assert.Empty(t, c.Preview())
			assert.False(t, c.Annotating())
		})
	}
}

func TestController_NoProvider(t *testing.T) {
	c := NewController(nil, 0)
	assert.False(t, c.CanCapture())
	assert.Nil(t, c.BeginCapture())
	assert.False(t, c.Capturing())
}

func TestController_CompleteEdit(t *testing.T) {
	c := NewController(staticProvider(testRef, nil), 0)
	c.handleCaptureDone(runCapture(t, c))
	require.True(t, c.Annotating())

	edited := []byte("\x89PNG\r\n\x1a\nedited")
	cmd := c.CompleteEdit(edited)
	require.NotNil(t, cmd)
	assert.Equal(t, edited, c.Screenshot())
	assert.False(t, c.Annotating(), "attached image ends annotation")

	c.handlePreviewEncoded(cmd().(previewEncodedMsg))
	assert.Equal(t, capture.EncodeDataURL(capture.MimePNG, edited), c.Preview())
	assert.False(t, c.Annotating())
}

func TestController_CompleteEditEmptyAbandons(t *testing.T) {
	c := NewController(staticProvider(testRef, nil), 0)
	c.handleCaptureDone(runCapture(t, c))

	assert.Nil(t, c.CompleteEdit(nil))
	assert.Nil(t, c.Screenshot())
	assert.Empty(t, c.Preview())
}

func TestController_AnnotatingInvariant(t *testing.T) {
	c := NewController(staticProvider(testRef, nil), 0)
	check := func() {
		assert.Equal(t, c.Preview() != "" && c.Screenshot() == nil, c.Annotating())
	}

	check()
	cmd := c.BeginCapture()
	check()
	c.handleCaptureDone(cmd().(captureDoneMsg))
	check()
	enc := c.CompleteEdit([]byte("img"))
	check()
	c.handlePreviewEncoded(enc().(previewEncodedMsg))
	check()
	c.Reset()
	check()
}

func TestController_ResetIdempotent(t *testing.T) {
	c := NewController(staticProvider(testRef, nil), 0)
	c.handleCaptureDone(runCapture(t, c))
	c.CompleteEdit([]byte("img"))

	c.Reset()
	session := c.session
	c.Reset()
	c.Reset()

	assert.Equal(t, session, c.session)
	assert.False(t, c.Capturing())
	assert.Empty(t, c.Preview())
	assert.Nil(t, c.Screenshot())
}

func TestController_StaleResultsDiscarded(t *testing.T) {
	t.Run("capture finishing after reset", func(t *testing.T) {
		c := NewController(staticProvider(testRef, nil), 0)
		cmd := c.BeginCapture()
		c.Reset()
		assert.False(t, c.Capturing())

		c.handleCaptureDone(cmd().(captureDoneMsg))
		assert.Empty(t, c.Preview())
		assert.False(t, c.Capturing())
	})

	t.Run("stale capture does not clear a newer capture", func(t *testing.T) {
		c := NewController(staticProvider(testRef, nil), 0)
		stale := c.BeginCapture()
		c.Reset()

		fresh := c.BeginCapture()
		c.handleCaptureDone(stale().(captureDoneMsg))
		assert.True(t, c.Capturing())

		c.handleCaptureDone(fresh().(captureDoneMsg))
		assert.False(t, c.Capturing())
		assert.Equal(t, testRef, c.Preview())
	})

	t.Run("encode finishing after reset", func(t *testing.T) {
		c := NewController(staticProvider(testRef, nil), 0)
		c.handleCaptureDone(runCapture(t, c))
		enc := c.CompleteEdit([]byte("img"))
		c.Reset()

		c.handlePreviewEncoded(enc().(previewEncodedMsg))
		assert.Empty(t, c.Preview())
	})
}

func TestController_Abandon(t *testing.T) {
	c := NewController(staticProvider(testRef, nil), 0)
	c.handleCaptureDone(runCapture(t, c))

	c.Abandon()
	assert.Empty(t, c.Preview())
	assert.False(t, c.Annotating())
}
