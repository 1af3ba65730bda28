// Package capture produces still images of the screen for attaching to
// feedback. Providers return a displayable image reference (a data URL) so
// the dialog can preview the result before it is annotated.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"
)

// Provider produces a still image of the current screen.
//
// TakeScreenshot blocks until the image is available and is always invoked
// off the UI loop (inside a tea.Cmd). The returned reference is a data URL.
type Provider interface {
	TakeScreenshot(ctx context.Context) (string, error)
}

// Func adapts a function to the Provider interface.
type Func func(ctx context.Context) (string, error)

// TakeScreenshot calls f(ctx).
func (f Func) TakeScreenshot(ctx context.Context) (string, error) { return f(ctx) }

// Delayed waits for Delay before delegating to Provider. The dialog is hidden
// while a capture is outstanding; the delay gives the terminal time to redraw
// without it before the screen is grabbed.
type Delayed struct {
	Provider Provider
	Delay    time.Duration
}

// TakeScreenshot waits for the delay (or ctx) and then captures.
func (d Delayed) TakeScreenshot(ctx context.Context) (string, error) {
	if d.Delay > 0 {
		t := time.NewTimer(d.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	return d.Provider.TakeScreenshot(ctx)
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// pngDataURL encodes img and wraps it in a data URL.
func pngDataURL(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return EncodeDataURL(MimePNG, data), nil
}
