package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// ScreenProvider grabs the primary display, or Region of it when set.
type ScreenProvider struct {
	Region image.Rectangle
}

// NewScreenProvider returns a provider for the given region. An empty region
// captures the whole screen.
func NewScreenProvider(region image.Rectangle) *ScreenProvider {
	return &ScreenProvider{Region: region}
}

func (p *ScreenProvider) TakeScreenshot(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		img *image.RGBA
		err error
	)
	if p.Region.Empty() {
		img, err = screenshot.CaptureScreen()
	} else {
		img, err = screenshot.CaptureRect(p.Region)
	}
	if err != nil {
		return "", fmt.Errorf("capture screen: %w", err)
	}

	return pngDataURL(img)
}
