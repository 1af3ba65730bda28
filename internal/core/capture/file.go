package capture

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"os"
)

// FileProvider "captures" by loading an image from disk. It is used on
// headless hosts and by tests.
type FileProvider struct {
	Path string
}

func (p FileProvider) TakeScreenshot(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(p.Path)
	if err != nil {
		return "", fmt.Errorf("open capture file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", p.Path, err)
	}

	return pngDataURL(img)
}
