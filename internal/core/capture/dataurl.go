package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"
)

// MimePNG is the media type of every image produced by the providers.
const MimePNG = "image/png"

// ErrInvalidDataURL is returned when a reference is not a base64 data URL.
var ErrInvalidDataURL = errors.New("invalid data url")

// EncodeDataURL returns data as a base64 data URL with the given media type.
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ImageDataURL encodes data as a data URL, sniffing the media type.
func ImageDataURL(data []byte) string {
	return EncodeDataURL(http.DetectContentType(data), data)
}

// DecodeDataURL splits a base64 data URL into its media type and payload.
func DecodeDataURL(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}

	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	return mime, data, nil
}

// DecodeImage decodes the image carried by a data URL.
func DecodeImage(ref string) (image.Image, error) {
	_, data, err := DecodeDataURL(ref)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
