// Package imaging decodes downloaded post images and guards against
// payloads too large or malformed to fingerprint safely.
package imaging

import (
	"fmt"
	"image"
	"io"

	"github.com/dustin/go-humanize"
)

// Decoder decodes an in-memory image payload and checks it against a
// supported-format allowlist. Posts are fetched over HTTP into memory,
// never read from a local file path, so Decoder only ever operates on
// an io.Reader.
type Decoder struct {
	supportedFormats map[string]bool
}

// NewDecoder creates a new image decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		supportedFormats: map[string]bool{
			"jpeg": true, "jpg": true, "png": true,
			"gif": true, "bmp": true, "webp": true,
		},
	}
}

// maxPixels bounds decoded image area to protect against memory blowups
// from a maliciously large post image.
const maxPixels = 100_000_000 // 100MP

// DecodeFromReader decodes an image from reader, rejecting formats
// outside the supported set and images whose pixel area exceeds
// maxPixels.
func (d *Decoder) DecodeFromReader(reader io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image from reader: %w", err)
	}

	if !d.supportedFormats[format] {
		return nil, "", fmt.Errorf("unsupported image format: %s", format)
	}

	bounds := img.Bounds()
	if w, h := bounds.Dx(), bounds.Dy(); w*h > maxPixels {
		return nil, "", fmt.Errorf("image too large: %dx%d pixels", w, h)
	}

	return img, format, nil
}

// ValidateSize rejects a downloaded payload before it's decoded, given
// its byte length.
func ValidateSize(n int) error {
	const maxBytes = 500 * 1024 * 1024 // 500MB
	if n > maxBytes {
		return fmt.Errorf("file too large: %s", humanize.Bytes(uint64(n)))
	}
	return nil
}
