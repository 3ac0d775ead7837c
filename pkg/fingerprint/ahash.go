package fingerprint

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

const (
	aWidth  = 8
	aHeight = 8
)

// computeAHash implements §4.1's aHash(img): resize to 8x8 grayscale,
// compute the mean, emit bit b[r,c] = 1 iff pixel[r,c] > mean, packed
// row-major MSB-first into 8 bytes.
func computeAHash(img image.Image) [8]byte {
	resized := resize.Resize(aWidth, aHeight, img, resize.Lanczos3)
	gray := imaging.Grayscale(resized)
	bounds := gray.Bounds()

	pixels := make([]uint32, 0, aWidth*aHeight)
	var sum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			l := luminance(gray.At(x, y))
			pixels = append(pixels, l)
			sum += uint64(l)
		}
	}

	mean := sum / uint64(len(pixels))

	var out [8]byte
	for bit, l := range pixels {
		if uint64(l) > mean {
			out[bit/8] |= 1 << uint(7-bit%8)
		}
	}

	return out
}

// luminance converts a pixel to a 16-bit-scale (0-65535) grayscale
// value: the plain mean of its R, G and B channels.
func luminance(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (r + g + b) / 3
}
