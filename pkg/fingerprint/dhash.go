package fingerprint

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// dWidth and dHeight describe the thumbnail used for the difference hash:
// one extra column lets every pixel compare against its right neighbor.
const (
	dWidth  = 8
	dHeight = 8
)

// computeDHash implements §4.1's dHash(img): resize to 9x8 grayscale,
// emit bit b[r,c] = 1 iff pixel[r,c] > pixel[r,c+1], packed row-major
// MSB-first into 8 bytes.
func computeDHash(img image.Image) [8]byte {
	resized := resize.Resize(dWidth+1, dHeight, img, resize.Lanczos3)
	gray := imaging.Grayscale(resized)

	var out [8]byte
	bounds := gray.Bounds()

	bit := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X-1; x++ {
			cur := luminance(gray.At(x, y))
			next := luminance(gray.At(x+1, y))
			if cur > next {
				out[bit/8] |= 1 << uint(7-bit%8)
			}
			bit++
		}
	}

	return out
}
