// Package fingerprint reduces an image to the 128-bit perceptual
// signature used throughout the index: an 8-byte difference hash (dHash)
// concatenated with an 8-byte average hash (aHash).
package fingerprint

import (
	"image"

	"github.com/lorehash/boorudex/pkg/api"
)

// Compute implements §4.1's combined(img): dHash(img) ‖ aHash(img).
func Compute(img image.Image) api.Fingerprint {
	var fp api.Fingerprint

	d := computeDHash(img)
	a := computeAHash(img)

	copy(fp[0:8], d[:])
	copy(fp[8:16], a[:])

	return fp
}

// Halves splits a combined fingerprint back into its dHash and aHash
// components, for diagnostic per-half distance reporting (§4.1).
func Halves(fp api.Fingerprint) (dHash, aHash [8]byte) {
	copy(dHash[:], fp[0:8])
	copy(aHash[:], fp[8:16])
	return
}
