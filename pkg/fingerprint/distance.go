package fingerprint

import (
	"math/bits"

	"github.com/lorehash/boorudex/pkg/api"
)

// Hamming implements §4.1's hamming(a,b): popcount(a XOR b) over the
// full 128-bit fingerprint.
func Hamming(a, b api.Fingerprint) int {
	dist := 0
	for i := 0; i < len(a); i++ {
		dist += bits.OnesCount8(a[i] ^ b[i])
	}
	return dist
}

// HalfDistances reports the dHash-half and aHash-half Hamming distances
// separately, for the diagnostic breakdown §4.1 allows (e.g. "dist 3
// (1+2)").
func HalfDistances(a, b api.Fingerprint) (dDist, aDist int) {
	ad, aa := Halves(a)
	bd, ba := Halves(b)

	for i := 0; i < 8; i++ {
		dDist += bits.OnesCount8(ad[i] ^ bd[i])
		aDist += bits.OnesCount8(aa[i] ^ ba[i])
	}
	return
}
