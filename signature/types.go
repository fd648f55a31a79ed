// Package signature defines the perceptual fingerprint of an image and
// the pipeline that extracts one from a decoded picture.
package signature

// Domain constants, baked into the on-disk record format (see package
// persist). Changing any of these invalidates existing database files.
const (
	// C is the number of YIQ channels carried by a Signature.
	C = 3

	// W, H are the fixed dimensions images are rescaled to before the
	// Haar transform. Both must be powers of two.
	W = 32
	H = 32

	// P is the number of positions per channel after the transform.
	P = W * H

	// N is the number of AC coefficients kept per channel.
	N = 40
)

// UserId is an externally-meaningful image identifier, unique per image
// within a database. Opaque to the core beyond ordering/equality.
type UserId uint64

// InternId is a dense index into MemDb's image array, always in
// [0, numImages). It is reassigned on removal and never leaves the
// database boundary.
type InternId uint32

// Signature is the fixed-size perceptual fingerprint of one image: for
// each of the C channels, the N largest-magnitude AC wavelet coefficient
// positions, signed by the coefficient's sign. A zero entry is never
// valid - it would erase both the position (0 is the DC term, stored
// separately) and the sign.
type Signature struct {
	Positions [C][N]int32
}

// DcTriple holds the position-0 (DC) coefficient of each channel.
type DcTriple [C]float64

// Resolution is the original image's width and height, recorded for
// diagnostics; it plays no role in scoring.
type Resolution struct {
	Width  uint16
	Height uint16
}

// Equal reports whether two signatures hold the same multiset of signed
// positions per channel, irrespective of order - the comparison spec.md
// §8's round-trip property requires.
func (s Signature) Equal(other Signature) bool {
	for c := 0; c < C; c++ {
		a := s.Positions[c]
		b := other.Positions[c]
		counts := make(map[int32]int, N)
		for _, v := range a {
			counts[v]++
		}
		for _, v := range b {
			counts[v]--
		}
		for _, n := range counts {
			if n != 0 {
				return false
			}
		}
	}
	return true
}
