package signature

import (
	"fmt"

	"github.com/cocosip/go-dicom-codec/jpeg2000/wavelet"
)

// Extract runs the full signature extraction pipeline (spec.md §4.3) for
// the image at path: decode to YIQ, Haar-transform each channel, record
// the DC term, and select the N largest AC coefficients per channel.
func Extract(path string, dec ImageDecoder) (Signature, DcTriple, Resolution, error) {
	channels, original, err := dec.Decode(path)
	if err != nil {
		return Signature{}, DcTriple{}, Resolution{}, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, path, err)
	}

	var sig Signature
	var dc DcTriple

	for c := 0; c < C; c++ {
		channel := channels[c]
		if len(channel) != P {
			return Signature{}, DcTriple{}, Resolution{}, fmt.Errorf("%w: %s: channel %d has %d samples, want %d", ErrDecodeFailed, path, c, len(channel), P)
		}

		wavelet.Haar2D(channel, W, H)
		dc[c] = channel[0]

		positions := SelectCoefficients(channel, N)
		for i, p := range positions {
			if p == 0 {
				return Signature{}, DcTriple{}, Resolution{}, fmt.Errorf("%w: %s", ErrDegenerateImage, path)
			}
			sig.Positions[c][i] = p
		}
	}

	return sig, dc, original, nil
}
