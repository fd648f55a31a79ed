package signature

import "errors"

var (
	// ErrDegenerateImage is returned when signature extraction produces a
	// zero coefficient position - a sign of a blank or otherwise
	// degenerate input image.
	ErrDegenerateImage = errors.New("signature: degenerate image")

	// ErrDecodeFailed wraps a failure from the underlying ImageDecoder.
	ErrDecodeFailed = errors.New("signature: decode failed")
)
