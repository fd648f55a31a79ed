package signature

// ImageDecoder is the narrow interface the extraction pipeline relies on
// to turn a file on disk into YIQ pixel samples at the fixed W×H working
// resolution. It is an external collaborator: resizing and color
// conversion are not part of the signature algorithm itself, only its
// input. See package internal/imaging for the concrete implementation,
// which adapts this repository's codec stack.
type ImageDecoder interface {
	// Decode loads the image at path, rescales it to W×H if it is not
	// already exactly that size, and returns its three YIQ channels (Y,
	// I, Q), each a row-major array of length P, plus the image's
	// original resolution before rescaling.
	Decode(path string) (channels [C][]float64, original Resolution, err error)
}
