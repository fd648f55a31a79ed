package colorspace

// YIQForward converts a gamma-corrected RGB sample (each in [0, 255]) to
// the NTSC YIQ color space. Unlike RCT/ICT this is not used for
// compression; it is the front end for perceptual signature extraction,
// so it works in real-valued samples rather than the fixed-point
// components the codecs transform.
func YIQForward(r, g, b float64) (y, i, q float64) {
	y = 0.299*r + 0.587*g + 0.114*b
	i = 0.596*r - 0.275*g - 0.321*b
	q = 0.212*r - 0.523*g + 0.311*b
	return
}

// YIQInverse converts a YIQ sample back to gamma-corrected RGB. Its
// constants are the exact inverse of YIQForward's matrix, so a forward
// then inverse round trip returns the original sample.
func YIQInverse(y, i, q float64) (r, g, b float64) {
	r = y + 0.955688060361*i + 0.619858094456*q
	g = y - 0.271581796944*i - 0.646873816138*q
	b = y - 1.108177326683*i + 1.705064559919*q
	return
}

// ApplyYIQToComponents converts separate R,G,B real-valued arrays to Y,I,Q.
func ApplyYIQToComponents(r, g, b []float64) (y, i, q []float64) {
	n := len(r)
	y = make([]float64, n)
	i = make([]float64, n)
	q = make([]float64, n)
	for idx := 0; idx < n; idx++ {
		y[idx], i[idx], q[idx] = YIQForward(r[idx], g[idx], b[idx])
	}
	return
}
