// Package imaging adapts this repository's pixel codecs - and a couple of
// general-purpose image libraries - into the signature.ImageDecoder this
// module's extraction pipeline needs: load a file in whatever format it
// happens to be, rescale it to signature.W x signature.H, and hand back
// its YIQ channels.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/cocosip/go-dicom-codec/jpeg2000/colorspace"
	"github.com/cocosip/go-dicom-codec/signature"
)

// Decoder is the concrete signature.ImageDecoder this repository ships.
// DICOM files are routed through decodeDICOM (which in turn leans on
// go-dicom's own transcoder and whichever of this repository's codec
// packages registered themselves for the file's transfer syntax);
// anything else goes through the standard library's image.Decode (PNG,
// JPEG, GIF, and golang.org/x/image/bmp's BMP are registered below) plus
// a WebP fallback, since none of them recognize DICOM's preamble-plus-
// magic framing.
type Decoder struct{}

// NewDecoder returns a ready-to-use Decoder. It holds no state of its
// own; codec registration happens once, at process startup, via blank
// imports in cmd/diqs.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode implements signature.ImageDecoder.
func (d *Decoder) Decode(path string) ([signature.C][]float64, signature.Resolution, error) {
	var channels [signature.C][]float64

	r, g, b, width, height, err := d.loadRGB(path)
	if err != nil {
		return channels, signature.Resolution{}, err
	}

	rr, gg, bb := resizeRGB(r, g, b, width, height, signature.W, signature.H)
	y, i, q := colorspace.ApplyYIQToComponents(rr, gg, bb)
	channels[0], channels[1], channels[2] = y, i, q

	original := signature.Resolution{Width: clampUint16(width), Height: clampUint16(height)}
	return channels, original, nil
}

// loadRGB returns row-major R, G, B component arrays (each in [0,255])
// for path at its native resolution.
func (d *Decoder) loadRGB(path string) (r, g, b []float64, width, height int, err error) {
	if looksLikeDICOM(path) {
		frame, derr := decodeDICOM(path)
		if derr == nil {
			r, g, b = frameToRGB(frame)
			return r, g, b, frame.cols, frame.rows, nil
		}
		// Fall through to the generic decoders: some files carry a
		// misleading extension, and DICOM's 128-byte preamble plus
		// "DICM" magic is occasionally absent (no-preamble streams).
	}

	img, ferr := d.decodeGeneric(path)
	if ferr != nil {
		return nil, nil, nil, 0, 0, ferr
	}

	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	r = make([]float64, width*height)
	g = make([]float64, width*height)
	b = make([]float64, width*height)

	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			r[idx] = float64(pr >> 8)
			g[idx] = float64(pg >> 8)
			b[idx] = float64(pb >> 8)
			idx++
		}
	}
	return r, g, b, width, height, nil
}

// decodeGeneric tries the standard library's registered decoders first
// (PNG, JPEG, GIF, plus x/image's BMP are blank-imported above) and falls
// back to WebP, which neither knows about.
func (d *Decoder) decodeGeneric(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", signature.ErrDecodeFailed, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err == nil {
		return img, nil
	}

	if _, serr := f.Seek(0, 0); serr != nil {
		return nil, fmt.Errorf("%w: %s: %v", signature.ErrDecodeFailed, path, err)
	}
	webpImg, werr := webp.Decode(f)
	if werr != nil {
		return nil, fmt.Errorf("%w: %s: %v", signature.ErrDecodeFailed, path, err)
	}
	return webpImg, nil
}

func looksLikeDICOM(path string) bool {
	if strings.EqualFold(filepath.Ext(path), ".dcm") {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	magic := make([]byte, 132)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false
	}
	return string(magic[128:132]) == "DICM"
}

// frameToRGB turns a decoded DICOM frame into component arrays. Grayscale
// frames are windowed to [0,255] first; color frames already carry 8-bit
// samples per component (spec.md scopes YBR/palette photometric
// interpretations out - see Non-goals).
func frameToRGB(frame dicomFrame) (r, g, b []float64) {
	if frame.samplesPerPixel == 3 {
		n := frame.rows * frame.cols
		r = make([]float64, n)
		g = make([]float64, n)
		b = make([]float64, n)
		for i := 0; i < n; i++ {
			r[i] = frame.rgb[i*3+0]
			g[i] = frame.rgb[i*3+1]
			b[i] = frame.rgb[i*3+2]
		}
		return r, g, b
	}

	windowed := windowToByteRange(frame.gray)
	r = make([]float64, len(windowed))
	g = make([]float64, len(windowed))
	b = make([]float64, len(windowed))
	copy(r, windowed)
	copy(g, windowed)
	copy(b, windowed)
	return r, g, b
}

// windowToByteRange rescales samples linearly so their min maps to 0 and
// their max to 255, the same auto-window examples/export_png/main.go
// applies before writing a DICOM frame out as PNG.
func windowToByteRange(samples []float64) []float64 {
	if len(samples) == 0 {
		return samples
	}
	min, max := samples[0], samples[0]
	for _, v := range samples {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	out := make([]float64, len(samples))
	for i, v := range samples {
		l := (v - min) / span
		if l < 0 {
			l = 0
		}
		if l > 1 {
			l = 1
		}
		out[i] = l * 255
	}
	return out
}

// resizeRGB rescales three row-major component planes from srcW x srcH to
// dstW x dstH using bilinear interpolation, going through
// golang.org/x/image/draw rather than a hand-rolled resampler.
func resizeRGB(r, g, b []float64, srcW, srcH, dstW, dstH int) (rr, gg, bb []float64) {
	src := image.NewRGBA(image.Rect(0, 0, srcW, srcH))
	for i := 0; i < srcW*srcH; i++ {
		x, y := i%srcW, i/srcW
		src.SetRGBA(x, y, toRGBA(r[i], g[i], b[i]))
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	n := dstW * dstH
	rr = make([]float64, n)
	gg = make([]float64, n)
	bb = make([]float64, n)
	for i := 0; i < n; i++ {
		x, y := i%dstW, i/dstW
		c := dst.RGBAAt(x, y)
		rr[i] = float64(c.R)
		gg[i] = float64(c.G)
		bb[i] = float64(c.B)
	}
	return rr, gg, bb
}

func toRGBA(r, g, b float64) color.RGBA {
	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v + 0.5)
	}
	return color.RGBA{R: clamp(r), G: clamp(g), B: clamp(b), A: 255}
}

func clampUint16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

var _ signature.ImageDecoder = (*Decoder)(nil)
