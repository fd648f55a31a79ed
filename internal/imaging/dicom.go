package imaging

import (
	"encoding/binary"
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/element"
	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	dicomcodec "github.com/cocosip/go-dicom/pkg/imaging/codec"
)

// dicomFrame is one decompressed DICOM frame holding raw sample values:
// grayscale samples are not windowed yet (frameToRGB maps them to
// [0,255]), and RGB frames carry 8-bit samples. samplesPerPixel is
// either 1 or 3; the caller picks the conversion path accordingly.
type dicomFrame struct {
	rows, cols      int
	samplesPerPixel int
	gray            []float64 // len == rows*cols, populated when samplesPerPixel == 1
	rgb             []float64 // len == rows*cols*3, populated when samplesPerPixel == 3
}

// decodeDICOM reads path as a DICOM file, transcodes its pixel data to
// ExplicitVRLittleEndian using go-dicom's own transcoder (which dispatches
// to whichever of this repository's jpeg/jpeg2000/jpegls codecs is
// registered for the file's transfer syntax - see cmd/diqs's blank
// imports), and returns the first frame as plain samples. It mirrors
// examples/export_png/main.go's decodePixels, generalized to multi-sample
// (color) frames and normalized to float64.
func decodeDICOM(path string) (dicomFrame, error) {
	res, err := parser.ParseFile(path, parser.WithReadOption(parser.ReadAll))
	if err != nil {
		return dicomFrame{}, err
	}

	tr := dicomcodec.NewTranscoder(res.TransferSyntax, transfer.ExplicitVRLittleEndian)
	ds, err := tr.Transcode(res.Dataset)
	if err != nil {
		return dicomFrame{}, fmt.Errorf("transcode to explicit VR: %w", err)
	}

	rows := int(ds.TryGetUInt16(tag.Rows, 0))
	cols := int(ds.TryGetUInt16(tag.Columns, 0))
	if rows == 0 || cols == 0 {
		return dicomFrame{}, fmt.Errorf("missing Rows/Columns")
	}

	bitsAllocated := ds.TryGetUInt16(tag.BitsAllocated, 8)
	signed := ds.TryGetUInt16(tag.PixelRepresentation, 0) != 0
	samples := int(ds.TryGetUInt16(tag.SamplesPerPixel, 1))

	pd, ok := ds.Get(tag.PixelData)
	if !ok {
		return dicomFrame{}, fmt.Errorf("dataset has no PixelData element")
	}

	var raw []byte
	switch v := pd.(type) {
	case *element.OtherByte:
		raw = v.GetData()
	case *element.OtherWord:
		raw = v.GetData()
	default:
		return dicomFrame{}, fmt.Errorf("unexpected pixel data element type %T", pd)
	}

	frame := dicomFrame{rows: rows, cols: cols, samplesPerPixel: samples}

	switch {
	case samples == 1 && bitsAllocated <= 8:
		frame.gray = grayFromBytes(raw, rows*cols, signed)
	case samples == 1:
		frame.gray = grayFromWords(raw, rows*cols, signed)
	case samples == 3:
		frame.rgb = rgbFromBytes(raw, rows*cols)
	default:
		return dicomFrame{}, fmt.Errorf("unsupported SamplesPerPixel %d", samples)
	}

	return frame, nil
}

func grayFromBytes(raw []byte, count int, signed bool) []float64 {
	out := make([]float64, count)
	for i := 0; i < count && i < len(raw); i++ {
		v := int32(raw[i])
		if signed {
			v = int32(int8(raw[i]))
		}
		out[i] = float64(v)
	}
	return out
}

func grayFromWords(raw []byte, count int, signed bool) []float64 {
	out := make([]float64, count)
	for i := 0; i < count; i++ {
		off := i * 2
		if off+1 >= len(raw) {
			break
		}
		u := binary.LittleEndian.Uint16(raw[off:])
		var v int32
		if signed {
			v = int32(int16(u))
		} else {
			v = int32(u)
		}
		out[i] = float64(v)
	}
	return out
}

func rgbFromBytes(raw []byte, pixelCount int) []float64 {
	out := make([]float64, pixelCount*3)
	for i := 0; i < pixelCount; i++ {
		off := i * 3
		if off+2 >= len(raw) {
			break
		}
		out[i*3+0] = float64(raw[off+0])
		out[i*3+1] = float64(raw[off+1])
		out[i*3+2] = float64(raw[off+2])
	}
	return out
}
