package jpeg2000

import (
	"math"
	"math/bits"
)

// OpenJPEG 9-7 wavelet norms (opj_dwt_norms_real).
// These values are used to derive per-subband quantization step sizes.
var dwtNorms97 = [4][10]float64{
	{1.000, 1.965, 4.177, 8.403, 16.90, 33.84, 67.69, 135.3, 270.6, 540.9},
	{2.022, 3.989, 8.355, 17.04, 34.27, 68.63, 137.3, 274.6, 549.0, 0.0},
	{2.022, 3.989, 8.355, 17.04, 34.27, 68.63, 137.3, 274.6, 549.0, 0.0},
	{2.080, 3.865, 8.307, 17.18, 34.71, 69.59, 139.3, 278.6, 557.2, 0.0},
}

func dwtNorm97(level, orient int) float64 {
	if level < 0 {
		level = 0
	}
	if orient == 0 && level >= 10 {
		level = 9
	} else if orient > 0 && level >= 9 {
		level = 8
	}
	if orient < 0 || orient > 3 {
		return 1.0
	}
	return dwtNorms97[orient][level]
}

func qualityScale(quality int) float64 {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	if quality >= 100 {
		return 0
	}
	scale := math.Pow(2.0, (100.0-float64(quality))/12.5)
	if scale < 0.01 {
		scale = 0.01
	}
	return scale * 0.9 * 0.2
}

func subbandParams(idx, numLevels int) (resno, orient, level int) {
	if idx == 0 {
		resno = 0
		orient = 0
	} else {
		resno = (idx-1)/3 + 1
		orient = (idx-1)%3 + 1
	}
	level = numLevels - resno
	if level < 0 {
		level = 0
	}
	return resno, orient, level
}

func calcOpenJPEGStepSizes97(numLevels int, scale float64) []float64 {
	if numLevels <= 0 {
		return []float64{scale}
	}
	numSubbands := 3*numLevels + 1
	steps := make([]float64, numSubbands)
	for idx := 0; idx < numSubbands; idx++ {
		_, orient, level := subbandParams(idx, numLevels)
		norm := dwtNorm97(level, orient)
		if norm <= 0 {
			steps[idx] = scale
		} else {
			steps[idx] = scale / norm
		}
	}
	return steps
}

func encodeQuantizationStep(stepSize float64, numbps int) uint16 {
	if stepSize <= 0 {
		return 0
	}
	fixed := int32(math.Floor(stepSize * 8192.0))
	if fixed <= 0 {
		fixed = 1
	}
	log2 := bits.Len32(uint32(fixed)) - 1
	p := int(log2) - 13
	n := 11 - int(log2)
	mant := int32(0)
	if n < 0 {
		mant = fixed >> -n
	} else {
		mant = fixed << n
	}
	mant &= 0x7ff
	expn := numbps - p
	if expn < 0 {
		expn = 0
	}
	if expn > 0x1f {
		expn = 0x1f
	}
	return uint16((expn << 11) | int(mant))
}

func decodeQuantizationStepWithGain(encoded uint16, bitDepth, log2Gain int) float64 {
	expn := int((encoded >> 11) & 0x1f)
	mant := float64(encoded & 0x7ff)
	rb := bitDepth + log2Gain
	return math.Ldexp(1.0+mant/2048.0, rb-expn)
}

// QuantizationParams holds quantization parameters for all subbands.
type QuantizationParams struct {
	// Quantization style
	// 0 = no quantization (lossless)
	// 1 = scalar derived (single base step size)
	// 2 = scalar expounded (explicit step size for each subband)
	Style int

	// Guard bits (0-7)
	GuardBits int

	// Step sizes for each subband.
	// Index order: LL, HL1, LH1, HH1, HL2, LH2, HH2, ..., HLn, LHn, HHn
	StepSizes []float64

	// Encoded step sizes (exponent + mantissa for each subband).
	// Format: bits 0-10 = mantissa (11 bits), bits 11-15 = exponent (5 bits)
	EncodedSteps []uint16
}

// CalculateQuantizationParams calculates quantization parameters based on quality.
// quality: 1-100 (1 = maximum compression, 100 = minimal quantization/near-lossless)
// numLevels: number of wavelet decomposition levels
// bitDepth: original bit depth of the image
func CalculateQuantizationParams(quality, numLevels, bitDepth int) *QuantizationParams {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	// For lossless (quality >= 100), return no quantization.
	if quality >= 100 {
		return &QuantizationParams{
			Style:     0, // No quantization
			GuardBits: 2,
		}
	}

	// Calculate number of subbands: LL + 3 * numLevels (HL, LH, HH per level).
	numSubbands := 3*numLevels + 1

	params := &QuantizationParams{
		Style:        2, // Scalar expounded (explicit step size per subband)
		GuardBits:    2, // Standard guard bits
		StepSizes:    make([]float64, numSubbands),
		EncodedSteps: make([]uint16, numSubbands),
	}

	// Convert quality to a global scale and apply OpenJPEG norms for 9/7.
	scale := qualityScale(quality)
	params.StepSizes = calcOpenJPEGStepSizes97(numLevels, scale)

	// Encode step sizes using OpenJPEG's stepsize encoding.
	for i, stepSize := range params.StepSizes {
		params.EncodedSteps[i] = encodeQuantizationStep(stepSize, bitDepth)
	}

	return params
}

// DecodeQuantizationStep decodes a JPEG 2000 quantization step from 16-bit encoded format.
// encoded: 16-bit value with bits 11-15 = exponent, bits 0-10 = mantissa
// bitDepth: original bit depth of the image
func DecodeQuantizationStep(encoded uint16, bitDepth int) float64 {
	return decodeQuantizationStepWithGain(encoded, bitDepth, 0)
}

// QuantizeCoefficients applies quantization to wavelet coefficients.
// coefficients: input wavelet coefficients
// stepSize: quantization step size
// Returns: quantized coefficients
func QuantizeCoefficients(coefficients []int32, stepSize float64) []int32 {
	if stepSize <= 0 {
		// No quantization
		return coefficients
	}

	quantized := make([]int32, len(coefficients))
	for i, coeff := range coefficients {
		// Quantize: round-to-even(coeff / stepSize) to match OpenJPEG's lrintf.
		quantized[i] = int32(math.RoundToEven(float64(coeff) / stepSize))
	}
	return quantized
}

// DequantizeCoefficients applies dequantization to coefficients.
// coefficients: quantized coefficients
// stepSize: quantization step size
// Returns: dequantized coefficients
func DequantizeCoefficients(coefficients []int32, stepSize float64) []int32 {
	if stepSize <= 0 {
		// No dequantization needed
		return coefficients
	}

	dequantized := make([]int32, len(coefficients))
	for i, coeff := range coefficients {
		// Dequantize: coeff * stepSize (matches quantization scaling after T1 inverse).
		dequantized[i] = int32(math.RoundToEven(float64(coeff) * stepSize))
	}
	return dequantized
}
