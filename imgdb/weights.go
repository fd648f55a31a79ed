package imgdb

import "github.com/cocosip/go-dicom-codec/signature"

// coefficientTiers is the number of magnitude tiers a coefficient
// position is bucketed into for scoring. Tier 0 holds the
// lowest-frequency (smallest-index) positions, which the transform
// concentrates the most perceptually significant information into.
const coefficientTiers = 5

// weight is the single compile-time weight table shared by every query:
// weight[channel][tier] is the score contribution of a matching
// coefficient in that channel and tier. weight[channel][0] additionally
// doubles as the DC-distance scaling factor (spec.md §4.7 step 1).
// Lifted from the published weight constants of the reference
// perceptual-hash implementation this design descends from (see
// DESIGN.md); channel 0 is Y (luminance), 1 is I, 2 is Q.
var weight = [signature.C][coefficientTiers + 1]float64{
	{5.00, 0.83, 1.01, 0.52, 0.47, 0.30},
	{19.21, 1.26, 0.44, 0.53, 0.28, 0.14},
	{34.37, 0.36, 0.45, 0.14, 0.18, 0.27},
}

// tierOf buckets a coefficient's absolute position into one of
// coefficientTiers magnitude tiers by bit length: the tier is the
// position's bit length scaled by coefficientTiers/bitLen(P) and capped at
// coefficientTiers-1. With P = 1024 that gives tier 0 for positions 1..3,
// 1 for 4..15, 2 for 16..63, 3 for 64..255 and 4 for 256..1023, so that
// tier is smaller for low-frequency (numerically small) positions and
// larger for high-frequency ones.
func tierOf(position int32) int {
	if position < 1 {
		position = 1
	}

	totalBits := bitLen(int32(signature.P))
	posBits := bitLen(position)

	tier := (posBits * coefficientTiers) / totalBits
	if tier >= coefficientTiers {
		tier = coefficientTiers - 1
	}
	return tier
}

func bitLen(v int32) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}
