package signature

import "sort"

// SelectCoefficients returns the N positions of channel (a Haar-transformed
// array of length P, with channel[0] the DC term) with the largest
// absolute value, excluding position 0. Each returned entry is the
// position itself if the coefficient is positive, or its negation if the
// coefficient is negative - position 0 can therefore never appear, since
// its signed form (+0 or -0) is indistinguishable from "no coefficient".
//
// Ties on |coefficient| are broken by ascending position, which is
// deterministic within a single run but is not a claim about matching any
// particular reference implementation's tie order.
func SelectCoefficients(channel []float64, n int) []int32 {
	type ranked struct {
		position int
		abs      float64
	}

	candidates := make([]ranked, 0, len(channel)-1)
	for pos := 1; pos < len(channel); pos++ {
		v := channel[pos]
		if v < 0 {
			v = -v
		}
		candidates = append(candidates, ranked{position: pos, abs: v})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].abs != candidates[j].abs {
			return candidates[i].abs > candidates[j].abs
		}
		return candidates[i].position < candidates[j].position
	})

	if n > len(candidates) {
		n = len(candidates)
	}

	out := make([]int32, n)
	for i := 0; i < n; i++ {
		pos := candidates[i].position
		if channel[pos] < 0 {
			out[i] = -int32(pos)
		} else {
			out[i] = int32(pos)
		}
	}
	return out
}
