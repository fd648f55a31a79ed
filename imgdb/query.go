package imgdb

import (
	"sort"

	"github.com/cocosip/go-dicom-codec/signature"
)

// QueryParams bundles a probe signature with the knobs of a
// k-nearest-neighbor search. NewQueryParams seeds the defaults the way
// the codec package's parameter constructors do; Validate reports
// whether the combination makes sense before QueryEngine ever touches it.
type QueryParams struct {
	ProbeSignature signature.Signature
	ProbeDc        signature.DcTriple
	ProbeRes       signature.Resolution

	// K is the number of results to return. K == 0 is valid and yields an
	// empty result.
	K int

	// UserIdFilter, if set, excludes any candidate for which it returns
	// false.
	UserIdFilter func(signature.UserId) bool

	// MinScore, if non-nil, drops any candidate scoring below it.
	MinScore *float64
}

// NewQueryParams returns QueryParams with K defaulted to 10 and no
// filters.
func NewQueryParams(probe signature.Signature, dc signature.DcTriple, res signature.Resolution) QueryParams {
	return QueryParams{
		ProbeSignature: probe,
		ProbeDc:        dc,
		ProbeRes:       res,
		K:              10,
	}
}

// Validate reports whether params is safe to run.
func (p QueryParams) Validate() error {
	if p.K < 0 {
		return errNegativeK
	}
	return nil
}

// Match is one ranked query result: the external ID of a candidate image
// and its similarity score (higher is more similar).
type Match struct {
	UserId signature.UserId
	Score  float64
}

// QueryEngine implements the weighted coefficient overlap algorithm of
// spec.md §4.7 against a snapshot of MemDb's image table and coefficient
// index. It holds no state of its own; MemDb delegates to it under its
// own lock.
type QueryEngine struct{}

// Query walks buckets named by params.ProbeSignature, accumulating a
// score per candidate, and returns the top params.K matches.
func (QueryEngine) Query(images []StoredImage, buckets *BucketManager, params QueryParams) []Match {
	if params.K <= 0 || len(images) == 0 {
		return nil
	}

	scores := make([]float64, len(images))
	seen := make([]bool, len(images))

	// DC score is added for every image up front, but seen is only set by
	// the bucket walk below: an image with no AC coefficient overlap at
	// all stays unseen and is dropped below regardless of how close its
	// DC term is, by design (positive-overlap candidates only).
	for c := 0; c < signature.C; c++ {
		for idx := range images {
			scores[idx] -= weight[c][0] * dcDistance(params.ProbeDc[c], images[idx].Dc[c])
		}
	}

	for c := 0; c < signature.C; c++ {
		for _, s := range params.ProbeSignature.Positions[c] {
			sign, pos := signAndPosition(s)
			w := weight[c][tierOf(pos)+1]

			for id := range buckets.buckets[c][sign][pos] {
				i := int(id)
				if i >= len(images) {
					continue
				}
				scores[i] += w
				seen[i] = true
			}
		}
	}

	candidates := make([]int, 0, len(images))
	for i := range images {
		if !seen[i] {
			continue
		}
		if params.UserIdFilter != nil && !params.UserIdFilter(images[i].UserId) {
			continue
		}
		if params.MinScore != nil && scores[i] < *params.MinScore {
			continue
		}
		candidates = append(candidates, i)
	}

	sort.Slice(candidates, func(a, b int) bool {
		ia, ib := candidates[a], candidates[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return ia < ib
	})

	if len(candidates) > params.K {
		candidates = candidates[:params.K]
	}

	out := make([]Match, len(candidates))
	for i, idx := range candidates {
		out[i] = Match{UserId: images[idx].UserId, Score: scores[idx]}
	}
	return out
}

func dcDistance(a, b float64) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d
}
