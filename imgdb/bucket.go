package imgdb

import "github.com/cocosip/go-dicom-codec/signature"

const (
	signNegative = 0
	signPositive = 1
)

// bucket is the set of internal IDs whose signature includes one
// particular (channel, sign, position) triple. Iteration order is
// irrelevant; membership is unique, which a map gives for free.
type bucket map[signature.InternId]struct{}

// BucketManager is the inverted index from signed coefficient positions
// to internal IDs: for each (channel, sign, position) it keeps the set of
// internal IDs whose signature includes that signed position.
//
// Alongside the buckets it keeps a parallel dense vector of signatures
// indexed by internal ID. This is the "signature mirror" spec.md's design
// notes call for: it trades O(C·N) memory per image for O(C·N) removal,
// instead of the O(C·P) cost of reconstructing a signature by scanning
// every bucket.
type BucketManager struct {
	buckets       [signature.C][2][signature.P]bucket
	sigByInternId []signature.Signature
}

// NewBucketManager returns an empty inverted index.
func NewBucketManager() *BucketManager {
	return &BucketManager{}
}

func signAndPosition(s int32) (sign int, position int32) {
	if s < 0 {
		return signNegative, -s
	}
	return signPositive, s
}

// AddSignature inserts internId into every bucket named by sig's signed
// positions, and records sig as internId's mirror entry. Duplicate
// positions within one channel's signature are tolerated idempotently
// (spec.md does not assert they are impossible, only that they would be
// unusual); the map-backed bucket already dedupes on insert.
func (b *BucketManager) AddSignature(internId signature.InternId, sig signature.Signature) {
	b.growTo(int(internId) + 1)
	b.sigByInternId[internId] = sig

	for c := 0; c < signature.C; c++ {
		for _, s := range sig.Positions[c] {
			sign, pos := signAndPosition(s)
			m := b.buckets[c][sign][pos]
			if m == nil {
				m = make(bucket, 1)
				b.buckets[c][sign][pos] = m
			}
			m[internId] = struct{}{}
		}
	}
}

// RemoveSignature deletes internId from every bucket its mirrored
// signature names and returns that signature. If internId was the last
// (highest) entry in the mirror vector, the vector is truncated;
// otherwise the slot is left zeroed, ready to be overwritten by a
// subsequent Move or AddSignature under the same ID.
func (b *BucketManager) RemoveSignature(internId signature.InternId) signature.Signature {
	sig := b.sigByInternId[internId]

	for c := 0; c < signature.C; c++ {
		for _, s := range sig.Positions[c] {
			sign, pos := signAndPosition(s)
			delete(b.buckets[c][sign][pos], internId)
		}
	}

	if int(internId) == len(b.sigByInternId)-1 {
		b.sigByInternId = b.sigByInternId[:internId]
	} else {
		b.sigByInternId[internId] = signature.Signature{}
	}

	return sig
}

// Move re-keys the signature stored under from to to: externally, bucket
// membership ends up identical to having inserted the signature under to
// in the first place. Used by MemDb.removeImage's swap-with-last
// discipline to relocate the formerly-last image's signature onto the
// slot vacated by the removed one.
func (b *BucketManager) Move(from, to signature.InternId) signature.Signature {
	sig := b.RemoveSignature(from)
	b.AddSignature(to, sig)
	return sig
}

// SignatureOf returns the signature mirrored for internId, for callers
// (such as MemDb.removeImage) that need it without removing it.
func (b *BucketManager) SignatureOf(internId signature.InternId) signature.Signature {
	return b.sigByInternId[internId]
}

// BucketSizes returns the population count of every non-empty bucket, a
// diagnostic/sizing hint rather than something the query path depends on.
func (b *BucketManager) BucketSizes() map[[3]int]int {
	sizes := make(map[[3]int]int)
	for c := 0; c < signature.C; c++ {
		for sign := 0; sign < 2; sign++ {
			for pos, m := range b.buckets[c][sign] {
				if len(m) > 0 {
					sizes[[3]int{c, sign, pos}] = len(m)
				}
			}
		}
	}
	return sizes
}

func (b *BucketManager) growTo(n int) {
	for len(b.sigByInternId) < n {
		b.sigByInternId = append(b.sigByInternId, signature.Signature{})
	}
}
