package imgdb

import (
	"fmt"
	"math"
	"sync"

	"github.com/cocosip/go-dicom-codec/signature"
)

// maxInternId bounds how many images MemDb can hold at once: internal IDs
// are dense uint32 indices, so the store's capacity is the width of that
// type.
const maxInternId = math.MaxUint32

// StoredImage is everything MemDb keeps about an image outside of its
// coefficient signature, which lives in BucketManager instead of being
// duplicated here.
type StoredImage struct {
	UserId     signature.UserId
	Dc         signature.DcTriple
	Resolution signature.Resolution
}

// Record is a StoredImage together with its signature - the shape
// addImage accepts and removeImage returns in full.
type Record struct {
	UserId     signature.UserId
	Signature  signature.Signature
	Dc         signature.DcTriple
	Resolution signature.Resolution
}

// MemDb is the authoritative in-memory image store: a dense array of
// per-image metadata indexed by internal ID, a map from user ID to
// internal ID, and an IdGenerator - all three guarded by one
// reader-writer lock, following the single-lock-over-the-whole-unit
// design registry.Registry uses for its codec map.
//
// Mutation (addImage, removeImage) runs under the writer side; lookups
// and queries (has, getImage, query) run under the reader side. Readers
// may run concurrently with each other but never with a writer.
type MemDb struct {
	mu     sync.RWMutex
	images []StoredImage
	byUser map[signature.UserId]signature.InternId
	ids    *IdGenerator
	bucket *BucketManager
	engine QueryEngine
}

// NewMemDb returns an empty image database.
func NewMemDb() *MemDb {
	return &MemDb{
		images: make([]StoredImage, 0),
		byUser: make(map[signature.UserId]signature.InternId),
		ids:    NewIdGenerator(),
		bucket: NewBucketManager(),
	}
}

// Has looks up uid and reports whether it is present, returning a copy of
// its stored metadata if so. It never fails.
func (db *MemDb) Has(uid signature.UserId) (StoredImage, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	intern, ok := db.byUser[uid]
	if !ok {
		return StoredImage{}, false
	}
	return db.images[intern], true
}

// GetImage is Has, but fails with ErrIdNotFound instead of a boolean.
func (db *MemDb) GetImage(uid signature.UserId) (StoredImage, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	intern, ok := db.byUser[uid]
	if !ok {
		return StoredImage{}, fmt.Errorf("%w: %d", ErrIdNotFound, uid)
	}
	return db.images[intern], nil
}

// AddImage inserts rec under rec.UserId. It fails with ErrAlreadyHaveId if
// that user ID is already present, or ErrCapacityExceeded if the store is
// already at its internal-ID limit; either way, state is left exactly as
// it was before the call.
func (db *MemDb) AddImage(rec Record) (signature.UserId, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.byUser[rec.UserId]; ok {
		return 0, fmt.Errorf("%w: %d", ErrAlreadyHaveId, rec.UserId)
	}
	if len(db.images) >= maxInternId {
		return 0, ErrCapacityExceeded
	}

	db.ids.Saw(rec.UserId)

	intern := signature.InternId(len(db.images))
	db.images = append(db.images, StoredImage{
		UserId:     rec.UserId,
		Dc:         rec.Dc,
		Resolution: rec.Resolution,
	})
	db.byUser[rec.UserId] = intern
	db.bucket.AddSignature(intern, rec.Signature)

	return rec.UserId, nil
}

// RemoveImage deletes uid and returns its full record, including its
// signature. Internal IDs are kept dense by moving the formerly-last
// image into the vacated slot (spec.md's swap-with-last discipline): this
// costs one signature re-key per removal but keeps BucketManager's index
// small and its iteration cache-friendly.
func (db *MemDb) RemoveImage(uid signature.UserId) (Record, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, ok := db.byUser[uid]
	if !ok {
		return Record{}, fmt.Errorf("%w: %d", ErrIdNotFound, uid)
	}

	removedImage := db.images[r]
	removedSig := db.bucket.RemoveSignature(r)
	delete(db.byUser, uid)

	last := signature.InternId(len(db.images) - 1)
	if r != last {
		movedImage := db.images[last]
		db.images[r] = movedImage
		db.byUser[movedImage.UserId] = r
		db.bucket.Move(last, r)
	}
	db.images = db.images[:last]

	return Record{
		UserId:     removedImage.UserId,
		Signature:  removedSig,
		Dc:         removedImage.Dc,
		Resolution: removedImage.Resolution,
	}, nil
}

// NumImages returns the number of images currently stored.
func (db *MemDb) NumImages() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.images)
}

// NextId returns the next auto-generated UserId without reserving it -
// a subsequent AddImage using an unrelated UserId still advances the
// generator enough that this value (or any smaller one) will not be
// handed out again by a later caller relying on NextId.
//
// Next mutates the generator's counter, so this takes the writer lock
// even though it doesn't touch images or byUser: two concurrent callers
// under RLock would race on that counter.
func (db *MemDb) NextId() signature.UserId {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.ids.Next()
}

// Query runs params against the current image table and coefficient
// index, returning the top-K matches. It never fails: an empty result is
// a normal outcome, not an error.
func (db *MemDb) Query(params QueryParams) []Match {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.engine.Query(db.images, db.bucket, params)
}
