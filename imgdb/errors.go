// Package imgdb is the in-memory image database: the dense-ID store
// (MemDb), the inverted coefficient index (BucketManager), and the
// k-nearest-neighbor query engine built on top of them.
package imgdb

import "errors"

var (
	// ErrIdNotFound is returned by a lookup or removal of an absent user ID.
	ErrIdNotFound = errors.New("imgdb: id not found")

	// ErrAlreadyHaveId is returned when adding a user ID already present.
	ErrAlreadyHaveId = errors.New("imgdb: id already present")

	// ErrCapacityExceeded is returned when an add would overflow the
	// internal ID space.
	ErrCapacityExceeded = errors.New("imgdb: capacity exceeded")

	errNegativeK = errors.New("imgdb: k must be non-negative")
)
