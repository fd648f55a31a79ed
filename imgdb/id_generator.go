package imgdb

import "github.com/cocosip/go-dicom-codec/signature"

// firstUserId is the smallest UserId NewIdGenerator will ever hand out.
const firstUserId = 1

// IdGenerator is a monotonic generator of UserIds that also observes
// externally supplied IDs so later auto-generated IDs never collide with
// them. It is not internally synchronized: callers serialize access to it
// via MemDb's lock, the same way MemDb serializes access to its image
// array and coefficient index.
type IdGenerator struct {
	counter uint64
}

// NewIdGenerator returns a generator starting at the first valid UserId.
func NewIdGenerator() *IdGenerator {
	return &IdGenerator{counter: firstUserId}
}

// Saw raises the counter so that it strictly exceeds id.
func (g *IdGenerator) Saw(id signature.UserId) {
	if next := uint64(id) + 1; next > g.counter {
		g.counter = next
	}
}

// Next returns the current counter value and advances it.
func (g *IdGenerator) Next() signature.UserId {
	id := g.counter
	g.counter++
	return signature.UserId(id)
}
