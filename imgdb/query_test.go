package imgdb

import (
	"testing"

	"github.com/cocosip/go-dicom-codec/signature"
)

// nearSignature returns a copy of base with the last coefficient of each
// channel swapped for a position unused anywhere else in base, so the
// result shares all but one coefficient per channel with the original.
func nearSignature(base signature.Signature, replacement int32) signature.Signature {
	out := base
	for c := 0; c < signature.C; c++ {
		out.Positions[c][signature.N-1] = replacement + int32(c)
	}
	return out
}

func TestQuerySelfMatchScoresHighest(t *testing.T) {
	db := NewMemDb()
	sigA := sigWithPositions(1)
	recA := Record{UserId: 1, Signature: sigA, Dc: signature.DcTriple{1, 2, 3}, Resolution: signature.Resolution{Width: 8, Height: 8}}
	if _, err := db.AddImage(recA); err != nil {
		t.Fatalf("AddImage failed: %v", err)
	}

	results := db.Query(NewQueryParams(sigA, recA.Dc, recA.Resolution))
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].UserId != 1 {
		t.Errorf("results[0].UserId = %d, want 1", results[0].UserId)
	}
}

func TestQueryRanksExactMatchAboveNearMatch(t *testing.T) {
	db := NewMemDb()
	sigA := sigWithPositions(1)
	sigB := nearSignature(sigA, 900)

	recA := Record{UserId: 1, Signature: sigA, Dc: signature.DcTriple{1, 1, 1}, Resolution: signature.Resolution{Width: 8, Height: 8}}
	recB := Record{UserId: 2, Signature: sigB, Dc: signature.DcTriple{1, 1, 1}, Resolution: signature.Resolution{Width: 8, Height: 8}}

	if _, err := db.AddImage(recA); err != nil {
		t.Fatalf("AddImage(A) failed: %v", err)
	}
	if _, err := db.AddImage(recB); err != nil {
		t.Fatalf("AddImage(B) failed: %v", err)
	}

	params := NewQueryParams(sigA, recA.Dc, recA.Resolution)
	params.K = 2
	results := db.Query(params)

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].UserId != 1 {
		t.Errorf("results[0].UserId = %d, want 1 (exact match first)", results[0].UserId)
	}
	if results[1].UserId != 2 {
		t.Errorf("results[1].UserId = %d, want 2 (near match second)", results[1].UserId)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("results[0].Score=%f should exceed results[1].Score=%f", results[0].Score, results[1].Score)
	}
}

func TestQueryAfterRemoveOnlySeesSurvivor(t *testing.T) {
	db := NewMemDb()
	sigA := sigWithPositions(1)
	sigB := sigWithPositions(500)

	recA := Record{UserId: 1, Signature: sigA, Dc: signature.DcTriple{1, 1, 1}, Resolution: signature.Resolution{Width: 8, Height: 8}}
	recB := Record{UserId: 2, Signature: sigB, Dc: signature.DcTriple{2, 2, 2}, Resolution: signature.Resolution{Width: 8, Height: 8}}

	if _, err := db.AddImage(recA); err != nil {
		t.Fatalf("AddImage(A) failed: %v", err)
	}
	if _, err := db.AddImage(recB); err != nil {
		t.Fatalf("AddImage(B) failed: %v", err)
	}
	if _, err := db.RemoveImage(1); err != nil {
		t.Fatalf("RemoveImage(1) failed: %v", err)
	}

	if _, ok := db.Has(1); ok {
		t.Errorf("Has(1) = true, want false")
	}
	if _, ok := db.Has(2); !ok {
		t.Errorf("Has(2) = false, want true")
	}
	if db.NumImages() != 1 {
		t.Errorf("NumImages() = %d, want 1", db.NumImages())
	}

	results := db.Query(NewQueryParams(sigB, recB.Dc, recB.Resolution))
	if len(results) != 1 || results[0].UserId != 2 {
		t.Errorf("results = %+v, want a single match for UserId 2", results)
	}
}

func TestQueryKZeroReturnsEmpty(t *testing.T) {
	db := NewMemDb()
	sig := sigWithPositions(1)
	rec := Record{UserId: 1, Signature: sig, Resolution: signature.Resolution{Width: 8, Height: 8}}
	if _, err := db.AddImage(rec); err != nil {
		t.Fatalf("AddImage failed: %v", err)
	}

	params := NewQueryParams(sig, rec.Dc, rec.Resolution)
	params.K = 0
	if results := db.Query(params); len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 for k=0", len(results))
	}
}

func TestQueryOnEmptyDbReturnsEmpty(t *testing.T) {
	db := NewMemDb()
	sig := sigWithPositions(1)
	if results := db.Query(NewQueryParams(sig, signature.DcTriple{}, signature.Resolution{})); len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 on an empty database", len(results))
	}
}

func TestQueryUserIdFilterExcludesCandidate(t *testing.T) {
	db := NewMemDb()
	sig := sigWithPositions(1)
	rec := Record{UserId: 1, Signature: sig, Resolution: signature.Resolution{Width: 8, Height: 8}}
	if _, err := db.AddImage(rec); err != nil {
		t.Fatalf("AddImage failed: %v", err)
	}

	params := NewQueryParams(sig, rec.Dc, rec.Resolution)
	params.UserIdFilter = func(uid signature.UserId) bool { return uid != 1 }
	if results := db.Query(params); len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 when the only candidate is filtered out", len(results))
	}
}
