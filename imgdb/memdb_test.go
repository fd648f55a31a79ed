package imgdb

import (
	"errors"
	"testing"

	"github.com/cocosip/go-dicom-codec/signature"
)

func record(uid signature.UserId, seed int32) Record {
	return Record{
		UserId:    uid,
		Signature: sigWithPositions(seed),
		Dc:        signature.DcTriple{float64(seed), float64(seed) + 1, float64(seed) + 2},
		Resolution: signature.Resolution{
			Width:  100,
			Height: 100,
		},
	}
}

func TestMemDbAddThenHasAndGetImage(t *testing.T) {
	db := NewMemDb()

	if _, err := db.AddImage(record(1, 10)); err != nil {
		t.Fatalf("AddImage failed: %v", err)
	}

	if _, ok := db.Has(1); !ok {
		t.Errorf("Has(1) = false, want true")
	}
	if _, ok := db.Has(2); ok {
		t.Errorf("Has(2) = true, want false")
	}

	img, err := db.GetImage(1)
	if err != nil {
		t.Fatalf("GetImage(1) failed: %v", err)
	}
	if img.UserId != 1 {
		t.Errorf("GetImage(1).UserId = %d, want 1", img.UserId)
	}
}

func TestMemDbGetImageNotFound(t *testing.T) {
	db := NewMemDb()
	if _, err := db.GetImage(99); !errors.Is(err, ErrIdNotFound) {
		t.Errorf("err = %v, want ErrIdNotFound", err)
	}
}

func TestMemDbAddDuplicateFails(t *testing.T) {
	db := NewMemDb()
	if _, err := db.AddImage(record(1, 10)); err != nil {
		t.Fatalf("first AddImage failed: %v", err)
	}

	before, _ := db.GetImage(1)

	if _, err := db.AddImage(record(1, 999)); !errors.Is(err, ErrAlreadyHaveId) {
		t.Errorf("err = %v, want ErrAlreadyHaveId", err)
	}

	if db.NumImages() != 1 {
		t.Errorf("NumImages() = %d, want 1 after a rejected duplicate add", db.NumImages())
	}
	after, _ := db.GetImage(1)
	if after != before {
		t.Errorf("state changed after a rejected duplicate add: before=%+v after=%+v", before, after)
	}
}

func TestMemDbRemoveImageNotFound(t *testing.T) {
	db := NewMemDb()
	if _, err := db.RemoveImage(1); !errors.Is(err, ErrIdNotFound) {
		t.Errorf("err = %v, want ErrIdNotFound", err)
	}
}

func TestMemDbAddRemoveRoundTrip(t *testing.T) {
	db := NewMemDb()
	rec := record(1, 10)

	if _, err := db.AddImage(rec); err != nil {
		t.Fatalf("AddImage failed: %v", err)
	}

	got, err := db.RemoveImage(1)
	if err != nil {
		t.Fatalf("RemoveImage failed: %v", err)
	}

	if got.UserId != rec.UserId || got.Dc != rec.Dc || got.Resolution != rec.Resolution {
		t.Errorf("RemoveImage = %+v, want fields matching %+v", got, rec)
	}
	if !got.Signature.Equal(rec.Signature) {
		t.Errorf("RemoveImage signature mismatch")
	}
	if db.NumImages() != 0 {
		t.Errorf("NumImages() = %d, want 0 after removing the only image", db.NumImages())
	}
}

func TestMemDbMidArrayRemovalKeepsInternIdsContiguous(t *testing.T) {
	db := NewMemDb()
	for i, uid := range []signature.UserId{1, 2, 3} {
		if _, err := db.AddImage(record(uid, int32(i*10+1))); err != nil {
			t.Fatalf("AddImage(%d) failed: %v", uid, err)
		}
	}

	if _, err := db.RemoveImage(1); err != nil {
		t.Fatalf("RemoveImage(1) failed: %v", err)
	}

	if db.NumImages() != 2 {
		t.Fatalf("NumImages() = %d, want 2", db.NumImages())
	}
	if _, ok := db.Has(1); ok {
		t.Errorf("Has(1) = true, want false after removal")
	}
	if _, ok := db.Has(2); !ok {
		t.Errorf("Has(2) = false, want true")
	}
	if _, ok := db.Has(3); !ok {
		t.Errorf("Has(3) = false, want true")
	}

	for uid, intern := range db.byUser {
		if int(intern) >= db.NumImages() {
			t.Errorf("uid %d maps to internId %d, which is out of [0, %d)", uid, intern, db.NumImages())
		}
	}
}

func TestMemDbReAddAfterRemoveMatchesFreshAdd(t *testing.T) {
	withReAdd := NewMemDb()
	rec := record(7, 5)
	if _, err := withReAdd.AddImage(rec); err != nil {
		t.Fatalf("AddImage failed: %v", err)
	}
	if _, err := withReAdd.RemoveImage(7); err != nil {
		t.Fatalf("RemoveImage failed: %v", err)
	}
	if _, err := withReAdd.AddImage(rec); err != nil {
		t.Fatalf("re-AddImage failed: %v", err)
	}

	fresh := NewMemDb()
	if _, err := fresh.AddImage(rec); err != nil {
		t.Fatalf("AddImage on fresh db failed: %v", err)
	}

	if withReAdd.NumImages() != fresh.NumImages() {
		t.Errorf("NumImages() = %d, want %d", withReAdd.NumImages(), fresh.NumImages())
	}
	gotImg, _ := withReAdd.GetImage(7)
	wantImg, _ := fresh.GetImage(7)
	if gotImg != wantImg {
		t.Errorf("GetImage(7) = %+v, want %+v", gotImg, wantImg)
	}
}

func TestMemDbNextIdExceedsObservedId(t *testing.T) {
	db := NewMemDb()
	if _, err := db.AddImage(record(100, 1)); err != nil {
		t.Fatalf("AddImage failed: %v", err)
	}

	if next := db.NextId(); next <= 100 {
		t.Errorf("NextId() = %d, want > 100", next)
	}
}

func TestMemDbInvariantImagesMatchUserMap(t *testing.T) {
	db := NewMemDb()
	for i, uid := range []signature.UserId{10, 20, 30, 40} {
		if _, err := db.AddImage(record(uid, int32(i*3+1))); err != nil {
			t.Fatalf("AddImage(%d) failed: %v", uid, err)
		}
	}
	if _, err := db.RemoveImage(20); err != nil {
		t.Fatalf("RemoveImage(20) failed: %v", err)
	}

	if len(db.images) != len(db.byUser) {
		t.Fatalf("len(images)=%d != len(byUser)=%d", len(db.images), len(db.byUser))
	}
	for uid, intern := range db.byUser {
		if db.images[intern].UserId != uid {
			t.Errorf("images[%d].UserId = %d, want %d", intern, db.images[intern].UserId, uid)
		}
	}
}
