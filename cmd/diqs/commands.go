package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cocosip/go-dicom-codec/imgdb"
	"github.com/cocosip/go-dicom-codec/internal/imaging"
	"github.com/cocosip/go-dicom-codec/persist"
	"github.com/cocosip/go-dicom-codec/signature"
)

// openDb opens the FileStore at path and replays its records into a fresh
// MemDb. The two stay in lockstep for the lifetime of one CLI invocation:
// every mutation below is applied to both, in the same order, before
// store.Save persists it.
func openDb(path string) (*imgdb.MemDb, *persist.FileStore, error) {
	store, err := persist.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	db := imgdb.NewMemDb()
	for _, rec := range store.Records() {
		if _, err := db.AddImage(rec); err != nil {
			return nil, nil, fmt.Errorf("replay %s: %w", path, err)
		}
	}
	return db, store, nil
}

// runAdd extracts a signature from imagePath and appends it to the
// database at dbPath under uid (or an auto-generated ID if uid == 0).
func runAdd(dbPath, imagePath string, uid signature.UserId) error {
	db, store, err := openDb(dbPath)
	if err != nil {
		return err
	}

	dec := imaging.NewDecoder()
	sig, dc, res, err := signature.Extract(imagePath, dec)
	if err != nil {
		return fmt.Errorf("extract %s: %w", imagePath, err)
	}

	if uid == 0 {
		uid = db.NextId()
	}

	rec := imgdb.Record{UserId: uid, Signature: sig, Dc: dc, Resolution: res}
	if _, err := db.AddImage(rec); err != nil {
		return err
	}
	if err := store.AppendImage(rec); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}

	fmt.Printf("added %s as user id %d\n", imagePath, uid)
	return nil
}

// runRemove deletes uid from the database at dbPath.
func runRemove(dbPath string, uid signature.UserId) error {
	db, store, err := openDb(dbPath)
	if err != nil {
		return err
	}

	if _, err := db.RemoveImage(uid); err != nil {
		return err
	}
	if _, err := store.RemoveImage(uid); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}

	fmt.Printf("removed user id %d\n", uid)
	return nil
}

// runQuery extracts a signature from imagePath and reports the k most
// similar images already in the database at dbPath.
func runQuery(dbPath, imagePath string, k int) error {
	db, _, err := openDb(dbPath)
	if err != nil {
		return err
	}

	dec := imaging.NewDecoder()
	sig, dc, res, err := signature.Extract(imagePath, dec)
	if err != nil {
		return fmt.Errorf("extract %s: %w", imagePath, err)
	}

	params := imgdb.NewQueryParams(sig, dc, res)
	params.K = k
	if err := params.Validate(); err != nil {
		return err
	}

	matches := db.Query(params)
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for rank, m := range matches {
		fmt.Printf("%2d. user id %d  score %.2f\n", rank+1, m.UserId, m.Score)
	}
	return nil
}

func parseUserId(s string) (signature.UserId, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", s, err)
	}
	return signature.UserId(v), nil
}

func atoiK(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid k %q: %w", s, err)
	}
	return v, nil
}

// splitAddr parses a "host:port" string for the serve subcommand's
// optional address override.
func splitAddr(s string) (host string, port int, err error) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return "", 0, fmt.Errorf("invalid address %q, want host:port", s)
	}
	host = s[:idx]
	p, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", s, err)
	}
	return host, p, nil
}
