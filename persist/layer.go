package persist

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/cocosip/go-dicom-codec/imgdb"
	"github.com/cocosip/go-dicom-codec/signature"
)

// PersistenceLayer streams signatures to and from disk, mirroring
// imgdb.MemDb's semantics minus the query engine. It is used to rehydrate
// a MemDb at startup and to snapshot one on save. Error conditions mirror
// imgdb.ErrIdNotFound and imgdb.ErrAlreadyHaveId.
type PersistenceLayer interface {
	GetImage(uid signature.UserId) (imgdb.Record, error)
	RemoveImage(uid signature.UserId) (imgdb.Record, error)
	AppendImage(rec imgdb.Record) error
	Save() error
	Close() error
	IsOpen() bool
	Dirty() bool
	Length() int
	// Records returns every stored record. A general-purpose iterator or
	// purge abstraction is explicitly out of scope (spec.md Non-goals);
	// a snapshot slice is enough for rehydrating a MemDb.
	Records() []imgdb.Record
}

// FileStore is a PersistenceLayer backed by a single file of a fixed
// header followed by back-to-back fixed-size records. It keeps a
// complete in-memory mirror of the file's contents; Save rewrites the
// whole file from that mirror, which is the "durability no stronger than
// flush on explicit save" the spec calls for.
type FileStore struct {
	path    string
	records []imgdb.Record
	byUser  map[signature.UserId]int
	dirty   bool
	open    bool
}

var (
	errStoreClosed = errors.New("persist: store is closed")
)

// Open loads path if it exists, or starts an empty store that will be
// created at that path on the first Save.
func Open(path string) (*FileStore, error) {
	store := &FileStore{
		path:   path,
		byUser: make(map[signature.UserId]int),
		open:   true,
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	defer f.Close()

	if err := store.load(f); err != nil {
		return nil, fmt.Errorf("persist: load %s: %w", path, err)
	}
	return store, nil
}

func (s *FileStore) load(f *os.File) error {
	reader := bufio.NewReader(f)

	headerBuf := make([]byte, headerSize)
	if _, err := readFull(reader, headerBuf); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if _, err := decodeHeader(headerBuf); err != nil {
		return err
	}

	recordBuf := make([]byte, RecordSize)
	for {
		n, err := readFull(reader, recordBuf)
		if n == 0 && err != nil {
			break
		}
		if err != nil {
			return fmt.Errorf("truncated record: %w", err)
		}
		rec, err := DecodeRecord(recordBuf)
		if err != nil {
			return err
		}
		s.byUser[rec.UserId] = len(s.records)
		s.records = append(s.records, rec)
	}
	return nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// GetImage returns the stored record for uid.
func (s *FileStore) GetImage(uid signature.UserId) (imgdb.Record, error) {
	idx, ok := s.byUser[uid]
	if !ok {
		return imgdb.Record{}, fmt.Errorf("%w: %d", imgdb.ErrIdNotFound, uid)
	}
	return s.records[idx], nil
}

// RemoveImage deletes uid's record and returns it, using the same
// swap-with-last discipline as imgdb.MemDb so index bookkeeping stays
// O(1).
func (s *FileStore) RemoveImage(uid signature.UserId) (imgdb.Record, error) {
	idx, ok := s.byUser[uid]
	if !ok {
		return imgdb.Record{}, fmt.Errorf("%w: %d", imgdb.ErrIdNotFound, uid)
	}

	removed := s.records[idx]
	last := len(s.records) - 1
	if idx != last {
		moved := s.records[last]
		s.records[idx] = moved
		s.byUser[moved.UserId] = idx
	}
	s.records = s.records[:last]
	delete(s.byUser, uid)
	s.dirty = true

	return removed, nil
}

// AppendImage adds rec, failing with imgdb.ErrAlreadyHaveId if its user
// ID is already present.
func (s *FileStore) AppendImage(rec imgdb.Record) error {
	if _, ok := s.byUser[rec.UserId]; ok {
		return fmt.Errorf("%w: %d", imgdb.ErrAlreadyHaveId, rec.UserId)
	}
	s.byUser[rec.UserId] = len(s.records)
	s.records = append(s.records, rec)
	s.dirty = true
	return nil
}

// Save flushes the in-memory mirror to path, replacing its previous
// contents. It is the only point at which this store's state becomes
// durable; nothing is written incrementally as Append/RemoveImage are
// called.
func (s *FileStore) Save() error {
	if !s.open {
		return errStoreClosed
	}

	tmpPath := s.path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("persist: create %s: %w", tmpPath, err)
	}

	writer := bufio.NewWriter(f)
	headerBuf := make([]byte, headerSize)
	if err := encodeHeader(defaultHeader(), headerBuf); err != nil {
		f.Close()
		return err
	}
	if _, err := writer.Write(headerBuf); err != nil {
		f.Close()
		return fmt.Errorf("persist: write header: %w", err)
	}

	recordBuf := make([]byte, RecordSize)
	for _, rec := range s.records {
		if err := EncodeRecord(rec, recordBuf); err != nil {
			f.Close()
			return err
		}
		if _, err := writer.Write(recordBuf); err != nil {
			f.Close()
			return fmt.Errorf("persist: write record: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("persist: flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("persist: close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("persist: rename %s to %s: %w", tmpPath, s.path, err)
	}

	s.dirty = false
	return nil
}

// Close marks the store closed. It does not implicitly Save; callers
// that want their changes to survive must call Save first.
func (s *FileStore) Close() error {
	s.open = false
	return nil
}

// IsOpen reports whether the store is still open, that is, whether Close
// has not yet been called.
func (s *FileStore) IsOpen() bool { return s.open }

// Dirty reports whether any append/remove has happened since the last
// successful Save.
func (s *FileStore) Dirty() bool { return s.dirty }

// Length returns the number of records currently held.
func (s *FileStore) Length() int { return len(s.records) }

// Records returns a copy of every stored record.
func (s *FileStore) Records() []imgdb.Record {
	out := make([]imgdb.Record, len(s.records))
	copy(out, s.records)
	return out
}

var _ PersistenceLayer = (*FileStore)(nil)
