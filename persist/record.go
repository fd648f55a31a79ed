// Package persist implements the on-disk record layout and the
// PersistenceLayer used to rehydrate an imgdb.MemDb at startup and
// snapshot it back to disk.
package persist

import (
	"encoding/binary"
	"fmt"

	"github.com/cocosip/go-dicom-codec/imgdb"
	"github.com/cocosip/go-dicom-codec/signature"
)

// RecordSize is the fixed byte width of one on-disk record: UserId(8) ||
// signature positions (C*N*int32) || DC triple (C*float64) ||
// Resolution (2*uint16). No variable-length fields and no padding.
const RecordSize = 8 + signature.C*signature.N*4 + signature.C*8 + 4

// EncodeRecord writes rec into buf, which must be at least RecordSize
// bytes, using little-endian byte order per spec.md §6.
func EncodeRecord(rec imgdb.Record, buf []byte) error {
	if len(buf) < RecordSize {
		return fmt.Errorf("persist: buffer too small: have %d, need %d", len(buf), RecordSize)
	}

	offset := 0
	binary.LittleEndian.PutUint64(buf[offset:], uint64(rec.UserId))
	offset += 8

	for c := 0; c < signature.C; c++ {
		for _, pos := range rec.Signature.Positions[c] {
			binary.LittleEndian.PutUint32(buf[offset:], uint32(pos))
			offset += 4
		}
	}

	for c := 0; c < signature.C; c++ {
		binary.LittleEndian.PutUint64(buf[offset:], doubleToBits(rec.Dc[c]))
		offset += 8
	}

	binary.LittleEndian.PutUint16(buf[offset:], rec.Resolution.Width)
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], rec.Resolution.Height)
	offset += 2

	return nil
}

// DecodeRecord reads a record out of buf, which must be at least
// RecordSize bytes.
func DecodeRecord(buf []byte) (imgdb.Record, error) {
	if len(buf) < RecordSize {
		return imgdb.Record{}, fmt.Errorf("persist: buffer too small: have %d, need %d", len(buf), RecordSize)
	}

	var rec imgdb.Record
	offset := 0
	rec.UserId = signature.UserId(binary.LittleEndian.Uint64(buf[offset:]))
	offset += 8

	for c := 0; c < signature.C; c++ {
		for i := 0; i < signature.N; i++ {
			rec.Signature.Positions[c][i] = int32(binary.LittleEndian.Uint32(buf[offset:]))
			offset += 4
		}
	}

	for c := 0; c < signature.C; c++ {
		rec.Dc[c] = bitsToDouble(binary.LittleEndian.Uint64(buf[offset:]))
		offset += 8
	}

	rec.Resolution.Width = binary.LittleEndian.Uint16(buf[offset:])
	offset += 2
	rec.Resolution.Height = binary.LittleEndian.Uint16(buf[offset:])
	offset += 2

	return rec, nil
}
