package persist

import (
	"encoding/binary"
	"fmt"

	"github.com/cocosip/go-dicom-codec/signature"
)

// fileMagic identifies a go-diqs database file.
var fileMagic = [4]byte{'D', 'I', 'Q', 'S'}

// fileVersion is the on-disk format version. Bump it whenever RecordSize
// or the header layout changes incompatibly.
const fileVersion uint16 = 1

// headerSize is the fixed byte width of the file header: magic(4) ||
// version(2) || W(2) || H(2) || N(2) || C(2).
const headerSize = 4 + 2 + 2 + 2 + 2 + 2

type header struct {
	version    uint16
	width      uint16
	height     uint16
	coeffCount uint16
	channels   uint16
}

func defaultHeader() header {
	return header{
		version:    fileVersion,
		width:      signature.W,
		height:     signature.H,
		coeffCount: signature.N,
		channels:   signature.C,
	}
}

func encodeHeader(h header, buf []byte) error {
	if len(buf) < headerSize {
		return fmt.Errorf("persist: header buffer too small: have %d, need %d", len(buf), headerSize)
	}
	copy(buf[0:4], fileMagic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.version)
	binary.LittleEndian.PutUint16(buf[6:8], h.width)
	binary.LittleEndian.PutUint16(buf[8:10], h.height)
	binary.LittleEndian.PutUint16(buf[10:12], h.coeffCount)
	binary.LittleEndian.PutUint16(buf[12:14], h.channels)
	return nil
}

func decodeHeader(buf []byte) (header, error) {
	if len(buf) < headerSize {
		return header{}, fmt.Errorf("persist: header buffer too small: have %d, need %d", len(buf), headerSize)
	}
	if buf[0] != fileMagic[0] || buf[1] != fileMagic[1] || buf[2] != fileMagic[2] || buf[3] != fileMagic[3] {
		return header{}, fmt.Errorf("persist: bad magic: %q", buf[0:4])
	}

	h := header{
		version:    binary.LittleEndian.Uint16(buf[4:6]),
		width:      binary.LittleEndian.Uint16(buf[6:8]),
		height:     binary.LittleEndian.Uint16(buf[8:10]),
		coeffCount: binary.LittleEndian.Uint16(buf[10:12]),
		channels:   binary.LittleEndian.Uint16(buf[12:14]),
	}

	want := defaultHeader()
	if h.width != want.width || h.height != want.height || h.coeffCount != want.coeffCount || h.channels != want.channels {
		return header{}, fmt.Errorf("persist: file built with incompatible dimensions W=%d H=%d N=%d C=%d, binary expects W=%d H=%d N=%d C=%d",
			h.width, h.height, h.coeffCount, h.channels, want.width, want.height, want.coeffCount, want.channels)
	}

	return h, nil
}
