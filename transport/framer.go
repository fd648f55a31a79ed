// Package transport is the thin wire layer between a net.Conn and the
// persist package's fixed-size record format. spec.md treats the TCP
// transport as an external collaborator and calls for nothing more than
// a byte-copy framer: no length prefix, no message-level versioning,
// since every record already has a fixed, known size.
package transport

import (
	"fmt"
	"io"
)

// Framer reads and writes fixed-size frames of size frameSize over an
// io.Reader/io.Writer. It carries no other state: the caller (cmd/diqs)
// owns the connection's lifecycle.
type Framer struct {
	frameSize int
}

// NewFramer returns a Framer for frames of exactly frameSize bytes.
func NewFramer(frameSize int) *Framer {
	return &Framer{frameSize: frameSize}
}

// ReadFrame reads exactly one frame from r. It returns io.EOF unmodified
// when r is exhausted before any bytes of a new frame are read, and
// io.ErrUnexpectedEOF (via io.ReadFull) if the connection closes
// mid-frame.
func (f *Framer) ReadFrame(r io.Reader) ([]byte, error) {
	buf := make([]byte, f.frameSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteFrame writes frame to w verbatim. It is an error for frame to be
// any size other than the Framer's configured frameSize - the framer
// does no padding or truncation of its own.
func (f *Framer) WriteFrame(w io.Writer, frame []byte) error {
	if len(frame) != f.frameSize {
		return fmt.Errorf("transport: frame is %d bytes, want %d", len(frame), f.frameSize)
	}
	_, err := w.Write(frame)
	return err
}
