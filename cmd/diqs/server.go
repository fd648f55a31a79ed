package main

import (
	"errors"
	"io"
	"log"
	"net"
	"sync"

	"github.com/cocosip/go-dicom-codec/imgdb"
	"github.com/cocosip/go-dicom-codec/persist"
	"github.com/cocosip/go-dicom-codec/transport"
)

// runServe starts a TCP listener at cfg.Addr() and, for each connection,
// streams in fixed-size persist records (spec.md's "trivial byte-copy
// framer": no length prefix, no message envelope) and appends each one
// to the database. The store is saved once per connection, after its
// stream ends, rather than after every record - a single slow writer
// should not force a full-file rewrite on every frame.
func runServe(cfg ServerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, store, err := openDb(cfg.DbPath)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}
	defer listener.Close()

	log.Printf("diqs: listening on %s, db=%s (%d images)", cfg.Addr(), cfg.DbPath, db.NumImages())

	// store has no internal lock of its own (unlike MemDb, which guards
	// itself) - one connection's goroutine could otherwise race another's
	// on its records/byUser fields, so every store access below the
	// listener goes through writeMu.
	var writeMu sync.Mutex

	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		go handleConn(conn, db, store, &writeMu)
	}
}

func handleConn(conn net.Conn, db *imgdb.MemDb, store *persist.FileStore, writeMu *sync.Mutex) {
	defer conn.Close()

	framer := transport.NewFramer(persist.RecordSize)
	accepted := 0

	for {
		buf, err := framer.ReadFrame(conn)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("diqs: %s: %v", conn.RemoteAddr(), err)
			break
		}

		rec, err := persist.DecodeRecord(buf)
		if err != nil {
			log.Printf("diqs: %s: bad record: %v", conn.RemoteAddr(), err)
			continue
		}

		if _, err := db.AddImage(rec); err != nil {
			log.Printf("diqs: %s: add user id %d: %v", conn.RemoteAddr(), rec.UserId, err)
			continue
		}

		writeMu.Lock()
		err = store.AppendImage(rec)
		writeMu.Unlock()
		if err != nil {
			log.Printf("diqs: %s: persist user id %d: %v", conn.RemoteAddr(), rec.UserId, err)
			continue
		}
		accepted++
	}

	if accepted == 0 {
		return
	}

	writeMu.Lock()
	err := store.Save()
	writeMu.Unlock()
	if err != nil {
		log.Printf("diqs: %s: save: %v", conn.RemoteAddr(), err)
		return
	}
	log.Printf("diqs: %s: accepted %d record(s)", conn.RemoteAddr(), accepted)
}
