// Command diqs is the CLI/server front end for the image similarity
// database: add and remove images, query for similar ones, or run as a
// long-lived server ingesting signatures over TCP.
package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/cocosip/go-dicom-codec/jpeg/baseline"
	_ "github.com/cocosip/go-dicom-codec/jpeg/extended"
	_ "github.com/cocosip/go-dicom-codec/jpeg/lossless"
	_ "github.com/cocosip/go-dicom-codec/jpeg/lossless14sv1"
	_ "github.com/cocosip/go-dicom-codec/jpeg2000/lossless"
	_ "github.com/cocosip/go-dicom-codec/jpeg2000/lossy"
	_ "github.com/cocosip/go-dicom-codec/jpegls/lossless"
	_ "github.com/cocosip/go-dicom-codec/jpegls/nearlossless"

	"github.com/cocosip/go-dicom-codec/signature"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  diqs add    <db-file> <image> [user-id]")
	fmt.Println("  diqs remove <db-file> <user-id>")
	fmt.Println("  diqs query  <db-file> <image> [k]")
	fmt.Println("  diqs serve  <db-file> [host:port]")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = dispatchAdd(os.Args[2:])
	case "remove":
		err = dispatchRemove(os.Args[2:])
	case "query":
		err = dispatchQuery(os.Args[2:])
	case "serve":
		err = dispatchServe(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("diqs: %v", err)
	}
}

func dispatchAdd(args []string) error {
	if len(args) < 2 {
		usage()
		os.Exit(1)
	}
	var uid signature.UserId
	if len(args) > 2 {
		parsed, err := parseUserId(args[2])
		if err != nil {
			return err
		}
		uid = parsed
	}
	return runAdd(args[0], args[1], uid)
}

func dispatchRemove(args []string) error {
	if len(args) < 2 {
		usage()
		os.Exit(1)
	}
	uid, err := parseUserId(args[1])
	if err != nil {
		return err
	}
	return runRemove(args[0], uid)
}

func dispatchQuery(args []string) error {
	if len(args) < 2 {
		usage()
		os.Exit(1)
	}
	k := 10
	if len(args) > 2 {
		var err error
		k, err = atoiK(args[2])
		if err != nil {
			return err
		}
	}
	return runQuery(args[0], args[1], k)
}

func dispatchServe(args []string) error {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	cfg := NewServerConfig(args[0])
	if len(args) > 1 {
		host, port, err := splitAddr(args[1])
		if err != nil {
			return err
		}
		cfg.Host, cfg.Port = host, port
	}
	return runServe(cfg)
}
