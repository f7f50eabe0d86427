// Package kmz reads the KMZ archives exported by Garmin devices via
// Google Takeout. A KMZ is a zip container holding one KML document
// (commonly "doc.kml") plus optional media files we ignore.
package kmz

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dave/mapmerge/kml"
)

// ErrArchive wraps failures to get a KML document out of a container:
// unreadable zip, empty zip, or no .kml entry.
var ErrArchive = errors.New("kmz archive error")

// Load opens the archive at fpath and decodes the first KML document
// found inside it.
func Load(fpath string) (kml.Root, error) {
	b, err := Extract(fpath)
	if err != nil {
		return kml.Root{}, err
	}
	root, err := kml.Decode(bytes.NewReader(b))
	if err != nil {
		return kml.Root{}, fmt.Errorf("kmz %q: %w", fpath, err)
	}
	return root, nil
}

// Extract returns the raw bytes of the first .kml entry in the archive.
func Extract(fpath string) ([]byte, error) {
	zr, err := zip.OpenReader(fpath)
	if err != nil {
		return nil, fmt.Errorf("opening kmz %q: %w: %v", fpath, ErrArchive, err)
	}
	defer zr.Close()

	if len(zr.File) == 0 {
		return nil, fmt.Errorf("kmz %q is empty: %w", fpath, ErrArchive)
	}

	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".kml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %q in kmz %q: %w: %v", f.Name, fpath, ErrArchive, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %q in kmz %q: %w: %v", f.Name, fpath, ErrArchive, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("no kml document in kmz %q: %w", fpath, ErrArchive)
}
