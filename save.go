package main

import (
	"errors"
	"fmt"

	"github.com/dave/mapmerge/kml"
	"github.com/dave/mapmerge/route"
)

// ErrWrite wraps output document failures. Always fatal for the run.
var ErrWrite = errors.New("output write error")

// saveCombined serializes the styled collection to one KML document.
// Placemarks are emitted in sorted identifier order so the same
// collection always produces the same file. An empty collection is an
// error: never write an empty document.
func saveCombined(col route.Collection, s Style, fpath string) error {
	if len(col) == 0 {
		return fmt.Errorf("refusing to write empty document %q: %w", fpath, ErrWrite)
	}

	doc := kml.Document{
		Name:       "Combined Routes",
		Visibility: 1,
		Open:       1,
	}
	for _, id := range col.IDs() {
		doc.Placemarks = append(doc.Placemarks, buildPlacemark(col[id], s))
	}

	root := kml.Root{
		Xmlns:    "http://www.opengis.net/kml/2.2",
		Document: doc,
	}
	if err := root.Save(fpath); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
