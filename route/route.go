// Package route holds the in-memory model shared by extraction, the
// merge store and the output writer.
package route

import (
	"fmt"
	"sort"

	"github.com/dave/mapmerge/geo"
)

// Route is one recorded track: a display name and an ordered coordinate
// line, tagged with the archive it came from. Routes are immutable once
// extracted; a later route with the same ID supersedes the whole record.
type Route struct {
	ID     string
	Name   string
	Desc   string
	Source string
	Line   geo.Line
}

// ID derives the stable identifier for the n-th route extracted from an
// archive. The archive stem keeps identifiers from different recordings
// apart; the placemark name (or its "Route N" fallback) separates
// multiple tracks within one recording. Re-processing the same archive
// therefore produces the same identifiers, which is what lets the merge
// store replace stale entries.
func ID(stem, name string, n int) string {
	if name == "" {
		name = Fallback(n)
	}
	return stem + "/" + name
}

// Fallback is the generated display name for the n-th unnamed placemark
// in an archive (1-based).
func Fallback(n int) string {
	return fmt.Sprintf("Route %d", n)
}

// Collection maps identifier to route. Identifiers are unique by
// construction; output ordering is decided by sorting IDs, not by
// insertion order.
type Collection map[string]Route

// Add inserts r, replacing any existing route with the same identifier.
func (c Collection) Add(r Route) {
	c[r.ID] = r
}

// IDs returns the identifiers in sorted order for deterministic output.
func (c Collection) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
