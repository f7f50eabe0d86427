// Package store persists the merged route collection between runs as a
// zstd-compressed msgpack blob, replaced atomically on every save.
package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dave/mapmerge/route"
)

// ErrCorrupt wraps decode failures of an existing store file. Corruption
// is fatal for the run: silently starting from an empty history would
// surprise the user.
var ErrCorrupt = errors.New("merge store corrupt")

// Load reads the collection at fpath. A missing file is not an error and
// yields an empty collection.
func Load(fpath string) (route.Collection, error) {
	f, err := os.Open(fpath)
	if errors.Is(err, os.ErrNotExist) {
		return route.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening merge store %q: %w", fpath, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("merge store %q: %w: %v", fpath, ErrCorrupt, err)
	}
	defer zr.Close()

	var col route.Collection
	if err := msgpack.NewDecoder(zr).Decode(&col); err != nil {
		return nil, fmt.Errorf("merge store %q: %w: %v", fpath, ErrCorrupt, err)
	}
	if col == nil {
		col = route.Collection{}
	}
	return col, nil
}

// Merge folds incoming into existing, last write wins by identifier: an
// incoming route replaces any stored route with the same ID entirely.
// No field-level merging and no timestamp comparison, deliberately.
func Merge(existing, incoming route.Collection) route.Collection {
	merged := make(route.Collection, len(existing)+len(incoming))
	for id, r := range existing {
		merged[id] = r
	}
	for id, r := range incoming {
		merged[id] = r
	}
	return merged
}

// Save writes the collection to fpath via a temp file and rename, so a
// concurrent reader never sees a partially written store.
func Save(col route.Collection, fpath string) error {
	tmp := fpath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating merge store %q: %w", tmp, err)
	}

	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("merge store %q: %w", tmp, err)
	}
	if err := msgpack.NewEncoder(zw).Encode(col); err != nil {
		zw.Close()
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding merge store %q: %w", tmp, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flushing merge store %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing merge store %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, fpath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming merge store to %q: %w", fpath, err)
	}
	return nil
}
