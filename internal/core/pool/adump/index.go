// Package adump implements the append-only pool layout: framed chunks in
// serial-numbered pool-data files, each with a sorted sibling index.
package adump

import (
	"fmt"

	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/core/oid"
)

// InvalidIndexError reports an index file that cannot be used: bad magic,
// wrong version, a recorded pool-file size that disagrees with the actual
// file, or any lower-level failure while loading. Callers seeing it may
// choose to rebuild the index from the data file.
type InvalidIndexError struct {
	Msg string
	Err error
}

func (e *InvalidIndexError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid index file: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("invalid index file: %s", e.Msg)
}

func (e *InvalidIndexError) Unwrap() error {
	return e.Err
}

// indexInfo locates one chunk within a pool-file.
type indexInfo struct {
	offset uint32
	kind   kind.Kind
}

// indexEntry is one (oid, info) pair produced when iterating an index.
type indexEntry struct {
	oid    oid.Oid
	kind   kind.Kind
	offset uint32
}

// index is the read side shared by the ram, file, and pair indexes.
type index interface {
	containsKey(key oid.Oid) bool
	get(key oid.Oid) (indexInfo, bool)
	// appendEntries appends this index's entries to dst and returns it.
	// File indexes yield entries in oid order; ram indexes sort first.
	appendEntries(dst []indexEntry) []indexEntry
}
