package adump

import (
	"fmt"
	"sort"

	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/core/oid"
)

// ramIndex is a purely in-memory index mapping oids to chunk locations.
// It accumulates the entries of an open write session before they are
// written out as a file index.
type ramIndex struct {
	entries map[oid.Oid]indexInfo
}

func newRamIndex() *ramIndex {
	return &ramIndex{entries: make(map[oid.Oid]indexInfo)}
}

// insert records a new entry. Inserting a duplicate key is a programmer
// error; callers must dedupe with containsKey first.
func (r *ramIndex) insert(key oid.Oid, offset uint32, k kind.Kind) {
	if _, ok := r.entries[key]; ok {
		panic(fmt.Sprintf("duplicate key inserted into index: %s", key))
	}
	r.entries[key] = indexInfo{offset: offset, kind: k}
}

func (r *ramIndex) isEmpty() bool {
	return len(r.entries) == 0
}

func (r *ramIndex) containsKey(key oid.Oid) bool {
	_, ok := r.entries[key]
	return ok
}

func (r *ramIndex) get(key oid.Oid) (indexInfo, bool) {
	info, ok := r.entries[key]
	return info, ok
}

func (r *ramIndex) appendEntries(dst []indexEntry) []indexEntry {
	start := len(dst)
	for id, info := range r.entries {
		dst = append(dst, indexEntry{oid: id, kind: info.kind, offset: info.offset})
	}
	added := dst[start:]
	sort.Slice(added, func(i, j int) bool {
		return added[i].oid.Less(added[j].oid)
	})
	return dst
}
