package adump

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/renameio"

	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/core/oid"
)

// File index layout, all little-endian:
//
//   offset  size   field
//        0     8   magic "ldumpidx"
//        8     4   version = 4
//       12     4   size of the sibling .data file
//       16  1024   top[0..256), top[b] = count of entries with oid[0] <= b
//             N*20 oids, sorted ascending
//             N*4  offsets, parallel to oids
//              4   number of distinct kinds K
//             K*4  kind table, raw 32-bit kind values in first-seen order
//             N*1  per-entry byte index into the kind table
//
// N is implicit in top[255].

var indexMagic = []byte("ldumpidx")

const indexVersion = 4

// fileIndex is the in-memory form of one loaded index file. It is
// immutable once loaded; updates accumulate in a ramIndex overlay.
type fileIndex struct {
	top       []uint32
	oids      []oid.Oid
	offsets   []uint32
	kindNames []kind.Kind
	kinds     []byte
}

// emptyFileIndex returns an index containing no entries.
func emptyFileIndex() *fileIndex {
	return &fileIndex{top: make([]uint32, 256)}
}

// loadFileIndex reads and validates the index at path. expectedSize is
// the current byte size of the sibling .data file; a recorded size that
// differs means the data file changed out of band and the index must be
// rebuilt.
func loadFileIndex(path string, expectedSize uint32) (*fileIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InvalidIndexError{Msg: "cannot open index", Err: err}
	}
	defer f.Close()

	rd := bufio.NewReader(f)

	magic := make([]byte, 8)
	if _, err := io.ReadFull(rd, magic); err != nil {
		return nil, &InvalidIndexError{Msg: "short header", Err: err}
	}
	if string(magic) != string(indexMagic) {
		return nil, &InvalidIndexError{Msg: "bad magic"}
	}

	var version, fileSize uint32
	if err := binary.Read(rd, binary.LittleEndian, &version); err != nil {
		return nil, &InvalidIndexError{Msg: "short header", Err: err}
	}
	if version != indexVersion {
		return nil, &InvalidIndexError{Msg: "version mismatch"}
	}
	if err := binary.Read(rd, binary.LittleEndian, &fileSize); err != nil {
		return nil, &InvalidIndexError{Msg: "short header", Err: err}
	}
	if fileSize != expectedSize {
		return nil, &InvalidIndexError{Msg: "index size mismatch"}
	}

	top := make([]uint32, 256)
	if err := binary.Read(rd, binary.LittleEndian, top); err != nil {
		return nil, &InvalidIndexError{Msg: "short top table", Err: err}
	}

	count := int(top[255])

	oids := make([]oid.Oid, count)
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(rd, oids[i][:]); err != nil {
			return nil, &InvalidIndexError{Msg: "short oid table", Err: err}
		}
	}

	offsets := make([]uint32, count)
	if err := binary.Read(rd, binary.LittleEndian, offsets); err != nil {
		return nil, &InvalidIndexError{Msg: "short offset table", Err: err}
	}

	var kindCount uint32
	if err := binary.Read(rd, binary.LittleEndian, &kindCount); err != nil {
		return nil, &InvalidIndexError{Msg: "short kind table", Err: err}
	}
	kindNames := make([]kind.Kind, 0, kindCount)
	for i := uint32(0); i < kindCount; i++ {
		var raw [4]byte
		if _, err := io.ReadFull(rd, raw[:]); err != nil {
			return nil, &InvalidIndexError{Msg: "short kind table", Err: err}
		}
		k, err := kind.FromBytes(raw[:])
		if err != nil {
			return nil, &InvalidIndexError{Msg: "bad kind in table", Err: err}
		}
		kindNames = append(kindNames, k)
	}

	kinds := make([]byte, count)
	if _, err := io.ReadFull(rd, kinds); err != nil {
		return nil, &InvalidIndexError{Msg: "short kind entries", Err: err}
	}
	for _, ki := range kinds {
		if int(ki) >= len(kindNames) {
			return nil, &InvalidIndexError{Msg: "kind entry out of range"}
		}
	}

	return &fileIndex{
		top:       top,
		oids:      oids,
		offsets:   offsets,
		kindNames: kindNames,
		kinds:     kinds,
	}, nil
}

// saveFileIndex writes the entries as a new index file at path,
// atomically: the data is written to a temporary file in the same
// directory and renamed over the destination, so a reader always sees
// either the old index or the new one. size is the byte size of the
// sibling .data file the entries describe.
func saveFileIndex(path string, size uint32, entries []indexEntry) error {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].oid.Less(entries[j].oid)
	})

	pf, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return err
	}
	defer pf.Cleanup()

	wr := bufio.NewWriter(pf)

	if _, err := wr.Write(indexMagic); err != nil {
		return err
	}
	if err := binary.Write(wr, binary.LittleEndian, uint32(indexVersion)); err != nil {
		return err
	}
	if err := binary.Write(wr, binary.LittleEndian, size); err != nil {
		return err
	}

	if err := binary.Write(wr, binary.LittleEndian, computeTop(entries)); err != nil {
		return err
	}

	for i := range entries {
		if _, err := wr.Write(entries[i].oid[:]); err != nil {
			return err
		}
	}
	for i := range entries {
		if err := binary.Write(wr, binary.LittleEndian, entries[i].offset); err != nil {
			return err
		}
	}

	// Build the kind table in first-seen order over the sorted entries,
	// which makes it deterministic for a given population.
	var kinds []kind.Kind
	kindMap := make(map[kind.Kind]int)
	for i := range entries {
		if _, ok := kindMap[entries[i].kind]; !ok {
			kindMap[entries[i].kind] = len(kinds)
			kinds = append(kinds, entries[i].kind)
		}
	}

	if err := binary.Write(wr, binary.LittleEndian, uint32(len(kinds))); err != nil {
		return err
	}
	for _, k := range kinds {
		if err := binary.Write(wr, binary.LittleEndian, uint32(k)); err != nil {
			return err
		}
	}

	buf := make([]byte, len(entries))
	for i := range entries {
		buf[i] = byte(kindMap[entries[i].kind])
	}
	if _, err := wr.Write(buf); err != nil {
		return err
	}

	if err := wr.Flush(); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}

// computeTop builds the 256-entry cumulative prefix table over entries
// sorted by oid.
func computeTop(entries []indexEntry) []uint32 {
	top := make([]uint32, 256)
	pos := 0
	for b := 0; b < 256; b++ {
		for pos < len(entries) && int(entries[pos].oid.Prefix()) <= b {
			pos++
		}
		top[b] = uint32(pos)
	}
	return top
}

func (fi *fileIndex) len() int {
	return len(fi.oids)
}

// find returns the slot of key, narrowing the binary search with the
// first-byte prefix table.
func (fi *fileIndex) find(key oid.Oid) (int, bool) {
	firstByte := int(key.Prefix())

	low := 0
	if firstByte > 0 {
		low = int(fi.top[firstByte-1])
	}
	high := int(fi.top[firstByte])

	span := fi.oids[low:high]
	n := sort.Search(len(span), func(i int) bool {
		return !span[i].Less(key)
	})
	if n < len(span) && span[n] == key {
		return low + n, true
	}
	return 0, false
}

func (fi *fileIndex) containsKey(key oid.Oid) bool {
	_, ok := fi.find(key)
	return ok
}

func (fi *fileIndex) get(key oid.Oid) (indexInfo, bool) {
	n, ok := fi.find(key)
	if !ok {
		return indexInfo{}, false
	}
	return indexInfo{
		offset: fi.offsets[n],
		kind:   fi.kindNames[fi.kinds[n]],
	}, true
}

func (fi *fileIndex) appendEntries(dst []indexEntry) []indexEntry {
	for i := range fi.oids {
		dst = append(dst, indexEntry{
			oid:    fi.oids[i],
			kind:   fi.kindNames[fi.kinds[i]],
			offset: fi.offsets[i],
		})
	}
	return dst
}
