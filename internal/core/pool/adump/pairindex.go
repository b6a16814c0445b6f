package adump

import (
	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/core/oid"
)

// pairIndex overlays a ram index atop a loaded file index, so the open
// write session can add entries without rewriting the file until flush.
type pairIndex struct {
	file *fileIndex
	ram  *ramIndex
}

// emptyPairIndex returns an index with no file layer and no entries.
func emptyPairIndex() *pairIndex {
	return &pairIndex{
		file: emptyFileIndex(),
		ram:  newRamIndex(),
	}
}

// loadPairIndex loads the file layer from path, starting with a clean
// ram overlay.
func loadPairIndex(path string, expectedSize uint32) (*pairIndex, error) {
	fi, err := loadFileIndex(path, expectedSize)
	if err != nil {
		return nil, err
	}
	return &pairIndex{file: fi, ram: newRamIndex()}, nil
}

// save writes the union of both layers as a new index file at path.
func (p *pairIndex) save(path string, size uint32) error {
	return saveFileIndex(path, size, p.appendEntries(nil))
}

// isDirty reports whether the session has entries not yet saved.
func (p *pairIndex) isDirty() bool {
	return !p.ram.isEmpty()
}

// insert records a new entry in the ram layer.
func (p *pairIndex) insert(key oid.Oid, offset uint32, k kind.Kind) {
	p.ram.insert(key, offset, k)
}

func (p *pairIndex) containsKey(key oid.Oid) bool {
	return p.ram.containsKey(key) || p.file.containsKey(key)
}

func (p *pairIndex) get(key oid.Oid) (indexInfo, bool) {
	if info, ok := p.ram.get(key); ok {
		return info, true
	}
	return p.file.get(key)
}

func (p *pairIndex) appendEntries(dst []indexEntry) []indexEntry {
	dst = p.file.appendEntries(dst)
	return p.ram.appendEntries(dst)
}
