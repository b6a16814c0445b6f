// Package cas is the public surface of the content-addressed store. It
// opens whichever pool variant lives at a path and re-exports the chunk
// types writers need.
package cas

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/fenilsonani/adump/internal/core/pool"
	"github.com/fenilsonani/adump/internal/core/pool/adump"
)

// ChunkSource is the capability set every pool provides.
type ChunkSource = pool.ChunkSource

// ErrMissingChunk is returned by Find when an oid is not present.
var ErrMissingChunk = pool.ErrMissingChunk

// ErrNotAPool is returned by Open when no pool layout is recognized.
var ErrNotAPool = pool.ErrNotAPool

// ErrLegacyPool marks a directory holding the retired SQLite-backed pool
// layout, which this tool no longer reads or writes.
var ErrLegacyPool = errors.New("legacy sqlite pool is not supported")

// Open probes the layout at path and opens the matching pool variant.
func Open(path string) (ChunkSource, error) {
	if _, err := os.Stat(filepath.Join(path, "data.db")); err == nil {
		return nil, errors.Wrapf(ErrLegacyPool, "open pool %s", path)
	}
	if _, err := os.Stat(filepath.Join(path, "metadata", "props.txt")); err == nil {
		return adump.Open(path)
	}
	return nil, errors.Wrapf(ErrNotAPool, "open pool %s", path)
}

// Create builds a new pool directory at path with the given parameters.
func Create(path string, newfile bool, limit uint32) error {
	return adump.NewBuilder(path).SetNewFile(newfile).SetLimit(limit).Create()
}

// NewRamPool returns a purely in-memory pool, useful for measurements
// and tests.
func NewRamPool() ChunkSource {
	return pool.NewRamPool()
}
