// Package pool defines the chunk-source contract that all pool variants
// provide, and opens the correct variant for a path.
package pool

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/fenilsonani/adump/internal/core/chunk"
	"github.com/fenilsonani/adump/internal/core/oid"
)

var (
	// ErrMissingChunk is returned by Find when no chunk with the
	// requested oid exists in the pool.
	ErrMissingChunk = errors.New("missing chunk")

	// ErrNotAPool is returned by Open when the path does not hold any
	// recognized pool layout.
	ErrNotAPool = errors.New("not a storage pool")
)

// CorruptPoolError reports structural damage to a pool: an over-sized or
// non-regular pool-file, or a descriptor that could not be recovered
// after a failed buffer flush.
type CorruptPoolError struct {
	Msg string
}

func (e *CorruptPoolError) Error() string {
	return fmt.Sprintf("corrupt pool: %s", e.Msg)
}

// PathError reports an unusable path: a non-empty directory at create, or
// a path without a usable filename.
type PathError struct {
	Msg string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path error: %s", e.Msg)
}

// PropertyError reports a missing key or unparseable value in a pool's
// property file.
type PropertyError struct {
	Msg string
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("property error: %s", e.Msg)
}

// ChunkSource is the capability set every pool variant provides. Readers
// and writers depend only on this contract, not on the pool layout
// behind it.
type ChunkSource interface {
	// Find returns the chunk with the given oid, or ErrMissingChunk.
	Find(id oid.Oid) (*chunk.Chunk, error)

	// ContainsKey reports whether the pool holds the given oid.
	ContainsKey(id oid.Oid) (bool, error)

	// UUID returns the identity of this pool, fixed at creation.
	UUID() uuid.UUID

	// Backups returns the oids of all backup-root chunks (kind "back").
	Backups() ([]oid.Oid, error)

	// BeginWriting prepares the pool for a write session. Pool variants
	// backed by transactional stores start a transaction here.
	BeginWriting() error

	// Add stores a chunk. Callers are responsible for deduplication via
	// ContainsKey; adding an oid twice is not supported.
	Add(c *chunk.Chunk) error

	// Flush makes all added chunks durable and discoverable by later
	// opens. Idempotent.
	Flush() error
}
