package pool

import (
	"github.com/google/uuid"

	"github.com/fenilsonani/adump/internal/core/chunk"
	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/core/oid"
)

// RamPool is a purely in-memory ChunkSource, useful for tests and for
// measuring writers without touching disk. Nothing survives the process.
type RamPool struct {
	uuid   uuid.UUID
	chunks map[oid.Oid]stashed
}

type stashed struct {
	kind kind.Kind
	data []byte
}

// NewRamPool builds an empty in-memory pool with a fresh UUID.
func NewRamPool() *RamPool {
	return &RamPool{
		uuid:   uuid.New(),
		chunks: make(map[oid.Oid]stashed),
	}
}

// Find returns the chunk with the given oid, or ErrMissingChunk.
func (p *RamPool) Find(id oid.Oid) (*chunk.Chunk, error) {
	st, ok := p.chunks[id]
	if !ok {
		return nil, ErrMissingChunk
	}
	return chunk.NewPlain(st.kind, st.data), nil
}

// ContainsKey reports whether the pool holds the given oid.
func (p *RamPool) ContainsKey(id oid.Oid) (bool, error) {
	_, ok := p.chunks[id]
	return ok, nil
}

// UUID returns the pool identity.
func (p *RamPool) UUID() uuid.UUID {
	return p.uuid
}

// Backups returns the oids of all stored backup-root chunks.
func (p *RamPool) Backups() ([]oid.Oid, error) {
	var result []oid.Oid
	for id, st := range p.chunks {
		if st.kind == kind.Back {
			result = append(result, id)
		}
	}
	return result, nil
}

// BeginWriting is a no-op for the RAM pool.
func (p *RamPool) BeginWriting() error {
	return nil
}

// Add stores a chunk, keeping the first copy if the oid is already
// present.
func (p *RamPool) Add(c *chunk.Chunk) error {
	if _, ok := p.chunks[c.Oid()]; ok {
		return nil
	}
	data, err := c.Data()
	if err != nil {
		return err
	}
	p.chunks[c.Oid()] = stashed{kind: c.Kind(), data: data}
	return nil
}

// Flush is a no-op for the RAM pool.
func (p *RamPool) Flush() error {
	return nil
}
