// Package chunk provides the in-memory representation of stored chunks.
//
// A chunk is a (kind, oid, payload) triple where the oid is the SHA-1 of
// the kind bytes followed by the uncompressed payload. A chunk carries up
// to two payload buffers, uncompressed and zlib-compressed; whichever is
// missing is computed lazily on first demand and cached.
package chunk

import (
	"fmt"

	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/core/oid"
)

// MaxDataLen is the largest permitted uncompressed payload.
const MaxDataLen = 1<<27 - 1

// CorruptChunkError reports a chunk that could not be decoded: a bad
// frame magic, or compressed data that does not inflate to the recorded
// length.
type CorruptChunkError struct {
	Msg string
}

func (e *CorruptChunkError) Error() string {
	return fmt.Sprintf("corrupt chunk: %s", e.Msg)
}

// zstate tracks whether compression of the payload has been attempted.
type zstate int

const (
	zUntried zstate = iota
	zUncompressible
	zCompressed
)

// Chunk is one stored unit of data. At least one of the payload buffers
// is always materialized. Accessors may fill in the other lazily, so a
// Chunk is not safe for concurrent use, matching the pool's
// single-threaded model.
type Chunk struct {
	kind    kind.Kind
	oid     oid.Oid
	dataLen uint32

	data   []byte // uncompressed payload, nil until materialized
	zdata  []byte // compressed payload, valid when zst == zCompressed
	zst    zstate
	hasRaw bool // data holds the payload (it may legitimately be empty)
}

// NewPlain builds a chunk from an uncompressed payload, computing its
// oid. Payloads beyond MaxDataLen are a programmer error and panic.
func NewPlain(k kind.Kind, data []byte) *Chunk {
	if len(data) > MaxDataLen {
		panic(fmt.Sprintf("chunk payload too large: %d", len(data)))
	}
	return &Chunk{
		kind:    k,
		oid:     oid.FromData(k, data),
		dataLen: uint32(len(data)),
		data:    data,
		hasRaw:  true,
		zst:     zUntried,
	}
}

// NewCompressed builds a chunk from an already-compressed payload. The
// caller-supplied oid is trusted; the uncompressed form is recovered
// lazily when first asked for.
func NewCompressed(k kind.Kind, id oid.Oid, zdata []byte, dataLen uint32) *Chunk {
	return &Chunk{
		kind:    k,
		oid:     id,
		dataLen: dataLen,
		zdata:   zdata,
		zst:     zCompressed,
	}
}

// Kind returns the chunk's kind.
func (c *Chunk) Kind() kind.Kind {
	return c.kind
}

// Oid returns the chunk's identity.
func (c *Chunk) Oid() oid.Oid {
	return c.oid
}

// DataLen returns the uncompressed payload length, without forcing
// decompression.
func (c *Chunk) DataLen() uint32 {
	return c.dataLen
}

// Data returns the uncompressed payload, decompressing once if only the
// compressed form is present. The returned slice is shared with the
// chunk and must not be modified.
func (c *Chunk) Data() ([]byte, error) {
	if c.hasRaw {
		return c.data, nil
	}
	raw, ok := Inflate(c.zdata, c.dataLen)
	if !ok {
		return nil, &CorruptChunkError{Msg: fmt.Sprintf("unable to inflate chunk %s", c.oid)}
	}
	c.data = raw
	c.hasRaw = true
	return c.data, nil
}

// ZData returns a compressed payload if one strictly smaller than the
// uncompressed form exists, otherwise nil. Compression is attempted at
// most once and the outcome cached.
func (c *Chunk) ZData() []byte {
	switch c.zst {
	case zCompressed:
		return c.zdata
	case zUncompressible:
		return nil
	}
	if z := Deflate(c.data); z != nil {
		c.zdata = z
		c.zst = zCompressed
		return c.zdata
	}
	c.zst = zUncompressible
	return nil
}
