// Package testutil generates deterministic test data for the pool tests.
//
// Payloads are reproducible from a (size, index) pair so tests can
// regenerate the same chunks after reopening a pool without holding them
// all in memory.
package testutil

import (
	"fmt"

	"github.com/fenilsonani/adump/internal/core/chunk"
	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/core/oid"
)

// A short list of words to help generate reasonably compressible data.
var wordList = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "I",
	"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	"this", "but", "his", "by", "from", "they", "we", "say", "her",
	"she", "or", "an", "will", "my", "one", "all", "would", "there",
	"their", "what", "so", "up", "out", "if", "about", "who", "get",
	"which", "go", "me", "when", "make", "can", "like", "time", "no",
	"just", "him", "know", "take", "person", "into", "year", "your",
	"good", "some", "could", "them", "see", "other", "than", "then",
	"now", "look", "only", "come", "its", "over", "think", "also",
}

// MakeRandomString builds a compressible word-salad string of exactly
// size bytes, deterministic in (size, index).
func MakeRandomString(size, index uint32) string {
	buf := make([]byte, 0, size+6)
	buf = append(buf, fmt.Sprintf("%d-%d", index, size)...)

	gen := simpleRandom{state: index}
	for uint32(len(buf)) < size {
		buf = append(buf, ' ')
		buf = append(buf, wordList[gen.next(uint32(len(wordList)))]...)
	}
	return string(buf[:size])
}

// MakeRandomChunk builds a deterministic compressible blob chunk.
func MakeRandomChunk(size, index uint32) *chunk.Chunk {
	return MakeKindedRandomChunk(kind.Blob, size, index)
}

// MakeKindedRandomChunk builds a deterministic compressible chunk of the
// given kind.
func MakeKindedRandomChunk(k kind.Kind, size, index uint32) *chunk.Chunk {
	return chunk.NewPlain(k, []byte(MakeRandomString(size, index)))
}

// MakeUncompressibleChunk builds a chunk whose payload zlib cannot
// shrink, deterministic in (size, index).
func MakeUncompressibleChunk(size, index uint32) *chunk.Chunk {
	buf := make([]byte, size)
	gen := xorshift{state: index + 1}
	for i := range buf {
		buf[i] = byte(gen.next())
	}
	return chunk.NewPlain(kind.MustNew("unco"), buf)
}

// BoundarySizes returns a useful series of payload sizes built around
// powers of two and the values one above and below them, ascending.
func BoundarySizes() []uint32 {
	seen := make(map[uint32]bool)
	var sizes []uint32
	for i := uint(0); i < 19; i++ {
		bit := uint32(1) << i
		for _, s := range []uint32{bit - 1, bit, bit + 1} {
			if !seen[s] {
				seen[s] = true
				sizes = append(sizes, s)
			}
		}
	}
	// The loop above emits values in nearly sorted order; fix the
	// overlaps between adjacent powers.
	for i := 1; i < len(sizes); i++ {
		for j := i; j > 0 && sizes[j] < sizes[j-1]; j-- {
			sizes[j], sizes[j-1] = sizes[j-1], sizes[j]
		}
	}
	return sizes
}

// OidInc returns an oid one greater in lexicographic order, wrapping at
// the top.
func OidInc(id oid.Oid) oid.Oid {
	for pos := oid.Size - 1; pos >= 0; pos-- {
		id[pos]++
		if id[pos] != 0 {
			break
		}
	}
	return id
}

// OidDec returns an oid one less in lexicographic order, wrapping at the
// bottom.
func OidDec(id oid.Oid) oid.Oid {
	for pos := oid.Size - 1; pos >= 0; pos-- {
		id[pos]--
		if id[pos] != 255 {
			break
		}
	}
	return id
}

// simpleRandom is a tiny LCG used to pick words deterministically.
type simpleRandom struct {
	state uint32
}

func (r *simpleRandom) next(limit uint32) uint32 {
	r.state = (r.state*1103515245 + 12345) & 0x7fffffff
	return r.state % limit
}

// xorshift produces incompressible byte streams.
type xorshift struct {
	state uint32
}

func (r *xorshift) next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}
