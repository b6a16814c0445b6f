// Package oid defines object identities.
//
// Every chunk in a pool is identified by an object-id (Oid), which is the
// SHA-1 hash of the chunk's kind bytes followed by its uncompressed payload.
package oid

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"strconv"

	"github.com/pkg/errors"

	"github.com/fenilsonani/adump/internal/core/kind"
)

// Size is the byte length of an Oid.
const Size = sha1.Size

// Oid is a 20-byte SHA-1 digest. Ordering and equality are lexicographic
// on the bytes.
type Oid [Size]byte

// FromData computes the Oid of a chunk payload: SHA-1(kind.bytes ‖ data).
func FromData(k kind.Kind, data []byte) Oid {
	h := sha1.New()
	h.Write(k.Bytes())
	h.Write(data)

	var id Oid
	copy(id[:], h.Sum(nil))
	return id
}

// FromRaw builds an Oid from exactly 20 raw bytes.
func FromRaw(b []byte) (Oid, error) {
	var id Oid
	if len(b) != Size {
		return id, errors.Errorf("oid has incorrect length: expected %d, got %d", Size, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// ParseHex decodes an Oid from a 40-character hex string.
func ParseHex(text string) (Oid, error) {
	var id Oid
	if len(text) != 2*Size {
		return id, errors.Errorf("invalid oid length: expected %d, got %d", 2*Size, len(text))
	}
	b, err := hex.DecodeString(text)
	if err != nil {
		return id, errors.Wrap(err, "invalid oid hex")
	}
	copy(id[:], b)
	return id, nil
}

// FromU32 derives an Oid from an integer, as the hash of a blob chunk
// holding the decimal text. Used by tests and index tooling.
func FromU32(n uint32) Oid {
	return FromData(kind.Blob, []byte(strconv.FormatUint(uint64(n), 10)))
}

// Hex returns the lowercase hex form of the Oid.
func (id Oid) Hex() string {
	return hex.EncodeToString(id[:])
}

// String returns the hex form, so Oids format readably.
func (id Oid) String() string {
	return id.Hex()
}

// Compare orders two Oids lexicographically, returning -1, 0, or 1.
func (id Oid) Compare(other Oid) int {
	return bytes.Compare(id[:], other[:])
}

// Less reports whether id sorts before other.
func (id Oid) Less(other Oid) bool {
	return id.Compare(other) < 0
}

// Prefix returns the first byte of the Oid, used to bucket index lookups.
func (id Oid) Prefix() byte {
	return id[0]
}
