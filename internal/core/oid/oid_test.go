package oid

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/adump/internal/core/kind"
)

func TestSha1Sanity(t *testing.T) {
	// Known digest of the single byte "A".
	sum := sha1.Sum([]byte{0x41})
	assert.Equal(t, "6dcd4ce23d88e2ee9568ba546c007c63d9131c1b", hex.EncodeToString(sum[:]))
}

func TestFromData(t *testing.T) {
	// Empty blob payload hashes just the kind bytes.
	id := FromData(kind.Blob, nil)
	assert.Equal(t, "bf8b4530d8d246dd74ac53a13471bba17941dff7", id.Hex())

	// FromData must equal the SHA-1 of the concatenation.
	want := sha1.Sum([]byte("blobA"))
	assert.Equal(t, hex.EncodeToString(want[:]), FromData(kind.Blob, []byte{0x41}).Hex())
}

func TestParseHex(t *testing.T) {
	text := "bf8b4530d8d246dd74ac53a13471bba17941dff7"
	id, err := ParseHex(text)
	require.NoError(t, err)
	assert.Equal(t, text, id.Hex())

	_, err = ParseHex(text[:39])
	assert.Error(t, err)
	_, err = ParseHex(text + "0")
	assert.Error(t, err)
	_, err = ParseHex("zf8b4530d8d246dd74ac53a13471bba17941dff7")
	assert.Error(t, err)
}

func TestFromRaw(t *testing.T) {
	b := make([]byte, Size)
	for i := range b {
		b[i] = byte(i)
	}
	id, err := FromRaw(b)
	require.NoError(t, err)
	assert.Equal(t, b, id[:])

	_, err = FromRaw(b[:19])
	assert.Error(t, err)
}

func TestOrdering(t *testing.T) {
	a := FromU32(1)
	b := FromU32(2)
	require.NotEqual(t, a, b)

	lo, hi := a, b
	if hi.Less(lo) {
		lo, hi = hi, lo
	}
	assert.True(t, lo.Less(hi))
	assert.Equal(t, -1, lo.Compare(hi))
	assert.Equal(t, 1, hi.Compare(lo))
	assert.Equal(t, 0, lo.Compare(lo))
}

func TestFromU32(t *testing.T) {
	assert.Equal(t, FromData(kind.Blob, []byte("42")), FromU32(42))
}
