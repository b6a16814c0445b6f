package adump

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/adump/internal/core/chunk"
	"github.com/fenilsonani/adump/internal/testutil"
)

func TestChunkRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	for _, size := range testutil.BoundarySizes() {
		require.NoError(t, writeChunk(&buf, testutil.MakeRandomChunk(size, size)))
	}

	for _, size := range testutil.BoundarySizes() {
		c1 := testutil.MakeRandomChunk(size, size)
		c2, err := readChunk(&buf)
		require.NoError(t, err)

		assert.Equal(t, c1.Oid(), c2.Oid())
		assert.Equal(t, c1.Kind(), c2.Kind())
		assert.Equal(t, c1.DataLen(), c2.DataLen())

		d1, err := c1.Data()
		require.NoError(t, err)
		d2, err := c2.Data()
		require.NoError(t, err)
		assert.Equal(t, d1, d2)
	}
	assert.Zero(t, buf.Len())
}

func TestFrameFootprint(t *testing.T) {
	sizes := []uint32{0, 1, 2, 3, 15, 16, 17, 255, 256, 257, 65535, 65536, 65537}

	for _, size := range sizes {
		ch := testutil.MakeRandomChunk(size, size)

		written := ch.DataLen()
		if z := ch.ZData(); z != nil {
			written = uint32(len(z))
		}
		want := frameHeaderSize + written + padLen(written)
		assert.Equal(t, want, frameSize(ch), "size %d", size)

		var buf bytes.Buffer
		require.NoError(t, writeChunk(&buf, ch))
		assert.Equal(t, int(want), buf.Len(), "size %d", size)
		assert.Zero(t, buf.Len()%16, "size %d", size)

		// Padding bytes after the payload must be zero.
		frame := buf.Bytes()
		for i := frameHeaderSize + written; i < uint32(len(frame)); i++ {
			assert.Zero(t, frame[i], "pad byte %d for size %d", i, size)
		}
	}
}

func TestUncompressibleFrame(t *testing.T) {
	ch := testutil.MakeUncompressibleChunk(1024, 5)
	require.Nil(t, ch.ZData())

	var buf bytes.Buffer
	require.NoError(t, writeChunk(&buf, ch))
	assert.Equal(t, frameHeaderSize+1024, buf.Len())

	back, err := readChunk(&buf)
	require.NoError(t, err)
	assert.Equal(t, ch.Oid(), back.Oid())
}

func TestBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeChunk(&buf, testutil.MakeRandomChunk(64, 1)))

	frame := buf.Bytes()
	frame[0] ^= 0xff

	_, err := readChunk(bytes.NewReader(frame))
	var corrupt *chunk.CorruptChunkError
	require.ErrorAs(t, err, &corrupt)
	assert.Contains(t, corrupt.Msg, "invalid magic")
}

func TestPadLen(t *testing.T) {
	assert.Equal(t, uint32(0), padLen(0))
	assert.Equal(t, uint32(15), padLen(1))
	assert.Equal(t, uint32(1), padLen(15))
	assert.Equal(t, uint32(0), padLen(16))
	assert.Equal(t, uint32(15), padLen(17))
}
