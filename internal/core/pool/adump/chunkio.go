package adump

import (
	"encoding/binary"
	"io"

	"github.com/fenilsonani/adump/internal/core/chunk"
	"github.com/fenilsonani/adump/internal/core/kind"
	"github.com/fenilsonani/adump/internal/core/oid"
)

// Each chunk is framed as:
//
//   offset  length  field
//        0      16  chunk magic
//       16       4  compressed length, amount stored in the file
//       20       4  uncompressed length, or 0xFFFFFFFF if stored raw
//       24       4  kind
//       28      20  sha1 of kind + uncompressed data
//       48    clen  payload
//             0-15  zero padding
//
// Numbers are little-endian and the whole frame is padded to a multiple
// of 16 bytes.

var chunkMagic = []byte("adump-pool-v1.1\n")

const (
	frameHeaderSize = 48
	frameAlign      = 16

	// ulenRaw in the ulen field marks a payload stored uncompressed.
	ulenRaw = 0xFFFFFFFF
)

// padLen returns the number of zero bytes needed after a payload of
// length clen to reach the frame alignment.
func padLen(clen uint32) uint32 {
	return (frameAlign - clen%frameAlign) % frameAlign
}

// frameSize returns the total on-disk footprint of a chunk: the header
// plus the padded form of whichever payload will be written.
func frameSize(c *chunk.Chunk) uint32 {
	clen := c.DataLen()
	if z := c.ZData(); z != nil {
		clen = uint32(len(z))
	}
	return frameHeaderSize + clen + padLen(clen)
}

var framePad [frameAlign]byte

// writeChunk frames the chunk onto w, choosing the compressed payload
// when it is strictly smaller.
func writeChunk(w io.Writer, c *chunk.Chunk) error {
	var clen, ulen uint32
	var payload []byte
	if z := c.ZData(); z != nil {
		clen = uint32(len(z))
		ulen = c.DataLen()
		payload = z
	} else {
		data, err := c.Data()
		if err != nil {
			return err
		}
		clen = c.DataLen()
		ulen = ulenRaw
		payload = data
	}

	header := make([]byte, 0, frameHeaderSize)
	header = append(header, chunkMagic...)
	header = binary.LittleEndian.AppendUint32(header, clen)
	header = binary.LittleEndian.AppendUint32(header, ulen)
	header = append(header, c.Kind().Bytes()...)
	id := c.Oid()
	header = append(header, id[:]...)

	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if pad := padLen(clen); pad > 0 {
		if _, err := w.Write(framePad[:pad]); err != nil {
			return err
		}
	}
	return nil
}

// readChunk decodes one frame from r.
func readChunk(r io.Reader) (*chunk.Chunk, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	if string(header[:16]) != string(chunkMagic) {
		return nil, &chunk.CorruptChunkError{Msg: "invalid magic"}
	}
	clen := binary.LittleEndian.Uint32(header[16:20])
	ulen := binary.LittleEndian.Uint32(header[20:24])

	k, err := kind.FromBytes(header[24:28])
	if err != nil {
		return nil, err
	}
	id, err := oid.FromRaw(header[28:48])
	if err != nil {
		return nil, err
	}

	payload := make([]byte, clen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	if pad := padLen(clen); pad > 0 {
		var padding [frameAlign]byte
		if _, err := io.ReadFull(r, padding[:pad]); err != nil {
			return nil, err
		}
	}

	if ulen == ulenRaw {
		return chunk.NewPlain(k, payload), nil
	}
	return chunk.NewCompressed(k, id, payload, ulen), nil
}
