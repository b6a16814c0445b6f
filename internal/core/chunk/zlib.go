package chunk

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Deflate compresses buf with zlib. It returns the compressed bytes only
// if they are strictly smaller than the input; otherwise nil, meaning the
// data should be stored uncompressed.
func Deflate(buf []byte) []byte {
	var out bytes.Buffer
	w := zlib.NewWriter(&out)
	if _, err := w.Write(buf); err != nil {
		w.Close()
		return nil
	}
	if err := w.Close(); err != nil {
		return nil
	}
	if out.Len() >= len(buf) {
		return nil
	}
	return out.Bytes()
}

// Inflate decompresses buf, which must expand to exactly expectedLen
// bytes. Any decompression error or a length mismatch reports false and
// is treated as corruption by callers.
func Inflate(buf []byte, expectedLen uint32) ([]byte, bool) {
	r, err := zlib.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, false
	}
	defer r.Close()

	out := make([]byte, 0, expectedLen)
	res := bytes.NewBuffer(out)
	if _, err := io.Copy(res, r); err != nil {
		return nil, false
	}
	if uint32(res.Len()) != expectedLen {
		return nil, false
	}
	return res.Bytes(), true
}
