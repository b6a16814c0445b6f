// Package kind defines the four-byte type tags that categorize chunks.
//
// A Kind is a uint32 holding four ASCII bytes in little-endian order, so
// that equality and ordering are stable across platforms and match the
// compact kind-table entries stored in index files.
package kind

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrBadKindLength is returned when the kind text is not exactly 4 bytes.
	ErrBadKindLength = errors.New("invalid kind length (!= 4)")

	// ErrNonAsciiKind is returned when the kind text contains non-ASCII bytes.
	ErrNonAsciiKind = errors.New("non-ASCII kind")
)

// Kind is a 4-ASCII-byte chunk tag, held as the little-endian 32-bit
// interpretation of its bytes.
type Kind uint32

// Well-known kinds used by the broader system.
var (
	Blob = MustNew("blob")
	Back = MustNew("back")
)

// New validates the text and returns its Kind.
func New(text string) (Kind, error) {
	for i := 0; i < len(text); i++ {
		if text[i] > 127 {
			return 0, ErrNonAsciiKind
		}
	}
	if len(text) != 4 {
		return 0, ErrBadKindLength
	}
	return Kind(binary.LittleEndian.Uint32([]byte(text))), nil
}

// MustNew is like New but panics on invalid text. It is intended for
// kind literals known at compile time.
func MustNew(text string) Kind {
	k, err := New(text)
	if err != nil {
		panic(fmt.Sprintf("invalid kind literal %q: %v", text, err))
	}
	return k
}

// FromBytes decodes a Kind from its 4 raw bytes, validating ASCII.
func FromBytes(b []byte) (Kind, error) {
	return New(string(b))
}

// Bytes returns the 4 bytes of the kind in declaration order.
func (k Kind) Bytes() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(k))
	return b
}

// String returns the kind as its 4-character text.
func (k Kind) String() string {
	return string(k.Bytes())
}

// GoString renders the kind for debugging output.
func (k Kind) GoString() string {
	return fmt.Sprintf("Kind(%q)", k.String())
}
