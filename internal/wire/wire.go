// Package wire implements the length-prefixed padding envelope used by the
// publisher lookup endpoint. Every response body is framed as
//
//	len(u32 be) | payload(len) | padding(arbitrary)
//
// so that all responses are indistinguishable in size regardless of which
// publisher bucket was requested. The padding carries no information and is
// discarded on decode.
package wire

import (
	"encoding/binary"
	"errors"
)

const headerSize = 4

var ErrBadPadding = errors.New("pubcache: invalid response padding")

// Unpad strips the length header and trailing padding, returning exactly the
// declared payload bytes. The returned slice aliases b.
func Unpad(b []byte) ([]byte, error) {
	if len(b) < headerSize {
		return nil, ErrBadPadding
	}
	declared := binary.BigEndian.Uint32(b)

	body := b[headerSize:]
	if uint64(len(body)) < uint64(declared) {
		return nil, ErrBadPadding
	}
	return body[:declared], nil
}

// Pad frames payload with a length header and zero-pads the result up to
// totalSize bytes. When totalSize is smaller than header+payload, no padding
// is appended. Used by tests and by server-side tooling that produces
// response fixtures.
func Pad(payload []byte, totalSize int) []byte {
	n := headerSize + len(payload)
	if totalSize < n {
		totalSize = n
	}
	out := make([]byte, totalSize)
	binary.BigEndian.PutUint32(out, uint32(len(payload)))
	copy(out[headerSize:], payload)
	return out
}
