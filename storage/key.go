// Package storage holds the segment length table consulted when path steps
// are turned into sequence coordinates.
package storage

import (
	"encoding/binary"
	"strconv"
)

// Key identifies a segment. GFA segment names are usually dense integers, so
// those are kept numerically; anything else is an opaque name.
type Key struct {
	num     uint64
	name    string
	numeric bool
}

// KeyOf resolves a textual segment id. It is used for both writes and reads
// so that "007" recorded by a segment is found by a step naming "7".
func KeyOf(id string) Key {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return Key{num: n, numeric: true}
	}
	return Key{name: id}
}

// Numeric returns the integer id and true when the key is numeric.
func (k Key) Numeric() (uint64, bool) { return k.num, k.numeric }

// String returns the key in a form suitable for logs and errors.
func (k Key) String() string {
	if k.numeric {
		return strconv.FormatUint(k.num, 10)
	}
	return k.name
}

const (
	tagNumeric byte = 0x00
	tagName    byte = 0x01
)

// bytes encodes the key for ordered byte stores. The tag byte keeps the two
// key spaces disjoint.
func (k Key) bytes() []byte {
	if k.numeric {
		b := make([]byte, 9)
		b[0] = tagNumeric
		binary.BigEndian.PutUint64(b[1:], k.num)
		return b
	}
	b := make([]byte, 0, 1+len(k.name))
	b = append(b, tagName)
	return append(b, k.name...)
}
