package impl

// cspell:words twiesing

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ID identifies an interned object within a single store.
// The zero ID is never handed out, see [Valid].
//
// IDs are never reused, so an ID that refers to a reclaimed object stays dangling forever.
type ID uint64

// IDLen is the size of an encoded ID in bytes.
const IDLen = 8

// Valid checks if this ID has been handed out by [Inc].
func (id ID) Valid() bool {
	return id != 0
}

// Reset resets this id to the invalid value.
func (id *ID) Reset() {
	*id = 0
}

// Inc increments this ID, and then returns a copy of the new value.
//
// When Inc() exceeds the maximum possible value for an ID, panics.
func (id *ID) Inc() ID {
	if *id == ^ID(0) {
		// NOTE(twiesing): 2^64 ids should be plenty for an in-memory store
		panic("ID.Inc: Overflow (not enough IDs)")
	}
	*id++
	return *id
}

// Compare compares this ID to another id.
// The result will be 0 if id == other, -1 if id < other, and +1 if id > other.
func (id ID) Compare(other ID) int {
	switch {
	case id < other:
		return -1
	case id > other:
		return 1
	default:
		return 0
	}
}

// String formats this id for debugging.
func (id ID) String() string {
	return fmt.Sprintf("ID(%d)", uint64(id))
}

// Encode encodes id using a big endian encoding into dest.
// dest must be of at least size [IDLen].
//
// Encoded ids compare with [bytes.Compare] like the ids themselves.
func (id ID) Encode(dest []byte) {
	binary.BigEndian.PutUint64(dest, uint64(id))
}

// Decode sets this id to the value decoded from src.
// src must be of at least size [IDLen], or a runtime panic occurs.
func (id *ID) Decode(src []byte) {
	*id = ID(binary.BigEndian.Uint64(src))
}

// EncodeIDs encodes ids into a new slice of bytes.
func EncodeIDs(ids ...ID) []byte {
	dest := make([]byte, len(ids)*IDLen)
	for i, id := range ids {
		id.Encode(dest[i*IDLen:])
	}
	return dest
}

var errUnmarshal = errors.New("UnmarshalID: invalid length")

// UnmarshalID behaves like [dest.Decode], but produces an error
// when there are insufficient number of bytes in src.
func UnmarshalID(dest *ID, src []byte) error {
	if len(src) < IDLen {
		return errUnmarshal
	}
	dest.Decode(src)
	return nil
}
