// Package id implements 128-bit identifiers for assets and collections.
package id

import (
	"encoding/binary"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// Size is the identifier length in bytes.
const Size = 16

// ID is a 128-bit identifier, rendered as 32 lowercase hex characters.
type ID [Size]byte

var (
	// ErrInvalidID is returned when parsing a malformed identifier string.
	ErrInvalidID = errors.New("invalid identifier")

	// Zero is the all-zero identifier. It never addresses a stored entry.
	Zero ID
)

// New derives an identifier from an entropy seed, the sequence of the ledger
// being built and the index of the operation within it. The same inputs always
// produce the same identifier.
func New(entropy []byte, ledgerSeq uint32, opIndex uint32) ID {
	h, err := blake2b.New(Size, nil)
	if err != nil {
		panic(err) // blake2b.New only fails on bad key/size
	}
	h.Write(entropy)

	var buf [8]byte
	binary.BigEndian.PutUint32(buf[0:4], ledgerSeq)
	binary.BigEndian.PutUint32(buf[4:8], opIndex)
	h.Write(buf[:])

	var out ID
	copy(out[:], h.Sum(nil))
	return out
}

// Parse decodes a 32-character hex string into an ID.
func Parse(s string) (ID, error) {
	var out ID
	if len(s) != Size*2 {
		return out, ErrInvalidID
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, ErrInvalidID
	}
	copy(out[:], raw)
	return out, nil
}

// String returns the lowercase hex form of the identifier.
func (i ID) String() string {
	return hex.EncodeToString(i[:])
}

// IsZero reports whether the identifier is unset.
func (i ID) IsZero() bool {
	return i == Zero
}

// MarshalText implements encoding.TextMarshaler so IDs render as hex in JSON.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
