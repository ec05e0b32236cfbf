package sle

import (
	"errors"
	"fmt"

	"github.com/ugorji/go/codec"
)

// Records are stored as a one-byte kind tag followed by the CBOR encoding
// of the entry struct. The tag lets iteration classify records cheaply and
// guards parse helpers against reading the wrong entry type.

var cborHandle = func() *codec.CborHandle {
	h := &codec.CborHandle{}
	h.Canonical = true
	return h
}()

// ErrEmptyRecord is returned when decoding zero-length data.
var ErrEmptyRecord = errors.New("empty state record")

// KindOf returns the entry kind of a serialized record.
func KindOf(data []byte) Kind {
	if len(data) == 0 {
		return 0
	}
	return Kind(data[0])
}

func encode(kind Kind, v any) ([]byte, error) {
	var body []byte
	enc := codec.NewEncoderBytes(&body, cborHandle)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return append([]byte{byte(kind)}, body...), nil
}

func decode(data []byte, kind Kind, v any) error {
	if len(data) == 0 {
		return ErrEmptyRecord
	}
	if Kind(data[0]) != kind {
		return fmt.Errorf("record kind mismatch: have %s, want %s", Kind(data[0]), kind)
	}
	dec := codec.NewDecoderBytes(data[1:], cborHandle)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", kind, err)
	}
	return nil
}

// SerializeAccountRoot encodes an account root entry.
func SerializeAccountRoot(a *AccountRoot) ([]byte, error) {
	return encode(KindAccount, a)
}

// ParseAccountRoot decodes an account root entry.
func ParseAccountRoot(data []byte) (*AccountRoot, error) {
	var a AccountRoot
	if err := decode(data, KindAccount, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SerializeAsset encodes an asset entry.
func SerializeAsset(a *Asset) ([]byte, error) {
	return encode(KindAsset, a)
}

// ParseAsset decodes an asset entry.
func ParseAsset(data []byte) (*Asset, error) {
	var a Asset
	if err := decode(data, KindAsset, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SerializeCollection encodes a collection entry.
func SerializeCollection(c *Collection) ([]byte, error) {
	return encode(KindCollection, c)
}

// ParseCollection decodes a collection entry.
func ParseCollection(data []byte) (*Collection, error) {
	var c Collection
	if err := decode(data, KindCollection, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SerializeListing encodes a listing entry.
func SerializeListing(l *Listing) ([]byte, error) {
	return encode(KindListing, l)
}

// ParseListing decodes a listing entry.
func ParseListing(data []byte) (*Listing, error) {
	var l Listing
	if err := decode(data, KindListing, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SerializePlan encodes an installment plan entry.
func SerializePlan(p *InstallmentPlan) ([]byte, error) {
	return encode(KindPlan, p)
}

// ParsePlan decodes an installment plan entry.
func ParsePlan(data []byte) (*InstallmentPlan, error) {
	var p InstallmentPlan
	if err := decode(data, KindPlan, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SerializeHeader encodes the ledger header entry.
func SerializeHeader(h *Header) ([]byte, error) {
	return encode(KindHeader, h)
}

// ParseHeader decodes the ledger header entry.
func ParseHeader(data []byte) (*Header, error) {
	var h Header
	if err := decode(data, KindHeader, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
