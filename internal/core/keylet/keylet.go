// Package keylet derives addressable keys for ledger state entries.
// Each entry type has its own namespace so that, for example, the asset
// and the listing for the same identifier never collide.
package keylet

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/nftmarketd/nftmarketd/internal/core/id"
)

// Space identifiers for key derivation.
const (
	spaceAccount    uint16 = 'a'
	spaceAsset      uint16 = 'n'
	spaceCollection uint16 = 'c'
	spaceListing    uint16 = 's'
	spacePlan       uint16 = 'i'
	spaceHeader     uint16 = 'h'
)

// Type identifies the kind of entry a keylet addresses.
type Type uint8

const (
	TypeAccount Type = iota + 1
	TypeAsset
	TypeCollection
	TypeListing
	TypePlan
	TypeHeader
)

// Keylet combines an entry type with a 256-bit key.
type Keylet struct {
	Type Type
	Key  [32]byte
}

// indexHash computes a key by hashing the space identifier and data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write(spaceBytes)
	for _, d := range data {
		h.Write(d)
	}

	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// Account returns the keylet for an account root entry.
func Account(addr string) Keylet {
	return Keylet{Type: TypeAccount, Key: indexHash(spaceAccount, []byte(addr))}
}

// Asset returns the keylet for an asset entry.
func Asset(assetID id.ID) Keylet {
	return Keylet{Type: TypeAsset, Key: indexHash(spaceAsset, assetID[:])}
}

// Collection returns the keylet for a collection entry.
func Collection(collectionID id.ID) Keylet {
	return Keylet{Type: TypeCollection, Key: indexHash(spaceCollection, collectionID[:])}
}

// Listing returns the keylet for an asset's sale listing. At most one
// listing exists per asset.
func Listing(assetID id.ID) Keylet {
	return Keylet{Type: TypeListing, Key: indexHash(spaceListing, assetID[:])}
}

// Plan returns the keylet for an asset's installment plan. At most one
// open plan exists per asset.
func Plan(assetID id.ID) Keylet {
	return Keylet{Type: TypePlan, Key: indexHash(spacePlan, assetID[:])}
}

// Header returns the keylet for the singleton ledger header entry.
func Header() Keylet {
	return Keylet{Type: TypeHeader, Key: indexHash(spaceHeader)}
}
