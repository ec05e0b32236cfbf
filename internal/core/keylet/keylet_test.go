package keylet

import (
	"testing"

	"github.com/nftmarketd/nftmarketd/internal/core/id"
)

func TestKeyletsAreDeterministic(t *testing.T) {
	assetID := id.New([]byte("seed"), 1, 0)
	if Asset(assetID) != Asset(assetID) {
		t.Error("Asset keylet not deterministic")
	}
	if Account("alice") != Account("alice") {
		t.Error("Account keylet not deterministic")
	}
}

func TestNamespacesDoNotCollide(t *testing.T) {
	assetID := id.New([]byte("seed"), 1, 0)

	keys := map[[32]byte]string{
		Asset(assetID).Key:   "asset",
		Listing(assetID).Key: "listing",
		Plan(assetID).Key:    "plan",
	}
	if len(keys) != 3 {
		t.Fatalf("keylet namespaces collided for the same identifier: %v", keys)
	}
}

func TestDistinctInputsDistinctKeys(t *testing.T) {
	if Account("alice").Key == Account("bob").Key {
		t.Error("distinct accounts produced the same key")
	}
	a := id.New([]byte("a"), 1, 0)
	b := id.New([]byte("b"), 1, 0)
	if Asset(a).Key == Asset(b).Key {
		t.Error("distinct assets produced the same key")
	}
}

func TestHeaderIsSingleton(t *testing.T) {
	if Header() != Header() {
		t.Error("Header keylet not stable")
	}
	if Header().Type != TypeHeader {
		t.Errorf("Header type = %d, want %d", Header().Type, TypeHeader)
	}
}
