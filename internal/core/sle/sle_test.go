package sle

import (
	"testing"

	"github.com/nftmarketd/nftmarketd/internal/core/id"
)

func TestAssetRoundTrip(t *testing.T) {
	asset := &Asset{
		ID:           id.New([]byte("a"), 1, 0),
		Title:        "Sunset",
		Description:  "oil on canvas",
		Media:        "ipfs://QmXyz",
		MediaHash:    "abcd1234",
		Creator:      "alice",
		Owner:        "bob",
		Royalty:      []RoyaltyShare{{Beneficiary: "alice", Percent: 10}},
		CollectionID: id.New([]byte("c"), 1, 0),
		Deposit:      42,
	}

	data, err := SerializeAsset(asset)
	if err != nil {
		t.Fatalf("SerializeAsset: %v", err)
	}
	if KindOf(data) != KindAsset {
		t.Errorf("KindOf = %s, want %s", KindOf(data), KindAsset)
	}

	got, err := ParseAsset(data)
	if err != nil {
		t.Fatalf("ParseAsset: %v", err)
	}
	if got.ID != asset.ID || got.Owner != asset.Owner || got.Deposit != asset.Deposit {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if len(got.Royalty) != 1 || got.Royalty[0].Percent != 10 {
		t.Errorf("royalty table not preserved: %+v", got.Royalty)
	}
}

func TestParseRejectsWrongKind(t *testing.T) {
	data, err := SerializeAccountRoot(&AccountRoot{Address: "alice", Balance: 100})
	if err != nil {
		t.Fatalf("SerializeAccountRoot: %v", err)
	}
	if _, err := ParseListing(data); err == nil {
		t.Error("ParseListing accepted an account record")
	}
	if _, err := ParseAsset(nil); err == nil {
		t.Error("ParseAsset accepted empty data")
	}
}

func TestPayloadSize(t *testing.T) {
	asset := &Asset{Title: "ab", Description: "cde", Media: "f", MediaHash: "gh"}
	if got := asset.PayloadSize(); got != 8 {
		t.Errorf("PayloadSize = %d, want 8", got)
	}

	coll := &Collection{Title: "abc", Description: "de"}
	if got := coll.PayloadSize(); got != 5 {
		t.Errorf("collection PayloadSize = %d, want 5", got)
	}
}

func TestRoyaltyTotal(t *testing.T) {
	asset := &Asset{Royalty: []RoyaltyShare{
		{Beneficiary: "a", Percent: 60},
		{Beneficiary: "b", Percent: 70},
	}}
	// Sum exceeds a uint8 but must not wrap.
	if got := asset.RoyaltyTotal(); got != 130 {
		t.Errorf("RoyaltyTotal = %d, want 130", got)
	}
}
