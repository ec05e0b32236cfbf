package tx

import (
	"testing"

	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
)

func TestApplyRejectsEmptyAccount(t *testing.T) {
	e, _ := newTestEngine()
	res := e.Apply(&CollectionCreate{BaseOp: NewBaseOp(TypeCollectionCreate, ""), Title: "x"})
	if res.Result != ErrBadOrigin {
		t.Errorf("result = %s, want %s", res.Result, ErrBadOrigin)
	}
	if res.Applied {
		t.Error("operation marked applied")
	}
}

func TestApplyRejectsUnknownAccount(t *testing.T) {
	e, _ := newTestEngine()
	res := e.Apply(&CollectionCreate{BaseOp: NewBaseOp(TypeCollectionCreate, "ghost"), Title: "x"})
	if res.Result != ErrNoAccount {
		t.Errorf("result = %s, want %s", res.Result, ErrNoAccount)
	}
}

func TestCollectionCreateReservesDeposit(t *testing.T) {
	e, view := newTestEngine()
	fund(t, view, "alice", 100)

	collID := createCollection(t, e, "alice")

	acct := getAccount(t, view, "alice")
	// Deposit is one unit per payload byte; the title is 15 bytes.
	if acct.Reserved != 15 {
		t.Errorf("reserved = %d, want 15", acct.Reserved)
	}
	if acct.Balance != 85 {
		t.Errorf("balance = %d, want 85", acct.Balance)
	}

	data, _ := view.Read(keylet.Collection(collID))
	if data == nil {
		t.Fatal("collection record missing")
	}
	coll, err := sle.ParseCollection(data)
	if err != nil {
		t.Fatalf("parse collection: %v", err)
	}
	if coll.Creator != "alice" {
		t.Errorf("creator = %q, want alice", coll.Creator)
	}
}

func TestMintRequiresCollection(t *testing.T) {
	e, view := newTestEngine()
	fund(t, view, "alice", 100)

	res := e.Apply(&AssetMint{
		BaseOp:       NewBaseOp(TypeAssetMint, "alice"),
		Title:        "Orphan",
		CollectionID: id.New([]byte("nope"), 0, 0),
	})
	if res.Result != ErrCollectionNotFound {
		t.Errorf("result = %s, want %s", res.Result, ErrCollectionNotFound)
	}
}

func TestMintAssignsOwnershipAndDeposit(t *testing.T) {
	e, view := newTestEngine()
	fund(t, view, "alice", 100)

	collID := createCollection(t, e, "alice")
	assetID := mintAsset(t, e, "alice", collID, nil)

	asset := getAsset(t, view, assetID)
	if asset.Creator != "alice" || asset.Owner != "alice" {
		t.Errorf("creator/owner = %q/%q, want alice/alice", asset.Creator, asset.Owner)
	}
	if asset.CollectionID != collID {
		t.Error("asset not attached to collection")
	}
	// "Test Asset" is 10 bytes, on top of the 15-byte collection.
	acct := getAccount(t, view, "alice")
	if acct.Reserved != 25 {
		t.Errorf("reserved = %d, want 25", acct.Reserved)
	}
}

func TestMintRejectsRoyaltyOverflow(t *testing.T) {
	e, view := newTestEngine()
	fund(t, view, "alice", 100)
	collID := createCollection(t, e, "alice")

	res := e.Apply(&AssetMint{
		BaseOp: NewBaseOp(TypeAssetMint, "alice"),
		Title:  "Greedy",
		Royalty: []sle.RoyaltyShare{
			{Beneficiary: "bob", Percent: 60},
			{Beneficiary: "carol", Percent: 50},
		},
		CollectionID: collID,
	})
	if res.Result != ErrBadRoyalty {
		t.Errorf("result = %s, want %s", res.Result, ErrBadRoyalty)
	}
}

func TestEditOnlyByOwner(t *testing.T) {
	e, view := newTestEngine()
	fund(t, view, "alice", 100)
	fund(t, view, "bob", 100)
	collID := createCollection(t, e, "alice")
	assetID := mintAsset(t, e, "alice", collID, nil)

	res := e.Apply(&AssetEdit{
		BaseOp:  NewBaseOp(TypeAssetEdit, "bob"),
		AssetID: assetID,
		Title:   "Stolen",
	})
	if res.Result != ErrNotOwner {
		t.Errorf("result = %s, want %s", res.Result, ErrNotOwner)
	}
	if got := getAsset(t, view, assetID).Title; got != "Test Asset" {
		t.Errorf("title = %q, want unchanged", got)
	}
}

func TestEditResizesDeposit(t *testing.T) {
	e, view := newTestEngine()
	fund(t, view, "alice", 100)
	collID := createCollection(t, e, "alice")
	assetID := mintAsset(t, e, "alice", collID, nil)

	mustApply(t, e, &AssetEdit{
		BaseOp:  NewBaseOp(TypeAssetEdit, "alice"),
		AssetID: assetID,
		Title:   "A Much Longer Asset Title",
	})

	asset := getAsset(t, view, assetID)
	if asset.Deposit != 25 {
		t.Errorf("deposit = %d, want 25", asset.Deposit)
	}
	// 15 for the collection plus the new 25.
	acct := getAccount(t, view, "alice")
	if acct.Reserved != 40 {
		t.Errorf("reserved = %d, want 40", acct.Reserved)
	}
	if acct.Balance != 60 {
		t.Errorf("balance = %d, want 60", acct.Balance)
	}
}

func TestBurnReleasesDepositAndDeletes(t *testing.T) {
	e, view := newTestEngine()
	fund(t, view, "alice", 100)
	collID := createCollection(t, e, "alice")
	assetID := mintAsset(t, e, "alice", collID, nil)

	res := mustApply(t, e, &AssetBurn{BaseOp: NewBaseOp(TypeAssetBurn, "alice"), AssetID: assetID})
	if !hasEvent(res.Metadata.Events, EventAssetBurned) {
		t.Error("no AssetBurned event")
	}

	data, _ := view.Read(keylet.Asset(assetID))
	if data != nil {
		t.Error("asset record not deleted")
	}
	acct := getAccount(t, view, "alice")
	if acct.Reserved != 15 {
		t.Errorf("reserved = %d, want 15 (collection only)", acct.Reserved)
	}
}

func TestBurnRetainedKeepsTombstone(t *testing.T) {
	view := newMemoryView()
	cfg := testConfig()
	cfg.RetainBurnt = true
	e := NewEngine(view, cfg)
	fund(t, view, "alice", 100)
	collID := createCollection(t, e, "alice")
	assetID := mintAsset(t, e, "alice", collID, nil)

	mustApply(t, e, &AssetBurn{BaseOp: NewBaseOp(TypeAssetBurn, "alice"), AssetID: assetID})

	asset := getAsset(t, view, assetID)
	if !asset.Burnt {
		t.Error("asset not marked burnt")
	}
	if asset.Deposit != 0 {
		t.Errorf("deposit = %d, want 0", asset.Deposit)
	}

	// The tombstone is invisible to operations.
	res := e.Apply(&ListForSale{BaseOp: NewBaseOp(TypeListForSale, "alice"), AssetID: assetID})
	if res.Result != ErrAssetNotFound {
		t.Errorf("list burnt asset = %s, want %s", res.Result, ErrAssetNotFound)
	}

	// And does not hold the collection open.
	mustApply(t, e, &CollectionDestroy{BaseOp: NewBaseOp(TypeCollectionDestroy, "alice"), CollectionID: collID})
}

func TestBurnRemovesPlainListing(t *testing.T) {
	e, view := newTestEngine()
	fund(t, view, "alice", 100)
	collID := createCollection(t, e, "alice")
	assetID := mintAsset(t, e, "alice", collID, nil)
	listAsset(t, e, "alice", assetID, 50)

	mustApply(t, e, &AssetBurn{BaseOp: NewBaseOp(TypeAssetBurn, "alice"), AssetID: assetID})

	if getListing(t, view, assetID) != nil {
		t.Error("listing survived burn")
	}
	acct := getAccount(t, view, "alice")
	if acct.Reserved != 15 {
		t.Errorf("reserved = %d, want 15 (collection only)", acct.Reserved)
	}
}

func TestCollectionDestroyRequiresEmpty(t *testing.T) {
	e, view := newTestEngine()
	fund(t, view, "alice", 100)
	collID := createCollection(t, e, "alice")
	assetID := mintAsset(t, e, "alice", collID, nil)

	res := e.Apply(&CollectionDestroy{BaseOp: NewBaseOp(TypeCollectionDestroy, "alice"), CollectionID: collID})
	if res.Result != ErrCollectionNotEmpty {
		t.Errorf("result = %s, want %s", res.Result, ErrCollectionNotEmpty)
	}

	mustApply(t, e, &AssetBurn{BaseOp: NewBaseOp(TypeAssetBurn, "alice"), AssetID: assetID})
	mustApply(t, e, &CollectionDestroy{BaseOp: NewBaseOp(TypeCollectionDestroy, "alice"), CollectionID: collID})

	acct := getAccount(t, view, "alice")
	if acct.Reserved != 0 {
		t.Errorf("reserved = %d, want 0", acct.Reserved)
	}
	if acct.Balance != 100 {
		t.Errorf("balance = %d, want 100", acct.Balance)
	}
}

func TestFailedOperationLeavesNoTrace(t *testing.T) {
	e, view := newTestEngine()
	fund(t, view, "alice", 20)
	collID := createCollection(t, e, "alice")

	// 5 free after the collection deposit cannot cover a 10-unit mint.
	res := e.Apply(&AssetMint{
		BaseOp:       NewBaseOp(TypeAssetMint, "alice"),
		Title:        "Test Asset",
		CollectionID: collID,
	})
	if res.Result != ErrInsufficientFunds {
		t.Fatalf("result = %s, want %s", res.Result, ErrInsufficientFunds)
	}
	if res.Applied {
		t.Error("failed operation marked applied")
	}

	acct := getAccount(t, view, "alice")
	if acct.Balance != 5 || acct.Reserved != 15 {
		t.Errorf("balance/reserved = %d/%d, want 5/15", acct.Balance, acct.Reserved)
	}
	count := 0
	view.ForEach(func(_ [32]byte, data []byte) bool {
		if sle.KindOf(data) == sle.KindAsset {
			count++
		}
		return true
	})
	if count != 0 {
		t.Errorf("found %d asset records after failed mint", count)
	}
}

func TestOperationIDsAreDeterministic(t *testing.T) {
	run := func() []id.ID {
		e, view := newTestEngine()
		fund(t, view, "alice", 1000)
		collID := createCollection(t, e, "alice")
		a := mintAsset(t, e, "alice", collID, nil)
		b := mintAsset(t, e, "alice", collID, nil)
		return []id.ID{collID, a, b}
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("id %d differs across identical runs: %s vs %s", i, first[i], second[i])
		}
	}
	if first[1] == first[2] {
		t.Error("two mints yielded the same id")
	}
}
