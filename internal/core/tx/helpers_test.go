package tx

import (
	"testing"

	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
)

// memoryView is a map-backed LedgerView for engine tests.
type memoryView struct {
	entries map[[32]byte][]byte
}

func newMemoryView() *memoryView {
	return &memoryView{entries: make(map[[32]byte][]byte)}
}

func (v *memoryView) Read(k keylet.Keylet) ([]byte, error) {
	return v.entries[k.Key], nil
}

func (v *memoryView) Exists(k keylet.Keylet) (bool, error) {
	_, ok := v.entries[k.Key]
	return ok, nil
}

func (v *memoryView) Insert(k keylet.Keylet, data []byte) error {
	v.entries[k.Key] = data
	return nil
}

func (v *memoryView) Update(k keylet.Keylet, data []byte) error {
	v.entries[k.Key] = data
	return nil
}

func (v *memoryView) Erase(k keylet.Keylet) error {
	delete(v.entries, k.Key)
	return nil
}

func (v *memoryView) ForEach(fn func(key [32]byte, data []byte) bool) error {
	for key, data := range v.entries {
		if !fn(key, data) {
			return nil
		}
	}
	return nil
}

const testCloseTime uint64 = 1_700_000_000

func testConfig() EngineConfig {
	return EngineConfig{
		DataDepositPerByte: 1,
		ListingDeposit:     10,
		ExistentialDeposit: 5,
		ListingDuration:    1000,
		LedgerSequence:     1,
		CloseTime:          testCloseTime,
		Entropy:            []byte("engine test entropy"),
	}
}

func newTestEngine() (*Engine, *memoryView) {
	view := newMemoryView()
	return NewEngine(view, testConfig()), view
}

func fund(t *testing.T, view *memoryView, addr string, balance uint64) {
	t.Helper()
	data, err := sle.SerializeAccountRoot(&sle.AccountRoot{Address: addr, Balance: balance})
	if err != nil {
		t.Fatalf("serialize account: %v", err)
	}
	if err := view.Insert(keylet.Account(addr), data); err != nil {
		t.Fatalf("insert account: %v", err)
	}
}

func getAccount(t *testing.T, view *memoryView, addr string) *sle.AccountRoot {
	t.Helper()
	data, _ := view.Read(keylet.Account(addr))
	if data == nil {
		t.Fatalf("account %s not found", addr)
	}
	acct, err := sle.ParseAccountRoot(data)
	if err != nil {
		t.Fatalf("parse account %s: %v", addr, err)
	}
	return acct
}

// getAsset reads the raw asset record, burnt or not.
func getAsset(t *testing.T, view *memoryView, assetID id.ID) *sle.Asset {
	t.Helper()
	data, _ := view.Read(keylet.Asset(assetID))
	if data == nil {
		t.Fatalf("asset %s not found", assetID)
	}
	asset, err := sle.ParseAsset(data)
	if err != nil {
		t.Fatalf("parse asset: %v", err)
	}
	return asset
}

func getListing(t *testing.T, view *memoryView, assetID id.ID) *sle.Listing {
	t.Helper()
	data, _ := view.Read(keylet.Listing(assetID))
	if data == nil {
		return nil
	}
	listing, err := sle.ParseListing(data)
	if err != nil {
		t.Fatalf("parse listing: %v", err)
	}
	return listing
}

func getPlan(t *testing.T, view *memoryView, assetID id.ID) *sle.InstallmentPlan {
	t.Helper()
	data, _ := view.Read(keylet.Plan(assetID))
	if data == nil {
		return nil
	}
	plan, err := sle.ParsePlan(data)
	if err != nil {
		t.Fatalf("parse plan: %v", err)
	}
	return plan
}

// mustApply applies an operation and fails the test on any non-OK result.
func mustApply(t *testing.T, e *Engine, op Operation) ApplyResult {
	t.Helper()
	res := e.Apply(op)
	if !res.Result.IsSuccess() {
		t.Fatalf("%s by %s: %s (%s)", op.OpType(), op.GetCommon().Account, res.Result, res.Message)
	}
	return res
}

// createCollection makes a collection for account and returns its ID.
func createCollection(t *testing.T, e *Engine, account string) id.ID {
	t.Helper()
	res := mustApply(t, e, &CollectionCreate{
		BaseOp: NewBaseOp(TypeCollectionCreate, account),
		Title:  "Test Collection",
	})
	for _, ev := range res.Metadata.Events {
		if ev.Kind == EventCollectionCreated {
			return ev.Collection
		}
	}
	t.Fatal("no collection created event")
	return id.Zero
}

// mintAsset mints a plain asset for account and returns its ID.
func mintAsset(t *testing.T, e *Engine, account string, collection id.ID, royalty []sle.RoyaltyShare) id.ID {
	t.Helper()
	res := mustApply(t, e, &AssetMint{
		BaseOp:       NewBaseOp(TypeAssetMint, account),
		Title:        "Test Asset",
		Royalty:      royalty,
		CollectionID: collection,
	})
	for _, ev := range res.Metadata.Events {
		if ev.Kind == EventAssetMinted {
			return ev.Asset
		}
	}
	t.Fatal("no asset minted event")
	return id.Zero
}

// listAsset lists an asset at the given price.
func listAsset(t *testing.T, e *Engine, account string, assetID id.ID, price uint64) {
	t.Helper()
	mustApply(t, e, &ListForSale{
		BaseOp:  NewBaseOp(TypeListForSale, account),
		AssetID: assetID,
		Price:   &price,
	})
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}
