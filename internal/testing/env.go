// Package testing provides a scenario environment for whole-operation
// marketplace tests: a memory-backed ledger, a manual clock, and helpers
// for funding accounts and submitting operations.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/ledger"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
	"github.com/nftmarketd/nftmarketd/internal/core/tx"
	"github.com/nftmarketd/nftmarketd/internal/storage/database/memory"
)

// TestEnv manages a marketplace test environment: a memory-backed ledger,
// an engine, and a manual clock. Operations are submitted against the open
// ledger; CloseLedger flushes and bumps the sequence.
type TestEnv struct {
	t      *testing.T
	Ledger *ledger.Ledger
	Engine *tx.Engine
	Clock  *ManualClock
}

// EngineDefaults is the engine configuration test environments run with.
func EngineDefaults() tx.EngineConfig {
	return tx.EngineConfig{
		DataDepositPerByte: 1,
		ListingDeposit:     10,
		ExistentialDeposit: 5,
		ListingDuration:    86400,
	}
}

// NewTestEnv creates a test environment over a fresh in-memory ledger.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	l, err := ledger.Open(context.Background(), memory.NewDB())
	if err != nil {
		t.Fatalf("Failed to open test ledger: %v", err)
	}

	clock := NewManualClock()
	cfg := EngineDefaults()
	cfg.LedgerSequence = l.Sequence() + 1
	cfg.CloseTime = clock.Unix()
	cfg.Entropy = []byte(t.Name())

	return &TestEnv{
		t:      t,
		Ledger: l,
		Engine: tx.NewEngine(l, cfg),
		Clock:  clock,
	}
}

// Fund creates (or tops up) accounts with the given free balance.
func (e *TestEnv) Fund(balance uint64, accounts ...string) {
	e.t.Helper()
	for _, account := range accounts {
		k := keylet.Account(account)
		data, err := e.Ledger.Read(k)
		if err != nil {
			e.t.Fatalf("Failed to read account %s: %v", account, err)
		}

		acct := &sle.AccountRoot{Address: account}
		if data != nil {
			if acct, err = sle.ParseAccountRoot(data); err != nil {
				e.t.Fatalf("Failed to parse account %s: %v", account, err)
			}
		}
		acct.Balance += balance

		out, err := sle.SerializeAccountRoot(acct)
		if err != nil {
			e.t.Fatalf("Failed to serialize account %s: %v", account, err)
		}
		if err := e.Ledger.Update(k, out); err != nil {
			e.t.Fatalf("Failed to store account %s: %v", account, err)
		}
	}
}

// Submit applies an operation and requires it to succeed.
func (e *TestEnv) Submit(op tx.Operation) tx.ApplyResult {
	e.t.Helper()
	res := e.Engine.Apply(op)
	if !res.Result.IsSuccess() {
		e.t.Fatalf("%s by %s failed: %s (%s)", op.OpType(), op.GetCommon().Account, res.Result, res.Message)
	}
	return res
}

// SubmitExpect applies an operation and requires the given result code.
func (e *TestEnv) SubmitExpect(op tx.Operation, want tx.Result) tx.ApplyResult {
	e.t.Helper()
	res := e.Engine.Apply(op)
	if res.Result != want {
		e.t.Fatalf("%s by %s: result = %s, want %s", op.OpType(), op.GetCommon().Account, res.Result, want)
	}
	return res
}

// Advance moves the clock forward and updates the engine's close time.
func (e *TestEnv) Advance(d time.Duration) {
	e.Clock.Advance(d)
	e.Engine.SetCloseTime(e.Clock.Unix())
}

// CloseLedger flushes the open ledger and starts the next one.
func (e *TestEnv) CloseLedger() uint32 {
	e.t.Helper()
	seq, err := e.Ledger.Close(context.Background(), e.Clock.Unix())
	if err != nil {
		e.t.Fatalf("Failed to close ledger: %v", err)
	}
	e.Engine.SetLedgerSequence(seq + 1)
	return seq
}

// Sweep runs the expiry sweep at the current clock time.
func (e *TestEnv) Sweep() *tx.SweepReport {
	e.t.Helper()
	report, err := e.Engine.SweepExpired(e.Clock.Unix())
	if err != nil {
		e.t.Fatalf("Sweep failed: %v", err)
	}
	return report
}

// Balance returns an account's free balance.
func (e *TestEnv) Balance(account string) uint64 {
	return e.account(account).Balance
}

// Reserved returns an account's reserved balance.
func (e *TestEnv) Reserved(account string) uint64 {
	return e.account(account).Reserved
}

func (e *TestEnv) account(account string) *sle.AccountRoot {
	e.t.Helper()
	data, err := e.Ledger.Read(keylet.Account(account))
	if err != nil {
		e.t.Fatalf("Failed to read account %s: %v", account, err)
	}
	if data == nil {
		e.t.Fatalf("Account %s does not exist", account)
	}
	acct, err := sle.ParseAccountRoot(data)
	if err != nil {
		e.t.Fatalf("Failed to parse account %s: %v", account, err)
	}
	return acct
}

// Asset returns an asset record, or nil if it does not exist.
func (e *TestEnv) Asset(assetID id.ID) *sle.Asset {
	e.t.Helper()
	data, err := e.Ledger.Read(keylet.Asset(assetID))
	if err != nil {
		e.t.Fatalf("Failed to read asset %s: %v", assetID, err)
	}
	if data == nil {
		return nil
	}
	asset, err := sle.ParseAsset(data)
	if err != nil {
		e.t.Fatalf("Failed to parse asset %s: %v", assetID, err)
	}
	return asset
}

// Listing returns an asset's listing, or nil if none exists.
func (e *TestEnv) Listing(assetID id.ID) *sle.Listing {
	e.t.Helper()
	data, err := e.Ledger.Read(keylet.Listing(assetID))
	if err != nil {
		e.t.Fatalf("Failed to read listing %s: %v", assetID, err)
	}
	if data == nil {
		return nil
	}
	listing, err := sle.ParseListing(data)
	if err != nil {
		e.t.Fatalf("Failed to parse listing %s: %v", assetID, err)
	}
	return listing
}

// Plan returns an asset's installment plan, or nil if none exists.
func (e *TestEnv) Plan(assetID id.ID) *sle.InstallmentPlan {
	e.t.Helper()
	data, err := e.Ledger.Read(keylet.Plan(assetID))
	if err != nil {
		e.t.Fatalf("Failed to read plan %s: %v", assetID, err)
	}
	if data == nil {
		return nil
	}
	plan, err := sle.ParsePlan(data)
	if err != nil {
		e.t.Fatalf("Failed to parse plan %s: %v", assetID, err)
	}
	return plan
}

// CreateCollection creates a collection and returns its identifier.
func (e *TestEnv) CreateCollection(account, title string) id.ID {
	e.t.Helper()
	res := e.Submit(&tx.CollectionCreate{
		BaseOp: tx.NewBaseOp(tx.TypeCollectionCreate, account),
		Title:  title,
	})
	for _, ev := range res.Metadata.Events {
		if ev.Kind == tx.EventCollectionCreated {
			return ev.Collection
		}
	}
	e.t.Fatal("No CollectionCreated event emitted")
	return id.Zero
}

// MintAsset mints an asset and returns its identifier.
func (e *TestEnv) MintAsset(account string, collection id.ID, title string, royalty []sle.RoyaltyShare) id.ID {
	e.t.Helper()
	res := e.Submit(&tx.AssetMint{
		BaseOp:       tx.NewBaseOp(tx.TypeAssetMint, account),
		Title:        title,
		Royalty:      royalty,
		CollectionID: collection,
	})
	for _, ev := range res.Metadata.Events {
		if ev.Kind == tx.EventAssetMinted {
			return ev.Asset
		}
	}
	e.t.Fatal("No AssetMinted event emitted")
	return id.Zero
}
