package events

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/nftmarketd/nftmarketd/internal/core/id"
	"github.com/nftmarketd/nftmarketd/internal/core/tx"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.db")
	j, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestAppendAndHistory(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	assetID := id.New([]byte("journal"), 1, 0)

	err := j.Append(ctx, 7, []tx.Event{
		{Kind: tx.EventListed, Asset: assetID, Account: "alice", Amount: 50},
		{Kind: tx.EventBought, Asset: assetID, From: "alice", To: "bob", Amount: 50},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := j.History(ctx, assetID.String(), 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Newest first.
	if records[0].Kind != string(tx.EventBought) || records[1].Kind != string(tx.EventListed) {
		t.Errorf("order = %s, %s; want Bought, Listed", records[0].Kind, records[1].Kind)
	}
	if records[0].LedgerSeq != 7 {
		t.Errorf("ledger seq = %d, want 7", records[0].LedgerSeq)
	}

	var ev tx.Event
	if err := json.Unmarshal(records[0].Payload, &ev); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if ev.From != "alice" || ev.To != "bob" || ev.Amount != 50 {
		t.Errorf("payload = %+v, want alice->bob 50", ev)
	}
}

func TestHistoryBySubject(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	a := id.New([]byte("a"), 1, 0)
	b := id.New([]byte("b"), 1, 0)

	j.Append(ctx, 1, []tx.Event{{Kind: tx.EventAssetMinted, Asset: a, Account: "alice"}})
	j.Append(ctx, 1, []tx.Event{{Kind: tx.EventAssetMinted, Asset: b, Account: "bob"}})
	j.Append(ctx, 2, []tx.Event{{Kind: tx.EventAssetBurned, Asset: a, Account: "alice"}})

	records, err := j.History(ctx, a.String(), 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records for asset a, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Subject != a.String() {
			t.Errorf("subject = %s, want %s", rec.Subject, a)
		}
	}

	all, err := j.History(ctx, "", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d records unfiltered, want 3", len(all))
	}
}

func TestAccountSubjectFallback(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	collID := id.New([]byte("coll"), 1, 0)

	j.Append(ctx, 1, []tx.Event{{Kind: tx.EventCollectionCreated, Collection: collID, Account: "alice"}})

	records, err := j.History(ctx, collID.String(), 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	if err := j.Append(ctx, 2, nil); err != nil {
		t.Fatalf("append empty: %v", err)
	}
}
