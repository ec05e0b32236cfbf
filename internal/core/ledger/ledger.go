// Package ledger maintains versioned marketplace state over a key-value
// database. Operations apply against an open overlay; Close flushes the
// overlay in one batch together with the bumped header record.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nftmarketd/nftmarketd/internal/core/keylet"
	"github.com/nftmarketd/nftmarketd/internal/core/sle"
	"github.com/nftmarketd/nftmarketd/internal/storage/database"
)

// DefaultCacheSize bounds the read-through entry cache.
const DefaultCacheSize = 65536

type entryState struct {
	data    []byte
	deleted bool
}

// Ledger is a versioned view over the state database. It implements
// tx.LedgerView. Reads go overlay, then cache, then database; writes stay
// in the overlay until Close.
type Ledger struct {
	db    database.DB
	cache *lru.Cache[[32]byte, []byte]

	mu      sync.RWMutex
	overlay map[[32]byte]*entryState
	header  sle.Header
}

// Open loads the ledger header from the database. A fresh database starts
// at sequence zero.
func Open(ctx context.Context, db database.DB) (*Ledger, error) {
	cache, err := lru.New[[32]byte, []byte](DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		db:      db,
		cache:   cache,
		overlay: make(map[[32]byte]*entryState),
	}

	headerKey := keylet.Header()
	data, err := db.Read(ctx, headerKey.Key[:])
	if err != nil {
		if !errors.Is(err, database.ErrKeyNotFound) {
			return nil, fmt.Errorf("failed to read ledger header: %w", err)
		}
		return l, nil
	}

	header, err := sle.ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger header: %w", err)
	}
	l.header = *header
	return l, nil
}

// Sequence returns the sequence of the last closed ledger.
func (l *Ledger) Sequence() uint32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.header.Seq
}

// CloseTime returns the close time of the last closed ledger.
func (l *Ledger) CloseTime() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.header.CloseTime
}

// Dirty returns the number of entries waiting to be flushed.
func (l *Ledger) Dirty() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.overlay)
}

// Read returns an entry's data, or (nil, nil) if it does not exist.
func (l *Ledger) Read(k keylet.Keylet) ([]byte, error) {
	l.mu.RLock()
	if entry, ok := l.overlay[k.Key]; ok {
		l.mu.RUnlock()
		if entry.deleted {
			return nil, nil
		}
		return entry.data, nil
	}
	if data, ok := l.cache.Get(k.Key); ok {
		l.mu.RUnlock()
		return data, nil
	}
	l.mu.RUnlock()

	data, err := l.db.Read(context.Background(), k.Key[:])
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	l.cache.Add(k.Key, data)
	return data, nil
}

// Exists reports whether an entry exists.
func (l *Ledger) Exists(k keylet.Keylet) (bool, error) {
	data, err := l.Read(k)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

// Insert stages a new entry in the overlay.
func (l *Ledger) Insert(k keylet.Keylet, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.overlay[k.Key] = &entryState{data: data}
	return nil
}

// Update stages a modification in the overlay.
func (l *Ledger) Update(k keylet.Keylet, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.overlay[k.Key] = &entryState{data: data}
	return nil
}

// Erase stages a deletion in the overlay.
func (l *Ledger) Erase(k keylet.Keylet) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.overlay[k.Key] = &entryState{deleted: true}
	return nil
}

// ForEach iterates over all entries, overlay state included. If fn returns
// false, iteration stops early.
func (l *Ledger) ForEach(fn func(key [32]byte, data []byte) bool) error {
	l.mu.RLock()
	overlay := make(map[[32]byte]*entryState, len(l.overlay))
	for key, entry := range l.overlay {
		overlay[key] = entry
	}
	l.mu.RUnlock()

	it, err := l.db.Iterator(context.Background(), nil, nil)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		var key [32]byte
		if len(it.Key()) != len(key) {
			continue
		}
		copy(key[:], it.Key())

		if _, ok := overlay[key]; ok {
			// Overlay entries are visited in the second pass.
			continue
		}
		if !fn(key, it.Value()) {
			return it.Error()
		}
	}
	if err := it.Error(); err != nil {
		return err
	}

	for key, entry := range overlay {
		if entry.deleted {
			continue
		}
		if !fn(key, entry.data) {
			return nil
		}
	}
	return nil
}

// Close flushes the overlay and the bumped header in one batch. The new
// header carries the given close time.
func (l *Ledger) Close(ctx context.Context, closeTime uint64) (uint32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	newHeader := sle.Header{Seq: l.header.Seq + 1, CloseTime: closeTime}
	headerData, err := sle.SerializeHeader(&newHeader)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize ledger header: %w", err)
	}

	headerKey := keylet.Header()
	ops := make([]database.BatchOperation, 0, len(l.overlay)+1)
	ops = append(ops, database.BatchOperation{
		Type:  database.BatchPut,
		Key:   headerKey.Key[:],
		Value: headerData,
	})
	for key, entry := range l.overlay {
		op := database.BatchOperation{Key: append([]byte(nil), key[:]...)}
		if entry.deleted {
			op.Type = database.BatchDelete
		} else {
			op.Type = database.BatchPut
			op.Value = entry.data
		}
		ops = append(ops, op)
	}

	if err := l.db.Batch(ctx, ops); err != nil {
		return 0, fmt.Errorf("failed to flush ledger %d: %w", newHeader.Seq, err)
	}

	for key, entry := range l.overlay {
		if entry.deleted {
			l.cache.Remove(key)
		} else {
			l.cache.Add(key, entry.data)
		}
	}
	l.overlay = make(map[[32]byte]*entryState)
	l.header = newHeader
	l.cache.Add(headerKey.Key, headerData)
	return newHeader.Seq, nil
}

// Discard drops all staged overlay entries without flushing them.
func (l *Ledger) Discard() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.overlay = make(map[[32]byte]*entryState)
}
