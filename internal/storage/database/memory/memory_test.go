package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/nftmarketd/nftmarketd/internal/storage/database"
)

func TestMemoryDB(t *testing.T) {
	manager := NewManager()
	defer manager.Close()

	ctx := context.Background()

	t.Run("Write Read Delete", func(t *testing.T) {
		db, err := manager.OpenDB("test")
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}

		if err := db.Write(ctx, []byte("k"), []byte("v")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		got, err := db.Read(ctx, []byte("k"))
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(got) != "v" {
			t.Errorf("Wrong value read: got %s, want v", got)
		}

		if err := db.Delete(ctx, []byte("k")); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := db.Read(ctx, []byte("k")); !errors.Is(err, database.ErrKeyNotFound) {
			t.Errorf("Deleted key still readable: err = %v", err)
		}
	})

	t.Run("Values Are Copied", func(t *testing.T) {
		db, _ := manager.OpenDB("copy-test")

		value := []byte("original")
		if err := db.Write(ctx, []byte("k"), value); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		value[0] = 'X'

		got, err := db.Read(ctx, []byte("k"))
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(got) != "original" {
			t.Errorf("Stored value aliased caller buffer: got %s", got)
		}
	})

	t.Run("Batch", func(t *testing.T) {
		db, _ := manager.OpenDB("batch-test")

		ops := []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("k1"), Value: []byte("v1")},
			{Type: database.BatchPut, Key: []byte("k2"), Value: []byte("v2")},
			{Type: database.BatchDelete, Key: []byte("k1")},
		}
		if err := db.Batch(ctx, ops); err != nil {
			t.Fatalf("Batch failed: %v", err)
		}

		if _, err := db.Read(ctx, []byte("k1")); !errors.Is(err, database.ErrKeyNotFound) {
			t.Errorf("k1 should be deleted: err = %v", err)
		}
		if got, _ := db.Read(ctx, []byte("k2")); string(got) != "v2" {
			t.Errorf("k2 = %s, want v2", got)
		}
	})

	t.Run("Sorted Iterator", func(t *testing.T) {
		db, _ := manager.OpenDB("iter-test")

		for _, key := range []string{"c", "a", "d", "b"} {
			if err := db.Write(ctx, []byte(key), []byte(key)); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
		}

		it, err := db.Iterator(ctx, []byte("a"), []byte("d"))
		if err != nil {
			t.Fatalf("Iterator failed: %v", err)
		}
		defer it.Close()

		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
			t.Errorf("Iterated keys = %v, want [a b c]", keys)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db, _ := manager.OpenDB("closed-test")
		if err := manager.CloseDB("closed-test"); err != nil {
			t.Fatalf("CloseDB failed: %v", err)
		}
		if err := db.Write(ctx, []byte("k"), []byte("v")); !errors.Is(err, database.ErrDBClosed) {
			t.Errorf("Write on closed db: err = %v, want %v", err, database.ErrDBClosed)
		}
	})
}
