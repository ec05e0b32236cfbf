package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nftmarketd/nftmarketd/internal/storage/database"
)

// DB is an in-memory backend used by tests and throwaway instances.
type DB struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func NewDB() *DB {
	return &DB{data: make(map[string][]byte)}
}

func (m *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, database.ErrDBClosed
	}

	value, ok := m.data[string(key)]
	if !ok {
		return nil, database.ErrKeyNotFound
	}
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	return valueCopy, nil
}

func (m *DB) Write(ctx context.Context, key []byte, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	m.data[string(key)] = valueCopy
	return nil
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}

	delete(m.data, string(key))
	return nil
}

func (m *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}

	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			valueCopy := make([]byte, len(op.Value))
			copy(valueCopy, op.Value)
			m.data[string(op.Key)] = valueCopy
		case database.BatchDelete:
			delete(m.data, string(op.Key))
		default:
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}
	return nil
}

// Iterator walks a sorted snapshot taken when the iterator was created.
type Iterator struct {
	keys   []string
	values [][]byte
	pos    int
}

func (m *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, database.ErrDBClosed
	}

	it := &Iterator{pos: -1}
	for key := range m.data {
		if start != nil && key < string(start) {
			continue
		}
		if end != nil && key >= string(end) {
			continue
		}
		it.keys = append(it.keys, key)
	}
	sort.Strings(it.keys)

	it.values = make([][]byte, len(it.keys))
	for i, key := range it.keys {
		value := m.data[key]
		valueCopy := make([]byte, len(value))
		copy(valueCopy, value)
		it.values[i] = valueCopy
	}
	return it, nil
}

func (it *Iterator) Next() bool {
	if it.pos+1 >= len(it.keys) {
		return false
	}
	it.pos++
	return true
}

func (it *Iterator) Key() []byte {
	if it.pos < 0 || it.pos >= len(it.keys) {
		return nil
	}
	return []byte(it.keys[it.pos])
}

func (it *Iterator) Value() []byte {
	if it.pos < 0 || it.pos >= len(it.values) {
		return nil
	}
	return it.values[it.pos]
}

func (it *Iterator) Error() error { return nil }

func (it *Iterator) Close() error { return nil }

// Manager hands out named in-memory databases.
type Manager struct {
	mu  sync.Mutex
	dbs map[string]*DB
}

func NewManager() *Manager {
	return &Manager{dbs: make(map[string]*DB)}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, exists := m.dbs[name]; exists {
		return db, nil
	}
	db := NewDB()
	m.dbs[name] = db
	return db, nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, exists := m.dbs[name]
	if !exists {
		return fmt.Errorf("database %s not found", name)
	}
	db.mu.Lock()
	db.closed = true
	db.mu.Unlock()
	delete(m.dbs, name)
	return nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, db := range m.dbs {
		db.mu.Lock()
		db.closed = true
		db.mu.Unlock()
		delete(m.dbs, name)
	}
	return nil
}
