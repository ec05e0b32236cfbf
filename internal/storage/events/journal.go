// Package events persists domain events in a SQLite journal.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/nftmarketd/nftmarketd/internal/core/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	ledger_seq INTEGER NOT NULL,
	kind       TEXT NOT NULL,
	subject    TEXT NOT NULL,
	payload    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_subject ON events(subject, seq);
CREATE INDEX IF NOT EXISTS idx_events_ledger ON events(ledger_seq);
`

// Record is one journaled event row.
type Record struct {
	Seq       int64           `json:"seq"`
	LedgerSeq uint32          `json:"ledger_seq"`
	Kind      string          `json:"kind"`
	Subject   string          `json:"subject"`
	Payload   json.RawMessage `json:"payload"`
}

// Journal appends and queries domain events.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event journal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// subjectOf picks the row's subject: the asset when one is involved,
// otherwise the collection, otherwise the acting account.
func subjectOf(ev tx.Event) string {
	switch {
	case !ev.Asset.IsZero():
		return ev.Asset.String()
	case !ev.Collection.IsZero():
		return ev.Collection.String()
	default:
		return ev.Account
	}
}

// Append journals all events of one applied operation in a single
// transaction.
func (j *Journal) Append(ctx context.Context, ledgerSeq uint32, events []tx.Event) error {
	if len(events) == 0 {
		return nil
	}

	dbTx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin journal transaction: %w", err)
	}

	stmt, err := dbTx.PrepareContext(ctx,
		"INSERT INTO events (ledger_seq, kind, subject, payload) VALUES (?, ?, ?, ?)")
	if err != nil {
		dbTx.Rollback()
		return fmt.Errorf("failed to prepare journal insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			dbTx.Rollback()
			return fmt.Errorf("failed to encode event: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, ledgerSeq, string(ev.Kind), subjectOf(ev), string(payload)); err != nil {
			dbTx.Rollback()
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit journal transaction: %w", err)
	}
	return nil
}

// History returns the newest events first. A non-empty subject narrows the
// query to that asset, collection or account.
func (j *Journal) History(ctx context.Context, subject string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows *sql.Rows
	var err error
	if subject != "" {
		rows, err = j.db.QueryContext(ctx,
			"SELECT seq, ledger_seq, kind, subject, payload FROM events WHERE subject = ? ORDER BY seq DESC LIMIT ?",
			subject, limit)
	} else {
		rows, err = j.db.QueryContext(ctx,
			"SELECT seq, ledger_seq, kind, subject, payload FROM events ORDER BY seq DESC LIMIT ?",
			limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var payload string
		if err := rows.Scan(&rec.Seq, &rec.LedgerSeq, &rec.Kind, &rec.Subject, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		rec.Payload = json.RawMessage(payload)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event rows: %w", err)
	}
	return records, nil
}
