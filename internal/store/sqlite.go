package store

import (
	"context"
	"database/sql"
	"fmt"

	"embedpack/internal/embeddings"
)

// SQLiteSink persists the table into a categories table, embeddings stored
// as f32-LE BLOBs. Row order mirrors table order via the ord column so a
// load reproduces the original sequence.
type SQLiteSink struct {
	db    *sql.DB
	label string
}

// NewSQLiteSink creates a sink over an open SQLite database. label is the
// destination string reported in the conversion summary.
func NewSQLiteSink(db *sql.DB, label string) (*SQLiteSink, error) {
	if db == nil {
		return nil, fmt.Errorf("store: db is nil")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS categories (
		ord       INTEGER PRIMARY KEY,
		name      TEXT NOT NULL,
		embedding BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &SQLiteSink{db: db, label: label}, nil
}

// Write replaces the categories table contents with t.
func (s *SQLiteSink) Write(ctx context.Context, t embeddings.Table) (Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return Result{}, fmt.Errorf("store: clear categories: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO categories(ord, name, embedding) VALUES(?, ?, ?)`)
	if err != nil {
		return Result{}, fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	var bytes int64
	for i, e := range t {
		blob := EncodeBlob(e.Vector)
		if _, err := stmt.ExecContext(ctx, i, e.Name, blob); err != nil {
			return Result{}, fmt.Errorf("store: insert %q: %w", e.Name, err)
		}
		bytes += int64(len(blob))
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("store: commit: %w", err)
	}
	return Result{Destination: s.label, Bytes: bytes, Rows: len(t)}, nil
}

// Load reads the categories table back in ord order.
func (s *SQLiteSink) Load(ctx context.Context) (embeddings.Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, embedding FROM categories ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("store: query categories: %w", err)
	}
	defer rows.Close()

	var table embeddings.Table
	for rows.Next() {
		var name string
		var blob []byte
		if err := rows.Scan(&name, &blob); err != nil {
			return nil, fmt.Errorf("store: scan category: %w", err)
		}
		vec, err := DecodeBlob(blob)
		if err != nil {
			return nil, err
		}
		table = append(table, embeddings.Entry{Name: name, Vector: vec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate categories: %w", err)
	}
	return table, nil
}
