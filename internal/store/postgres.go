package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"embedpack/internal/embeddings"
)

// PostgresSink persists the table into a pgvector-backed categories table,
// for deployments that query categories with SQL instead of shipping the
// binary artifact.
type PostgresSink struct {
	db    *sql.DB
	dim   int
	label string
}

// NewPostgresSink opens dsn with the pgx stdlib driver and ensures the
// schema. dim fixes the vector column width.
func NewPostgresSink(dsn string, dim int) (*PostgresSink, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	s := &PostgresSink{db: db, dim: dim, label: "postgres"}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresSink) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("store: create vector extension: %w", err)
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS categories (
		ord INT PRIMARY KEY,
		name TEXT NOT NULL,
		embedding vector(%d) NOT NULL
	)`, s.dim)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("store: create categories table: %w", err)
	}
	return nil
}

// Write replaces the categories table contents with t.
func (s *PostgresSink) Write(ctx context.Context, t embeddings.Table) (Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `TRUNCATE categories`); err != nil {
		return Result{}, fmt.Errorf("store: truncate categories: %w", err)
	}

	for i, e := range t {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories(ord, name, embedding) VALUES ($1, $2, $3::vector)`,
			i, e.Name, VectorLiteral(e.Vector),
		); err != nil {
			return Result{}, fmt.Errorf("store: insert %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("store: commit: %w", err)
	}
	return Result{Destination: s.label, Rows: len(t)}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}

// VectorLiteral formats a vector as the pgvector input literal, e.g.
// "[0.1,0.2,0.3]".
func VectorLiteral(vec embeddings.Vector) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
