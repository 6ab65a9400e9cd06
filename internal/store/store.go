package store

import (
	"context"

	"embedpack/internal/embeddings"
)

// Result describes what a sink wrote.
type Result struct {
	// Destination is the path or DSN-ish label the summary reports.
	Destination string
	// Bytes is the artifact size. Zero for database sinks, which report
	// rows instead.
	Bytes int64
	// Rows is the number of entries persisted.
	Rows int
}

// Sink persists a filtered embedding table; the sink defines the on-disk
// or in-database representation.
type Sink interface {
	Write(ctx context.Context, t embeddings.Table) (Result, error)
}
