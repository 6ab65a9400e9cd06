package cache

import (
	"context"
	"time"

	"embedpack/internal/embeddings"
)

// VectorCache stores embedding vectors keyed by model and input text, so
// repeat conversion runs do not re-bill the embeddings API for category
// names that were already embedded.
type VectorCache interface {
	// GetVector retrieves a cached vector by key. Returns nil on miss.
	GetVector(ctx context.Context, key string) (embeddings.Vector, error)

	// SetVector stores a vector with TTL.
	SetVector(ctx context.Context, key string, vec embeddings.Vector, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// Key builds the cache key for one (model, text) pair.
func Key(model, text string) string {
	return model + ":" + text
}
