package cache

import (
	"context"
	"testing"
	"time"

	"embedpack/internal/embeddings"
)

// TestNoOpCache verifies that NoOpCache implements the VectorCache interface correctly
func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	ctx := context.Background()

	// GetVector should always report a miss
	vec, err := c.GetVector(ctx, "test-key")
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if vec != nil {
		t.Errorf("expected nil vector (cache miss), got %v", vec)
	}

	// SetVector should succeed silently
	if err := c.SetVector(ctx, "test-key", embeddings.Vector{1, 2, 3}, time.Hour); err != nil {
		t.Errorf("expected no error on SetVector, got %v", err)
	}

	// Still a miss: nothing was actually cached
	vec, err = c.GetVector(ctx, "test-key")
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if vec != nil {
		t.Errorf("expected nil vector (no-op cache doesn't store), got %v", vec)
	}

	if err := c.Close(); err != nil {
		t.Errorf("expected no error on Close, got %v", err)
	}
}

func TestKey(t *testing.T) {
	if got := Key("text-embedding-3-small", "forest"); got != "text-embedding-3-small:forest" {
		t.Errorf("Key = %q", got)
	}
}
