package extract

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"embedpack/internal/cache"
	"embedpack/internal/embeddings"
	"embedpack/internal/retry"
)

const (
	embedAttempts    = 3
	embedRetryBase   = 200 * time.Millisecond
	embedConcurrency = 8
	cacheTTL         = 30 * 24 * time.Hour
)

// EmbedExtractor does not parse vectors from a source; it generates them.
// It reads a names file (one category per line, '#' comments and blank
// lines skipped) and embeds each name through the embeddings API. Vectors
// for names seen on earlier runs come from the cache instead of the API.
//
// Names are embedded concurrently but results are resequenced into file
// order before returning, since table order is semantically meaningful.
type EmbedExtractor struct {
	path     string
	model    string
	embedder embeddings.Embedder
	cache    cache.VectorCache
}

// NewEmbedExtractor builds an extractor over the names file at path.
// model is used only for cache keying.
func NewEmbedExtractor(path, model string, embedder embeddings.Embedder, vc cache.VectorCache) *EmbedExtractor {
	if vc == nil {
		vc = cache.NewNoOpCache()
	}
	return &EmbedExtractor{path: path, model: model, embedder: embedder, cache: vc}
}

func (e *EmbedExtractor) Extract(ctx context.Context) ([]embeddings.Entry, error) {
	names, err := readNames(e.path)
	if err != nil {
		return nil, err
	}

	entries := make([]embeddings.Entry, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for i, name := range names {
		g.Go(func() error {
			vec, err := e.embedOne(ctx, name)
			if err != nil {
				return fmt.Errorf("extract: embed %q: %w", name, err)
			}
			entries[i] = embeddings.Entry{Name: name, Vector: vec}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (e *EmbedExtractor) embedOne(ctx context.Context, name string) (embeddings.Vector, error) {
	key := cache.Key(e.model, name)

	if vec, err := e.cache.GetVector(ctx, key); err == nil && vec != nil {
		return vec, nil
	}

	var vec embeddings.Vector
	err := retry.Do(ctx, embedAttempts, embedRetryBase, func() error {
		var embedErr error
		vec, embedErr = e.embedder.Embed(ctx, name)
		return embedErr
	})
	if err != nil {
		return nil, err
	}

	// Cache write failures are not fatal; the vector is already in hand.
	_ = e.cache.SetVector(ctx, key, vec, cacheTTL)
	return vec, nil
}

func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("extract: open %s: %w", path, err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("extract: read %s: %w", path, err)
	}
	return names, nil
}
