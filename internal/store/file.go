package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"embedpack/internal/binfmt"
	"embedpack/internal/embeddings"
)

// FileSink writes the table as a binary artifact. The encode goes to a
// temp file in the destination directory which is renamed onto the final
// path on success, so a failed run never leaves a half-written artifact
// behind at the destination.
type FileSink struct {
	Path  string
	Codec binfmt.Codec
}

// NewFileSink writes the binfmt artifact to path.
func NewFileSink(path string, codec binfmt.Codec) *FileSink {
	return &FileSink{Path: path, Codec: codec}
}

func (s *FileSink) Write(ctx context.Context, t embeddings.Table) (Result, error) {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("store: create destination dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".embeddings-*.tmp")
	if err != nil {
		return Result{}, fmt.Errorf("store: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpPath)
	}()

	if err := s.Codec.Encode(tmp, t); err != nil {
		tmp.Close()
		return Result{}, err
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("store: close temp file: %w", err)
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		return Result{}, fmt.Errorf("store: stat temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return Result{}, fmt.Errorf("store: rename into place: %w", err)
	}

	return Result{Destination: s.Path, Bytes: info.Size(), Rows: len(t)}, nil
}
