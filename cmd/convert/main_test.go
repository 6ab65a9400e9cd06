package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"embedpack/internal/binfmt"
)

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "listing.rs")
	output := filepath.Join(dir, "embeddings.bin")

	listing := `
("ocean", [0.1, 0.2, 0.3, 0.4]),
("short", [1.0]),
("desert", [0.5, 0.6, 0.7, 0.8]),
`
	if err := os.WriteFile(source, []byte(listing), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("EMBEDDING_DIM", "4")
	t.Setenv("SOURCE_FORMAT", "listing")

	if err := run([]string{source, output}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	defer f.Close()

	table, err := binfmt.New(4).DecodeStrict(f)
	if err != nil {
		t.Fatalf("artifact does not decode: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("artifact has %d entries, want 2 (short one filtered)", len(table))
	}
	if table[0].Name != "ocean" || table[1].Name != "desert" {
		t.Errorf("names = %v, want [ocean desert]", table.Names())
	}
}

func TestRunMissingSource(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SOURCE_FORMAT", "listing")

	err := run([]string{filepath.Join(dir, "missing.rs"), filepath.Join(dir, "out.bin")})
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	// And no artifact may appear.
	if _, statErr := os.Stat(filepath.Join(dir, "out.bin")); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("artifact must not exist after a failed run")
	}
}

func TestRunNoSourceConfigured(t *testing.T) {
	os.Unsetenv("SOURCE_PATH")
	if err := run(nil); err == nil {
		t.Fatal("expected error when no source path is configured")
	}
}
