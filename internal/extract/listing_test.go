package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleListing = `
// Generated file, do not edit.
pub static CATEGORY_EMBEDDINGS: &[(&str, [f32; 4])] = &[
    ("nature", [0.1, -0.2, 0.3, 0.4]),
    ("city", [1.0, 2.0, -3.0, 4e-2]),
    ("abstract", [0.5, 0.5]),
];
`

func TestParseListing(t *testing.T) {
	entries, err := ParseListing(sampleListing)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("parsed %d entries, want 3", len(entries))
	}

	if entries[0].Name != "nature" || entries[1].Name != "city" || entries[2].Name != "abstract" {
		t.Errorf("names out of order: %v %v %v", entries[0].Name, entries[1].Name, entries[2].Name)
	}
	if len(entries[0].Vector) != 4 {
		t.Errorf("nature has %d values, want 4", len(entries[0].Vector))
	}
	if entries[0].Vector[1] != -0.2 {
		t.Errorf("nature[1] = %v, want -0.2", entries[0].Vector[1])
	}
	if entries[1].Vector[3] != 4e-2 {
		t.Errorf("city[3] = %v, want 0.04", entries[1].Vector[3])
	}
	// Short vectors pass through; filtering is not the extractor's job.
	if len(entries[2].Vector) != 2 {
		t.Errorf("abstract has %d values, want 2", len(entries[2].Vector))
	}
}

func TestParseListingMalformedNumber(t *testing.T) {
	src := `("broken", [1.0, 0..5, 2.0])`
	_, err := ParseListing(src)
	if err == nil {
		t.Fatal("expected error for malformed literal, got nil")
	}
	// The error must name the entry and the bad token, not silently skip it.
	msg := err.Error()
	for _, want := range []string{"broken", "0..5"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestParseListingUnterminatedList(t *testing.T) {
	if _, err := ParseListing(`("open", [1.0, 2.0`); err == nil {
		t.Fatal("expected error for unterminated list")
	}
}

func TestParseListingIgnoresOtherStrings(t *testing.T) {
	src := `
let label = "not an entry";
println!("also not ( an entry");
("real", [1, 2, 3])
`
	entries, err := ParseListing(src)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "real" {
		t.Fatalf("entries = %+v, want single 'real'", entries)
	}
}

func TestParseListingEmptySource(t *testing.T) {
	entries, err := ParseListing("")
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("parsed %d entries from empty source, want 0", len(entries))
	}
}

func TestListingExtractorMissingFile(t *testing.T) {
	ex := NewListingExtractor(filepath.Join(t.TempDir(), "missing.rs"))
	_, err := ex.Extract(context.Background())
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
}

func TestListingExtractorReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing.rs")
	if err := os.WriteFile(path, []byte(`("disk", [9.0, 8.0])`), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := NewListingExtractor(path).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "disk" {
		t.Fatalf("entries = %+v, want single 'disk'", entries)
	}
}
