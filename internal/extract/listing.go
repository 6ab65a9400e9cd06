package extract

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"embedpack/internal/embeddings"
)

// ListingExtractor scans a source listing for category blocks of the form
//
//	("name", [1.0, -2.5e-3, ...])
//
// which is how upstream code generators emit category embedding tables.
// Unlike a lexical regex scan, malformed numeric literals inside a block
// are explicit errors naming the entry and the offending token, never
// silently skipped.
type ListingExtractor struct {
	path string
}

// NewListingExtractor extracts from the listing file at path.
func NewListingExtractor(path string) *ListingExtractor {
	return &ListingExtractor{path: path}
}

func (l *ListingExtractor) Extract(ctx context.Context) ([]embeddings.Entry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, l.path)
		}
		return nil, fmt.Errorf("extract: read %s: %w", l.path, err)
	}
	return ParseListing(string(data))
}

// ParseListing tokenizes src and returns every ("name", [...]) block in
// source order. Quoted strings not followed by a bracketed list are plain
// source text and are skipped.
func ParseListing(src string) ([]embeddings.Entry, error) {
	var entries []embeddings.Entry
	s := &scanner{src: src}

	for {
		name, ok := s.nextBlock()
		if !ok {
			break
		}
		values, err := s.scanValues(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, embeddings.Entry{Name: name, Vector: values})
	}
	return entries, nil
}

type scanner struct {
	src string
	pos int
}

// nextBlock advances to the next `("name", [` pattern and returns the name.
func (s *scanner) nextBlock() (string, bool) {
	for s.pos < len(s.src) {
		if s.src[s.pos] != '(' {
			s.pos++
			continue
		}
		save := s.pos
		s.pos++
		s.skipSpace()
		name, ok := s.scanQuotedName()
		if !ok {
			s.pos = save + 1
			continue
		}
		s.skipSpace()
		if !s.consume(',') {
			s.pos = save + 1
			continue
		}
		s.skipSpace()
		if !s.consume('[') {
			s.pos = save + 1
			continue
		}
		return name, true
	}
	return "", false
}

// scanValues reads comma-separated numeric literals up to the closing
// bracket of the current block.
func (s *scanner) scanValues(name string) (embeddings.Vector, error) {
	var values embeddings.Vector
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, fmt.Errorf("extract: entry %q: unterminated value list", name)
		}
		switch s.src[s.pos] {
		case ']':
			s.pos++
			return values, nil
		case ',':
			s.pos++
			continue
		}

		start := s.pos
		for s.pos < len(s.src) && !isDelim(s.src[s.pos]) {
			s.pos++
		}
		token := s.src[start:s.pos]
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return nil, fmt.Errorf("extract: entry %q: invalid numeric literal %q at offset %d", name, token, start)
		}
		values = append(values, float32(v))
	}
}

func (s *scanner) scanQuotedName() (string, bool) {
	if s.pos >= len(s.src) || s.src[s.pos] != '"' {
		return "", false
	}
	s.pos++
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != '"' && s.src[s.pos] != '\n' {
		s.pos++
	}
	if s.pos >= len(s.src) || s.src[s.pos] != '"' {
		return "", false
	}
	name := s.src[start:s.pos]
	s.pos++
	if name == "" {
		return "", false
	}
	return name, true
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

func (s *scanner) consume(c byte) bool {
	if s.pos < len(s.src) && s.src[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelim(c byte) bool {
	return c == ',' || c == ']' || isSpace(c)
}
