// Package binfmt implements the compact binary layout for category
// embedding tables:
//
//	u32 LE              count N
//	repeated N times:
//	  u32 LE            name_len
//	  name_len bytes    UTF-8 name, no terminator
//	  Dim × 4 bytes     f32 LE vector values
//
// The format carries no magic number or version field; writer and reader
// agree on the dimension out of band, which is why Codec takes Dim
// explicitly instead of hiding a compile-time constant.
package binfmt

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"embedpack/internal/embeddings"
)

// DefaultDim is the schema dimension of the CLIP category tables this
// format was introduced for.
const DefaultDim = 512

// maxNameLen bounds a single name's declared byte length. Real category
// names are a few dozen bytes; anything near this limit means the stream
// is not a table at all.
const maxNameLen = 1 << 20

var (
	// ErrTruncated reports a stream that ends before the data its length
	// prefixes declare.
	ErrTruncated = errors.New("binfmt: truncated input")

	// ErrMalformed reports structurally invalid input, such as a name that
	// is not valid UTF-8 or an empty name.
	ErrMalformed = errors.New("binfmt: malformed input")
)

// Codec encodes and decodes fixed-dimension embedding tables.
type Codec struct {
	// Dim is the vector length every entry must have. Callers are expected
	// to have filtered wrong-length entries before encoding.
	Dim int
}

// New returns a Codec for the given dimension, falling back to DefaultDim
// when dim is not positive.
func New(dim int) Codec {
	if dim <= 0 {
		dim = DefaultDim
	}
	return Codec{Dim: dim}
}

// EncodedSize returns the exact number of bytes Encode will write for t.
func (c Codec) EncodedSize(t embeddings.Table) int {
	size := 4
	for _, e := range t {
		size += 4 + len(e.Name) + 4*c.Dim
	}
	return size
}

// Encode writes t to w. Output is deterministic: the same table always
// produces the identical byte sequence. An empty table writes exactly the
// four zero bytes of its count. Write failures surface wrapped, so partial
// output may exist on error.
func (c Codec) Encode(w io.Writer, t embeddings.Table) error {
	bw := bufio.NewWriter(w)

	var scratch [4]byte
	binary.LittleEndian.PutUint32(scratch[:], uint32(len(t)))
	if _, err := bw.Write(scratch[:]); err != nil {
		return fmt.Errorf("binfmt: write count: %w", err)
	}

	for _, e := range t {
		binary.LittleEndian.PutUint32(scratch[:], uint32(len(e.Name)))
		if _, err := bw.Write(scratch[:]); err != nil {
			return fmt.Errorf("binfmt: write name length: %w", err)
		}
		if _, err := bw.WriteString(e.Name); err != nil {
			return fmt.Errorf("binfmt: write name: %w", err)
		}
		for _, v := range e.Vector {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
			if _, err := bw.Write(scratch[:]); err != nil {
				return fmt.Errorf("binfmt: write vector: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("binfmt: flush: %w", err)
	}
	return nil
}

// Decode reads a table from r, consuming exactly the bytes the declared
// entry count implies. Trailing bytes beyond the final entry are left
// unread and are not an error; use DecodeStrict to reject them.
//
// Float bit patterns round-trip exactly, including NaN payloads.
func (c Codec) Decode(r io.Reader) (embeddings.Table, error) {
	count, err := readUint32(r, "entry count")
	if err != nil {
		return nil, err
	}

	// Cap the preallocation: count is attacker-controlled until the stream
	// proves it holds that many entries.
	capHint := count
	if capHint > 1024 {
		capHint = 1024
	}
	table := make(embeddings.Table, 0, capHint)

	for i := uint32(0); i < count; i++ {
		nameLen, err := readUint32(r, fmt.Sprintf("entry %d name length", i))
		if err != nil {
			return nil, err
		}
		if nameLen == 0 {
			return nil, fmt.Errorf("%w: entry %d has empty name", ErrMalformed, i)
		}
		if nameLen > maxNameLen {
			return nil, fmt.Errorf("%w: entry %d declares implausible name length %d", ErrMalformed, i, nameLen)
		}

		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return nil, fmt.Errorf("%w: entry %d name (%d bytes declared): %v", ErrTruncated, i, nameLen, err)
		}
		if !utf8.Valid(nameBytes) {
			return nil, fmt.Errorf("%w: entry %d name is not valid UTF-8", ErrMalformed, i)
		}

		vecBytes := make([]byte, 4*c.Dim)
		if _, err := io.ReadFull(r, vecBytes); err != nil {
			return nil, fmt.Errorf("%w: entry %d vector (%d floats declared): %v", ErrTruncated, i, c.Dim, err)
		}
		vec := make(embeddings.Vector, c.Dim)
		for j := 0; j < c.Dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(vecBytes[j*4:]))
		}

		table = append(table, embeddings.Entry{Name: string(nameBytes), Vector: vec})
	}

	return table, nil
}

// DecodeStrict behaves like Decode but additionally fails with ErrMalformed
// if any bytes remain after the declared entries.
func (c Codec) DecodeStrict(r io.Reader) (embeddings.Table, error) {
	table, err := c.Decode(r)
	if err != nil {
		return nil, err
	}
	var trailing [1]byte
	n, err := io.ReadFull(r, trailing[:])
	if n > 0 {
		return nil, fmt.Errorf("%w: trailing bytes after %d declared entries", ErrMalformed, len(table))
	}
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("binfmt: read trailing bytes: %w", err)
	}
	return table, nil
}

func readUint32(r io.Reader, what string) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrTruncated, what, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
