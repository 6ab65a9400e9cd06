package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"embedpack/internal/embeddings"
)

// EncodeBlob encodes a vector into a BLOB suitable for a database column:
// a plain little-endian sequence of IEEE 754 float32 values without a
// length prefix; the length is derived from the BLOB size on decode.
func EncodeBlob(vec embeddings.Vector) []byte {
	if len(vec) == 0 {
		return nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// DecodeBlob decodes a BLOB produced by EncodeBlob back into a vector.
func DecodeBlob(b []byte) (embeddings.Vector, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("store: invalid embedding blob length %d (not multiple of 4)", len(b))
	}
	n := len(b) / 4
	vec := make(embeddings.Vector, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}
