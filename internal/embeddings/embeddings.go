package embeddings

import "math"

// Vector is a simple float32 slice wrapper.
type Vector []float32

// Entry pairs a category name with its embedding vector.
type Entry struct {
	Name   string
	Vector Vector
}

// Table is an ordered collection of entries. Order is meaningful: it is the
// order categories are matched against at runtime and the order entries are
// laid out in the binary artifact.
type Table []Entry

// Names returns the category names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, e := range t {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the first entry with the given name. The format does not
// deduplicate names; first match wins.
func (t Table) Lookup(name string) (Entry, bool) {
	for _, e := range t {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for empty or mismatched-length inputs.
func CosineSimilarity(a, b Vector) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// NormalizedScore maps cosine similarity into [0, 1], the scale match
// consumers rank candidates on.
func NormalizedScore(a, b Vector) float32 {
	score := (CosineSimilarity(a, b) + 1) / 2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
