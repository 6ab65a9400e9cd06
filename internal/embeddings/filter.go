package embeddings

// Rejection records an entry dropped by FilterDim: its name and the vector
// length it arrived with.
type Rejection struct {
	Name   string
	Length int
}

// FilterDim keeps only entries whose vector length equals dim, preserving
// relative order. Wrong-length entries are never padded or truncated; they
// are dropped and reported so callers can warn per entry without aborting
// the run.
func FilterDim(entries []Entry, dim int) (Table, []Rejection) {
	var accepted Table
	var rejected []Rejection
	for _, e := range entries {
		if len(e.Vector) != dim {
			rejected = append(rejected, Rejection{Name: e.Name, Length: len(e.Vector)})
			continue
		}
		accepted = append(accepted, e)
	}
	return accepted, rejected
}
