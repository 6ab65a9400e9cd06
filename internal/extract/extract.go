package extract

import (
	"context"
	"errors"

	"embedpack/internal/embeddings"
)

// ErrSourceNotFound reports a missing input location. It is fatal: the run
// aborts before any output is produced.
var ErrSourceNotFound = errors.New("extract: source not found")

// Extractor produces the ordered (name, vector) pairs a conversion run
// consumes. Vectors may have any length; the dimension gate lives
// downstream of extraction.
type Extractor interface {
	Extract(ctx context.Context) ([]embeddings.Entry, error)
}
