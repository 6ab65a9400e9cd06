// Package convert runs the one-shot conversion pipeline: extract category
// vectors, drop wrong-dimension entries with a warning each, persist the
// rest through the configured sink.
package convert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"embedpack/internal/embeddings"
	"embedpack/internal/extract"
	"embedpack/internal/store"
)

// Summary is the outcome of one conversion run.
type Summary struct {
	Accepted    int
	Rejected    int
	Bytes       int64
	Destination string
}

func (s Summary) String() string {
	if s.Bytes > 0 {
		return fmt.Sprintf("wrote %d categories to %s (%.1f KB)", s.Accepted, s.Destination, float64(s.Bytes)/1024)
	}
	return fmt.Sprintf("wrote %d categories to %s", s.Accepted, s.Destination)
}

// Run executes one conversion. Wrong-dimension entries are dropped with a
// warning and do not abort the run; extraction and sink errors do.
func Run(ctx context.Context, log *slog.Logger, ex extract.Extractor, sink store.Sink, dim int) (Summary, error) {
	log = log.With("run_id", uuid.NewString())

	raw, err := ex.Extract(ctx)
	if err != nil {
		return Summary{}, err
	}
	log.Info("extracted entries", "count", len(raw))

	table, rejections := embeddings.FilterDim(raw, dim)
	for _, r := range rejections {
		log.Warn("dropping entry with wrong dimension",
			"name", r.Name,
			"got", r.Length,
			"want", dim,
		)
	}

	res, err := sink.Write(ctx, table)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Accepted:    len(table),
		Rejected:    len(rejections),
		Bytes:       res.Bytes,
		Destination: res.Destination,
	}
	log.Info("conversion complete",
		"accepted", summary.Accepted,
		"rejected", summary.Rejected,
		"bytes", summary.Bytes,
		"destination", summary.Destination,
	)
	return summary, nil
}
