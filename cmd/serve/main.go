// Command serve loads a binary embedding artifact and serves category
// lookup and top-k cosine matching over HTTP. The table is read-only after
// startup, so handlers share it without locking.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"

	"github.com/go-chi/chi/v5"

	"embedpack/internal/app"
	"embedpack/internal/embeddings"
	"embedpack/internal/httputil"
)

type matchRequest struct {
	Vector embeddings.Vector `json:"vector" validate:"required"`
	K      int               `json:"k" validate:"omitempty,min=1,max=100"`
}

type matchResult struct {
	Name  string  `json:"name"`
	Score float32 `json:"score"`
}

func main() {
	var artifactPath string
	if len(os.Args) > 1 {
		artifactPath = os.Args[1]
	}
	deps, err := app.BuildServe(artifactPath)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	r := httputil.NewRouter(deps.Log)

	r.Get("/categories", listHandler(deps))
	r.Get("/categories/{name}", lookupHandler(deps))
	r.Post("/match", matchHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("serve listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func listHandler(deps *app.ServeDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"count":      len(deps.Table),
			"dim":        deps.Codec.Dim,
			"categories": deps.Table.Names(),
		})
	}
}

func lookupHandler(deps *app.ServeDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		entry, ok := deps.Table.Lookup(name)
		if !ok {
			httputil.Fail(deps.Log, w, "unknown category", nil, http.StatusNotFound)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"name":   entry.Name,
			"vector": entry.Vector,
		})
	}
}

func matchHandler(deps *app.ServeDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		if len(req.Vector) != deps.Codec.Dim {
			httputil.Fail(deps.Log, w,
				fmt.Sprintf("vector must have %d values, got %d", deps.Codec.Dim, len(req.Vector)),
				nil, http.StatusBadRequest)
			return
		}
		if req.K == 0 {
			req.K = 5
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"matches": topMatches(deps.Table, req.Vector, req.K),
		})
	}
}

// topMatches ranks categories by normalized cosine score, descending. Ties
// keep table order.
func topMatches(table embeddings.Table, query embeddings.Vector, k int) []matchResult {
	results := make([]matchResult, len(table))
	for i, e := range table {
		results[i] = matchResult{
			Name:  e.Name,
			Score: embeddings.NormalizedScore(query, e.Vector),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results
}
