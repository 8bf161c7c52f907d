package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/api/response"
	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

const maxTopK = 20

// ChunkRetriever answers similarity queries against a company's stored
// report chunks.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, siren, query string, k int) ([]models.ScoredChunk, error)
}

// NewRetrieveChunksHandler returns the handler for
// GET /api/v1/reports/{siren}/chunks?q=&k=. A company with no stored report
// yields 404 so callers can prompt for generation first.
func NewRetrieveChunksHandler(retriever ChunkRetriever) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		siren := chi.URLParam(r, "siren")
		if !ValidSiren(siren) {
			response.Error(w, http.StatusBadRequest, "INVALID_SIREN",
				"siren must be exactly 9 digits", nil)
			return
		}
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "q is required", nil)
			return
		}
		k := 0
		if v := r.URL.Query().Get("k"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"k must be a positive integer", nil)
				return
			}
			k = min(n, maxTopK)
		}

		chunks, err := retriever.Retrieve(r.Context(), siren, query, k)
		if err != nil {
			response.Error(w, http.StatusBadGateway, "RETRIEVAL_FAILED",
				"Could not search the report index", nil)
			return
		}
		if len(chunks) == 0 {
			response.Error(w, http.StatusNotFound, "NO_REPORT",
				"No report has been generated for this company yet", nil)
			return
		}
		response.JSON(w, chunks)
	}
}
