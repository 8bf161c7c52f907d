package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/api/response"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/cache"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 25
)

// CompanyDirectory looks up companies in the public registry.
type CompanyDirectory interface {
	Search(ctx context.Context, query string, limit int) (json.RawMessage, error)
	Fetch(ctx context.Context, siren string) (json.RawMessage, error)
}

// NewSearchHandler returns the handler for GET /api/v1/search?q=. Results
// are cached under the normalized query.
func NewSearchHandler(directory CompanyDirectory, tiered *cache.Tiered) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "q is required", nil)
			return
		}
		limit := defaultSearchLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = min(n, maxSearchLimit)
			}
		}

		key := cache.SearchKey(query)
		if raw, ok := tiered.Lookup(r.Context(), key); ok {
			response.JSON(w, json.RawMessage(raw))
			return
		}

		results, err := directory.Search(r.Context(), query, limit)
		if err != nil {
			writeCollectorError(w, err)
			return
		}
		tiered.Store(r.Context(), key, results, cache.TTLFor(cache.SourceDinum))
		response.JSON(w, results)
	}
}

// NewCompanyHandler returns the handler for GET /api/v1/companies/{siren}.
func NewCompanyHandler(directory CompanyDirectory, tiered *cache.Tiered) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		siren := chi.URLParam(r, "siren")
		if !ValidSiren(siren) {
			response.Error(w, http.StatusBadRequest, "INVALID_SIREN",
				"siren must be exactly 9 digits", nil)
			return
		}

		key := cache.CompanyKey(siren)
		if raw, ok := tiered.Lookup(r.Context(), key); ok {
			response.JSON(w, json.RawMessage(raw))
			return
		}

		profile, err := directory.Fetch(r.Context(), siren)
		if err != nil {
			writeCollectorError(w, err)
			return
		}
		tiered.Store(r.Context(), key, profile, cache.TTLFor(cache.SourceDinum))
		response.JSON(w, profile)
	}
}

func writeCollectorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, collector.ErrNotFound):
		response.Error(w, http.StatusNotFound, "COMPANY_NOT_FOUND",
			"No company matches the given identifier", nil)
	case errors.Is(err, collector.ErrTimeout):
		response.Error(w, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT",
			"The public registry took too long to answer", nil)
	default:
		response.Error(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE",
			"The public registry is not available", nil)
	}
}
