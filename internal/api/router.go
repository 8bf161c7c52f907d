// Package api wires the HTTP surface of the due-diligence server.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/HumbledDS/dd-intelligence-assistant/internal/api/middleware"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler         http.HandlerFunc
	SearchHandler         http.HandlerFunc
	CompanyHandler        http.HandlerFunc
	GenerateReportHandler http.HandlerFunc
	PollReportHandler     http.HandlerFunc
	StreamReportHandler   http.HandlerFunc
	RetrieveChunksHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Get("/api/v1/search", orNotImplemented(deps.SearchHandler))
		r.Get("/api/v1/companies/{siren}", orNotImplemented(deps.CompanyHandler))
		r.Get("/api/v1/companies/{siren}/chunks", orNotImplemented(deps.RetrieveChunksHandler))

		r.Post("/api/v1/reports", orNotImplemented(deps.GenerateReportHandler))
		r.Get("/api/v1/reports/{jobID}", orNotImplemented(deps.PollReportHandler))
		r.Get("/api/v1/reports/{jobID}/stream", orNotImplemented(deps.StreamReportHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
