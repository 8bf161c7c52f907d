// Package handler contains the HTTP handlers for the due-diligence API.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/api/response"
	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

// ReportSubmitter starts report generation. cached is true when the report
// was served from the cache without running the pipeline.
type ReportSubmitter interface {
	Submit(ctx context.Context, siren string, variant models.Variant) (job models.Job, cached bool, err error)
}

// JobReader reads job state by ID.
type JobReader interface {
	Get(id uuid.UUID) (models.Job, bool)
}

// NewGenerateReportHandler returns the handler for POST /api/v1/reports.
func NewGenerateReportHandler(svc ReportSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Siren      string `json:"siren"`
			ReportType string `json:"report_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if !ValidSiren(req.Siren) {
			response.Error(w, http.StatusBadRequest, "INVALID_SIREN",
				"siren must be exactly 9 digits", nil)
			return
		}

		variant := models.Variant(req.ReportType)
		if req.ReportType == "" {
			variant = models.VariantStandard
		}
		if !models.ValidVariant(variant) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"report_type must be one of quick, standard, full", nil)
			return
		}

		job, cached, err := svc.Submit(r.Context(), req.Siren, variant)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		if cached {
			response.JSON(w, map[string]any{
				"status": "cache_hit",
				"report": job,
			})
			return
		}
		response.Accepted(w, map[string]any{
			"job_id": job.ID,
			"status": job.Status,
		})
	}
}

// NewPollReportHandler returns the handler for GET /api/v1/reports/{jobID}.
func NewPollReportHandler(store JobReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"jobID must be a valid UUID", nil)
			return
		}

		job, ok := store.Get(jobID)
		if !ok {
			response.Error(w, http.StatusNotFound, "JOB_NOT_FOUND",
				"Unknown or expired job", nil)
			return
		}
		response.JSON(w, job)
	}
}

// ValidSiren reports whether s is a well-formed SIREN: exactly nine digits.
func ValidSiren(s string) bool {
	if len(s) != 9 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
