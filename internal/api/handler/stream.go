package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/api/response"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/jobs"
)

// JobSubscriber attaches an observer to a job's event sequence.
type JobSubscriber interface {
	Subscribe(id uuid.UUID) (<-chan jobs.Event, func(), error)
}

// NewStreamReportHandler returns the SSE handler for
// GET /api/v1/reports/{jobID}/stream. Sections already produced are replayed
// first, then live events, then exactly one status event before the stream
// closes. Client disconnect detaches the observer without touching the job.
func NewStreamReportHandler(store JobSubscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"jobID must be a valid UUID", nil)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			response.Error(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED",
				"Response writer does not support streaming", nil)
			return
		}

		events, cancel, err := store.Subscribe(jobID)
		if err != nil {
			response.Error(w, http.StatusNotFound, "JOB_NOT_FOUND",
				"Unknown or expired job", nil)
			return
		}
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, open := <-events:
				if !open {
					return
				}
				if ev.Terminal {
					fmt.Fprintf(w, "event: status\ndata: {\"status\":%q}\n\n", ev.Status)
					flusher.Flush()
					return
				}
				data, err := json.Marshal(ev.Section)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: section\ndata: %s\n\n", data)
				flusher.Flush()
			}
		}
	}
}
