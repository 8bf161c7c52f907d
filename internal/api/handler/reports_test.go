package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/api/handler"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/jobs"
	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

type fakeSubmitter struct {
	job    models.Job
	cached bool
	err    error

	gotSiren   string
	gotVariant models.Variant
}

func (f *fakeSubmitter) Submit(_ context.Context, siren string, variant models.Variant) (models.Job, bool, error) {
	f.gotSiren = siren
	f.gotVariant = variant
	return f.job, f.cached, f.err
}

func postReport(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestGenerateReport_InvalidJSON(t *testing.T) {
	h := handler.NewGenerateReportHandler(&fakeSubmitter{})
	rec := postReport(t, h, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
}

func TestGenerateReport_InvalidSiren(t *testing.T) {
	h := handler.NewGenerateReportHandler(&fakeSubmitter{})

	for _, siren := range []string{"", "123", "12345678a", "1234567890"} {
		rec := postReport(t, h, `{"siren":"`+siren+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "siren %q", siren)
		assert.Contains(t, rec.Body.String(), "INVALID_SIREN")
	}
}

func TestGenerateReport_InvalidVariant(t *testing.T) {
	h := handler.NewGenerateReportHandler(&fakeSubmitter{})
	rec := postReport(t, h, `{"siren":"552032534","report_type":"exhaustive"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateReport_DefaultsToStandard(t *testing.T) {
	sub := &fakeSubmitter{job: models.Job{ID: uuid.New(), Status: models.JobStatusQueued}}
	h := handler.NewGenerateReportHandler(sub)

	rec := postReport(t, h, `{"siren":"552032534"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "552032534", sub.gotSiren)
	assert.Equal(t, models.VariantStandard, sub.gotVariant)
}

func TestGenerateReport_Accepted(t *testing.T) {
	job := models.Job{ID: uuid.New(), Siren: "552032534", Status: models.JobStatusQueued}
	h := handler.NewGenerateReportHandler(&fakeSubmitter{job: job})

	rec := postReport(t, h, `{"siren":"552032534","report_type":"full"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var body struct {
		Data struct {
			JobID  string `json:"job_id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, job.ID.String(), body.Data.JobID)
	assert.Equal(t, models.JobStatusQueued, body.Data.Status)
}

func TestGenerateReport_CacheHit(t *testing.T) {
	job := models.Job{ID: uuid.New(), Siren: "552032534", Status: models.JobStatusCompleted}
	h := handler.NewGenerateReportHandler(&fakeSubmitter{job: job, cached: true})

	rec := postReport(t, h, `{"siren":"552032534"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Status string     `json:"status"`
			Report models.Job `json:"report"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cache_hit", body.Data.Status)
	assert.Equal(t, job.ID, body.Data.Report.ID)
}

func pollRouter(store *jobs.Store) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/reports/{jobID}", handler.NewPollReportHandler(store))
	return r
}

func TestPollReport_InvalidID(t *testing.T) {
	router := pollRouter(jobs.NewStore(0))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPollReport_NotFound(t *testing.T) {
	router := pollRouter(jobs.NewStore(0))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "JOB_NOT_FOUND")
}

func TestPollReport_ReturnsJob(t *testing.T) {
	store := jobs.NewStore(0)
	job := store.Create("552032534", models.VariantStandard)
	require.NoError(t, store.MarkProcessing(job.ID))
	_, err := store.AppendSection(job.ID, models.SectionIdentity, json.RawMessage(`{"a":1}`), "")
	require.NoError(t, err)

	router := pollRouter(store)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+job.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data models.Job `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, job.ID, body.Data.ID)
	assert.Equal(t, models.JobStatusProcessing, body.Data.Status)
	require.Len(t, body.Data.Sections, 1)
	assert.Equal(t, models.SectionIdentity, body.Data.Sections[0].Kind)
}

func TestValidSiren(t *testing.T) {
	assert.True(t, handler.ValidSiren("552032534"))
	assert.False(t, handler.ValidSiren("55203253"))
	assert.False(t, handler.ValidSiren("5520325340"))
	assert.False(t, handler.ValidSiren("55203253x"))
	assert.False(t, handler.ValidSiren(""))
}
