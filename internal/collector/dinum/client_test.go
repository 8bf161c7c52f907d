package dinum_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector/dinum"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_ReturnsFirstResult(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "552032534", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limite"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"siren":"552032534","nom_complet":"DANONE"}]}`))
	})

	c := dinum.NewClient(srv.URL, 5*time.Second)
	payload, err := c.Fetch(context.Background(), "552032534")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "DANONE", got["nom_complet"])
}

func TestFetch_NoResults(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	c := dinum.NewClient(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background(), "999999999")
	assert.ErrorIs(t, err, collector.ErrNotFound)
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := dinum.NewClient(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background(), "552032534")
	assert.ErrorIs(t, err, collector.ErrUnavailable)
}

func TestFetch_MalformedPayload(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": not json`))
	})

	c := dinum.NewClient(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background(), "552032534")
	assert.ErrorIs(t, err, collector.ErrBadPayload)
}

func TestFetch_Timeout(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"results":[]}`))
	})

	c := dinum.NewClient(srv.URL, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Fetch(ctx, "552032534")
	assert.ErrorIs(t, err, collector.ErrTimeout)
}

func TestSearch_ReturnsResultList(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "danone", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("limite"))
		w.Write([]byte(`{"results":[{"siren":"552032534"},{"siren":"542107651"}]}`))
	})

	c := dinum.NewClient(srv.URL, 5*time.Second)
	payload, err := c.Search(context.Background(), "danone", 10)
	require.NoError(t, err)

	var got []json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Len(t, got, 2)
}

func TestCompanyName(t *testing.T) {
	assert.Equal(t, "DANONE", dinum.CompanyName(json.RawMessage(`{"nom_complet":"DANONE"}`), "552032534"))
	assert.Equal(t, "552032534", dinum.CompanyName(json.RawMessage(`{}`), "552032534"))
	assert.Equal(t, "552032534", dinum.CompanyName(json.RawMessage(`not json`), "552032534"))
}
