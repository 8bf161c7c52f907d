package bodacc_test

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
	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector/bodacc"
)

func TestFetch_UnwrapsRecordFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/catalog/datasets/bodacc-a/records", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("where"), "552032534")
		assert.Equal(t, "dateparution desc", r.URL.Query().Get("order_by"))
		w.Write([]byte(`{"records":[
			{"record":{"fields":{"famille":"modification","dateparution":"2025-11-02"}}},
			{"record":{"fields":{"famille":"immatriculation","dateparution":"2024-03-15"}}}
		]}`))
	}))
	t.Cleanup(srv.Close)

	c := bodacc.NewClient(srv.URL, 5*time.Second)
	payload, err := c.Fetch(context.Background(), "552032534")
	require.NoError(t, err)

	var fields []map[string]any
	require.NoError(t, json.Unmarshal(payload, &fields))
	require.Len(t, fields, 2)
	assert.Equal(t, "modification", fields[0]["famille"])
}

func TestFetch_NoAnnouncements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"records":[]}`))
	}))
	t.Cleanup(srv.Close)

	c := bodacc.NewClient(srv.URL, 5*time.Second)
	payload, err := c.Fetch(context.Background(), "552032534")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage("[]"), payload)
	assert.True(t, collector.EmptyPayload(payload))
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := bodacc.NewClient(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background(), "552032534")
	assert.ErrorIs(t, err, collector.ErrUnavailable)
}
