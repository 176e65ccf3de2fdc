package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	tapHTTP "github.com/aretw0/tap-socrata/internal/adapters/http"
	"github.com/aretw0/tap-socrata/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Healthz(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler := tapHTTP.NewHandler(reg, func() map[string]any {
		return map[string]any{"version": "1.2.3"}
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var status map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "1.2.3", status["version"])
}

func TestHandler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.AddRecords("crimes_ijzp_q8t2", 42)

	srv := httptest.NewServer(tapHTTP.NewHandler(reg, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tap_socrata_records_emitted_total")
	assert.Contains(t, string(body), `stream="crimes_ijzp_q8t2"`)
}
