package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWebServerDefaultPort(t *testing.T) {
	ws := NewWebServer("")
	assert.Equal(t, "8080", ws.port)

	ws = NewWebServer("9090")
	assert.Equal(t, "9090", ws.port)
}

func TestHealthDegradedWithoutDatabase(t *testing.T) {
	ws := NewWebServer("8080")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ws.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "DEGRADED", body["status"])
}

func TestRunsEndpointErrorsWithoutDatabase(t *testing.T) {
	ws := NewWebServer("8080")

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	ws.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["error"])
}

func TestRunEndpointRejectsBadNumber(t *testing.T) {
	ws := NewWebServer("8080")

	req := httptest.NewRequest(http.MethodGet, "/api/runs/not-a-number", nil)
	rec := httptest.NewRecorder()
	ws.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
