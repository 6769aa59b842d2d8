package status_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/masteryhub/internal/status"
	"github.com/JaimeStill/masteryhub/pkg/routes"
)

type fakeProber struct {
	count int64
	err   error
	table string
}

func (p *fakeProber) Probe(_ context.Context, table string) (int64, error) {
	p.table = table
	return p.count, p.err
}

type readiness bool

func (r readiness) Ready() bool { return bool(r) }

func newMux(p status.Prober, ready bool) *http.ServeMux {
	h := status.NewHandler(
		p,
		readiness(ready),
		"1.0.0",
		"postgres://user:xxxxx@db:5432/mastery",
		time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func serve(mux *http.ServeMux, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRoot(t *testing.T) {
	rec := serve(newMux(&fakeProber{}, true), "GET", "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"message":"AI Mastery Hub Backend is running","status":"healthy","version":"1.0.0"}`,
		rec.Body.String(),
	)
}

func TestHealthy(t *testing.T) {
	p := &fakeProber{count: 12}
	rec := serve(newMux(p, true), "GET", "/health")

	require.Equal(t, http.StatusOK, rec.Code)

	var body status.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "connected", body.Database)
	require.NotNil(t, body.PromptTableCount)
	assert.Equal(t, int64(12), *body.PromptTableCount)
	assert.Empty(t, body.Error)
	assert.Equal(t, "postgres://user:xxxxx@db:5432/mastery", body.DatabaseURL)
	assert.Equal(t, status.HealthTable, p.table)

	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

func TestUnhealthyStillOK(t *testing.T) {
	rec := serve(newMux(&fakeProber{err: errors.New("connection refused")}, true), "GET", "/health")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "disconnected", body["database"])
	assert.Equal(t, "connection refused", body["error"])
	assert.NotContains(t, body, "prompt_table_count")
}

func TestReadiness(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(newMux(&fakeProber{}, true), "GET", "/readyz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(newMux(&fakeProber{}, false), "GET", "/readyz").Code)
	assert.Equal(t, http.StatusOK, serve(newMux(&fakeProber{}, false), "GET", "/healthz").Code)
}

func TestFallbacks(t *testing.T) {
	mux := newMux(&fakeProber{}, true)

	rec := serve(mux, "OPTIONS", "/anything/here")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"OK"}`, rec.Body.String())

	rec = serve(mux, "GET", "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found","path":"/missing"}`, rec.Body.String())
}
