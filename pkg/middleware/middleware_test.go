package middleware_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/masteryhub/pkg/handlers"
	"github.com/JaimeStill/masteryhub/pkg/middleware"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	for _, name := range []string{"first", "second"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		cfg         middleware.CORSConfig
		method      string
		origin      string
		reqHeaders  string
		wantOrigin  string
		wantHeaders string
		wantCreds   string
		wantStatus  int
	}{
		{
			name:       "disabled",
			cfg:        middleware.CORSConfig{Enabled: false, Origins: []string{"*"}},
			method:     "GET",
			origin:     "http://example.com",
			wantStatus: http.StatusOK,
		},
		{
			name: "listed origin",
			cfg: middleware.CORSConfig{
				Enabled:        true,
				Origins:        []string{"http://example.com"},
				AllowedMethods: []string{"GET", "POST"},
				AllowedHeaders: []string{"Content-Type"},
			},
			method:      "GET",
			origin:      "http://example.com",
			wantOrigin:  "http://example.com",
			wantHeaders: "Content-Type",
			wantStatus:  http.StatusOK,
		},
		{
			name:       "unlisted origin",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: []string{"http://allowed.com"}},
			method:     "GET",
			origin:     "http://denied.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "wildcard without credentials",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: []string{"*"}},
			method:     "GET",
			origin:     "http://any.com",
			wantOrigin: "*",
			wantStatus: http.StatusOK,
		},
		{
			name: "wildcard with credentials echoes origin",
			cfg: middleware.CORSConfig{
				Enabled:          true,
				Origins:          []string{"*"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: true,
			},
			method:      "OPTIONS",
			origin:      "http://localhost:3000",
			reqHeaders:  "Content-Type, X-Custom",
			wantOrigin:  "http://localhost:3000",
			wantHeaders: "Content-Type, X-Custom",
			wantCreds:   "true",
			wantStatus:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			require.NoError(t, cfg.Finalize(nil))

			var called bool
			handler := middleware.CORS(&cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.reqHeaders != "" {
				req.Header.Set("Access-Control-Request-Headers", tt.reqHeaders)
			}
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantHeaders != "" {
				assert.Equal(t, tt.wantHeaders, rec.Header().Get("Access-Control-Allow-Headers"))
			}
			assert.Equal(t, tt.wantCreds, rec.Header().Get("Access-Control-Allow-Credentials"))

			if tt.method == "OPTIONS" && cfg.Enabled {
				assert.False(t, called, "preflight should not reach the handler")
				assert.Empty(t, rec.Body.String())
			}
		})
	}
}

func TestCORSConfigFinalizeDefaults(t *testing.T) {
	cfg := middleware.CORSConfig{}
	require.NoError(t, cfg.Finalize(nil))

	assert.Len(t, cfg.AllowedMethods, 5)
	assert.Len(t, cfg.AllowedHeaders, 2)
	assert.Equal(t, 3600, cfg.MaxAge)
}

func TestCORSConfigFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a.com, http://b.com")
	t.Setenv("TEST_CORS_CREDS", "true")

	cfg := middleware.CORSConfig{}
	require.NoError(t, cfg.Finalize(&middleware.CORSEnv{
		Enabled:          "TEST_CORS_ENABLED",
		Origins:          "TEST_CORS_ORIGINS",
		AllowCredentials: "TEST_CORS_CREDS",
	}))

	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.Origins)
	assert.True(t, cfg.AllowCredentials)
	assert.False(t, cfg.WildcardWithCredentials())
}

func TestCORSConfigMerge(t *testing.T) {
	base := middleware.CORSConfig{
		Origins:        []string{"http://base.com"},
		AllowedMethods: []string{"GET"},
		MaxAge:         3600,
	}

	base.Merge(&middleware.CORSConfig{
		Enabled:          true,
		Origins:          []string{"*"},
		AllowCredentials: true,
		MaxAge:           7200,
	})

	assert.True(t, base.Enabled)
	assert.Equal(t, []string{"*"}, base.Origins)
	assert.Equal(t, []string{"GET"}, base.AllowedMethods)
	assert.Equal(t, 7200, base.MaxAge)
	assert.True(t, base.WildcardWithCredentials())
}

func TestLogger(t *testing.T) {
	var called bool
	handler := middleware.Logger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFrom(r.Context())
	}))

	t.Run("assigns new id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
	})
}

func TestRecover(t *testing.T) {
	handler := middleware.Recover(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("session factory exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/prompt?x=1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Error)
	assert.Equal(t, "session factory exploded", body.Detail)
	assert.Equal(t, "/api/prompt?x=1", body.Path)
}

func TestRecoverPassThrough(t *testing.T) {
	handler := middleware.Recover(discardLogger())(okHandler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	t.Run("disabled passes through", func(t *testing.T) {
		handler := middleware.RateLimit(&middleware.RateLimitConfig{}, discardLogger())(okHandler)
		for range 5 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("rejects beyond burst", func(t *testing.T) {
		cfg := &middleware.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}
		require.NoError(t, cfg.Finalize(nil))
		handler := middleware.RateLimit(cfg, discardLogger())(okHandler)

		codes := make([]int, 0, 3)
		for range 3 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})
}

func TestRateLimitConfigFinalize(t *testing.T) {
	t.Setenv("TEST_RPS", "10")

	cfg := middleware.RateLimitConfig{}
	require.NoError(t, cfg.Finalize(&middleware.RateLimitEnv{RequestsPerSecond: "TEST_RPS"}))

	assert.True(t, cfg.Enabled())
	assert.Equal(t, 10, cfg.Burst)
}
