// Package status serves the process banner and liveness, readiness, and
// database health probes outside the API module.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/masteryhub/pkg/handlers"
	"github.com/JaimeStill/masteryhub/pkg/lifecycle"
	"github.com/JaimeStill/masteryhub/pkg/routes"
)

// HealthTable is the table counted by the health check.
const HealthTable = "prompt"

// Prober runs a connectivity check and counts rows in a table.
type Prober interface {
	Probe(ctx context.Context, table string) (int64, error)
}

// Banner is the root response.
type Banner struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health is the /health response. Exactly one of PromptTableCount and
// Error is set.
type Health struct {
	Status           string `json:"status"`
	Database         string `json:"database"`
	PromptTableCount *int64 `json:"prompt_table_count,omitempty"`
	Error            string `json:"error,omitempty"`
	DatabaseURL      string `json:"database_url"`
	Timestamp        string `json:"timestamp"`
}

// Handler serves the status endpoints.
type Handler struct {
	db          Prober
	ready       lifecycle.ReadinessChecker
	version     string
	databaseURL string
	timeout     time.Duration
	logger      *slog.Logger
}

// NewHandler creates a status Handler. databaseURL is shown verbatim in
// health responses and must already be redacted.
func NewHandler(
	db Prober,
	ready lifecycle.ReadinessChecker,
	version string,
	databaseURL string,
	timeout time.Duration,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		db:          db,
		ready:       ready,
		version:     version,
		databaseURL: databaseURL,
		timeout:     timeout,
		logger:      logger.With("handler", "status"),
	}
}

// Routes returns the root-level status routes.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.Root},
			{Method: "GET", Pattern: "/health", Handler: h.Health},
			{Method: "GET", Pattern: "/healthz", Handler: h.Live},
			{Method: "GET", Pattern: "/readyz", Handler: h.Ready},
			{Method: "OPTIONS", Pattern: "/", Handler: h.Options},
			{Method: "", Pattern: "/", Handler: handlers.NotFound},
		},
	}
}

// Root reports that the process is up.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Banner{
		Message: "AI Mastery Hub Backend is running",
		Status:  "healthy",
		Version: h.version,
	})
}

// Health probes the database and always answers 200; the body carries
// the outcome.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp := Health{
		DatabaseURL: h.databaseURL,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	count, err := h.db.Probe(ctx, HealthTable)
	if err != nil {
		h.logger.Warn("health probe failed", "error", err)
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		resp.Error = err.Error()
	} else {
		resp.Status = "healthy"
		resp.Database = "connected"
		resp.PromptTableCount = &count
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Live reports process liveness.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether every subsystem finished startup.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Ready() {
		handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Options answers pre-flight requests for any path outside a module.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	handlers.RespondMessage(w, "OK")
}
