package content

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/masteryhub/pkg/handlers"
	"github.com/JaimeStill/masteryhub/pkg/routes"
)

// Handler provides HTTP endpoints for one content resource.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// StatusResponse is returned by the resource self-check endpoint.
type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// SimpleStatusResponse is returned by the dependency-free liveness endpoint.
type SimpleStatusResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ProbeResponse is returned by the database round-trip endpoint.
type ProbeResponse struct {
	Message    string `json:"message"`
	TestResult int    `json:"test_result"`
}

// NewHandler creates a Handler for sys.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", sys.Resource().Name),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group for the resource, prefixed by its name.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/" + h.sys.Resource().Name,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "OPTIONS", Pattern: "", Handler: h.Options},
			{Method: "GET", Pattern: "/test", Handler: h.Status},
			{Method: "GET", Pattern: "/simple-test", Handler: h.SimpleStatus},
			{Method: "POST", Pattern: "/test-db", Handler: h.Probe},
			{Method: "GET", Pattern: "/category/{category}", Handler: h.ListByCategory},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns every record, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}

// ListByCategory returns records in the category path parameter.
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	records, err := h.sys.ListByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}

// Create processes a JSON body to create a record. The created record is
// returned with 200.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := handlers.DecodeJSON(w, r, h.maxBodySize, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	record, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, record)
}

// Update processes a JSON body to replace an existing record's fields.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd UpdateCommand
	if err := handlers.DecodeJSON(w, r, h.maxBodySize, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	record, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, record)
}

// Delete removes a record by its id path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondMessage(w, h.sys.Resource().Label+" deleted successfully")
}

// Options answers pre-flight requests on the collection root.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Status reports that the resource routes are mounted.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, StatusResponse{
		Message: h.sys.Resource().Label + " API is working",
		Status:  "ok",
	})
}

// SimpleStatus answers without touching the system.
func (h *Handler) SimpleStatus(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, SimpleStatusResponse{
		Message:   h.sys.Resource().Label + " API is working",
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Probe runs a trivial query through a request-scoped session.
func (h *Handler) Probe(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Ping(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ProbeResponse{
		Message:    "Database connection successful",
		TestResult: result,
	})
}

func parseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ValidationError{
			Field:   "id",
			Message: fmt.Sprintf("invalid id: %q", raw),
		}
	}
	return id, nil
}
