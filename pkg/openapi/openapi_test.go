package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/masteryhub/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	cfg := &openapi.Config{
		Title:       "Test API",
		Description: "Records",
		Servers:     []string{"https://hub.example.com", "http://localhost:8000"},
	}
	spec := openapi.NewSpec(cfg, "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" || spec.Info.Description != "Records" {
		t.Errorf("info: got %s / %s", spec.Info.Title, spec.Info.Description)
	}
	if len(spec.Servers) != 2 || spec.Servers[1].URL != "http://localhost:8000" {
		t.Errorf("servers: got %v", spec.Servers)
	}
	if spec.Paths == nil {
		t.Fatal("paths should not be nil")
	}
}

func TestAddTag(t *testing.T) {
	spec := openapi.NewSpec(&openapi.Config{Title: "Test"}, "1.0.0")
	spec.AddTag("Prompt", "first")
	spec.AddTag("Base content", "")
	spec.AddTag("Prompt", "second")

	if len(spec.Tags) != 2 {
		t.Fatalf("tags: got %d, want 2", len(spec.Tags))
	}
	if spec.Tags[0].Description != "first" {
		t.Errorf("duplicate tag replaced description: %s", spec.Tags[0].Description)
	}
}

func TestDefaultComponents(t *testing.T) {
	c := openapi.NewComponents()

	for _, name := range []string{"Error", "Message"} {
		if _, ok := c.Schemas[name]; !ok {
			t.Errorf("missing schema %s", name)
		}
	}
	for _, name := range []string{"BadRequest", "NotFound", "InternalError"} {
		resp, ok := c.Responses[name]
		if !ok {
			t.Errorf("missing response %s", name)
			continue
		}
		if ref := resp.Content["application/json"].Schema.Ref; ref != "#/components/schemas/Error" {
			t.Errorf("%s schema ref: got %s", name, ref)
		}
	}
}

func TestPathParam(t *testing.T) {
	p := openapi.PathParam("id", "integer", "int64", "Record ID")

	if p.In != "path" || !p.Required {
		t.Errorf("path param: got in=%s required=%v", p.In, p.Required)
	}
	if p.Schema.Type != "integer" || p.Schema.Format != "int64" {
		t.Errorf("schema: got %s/%s", p.Schema.Type, p.Schema.Format)
	}
}

func TestResponseJSONArray(t *testing.T) {
	resp := openapi.ResponseJSONArray("Records", "Prompt")

	schema := resp.Content["application/json"].Schema
	if schema.Type != "array" {
		t.Fatalf("type: got %s, want array", schema.Type)
	}
	if schema.Items.Ref != "#/components/schemas/Prompt" {
		t.Errorf("items ref: got %s", schema.Items.Ref)
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec(&openapi.Config{Title: "Test"}, "1.0.0")
	spec.Paths["/prompt"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:   "List prompts",
			Responses: map[int]*openapi.Response{200: openapi.ResponseJSONArray("OK", "Prompt")},
		},
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	paths := decoded["paths"].(map[string]any)
	if _, ok := paths["/prompt"]; !ok {
		t.Error("missing /prompt path")
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	openapi.ServeSpec(data).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("revalidation status: got %d, want 304", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Error("304 response should have no body")
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Custom")

	cfg := openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Title != "Custom" {
		t.Errorf("title: got %s", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description default not applied")
	}
}

func TestConfigServers(t *testing.T) {
	t.Setenv("TEST_OPENAPI_SERVERS", "https://a.example.com, http://b.example.com")

	cfg := openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Servers: "TEST_OPENAPI_SERVERS"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(cfg.Servers) != 2 || cfg.Servers[0] != "https://a.example.com" {
		t.Errorf("servers: got %v", cfg.Servers)
	}

	bad := openapi.Config{Servers: []string{"ftp://files"}}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error for non-http server")
	}
}
