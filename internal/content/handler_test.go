package content_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/masteryhub/internal/content"
	"github.com/JaimeStill/masteryhub/pkg/routes"
)

func newServer(t *testing.T, sys content.System) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(1024).Routes())

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestScenario(t *testing.T) {
	srv := newServer(t, newSystem(t, openDB(t), content.Prompts))
	base := srv.URL + "/prompt"

	resp, body := do(t, "POST", base, `{"title":"T","content":"C"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var created content.Record
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "default", created.Category)

	resp, body = do(t, "POST", base, `{"title":"","content":"C"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Title is required"}`, string(body))

	resp, body = do(t, "PUT", base+"/1", `{"title":"T2","content":"C2","category":"x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated content.Record
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "T2", updated.Title)

	resp, body = do(t, "DELETE", base+"/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Prompt deleted successfully"}`, string(body))

	resp, body = do(t, "GET", base+"/category/x", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, body = do(t, "GET", base, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestDiagnostics(t *testing.T) {
	srv := newServer(t, newSystem(t, openDB(t), content.BaseContents))
	base := srv.URL + "/base-content"

	resp, body := do(t, "GET", base+"/test", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Base content API is working","status":"ok"}`, string(body))

	resp, body = do(t, "GET", base+"/simple-test", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var simple content.SimpleStatusResponse
	require.NoError(t, json.Unmarshal(body, &simple))
	assert.Equal(t, "Base content API is working", simple.Message)
	assert.Equal(t, "ok", simple.Status)
	_, err := time.Parse(time.RFC3339, simple.Timestamp)
	assert.NoError(t, err)

	resp, body = do(t, "POST", base+"/test-db", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Database connection successful","test_result":1}`, string(body))

	resp, body = do(t, "OPTIONS", base, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
}

// stubSystem returns fixed errors so status mapping can be checked in isolation.
type stubSystem struct {
	content.System
	err error
}

func (s stubSystem) Resource() content.Resource { return content.Prompts }

func (s stubSystem) Handler(max int64) *content.Handler {
	return content.NewHandler(s, discardLogger(), max)
}

func (s stubSystem) List(context.Context) ([]content.Record, error) { return nil, s.err }

func (s stubSystem) Update(context.Context, int64, content.UpdateCommand) (*content.Record, error) {
	return nil, s.err
}

func (s stubSystem) Delete(context.Context, int64) error { return s.err }

func (s stubSystem) Ping(context.Context) (int, error) { return 0, s.err }

func TestErrorStatus(t *testing.T) {
	persistence := &content.PersistenceError{Op: "get prompts", Err: errors.New("connection refused")}
	notFound := &content.NotFoundError{Label: "Prompt", ID: 7}

	tests := []struct {
		name   string
		err    error
		method string
		path   string
		body   string
		status int
		detail string
	}{
		{"list failure", persistence, "GET", "/prompt", "", 500, "Failed to get prompts: connection refused"},
		{"update missing", notFound, "PUT", "/prompt/7", `{"title":"a","content":"b","category":"c"}`, 404, "Prompt not found"},
		{"delete missing", notFound, "DELETE", "/prompt/7", "", 404, "Prompt not found"},
		{"delete bad id", nil, "DELETE", "/prompt/abc", "", 400, `invalid id: "abc"`},
		{"update bad body", nil, "PUT", "/prompt/1", `{"title":`, 400, ""},
		{"probe failure", persistence, "POST", "/prompt/test-db", "", 500, "Failed to get prompts: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, stubSystem{err: tt.err})

			resp, body := do(t, tt.method, srv.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var got map[string]string
			require.NoError(t, json.Unmarshal(body, &got))
			if tt.detail != "" {
				assert.Equal(t, tt.detail, got["detail"])
			} else {
				assert.NotEmpty(t, got["detail"])
			}
		})
	}
}

func TestOversizedBody(t *testing.T) {
	srv := newServer(t, newSystem(t, openDB(t), content.Prompts))

	body := `{"title":"T","content":"` + strings.Repeat("x", 2048) + `"}`
	resp, _ := do(t, "POST", srv.URL+"/prompt", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, content.MapHTTPStatus(&content.ValidationError{Message: "x"}))
	assert.Equal(t, http.StatusNotFound, content.MapHTTPStatus(&content.NotFoundError{Label: "Prompt"}))
	assert.Equal(t, http.StatusInternalServerError, content.MapHTTPStatus(&content.PersistenceError{Op: "x", Err: errors.New("y")}))
	assert.Equal(t, http.StatusInternalServerError, content.MapHTTPStatus(errors.New("other")))
}
