package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/masteryhub/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func sampleGroup() routes.Group {
	return routes.Group{
		Prefix: "/prompt",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok},
			{Method: "PUT", Pattern: "/{id}", Handler: ok},
		},
		Children: []routes.Group{
			{
				Prefix: "/category",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{category}", Handler: ok},
				},
			},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, sampleGroup())

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list", "GET", "/prompt", http.StatusOK},
		{"update", "PUT", "/prompt/1", http.StatusOK},
		{"child group", "GET", "/prompt/category/x", http.StatusOK},
		{"wrong method", "DELETE", "/prompt/1", http.StatusMethodNotAllowed},
		{"unknown path", "GET", "/other", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRegisterWithWrapper(t *testing.T) {
	var seen []string
	wrap := func(pattern string, h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, pattern)
			h(w, r)
		}
	}

	mux := http.NewServeMux()
	routes.RegisterWith(mux, wrap, sampleGroup())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("PUT", "/prompt/7", nil))

	assert.Equal(t, []string{"PUT /prompt/{id}"}, seen)
}

func TestPatterns(t *testing.T) {
	assert.Equal(t,
		[]string{"GET /prompt", "PUT /prompt/{id}", "GET /prompt/category/{category}"},
		sampleGroup().Patterns(),
	)
}
