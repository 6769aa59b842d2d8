// Package routes declares HTTP route groups and registers them on a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
// An empty Method matches every method.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Wrapper decorates a route handler. It receives the full mux pattern,
// e.g. "PUT /prompt/{id}", so it can label instrumentation by route.
type Wrapper func(pattern string, handler http.HandlerFunc) http.HandlerFunc

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	RegisterWith(mux, nil, groups...)
}

// RegisterWith adds all routes from the given groups to the mux,
// passing each handler through wrap when it is non-nil.
func RegisterWith(mux *http.ServeMux, wrap Wrapper, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, wrap, "", group)
	}
}

// Patterns returns the mux patterns the group registers, in declaration order.
func (g Group) Patterns() []string {
	var out []string
	g.walk("", func(pattern string, _ Route) {
		out = append(out, pattern)
	})
	return out
}

func (g Group) walk(parentPrefix string, fn func(pattern string, route Route)) {
	fullPrefix := parentPrefix + g.Prefix
	for _, route := range g.Routes {
		pattern := fullPrefix + route.Pattern
		if route.Method != "" {
			pattern = route.Method + " " + pattern
		}
		fn(pattern, route)
	}
	for _, child := range g.Children {
		child.walk(fullPrefix, fn)
	}
}

func registerGroup(mux *http.ServeMux, wrap Wrapper, parentPrefix string, group Group) {
	group.walk(parentPrefix, func(pattern string, route Route) {
		handler := route.Handler
		if wrap != nil {
			handler = wrap(pattern, handler)
		}
		mux.HandleFunc(pattern, handler)
	})
}
