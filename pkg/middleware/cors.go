package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORS returns middleware that applies CORS headers based on the config.
// Passes through without headers when disabled or no origins are configured.
// Pre-flight OPTIONS requests are answered with a bare 200.
func CORS(cfg *CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || len(cfg.Origins) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin != "" && (cfg.AnyOrigin() || slices.Contains(cfg.Origins, origin)) {
				h := w.Header()
				h.Add("Vary", "Origin")

				// credentialed responses may not use the literal wildcard
				if cfg.AnyOrigin() && !cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Origin", Wildcard)
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
				}

				h.Set("Access-Control-Allow-Methods", methods)

				if cfg.AnyHeader() {
					if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
						h.Set("Access-Control-Allow-Headers", requested)
					} else {
						h.Set("Access-Control-Allow-Headers", Wildcard)
					}
				} else {
					h.Set("Access-Control-Allow-Headers", headers)
				}

				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}

				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
