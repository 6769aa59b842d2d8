package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/JaimeStill/masteryhub/pkg/handlers"
)

// RateLimit returns middleware enforcing a process-wide token bucket.
// Requests over the limit receive 429. A disabled config passes through.
func RateLimit(cfg *RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.Warn("rate limit exceeded", "method", r.Method, "path", r.URL.Path)
				handlers.RespondJSON(w, http.StatusTooManyRequests, handlers.ErrorResponse{
					Detail: "rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
