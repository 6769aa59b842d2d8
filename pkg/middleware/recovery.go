package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JaimeStill/masteryhub/pkg/handlers"
)

// Recover returns middleware that converts a panic in any downstream handler
// into a 500 JSON body naming the failure and the request URL.
// The stack trace goes to the log only.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := NewRecorder(w)
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.Error(
					"unhandled panic",
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", RequestIDFrom(r.Context()),
					"panic", v,
					"stack", string(debug.Stack()),
				)

				if rec.Written() {
					return
				}

				handlers.RespondJSON(rec, http.StatusInternalServerError, handlers.ErrorResponse{
					Error:  "Internal server error",
					Detail: fmt.Sprint(v),
					Path:   handlers.RequestPath(r),
				})
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
