package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/maintenance-management/internal/transport"
)

// RecoveryMiddleware turns a panic into an enveloped 500. The panic value and
// stack only reach the log.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				base.Logger.ErrorContext(r.Context(), "panic recovered",
					"error", rec,
					"method", r.Method,
					"url", r.URL.String(),
					"stack", string(debug.Stack()))

				base.WriteError(w, http.StatusInternalServerError, "An internal error occurred")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
