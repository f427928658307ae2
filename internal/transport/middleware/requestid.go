package middleware

import (
	"net/http"

	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/frahmantamala/maintenance-management/pkg/logger"
)

const TraceHeader = "X-Trace-ID"

// RequestID reuses the caller's trace id or mints one, echoes it back and
// binds it to the request logger. Run it after chi's RequestID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		fields := []any{"traceID", traceID}
		if reqID := chiMiddleware.GetReqID(r.Context()); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		ctx := logger.With(r.Context(), fields...)

		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
