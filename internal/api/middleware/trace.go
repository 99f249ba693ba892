package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cramhq/cram-api/internal/api/shared"
	"github.com/cramhq/cram-api/internal/platform/logger"
)

// Trace adds a trace ID to the request context and stores a trace-scoped
// logger in the context so downstream log lines correlate with the
// response's trace_id field. Apply it first in the middleware chain.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.With(slog.String("trace_id", traceID))
		ctx = logger.WithContext(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
