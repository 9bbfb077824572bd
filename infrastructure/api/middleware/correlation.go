package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/helixml/newsdesk/internal/log"
)

// CorrelationIDHeader propagates a correlation ID across services.
const CorrelationIDHeader = "X-Correlation-ID"

// Correlation stores the correlation and request IDs in the request
// context. The correlation ID comes from the incoming header and falls
// back to the chi request ID. It is echoed on the response.
func Correlation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := middleware.GetReqID(ctx)

		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = requestID
		}

		if requestID != "" {
			ctx = log.WithRequestID(ctx, requestID)
		}
		if correlationID != "" {
			ctx = log.WithCorrelationID(ctx, correlationID)
			w.Header().Set(CorrelationIDHeader, correlationID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
