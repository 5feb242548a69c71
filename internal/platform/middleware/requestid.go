package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"neuroportal/pkg/requestcontext"
)

// RequestIDHeader is the header used to propagate request IDs across hops.
const RequestIDHeader = "X-Request-Id"

// RequestID assigns every request an ID, honoring one supplied by an upstream
// proxy, and echoes it back in the response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
