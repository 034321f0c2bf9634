package middleware

import (
	"net/http"

	"github.com/campusworks/complaint-management/pkg/logger"

	"github.com/google/uuid"
)

// RequestID tags every request with a trace id so the activity trail in the
// logs can be stitched back together per request. Clients may supply their
// own via X-Request-ID; otherwise one is minted.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "request_id", requestID)

		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
