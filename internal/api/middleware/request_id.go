// Package middleware provides HTTP middleware for the pool chemistry API.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDKey is the context key for the request ID.
type requestIDKey struct{}

// maxInboundRequestIDLen caps client-supplied X-Request-Id values. Inbound IDs
// end up in log fields and problem bodies, so oversized ones are replaced.
const maxInboundRequestIDLen = 64

// RequestID attaches a request ID to the request context and echoes it in the
// X-Request-Id response header. A client-supplied X-Request-Id is honored when
// it fits maxInboundRequestIDLen; otherwise a fresh req_-prefixed ID is minted.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" || len(requestID) > maxInboundRequestIDLen {
			requestID = "req_" + uuid.New().String()[:22]
		}

		w.Header().Set("X-Request-Id", requestID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
