package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/daap14/questadmin/internal/apiclient"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestID injects a request ID into the context and the response header.
// The same ID is forwarded on every call made to the quiz API while the
// request is served.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		ctx = apiclient.WithRequestID(ctx, id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
