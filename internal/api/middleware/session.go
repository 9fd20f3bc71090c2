package middleware

import (
	"context"
	"net/http"

	"github.com/daap14/questadmin/internal/api/response"
	"github.com/daap14/questadmin/internal/auth"
)

const identityKey contextKey = "identity"

// SessionReader exposes the console's current session.
type SessionReader interface {
	State() auth.State
}

// RequireSession rejects requests with 401 while no operator is signed in,
// and with 503 while the session is still being resolved at startup. The
// signed-in identity is stored on the request context.
func RequireSession(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			state := sessions.State()
			if !state.Authenticated() {
				if state.Loading {
					response.Err(w, http.StatusServiceUnavailable, "SESSION_LOADING", "Session is still being verified", requestID)
					return
				}
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, state.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the signed-in Identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}
