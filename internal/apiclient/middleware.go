package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Middleware decorates a RoundTripper. Stages run in the order given to Chain.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain wraps base so that mws[0] sees the request first.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// TokenSource yields the bearer token to attach, or "" for none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Bearer sets the Authorization header from src on every request. A lookup
// failure is logged and the request goes out without the header.
func Bearer(src TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			token, err := src.Token(r.Context())
			if err != nil {
				slog.Warn("reading bearer token failed", "error", err)
			}
			if token != "" {
				r = r.Clone(r.Context())
				r.Header.Set("Authorization", "Bearer "+token)
			}
			return next.RoundTrip(r)
		})
	}
}

type requestIDKey struct{}

// WithRequestID returns a context whose outgoing API requests carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID sets X-Request-ID, reusing the id on the context when present.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			id, _ := r.Context().Value(requestIDKey{}).(string)
			if id == "" {
				id = uuid.New().String()
			}
			r = r.Clone(r.Context())
			r.Header.Set("X-Request-ID", id)
			return next.RoundTrip(r)
		})
	}
}

// Logging logs each request at debug level and transport failures at warn.
func Logging() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"requestId", r.Header.Get("X-Request-ID"),
				"duration", time.Since(start).String(),
			}
			if err != nil {
				slog.Warn("api request failed", append(attrs, "error", err)...)
				return nil, err
			}
			slog.Debug("api request", append(attrs, "status", resp.StatusCode)...)
			return resp, nil
		})
	}
}
