package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/daap14/questadmin/internal/apiclient"
	"github.com/daap14/questadmin/internal/credential"
	"github.com/daap14/questadmin/internal/storage"
)

const (
	genericFailure   = "An error occurred"
	passwordMismatch = "Passwords do not match"
)

// Navigator receives the session service's navigation requests.
type Navigator interface {
	Navigate(ctx context.Context, to Surface)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, to Surface)

func (f NavigatorFunc) Navigate(ctx context.Context, to Surface) { f(ctx, to) }

// Service owns the session: the current identity, the loading flag, and the
// durable token and signup email. It is constructed once per process and
// shared by reference.
type Service struct {
	gateway Gateway
	store   storage.Store
	nav     Navigator
	now     func() time.Time

	mu       sync.RWMutex
	identity *Identity
	loading  bool
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service. The session starts unresolved (loading, no
// identity) until CheckAuth runs. A nil nav discards navigation requests.
func NewService(gateway Gateway, store storage.Store, nav Navigator, opts ...ServiceOption) *Service {
	if nav == nil {
		nav = NavigatorFunc(func(context.Context, Surface) {})
	}
	s := &Service{
		gateway: gateway,
		store:   store,
		nav:     nav,
		now:     time.Now,
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current identity and loading flag.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Identity: s.identity, Loading: s.loading}
}

// Identity returns the current identity or nil.
func (s *Service) Identity() *Identity {
	return s.State().Identity
}

// Token returns the stored bearer token, or "" when none is stored. It is the
// TokenSource for the authenticated API pipeline.
func (s *Service) Token(ctx context.Context) (string, error) {
	return storage.Lookup(ctx, s.store, storage.TokenKey)
}

// CheckAuth resolves the stored session. A missing, malformed or expired token
// is discarded without contacting the API; otherwise the API verifies it.
func (s *Service) CheckAuth(ctx context.Context) {
	defer s.setLoading(false)

	token, err := s.Token(ctx)
	if err != nil {
		slog.Error("reading stored token failed", "error", err)
		s.setIdentity(nil)
		return
	}

	if credential.Expired(token, s.now()) {
		if token != "" {
			slog.Info("stored token expired or malformed, discarding")
		}
		if err := s.store.Delete(ctx, storage.TokenKey); err != nil {
			slog.Error("deleting stored token failed", "error", err)
		}
		s.setIdentity(nil)
		return
	}

	identity, err := s.gateway.Verify(ctx)
	if err != nil {
		slog.Warn("session verification failed", "error", err)
		s.setIdentity(nil)
		return
	}

	slog.Info("session verified", "user", identity.Email)
	s.setIdentity(identity)
}

// Login sends credentials and, when the API returns a token, persists it and
// adopts the returned identity. The raw response is returned for the caller
// to branch on Success.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if resp.Token != "" {
		if err := s.store.Set(ctx, storage.TokenKey, resp.Token); err != nil {
			return nil, fmt.Errorf("storing token: %w", err)
		}
	}

	s.setIdentity(resp.User)
	return resp, nil
}

// Logout tells the API (best effort), then always tears down the local session
// and navigates to the login surface.
func (s *Service) Logout(ctx context.Context) {
	if err := s.gateway.Logout(ctx); err != nil {
		slog.Error("remote logout failed", "error", err)
	}

	for _, key := range []string{storage.TokenKey, storage.EmailKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Error("clearing stored value failed", "key", key, "error", err)
		}
	}

	s.setIdentity(nil)
	s.nav.Navigate(ctx, SurfaceLogin)
}

// ForgotPassword starts the OTP reset flow for email. On success the user is
// sent to the reset surface.
func (s *Service) ForgotPassword(ctx context.Context, email string) Result {
	resp, err := s.gateway.ForgotPassword(ctx, email)
	if err != nil {
		slog.Error("initiating password reset failed", "error", err)
		return Result{Message: apiclient.ServerMessage(err, genericFailure)}
	}

	if !resp.Success {
		slog.Warn("password reset not initiated", "message", resp.Message)
		return failed(resp)
	}

	s.nav.Navigate(ctx, SurfaceResetPassword)
	return *resp
}

// ResetPassword submits the OTP and new password. Mismatched passwords are
// rejected locally without a request. On success the user is sent to login.
func (s *Service) ResetPassword(ctx context.Context, otp, newPassword, confirmPassword string) Result {
	if newPassword != confirmPassword {
		return Result{Message: passwordMismatch}
	}

	resp, err := s.gateway.ResetPassword(ctx, otp, newPassword)
	if err != nil {
		slog.Error("setting new password failed", "error", err)
		return Result{Message: apiclient.ServerMessage(err, genericFailure)}
	}

	if !resp.Success {
		slog.Warn("new password rejected", "message", resp.Message)
		return failed(resp)
	}

	s.nav.Navigate(ctx, SurfaceLogin)
	return *resp
}

// failed normalizes an unsuccessful recovery response so it always carries a
// message to show.
func failed(resp *Result) Result {
	out := *resp
	if out.Message == "" {
		out.Message = genericFailure
	}
	return out
}

func (s *Service) setIdentity(id *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}
