package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/daap14/questadmin/internal/apiclient"
	"github.com/daap14/questadmin/internal/config"
)

// ErrNoIdentity is returned when a verify response carries no user.
var ErrNoIdentity = errors.New("verify response has no user")

// Gateway is the remote side of authentication.
type Gateway interface {
	Verify(ctx context.Context) (*Identity, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) (*Result, error)
	ResetPassword(ctx context.Context, otp, newPassword string) (*Result, error)
}

// HTTPGateway implements Gateway against the quiz API.
type HTTPGateway struct {
	client    *apiclient.Client
	endpoints config.Endpoints
}

// NewHTTPGateway creates a Gateway. Credential-bearing calls use the client's
// public pipeline so a stale token is never sent with them.
func NewHTTPGateway(client *apiclient.Client, endpoints config.Endpoints) *HTTPGateway {
	return &HTTPGateway{client: client, endpoints: endpoints}
}

func (g *HTTPGateway) Verify(ctx context.Context) (*Identity, error) {
	var body struct {
		User *Identity `json:"user"`
	}
	if err := g.client.Get(ctx, g.endpoints.VerifyUser, &body); err != nil {
		return nil, fmt.Errorf("verifying session: %w", err)
	}
	if body.User == nil {
		return nil, ErrNoIdentity
	}
	return body.User, nil
}

func (g *HTTPGateway) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := map[string]string{"email": email, "password": password}

	var resp LoginResponse
	if err := g.client.Public().Post(ctx, g.endpoints.Login, req, &resp); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &resp, nil
}

func (g *HTTPGateway) Logout(ctx context.Context) error {
	if err := g.client.Post(ctx, g.endpoints.Logout, nil, nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

func (g *HTTPGateway) ForgotPassword(ctx context.Context, email string) (*Result, error) {
	var resp Result
	if err := g.client.Public().Post(ctx, g.endpoints.ForgotPassword, map[string]string{"email": email}, &resp); err != nil {
		return nil, fmt.Errorf("initiating password reset: %w", err)
	}
	return &resp, nil
}

func (g *HTTPGateway) ResetPassword(ctx context.Context, otp, newPassword string) (*Result, error) {
	req := map[string]string{"otp": otp, "newPassword": newPassword}

	var resp Result
	if err := g.client.Public().Post(ctx, g.endpoints.SetNewPassword, req, &resp); err != nil {
		return nil, fmt.Errorf("setting new password: %w", err)
	}
	return &resp, nil
}
