package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/daap14/questadmin/internal/api/middleware"
	"github.com/daap14/questadmin/internal/api/response"
	"github.com/daap14/questadmin/internal/api/validation"
	"github.com/daap14/questadmin/internal/apiclient"
	"github.com/daap14/questadmin/internal/auth"
)

// SessionService is the part of auth.Service the console drives.
type SessionService interface {
	State() auth.State
	Login(ctx context.Context, email, password string) (*auth.LoginResponse, error)
	Logout(ctx context.Context)
	ForgotPassword(ctx context.Context, email string) auth.Result
	ResetPassword(ctx context.Context, otp, newPassword, confirmPassword string) auth.Result
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool           `json:"authenticated"`
	Loading       bool           `json:"loading"`
	Admin         bool           `json:"admin"`
	User          *auth.Identity `json:"user"`
	Message       string         `json:"message,omitempty"`
}

func toSessionResponse(state auth.State) sessionResponse {
	return sessionResponse{
		Authenticated: state.Authenticated(),
		Loading:       state.Loading,
		Admin:         state.Identity.IsAdmin(),
		User:          state.Identity,
	}
}

// SessionHandler handles sign in and sign out.
type SessionHandler struct {
	svc SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Get handles GET /session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	response.Success(w, http.StatusOK, toSessionResponse(h.svc.State()), requestID)
}

// Login handles POST /session/login. The token returned by the quiz API is
// kept by the session service and never echoed back.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req loginRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	resp, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var se *apiclient.StatusError
		if errors.As(err, &se) && se.StatusCode < 500 {
			response.Err(w, http.StatusUnauthorized, "LOGIN_FAILED", apiclient.ServerMessage(err, "Login failed"), requestID)
			return
		}
		slog.Error("login request failed", "error", err, "request_id", requestID)
		upstreamErr(w, err, "Login failed", requestID)
		return
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Login failed"
		}
		response.Err(w, http.StatusUnauthorized, "LOGIN_FAILED", msg, requestID)
		return
	}

	out := toSessionResponse(h.svc.State())
	out.Message = resp.Message
	response.Success(w, http.StatusOK, out, requestID)
}

// Logout handles POST /session/logout. It always succeeds locally.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.svc.Logout(r.Context())
	response.NoContent(w)
}
