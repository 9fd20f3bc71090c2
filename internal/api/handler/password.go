package handler

import (
	"net/http"
	"strings"

	"github.com/daap14/questadmin/internal/api/middleware"
	"github.com/daap14/questadmin/internal/api/response"
	"github.com/daap14/questadmin/internal/api/validation"
	"github.com/daap14/questadmin/internal/auth"
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	OTP             string `json:"otp"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// PasswordHandler handles the OTP password recovery steps.
type PasswordHandler struct {
	svc SessionService
}

// NewPasswordHandler creates a new PasswordHandler.
func NewPasswordHandler(svc SessionService) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

// Forgot handles POST /password/forgot.
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req forgotPasswordRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if fieldErrors := validation.ValidateForgotPasswordRequest(req.Email); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	writeResult(w, h.svc.ForgotPassword(r.Context(), req.Email), requestID)
}

// Reset handles POST /password/reset.
func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req resetPasswordRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateResetPasswordRequest(validation.ResetPasswordRequest{
		OTP:             req.OTP,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	writeResult(w, h.svc.ResetPassword(r.Context(), strings.TrimSpace(req.OTP), req.NewPassword, req.ConfirmPassword), requestID)
}

func writeResult(w http.ResponseWriter, res auth.Result, requestID string) {
	if !res.Success {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "RECOVERY_FAILED", res.Message, res, requestID)
		return
	}
	response.Success(w, http.StatusOK, res, requestID)
}
