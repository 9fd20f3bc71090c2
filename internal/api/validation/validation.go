// Package validation checks console request bodies before they are forwarded
// to the quiz API.
package validation

import (
	"net/mail"
	"strings"
)

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateLoginRequest validates the fields of a login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError
	errs = append(errs, validateEmail(req.Email)...)
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

// ValidateForgotPasswordRequest validates the email of a forgot password request.
func ValidateForgotPasswordRequest(email string) []FieldError {
	return validateEmail(email)
}

// ResetPasswordRequest mirrors the fields needed for reset validation. Whether
// the two passwords match is decided by the session service, not here.
type ResetPasswordRequest struct {
	OTP             string
	NewPassword     string
	ConfirmPassword string
}

// ValidateResetPasswordRequest validates the fields of a reset password request.
func ValidateResetPasswordRequest(req ResetPasswordRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.OTP) == "" {
		errs = append(errs, FieldError{Field: "otp", Message: "otp is required"})
	}
	if req.NewPassword == "" {
		errs = append(errs, FieldError{Field: "newPassword", Message: "newPassword is required"})
	}
	if req.ConfirmPassword == "" {
		errs = append(errs, FieldError{Field: "confirmPassword", Message: "confirmPassword is required"})
	}

	return errs
}

// SelectionRequest mirrors the fields of a stats board selection.
type SelectionRequest struct {
	LevelID       string
	HasCompletion bool
}

// ValidateSelectionRequest requires either a level id or a completion summary,
// not both.
func ValidateSelectionRequest(req SelectionRequest) []FieldError {
	levelID := strings.TrimSpace(req.LevelID)
	switch {
	case levelID == "" && !req.HasCompletion:
		return []FieldError{{Field: "levelId", Message: "levelId or completion is required"}}
	case levelID != "" && req.HasCompletion:
		return []FieldError{{Field: "completion", Message: "completion must be omitted when levelId is set"}}
	case len(levelID) > 255:
		return []FieldError{{Field: "levelId", Message: "levelId must be at most 255 characters"}}
	}
	return nil
}

func validateEmail(email string) []FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return []FieldError{{Field: "email", Message: "email is required"}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return []FieldError{{Field: "email", Message: "email must be a valid address"}}
	}
	return nil
}
