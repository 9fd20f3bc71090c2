package auth

// Identity is the authenticated user as reported by the quiz API.
type Identity struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == "admin"
}

// LoginResponse is the raw login body. Callers branch on Success; the session
// service does not interpret it beyond storing Token and User.
type LoginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Token   string    `json:"token,omitempty"`
	User    *Identity `json:"user,omitempty"`
}

// Result is the outcome of a password recovery step. Message is what the user
// should see.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// State is a point-in-time read of the session.
type State struct {
	Identity *Identity `json:"user"`
	Loading  bool      `json:"loading"`
}

// Authenticated reports whether an identity is held.
func (s State) Authenticated() bool {
	return s.Identity != nil
}

// Surface names a screen the session service can send the user to.
type Surface string

const (
	SurfaceLogin         Surface = "login"
	SurfaceResetPassword Surface = "reset-password"
)
