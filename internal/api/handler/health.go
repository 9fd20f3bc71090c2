package handler

import (
	"net/http"

	"github.com/daap14/questadmin/internal/api/middleware"
	"github.com/daap14/questadmin/internal/api/response"
)

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	sessions middleware.SessionReader
	version  string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(sessions middleware.SessionReader, version string) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
		version:  version,
	}
}

type sessionStatus struct {
	Authenticated bool `json:"authenticated"`
	Loading       bool `json:"loading"`
}

type healthData struct {
	Status  string        `json:"status"`
	Version string        `json:"version"`
	Session sessionStatus `json:"session"`
}

// ServeHTTP handles the health check request. The console is "healthy" once
// an operator is signed in and "degraded" otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	state := h.sessions.State()
	status := "healthy"
	if !state.Authenticated() {
		status = "degraded"
	}

	response.Success(w, http.StatusOK, healthData{
		Status:  status,
		Version: h.version,
		Session: sessionStatus{
			Authenticated: state.Authenticated(),
			Loading:       state.Loading,
		},
	}, requestID)
}
