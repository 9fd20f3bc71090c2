package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/questadmin/internal/api/middleware"
	"github.com/daap14/questadmin/internal/api/response"
	"github.com/daap14/questadmin/internal/api/validation"
	"github.com/daap14/questadmin/internal/dashboard"
	"github.com/daap14/questadmin/internal/level"
)

// StatsBoard is the question stats view the console drives.
type StatsBoard interface {
	Select(ctx context.Context, sel dashboard.Selection)
	Unmount()
	State() dashboard.StatsState
	Refresh(ctx context.Context) error
	ReleaseHint(ctx context.Context, questionID, hintID string) error
}

type selectRequest struct {
	LevelID    string                   `json:"levelId"`
	Completion *level.CompletionSummary `json:"completion"`
}

// DashboardHandler handles the live question stats board.
type DashboardHandler struct {
	board StatsBoard
	// base bounds the lifetime of the poll loop, which outlives the request
	// that started it.
	base context.Context
}

// NewDashboardHandler creates a DashboardHandler whose polling stops when
// base is cancelled.
func NewDashboardHandler(base context.Context, board StatsBoard) *DashboardHandler {
	return &DashboardHandler{board: board, base: base}
}

// Select handles PUT /dashboard/level.
func (h *DashboardHandler) Select(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req selectRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}
	req.LevelID = strings.TrimSpace(req.LevelID)

	fieldErrors := validation.ValidateSelectionRequest(validation.SelectionRequest{
		LevelID:       req.LevelID,
		HasCompletion: req.Completion != nil,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	h.board.Select(h.base, dashboard.Selection{LevelID: req.LevelID, Completion: req.Completion})
	response.Success(w, http.StatusOK, h.board.State(), requestID)
}

// Get handles GET /dashboard/level.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	response.Success(w, http.StatusOK, h.board.State(), requestID)
}

// Close handles DELETE /dashboard/level.
func (h *DashboardHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.board.Unmount()
	response.NoContent(w)
}

// Refresh handles POST /dashboard/level/refresh.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if !h.board.State().Mounted {
		response.Err(w, http.StatusConflict, "NO_LEVEL_SELECTED", "Select a level before refreshing", requestID)
		return
	}

	if err := h.board.Refresh(r.Context()); err != nil {
		upstreamErr(w, err, "Failed to fetch question stats", requestID)
		return
	}

	response.Success(w, http.StatusOK, h.board.State(), requestID)
}

// ReleaseHint handles POST /dashboard/questions/{questionId}/hints/{hintId}/release.
func (h *DashboardHandler) ReleaseHint(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	questionID := chi.URLParam(r, "questionId")
	hintID := chi.URLParam(r, "hintId")

	if !h.board.State().Mounted {
		response.Err(w, http.StatusConflict, "NO_LEVEL_SELECTED", "Select a level before releasing hints", requestID)
		return
	}

	if err := h.board.ReleaseHint(r.Context(), questionID, hintID); err != nil {
		upstreamErr(w, err, "Failed to release hint", requestID)
		return
	}

	response.Success(w, http.StatusOK, h.board.State(), requestID)
}
