package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/questadmin/internal/api/middleware"
	"github.com/daap14/questadmin/internal/api/response"
	"github.com/daap14/questadmin/internal/dashboard"
	"github.com/daap14/questadmin/internal/team"
)

// TeamRoster is the team administration view the console drives.
type TeamRoster interface {
	Load(ctx context.Context) error
	Loaded() bool
	Teams() []team.Team
	Block(ctx context.Context, teamID string) error
	Unblock(ctx context.Context, teamID string) error
	LevelUp(ctx context.Context, teamID string, confirm dashboard.Confirmer) (bool, error)
}

type levelUpRequest struct {
	Confirm bool `json:"confirm"`
}

type commandResponse struct {
	Performed bool        `json:"performed"`
	Notices   []string    `json:"notices"`
	Teams     []team.Team `json:"teams"`
}

// TeamHandler handles the team administration endpoints.
type TeamHandler struct {
	roster TeamRoster
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(roster TeamRoster) *TeamHandler {
	return &TeamHandler{roster: roster}
}

// List handles GET /teams. The roster is fetched on first use, and again on
// later calls until a fetch has succeeded.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if !h.roster.Loaded() {
		if err := h.roster.Load(r.Context()); err != nil {
			upstreamErr(w, err, "Failed to load teams", requestID)
			return
		}
	}

	response.Success(w, http.StatusOK, h.roster.Teams(), requestID)
}

// Refresh handles POST /teams/refresh.
func (h *TeamHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.roster.Load(r.Context()); err != nil {
		upstreamErr(w, err, "Failed to load teams", requestID)
		return
	}

	response.Success(w, http.StatusOK, h.roster.Teams(), requestID)
}

// Block handles POST /teams/{teamId}/block.
func (h *TeamHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(ctx context.Context, id string) (bool, error) {
		return true, h.roster.Block(ctx, id)
	})
}

// Unblock handles POST /teams/{teamId}/unblock.
func (h *TeamHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(ctx context.Context, id string) (bool, error) {
		return true, h.roster.Unblock(ctx, id)
	})
}

// LevelUp handles POST /teams/{teamId}/level-up. The body's confirm flag
// answers the confirmation prompt; anything but true declines it.
func (h *TeamHandler) LevelUp(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req levelUpRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req, requestID) {
		return
	}

	confirm := dashboard.ConfirmFunc(func(context.Context, string) bool { return req.Confirm })
	h.command(w, r, func(ctx context.Context, id string) (bool, error) {
		return h.roster.LevelUp(ctx, id, confirm)
	})
}

func (h *TeamHandler) command(w http.ResponseWriter, r *http.Request, run func(ctx context.Context, id string) (bool, error)) {
	requestID := middleware.GetRequestID(r.Context())
	teamID := chi.URLParam(r, "teamId")

	ctx, sink := withNoticeSink(r.Context())
	performed, err := run(ctx, teamID)
	out := commandResponse{
		Performed: performed,
		Notices:   sink.all(),
		Teams:     h.roster.Teams(),
	}

	if err != nil {
		msg := "Request failed"
		if len(out.Notices) > 0 {
			msg = out.Notices[len(out.Notices)-1]
		}
		response.ErrWithDetails(w, http.StatusBadGateway, "UPSTREAM_ERROR", msg, out, requestID)
		return
	}

	response.Success(w, http.StatusOK, out, requestID)
}
