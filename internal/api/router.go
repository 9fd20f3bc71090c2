package api

import (
	"context"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/questadmin/internal/api/handler"
	"github.com/daap14/questadmin/internal/api/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	// Base bounds background work started by requests, such as stats polling.
	Base     context.Context
	Sessions handler.SessionService
	Board    handler.StatsBoard
	Roster   handler.TeamRoster
	Version  string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	if deps.Base == nil {
		deps.Base = context.Background()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.Sessions, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	r.Route("/session", func(r chi.Router) {
		r.Get("/", sessionHandler.Get)
		r.Post("/login", sessionHandler.Login)
		r.Post("/logout", sessionHandler.Logout)
	})

	passwordHandler := handler.NewPasswordHandler(deps.Sessions)
	r.Route("/password", func(r chi.Router) {
		r.Post("/forgot", passwordHandler.Forgot)
		r.Post("/reset", passwordHandler.Reset)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(deps.Sessions))

		if deps.Board != nil {
			dashHandler := handler.NewDashboardHandler(deps.Base, deps.Board)
			r.Route("/dashboard", func(r chi.Router) {
				r.Put("/level", dashHandler.Select)
				r.Get("/level", dashHandler.Get)
				r.Delete("/level", dashHandler.Close)
				r.Post("/level/refresh", dashHandler.Refresh)
				r.Post("/questions/{questionId}/hints/{hintId}/release", dashHandler.ReleaseHint)
			})
		}

		if deps.Roster != nil {
			teamHandler := handler.NewTeamHandler(deps.Roster)
			r.Route("/teams", func(r chi.Router) {
				r.Get("/", teamHandler.List)
				r.Post("/refresh", teamHandler.Refresh)
				r.Post("/{teamId}/block", teamHandler.Block)
				r.Post("/{teamId}/unblock", teamHandler.Unblock)
				r.Post("/{teamId}/level-up", teamHandler.LevelUp)
			})
		}
	})

	return r
}
