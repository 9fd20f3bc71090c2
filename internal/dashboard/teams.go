package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/daap14/questadmin/internal/apiclient"
	"github.com/daap14/questadmin/internal/team"
)

const (
	levelUpPrompt   = "Are you sure you want to level up this team?"
	levelUpFallback = "Something went wrong."

	noticeBlocked   = "Team blocked successfully!"
	noticeUnblocked = "Team unblocked successfully!"
	noticeLeveledUp = "Team leveled up successfully!"
	noticeBlockErr  = "Failed to block team"
	noticeUnblkErr  = "Failed to unblock team"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Notifier shows the operator a notice they must acknowledge.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

// TeamsView is the team administration roster. It fetches on Load and after
// every successful command; there is no polling.
type TeamsView struct {
	repo     team.Repository
	notifier Notifier

	mu      sync.Mutex
	teams   []team.Team
	loading bool
	loaded  bool
}

// NewTeamsView creates a view that reports outcomes to notifier.
func NewTeamsView(repo team.Repository, notifier Notifier) *TeamsView {
	if notifier == nil {
		notifier = NotifierFunc(func(context.Context, string) {})
	}
	return &TeamsView{repo: repo, notifier: notifier, loading: true}
}

// Load replaces the roster with a fresh copy from the API, sorted by most
// recent completion. On failure the previous roster is kept.
func (v *TeamsView) Load(ctx context.Context) error {
	teams, err := v.repo.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		slog.ErrorContext(ctx, "failed to load teams", "error", err)
		return err
	}

	team.SortByLastCompletion(teams)
	v.teams = teams
	v.loaded = true
	return nil
}

// Teams returns a copy of the current roster.
func (v *TeamsView) Teams() []team.Team {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]team.Team, len(v.teams))
	copy(out, v.teams)
	return out
}

// Loading reports whether the first Load has not settled yet.
func (v *TeamsView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Loaded reports whether any Load has succeeded.
func (v *TeamsView) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

func (v *TeamsView) Block(ctx context.Context, teamID string) error {
	if err := v.repo.Block(ctx, teamID); err != nil {
		slog.ErrorContext(ctx, "failed to block team", "team_id", teamID, "error", err)
		v.notifier.Notify(ctx, apiclient.ServerMessage(err, noticeBlockErr))
		return err
	}
	v.succeeded(ctx, noticeBlocked)
	return nil
}

func (v *TeamsView) Unblock(ctx context.Context, teamID string) error {
	if err := v.repo.Unblock(ctx, teamID); err != nil {
		slog.ErrorContext(ctx, "failed to unblock team", "team_id", teamID, "error", err)
		v.notifier.Notify(ctx, apiclient.ServerMessage(err, noticeUnblkErr))
		return err
	}
	v.succeeded(ctx, noticeUnblocked)
	return nil
}

// LevelUp advances a team one level once confirm agrees. A declined prompt
// sends nothing and returns ok=false with a nil error.
func (v *TeamsView) LevelUp(ctx context.Context, teamID string, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(ctx, levelUpPrompt) {
		return false, nil
	}

	if err := v.repo.LevelUp(ctx, teamID); err != nil {
		slog.ErrorContext(ctx, "failed to level up team", "team_id", teamID, "error", err)
		v.notifier.Notify(ctx, "Error: "+apiclient.ServerMessage(err, levelUpFallback))
		return true, err
	}
	v.succeeded(ctx, noticeLeveledUp)
	return true, nil
}

func (v *TeamsView) succeeded(ctx context.Context, notice string) {
	v.notifier.Notify(ctx, notice)
	// The roster on screen is whatever the server says after the command.
	_ = v.Load(ctx)
}
