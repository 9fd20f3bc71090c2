package handler_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daap14/questadmin/internal/auth"
	"github.com/daap14/questadmin/internal/dashboard"
	"github.com/daap14/questadmin/internal/team"
)

type mockSessions struct {
	state auth.State

	loginFn  func(ctx context.Context, email, password string) (*auth.LoginResponse, error)
	forgotFn func(ctx context.Context, email string) auth.Result
	resetFn  func(ctx context.Context, otp, newPassword, confirmPassword string) auth.Result

	logoutCalls int
}

func (m *mockSessions) State() auth.State { return m.state }

func (m *mockSessions) Login(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return &auth.LoginResponse{Success: true}, nil
}

func (m *mockSessions) Logout(context.Context) {
	m.logoutCalls++
	m.state = auth.State{}
}

func (m *mockSessions) ForgotPassword(ctx context.Context, email string) auth.Result {
	if m.forgotFn != nil {
		return m.forgotFn(ctx, email)
	}
	return auth.Result{Success: true}
}

func (m *mockSessions) ResetPassword(ctx context.Context, otp, newPassword, confirmPassword string) auth.Result {
	if m.resetFn != nil {
		return m.resetFn(ctx, otp, newPassword, confirmPassword)
	}
	return auth.Result{Success: true}
}

type mockBoard struct {
	state    dashboard.StatsState
	selected *dashboard.Selection
	selCtx   context.Context
	unmounts int

	refreshFn     func(ctx context.Context) error
	releaseHintFn func(ctx context.Context, questionID, hintID string) error
}

func (m *mockBoard) Select(ctx context.Context, sel dashboard.Selection) {
	m.selected = &sel
	m.selCtx = ctx
	m.state = dashboard.StatsState{LevelID: sel.LevelID, Mounted: true, Loading: sel.LevelID != "", Completion: sel.Completion}
}

func (m *mockBoard) Unmount() {
	m.unmounts++
	m.state = dashboard.StatsState{}
}

func (m *mockBoard) State() dashboard.StatsState { return m.state }

func (m *mockBoard) Refresh(ctx context.Context) error {
	if m.refreshFn != nil {
		return m.refreshFn(ctx)
	}
	return nil
}

func (m *mockBoard) ReleaseHint(ctx context.Context, questionID, hintID string) error {
	if m.releaseHintFn != nil {
		return m.releaseHintFn(ctx, questionID, hintID)
	}
	return nil
}

type mockRoster struct {
	loaded    bool
	teams     []team.Team
	loadCalls int

	loadFn    func(ctx context.Context) error
	blockFn   func(ctx context.Context, id string) error
	unblockFn func(ctx context.Context, id string) error
	levelUpFn func(ctx context.Context, id string, confirm dashboard.Confirmer) (bool, error)
}

func (m *mockRoster) Load(ctx context.Context) error {
	m.loadCalls++
	if m.loadFn != nil {
		if err := m.loadFn(ctx); err != nil {
			return err
		}
	}
	m.loaded = true
	return nil
}

func (m *mockRoster) Loaded() bool       { return m.loaded }
func (m *mockRoster) Teams() []team.Team { return m.teams }

func (m *mockRoster) Block(ctx context.Context, id string) error {
	if m.blockFn != nil {
		return m.blockFn(ctx, id)
	}
	return nil
}

func (m *mockRoster) Unblock(ctx context.Context, id string) error {
	if m.unblockFn != nil {
		return m.unblockFn(ctx, id)
	}
	return nil
}

func (m *mockRoster) LevelUp(ctx context.Context, id string, confirm dashboard.Confirmer) (bool, error) {
	if m.levelUpFn != nil {
		return m.levelUpFn(ctx, id, confirm)
	}
	return confirm.Confirm(ctx, "confirm?"), nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta map[string]string `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}
