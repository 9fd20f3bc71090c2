package dashboard_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/daap14/questadmin/internal/level"
	"github.com/daap14/questadmin/internal/team"
)

type mockLevelRepo struct {
	fetchCalls atomic.Int32

	fetchStatsFn  func(ctx context.Context, levelID string) (*level.Snapshot, error)
	releaseHintFn func(ctx context.Context, questionID, hintID string) error
}

func (m *mockLevelRepo) FetchStats(ctx context.Context, levelID string) (*level.Snapshot, error) {
	m.fetchCalls.Add(1)
	if m.fetchStatsFn != nil {
		return m.fetchStatsFn(ctx, levelID)
	}
	return &level.Snapshot{Success: true, QuestionStats: []level.QuestionStats{}}, nil
}

func (m *mockLevelRepo) ReleaseHint(ctx context.Context, questionID, hintID string) error {
	if m.releaseHintFn != nil {
		return m.releaseHintFn(ctx, questionID, hintID)
	}
	return nil
}

type mockTeamRepo struct {
	mu    sync.Mutex
	calls []string

	listFn    func(ctx context.Context) ([]team.Team, error)
	blockFn   func(ctx context.Context, id string) error
	unblockFn func(ctx context.Context, id string) error
	levelUpFn func(ctx context.Context, id string) error
}

func (m *mockTeamRepo) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockTeamRepo) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockTeamRepo) List(ctx context.Context) ([]team.Team, error) {
	m.record("list")
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []team.Team{}, nil
}

func (m *mockTeamRepo) Block(ctx context.Context, id string) error {
	m.record("block " + id)
	if m.blockFn != nil {
		return m.blockFn(ctx, id)
	}
	return nil
}

func (m *mockTeamRepo) Unblock(ctx context.Context, id string) error {
	m.record("unblock " + id)
	if m.unblockFn != nil {
		return m.unblockFn(ctx, id)
	}
	return nil
}

func (m *mockTeamRepo) LevelUp(ctx context.Context, id string) error {
	m.record("level-up " + id)
	if m.levelUpFn != nil {
		return m.levelUpFn(ctx, id)
	}
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (n *recordingNotifier) Notify(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, msg)
}

func (n *recordingNotifier) Notices() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notices...)
}
