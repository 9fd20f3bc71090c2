package dashboard_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/questadmin/internal/dashboard"
	"github.com/daap14/questadmin/internal/level"
)

func snapshotFor(levelNumber int) *level.Snapshot {
	return &level.Snapshot{
		Success:     true,
		LevelNumber: levelNumber,
		QuestionStats: []level.QuestionStats{
			{
				QuestionID: "q1",
				Title:      "Orbit",
				Hints:      []level.Hint{{ID: "h1", Text: "look up"}, {ID: "h2", Text: "think"}},
			},
			{
				QuestionID: "q2",
				Title:      "Gravity",
				Hints:      []level.Hint{{ID: "h3", Text: "fall"}},
			},
		},
	}
}

func TestSelect_CompletionLevelDoesNoNetwork(t *testing.T) {
	repo := &mockLevelRepo{}
	view := dashboard.NewQuestionStatsView(repo, 10*time.Millisecond)
	t.Cleanup(view.Unmount)

	summary := &level.CompletionSummary{TotalTeams: 1, TeamNames: []level.TeamRef{{TeamID: "t1", TeamName: "Apollo"}}}
	view.Select(context.Background(), dashboard.Selection{Completion: summary})

	state := view.State()
	assert.False(t, state.Loading)
	assert.True(t, state.Mounted)
	assert.Equal(t, summary, state.Completion)
	assert.Nil(t, state.Snapshot)
	if assert.Len(t, state.Ranking, 1) {
		assert.Equal(t, 1, state.Ranking[0].Rank)
		assert.Equal(t, "Apollo", state.Ranking[0].TeamName)
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), repo.fetchCalls.Load())
}

func TestSelect_FetchesOnMountAndPolls(t *testing.T) {
	repo := &mockLevelRepo{
		fetchStatsFn: func(_ context.Context, levelID string) (*level.Snapshot, error) {
			assert.Equal(t, "lvl-2", levelID)
			return snapshotFor(2), nil
		},
	}
	view := dashboard.NewQuestionStatsView(repo, 10*time.Millisecond)
	t.Cleanup(view.Unmount)

	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-2"})

	assert.Eventually(t, func() bool { return view.State().Snapshot != nil }, time.Second, 5*time.Millisecond)
	assert.False(t, view.State().Loading)
	assert.Eventually(t, func() bool { return repo.fetchCalls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestSelect_LoadingUntilFirstFetchSettles(t *testing.T) {
	release := make(chan struct{})
	repo := &mockLevelRepo{
		fetchStatsFn: func(ctx context.Context, _ string) (*level.Snapshot, error) {
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return snapshotFor(1), nil
		},
	}
	view := dashboard.NewQuestionStatsView(repo, time.Hour)
	t.Cleanup(view.Unmount)

	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-1"})
	assert.True(t, view.State().Loading)

	close(release)
	assert.Eventually(t, func() bool { return !view.State().Loading }, time.Second, 5*time.Millisecond)
}

func TestFetchFailure_KeepsPriorSnapshot(t *testing.T) {
	var calls int
	repo := &mockLevelRepo{
		fetchStatsFn: func(context.Context, string) (*level.Snapshot, error) {
			calls++
			if calls == 1 {
				return snapshotFor(1), nil
			}
			return nil, errors.New("boom")
		},
	}
	view := dashboard.NewQuestionStatsView(repo, 10*time.Millisecond)
	t.Cleanup(view.Unmount)

	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-1"})

	assert.Eventually(t, func() bool { return repo.fetchCalls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	state := view.State()
	require.NotNil(t, state.Snapshot)
	assert.Equal(t, 1, state.Snapshot.LevelNumber)
}

func TestUnmount_StopsPolling(t *testing.T) {
	repo := &mockLevelRepo{}
	view := dashboard.NewQuestionStatsView(repo, 5*time.Millisecond)

	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-1"})
	assert.Eventually(t, func() bool { return repo.fetchCalls.Load() >= 1 }, time.Second, time.Millisecond)

	view.Unmount()
	after := repo.fetchCalls.Load()
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, after, repo.fetchCalls.Load())
	assert.False(t, view.State().Mounted)
}

func TestUnmount_DropsInFlightResponse(t *testing.T) {
	started := make(chan struct{})
	repo := &mockLevelRepo{
		fetchStatsFn: func(ctx context.Context, _ string) (*level.Snapshot, error) {
			close(started)
			<-ctx.Done()
			// Simulate a response that lands after the view went away.
			return snapshotFor(9), nil
		},
	}
	view := dashboard.NewQuestionStatsView(repo, time.Hour)

	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-9"})
	<-started
	view.Unmount()

	assert.Nil(t, view.State().Snapshot)
}

func TestReselect_DiscardsResponseForPreviousLevel(t *testing.T) {
	view := dashboard.NewQuestionStatsView(&mockLevelRepo{
		fetchStatsFn: func(_ context.Context, levelID string) (*level.Snapshot, error) {
			if levelID == "lvl-1" {
				return snapshotFor(1), nil
			}
			return snapshotFor(2), nil
		},
	}, time.Hour)
	t.Cleanup(view.Unmount)

	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-1"})
	assert.Eventually(t, func() bool { return view.State().Snapshot != nil }, time.Second, time.Millisecond)

	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-2"})
	assert.Eventually(t, func() bool {
		s := view.State().Snapshot
		return s != nil && s.LevelNumber == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, "lvl-2", view.State().LevelID)
}

func TestRefresh_StaleResponseDiscarded(t *testing.T) {
	slow := make(chan struct{})
	entered := make(chan struct{})
	var (
		mu sync.Mutex
		n  int
	)
	repo := &mockLevelRepo{
		fetchStatsFn: func(context.Context, string) (*level.Snapshot, error) {
			mu.Lock()
			n++
			call := n
			mu.Unlock()

			switch call {
			case 1:
				return snapshotFor(1), nil
			case 2:
				close(entered)
				<-slow
				return snapshotFor(2), nil
			default:
				return snapshotFor(3), nil
			}
		},
	}
	view := dashboard.NewQuestionStatsView(repo, time.Hour)
	t.Cleanup(view.Unmount)

	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-1"})
	assert.Eventually(t, func() bool { return view.State().Snapshot != nil }, time.Second, time.Millisecond)

	staleDone := make(chan error)
	go func() { staleDone <- view.Refresh(context.Background()) }()
	<-entered

	require.NoError(t, view.Refresh(context.Background()))
	assert.Equal(t, 3, view.State().Snapshot.LevelNumber)

	close(slow)
	require.NoError(t, <-staleDone)
	assert.Equal(t, 3, view.State().Snapshot.LevelNumber, "older response must not overwrite a newer one")
}

func TestReleaseHint_PatchesOnlyThatHint(t *testing.T) {
	var released []string
	repo := &mockLevelRepo{
		fetchStatsFn: func(context.Context, string) (*level.Snapshot, error) { return snapshotFor(1), nil },
		releaseHintFn: func(_ context.Context, q, h string) error {
			released = append(released, q+"/"+h)
			return nil
		},
	}
	view := dashboard.NewQuestionStatsView(repo, time.Hour)
	t.Cleanup(view.Unmount)
	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-1"})
	assert.Eventually(t, func() bool { return view.State().Snapshot != nil }, time.Second, time.Millisecond)

	require.NoError(t, view.ReleaseHint(context.Background(), "q1", "h2"))

	snap := view.State().Snapshot
	assert.Equal(t, []string{"q1/h2"}, released)
	assert.False(t, snap.QuestionStats[0].Hints[0].Flag)
	assert.True(t, snap.QuestionStats[0].Hints[1].Flag)
	assert.False(t, snap.QuestionStats[1].Hints[0].Flag)
}

func TestReleaseHint_SurvivesOlderInFlightFetch(t *testing.T) {
	slow := make(chan struct{})
	entered := make(chan struct{})
	var (
		mu sync.Mutex
		n  int
	)
	repo := &mockLevelRepo{
		fetchStatsFn: func(context.Context, string) (*level.Snapshot, error) {
			mu.Lock()
			n++
			call := n
			mu.Unlock()

			if call == 2 {
				close(entered)
				<-slow
			}
			return snapshotFor(1), nil
		},
	}
	view := dashboard.NewQuestionStatsView(repo, time.Hour)
	t.Cleanup(view.Unmount)

	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-1"})
	assert.Eventually(t, func() bool { return view.State().Snapshot != nil }, time.Second, time.Millisecond)

	refreshDone := make(chan error)
	go func() { refreshDone <- view.Refresh(context.Background()) }()
	<-entered

	require.NoError(t, view.ReleaseHint(context.Background(), "q1", "h2"))
	assert.True(t, view.State().Snapshot.QuestionStats[0].Hints[1].Flag)

	close(slow)
	require.NoError(t, <-refreshDone)
	assert.True(t, view.State().Snapshot.QuestionStats[0].Hints[1].Flag, "fetch sent before the release must not revert it")
}

func TestReleaseHint_FailureLeavesSnapshot(t *testing.T) {
	repo := &mockLevelRepo{
		fetchStatsFn:  func(context.Context, string) (*level.Snapshot, error) { return snapshotFor(1), nil },
		releaseHintFn: func(context.Context, string, string) error { return errors.New("nope") },
	}
	view := dashboard.NewQuestionStatsView(repo, time.Hour)
	t.Cleanup(view.Unmount)
	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-1"})
	assert.Eventually(t, func() bool { return view.State().Snapshot != nil }, time.Second, time.Millisecond)

	assert.Error(t, view.ReleaseHint(context.Background(), "q1", "h1"))
	assert.False(t, view.State().Snapshot.QuestionStats[0].Hints[0].Flag)
}

func TestSelect_EmptyQuestionStats(t *testing.T) {
	repo := &mockLevelRepo{
		fetchStatsFn: func(context.Context, string) (*level.Snapshot, error) {
			return &level.Snapshot{Success: true, LevelNumber: 5, QuestionStats: []level.QuestionStats{}}, nil
		},
	}
	view := dashboard.NewQuestionStatsView(repo, time.Hour)
	t.Cleanup(view.Unmount)

	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-5"})
	assert.Eventually(t, func() bool { return view.State().Snapshot != nil }, time.Second, time.Millisecond)

	assert.Empty(t, view.State().Snapshot.QuestionStats)
	require.NoError(t, view.ReleaseHint(context.Background(), "q1", "h1"))
}

func TestState_ReturnsCopy(t *testing.T) {
	repo := &mockLevelRepo{
		fetchStatsFn: func(context.Context, string) (*level.Snapshot, error) { return snapshotFor(1), nil },
	}
	view := dashboard.NewQuestionStatsView(repo, time.Hour)
	t.Cleanup(view.Unmount)
	view.Select(context.Background(), dashboard.Selection{LevelID: "lvl-1"})
	assert.Eventually(t, func() bool { return view.State().Snapshot != nil }, time.Second, time.Millisecond)

	view.State().Snapshot.QuestionStats[0].Hints[0].Flag = true

	assert.False(t, view.State().Snapshot.QuestionStats[0].Hints[0].Flag)
}
