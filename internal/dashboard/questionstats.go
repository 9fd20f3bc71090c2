// Package dashboard holds the live admin views: the polling question-stats
// board and the team administration roster.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/daap14/questadmin/internal/level"
)

// DefaultPollInterval is how often a mounted stats view refetches.
const DefaultPollInterval = 30 * time.Second

// Selection is what the stats board is showing. A selection without a
// LevelID is the completion level: it has no questions, only a summary.
type Selection struct {
	LevelID    string                   `json:"levelId,omitempty"`
	Completion *level.CompletionSummary `json:"completion,omitempty"`
}

// StatsState is a point-in-time copy of the view.
type StatsState struct {
	LevelID    string                   `json:"levelId,omitempty"`
	Mounted    bool                     `json:"mounted"`
	Loading    bool                     `json:"loading"`
	Snapshot   *level.Snapshot          `json:"snapshot,omitempty"`
	Completion *level.CompletionSummary `json:"completion,omitempty"`
	Ranking    []level.RankedTeam       `json:"ranking,omitempty"`
}

// QuestionStatsView polls question statistics for the selected level.
type QuestionStatsView struct {
	repo     level.Repository
	interval time.Duration

	selMu sync.Mutex // serializes Select and Unmount

	mu       sync.Mutex
	mounted  bool
	sel      Selection
	snapshot *level.Snapshot
	loading  bool
	gen      uint64 // bumped on every Select/Unmount
	issued   uint64
	applied  uint64
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewQuestionStatsView creates an unmounted view. A non-positive interval
// falls back to DefaultPollInterval.
func NewQuestionStatsView(repo level.Repository, interval time.Duration) *QuestionStatsView {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &QuestionStatsView{repo: repo, interval: interval}
}

// Select mounts the view on sel, replacing any previous selection. With a
// level id it fetches immediately and then on every tick until the selection
// changes, Unmount is called, or ctx is cancelled.
func (v *QuestionStatsView) Select(ctx context.Context, sel Selection) {
	v.selMu.Lock()
	defer v.selMu.Unlock()
	v.stop()

	v.mu.Lock()
	gen := v.gen
	v.mounted = true
	v.sel = sel
	v.applied = v.issued

	if sel.LevelID == "" {
		v.loading = false
		v.mu.Unlock()
		return
	}

	v.loading = true
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	v.cancel = cancel
	v.done = done
	v.mu.Unlock()

	go func() {
		defer close(done)
		v.poll(loopCtx, gen, sel.LevelID)
	}()
}

// Unmount stops polling and discards state. Responses still in flight are
// dropped when they arrive.
func (v *QuestionStatsView) Unmount() {
	v.selMu.Lock()
	defer v.selMu.Unlock()
	v.stop()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.mounted = false
	v.loading = false
}

// Refresh fetches the selected level out of band. It is a no-op for the
// completion level or an unmounted view.
func (v *QuestionStatsView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	gen, levelID := v.gen, v.sel.LevelID
	v.mu.Unlock()

	if levelID == "" {
		return nil
	}
	return v.fetch(ctx, gen, levelID)
}

// ReleaseHint asks the API to release a hint and, on success, flips that one
// hint's flag in the cached snapshot.
func (v *QuestionStatsView) ReleaseHint(ctx context.Context, questionID, hintID string) error {
	v.mu.Lock()
	gen := v.gen
	v.mu.Unlock()

	if err := v.repo.ReleaseHint(ctx, questionID, hintID); err != nil {
		slog.WarnContext(ctx, "hint release failed",
			"question_id", questionID,
			"hint_id", hintID,
			"error", err,
		)
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen == v.gen && v.snapshot != nil {
		v.snapshot = v.snapshot.WithHintReleased(questionID, hintID)
		// Fetches issued before the release would carry the old flag.
		v.issued++
		v.applied = v.issued
	}
	slog.InfoContext(ctx, "hint released", "question_id", questionID, "hint_id", hintID)
	return nil
}

// State returns a copy of the view safe to hand to another goroutine.
func (v *QuestionStatsView) State() StatsState {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := StatsState{
		LevelID:    v.sel.LevelID,
		Mounted:    v.mounted,
		Loading:    v.loading,
		Snapshot:   v.snapshot.Clone(),
		Completion: v.sel.Completion,
	}
	if st.Completion != nil {
		st.Ranking = st.Completion.Ranked()
	}
	return st
}

func (v *QuestionStatsView) poll(ctx context.Context, gen uint64, levelID string) {
	slog.DebugContext(ctx, "question stats polling started", "level_id", levelID, "interval", v.interval.String())
	_ = v.fetch(ctx, gen, levelID)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.DebugContext(ctx, "question stats polling stopped", "level_id", levelID)
			return
		case <-ticker.C:
			_ = v.fetch(ctx, gen, levelID)
		}
	}
}

// fetch loads one snapshot. The result is applied only if the selection is
// still gen and no newer fetch has been applied already.
func (v *QuestionStatsView) fetch(ctx context.Context, gen uint64, levelID string) error {
	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		return nil
	}
	v.issued++
	seq := v.issued
	v.mu.Unlock()

	snap, err := v.repo.FetchStats(ctx, levelID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return nil
	}
	v.loading = false
	if err != nil {
		if ctx.Err() == nil {
			slog.WarnContext(ctx, "question stats fetch failed", "level_id", levelID, "error", err)
		}
		return err
	}
	if seq < v.applied {
		slog.DebugContext(ctx, "discarding stale question stats", "level_id", levelID, "seq", seq)
		return nil
	}
	v.applied = seq
	v.snapshot = snap
	return nil
}

// stop invalidates the current selection and waits for its loop to exit.
func (v *QuestionStatsView) stop() {
	v.mu.Lock()
	v.gen++
	v.sel = Selection{}
	v.snapshot = nil
	cancel, done := v.cancel, v.done
	v.cancel, v.done = nil, nil
	v.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
