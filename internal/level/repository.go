package level

import (
	"context"
	"fmt"

	"github.com/daap14/questadmin/internal/apiclient"
	"github.com/daap14/questadmin/internal/config"
)

// Repository reads level stats and releases hints.
type Repository interface {
	FetchStats(ctx context.Context, levelID string) (*Snapshot, error)
	ReleaseHint(ctx context.Context, questionID, hintID string) error
}

// HTTPRepository implements Repository against the quiz API.
type HTTPRepository struct {
	client    *apiclient.Client
	endpoints config.Endpoints
}

// NewRepository creates a Repository backed by the given API client.
func NewRepository(client *apiclient.Client, endpoints config.Endpoints) *HTTPRepository {
	return &HTTPRepository{client: client, endpoints: endpoints}
}

// FetchStats retrieves the question stats snapshot for levelID.
func (r *HTTPRepository) FetchStats(ctx context.Context, levelID string) (*Snapshot, error) {
	path := apiclient.Expand(r.endpoints.LevelStats, "levelId", levelID)

	var snap Snapshot
	if err := r.client.Get(ctx, path, &snap); err != nil {
		return nil, fmt.Errorf("fetching stats for level %s: %w", levelID, err)
	}
	if !snap.Success {
		return nil, fmt.Errorf("fetching stats for level %s: %w", levelID, &apiclient.RejectedError{})
	}
	if snap.QuestionStats == nil {
		snap.QuestionStats = []QuestionStats{}
	}
	return &snap, nil
}

// ReleaseHint releases hintID of questionID to every team.
func (r *HTTPRepository) ReleaseHint(ctx context.Context, questionID, hintID string) error {
	path := apiclient.Expand(r.endpoints.ReleaseHint, "questionId", questionID, "hintId", hintID)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := r.client.Post(ctx, path, nil, &resp); err != nil {
		return fmt.Errorf("releasing hint %s of question %s: %w", hintID, questionID, err)
	}
	if !resp.Success {
		return fmt.Errorf("releasing hint %s of question %s: %w", hintID, questionID, &apiclient.RejectedError{Message: resp.Message})
	}
	return nil
}
