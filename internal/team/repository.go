package team

import (
	"context"
	"fmt"

	"github.com/daap14/questadmin/internal/apiclient"
	"github.com/daap14/questadmin/internal/config"
)

// Repository reads the roster and issues team commands.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	Block(ctx context.Context, id string) error
	Unblock(ctx context.Context, id string) error
	LevelUp(ctx context.Context, id string) error
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

// List retrieves every team, unsorted.
func (r *HTTPRepository) List(ctx context.Context) ([]Team, error) {
	var body struct {
		AllTeams []Team `json:"allTeams"`
	}
	if err := r.client.Get(ctx, r.endpoints.AllTeams, &body); err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	if body.AllTeams == nil {
		return nil, fmt.Errorf("listing teams: %w", apiclient.ErrMalformedResponse)
	}
	return body.AllTeams, nil
}

// Block stops a team from playing.
func (r *HTTPRepository) Block(ctx context.Context, id string) error {
	return r.command(ctx, r.endpoints.BlockTeam, id, "blocking")
}

// Unblock lets a blocked team play again.
func (r *HTTPRepository) Unblock(ctx context.Context, id string) error {
	return r.command(ctx, r.endpoints.UnblockTeam, id, "unblocking")
}

// LevelUp moves a team to the next level.
func (r *HTTPRepository) LevelUp(ctx context.Context, id string) error {
	return r.command(ctx, r.endpoints.LevelUpTeam, id, "leveling up")
}

func (r *HTTPRepository) command(ctx context.Context, tpl, id, verb string) error {
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := r.client.Post(ctx, apiclient.Expand(tpl, "teamId", id), nil, &resp); err != nil {
		return fmt.Errorf("%s team %s: %w", verb, id, err)
	}
	if !resp.Success {
		return fmt.Errorf("%s team %s: %w", verb, id, &apiclient.RejectedError{Message: resp.Message})
	}
	return nil
}
