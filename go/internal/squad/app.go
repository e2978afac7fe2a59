package squad

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mwhite31/squadmarket/go/internal/models"
)

// SquadRepository defines what the app layer needs from the repository
type SquadRepository interface {
	GetSquad(ctx context.Context, id uuid.UUID) (*models.Squad, error)
	GetSquadByAccount(ctx context.Context, accountID string) (*models.Squad, error)
	GetRoster(ctx context.Context, squadID uuid.UUID) ([]models.Player, error)
}

// SquadWithRoster is a squad together with its current roster
type SquadWithRoster struct {
	Squad   models.Squad    `json:"squad"`
	Players []models.Player `json:"players"`
}

// App handles squad read operations
type App struct {
	repo SquadRepository
}

// NewApp creates a new squad App
func NewApp(repo SquadRepository) *App {
	return &App{
		repo: repo,
	}
}

// GetSquadByAccount retrieves the squad provisioned for an account, with its
// roster. The roster is only exposed once provisioning has reached READY.
func (a *App) GetSquadByAccount(ctx context.Context, accountID string) (*SquadWithRoster, error) {
	sq, err := a.repo.GetSquadByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	result := &SquadWithRoster{Squad: *sq, Players: []models.Player{}}
	if sq.Status != models.SquadStatusReady {
		return result, nil
	}

	players, err := a.repo.GetRoster(ctx, sq.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	if players != nil {
		result.Players = players
	}

	return result, nil
}

// GetSquad retrieves a squad by id
func (a *App) GetSquad(ctx context.Context, id uuid.UUID) (*models.Squad, error) {
	return a.repo.GetSquad(ctx, id)
}
