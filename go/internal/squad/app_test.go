package squad

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mwhite31/squadmarket/go/internal/models"
)

type mockRepo struct {
	getSquadFn          func(ctx context.Context, id uuid.UUID) (*models.Squad, error)
	getSquadByAccountFn func(ctx context.Context, accountID string) (*models.Squad, error)
	getRosterFn         func(ctx context.Context, squadID uuid.UUID) ([]models.Player, error)
}

func (m *mockRepo) GetSquad(ctx context.Context, id uuid.UUID) (*models.Squad, error) {
	return m.getSquadFn(ctx, id)
}
func (m *mockRepo) GetSquadByAccount(ctx context.Context, accountID string) (*models.Squad, error) {
	return m.getSquadByAccountFn(ctx, accountID)
}
func (m *mockRepo) GetRoster(ctx context.Context, squadID uuid.UUID) ([]models.Player, error) {
	return m.getRosterFn(ctx, squadID)
}

func TestGetSquadByAccountReady(t *testing.T) {
	squadID := uuid.New()
	repo := &mockRepo{
		getSquadByAccountFn: func(ctx context.Context, accountID string) (*models.Squad, error) {
			return &models.Squad{ID: squadID, AccountID: accountID, Status: models.SquadStatusReady, Budget: 5_000_000}, nil
		},
		getRosterFn: func(ctx context.Context, id uuid.UUID) ([]models.Player, error) {
			if id != squadID {
				t.Errorf("roster fetched for wrong squad: %s", id)
			}
			return []models.Player{{ID: uuid.New(), SquadID: id, Position: models.PositionGoalkeeper}}, nil
		},
	}

	app := NewApp(repo)
	result, err := app.GetSquadByAccount(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Players) != 1 {
		t.Errorf("expected 1 player, got %d", len(result.Players))
	}
}

func TestGetSquadByAccountCreatingHidesRoster(t *testing.T) {
	repo := &mockRepo{
		getSquadByAccountFn: func(ctx context.Context, accountID string) (*models.Squad, error) {
			return &models.Squad{ID: uuid.New(), AccountID: accountID, Status: models.SquadStatusCreating}, nil
		},
		getRosterFn: func(ctx context.Context, id uuid.UUID) ([]models.Player, error) {
			t.Error("roster must not be fetched while provisioning")
			return nil, nil
		},
	}

	app := NewApp(repo)
	result, err := app.GetSquadByAccount(context.Background(), "acct-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Players) != 0 {
		t.Errorf("expected empty roster, got %d players", len(result.Players))
	}
	if result.Squad.Status != models.SquadStatusCreating {
		t.Errorf("expected CREATING status, got %s", result.Squad.Status)
	}
}

func TestGetSquadByAccountNotFound(t *testing.T) {
	repo := &mockRepo{
		getSquadByAccountFn: func(ctx context.Context, accountID string) (*models.Squad, error) {
			return nil, ErrSquadNotFound
		},
	}

	app := NewApp(repo)
	if _, err := app.GetSquadByAccount(context.Background(), "missing"); err != ErrSquadNotFound {
		t.Errorf("expected ErrSquadNotFound, got %v", err)
	}
}
