package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mwhite31/squadmarket/go/internal/events"
	"github.com/mwhite31/squadmarket/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

// OutboxRepository defines what the app layer needs from the repository
type OutboxRepository interface {
	InsertEvent(ctx context.Context, q sqlutil.DBTX, eventType, aggregateID string, payload []byte) error
	FetchUnsent(ctx context.Context, limit int32) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, ids []uuid.UUID) error
	CountUnsent(ctx context.Context) (int, error)
}

// App handles outbox business logic
type App struct {
	repo OutboxRepository
}

// NewApp creates a new outbox App
func NewApp(repo OutboxRepository) *App {
	return &App{
		repo: repo,
	}
}

// InsertSquadReady inserts a SquadReady event into the outbox
func (a *App) InsertSquadReady(ctx context.Context, q sqlutil.DBTX, accountID string, payload []byte) error {
	return a.insert(ctx, q, events.TypeSquadReady, accountID, payload)
}

// InsertProvisioningFailed inserts a SquadProvisioningFailed event into the outbox
func (a *App) InsertProvisioningFailed(ctx context.Context, q sqlutil.DBTX, accountID string, payload []byte) error {
	return a.insert(ctx, q, events.TypeProvisioningFailed, accountID, payload)
}

// InsertPlayerListed inserts a PlayerListed event into the outbox
func (a *App) InsertPlayerListed(ctx context.Context, q sqlutil.DBTX, playerID string, payload []byte) error {
	return a.insert(ctx, q, events.TypePlayerListed, playerID, payload)
}

// InsertPlayerUnlisted inserts a PlayerUnlisted event into the outbox
func (a *App) InsertPlayerUnlisted(ctx context.Context, q sqlutil.DBTX, playerID string, payload []byte) error {
	return a.insert(ctx, q, events.TypePlayerUnlisted, playerID, payload)
}

// InsertPlayerTransferred inserts a PlayerTransferred event into the outbox
func (a *App) InsertPlayerTransferred(ctx context.Context, q sqlutil.DBTX, playerID string, payload []byte) error {
	return a.insert(ctx, q, events.TypePlayerTransferred, playerID, payload)
}

func (a *App) insert(ctx context.Context, q sqlutil.DBTX, eventType, aggregateID string, payload []byte) error {
	if !json.Valid(payload) {
		return fmt.Errorf("invalid %s payload: not valid JSON", eventType)
	}

	if err := a.repo.InsertEvent(ctx, q, eventType, aggregateID, payload); err != nil {
		return fmt.Errorf("failed to insert %s event: %w", eventType, err)
	}

	log.Info().
		Str("aggregate_id", aggregateID).
		Str("event_type", eventType).
		Msg("outbox event inserted")

	return nil
}
