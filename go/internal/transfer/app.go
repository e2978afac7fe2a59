package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mwhite31/squadmarket/go/internal/models"
)

// TransferRepository defines what the app layer needs from the repository
type TransferRepository interface {
	ListPlayer(ctx context.Context, playerID, requestingSquadID uuid.UUID, askingPrice int64) (*models.Player, error)
	UnlistPlayer(ctx context.Context, playerID, requestingSquadID uuid.UUID) (*models.Player, error)
	BuyPlayer(ctx context.Context, playerID, buyerSquadID uuid.UUID) (*BuyResult, error)
}

// Metrics receives transfer operation outcomes
type Metrics interface {
	RecordTransferOp(op string, outcome string)
}

type noopMetrics struct{}

func (noopMetrics) RecordTransferOp(op string, outcome string) {}

// App handles transfer-market business logic
type App struct {
	repo    TransferRepository
	metrics Metrics
}

// NewApp creates a new transfer App
func NewApp(repo TransferRepository, metrics Metrics) *App {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &App{
		repo:    repo,
		metrics: metrics,
	}
}

// List puts a player on the transfer market at the given asking price.
// Re-listing an already listed player updates the price.
func (a *App) List(ctx context.Context, playerID, requestingSquadID uuid.UUID, askingPrice int64) (*models.Player, error) {
	if askingPrice <= 0 {
		a.metrics.RecordTransferOp("list", outcomeLabel(ErrInvalidPrice))
		return nil, ErrInvalidPrice
	}
	if err := a.validateIDs(playerID, requestingSquadID); err != nil {
		return nil, err
	}

	player, err := a.repo.ListPlayer(ctx, playerID, requestingSquadID, askingPrice)
	a.metrics.RecordTransferOp("list", outcomeLabel(err))
	if err != nil {
		return nil, err
	}

	log.Printf("Listed player %s at %d by squad %s", player.ID, askingPrice, requestingSquadID)
	return player, nil
}

// Unlist removes a player's transfer listing
func (a *App) Unlist(ctx context.Context, playerID, requestingSquadID uuid.UUID) (*models.Player, error) {
	if err := a.validateIDs(playerID, requestingSquadID); err != nil {
		return nil, err
	}

	player, err := a.repo.UnlistPlayer(ctx, playerID, requestingSquadID)
	a.metrics.RecordTransferOp("unlist", outcomeLabel(err))
	if err != nil {
		return nil, err
	}

	log.Printf("Unlisted player %s by squad %s", player.ID, requestingSquadID)
	return player, nil
}

// Buy purchases a listed player for the buying squad
func (a *App) Buy(ctx context.Context, playerID, buyerSquadID uuid.UUID) (*BuyResult, error) {
	if err := a.validateIDs(playerID, buyerSquadID); err != nil {
		return nil, err
	}

	result, err := a.repo.BuyPlayer(ctx, playerID, buyerSquadID)
	a.metrics.RecordTransferOp("buy", outcomeLabel(err))
	if err != nil {
		return nil, err
	}

	log.Printf("Transferred player %s to squad %s for %d", result.Player.ID, buyerSquadID, result.SettlementPrice)
	return result, nil
}

func (a *App) validateIDs(playerID, squadID uuid.UUID) error {
	if playerID == uuid.Nil {
		return fmt.Errorf("player_id is required")
	}
	if squadID == uuid.Nil {
		return fmt.Errorf("squad_id is required")
	}
	return nil
}

// outcomeLabel maps an operation result to a low-cardinality metrics label
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, ErrNotListed):
		return "not_listed"
	case errors.Is(err, ErrSelfTransfer):
		return "self_transfer"
	case errors.Is(err, ErrInsufficientBudget):
		return "insufficient_budget"
	case errors.Is(err, ErrRosterFull):
		return "roster_full"
	case errors.Is(err, ErrRosterTooSmall):
		return "roster_too_small"
	case errors.Is(err, ErrPlayerNotFound), errors.Is(err, ErrSquadNotFound):
		return "not_found"
	default:
		return "error"
	}
}
