package transfer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mwhite31/squadmarket/go/internal/models"
)

type mockTransferRepo struct {
	listFn   func(ctx context.Context, playerID, squadID uuid.UUID, askingPrice int64) (*models.Player, error)
	unlistFn func(ctx context.Context, playerID, squadID uuid.UUID) (*models.Player, error)
	buyFn    func(ctx context.Context, playerID, squadID uuid.UUID) (*BuyResult, error)
}

func (m *mockTransferRepo) ListPlayer(ctx context.Context, playerID, squadID uuid.UUID, askingPrice int64) (*models.Player, error) {
	return m.listFn(ctx, playerID, squadID, askingPrice)
}
func (m *mockTransferRepo) UnlistPlayer(ctx context.Context, playerID, squadID uuid.UUID) (*models.Player, error) {
	return m.unlistFn(ctx, playerID, squadID)
}
func (m *mockTransferRepo) BuyPlayer(ctx context.Context, playerID, squadID uuid.UUID) (*BuyResult, error) {
	return m.buyFn(ctx, playerID, squadID)
}

func TestListRejectsNonPositivePrice(t *testing.T) {
	repo := &mockTransferRepo{
		listFn: func(ctx context.Context, playerID, squadID uuid.UUID, askingPrice int64) (*models.Player, error) {
			t.Error("repository must not be called for an invalid price")
			return nil, nil
		},
	}
	app := NewApp(repo, nil)

	for _, price := range []int64{0, -1, -1_000_000} {
		if _, err := app.List(context.Background(), uuid.New(), uuid.New(), price); err != ErrInvalidPrice {
			t.Errorf("price %d: expected ErrInvalidPrice, got %v", price, err)
		}
	}
}

func TestListPassesThroughRepoErrors(t *testing.T) {
	repo := &mockTransferRepo{
		listFn: func(ctx context.Context, playerID, squadID uuid.UUID, askingPrice int64) (*models.Player, error) {
			return nil, ErrNotOwner
		},
	}
	app := NewApp(repo, nil)

	if _, err := app.List(context.Background(), uuid.New(), uuid.New(), 100); err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner surfaced verbatim, got %v", err)
	}
}

func TestBuyReturnsSettledResult(t *testing.T) {
	playerID := uuid.New()
	buyerID := uuid.New()
	repo := &mockTransferRepo{
		buyFn: func(ctx context.Context, pid, sid uuid.UUID) (*BuyResult, error) {
			if pid != playerID || sid != buyerID {
				t.Errorf("unexpected ids: %s %s", pid, sid)
			}
			return &BuyResult{
				Player:          models.Player{ID: pid, SquadID: sid},
				BuyerBudget:     1_050_000,
				SellerBudget:    5_950_000,
				SettlementPrice: 950_000,
			}, nil
		},
	}
	app := NewApp(repo, nil)

	result, err := app.Buy(context.Background(), playerID, buyerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Player.SquadID != buyerID {
		t.Errorf("player not owned by buyer after purchase")
	}
	if result.SettlementPrice != 950_000 {
		t.Errorf("expected settlement 950000, got %d", result.SettlementPrice)
	}
}

func TestOperationsRejectNilIDs(t *testing.T) {
	repo := &mockTransferRepo{
		unlistFn: func(ctx context.Context, playerID, squadID uuid.UUID) (*models.Player, error) {
			t.Error("repository must not be called with nil ids")
			return nil, nil
		},
	}
	app := NewApp(repo, nil)

	if _, err := app.Unlist(context.Background(), uuid.Nil, uuid.New()); err == nil {
		t.Error("expected error for nil player id")
	}
	if _, err := app.Unlist(context.Background(), uuid.New(), uuid.Nil); err == nil {
		t.Error("expected error for nil squad id")
	}
}

func TestOutcomeLabels(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrNotOwner, "not_owner"},
		{ErrNotListed, "not_listed"},
		{ErrInsufficientBudget, "insufficient_budget"},
		{ErrRosterFull, "roster_full"},
		{ErrRosterTooSmall, "roster_too_small"},
		{ErrPlayerNotFound, "not_found"},
		{context.DeadlineExceeded, "error"},
	}
	for _, tt := range tests {
		if got := outcomeLabel(tt.err); got != tt.want {
			t.Errorf("outcomeLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
