package transfer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mwhite31/squadmarket/go/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }

func TestSettlementPrice(t *testing.T) {
	tests := []struct {
		asking int64
		want   int64
	}{
		{1_000_000, 950_000},
		{100, 95},
		{101, 95}, // floor, never round up
		{1, 0},
		{2_000_000, 1_900_000},
	}
	for _, tt := range tests {
		if got := SettlementPrice(tt.asking); got != tt.want {
			t.Errorf("SettlementPrice(%d) = %d, want %d", tt.asking, got, tt.want)
		}
	}
}

func listedPlayer(owner uuid.UUID, asking int64) playerState {
	return playerState{
		ID:             uuid.New(),
		SquadID:        owner,
		AskingPrice:    int64Ptr(asking),
		TransferStatus: models.TransferStatusListed,
	}
}

func TestValidateBuy(t *testing.T) {
	seller := uuid.New()
	buyer := uuid.New()

	tests := []struct {
		name         string
		player       playerState
		buyerBudget  int64
		buyerRoster  int
		sellerRoster int
		wantErr      error
		wantPrice    int64
	}{
		{
			name:         "success",
			player:       listedPlayer(seller, 1_000_000),
			buyerBudget:  2_000_000,
			buyerRoster:  20,
			sellerRoster: 20,
			wantPrice:    950_000,
		},
		{
			name:         "not listed",
			player:       playerState{ID: uuid.New(), SquadID: seller, TransferStatus: models.TransferStatusNotListed},
			buyerBudget:  2_000_000,
			buyerRoster:  20,
			sellerRoster: 20,
			wantErr:      ErrNotListed,
		},
		{
			name:         "self transfer",
			player:       listedPlayer(buyer, 1_000_000),
			buyerBudget:  2_000_000,
			buyerRoster:  20,
			sellerRoster: 20,
			wantErr:      ErrSelfTransfer,
		},
		{
			name:         "insufficient budget",
			player:       listedPlayer(seller, 1_000_000),
			buyerBudget:  949_999,
			buyerRoster:  20,
			sellerRoster: 20,
			wantErr:      ErrInsufficientBudget,
		},
		{
			name:         "budget exactly settlement succeeds",
			player:       listedPlayer(seller, 1_000_000),
			buyerBudget:  950_000,
			buyerRoster:  20,
			sellerRoster: 20,
			wantPrice:    950_000,
		},
		{
			name:         "roster full",
			player:       listedPlayer(seller, 100),
			buyerBudget:  2_000_000,
			buyerRoster:  models.RosterMax,
			sellerRoster: 20,
			wantErr:      ErrRosterFull,
		},
		{
			name:         "seller at minimum",
			player:       listedPlayer(seller, 100),
			buyerBudget:  2_000_000,
			buyerRoster:  20,
			sellerRoster: models.RosterMin,
			wantErr:      ErrRosterTooSmall,
		},
		{
			name:         "buyer at 24 may reach 25",
			player:       listedPlayer(seller, 100),
			buyerBudget:  2_000_000,
			buyerRoster:  models.RosterMax - 1,
			sellerRoster: 20,
			wantPrice:    95,
		},
		{
			name:         "seller at 16 may drop to 15",
			player:       listedPlayer(seller, 100),
			buyerBudget:  2_000_000,
			buyerRoster:  20,
			sellerRoster: models.RosterMin + 1,
			wantPrice:    95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := validateBuy(tt.player, buyer, tt.buyerBudget, tt.buyerRoster, tt.sellerRoster)
			if err != tt.wantErr {
				t.Fatalf("validateBuy() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && price != tt.wantPrice {
				t.Errorf("validateBuy() price = %d, want %d", price, tt.wantPrice)
			}
		})
	}
}

// A racing buyer must fail with NotListed before any budget or roster check, so
// the losing caller sees "no longer available" rather than a misleading error.
func TestValidateBuyNotListedTakesPrecedence(t *testing.T) {
	seller := uuid.New()
	player := playerState{ID: uuid.New(), SquadID: seller, TransferStatus: models.TransferStatusNotListed}

	_, err := validateBuy(player, uuid.New(), 0, models.RosterMax, models.RosterMin)
	if err != ErrNotListed {
		t.Errorf("expected ErrNotListed, got %v", err)
	}
}

func TestValidateListOwnership(t *testing.T) {
	owner := uuid.New()
	p := playerState{ID: uuid.New(), SquadID: owner, TransferStatus: models.TransferStatusNotListed}

	if err := validateList(p, owner); err != nil {
		t.Errorf("owner listing failed: %v", err)
	}
	if err := validateList(p, uuid.New()); err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestValidateUnlist(t *testing.T) {
	owner := uuid.New()

	listed := listedPlayer(owner, 500)
	if err := validateUnlist(listed, owner); err != nil {
		t.Errorf("unlisting listed player failed: %v", err)
	}
	if err := validateUnlist(listed, uuid.New()); err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	notListed := playerState{ID: uuid.New(), SquadID: owner, TransferStatus: models.TransferStatusNotListed}
	if err := validateUnlist(notListed, owner); err != ErrNotListed {
		t.Errorf("expected ErrNotListed, got %v", err)
	}
}
