package transfer

import (
	"github.com/google/uuid"
	"github.com/mwhite31/squadmarket/go/internal/models"
)

// SettlementPrice is the amount actually moved on purchase: 95% of the asking
// price, rounded down to the nearest minor unit so the buyer can never overdraw.
func SettlementPrice(askingPrice int64) int64 {
	return askingPrice * 95 / 100
}

// playerState is the locked snapshot of a player inside a transfer transaction
type playerState struct {
	ID             uuid.UUID
	SquadID        uuid.UUID
	AskingPrice    *int64
	TransferStatus models.TransferStatus
}

// validateList checks ownership for a listing. Re-listing an already listed
// player is allowed and just updates the price.
func validateList(p playerState, requestingSquadID uuid.UUID) error {
	if p.SquadID != requestingSquadID {
		return ErrNotOwner
	}
	return nil
}

// validateUnlist checks ownership and that an active listing exists
func validateUnlist(p playerState, requestingSquadID uuid.UUID) error {
	if p.SquadID != requestingSquadID {
		return ErrNotOwner
	}
	if p.TransferStatus != models.TransferStatusListed {
		return ErrNotListed
	}
	return nil
}

// validateBuy runs every purchase invariant against the locked state and
// returns the settlement price. The NotListed check runs first: a concurrent
// buyer that lost the race must see "no longer available", not a budget or
// roster error.
func validateBuy(p playerState, buyerSquadID uuid.UUID, buyerBudget int64, buyerRosterSize, sellerRosterSize int) (int64, error) {
	if p.TransferStatus != models.TransferStatusListed || p.AskingPrice == nil {
		return 0, ErrNotListed
	}
	if p.SquadID == buyerSquadID {
		return 0, ErrSelfTransfer
	}

	settlement := SettlementPrice(*p.AskingPrice)
	if buyerBudget < settlement {
		return 0, ErrInsufficientBudget
	}
	if buyerRosterSize+1 > models.RosterMax {
		return 0, ErrRosterFull
	}
	if sellerRosterSize-1 < models.RosterMin {
		return 0, ErrRosterTooSmall
	}

	return settlement, nil
}
