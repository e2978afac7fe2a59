package transfer

import "errors"

// Business-rule violations surfaced to callers verbatim. None of these are
// retryable without changed input.
var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrSquadNotFound      = errors.New("squad not found")
	ErrNotOwner           = errors.New("player is not owned by the requesting squad")
	ErrInvalidPrice       = errors.New("asking price must be positive")
	ErrNotListed          = errors.New("player is not listed for transfer")
	ErrSelfTransfer       = errors.New("squad already owns this player")
	ErrInsufficientBudget = errors.New("insufficient budget for transfer")
	ErrRosterFull         = errors.New("buying squad roster is at maximum size")
	ErrRosterTooSmall     = errors.New("selling squad roster is at minimum size")
)
