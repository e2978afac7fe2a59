package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mwhite31/squadmarket/go/internal/market"
	"github.com/mwhite31/squadmarket/go/internal/squad"
	"github.com/mwhite31/squadmarket/go/internal/transfer"
	"github.com/rs/zerolog/log"
)

// apiError is the uniform error response body
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Code: code, Message: message})
}

// handleServiceError maps business errors onto HTTP statuses. Transfer
// conflicts are 409s so clients can distinguish a lost race from a bad request.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transfer.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", "player not found")
	case errors.Is(err, transfer.ErrSquadNotFound), errors.Is(err, squad.ErrSquadNotFound):
		writeError(w, http.StatusNotFound, "SQUAD_NOT_FOUND", "squad not found")
	case errors.Is(err, transfer.ErrNotOwner):
		writeError(w, http.StatusForbidden, "NOT_OWNER", "player belongs to another squad")
	case errors.Is(err, transfer.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, "INVALID_PRICE", "asking price must be positive")
	case errors.Is(err, transfer.ErrNotListed):
		writeError(w, http.StatusConflict, "NOT_LISTED", "player is not listed for transfer")
	case errors.Is(err, transfer.ErrSelfTransfer):
		writeError(w, http.StatusConflict, "SELF_TRANSFER", "cannot buy a player from your own squad")
	case errors.Is(err, transfer.ErrInsufficientBudget):
		writeError(w, http.StatusConflict, "INSUFFICIENT_BUDGET", "buyer budget cannot cover the asking price")
	case errors.Is(err, transfer.ErrRosterFull):
		writeError(w, http.StatusConflict, "ROSTER_FULL", "buyer squad roster is at its maximum size")
	case errors.Is(err, transfer.ErrRosterTooSmall):
		writeError(w, http.StatusConflict, "ROSTER_TOO_SMALL", "seller squad roster is at its minimum size")
	case errors.Is(err, market.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
	case errors.Is(err, squad.ErrNotReprovisionable):
		writeError(w, http.StatusConflict, "NOT_REPROVISIONABLE", "squad is not in the errored state")
	default:
		log.Error().Err(err).Msg("unhandled service error")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
