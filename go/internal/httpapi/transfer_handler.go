package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mwhite31/squadmarket/go/internal/models"
	"github.com/mwhite31/squadmarket/go/internal/transfer"
)

// TransferService is what the transfer handler needs from the transfer app
type TransferService interface {
	List(ctx context.Context, playerID, requestingSquadID uuid.UUID, askingPrice int64) (*models.Player, error)
	Unlist(ctx context.Context, playerID, requestingSquadID uuid.UUID) (*models.Player, error)
	Buy(ctx context.Context, playerID, buyerSquadID uuid.UUID) (*transfer.BuyResult, error)
}

// TransferHandler serves the transfer market mutations
type TransferHandler struct {
	service TransferService
}

func NewTransferHandler(service TransferService) *TransferHandler {
	return &TransferHandler{service: service}
}

type listPlayerRequest struct {
	SquadID     string `json:"squad_id"`
	AskingPrice int64  `json:"asking_price"`
}

type unlistPlayerRequest struct {
	SquadID string `json:"squad_id"`
}

type buyPlayerRequest struct {
	SquadID string `json:"squad_id"`
}

// ListPlayer puts a player on the transfer market.
// POST /api/players/{playerID}/list
func (h *TransferHandler) ListPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parsePlayerID(w, r)
	if !ok {
		return
	}

	var req listPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse request body")
		return
	}
	squadID, ok := parseSquadID(w, req.SquadID)
	if !ok {
		return
	}

	player, err := h.service.List(r.Context(), playerID, squadID, req.AskingPrice)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, player)
}

// UnlistPlayer withdraws a player from the transfer market.
// POST /api/players/{playerID}/unlist
func (h *TransferHandler) UnlistPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parsePlayerID(w, r)
	if !ok {
		return
	}

	var req unlistPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse request body")
		return
	}
	squadID, ok := parseSquadID(w, req.SquadID)
	if !ok {
		return
	}

	player, err := h.service.Unlist(r.Context(), playerID, squadID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, player)
}

// BuyPlayer executes a transfer to the buying squad.
// POST /api/players/{playerID}/buy
func (h *TransferHandler) BuyPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parsePlayerID(w, r)
	if !ok {
		return
	}

	var req buyPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse request body")
		return
	}
	squadID, ok := parseSquadID(w, req.SquadID)
	if !ok {
		return
	}

	result, err := h.service.Buy(r.Context(), playerID, squadID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func parsePlayerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "player id must be a UUID")
		return uuid.Nil, false
	}
	return playerID, true
}

func parseSquadID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	squadID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "squad_id must be a UUID")
		return uuid.Nil, false
	}
	return squadID, true
}
