package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mwhite31/squadmarket/go/internal/models"
	"github.com/mwhite31/squadmarket/go/internal/squad"
)

// SquadService is what the squad handler needs from the squad app
type SquadService interface {
	GetSquadByAccount(ctx context.Context, accountID string) (*squad.SquadWithRoster, error)
}

// Reprovisioner retries provisioning for a squad stuck in the errored state
type Reprovisioner interface {
	Reprovision(ctx context.Context, accountID string) (*models.Squad, error)
}

// SquadHandler serves squad reads and the manual reprovision trigger
type SquadHandler struct {
	service       SquadService
	reprovisioner Reprovisioner
}

func NewSquadHandler(service SquadService, reprovisioner Reprovisioner) *SquadHandler {
	return &SquadHandler{
		service:       service,
		reprovisioner: reprovisioner,
	}
}

// GetSquad returns a squad with its roster.
// GET /api/squads/{accountID}
// The roster is included only once the squad is READY.
func (h *SquadHandler) GetSquad(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "account id is required")
		return
	}

	result, err := h.service.GetSquadByAccount(r.Context(), accountID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Reprovision re-runs provisioning for an errored squad.
// POST /api/squads/{accountID}/reprovision
func (h *SquadHandler) Reprovision(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "account id is required")
		return
	}

	sq, err := h.reprovisioner.Reprovision(r.Context(), accountID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sq)
}
