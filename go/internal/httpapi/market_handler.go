package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mwhite31/squadmarket/go/internal/market"
)

// MarketService is what the market handler needs from the market app
type MarketService interface {
	Search(ctx context.Context, filter market.Filter) ([]market.Listing, error)
}

// MarketHandler serves the transfer market browse endpoint
type MarketHandler struct {
	service MarketService
}

func NewMarketHandler(service MarketService) *MarketHandler {
	return &MarketHandler{service: service}
}

type marketResponse struct {
	Listings []market.Listing `json:"listings"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// Search lists players currently on the market.
// GET /api/market?squad_name=&player_name=&min_price=&max_price=&limit=&offset=
func (h *MarketHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := market.Filter{
		SquadName:  q.Get("squad_name"),
		PlayerName: q.Get("player_name"),
	}

	var ok bool
	if filter.MinPrice, ok = parseOptionalInt64(w, q.Get("min_price"), "min_price"); !ok {
		return
	}
	if filter.MaxPrice, ok = parseOptionalInt64(w, q.Get("max_price"), "max_price"); !ok {
		return
	}
	if filter.Limit, ok = parseOptionalInt(w, q.Get("limit"), "limit"); !ok {
		return
	}
	if filter.Offset, ok = parseOptionalInt(w, q.Get("offset"), "offset"); !ok {
		return
	}

	listings, err := h.service.Search(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, marketResponse{
		Listings: listings,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

func parseOptionalInt64(w http.ResponseWriter, raw, name string) (*int64, bool) {
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be an integer")
		return nil, false
	}
	return &v, true
}

func parseOptionalInt(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be an integer")
		return 0, false
	}
	return v, true
}
