package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterDeps bundles everything the router needs
type RouterDeps struct {
	SquadService    SquadService
	Reprovisioner   Reprovisioner
	TransferService TransferService
	MarketService   MarketService

	// MetricsHandler serves Prometheus scrapes; nil disables the endpoint
	MetricsHandler http.Handler
}

// NewRouter wires all API endpoints
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	squadHandler := NewSquadHandler(deps.SquadService, deps.Reprovisioner)
	transferHandler := NewTransferHandler(deps.TransferService)
	marketHandler := NewMarketHandler(deps.MarketService)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/squads/{accountID}", func(r chi.Router) {
			r.Get("/", squadHandler.GetSquad)
			r.Post("/reprovision", squadHandler.Reprovision)
		})

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Post("/list", transferHandler.ListPlayer)
			r.Post("/unlist", transferHandler.UnlistPlayer)
			r.Post("/buy", transferHandler.BuyPlayer)
		})

		r.Get("/market", marketHandler.Search)
	})

	return r
}
