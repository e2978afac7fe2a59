package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mwhite31/squadmarket/go/internal/httpapi"
	"github.com/mwhite31/squadmarket/go/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
)

func setupServer(services *Services, registry *prometheus.Registry, config *Config) *http.Server {
	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	router := httpapi.NewRouter(&httpapi.RouterDeps{
		SquadService:    services.Squad,
		Reprovisioner:   services.Provisioner,
		TransferService: services.Transfer,
		MarketService:   services.Market,
		MetricsHandler:  metrics.Handler(registry),
	})

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", getEnv("PORT", config.Server.Port)),
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
