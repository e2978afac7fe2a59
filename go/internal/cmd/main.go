package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mwhite31/squadmarket/go/internal/metrics"
	"github.com/mwhite31/squadmarket/go/internal/provisioner"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}
	setupLogging()

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := setupDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	nc, js, err := setupEventStream(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up event stream")
	}
	defer nc.Close()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	services := setupServices(db, js, config, collector)

	if err := services.OutboxWork.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start outbox worker")
	}

	consumer, err := provisioner.NewConsumer(ctx, config.NATS.URL, config.Provisioner.Workers, services.Provisioner)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up provisioner consumer")
	}
	defer consumer.Close()
	go func() {
		if err := consumer.Run(ctx); err != nil {
			log.Error().Err(err).Msg("provisioner consumer stopped")
			stop()
		}
	}()

	srv := setupServer(services, registry, config)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := services.OutboxWork.Stop(); err != nil {
		log.Error().Err(err).Msg("outbox worker shutdown failed")
	}
	log.Info().Msg("shutdown complete")
}

func setupLogging() {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// setupEventStream connects to NATS and ensures the outgoing squad event
// stream exists. The incoming account stream is owned by the identity service.
func setupEventStream(ctx context.Context, config *Config) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(config.NATS.URL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, nil, err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      config.NATS.Stream,
		Subjects:  []string{config.NATS.SubjectPrefix + ".>"},
		Retention: jetstream.LimitsPolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	return nc, js, nil
}
