package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/mwhite31/squadmarket/go/internal/market"
	"github.com/mwhite31/squadmarket/go/internal/metrics"
	"github.com/mwhite31/squadmarket/go/internal/outbox"
	"github.com/mwhite31/squadmarket/go/internal/provisioner"
	"github.com/mwhite31/squadmarket/go/internal/squad"
	"github.com/mwhite31/squadmarket/go/internal/squadgen"
	"github.com/mwhite31/squadmarket/go/internal/transfer"
	"github.com/nats-io/nats.go/jetstream"
)

type Services struct {
	Squad       *squad.App
	Transfer    *transfer.App
	Market      *market.App
	Provisioner *provisioner.App
	OutboxWork  *outbox.Worker
}

func setupServices(db *sql.DB, js jetstream.JetStream, config *Config, collector *metrics.Collector) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → transport/worker layer
	clock := clockwork.NewRealClock()

	// Outbox
	outboxRepo := outbox.NewRepository(db)
	outboxApp := outbox.NewApp(outboxRepo)
	publisher := outbox.NewNATSPublisher(js, config.NATS.SubjectPrefix)
	outboxWorker := outbox.NewWorker(outboxRepo, publisher, outbox.Config{
		PollInterval: config.outboxPollInterval(),
		BatchSize:    config.Outbox.BatchSize,
		MaxRetries:   config.Outbox.MaxRetries,
		RetryDelay:   config.outboxRetryDelay(),
	}, clock, collector)

	// Squad
	squadRepo := squad.NewRepository(db)
	squadApp := squad.NewApp(squadRepo)

	// Provisioner
	generator := squadgen.NewGenerator(nil)
	provisionerApp := provisioner.NewApp(squadRepo, generator, outboxApp, db, clock, provisioner.Config{
		MaxAttempts: config.Provisioner.MaxAttempts,
		RetryDelay:  config.provisionerRetryDelay(),
	}, collector)

	// Transfer
	transferRepo := transfer.NewRepository(db, outboxApp)
	transferApp := transfer.NewApp(transferRepo, collector)

	// Market
	marketRepo := market.NewRepository(db)
	marketApp := market.NewApp(marketRepo)

	return &Services{
		Squad:       squadApp,
		Transfer:    transferApp,
		Market:      marketApp,
		Provisioner: provisionerApp,
		OutboxWork:  outboxWorker,
	}
}
