package provisioner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mwhite31/squadmarket/go/internal/events"
	"github.com/mwhite31/squadmarket/go/internal/models"
	"github.com/mwhite31/squadmarket/go/internal/squad"
	"github.com/mwhite31/squadmarket/go/internal/squadgen"
	"github.com/mwhite31/squadmarket/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

// SquadRepository defines what the provisioner needs from the squad repository
type SquadRepository interface {
	CreateSquadIfAbsent(ctx context.Context, req squad.CreateSquadRequest) (*models.Squad, bool, error)
	CompleteProvisioning(ctx context.Context, squadID uuid.UUID, budget int64, players []squad.PlayerSeed) error
	MarkProvisioningFailed(ctx context.Context, squadID uuid.UUID) error
	ResetForReprovisioning(ctx context.Context, squadID uuid.UUID) error
	GetSquadByAccount(ctx context.Context, accountID string) (*models.Squad, error)
}

// Generator produces the squad content to persist
type Generator interface {
	Generate(accountID string) squadgen.GeneratedSquad
}

// OutboxApp defines what the provisioner needs from the outbox
type OutboxApp interface {
	InsertSquadReady(ctx context.Context, q sqlutil.DBTX, accountID string, payload []byte) error
	InsertProvisioningFailed(ctx context.Context, q sqlutil.DBTX, accountID string, payload []byte) error
}

// Metrics receives provisioning outcomes
type Metrics interface {
	RecordProvision(outcome string)
	RecordDuplicateEvent()
}

type noopMetrics struct{}

func (noopMetrics) RecordProvision(outcome string) {}
func (noopMetrics) RecordDuplicateEvent()          {}

// Config tunes the bounded persistence retry. Retries are in-process only; the
// event is acknowledged whatever the terminal outcome.
type Config struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		RetryDelay:  200 * time.Millisecond,
	}
}

// App drives the provisioning state machine: absent -> CREATING -> READY|ERROR,
// with ERROR -> CREATING only through an explicit Reprovision call.
type App struct {
	repo      SquadRepository
	generator Generator
	outbox    OutboxApp
	db        sqlutil.DBTX
	clock     clockwork.Clock
	config    Config
	metrics   Metrics
}

// NewApp creates a new provisioner App
func NewApp(repo SquadRepository, generator Generator, outbox OutboxApp, db sqlutil.DBTX, clock clockwork.Clock, cfg Config, metrics Metrics) *App {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &App{
		repo:      repo,
		generator: generator,
		outbox:    outbox,
		db:        db,
		clock:     clock,
		config:    cfg,
		metrics:   metrics,
	}
}

// ProvisionSquad handles one AccountCreated delivery. It is idempotent: on
// duplicate delivery the event is discarded without touching the store. A nil
// return means the event can be acknowledged; a non-nil return signals a
// transient failure before any squad record existed, safe to redeliver.
func (a *App) ProvisionSquad(ctx context.Context, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("account_id is required")
	}

	generated := a.generator.Generate(accountID)

	sq, created, err := a.repo.CreateSquadIfAbsent(ctx, squad.CreateSquadRequest{
		AccountID: accountID,
		Name:      generated.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to create squad record: %w", err)
	}
	if !created {
		a.metrics.RecordDuplicateEvent()
		log.Info().
			Str("account_id", accountID).
			Msg("squad already exists, discarding duplicate provisioning event")
		return nil
	}

	a.persistGenerated(ctx, sq, generated)
	return nil
}

// Reprovision is the explicit operator retry for a squad stuck in ERROR. It is
// the only path that re-enters CREATING from ERROR.
func (a *App) Reprovision(ctx context.Context, accountID string) (*models.Squad, error) {
	sq, err := a.repo.GetSquadByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := a.repo.ResetForReprovisioning(ctx, sq.ID); err != nil {
		return nil, err
	}

	log.Printf("Re-provisioning squad %s for account %s", sq.ID, accountID)
	a.persistGenerated(ctx, sq, a.generator.Generate(accountID))

	return a.repo.GetSquadByAccount(ctx, accountID)
}

// persistGenerated attempts the generation-output persistence with bounded
// retry and records the terminal state. It never returns an error: by the time
// it runs, a squad record exists and the outcome is captured in its status.
func (a *App) persistGenerated(ctx context.Context, sq *models.Squad, generated squadgen.GeneratedSquad) {
	seeds := make([]squad.PlayerSeed, len(generated.Players))
	for i, p := range generated.Players {
		seeds[i] = squad.PlayerSeed{Position: p.Position, FullName: p.FullName, Value: p.Value}
	}

	var lastErr error
	delay := a.config.RetryDelay
	for attempt := 1; attempt <= a.config.MaxAttempts; attempt++ {
		lastErr = a.repo.CompleteProvisioning(ctx, sq.ID, generated.Budget, seeds)
		if lastErr == nil {
			a.recordReady(ctx, sq, generated)
			return
		}

		log.Warn().
			Err(lastErr).
			Str("squad_id", sq.ID.String()).
			Int("attempt", attempt).
			Msg("squad persistence attempt failed")

		if attempt < a.config.MaxAttempts {
			a.clock.Sleep(delay)
			delay *= 2
		}
	}

	a.recordFailed(ctx, sq, lastErr)
}

func (a *App) recordReady(ctx context.Context, sq *models.Squad, generated squadgen.GeneratedSquad) {
	a.metrics.RecordProvision("ready")
	log.Info().
		Str("account_id", sq.AccountID).
		Str("squad_id", sq.ID.String()).
		Int("players", len(generated.Players)).
		Msg("squad provisioned")

	payload, err := json.Marshal(events.SquadReadyPayload{
		AccountID:   sq.AccountID,
		SquadID:     sq.ID.String(),
		SquadName:   generated.Name,
		PlayerCount: len(generated.Players),
		ReadyAt:     a.clock.Now().UTC(),
	})
	if err == nil {
		err = a.outbox.InsertSquadReady(ctx, a.db, sq.AccountID, payload)
	}
	if err != nil {
		// The squad state is authoritative; a lost notification is tolerable
		log.Error().Err(err).Str("squad_id", sq.ID.String()).Msg("failed to enqueue SquadReady event")
	}
}

func (a *App) recordFailed(ctx context.Context, sq *models.Squad, cause error) {
	a.metrics.RecordProvision("error")
	log.Error().
		Err(cause).
		Str("account_id", sq.AccountID).
		Str("squad_id", sq.ID.String()).
		Msg("squad provisioning failed, marking squad errored")

	if err := a.repo.MarkProvisioningFailed(ctx, sq.ID); err != nil {
		log.Error().Err(err).Str("squad_id", sq.ID.String()).Msg("failed to mark squad errored")
		return
	}

	payload, err := json.Marshal(events.ProvisioningFailedPayload{
		AccountID: sq.AccountID,
		SquadID:   sq.ID.String(),
		Reason:    cause.Error(),
		FailedAt:  a.clock.Now().UTC(),
	})
	if err == nil {
		err = a.outbox.InsertProvisioningFailed(ctx, a.db, sq.AccountID, payload)
	}
	if err != nil {
		log.Error().Err(err).Str("squad_id", sq.ID.String()).Msg("failed to enqueue SquadProvisioningFailed event")
	}
}
