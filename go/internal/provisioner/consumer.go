package provisioner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mwhite31/squadmarket/go/internal/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

const (
	streamName   = "ACCOUNT_EVENTS"
	consumerName = "squad-provisioner"

	natsMaxReconnects = -1 // reconnect forever
	natsReconnectWait = 2 * time.Second

	consumerMaxDeliver    = 5
	consumerAckWait       = 30 * time.Second
	consumerMaxAckPending = 256

	eventChannelBufferSize = 64
)

// DomainEvent is the envelope published by the identity service
type DomainEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	AccountID string          `json:"account_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Consumer subscribes the provisioner to the account event stream. Delivery is
// at least once; ProvisionSquad owns deduplication.
type Consumer struct {
	app        *App
	nc         *nats.Conn
	js         jetstream.JetStream
	consumer   jetstream.Consumer
	numWorkers int
}

// NewConsumer connects to NATS and binds the durable consumer
func NewConsumer(ctx context.Context, natsURL string, numWorkers int, app *App) (*Consumer, error) {
	nc, js, err := setupNATSConnection(natsURL)
	if err != nil {
		return nil, err
	}

	c := &Consumer{
		app:        app,
		nc:         nc,
		js:         js,
		numWorkers: numWorkers,
	}
	if err := c.ensureConsumer(ctx); err != nil {
		nc.Close()
		return nil, err
	}
	return c, nil
}

// setupNATSConnection creates a NATS connection with JetStream
func setupNATSConnection(natsURL string) (*nats.Conn, jetstream.JetStream, error) {
	opts := []nats.Option{
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}

	return nc, js, nil
}

// ensureConsumer creates or gets the durable JetStream consumer
func (c *Consumer) ensureConsumer(ctx context.Context) error {
	stream, err := c.js.Stream(ctx, streamName)
	if err != nil {
		return fmt.Errorf("get stream: %w", err)
	}

	consumerConfig := jetstream.ConsumerConfig{
		Name:          consumerName,
		Durable:       consumerName,
		Description:   "Squad provisioner account event consumer",
		FilterSubject: "account.events.>",
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    consumerMaxDeliver,
		AckWait:       consumerAckWait,
		MaxAckPending: consumerMaxAckPending,
		ReplayPolicy:  jetstream.ReplayInstantPolicy,
	}

	// Try to get existing consumer
	consumer, err := stream.Consumer(ctx, consumerName)
	if err != nil {
		consumer, err = stream.CreateConsumer(ctx, consumerConfig)
		if err != nil {
			return fmt.Errorf("create consumer: %w", err)
		}
		log.Info().Msg("created JetStream consumer for provisioner")
	} else {
		log.Info().Msg("using existing JetStream consumer for provisioner")
	}

	c.consumer = consumer
	return nil
}

// Run consumes account events until ctx is cancelled. Messages fan out to a
// worker pool so provisioning for independent accounts proceeds in parallel.
func (c *Consumer) Run(ctx context.Context) error {
	log.Info().
		Int("workers", c.numWorkers).
		Msg("squad provisioner started as JetStream consumer")

	eventCh := make(chan jetstream.Msg, eventChannelBufferSize)

	consumeCtx, err := c.consumer.Consume(func(msg jetstream.Msg) {
		select {
		case eventCh <- msg:
		case <-ctx.Done():
			msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("start JetStream consumer: %w", err)
	}
	defer consumeCtx.Stop()

	var wg sync.WaitGroup
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	for i := 0; i < c.numWorkers; i++ {
		wg.Add(1)
		go c.worker(workerCtx, &wg, i, eventCh)
	}

	<-ctx.Done()
	log.Info().Msg("provisioner shutdown requested")
	cancelWorkers()
	wg.Wait()
	log.Info().Msg("all provisioner workers shut down")
	return nil
}

// worker drains account events from the channel
func (c *Consumer) worker(ctx context.Context, wg *sync.WaitGroup, workerID int, eventCh <-chan jetstream.Msg) {
	defer wg.Done()

	log.Info().Int("worker_id", workerID).Msg("provisioner worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker_id", workerID).Msg("provisioner worker shutting down")
			return
		case msg := <-eventCh:
			if err := c.processEvent(ctx, msg); err != nil {
				log.Error().Err(err).Str("subject", msg.Subject()).Msg("failed to process account event")
				msg.Nak()
			} else {
				msg.Ack()
			}
		}
	}
}

// processEvent handles a single JetStream message. A nil return acknowledges
// the message; MaxDeliver bounds redelivery of poison messages.
func (c *Consumer) processEvent(ctx context.Context, msg jetstream.Msg) error {
	var event DomainEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	log.Debug().
		Str("subject", msg.Subject()).
		Str("account_id", event.AccountID).
		Str("event_type", event.EventType).
		Msg("processing account event")

	switch event.EventType {
	case events.TypeAccountCreated:
		accountID := event.AccountID
		if accountID == "" {
			var payload events.AccountCreatedPayload
			if err := json.Unmarshal(event.Payload, &payload); err != nil {
				return fmt.Errorf("unmarshal AccountCreated payload: %w", err)
			}
			accountID = payload.AccountID
		}
		return c.app.ProvisionSquad(ctx, accountID)
	default:
		// Not ours to handle, acknowledge and move on
		log.Debug().Str("event_type", event.EventType).Msg("ignoring unhandled event type")
		return nil
	}
}

// Close gracefully closes the NATS connection
func (c *Consumer) Close() error {
	if c.nc != nil {
		c.nc.Close()
	}
	return nil
}
