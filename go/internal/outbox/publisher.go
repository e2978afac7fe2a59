package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// EventPublisher publishes outbox events to the message channel
type EventPublisher interface {
	Publish(ctx context.Context, event OutboxEvent) error
}

// NATSPublisher publishes events to a JetStream stream
type NATSPublisher struct {
	js            jetstream.JetStream
	subjectPrefix string
}

func NewNATSPublisher(js jetstream.JetStream, subjectPrefix string) *NATSPublisher {
	return &NATSPublisher{
		js:            js,
		subjectPrefix: subjectPrefix,
	}
}

func (p *NATSPublisher) Publish(ctx context.Context, event OutboxEvent) error {
	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, event.EventType)

	envelope := map[string]interface{}{
		"eventId":     event.ID.String(),
		"eventType":   event.EventType,
		"aggregateId": event.AggregateID,
		"timestamp":   event.CreatedAt,
		"payload":     json.RawMessage(event.Payload),
	}

	messageBytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// MsgId gives JetStream a dedupe key; the relay is at-least-once
	if _, err := p.js.Publish(ctx, subject, messageBytes, jetstream.WithMsgID(event.ID.String())); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	log.Debug().
		Str("subject", subject).
		Str("event_id", event.ID.String()).
		Msg("published outbox event")

	return nil
}
