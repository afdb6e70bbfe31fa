package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"saletype/internal/core/id"
	domainmail "saletype/internal/domain/mail"
	"saletype/internal/infrastructure/storage/postgres"
	"saletype/pkg/logger"
)

// EventSend is the outbox event type of queued mail.
const EventSend = "mail.send"

// Publisher writes outbox events.
type Publisher interface {
	Publish(ctx context.Context, event postgres.DomainEvent) error
}

// OutboxQueue queues messages in the transactional outbox.
type OutboxQueue struct {
	publisher Publisher
}

var _ domainmail.Queue = (*OutboxQueue)(nil)

// NewOutboxQueue creates a queue on top of the outbox publisher.
func NewOutboxQueue(publisher Publisher) *OutboxQueue {
	return &OutboxQueue{publisher: publisher}
}

// Enqueue implements domainmail.Queue.
func (q *OutboxQueue) Enqueue(ctx context.Context, msg domainmail.Message) error {
	recordID, err := id.Parse(msg.RecordID)
	if err != nil {
		return fmt.Errorf("queue mail: invalid record id %q: %w", msg.RecordID, err)
	}
	return q.publisher.Publish(ctx, postgres.DomainEvent{
		AggregateType: msg.Model,
		AggregateID:   recordID,
		EventType:     EventSend,
		Payload:       msg,
	})
}

// OutboxHandler delivers queued mail for the outbox relay.
type OutboxHandler struct {
	gateway domainmail.Gateway
}

var _ postgres.OutboxHandler = (*OutboxHandler)(nil)

// NewOutboxHandler creates a handler delivering through gateway.
func NewOutboxHandler(gateway domainmail.Gateway) *OutboxHandler {
	return &OutboxHandler{gateway: gateway}
}

// Handle implements postgres.OutboxHandler.
func (h *OutboxHandler) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	if msg.EventType != EventSend {
		return fmt.Errorf("no handler for event type %q", msg.EventType)
	}

	var m domainmail.Message
	if err := json.Unmarshal(msg.Payload, &m); err != nil {
		return fmt.Errorf("decode mail payload: %w", err)
	}
	if err := h.gateway.Deliver(ctx, m); err != nil {
		return err
	}
	logger.Info(ctx, "queued mail delivered",
		"message_id", msg.ID,
		"template_id", m.TemplateID,
		"record_id", m.RecordID,
		"retry", msg.RetryCount)
	return nil
}
