// Package events publishes lifecycle events for dashboards and offline
// consumers. Publishing is best-effort: a broker failure is logged and
// never fails the user's request, and with no brokers configured the
// producer is a no-op.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"laundromat/pkg/logger"
)

const (
	TypeSlotBatchSubmitted       = "slot_batch.submitted"
	TypeReservationCreated       = "reservation.created"
	TypeReservationCancelled     = "reservation.cancelled"
	TypeReservationStatusChanged = "reservation.status_changed"
)

type Event struct {
	Type       string         `json:"type"`
	Actor      string         `json:"actor,omitempty"`
	Resource   string         `json:"resource,omitempty"`
	ResourceID string         `json:"resource_id,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	if len(brokers) == 0 {
		log.Info("Kafka brokers not configured, event publishing disabled")
		return &Producer{log: log}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // hash by key keeps per-resource ordering
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}

	log.Info("Kafka event producer configured", "brokers", brokers, "topic", topic)
	return &Producer{writer: writer, log: log}
}

// Publish emits one event keyed by resource id. Errors are logged, not
// returned; the gateway's single-attempt request semantics must never
// depend on the event pipeline.
func (p *Producer) Publish(ctx context.Context, event Event) {
	if p.writer == nil {
		return
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to marshal event", "type", event.Type, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.ResourceID),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish event",
			"type", event.Type,
			"resource_id", event.ResourceID,
			"error", err,
		)
	}
}

func (p *Producer) Close() {
	if p.writer == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		p.log.Error("Failed to close kafka writer", "error", err)
	}
}
