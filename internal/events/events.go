// Package events publishes order and invoice lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Type names a lifecycle event.
type Type string

const (
	OrderConfirmed   Type = "order.confirmed"
	OrderPaid        Type = "order.paid"
	OrderDelivered   Type = "order.delivered"
	OrderCancelled   Type = "order.cancelled"
	InvoiceGenerated Type = "invoice.generated"
)

// Event is the message written to the bus.
type Event struct {
	ID          uuid.UUID       `json:"id"`
	Type        Type            `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// New builds an event; a payload that fails to marshal is dropped.
func New(t Type, aggregateID string, payload any) Event {
	e := Event{ID: uuid.New(), Type: t, AggregateID: aggregateID, OccurredAt: time.Now().UTC()}
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			e.Payload = b
		}
	}
	return e
}

// Publisher delivers events. Callers treat errors as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Emit publishes e and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "event publish failed",
			slog.String("type", string(e.Type)),
			slog.String("aggregate_id", e.AggregateID),
			slog.String("error", err.Error()))
	}
}

// LogPublisher writes events to the structured log. Used when no broker is configured.
type LogPublisher struct{ Logger *slog.Logger }

func (p LogPublisher) Publish(ctx context.Context, e Event) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "event",
		slog.String("type", string(e.Type)),
		slog.String("aggregate_id", e.AggregateID),
		slog.String("event_id", e.ID.String()))
	return nil
}
