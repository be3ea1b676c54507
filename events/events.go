// Package events publishes storefront domain events.
package events

import (
	"context"
	"encoding/json"
	"time"

	"gin-bytemarket/logger"
)

const TypeCheckoutCompleted = "checkout.completed"

// CheckoutCompleted is emitted after a cart has been cleared by a checkout.
type CheckoutCompleted struct {
	Type       string        `json:"type"`
	Reference  string        `json:"reference"`
	UserID     uint          `json:"userId"`
	Email      string        `json:"email"`
	Total      string        `json:"total"`
	Currency   string        `json:"currency"`
	Path       string        `json:"path"`
	Items      []LineSummary `json:"items"`
	OccurredAt time.Time     `json:"occurredAt"`
}

type LineSummary struct {
	ProductID uint   `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// Publisher delivers an event keyed by key. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("event", "key", key, "payload", string(payload))
	return nil
}

func (LogPublisher) Close() error { return nil }
