// Package payment talks to the hosted payment-session provider.
package payment

import (
	"context"
	"errors"
)

// ErrAuth means the provider rejected the configured credentials.
var ErrAuth = errors.New("payment: provider rejected credentials")

// LineItem is one provider-facing row. UnitAmount is in minor currency units (cents).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

type SessionRequest struct {
	Currency        string
	LineItems       []LineItem
	SuccessURL      string
	CancelURL       string
	CustomerEmail   string
	ClientReference string
}

type Session struct {
	ID  string
	URL string
}

// Provider creates hosted checkout sessions and reports whether one was paid.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	SessionPaid(ctx context.Context, sessionID string) (bool, error)
	PublicKey() string
}
