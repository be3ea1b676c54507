package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProvider creates Stripe Checkout sessions.
type StripeProvider struct {
	api       *client.API
	secretKey string
	publicKey string
}

func NewStripeProvider(secretKey, publicKey string, timeout time.Duration) *StripeProvider {
	backends := stripe.NewBackends(&http.Client{Timeout: timeout})
	return &StripeProvider{
		api:       client.New(secretKey, backends),
		secretKey: secretKey,
		publicKey: publicKey,
	}
}

func (p *StripeProvider) PublicKey() string { return p.publicKey }

func (p *StripeProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if p.secretKey == "" {
		return nil, ErrAuth
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
				UnitAmount: stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if req.ClientReference != "" {
		params.ClientReferenceID = stripe.String(req.ClientReference)
	}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

func (p *StripeProvider) SessionPaid(ctx context.Context, sessionID string) (bool, error) {
	if p.secretKey == "" {
		return false, ErrAuth
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return false, mapStripeError(err)
	}
	return s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}

func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrAuth, stripeErr.Msg)
	}
	return fmt.Errorf("payment: stripe: %w", err)
}
