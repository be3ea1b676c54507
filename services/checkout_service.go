package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gin-bytemarket/constants"
	"gin-bytemarket/dto"
	"gin-bytemarket/events"
	"gin-bytemarket/logger"
	"gin-bytemarket/metrics"
	"gin-bytemarket/models"
	"gin-bytemarket/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PathHosted = "hosted"
	PathInline = "inline"
)

var hundred = decimal.NewFromInt(100)

type CartSummary struct {
	Lines []models.CartLine
	Total decimal.Decimal
}

// Receipt describes a completed checkout. It is never persisted.
type Receipt struct {
	Reference string
	Email     string
	Lines     []models.CartLine
	Total     decimal.Decimal
	EmailSent bool
}

type CheckoutOptions struct {
	BaseURL string
	// VerifySession asks the provider whether a hosted session was paid
	// before the cart is cleared.
	VerifySession bool
}

type ICheckoutService interface {
	Summary(ctx context.Context, userID uint) (*CartSummary, error)
	StartCheckout(ctx context.Context, user *models.User) (string, error)
	CompleteCheckout(ctx context.Context, user *models.User, sessionID string) (*Receipt, error)
	ProcessPayment(ctx context.Context, user *models.User, form dto.PaymentForm) (*Receipt, error)
}

type CheckoutService struct {
	cart      ICartService
	notifier  INotificationService
	provider  payment.Provider
	publisher events.Publisher
	opts      CheckoutOptions
	now       func() time.Time
}

func NewCheckoutService(
	cart ICartService,
	notifier INotificationService,
	provider payment.Provider,
	publisher events.Publisher,
	opts CheckoutOptions,
) ICheckoutService {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &CheckoutService{
		cart:      cart,
		notifier:  notifier,
		provider:  provider,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
	}
}

func (s *CheckoutService) Summary(ctx context.Context, userID uint) (*CartSummary, error) {
	lines, err := s.cart.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartSummary{Lines: lines, Total: models.CartTotal(lines)}, nil
}

// StartCheckout opens a hosted payment session for the user's cart and
// returns the URL to redirect the buyer to. The cart is not modified.
func (s *CheckoutService) StartCheckout(ctx context.Context, user *models.User) (redirectURL string, err error) {
	defer func() { metrics.Checkouts.WithLabelValues("session", metrics.Result(err)).Inc() }()

	lines, err := s.cart.ListItems(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}

	items := make([]payment.LineItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, payment.LineItem{
			Name:       l.Name,
			UnitAmount: ToCents(l.Price),
			Quantity:   int64(l.Quantity),
		})
	}

	session, err := s.provider.CreateSession(ctx, payment.SessionRequest{
		Currency:        constants.Currency,
		LineItems:       items,
		SuccessURL:      s.opts.BaseURL + "/thank-you?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:       s.opts.BaseURL + "/cart",
		CustomerEmail:   user.Email,
		ClientReference: fmt.Sprintf("%d", user.ID),
	})
	if err != nil {
		if errors.Is(err, payment.ErrAuth) {
			return "", ErrProviderAuth
		}
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	logger.FromCtx(ctx).Info("checkout session created",
		"user_id", user.ID, "session_id", session.ID, "total", models.CartTotal(lines).StringFixed(2))
	return session.URL, nil
}

// CompleteCheckout finishes a hosted checkout when the buyer returns from the
// provider. Unless VerifySession is set, reaching this point is taken as proof
// of payment; nothing here confirms the charge with the provider.
func (s *CheckoutService) CompleteCheckout(ctx context.Context, user *models.User, sessionID string) (receipt *Receipt, err error) {
	defer func() { metrics.Checkouts.WithLabelValues(PathHosted, metrics.Result(err)).Inc() }()

	if s.opts.VerifySession {
		if err := s.verify(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	reference := sessionID
	if reference == "" {
		reference = uuid.NewString()
	}
	return s.complete(ctx, user, Recipient{Email: user.Email, Name: user.Username}, PathHosted, reference)
}

// ProcessPayment is the legacy inline card form. The card is only checked for
// shape; nothing is charged.
func (s *CheckoutService) ProcessPayment(ctx context.Context, user *models.User, form dto.PaymentForm) (receipt *Receipt, err error) {
	defer func() { metrics.Checkouts.WithLabelValues(PathInline, metrics.Result(err)).Inc() }()

	if err := ValidatePaymentForm(form); err != nil {
		return nil, err
	}

	lines, err := s.cart.ListItems(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	return s.complete(ctx, user, Recipient{Email: strings.TrimSpace(form.Email), Name: user.Username}, PathInline, uuid.NewString())
}

func (s *CheckoutService) verify(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrPaymentNotVerified
	}
	paid, err := s.provider.SessionPaid(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrAuth) {
			return ErrProviderAuth
		}
		logger.FromCtx(ctx).Warn("checkout session lookup failed", "session_id", sessionID, "error", err)
		return ErrPaymentNotVerified
	}
	if !paid {
		return ErrPaymentNotVerified
	}
	return nil
}

// complete clears the cart, mails the receipt and publishes the event. A
// failed email or publish is logged; the cart stays cleared.
func (s *CheckoutService) complete(ctx context.Context, user *models.User, to Recipient, path, reference string) (*Receipt, error) {
	log := logger.FromCtx(ctx)

	lines, err := s.cart.Clear(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Reference: reference,
		Email:     to.Email,
		Lines:     lines,
		Total:     models.CartTotal(lines),
	}
	if len(lines) == 0 {
		log.Info("checkout completed with an empty cart", "user_id", user.ID, "path", path)
		return receipt, nil
	}

	if err := s.notifier.SendReceipt(ctx, to, lines); err != nil {
		log.Error("cart cleared but receipt email failed",
			"user_id", user.ID, "reference", reference, "to", to.Email, "error", err)
	} else {
		receipt.EmailSent = true
	}

	if err := s.publisher.Publish(ctx, fmt.Sprintf("%d", user.ID), s.event(user, receipt, path)); err != nil {
		log.Warn("failed to publish checkout event", "reference", reference, "error", err)
	}

	log.Info("checkout completed",
		"user_id", user.ID, "path", path, "reference", reference, "total", receipt.Total.StringFixed(2))
	return receipt, nil
}

func (s *CheckoutService) event(user *models.User, receipt *Receipt, path string) events.CheckoutCompleted {
	items := make([]events.LineSummary, 0, len(receipt.Lines))
	for _, l := range receipt.Lines {
		items = append(items, events.LineSummary{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Price.StringFixed(2),
		})
	}
	return events.CheckoutCompleted{
		Type:       events.TypeCheckoutCompleted,
		Reference:  receipt.Reference,
		UserID:     user.ID,
		Email:      receipt.Email,
		Total:      receipt.Total.StringFixed(2),
		Currency:   constants.Currency,
		Path:       path,
		Items:      items,
		OccurredAt: s.now().UTC(),
	}
}

// ToCents converts a price to integer minor units, rounding half away from zero.
func ToCents(price decimal.Decimal) int64 {
	return price.Round(2).Mul(hundred).IntPart()
}

// ValidatePaymentForm checks the inline card form. Checks run in a fixed
// order and the first failure is returned.
func ValidatePaymentForm(form dto.PaymentForm) error {
	email := strings.TrimSpace(form.Email)
	card := strings.TrimSpace(form.CardNumber)
	expiry := strings.TrimSpace(form.Expiry)
	cvv := strings.TrimSpace(form.CVV)

	switch {
	case email == "" || card == "" || expiry == "" || cvv == "":
		return invalidArgument("all payment fields are required")
	case !isDigits(card) || (len(card) != 15 && len(card) != 16):
		return invalidArgument("card number must be 15 or 16 digits")
	case !isDigits(expiry) || len(expiry) != 4:
		return invalidArgument("expiry must be 4 digits (MMYY)")
	case !isDigits(cvv) || len(cvv) != 3:
		return invalidArgument("CVV must be 3 digits")
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
