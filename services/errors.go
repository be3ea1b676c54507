package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers a missing product or cart item, including an item
	// that belongs to another user.
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProviderAuth       = errors.New("payment provider rejected credentials")
	ErrPaymentNotVerified = errors.New("payment not verified")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateUser      = errors.New("username or email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenBlacklisted   = errors.New("token is blacklisted")
	ErrMissingSecret      = errors.New("SECRET_KEY is not set")
)

// invalidArgument wraps ErrInvalidArgument with a user facing message.
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Message returns the user facing part of an ErrInvalidArgument.
func Message(err error) string {
	if msg, ok := strings.CutPrefix(err.Error(), ErrInvalidArgument.Error()+": "); ok {
		return msg
	}
	return err.Error()
}
