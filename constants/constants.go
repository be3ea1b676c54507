package constants

// User roles
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Error messages
const (
	ErrProductNotFound    = "Product not found"
	ErrCartItemNotFound   = "Cart item not found"
	ErrUserNotFound       = "User not found"
	ErrUnexpected         = "Unexpected error"
	ErrInvalidID          = "Invalid id"
	ErrInvalidInput       = "Invalid input"
	ErrInvalidQuantity    = "Quantity must be at least 1"
	ErrEmptyCart          = "Your cart is empty"
	ErrProviderAuth       = "Payment provider rejected our credentials, please try again later"
	ErrPaymentNotVerified = "We could not confirm your payment"
	ErrEmptyQuery         = "Search query is required"
	ErrInvalidCredentials = "Invalid email or password"
	ErrDuplicateUser      = "Username or email already exists"
)

// Context keys
const (
	ContextUserKey = "user"
)

const (
	Currency         = "usd"
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	AccessCookieName = "access_token"
)
