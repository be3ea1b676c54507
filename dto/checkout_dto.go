package dto

// PaymentForm is the legacy inline card form.
type PaymentForm struct {
	Email      string `form:"email"`
	CardNumber string `form:"card_number"`
	Expiry     string `form:"expiry"`
	CVV        string `form:"cvv"`
}
