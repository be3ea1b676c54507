package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxCartQuantity bounds one cart line so the stored sum always fits an int32 column.
const MaxCartQuantity = math.MaxInt32

// CartItem links one user to one product. Rows are hard-deleted so the
// (user_id, product_id) unique index never collides with dead rows.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product;index" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartLine is a cart item joined with its product at query time.
type CartLine struct {
	ID        uint
	ProductID uint
	Name      string
	Price     decimal.Decimal
	Quantity  int
	ImageURL  string
	FilePath  string
}

// Total is price × quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartTotal sums the line totals.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}
