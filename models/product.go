package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name        string          `gorm:"size:200;not null;index" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string          `gorm:"size:512" json:"imageUrl"`
	Category    string          `gorm:"size:255;not null;index" json:"category"`
	// FilePath is the storage key of the digital good mailed on purchase.
	FilePath string `gorm:"size:512" json:"-"`
	UserID   uint   `gorm:"not null;index" json:"userId"`
}
