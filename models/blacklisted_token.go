package models

import "gorm.io/gorm"

// BlacklistedToken is a revoked JWT, kept until it would have expired anyway.
type BlacklistedToken struct {
	gorm.Model
	Token     string `gorm:"not null;unique;index"`
	ExpiresAt int64  `gorm:"not null;index"`
}
