package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username string `gorm:"size:50;not null;unique" json:"username"`
	Email    string `gorm:"size:120;not null;unique" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"size:20;not null;default:'buyer'" json:"role"`
}
