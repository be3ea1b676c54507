// Package migrations スキーマの作成とデモデータの投入
package migrations

import (
	"fmt"

	"gin-bytemarket/models"

	"gorm.io/gorm"
)

// Migrate メインデータベースのマイグレーション
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// MigrateTokens トークンブラックリスト用データベースのマイグレーション
func MigrateTokens(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.BlacklistedToken{}); err != nil {
		return fmt.Errorf("migrate token blacklist database: %w", err)
	}
	return nil
}
