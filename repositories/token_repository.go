package repositories

import (
	"context"
	"time"

	"gin-bytemarket/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ITokenRepository interface {
	AddBlacklistedToken(ctx context.Context, token string, expiresAt int64) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	CleanExpiredTokens(ctx context.Context) (int64, error)
}

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) ITokenRepository {
	return &TokenRepository{db: db}
}

// AddBlacklistedToken トークンをブラックリストに追加（登録済みの場合は何もしない）
func (r *TokenRepository) AddBlacklistedToken(ctx context.Context, token string, expiresAt int64) error {
	blacklistedToken := models.BlacklistedToken{
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&blacklistedToken).Error
}

func (r *TokenRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.BlacklistedToken{}).Where("token = ?", token).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// CleanExpiredTokens 有効期限切れのトークンを物理削除する
func (r *TokenRepository) CleanExpiredTokens(ctx context.Context) (int64, error) {
	now := time.Now().Unix()
	result := r.db.WithContext(ctx).Unscoped().Where("expires_at < ?", now).Delete(&models.BlacklistedToken{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
