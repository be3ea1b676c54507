package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "bytemarket:blacklist:"

// RedisTokenRepository ブラックリストをRedisに保存する
// TTLはトークンの残り有効期間と同じなので、期限切れのエントリは自動で消える
type RedisTokenRepository struct {
	rdb *redis.Client
}

func NewRedisTokenRepository(rdb *redis.Client) ITokenRepository {
	return &RedisTokenRepository{rdb: rdb}
}

func (r *RedisTokenRepository) AddBlacklistedToken(ctx context.Context, token string, expiresAt int64) error {
	ttl := time.Until(time.Unix(expiresAt, 0))
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, blacklistKeyPrefix+token, 1, ttl).Err()
}

func (r *RedisTokenRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisTokenRepository) CleanExpiredTokens(ctx context.Context) (int64, error) {
	return 0, nil
}
