package infra

import (
	"context"
	"fmt"
	"time"

	"gin-bytemarket/config"

	"github.com/redis/go-redis/v9"
)

// SetupRedis REDIS_ADDRに接続する
// Redisが設定されていない場合はnil, nilを返す
func SetupRedis(ctx context.Context) (*redis.Client, error) {
	addr := config.RedisAddr()
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
