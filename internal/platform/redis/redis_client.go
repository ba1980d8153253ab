// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout は起動時の疎通確認の上限時間です。
const pingTimeout = 3 * time.Second

// Addr は REDIS_HOST と REDIS_PORT から接続先を組み立てます。未設定の場合は空文字を返します。
func Addr() string {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

// NewRedisClient は Redis に接続します。REDIS_HOST が未設定なら nil, nil を返し、
// 呼び出し側はキャッシュなしで動作します。
func NewRedisClient() (*redis.Client, error) {
	addr := Addr()
	if addr == "" {
		slog.Info("REDIS_HOST not set; running without cache")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// 接続確認
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
