package redisdb

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func Connect(ctx context.Context, addr, password string, db int, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	logger.Info("Successfully connected to Redis", zap.String("addr", addr))
	return rdb, nil
}

func Close(rdb *redis.Client, logger *zap.Logger) {
	if rdb != nil {
		rdb.Close()
		logger.Info("Redis connection closed")
	}
}
