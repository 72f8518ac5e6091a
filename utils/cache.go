package utils

import (
	"context"
	"fmt"
	"time"

	"reservo/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient holds short-lived data such as pending payment orders.
	CacheClient *redis.Client
	// LockClient is the dedicated client for per-resource locks.
	LockClient *redis.Client
)

func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis db %d: %w", db, err)
	}
	return client, nil
}

// InitCache connects the generic cache client.
func InitCache() error {
	client, err := newRedisClient(config.AppConfig.RedisCacheDB)
	if err != nil {
		return err
	}
	CacheClient = client
	return nil
}

// InitLockCache connects the lock client.
func InitLockCache() error {
	client, err := newRedisClient(config.AppConfig.RedisLockDB)
	if err != nil {
		return err
	}
	LockClient = client
	return nil
}

// RedisClients returns the clients that are connected, for health checks
// and shutdown.
func RedisClients() []*redis.Client {
	var out []*redis.Client
	for _, c := range []*redis.Client{CacheClient, LockClient} {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// CloseCache closes every connected client.
func CloseCache() {
	for _, c := range RedisClients() {
		_ = c.Close()
	}
}
