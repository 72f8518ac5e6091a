package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reservo/models"

	"github.com/go-redis/redis/v8"
)

const orderKeyPrefix = "payment:order:"

// RedisOrderStore keeps orders in Redis with a TTL so every API instance
// sees the same set.
type RedisOrderStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOrderStore(client *redis.Client, ttl time.Duration) *RedisOrderStore {
	return &RedisOrderStore{client: client, ttl: ttl}
}

func (s *RedisOrderStore) Save(ctx context.Context, order models.PaymentOrder) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}
	return s.client.Set(ctx, orderKeyPrefix+order.OrderID, data, s.ttl).Err()
}

func (s *RedisOrderStore) Get(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	data, err := s.client.Get(ctx, orderKeyPrefix+orderID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	var order models.PaymentOrder
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order %s: %w", orderID, err)
	}
	return &order, nil
}

func (s *RedisOrderStore) Delete(ctx context.Context, orderID string) error {
	return s.client.Del(ctx, orderKeyPrefix+orderID).Err()
}
