package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 30 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.Order, error) {
	key := cacheKey(userID, orderID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var order domain.Order
	if e2 := json.Unmarshal(data, &order); e2 != nil {
		return nil, fmt.Errorf("unmarshal order failed: %w", e2)
	}

	return &order, nil
}

func (r RedisCache) Set(ctx context.Context, userID int64, order *domain.Order) error {
	key := cacheKey(userID, order.ID)
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order failed: %w", err)
	}

	// Jitter spreads expiry so a burst of placements doesn't expire at once.
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if e2 := r.client.Set(ctx, key, data, r.baseTTL+jitter).Err(); e2 != nil {
		return fmt.Errorf("redis set failed: %w", e2)
	}
	return nil
}

func cacheKey(userID int64, orderID uuid.UUID) string {
	return fmt.Sprintf("order:%d:%s", userID, orderID)
}
