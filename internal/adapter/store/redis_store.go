package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zurlegende/storefront-api/internal/entity"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

// RedisCartStore is the swappable Redis backend. Records are stored as
// JSON; abandoned carts fall out via TTL. Per-cart mutation ordering still
// comes from the service layer, same as the memory store.
type RedisCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartStore(rdb *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{rdb: rdb, ttl: ttl}
}

func cartKey(id string) string { return "cart:" + id }

func (s *RedisCartStore) Put(ctx context.Context, cart *entity.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.rdb.Set(ctx, cartKey(cart.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Get(ctx context.Context, id string) (*entity.Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cart %q: %w", id, usecase.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var cart entity.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &cart, nil
}

func (s *RedisCartStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, cartKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

var _ usecase.CartStore = (*RedisCartStore)(nil)

type RedisOrderStore struct {
	rdb *redis.Client
}

func NewRedisOrderStore(rdb *redis.Client) *RedisOrderStore {
	return &RedisOrderStore{rdb: rdb}
}

func orderKey(id string) string { return "order:" + id }

func (s *RedisOrderStore) Put(ctx context.Context, order *entity.Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	// Orders are immutable and never expire with the cart TTL.
	if err := s.rdb.Set(ctx, orderKey(order.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisOrderStore) Get(ctx context.Context, id string) (*entity.Order, error) {
	raw, err := s.rdb.Get(ctx, orderKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("order %q: %w", id, usecase.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var order entity.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &order, nil
}

var _ usecase.OrderStore = (*RedisOrderStore)(nil)
