package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"ulascansenturk/weather-app/internal/city"
)

const keyPrefix = "weather:"

// Cache stores city records in redis as JSON, one key per city.
type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Connect builds a client for addr and verifies it answers PING.
func Connect(ctx context.Context, addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return New(client), nil
}

func (c *Cache) Get(ctx context.Context, key string) (*city.City, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis GET %s: %w", key, err)
	}

	var data city.City
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false, fmt.Errorf("decode cached weather for %s: %w", key, err)
	}

	return &data, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, data *city.City, ttl time.Duration) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, keyPrefix+key, blob, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}
