package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL defaults
const (
	TTLSummary = 5 * time.Minute // genetics summary per farm/season
	TTLDefault = 5 * time.Minute
)

// Key prefixes
const (
	PrefixSummary = "repro:summary:"
)

// ErrUnavailable returned by reads when no Redis client is configured
var ErrUnavailable = errors.New("redis not available")

// Service Redis-backed cache. A service built with a nil client turns
// every write into a no-op and every read into a miss.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// genetics summary
	GetSummary(ctx context.Context, farmID uint64, scope string, limit int, dest interface{}) error
	SetSummary(ctx context.Context, farmID uint64, scope string, limit int, value interface{}, ttl time.Duration) error
	InvalidateFarm(ctx context.Context, farmID uint64) error
	FlushSummaries(ctx context.Context) (int, error)

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service; client may be nil
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get decodes the cached JSON into dest. A missing key returns redis.Nil.
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrUnavailable
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// SummaryKey builds the key of a cached summary. scope is the season id
// or "all" for the farm-wide view.
func SummaryKey(farmID uint64, scope string, limit int) string {
	return fmt.Sprintf("%s%d:%s:%d", PrefixSummary, farmID, scope, limit)
}

func (c *redisCache) GetSummary(ctx context.Context, farmID uint64, scope string, limit int, dest interface{}) error {
	return c.Get(ctx, SummaryKey(farmID, scope, limit), dest)
}

func (c *redisCache) SetSummary(ctx context.Context, farmID uint64, scope string, limit int, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = TTLSummary
	}
	return c.Set(ctx, SummaryKey(farmID, scope, limit), value, ttl)
}

// InvalidateFarm drops every cached summary of the farm
func (c *redisCache) InvalidateFarm(ctx context.Context, farmID uint64) error {
	if c.client == nil {
		return nil
	}
	_, err := c.deleteByPattern(ctx, fmt.Sprintf("%s%d:*", PrefixSummary, farmID))
	return err
}

// FlushSummaries drops all cached summaries and returns how many keys were removed
func (c *redisCache) FlushSummaries(ctx context.Context) (int, error) {
	if c.client == nil {
		return 0, nil
	}
	return c.deleteByPattern(ctx, PrefixSummary+"*")
}

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) (int, error) {
	deleted := 0
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, iter.Err()
}
