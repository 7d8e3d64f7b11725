package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

const defaultOptionTTL = 6 * time.Hour

// RedisOptionCache caches leg search results in Redis with a TTL, for
// deployments where several server instances share one cache.
type RedisOptionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOptionCache(client *redis.Client, ttl time.Duration) *RedisOptionCache {
	if ttl <= 0 {
		ttl = defaultOptionTTL
	}
	return &RedisOptionCache{client: client, ttl: ttl}
}

func optionKey(origin, destination, date string) string {
	return "legsearch:" + strings.Join([]string{origin, destination, date}, "|")
}

// Fetch cached options for one leg on one departure date.
func (r *RedisOptionCache) Get(
	ctx context.Context,
	origin, destination, date string,
) ([]domain.TransportOption, bool, error) {
	if r.client == nil {
		return nil, false, errors.New("option cache: redis client is nil")
	}

	if origin == "" || destination == "" || date == "" {
		return nil, false, errors.New("get option cache: origin, destination and date must not be empty")
	}

	raw, err := r.client.Get(ctx, optionKey(origin, destination, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get option cache: redis get: %w", err)
	}

	var options []domain.TransportOption
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil, false, fmt.Errorf("get option cache: decode options: %w", err)
	}

	return options, true, nil
}

// Store the search results for one leg on one departure date.
func (r *RedisOptionCache) Put(
	ctx context.Context,
	origin, destination, date string,
	options []domain.TransportOption,
) error {
	if r.client == nil {
		return errors.New("option cache: redis client is nil")
	}

	if origin == "" || destination == "" || date == "" {
		return errors.New("insert option cache: origin, destination and date must not be empty")
	}

	raw, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("insert option cache: encode options: %w", err)
	}

	if err := r.client.Set(ctx, optionKey(origin, destination, date), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("insert option cache %s->%s on %s: redis set: %w", origin, destination, date, err)
	}

	return nil
}
