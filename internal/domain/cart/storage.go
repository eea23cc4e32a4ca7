// internal/domain/cart/storage.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCartNotFound indicates no cart has been persisted under the slot yet
var ErrCartNotFound = errors.New("cart not found")

// Storage is the persistence contract for one cart slot. Save overwrites the
// full serialized cart; Load returns ErrCartNotFound when the slot is empty.
type Storage interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
}

// RedisStorage persists a cart as a JSON document under a fixed key
type RedisStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStorage creates a storage bound to one key. The TTL is refreshed
// on every save so an active cart never expires mid-session.
func NewRedisStorage(client *redis.Client, key string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// Load reads and deserializes the cart slot
func (s *RedisStorage) Load(ctx context.Context) ([]Line, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var stored persistedCart
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	return stored.Lines, nil
}

// Save overwrites the cart slot with the full serialized cart
func (s *RedisStorage) Save(ctx context.Context, lines []Line) error {
	data, err := json.Marshal(persistedCart{
		Lines:     lines,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
