package prefs

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const (
	// ThemeKeyPrefix is the key prefix for per-user theme preferences
	ThemeKeyPrefix = "prefs:theme:"
)

// Store defines the interface for user preference storage.
// Using an interface enables testing with mocks and potential future backends.
type Store interface {
	// SetDarkMode records the user's dark-mode choice.
	SetDarkMode(ctx context.Context, userID string, enabled bool) error

	// GetDarkMode returns the user's dark-mode choice.
	// Returns false when the user never set a preference.
	GetDarkMode(ctx context.Context, userID string) (bool, error)
}

// RedisStore implements Store using plain Redis string keys.
type RedisStore struct {
	client *redis.Client
}

// NewStore creates a new preference store backed by Redis.
func NewStore(client *redis.Client) Store {
	return &RedisStore{client: client}
}

// themeKey returns the Redis key for a user's theme preference.
func themeKey(userID string) string {
	return ThemeKeyPrefix + userID
}

// SetDarkMode records the user's dark-mode choice.
func (s *RedisStore) SetDarkMode(ctx context.Context, userID string, enabled bool) error {
	value := "0"
	if enabled {
		value = "1"
	}

	// No TTL: a theme choice should survive until the user changes it.
	if err := s.client.Set(ctx, themeKey(userID), value, 0).Err(); err != nil {
		log.Printf("[Prefs] SetDarkMode failed user=%s: %v", userID, err)
		return fmt.Errorf("set dark mode: %w", err)
	}
	return nil
}

// GetDarkMode returns the user's dark-mode choice, defaulting to light.
func (s *RedisStore) GetDarkMode(ctx context.Context, userID string) (bool, error) {
	value, err := s.client.Get(ctx, themeKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get dark mode: %w", err)
	}
	return value == "1", nil
}
