package prefs

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

// =============================================================================
// Tests
// =============================================================================

func TestStore_DefaultIsLight(t *testing.T) {
	store := NewStore(setupTestRedis(t))

	dark, err := store.GetDarkMode(context.Background(), "never-set")
	if err != nil {
		t.Fatalf("GetDarkMode: %v", err)
	}
	if dark {
		t.Error("expected light mode for a user with no stored preference")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(setupTestRedis(t))
	ctx := context.Background()

	if err := store.SetDarkMode(ctx, "u1", true); err != nil {
		t.Fatalf("SetDarkMode: %v", err)
	}

	dark, err := store.GetDarkMode(ctx, "u1")
	if err != nil {
		t.Fatalf("GetDarkMode: %v", err)
	}
	if !dark {
		t.Error("expected dark mode after enabling it")
	}

	// Flipping back to light overwrites, not deletes.
	if err := store.SetDarkMode(ctx, "u1", false); err != nil {
		t.Fatalf("SetDarkMode: %v", err)
	}
	dark, err = store.GetDarkMode(ctx, "u1")
	if err != nil {
		t.Fatalf("GetDarkMode: %v", err)
	}
	if dark {
		t.Error("expected light mode after disabling")
	}
}

func TestStore_UsersAreIsolated(t *testing.T) {
	store := NewStore(setupTestRedis(t))
	ctx := context.Background()

	if err := store.SetDarkMode(ctx, "u1", true); err != nil {
		t.Fatalf("SetDarkMode: %v", err)
	}

	dark, err := store.GetDarkMode(ctx, "u2")
	if err != nil {
		t.Fatalf("GetDarkMode: %v", err)
	}
	if dark {
		t.Error("u2 inherited u1's preference")
	}
}
