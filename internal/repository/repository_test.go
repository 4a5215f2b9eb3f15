package repository

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"cargram/internal/config"
	"cargram/internal/database"
	"cargram/internal/stream"
)

// newTestDB opens a throwaway sqlite database with the full schema applied.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestNotifier(t *testing.T) *stream.Notifier {
	t.Helper()
	return stream.NewNotifier()
}
