package database

import (
	"fmt"
	"log"
	"os"

	"cargram/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Connect opens (creating if necessary) the embedded SQLite database and
// applies the schema. The database is file-backed: each node owns its own
// authoritative copy, the remote mirror is best-effort only.
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	if err := createDBFileIfNotExists(cfg.DBPath); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", cfg.DBPath)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("Connected to database successfully")
	return db, nil
}

func createDBFileIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create database file: %w", err)
		}
		f.Close()
	}
	return nil
}

func applySchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
