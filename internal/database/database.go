package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"asistente/internal/database/migrations"
)

// DSN options applied to every connection. WAL keeps readers off the
// writer's back, the busy timeout makes the driver wait instead of
// returning SQLITE_BUSY, and foreign keys are on for the usual reasons.
var connOptions = []string{
	"_journal_mode=WAL",
	"_busy_timeout=5000",
	"_foreign_keys=on",
}

type DB struct {
	*sql.DB
}

func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?"+strings.Join(connOptions, "&"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The scheduler and the message processor write from separate
	// goroutines. A single connection serializes them in the driver, so
	// the busy timeout above is a backstop rather than the normal path.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{db}, nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}
