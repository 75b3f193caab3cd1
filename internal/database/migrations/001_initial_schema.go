package migrations

import (
	"database/sql"
)

func init() {
	Register(Migration{
		Version: 1,
		Name:    "initial_schema",
		Up:      createInitialSchema,
	})
}

func createInitialSchema(db *sql.DB) error {
	// Key-value runtime configuration (nombre, personalidad, modelo, ...)
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS whitelist (
			phone_number TEXT PRIMARY KEY,
			added_at INTEGER DEFAULT (strftime('%s', 'now'))
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('user', 'assistant', 'system')),
			content TEXT NOT NULL,
			timestamp INTEGER DEFAULT (strftime('%s', 'now'))
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_conversations_chat
		ON conversations(chat_id, timestamp DESC)
	`)
	if err != nil {
		return err
	}

	// Reminder timestamps are epoch seconds. trigger_at is NULL for undated tasks.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT NOT NULL,
			message TEXT NOT NULL,
			trigger_at INTEGER,
			kind TEXT NOT NULL CHECK(kind IN ('scheduled', 'task')),
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'completed', 'cancelled')),
			completed_at INTEGER,
			created_at INTEGER DEFAULT (strftime('%s', 'now'))
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reminders_pending
		ON reminders(status, kind, trigger_at)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reminders_chat
		ON reminders(chat_id, status)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS memories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT DEFAULT 'general',
			confidence INTEGER DEFAULT 100,
			created_at INTEGER DEFAULT (strftime('%s', 'now')),
			updated_at INTEGER DEFAULT (strftime('%s', 'now'))
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_memories_chat
		ON memories(chat_id, category)
	`)
	return err
}
