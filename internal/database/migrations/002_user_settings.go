package migrations

import (
	"database/sql"
)

func init() {
	Register(Migration{
		Version: 2,
		Name:    "create_user_settings_table",
		Up:      createUserSettingsTable,
	})
}

// Per-chat settings (daily summary hour, email copy address, ...),
// separate from the global config table.
func createUserSettingsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user_settings (
			chat_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (chat_id, key)
		)
	`)
	return err
}
