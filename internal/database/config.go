package database

import (
	"database/sql"
	"fmt"
)

// Well-known config keys
const (
	ConfigKeyName        = "nombre"
	ConfigKeyPersonality = "personalidad"
	ConfigKeyModel       = "modelo"
	ConfigKeyEmailCopy   = "email_recordatorios"
)

// GetConfig returns the value for a config key, or "" when unset.
func (d *DB) GetConfig(key string) (string, error) {
	var value string
	err := d.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get config %q: %w", key, err)
	}
	return value, nil
}

// SetConfig upserts a config key.
func (d *DB) SetConfig(key, value string) error {
	_, err := d.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %q: %w", key, err)
	}
	return nil
}

// GetAllConfig returns every config key/value pair.
func (d *DB) GetAllConfig() (map[string]string, error) {
	rows, err := d.Query(`SELECT key, value FROM config`)
	if err != nil {
		return nil, fmt.Errorf("failed to list config: %w", err)
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan config row: %w", err)
		}
		config[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating config: %w", err)
	}

	return config, nil
}

// GetUserSetting returns a per-chat setting, falling back to defaultValue.
func (d *DB) GetUserSetting(chatID, key, defaultValue string) (string, error) {
	var value string
	err := d.QueryRow(`
		SELECT value FROM user_settings WHERE chat_id = ? AND key = ?
	`, chatID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return defaultValue, nil
	}
	if err != nil {
		return defaultValue, fmt.Errorf("failed to get user setting %q: %w", key, err)
	}
	return value, nil
}

// SetUserSetting upserts a per-chat setting.
func (d *DB) SetUserSetting(chatID, key, value string) error {
	_, err := d.Exec(`
		INSERT INTO user_settings (chat_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(chat_id, key) DO UPDATE SET value = excluded.value
	`, chatID, key, value)
	if err != nil {
		return fmt.Errorf("failed to set user setting %q: %w", key, err)
	}
	return nil
}
