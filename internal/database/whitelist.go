package database

import (
	"database/sql"
	"fmt"
	"time"
)

// WhitelistEntry is an authorized WhatsApp chat
type WhitelistEntry struct {
	PhoneNumber string    `json:"phone_number"`
	AddedAt     time.Time `json:"added_at"`
}

// IsWhitelisted reports whether a chat is authorized to talk to the bot.
func (d *DB) IsWhitelisted(phoneNumber string) (bool, error) {
	var one int
	err := d.QueryRow(`SELECT 1 FROM whitelist WHERE phone_number = ?`, phoneNumber).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check whitelist: %w", err)
	}
	return true, nil
}

// AddToWhitelist authorizes a chat. Returns false if it was already present.
func (d *DB) AddToWhitelist(phoneNumber string) (bool, error) {
	result, err := d.Exec(`
		INSERT INTO whitelist (phone_number) VALUES (?)
		ON CONFLICT(phone_number) DO NOTHING
	`, phoneNumber)
	if err != nil {
		return false, fmt.Errorf("failed to add to whitelist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// RemoveFromWhitelist revokes a chat. Returns false if it was not present.
func (d *DB) RemoveFromWhitelist(phoneNumber string) (bool, error) {
	result, err := d.Exec(`DELETE FROM whitelist WHERE phone_number = ?`, phoneNumber)
	if err != nil {
		return false, fmt.Errorf("failed to remove from whitelist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetWhitelist returns every authorized chat, newest first.
func (d *DB) GetWhitelist() ([]WhitelistEntry, error) {
	rows, err := d.Query(`
		SELECT phone_number, added_at FROM whitelist ORDER BY added_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list whitelist: %w", err)
	}
	defer rows.Close()

	var entries []WhitelistEntry
	for rows.Next() {
		var entry WhitelistEntry
		var addedEpoch int64
		if err := rows.Scan(&entry.PhoneNumber, &addedEpoch); err != nil {
			return nil, fmt.Errorf("failed to scan whitelist row: %w", err)
		}
		entry.AddedAt = time.Unix(addedEpoch, 0)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating whitelist: %w", err)
	}

	return entries, nil
}
