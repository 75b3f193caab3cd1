package database

import (
	"fmt"
	"time"
)

// ChatMessage is one turn of a stored conversation
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SaveMessage appends a conversation turn for a chat.
func (d *DB) SaveMessage(chatID, role, content string) error {
	_, err := d.Exec(`
		INSERT INTO conversations (chat_id, role, content) VALUES (?, ?, ?)
	`, chatID, role, content)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// GetRecentMessages returns the last limit turns of a chat in chronological
// order (oldest first), ready to feed into a model prompt.
func (d *DB) GetRecentMessages(chatID string, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = 8
	}

	rows, err := d.Query(`
		SELECT role, content, timestamp
		FROM conversations
		WHERE chat_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent messages: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		var epoch int64
		if err := rows.Scan(&msg.Role, &msg.Content, &epoch); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Timestamp = time.Unix(epoch, 0)
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	// Reverse into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// ClearConversation deletes a chat's stored history. Returns rows deleted.
func (d *DB) ClearConversation(chatID string) (int64, error) {
	result, err := d.Exec(`DELETE FROM conversations WHERE chat_id = ?`, chatID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear conversation: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return deleted, nil
}

// CountMessages returns the total stored conversation turns across all chats.
func (d *DB) CountMessages() (int, error) {
	var count int
	if err := d.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
