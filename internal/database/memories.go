package database

import (
	"fmt"
	"time"
)

// Memory is a long-term fact remembered about a chat's owner
type Memory struct {
	ID         int64     `json:"id"`
	ChatID     string    `json:"chat_id"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Confidence int       `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaveMemory stores a long-term memory for a chat.
func (d *DB) SaveMemory(chatID, content, category string, confidence int) (int64, error) {
	if category == "" {
		category = "general"
	}

	result, err := d.Exec(`
		INSERT INTO memories (chat_id, content, category, confidence)
		VALUES (?, ?, ?, ?)
	`, chatID, content, category, confidence)
	if err != nil {
		return 0, fmt.Errorf("failed to save memory: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get memory id: %w", err)
	}

	return id, nil
}

// GetMemories returns a chat's memories, most recently updated first.
func (d *DB) GetMemories(chatID string, limit int) ([]Memory, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.Query(`
		SELECT id, chat_id, content, category, confidence, created_at
		FROM memories
		WHERE chat_id = ?
		ORDER BY updated_at DESC
		LIMIT ?
	`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get memories: %w", err)
	}
	defer rows.Close()

	var memories []Memory
	for rows.Next() {
		var m Memory
		var epoch int64
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Content, &m.Category, &m.Confidence, &epoch); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		m.CreatedAt = time.Unix(epoch, 0)
		memories = append(memories, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memories: %w", err)
	}

	return memories, nil
}

// DeleteMemory removes a memory. Returns false if the id did not exist.
func (d *DB) DeleteMemory(id int64) (bool, error) {
	result, err := d.Exec(`DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete memory: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// CountMemories returns the number of stored memories across all chats.
func (d *DB) CountMemories() (int, error) {
	var count int
	if err := d.QueryRow(`SELECT COUNT(*) FROM memories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count memories: %w", err)
	}
	return count, nil
}
