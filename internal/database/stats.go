package database

import "fmt"

// Stats holds global bot counters for /stats
type Stats struct {
	TotalMessages    int `json:"total_messages"`
	PendingReminders int `json:"pending_reminders"`
	WhitelistCount   int `json:"whitelist_count"`
	TotalMemories    int `json:"total_memories"`
}

// GetStats collects the counters shown by the /stats command.
func (d *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.TotalMessages, err = d.CountMessages(); err != nil {
		return nil, err
	}
	if stats.PendingReminders, err = d.CountPendingReminders(); err != nil {
		return nil, err
	}
	if stats.TotalMemories, err = d.CountMemories(); err != nil {
		return nil, err
	}

	err = d.QueryRow(`SELECT COUNT(*) FROM whitelist`).Scan(&stats.WhitelistCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count whitelist: %w", err)
	}

	return stats, nil
}
